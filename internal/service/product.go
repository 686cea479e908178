package service

import (
	"context"
	"errors"
	"sort"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/fixture"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"go.uber.org/zap"
)

// ProductService manages products and merges the static catalog into reads
type ProductService struct {
	*base
	staticProducts bool
	defaultLimit   int
}

// DefaultLimit is the page size used when a request does not name one
func (s *ProductService) DefaultLimit() int { return s.defaultLimit }

func (s *ProductService) isStatic(id string) bool {
	return s.staticProducts && fixture.IsStaticID(id)
}

// List filters the persisted and static products together, then sorts and paginates the union
func (s *ProductService) List(ctx context.Context, params query.Params) (*model.ProductPage, error) {
	params.Normalize(s.defaultLimit)

	records, err := s.store.Products().List(ctx, params.Filter)
	if err != nil {
		return nil, err
	}
	if s.staticProducts {
		records = mergeStatic(records, query.Apply(fixture.StaticProducts(), params.Filter))
	}

	query.SortProducts(records, params.SortBy)
	page := query.Paginate(records, params.Page, params.Limit)
	return &page, nil
}

// mergeStatic appends the static products, dropping stored records that shadow a static id
func mergeStatic(stored, static []model.Product) []model.Product {
	out := make([]model.Product, 0, len(stored)+len(static))
	for _, p := range stored {
		if !fixture.IsStaticID(p.ID) {
			out = append(out, p)
		}
	}
	return append(out, static...)
}

// Get looks in the static catalog first, then in the store
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	if s.staticProducts {
		if p, ok := fixture.StaticProduct(id); ok {
			s.metrics.RecordProductView(p.ID, p.Category)
			return &p, nil
		}
	}
	p, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordProductView(p.ID, p.Category)
	return p, nil
}

// Create validates and stores a new product
func (s *ProductService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	now := s.timestamp()
	p := &model.Product{
		ID:         s.newID(in.ID),
		InStock:    true,
		Attributes: model.Attributes{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	in.ApplyTo(p)
	if fixture.IsStaticID(p.ID) {
		return nil, apperr.StaticProduct()
	}

	var extra []string
	if in.Price == nil {
		extra = append(extra, "Price must be a positive number")
	}
	if err := s.check(ctx, p, extra...); err != nil {
		return nil, err
	}
	if _, err := s.store.Products().Get(ctx, p.ID); err == nil {
		return nil, apperr.Conflict("Product with this id already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	p.Normalize()
	if err := s.store.Products().Create(ctx, p); err != nil {
		s.log.Error("Failed to create product", zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordOperation("product", "create")
	s.log.Info("Product created successfully",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
		zap.String("category", p.Category))
	return p, nil
}

// Update merges the supplied fields over a stored product; static products are immutable
func (s *ProductService) Update(ctx context.Context, id string, in *model.ProductInput) (*model.Product, error) {
	if fixture.IsStaticID(id) {
		return nil, apperr.StaticProduct()
	}
	p, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldImage := p.Image
	in.ApplyTo(p)
	p.UpdatedAt = s.timestamp()
	// a new main image without a new gallery replaces a gallery that was only the old image
	if in.Images == nil && p.Image != oldImage && len(p.Images) == 1 && p.Images[0] == oldImage {
		p.Images = nil
	}

	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	p.Normalize()
	if err := s.store.Products().Update(ctx, p); err != nil {
		s.log.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordOperation("product", "update")
	s.log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.Float64("price", p.Price),
		zap.Bool("in_stock", p.InStock))
	return p, nil
}

// check validates p and resolves its category and subcategory
func (s *ProductService) check(ctx context.Context, p *model.Product, extra ...string) error {
	msgs := append(violations(s.validate, p), extra...)
	if err := apperr.Validation(msgs...); err != nil {
		return err
	}

	if _, err := s.store.Categories().Get(ctx, p.Category); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Conflict("Category not found")
		}
		return err
	}
	sub, err := s.store.SubCategories().Get(ctx, p.SubCategory)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Conflict("Subcategory not found")
		}
		return err
	}
	if sub.CategoryID != p.Category {
		return apperr.Conflict("Subcategory %s does not belong to category %s", sub.ID, p.Category)
	}
	return nil
}

// Delete removes a stored product; static products are immutable
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if fixture.IsStaticID(id) {
		return apperr.StaticProduct()
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		}
		return err
	}

	s.metrics.RecordOperation("product", "delete")
	s.log.Info("Product deleted successfully", zap.String("product_id", id))
	return nil
}

// Types returns the sorted distinct product types
func (s *ProductService) Types(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, model.AttributeType)
}

// Usages returns the sorted distinct product usages
func (s *ProductService) Usages(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, model.AttributeUsage)
}

func (s *ProductService) distinct(ctx context.Context, key string) ([]string, error) {
	values, err := s.store.Products().DistinctAttribute(ctx, key)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range values {
		add(v)
	}
	if s.staticProducts {
		for _, p := range fixture.StaticProducts() {
			add(p.Attributes.Get(key))
		}
	}
	sort.Strings(out)
	return out, nil
}
