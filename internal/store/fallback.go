package store

import (
	"context"

	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"go.uber.org/zap"
)

// FallbackStore answers catalog reads from a secondary store when the primary cannot be reached.
// Writes and admin lookups always go to the primary.
type FallbackStore struct {
	primary   Store
	secondary Store
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// WithFallback decorates primary so that reads failing with IsUnavailable are served by secondary
func WithFallback(primary, secondary Store, m *metrics.Metrics, log *zap.Logger) *FallbackStore {
	if m == nil {
		m = metrics.NewNop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FallbackStore{primary: primary, secondary: secondary, metrics: m, log: log}
}

func (s *FallbackStore) Categories() CategoryStore       { return fallbackCategories{s} }
func (s *FallbackStore) SubCategories() SubCategoryStore { return fallbackSubCategories{s} }
func (s *FallbackStore) Products() ProductStore          { return fallbackProducts{s} }
func (s *FallbackStore) Admins() AdminStore              { return s.primary.Admins() }

func (s *FallbackStore) Name() string { return s.primary.Name() + "+" + s.secondary.Name() }

func (s *FallbackStore) Ping(ctx context.Context) error { return s.primary.Ping(ctx) }

func (s *FallbackStore) Close() error {
	err := s.primary.Close()
	if cerr := s.secondary.Close(); err == nil {
		err = cerr
	}
	return err
}

// read runs primary and falls back to secondary on connection failures
func read[T any](s *FallbackStore, op string, primary, secondary func() (T, error)) (T, error) {
	r := Attempt(primary()).OrFallback(IsUnavailable, func() (T, error) {
		s.log.Warn("Primary data source unavailable, serving fixtures",
			zap.String("operation", op))
		s.metrics.RecordFallback(op)
		return secondary()
	})
	return r.Unwrap()
}

type fallbackCategories struct{ s *FallbackStore }

func (f fallbackCategories) List(ctx context.Context) ([]model.Category, error) {
	return read(f.s, "categories.list",
		func() ([]model.Category, error) { return f.s.primary.Categories().List(ctx) },
		func() ([]model.Category, error) { return f.s.secondary.Categories().List(ctx) })
}

func (f fallbackCategories) Get(ctx context.Context, id string) (*model.Category, error) {
	return read(f.s, "categories.get",
		func() (*model.Category, error) { return f.s.primary.Categories().Get(ctx, id) },
		func() (*model.Category, error) { return f.s.secondary.Categories().Get(ctx, id) })
}

func (f fallbackCategories) Create(ctx context.Context, c *model.Category) error {
	return f.s.primary.Categories().Create(ctx, c)
}

func (f fallbackCategories) Update(ctx context.Context, c *model.Category) error {
	return f.s.primary.Categories().Update(ctx, c)
}

func (f fallbackCategories) Delete(ctx context.Context, id string) error {
	return f.s.primary.Categories().Delete(ctx, id)
}

type fallbackSubCategories struct{ s *FallbackStore }

func (f fallbackSubCategories) List(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	return read(f.s, "subcategories.list",
		func() ([]model.SubCategory, error) { return f.s.primary.SubCategories().List(ctx, categoryID) },
		func() ([]model.SubCategory, error) { return f.s.secondary.SubCategories().List(ctx, categoryID) })
}

func (f fallbackSubCategories) Get(ctx context.Context, id string) (*model.SubCategory, error) {
	return read(f.s, "subcategories.get",
		func() (*model.SubCategory, error) { return f.s.primary.SubCategories().Get(ctx, id) },
		func() (*model.SubCategory, error) { return f.s.secondary.SubCategories().Get(ctx, id) })
}

func (f fallbackSubCategories) Create(ctx context.Context, sub *model.SubCategory) error {
	return f.s.primary.SubCategories().Create(ctx, sub)
}

func (f fallbackSubCategories) Update(ctx context.Context, sub *model.SubCategory) error {
	return f.s.primary.SubCategories().Update(ctx, sub)
}

func (f fallbackSubCategories) Delete(ctx context.Context, id string) error {
	return f.s.primary.SubCategories().Delete(ctx, id)
}

type fallbackProducts struct{ s *FallbackStore }

func (f fallbackProducts) List(ctx context.Context, filter query.Filter) ([]model.Product, error) {
	return read(f.s, "products.list",
		func() ([]model.Product, error) { return f.s.primary.Products().List(ctx, filter) },
		func() ([]model.Product, error) { return f.s.secondary.Products().List(ctx, filter) })
}

func (f fallbackProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	return read(f.s, "products.get",
		func() (*model.Product, error) { return f.s.primary.Products().Get(ctx, id) },
		func() (*model.Product, error) { return f.s.secondary.Products().Get(ctx, id) })
}

func (f fallbackProducts) Create(ctx context.Context, p *model.Product) error {
	return f.s.primary.Products().Create(ctx, p)
}

func (f fallbackProducts) Update(ctx context.Context, p *model.Product) error {
	return f.s.primary.Products().Update(ctx, p)
}

func (f fallbackProducts) Delete(ctx context.Context, id string) error {
	return f.s.primary.Products().Delete(ctx, id)
}

// Reference counts guard deletes, which never fall back
func (f fallbackProducts) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return f.s.primary.Products().CountByCategory(ctx, categoryID)
}

func (f fallbackProducts) CountBySubCategory(ctx context.Context, subCategoryID string) (int64, error) {
	return f.s.primary.Products().CountBySubCategory(ctx, subCategoryID)
}

func (f fallbackProducts) DistinctAttribute(ctx context.Context, key string) ([]string, error) {
	return read(f.s, "products.distinct",
		func() ([]string, error) { return f.s.primary.Products().DistinctAttribute(ctx, key) },
		func() ([]string, error) { return f.s.secondary.Products().DistinctAttribute(ctx, key) })
}
