package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/fixture"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
)

// FixtureStore serves the built-in catalog from memory.
// The catalog is read-only; admins live in process memory so that a bootstrap admin can log in.
type FixtureStore struct {
	categories    []model.Category
	subCategories []model.SubCategory
	products      []model.Product

	mu     sync.RWMutex
	admins []model.Admin
}

// NewFixtureStore loads the built-in catalog
func NewFixtureStore() *FixtureStore {
	return &FixtureStore{
		categories:    fixture.Categories(),
		subCategories: fixture.SubCategories(),
		products:      fixture.StaticProducts(),
	}
}

func (s *FixtureStore) Categories() CategoryStore       { return fixtureCategories{s} }
func (s *FixtureStore) SubCategories() SubCategoryStore { return fixtureSubCategories{s} }
func (s *FixtureStore) Products() ProductStore          { return fixtureProducts{s} }
func (s *FixtureStore) Admins() AdminStore              { return &fixtureAdmins{s} }

func (s *FixtureStore) Name() string                   { return "memory" }
func (s *FixtureStore) Ping(ctx context.Context) error { return nil }
func (s *FixtureStore) Close() error                   { return nil }

type fixtureCategories struct{ s *FixtureStore }

func (f fixtureCategories) List(ctx context.Context) ([]model.Category, error) {
	return append([]model.Category{}, f.s.categories...), nil
}

func (f fixtureCategories) Get(ctx context.Context, id string) (*model.Category, error) {
	if i := indexOf(f.s.categories, id, categoryID); i >= 0 {
		c := f.s.categories[i]
		return &c, nil
	}
	return nil, apperr.NotFound("Category")
}

func (fixtureCategories) Create(context.Context, *model.Category) error { return apperr.ReadOnly() }
func (fixtureCategories) Update(context.Context, *model.Category) error { return apperr.ReadOnly() }
func (fixtureCategories) Delete(context.Context, string) error          { return apperr.ReadOnly() }

type fixtureSubCategories struct{ s *FixtureStore }

func (f fixtureSubCategories) List(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	out := []model.SubCategory{}
	for _, sub := range f.s.subCategories {
		if categoryID == "" || sub.CategoryID == categoryID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f fixtureSubCategories) Get(ctx context.Context, id string) (*model.SubCategory, error) {
	if i := indexOf(f.s.subCategories, id, subCategoryID); i >= 0 {
		sub := f.s.subCategories[i]
		return &sub, nil
	}
	return nil, apperr.NotFound("SubCategory")
}

func (fixtureSubCategories) Create(context.Context, *model.SubCategory) error {
	return apperr.ReadOnly()
}
func (fixtureSubCategories) Update(context.Context, *model.SubCategory) error {
	return apperr.ReadOnly()
}
func (fixtureSubCategories) Delete(context.Context, string) error { return apperr.ReadOnly() }

type fixtureProducts struct{ s *FixtureStore }

func (f fixtureProducts) List(ctx context.Context, filter query.Filter) ([]model.Product, error) {
	return query.Apply(fixture.StaticProducts(), filter), nil
}

func (f fixtureProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	if p, ok := fixture.StaticProduct(id); ok {
		return &p, nil
	}
	return nil, apperr.NotFound("Product")
}

func (fixtureProducts) Create(context.Context, *model.Product) error { return apperr.ReadOnly() }
func (fixtureProducts) Update(context.Context, *model.Product) error { return apperr.ReadOnly() }
func (fixtureProducts) Delete(context.Context, string) error         { return apperr.ReadOnly() }

func (f fixtureProducts) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	for _, p := range f.s.products {
		if p.Category == categoryID {
			n++
		}
	}
	return n, nil
}

func (f fixtureProducts) CountBySubCategory(ctx context.Context, subCategoryID string) (int64, error) {
	var n int64
	for _, p := range f.s.products {
		if p.SubCategory == subCategoryID {
			n++
		}
	}
	return n, nil
}

func (f fixtureProducts) DistinctAttribute(ctx context.Context, key string) ([]string, error) {
	if !attributeKeys[key] {
		return nil, apperr.Validation(fmt.Sprintf("unsupported attribute %q", key))
	}
	return distinctAttribute(f.s.products, key), nil
}

type fixtureAdmins struct{ s *FixtureStore }

func (f *fixtureAdmins) Count(ctx context.Context) (int64, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	return int64(len(f.s.admins)), nil
}

func (f *fixtureAdmins) find(match func(*model.Admin) bool) (*model.Admin, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	for i := range f.s.admins {
		if match(&f.s.admins[i]) {
			a := f.s.admins[i]
			return &a, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fixtureAdmins) Get(ctx context.Context, id string) (*model.Admin, error) {
	return f.find(func(a *model.Admin) bool { return a.ID == id })
}

func (f *fixtureAdmins) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return f.find(func(a *model.Admin) bool { return a.Username == username })
}

func (f *fixtureAdmins) Create(ctx context.Context, a *model.Admin) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.admins {
		if existing.ID == a.ID || existing.Username == a.Username {
			return apperr.Conflict("User already exists")
		}
	}
	f.s.admins = append(f.s.admins, *a)
	return nil
}

func (f *fixtureAdmins) Update(ctx context.Context, a *model.Admin) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i := range f.s.admins {
		if f.s.admins[i].ID == a.ID {
			f.s.admins[i] = *a
			return nil
		}
	}
	return apperr.NotFound("User")
}
