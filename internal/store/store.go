// Package store abstracts where catalog records live.
//
// Four backends implement Store: GormStore (postgres or sqlite), FileStore (a JSON
// document pair on disk) and FixtureStore (read-only built-in data). WithFallback
// decorates a primary store so that reads survive an unreachable database.
package store

import (
	"context"

	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
)

// CategoryStore persists categories
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id string) error
}

// SubCategoryStore persists subcategories
type SubCategoryStore interface {
	// List returns every subcategory, or only those of categoryID when it is not empty
	List(ctx context.Context, categoryID string) ([]model.SubCategory, error)
	Get(ctx context.Context, id string) (*model.SubCategory, error)
	Create(ctx context.Context, s *model.SubCategory) error
	Update(ctx context.Context, s *model.SubCategory) error
	Delete(ctx context.Context, id string) error
}

// ProductStore persists products
type ProductStore interface {
	// List returns the persisted products matching filter, unsorted
	List(ctx context.Context, filter query.Filter) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	CountBySubCategory(ctx context.Context, subCategoryID string) (int64, error)
	// DistinctAttribute returns the distinct non-empty values of an attribute key
	DistinctAttribute(ctx context.Context, key string) ([]string, error)
}

// AdminStore persists admin credentials
type AdminStore interface {
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id string) (*model.Admin, error)
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
	Update(ctx context.Context, a *model.Admin) error
}

// Store is one complete data source
type Store interface {
	Categories() CategoryStore
	SubCategories() SubCategoryStore
	Products() ProductStore
	Admins() AdminStore
	// Name identifies the backend in logs and health output
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

// attributeKeys are the only attribute keys that may be queried as distinct values
var attributeKeys = map[string]bool{
	model.AttributeType:  true,
	model.AttributeUsage: true,
}
