package client

import (
	"context"
	"sort"

	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"github.com/moementrabelsi/mma/internal/store"
	"go.uber.org/zap"
)

// LocalPageLimit is the page size used when listings are served from the local fixtures
const LocalPageLimit = 6

// Catalog reads from a remote API and falls back to a local store when the API
// cannot be reached. Writes always go to the API.
type Catalog struct {
	*Client
	local  store.Store
	logger *zap.Logger
}

// NewCatalog wraps c with local as the read fallback, usually store.NewFixtureStore()
func NewCatalog(c *Client, local store.Store) *Catalog {
	return &Catalog{Client: c, local: local, logger: c.Logger}
}

func fallback[T any](cat *Catalog, op string, remote func() (T, error), local func() (T, error)) store.Result[T] {
	res := store.Attempt(remote()).OrFallback(IsNetworkError, local)
	if res.FromFallback {
		cat.logger.Warn("API unreachable, serving local data", zap.String("operation", op))
	}
	return res
}

func (cat *Catalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	return fallback(cat, "list_categories",
		func() ([]model.Category, error) { return cat.Client.ListCategories(ctx) },
		func() ([]model.Category, error) { return cat.local.Categories().List(ctx) },
	).Unwrap()
}

func (cat *Catalog) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return fallback(cat, "get_category",
		func() (*model.Category, error) { return cat.Client.GetCategory(ctx, id) },
		func() (*model.Category, error) { return cat.local.Categories().Get(ctx, id) },
	).Unwrap()
}

func (cat *Catalog) ListSubCategories(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	return fallback(cat, "list_subcategories",
		func() ([]model.SubCategory, error) { return cat.Client.ListSubCategories(ctx, categoryID) },
		func() ([]model.SubCategory, error) { return cat.local.SubCategories().List(ctx, categoryID) },
	).Unwrap()
}

func (cat *Catalog) GetSubCategory(ctx context.Context, id string) (*model.SubCategory, error) {
	return fallback(cat, "get_subcategory",
		func() (*model.SubCategory, error) { return cat.Client.GetSubCategory(ctx, id) },
		func() (*model.SubCategory, error) { return cat.local.SubCategories().Get(ctx, id) },
	).Unwrap()
}

// ListProducts lists remotely, or filters, sorts and paginates the local products
func (cat *Catalog) ListProducts(ctx context.Context, params query.Params) (*model.ProductPage, error) {
	return fallback(cat, "list_products",
		func() (*model.ProductPage, error) { return cat.Client.ListProducts(ctx, params) },
		func() (*model.ProductPage, error) {
			local := params
			local.Normalize(LocalPageLimit)
			products, err := cat.local.Products().List(ctx, local.Filter)
			if err != nil {
				return nil, err
			}
			page := query.Run(products, local)
			return &page, nil
		},
	).Unwrap()
}

func (cat *Catalog) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return fallback(cat, "get_product",
		func() (*model.Product, error) { return cat.Client.GetProduct(ctx, id) },
		func() (*model.Product, error) { return cat.local.Products().Get(ctx, id) },
	).Unwrap()
}

func (cat *Catalog) ListTypes(ctx context.Context) ([]string, error) {
	return fallback(cat, "list_types",
		func() ([]string, error) { return cat.Client.ListTypes(ctx) },
		func() ([]string, error) { return cat.localAttribute(ctx, model.AttributeType) },
	).Unwrap()
}

func (cat *Catalog) ListUsages(ctx context.Context) ([]string, error) {
	return fallback(cat, "list_usages",
		func() ([]string, error) { return cat.Client.ListUsages(ctx) },
		func() ([]string, error) { return cat.localAttribute(ctx, model.AttributeUsage) },
	).Unwrap()
}

func (cat *Catalog) localAttribute(ctx context.Context, key string) ([]string, error) {
	values, err := cat.local.Products().DistinctAttribute(ctx, key)
	if err != nil {
		return nil, err
	}
	sort.Strings(values)
	return values, nil
}
