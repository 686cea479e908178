package service

import (
	"context"
	"testing"
	"time"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/moementrabelsi/mma/pkg/config"
	"github.com/moementrabelsi/mma/pkg/jwtutil"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

type fixtureT struct {
	store   store.Store
	svc     *Services
	metrics *metrics.Metrics
	jwt     *jwtutil.JWTUtil
}

func newServices(t *testing.T, static bool) *fixtureT {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	m := metrics.NewNop()
	j := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-secret", Expiration: time.Hour})
	svc := New(st, j, Options{
		StaticProducts:   static,
		DefaultPageLimit: 10,
		Admin:            config.AdminConfig{Username: "admin", Password: "admin123"},
		BcryptCost:       bcrypt.MinCost,
	}, m, zap.NewNop())
	return &fixtureT{store: st, svc: svc, metrics: m, jwt: j}
}

func seedTaxonomy(t *testing.T, f *fixtureT) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Categories.Create(ctx, &model.CategoryInput{ID: ptr("seeds"), Name: ptr("Graines")})
	require.NoError(t, err)
	_, err = f.svc.Categories.Create(ctx, &model.CategoryInput{ID: ptr("equipment"), Name: ptr("Équipement")})
	require.NoError(t, err)
	_, err = f.svc.SubCategories.Create(ctx, &model.SubCategoryInput{ID: ptr("vegetable-seeds"), Name: ptr("Légumes"), CategoryID: ptr("seeds")})
	require.NoError(t, err)
	_, err = f.svc.SubCategories.Create(ctx, &model.SubCategoryInput{ID: ptr("garden-tools"), Name: ptr("Outils"), CategoryID: ptr("equipment")})
	require.NoError(t, err)
}

func productInput(name string, price float64) *model.ProductInput {
	return &model.ProductInput{
		Name:        ptr(name),
		Category:    ptr("seeds"),
		SubCategory: ptr("vegetable-seeds"),
		Description: ptr(name + " description"),
		Image:       ptr("https://example.com/" + name + ".jpg"),
		Price:       ptr(price),
		Attributes:  model.Attributes{"type": "organic", "usage": "home-garden"},
	}
}

func TestProductCreateGetRoundTrip(t *testing.T) {
	f := newServices(t, false)
	seedTaxonomy(t, f)
	ctx := context.Background()

	created, err := f.svc.Products.Create(ctx, productInput("Tomato", 4.5))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.InStock)
	assert.Equal(t, []string{"https://example.com/Tomato.jpg"}, created.Images)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := f.svc.Products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Price, got.Price)
	assert.Equal(t, created.Attributes, got.Attributes)
	assert.Equal(t, created.Images, got.Images)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OperationsCounter.WithLabelValues("product", "create")))
}

func TestProductValidationCollectsEveryViolation(t *testing.T) {
	f := newServices(t, false)
	_, err := f.svc.Products.Create(context.Background(), &model.ProductInput{Name: ptr("  ")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{
		"Product name is required",
		"Category is required",
		"Subcategory is required",
		"Description is required",
		"Image URL is required",
		"Price must be a positive number",
	}, ve.Violations)

	in := productInput("Negative", -1)
	_, err = f.svc.Products.Create(context.Background(), in)
	assert.EqualError(t, err, "Price must be a positive number")
}

func TestProductReferencesAreEnforced(t *testing.T) {
	f := newServices(t, false)
	seedTaxonomy(t, f)
	ctx := context.Background()

	in := productInput("Orphan", 1)
	in.Category = ptr("missing")
	_, err := f.svc.Products.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrReferentialConflict)
	assert.EqualError(t, err, "Category not found")

	in = productInput("Orphan", 1)
	in.SubCategory = ptr("missing")
	_, err = f.svc.Products.Create(ctx, in)
	assert.EqualError(t, err, "Subcategory not found")

	in = productInput("Mismatch", 1)
	in.SubCategory = ptr("garden-tools")
	_, err = f.svc.Products.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrReferentialConflict)
}

func TestProductUpdateMergesSuppliedFields(t *testing.T) {
	f := newServices(t, false)
	seedTaxonomy(t, f)
	ctx := context.Background()

	created, err := f.svc.Products.Create(ctx, productInput("Tomato", 4.5))
	require.NoError(t, err)

	updated, err := f.svc.Products.Update(ctx, created.ID, &model.ProductInput{
		Price:   ptr(6.0),
		InStock: ptr(false),
		Image:   ptr("https://example.com/new.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tomato", updated.Name)
	assert.Equal(t, 6.0, updated.Price)
	assert.False(t, updated.InStock)
	assert.Equal(t, []string{"https://example.com/new.jpg"}, updated.Images)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = f.svc.Products.Update(ctx, "missing", &model.ProductInput{Price: ptr(1.0)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStaticProductsAreMergedAndImmutable(t *testing.T) {
	f := newServices(t, true)
	seedTaxonomy(t, f)
	ctx := context.Background()

	_, err := f.svc.Products.Create(ctx, productInput("Zucchini Seeds", 3))
	require.NoError(t, err)

	page, err := f.svc.Products.List(ctx, query.Params{Filter: query.Filter{Category: "seeds"}})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Premium Organic Seeds Collection", page.Products[0].Name)
	assert.True(t, page.Products[0].IsStatic)
	assert.Equal(t, "Zucchini Seeds", page.Products[1].Name)
	assert.False(t, page.Products[1].IsStatic)
	assert.Equal(t, 2, page.Pagination.TotalProducts)
	assert.Equal(t, 10, page.Pagination.Limit)

	p, err := f.svc.Products.Get(ctx, "static-4")
	require.NoError(t, err)
	assert.True(t, p.IsStatic)

	_, err = f.svc.Products.Update(ctx, "static-4", &model.ProductInput{Price: ptr(1.0)})
	assert.ErrorIs(t, err, apperr.ErrStaticProduct)
	assert.ErrorIs(t, f.svc.Products.Delete(ctx, "static-4"), apperr.ErrStaticProduct)

	in := productInput("Copy", 1)
	in.ID = ptr("static-1")
	_, err = f.svc.Products.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrStaticProduct)
}

func TestListPaginatesTheUnion(t *testing.T) {
	f := newServices(t, true)
	seedTaxonomy(t, f)
	ctx := context.Background()

	for _, price := range []float64{1, 2, 3} {
		_, err := f.svc.Products.Create(ctx, productInput("Cheap", price))
		require.NoError(t, err)
	}

	page, err := f.svc.Products.List(ctx, query.Params{SortBy: query.SortPriceAsc, Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, page.Pagination.TotalProducts)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPrevPage)
	require.Len(t, page.Products, 3)
	assert.Equal(t, "static-4", page.Products[0].ID)
	assert.Equal(t, "static-3", page.Products[1].ID)
	assert.Equal(t, "static-1", page.Products[2].ID)
}

func TestTypesAndUsagesIncludeStatic(t *testing.T) {
	f := newServices(t, true)
	seedTaxonomy(t, f)
	ctx := context.Background()

	in := productInput("Hybrid", 1)
	in.Attributes = model.Attributes{"type": "hybrid", "usage": "greenhouse"}
	_, err := f.svc.Products.Create(ctx, in)
	require.NoError(t, err)

	types, err := f.svc.Products.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hybrid", "organic", "premium", "professional"}, types)

	usages, err := f.svc.Products.Usages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"commercial", "greenhouse", "home-garden"}, usages)
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	f := newServices(t, false)
	seedTaxonomy(t, f)
	ctx := context.Background()

	created, err := f.svc.Products.Create(ctx, productInput("Tomato", 1))
	require.NoError(t, err)

	err = f.svc.Categories.Delete(ctx, "seeds")
	assert.ErrorIs(t, err, apperr.ErrReferentialConflict)
	assert.EqualError(t, err, "Cannot delete category: 1 product(s) are using it")

	err = f.svc.SubCategories.Delete(ctx, "vegetable-seeds")
	assert.EqualError(t, err, "Cannot delete subcategory: 1 product(s) are using it")

	require.NoError(t, f.svc.Products.Delete(ctx, created.ID))
	require.NoError(t, f.svc.SubCategories.Delete(ctx, "vegetable-seeds"))
	require.NoError(t, f.svc.Categories.Delete(ctx, "seeds"))

	assert.ErrorIs(t, f.svc.Categories.Delete(ctx, "seeds"), apperr.ErrNotFound)
}

func TestCategoryValidationAndDuplicates(t *testing.T) {
	f := newServices(t, false)
	ctx := context.Background()

	_, err := f.svc.Categories.Create(ctx, &model.CategoryInput{Name: ptr(" ")})
	assert.EqualError(t, err, "Category name is required")

	c, err := f.svc.Categories.Create(ctx, &model.CategoryInput{Name: ptr("Tools")})
	require.NoError(t, err)
	assert.Len(t, c.ID, 36)

	_, err = f.svc.Categories.Create(ctx, &model.CategoryInput{ID: ptr(c.ID), Name: ptr("Again")})
	assert.ErrorIs(t, err, apperr.ErrReferentialConflict)

	updated, err := f.svc.Categories.Update(ctx, c.ID, &model.CategoryInput{Description: ptr("Hand tools")})
	require.NoError(t, err)
	assert.Equal(t, "Tools", updated.Name)
	assert.Equal(t, "Hand tools", updated.Description)
}

func TestSubCategoryRequiresExistingCategory(t *testing.T) {
	f := newServices(t, false)
	ctx := context.Background()

	_, err := f.svc.SubCategories.Create(ctx, &model.SubCategoryInput{Name: ptr("Orphan"), CategoryID: ptr("missing")})
	assert.ErrorIs(t, err, apperr.ErrReferentialConflict)
	assert.EqualError(t, err, "Category not found")

	_, err = f.svc.SubCategories.Create(ctx, &model.SubCategoryInput{Name: ptr("No parent")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMemorySourceRejectsWrites(t *testing.T) {
	svc := New(store.NewFixtureStore(), nil, Options{StaticProducts: true}, nil, nil)
	ctx := context.Background()

	_, err := svc.Categories.Create(ctx, &model.CategoryInput{Name: ptr("New")})
	assert.ErrorIs(t, err, apperr.ErrReadOnly)

	page, err := svc.Products.List(ctx, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Pagination.TotalProducts)
}
