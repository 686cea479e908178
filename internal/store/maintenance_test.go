package store

import (
	"context"
	"strings"
	"testing"

	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
  "categories": [
    {"id": "seeds", "name": "Graines"},
    {"id": "equipment", "name": "Équipement"}
  ],
  "subCategories": [
    {"id": "vegetable-seeds", "name": "Graines de Légumes", "categoryId": "seeds"},
    {"id": "garden-tools", "name": "Outils de Jardin", "categoryId": "equipment"}
  ],
  "products": [
    {"id": "p1", "name": "Tomato seeds", "category": "seeds", "subCategory": "vegetable-seeds",
     "description": "Heirloom", "image": "img-1", "price": 3.2, "attributes": {"type": "organic"}},
    {"id": "p2", "name": "Trowel", "category": "equipment", "subCategory": "garden-tools",
     "description": "Steel", "image": "img-2", "price": 12, "inStock": false}
  ]
}`

func TestReadDocumentDefaults(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(catalogJSON))
	require.NoError(t, err)
	require.Len(t, doc.Products, 2)
	assert.True(t, doc.Products[0].InStock)
	assert.False(t, doc.Products[1].InStock)
	assert.Equal(t, "organic", doc.Products[0].Attributes.Get(model.AttributeType))

	_, err = ReadDocument(strings.NewReader(`{"products": [`))
	assert.Error(t, err)
}

func TestImportIntoEmptyStore(t *testing.T) {
	writableStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		doc, err := ReadDocument(strings.NewReader(catalogJSON))
		require.NoError(t, err)

		stats, err := Import(ctx, s, doc)
		require.NoError(t, err)
		assert.False(t, stats.Skipped)
		assert.Equal(t, ImportStats{Categories: 2, SubCategories: 2, Products: 2}, stats)

		p, err := s.Products().Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, []string{"img-1"}, p.Images)
		assert.False(t, p.CreatedAt.IsZero())

		counts, err := Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 2, counts.Categories)
		assert.Equal(t, 2, counts.SubCategories)
		assert.Equal(t, 2, counts.Products)

		// a second run leaves the populated store alone
		stats, err = Import(ctx, s, doc)
		require.NoError(t, err)
		assert.True(t, stats.Skipped)
		assert.Zero(t, stats.Products)
	})
}

func TestImportSkipsPopulatedStore(t *testing.T) {
	writableStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Categories().Create(ctx, &model.Category{ID: "existing", Name: "Existing"}))

		doc, err := ReadDocument(strings.NewReader(catalogJSON))
		require.NoError(t, err)
		stats, err := Import(ctx, s, doc)
		require.NoError(t, err)
		assert.True(t, stats.Skipped)

		products, err := s.Products().List(ctx, query.Filter{})
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestClearProductsAndClearAll(t *testing.T) {
	writableStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		doc, err := ReadDocument(strings.NewReader(catalogJSON))
		require.NoError(t, err)
		_, err = Import(ctx, s, doc)
		require.NoError(t, err)
		require.NoError(t, s.Admins().Create(ctx, &model.Admin{ID: "a1", Username: "admin", PasswordHash: "x", IsAdmin: true}))

		n, err := ClearProducts(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		counts, err := Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, Counts{Categories: 2, SubCategories: 2, Admins: 1}, counts)

		removed, err := ClearAll(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, Counts{Categories: 2, SubCategories: 2}, removed)

		counts, err = Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, Counts{Admins: 1}, counts)
	})
}

func TestClearOnReadOnlyStore(t *testing.T) {
	_, err := ClearProducts(context.Background(), NewFixtureStore())
	assert.Error(t, err)
}
