package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticProductsResolveToReferenceCategories(t *testing.T) {
	categories := map[string]bool{}
	for _, c := range Categories() {
		categories[c.ID] = true
	}
	subs := map[string]string{}
	for _, s := range SubCategories() {
		assert.True(t, categories[s.CategoryID], "subcategory %s points to unknown category %s", s.ID, s.CategoryID)
		subs[s.ID] = s.CategoryID
	}

	ids := map[string]bool{}
	for _, p := range StaticProducts() {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true

		assert.True(t, p.IsStatic)
		assert.True(t, p.InStock)
		assert.NotEmpty(t, p.Images)
		assert.Equal(t, p.Category, subs[p.SubCategory], "product %s", p.ID)
	}
	assert.Len(t, ids, 5)
}

func TestStaticProductsAreCopies(t *testing.T) {
	first := StaticProducts()
	first[0].Name = "changed"
	first[0].Attributes["type"] = "changed"

	again, ok := StaticProduct(first[0].ID)
	assert.True(t, ok)
	assert.Equal(t, "Premium Organic Seeds Collection", again.Name)
	assert.Equal(t, "organic", again.Attributes.Get("type"))
}

func TestIsStaticID(t *testing.T) {
	assert.True(t, IsStaticID("static-3"))
	assert.False(t, IsStaticID("static-9"))
	assert.False(t, IsStaticID(""))
}
