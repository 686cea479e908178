package store

import (
	"context"
	"testing"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureStoreIsReadOnly(t *testing.T) {
	s := NewFixtureStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.Categories().Create(ctx, &model.Category{ID: "x", Name: "x"}), apperr.ErrReadOnly)
	assert.ErrorIs(t, s.Categories().Delete(ctx, "seeds"), apperr.ErrReadOnly)
	assert.ErrorIs(t, s.SubCategories().Update(ctx, &model.SubCategory{ID: "irrigation"}), apperr.ErrReadOnly)
	assert.ErrorIs(t, s.Products().Create(ctx, &model.Product{ID: "x"}), apperr.ErrReadOnly)
	assert.ErrorIs(t, s.Products().Delete(ctx, "static-1"), apperr.ErrReadOnly)
}

func TestFixtureStoreReads(t *testing.T) {
	s := NewFixtureStore()
	ctx := context.Background()

	subs, err := s.SubCategories().List(ctx, "fertilizers")
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	_, err = s.Categories().Get(ctx, "nothing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	organic, err := s.Products().List(ctx, query.Filter{Type: "organic"})
	require.NoError(t, err)
	assert.Equal(t, []string{"static-1", "static-3", "static-4"}, ids(organic))

	n, err := s.Products().CountByCategory(ctx, "equipment")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	types, err := s.Products().DistinctAttribute(ctx, "type")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"organic", "professional", "premium"}, types)
}

func TestFixtureStoreAdminsAreWritable(t *testing.T) {
	s := NewFixtureStore()
	ctx := context.Background()

	require.NoError(t, s.Admins().Create(ctx, &model.Admin{ID: "1", Username: "admin", PasswordHash: "h"}))
	assert.ErrorIs(t, s.Admins().Create(ctx, &model.Admin{ID: "2", Username: "admin"}), apperr.ErrReferentialConflict)

	n, err := s.Admins().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	a, err := s.Admins().FindByUsername(ctx, "admin")
	require.NoError(t, err)
	a.PasswordHash = "h2"
	require.NoError(t, s.Admins().Update(ctx, a))

	again, err := s.Admins().Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "h2", again.PasswordHash)
}
