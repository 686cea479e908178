package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": status < 400,
		"message": message,
		"data":    data,
	})
}

func newAPI(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", nil)
}

// unreachable returns a client pointing at a server that is already closed
func unreachable(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return NewClient(url+"/api", nil)
}

func TestCallAPIDecodesEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", []model.Category{{ID: "seeds", Name: "Graines"}})
	})
	c := newAPI(t, mux)

	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Graines", categories[0].Name)
}

func TestListProductsEncodesParams(t *testing.T) {
	var got map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeEnvelope(w, http.StatusOK, "", model.ProductPage{
			Products:   []model.Product{{ID: "p1"}},
			Pagination: model.Pagination{CurrentPage: 2, TotalPages: 2, TotalProducts: 4, Limit: 3},
		})
	})
	c := newAPI(t, mux)

	minPrice := 10.5
	page, err := c.ListProducts(context.Background(), query.Params{
		Filter: query.Filter{Category: "seeds", MinPrice: &minPrice},
		SortBy: query.SortPriceDesc,
		Page:   2,
		Limit:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, []string{"seeds"}, got["category"])
	assert.Equal(t, []string{"10.5"}, got["minPrice"])
	assert.Equal(t, []string{"price-desc"}, got["sortBy"])
	assert.Equal(t, []string{"2"}, got["page"])
	assert.Equal(t, []string{"3"}, got["limit"])
}

func TestLoginKeepsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "admin123" {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Login successful", LoginResult{
			Token: "tok-1",
			User:  model.PublicUser{ID: "1", Username: body["username"], IsAdmin: true},
		})
	})
	mux.HandleFunc("/api/admin/products/p1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeEnvelope(w, http.StatusUnauthorized, "Access denied. No token provided.", nil)
			return
		}
		assert.Equal(t, http.MethodDelete, r.Method)
		writeEnvelope(w, http.StatusOK, "Product deleted successfully", nil)
	})
	c := newAPI(t, mux)
	ctx := context.Background()

	_, err := c.Login(ctx, "admin", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Empty(t, c.AccessToken)

	require.Error(t, c.DeleteProduct(ctx, "p1"))

	res, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", res.User.Username)
	assert.Equal(t, "tok-1", c.AccessToken)
	assert.NoError(t, c.DeleteProduct(ctx, "p1"))
}

func TestNonJSONErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/types", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	c := newAPI(t, mux)

	_, err := c.ListTypes(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.True(t, IsNetworkError(err))
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", &APIError{StatusCode: http.StatusNotFound}, false},
		{"bad request", &APIError{StatusCode: http.StatusBadRequest}, false},
		{"internal error", &APIError{StatusCode: http.StatusInternalServerError}, false},
		{"service unavailable", &APIError{StatusCode: http.StatusServiceUnavailable}, true},
		{"gateway timeout", fmt.Errorf("list: %w", &APIError{StatusCode: http.StatusGatewayTimeout}), true},
		{"deadline", context.DeadlineExceeded, true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetworkError(tt.err))
		})
	}

	_, err := unreachable(t).ListCategories(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestCatalogFallsBackWhenUnreachable(t *testing.T) {
	cat := NewCatalog(unreachable(t), store.NewFixtureStore())
	ctx := context.Background()

	page, err := cat.ListProducts(ctx, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, LocalPageLimit, page.Pagination.Limit)
	assert.Equal(t, 5, page.Pagination.TotalProducts)
	assert.Len(t, page.Products, 5)

	page, err = cat.ListProducts(ctx, query.Params{
		Filter: query.Filter{Category: "equipment"},
		SortBy: query.SortPriceDesc,
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "static-5", page.Products[0].ID)
	assert.Equal(t, "static-2", page.Products[1].ID)

	product, err := cat.GetProduct(ctx, "static-3")
	require.NoError(t, err)
	assert.Equal(t, "Natural Fertilizer Premium", product.Name)

	categories, err := cat.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	subCategories, err := cat.ListSubCategories(ctx, "fertilizers")
	require.NoError(t, err)
	assert.Len(t, subCategories, 2)

	types, err := cat.ListTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"organic", "premium", "professional"}, types)

	usages, err := cat.ListUsages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"commercial", "home-garden"}, usages)
}

func TestCatalogKeepsAPIErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/static-1", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "Product not found", nil)
	})
	cat := NewCatalog(newAPI(t, mux), store.NewFixtureStore())

	_, err := cat.GetProduct(context.Background(), "static-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCatalogPrefersRemote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", []model.Category{{ID: "remote", Name: "Remote"}})
	})
	cat := NewCatalog(newAPI(t, mux), store.NewFixtureStore())

	categories, err := cat.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "remote", categories[0].ID)
}

func TestCatalogWritesNeverFallBack(t *testing.T) {
	cat := NewCatalog(unreachable(t), store.NewFixtureStore())
	name := "Trowel"

	_, err := cat.CreateProduct(context.Background(), &model.ProductInput{Name: &name})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}
