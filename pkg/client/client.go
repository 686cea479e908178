// Package client talks to a running catalog service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request made by a Client
const DefaultTimeout = 10 * time.Second

// Client represents a client for the catalog API
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	AccessToken string
	Logger      *zap.Logger
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// APIError is a response the server answered with a non-2xx status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %d %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// NewClient creates a new catalog API client. baseURL includes the API prefix,
// e.g. http://localhost:5000/api
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Logger:     logger,
	}
}

// IsNetworkError reports whether err means the server could not serve the request
// at all: transport failures, timeouts and gateway errors
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// CallAPI sends a request and decodes the data field of the response envelope into out
func (c *Client) CallAPI(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	c.Logger.Debug("Making API call",
		zap.String("method", method),
		zap.String("path", path))

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		c.Logger.Error("Failed to create request", zap.Error(err))
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("API request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Error("Failed to read response body", zap.Error(err))
		return err
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode >= 400 {
		message := env.Message
		if decodeErr != nil || message == "" {
			message = strings.TrimSpace(string(respBody))
		}
		c.Logger.Warn("API request returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		c.Logger.Error("Failed to parse response", zap.Error(decodeErr))
		return decodeErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.CallAPI(ctx, http.MethodGet, path, nil, out)
}

// ListCategories returns every category
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory returns one category
func (c *Client) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := c.get(ctx, "/categories/"+url.PathEscape(id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// ListSubCategories returns the subcategories of categoryID, or all of them when empty
func (c *Client) ListSubCategories(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	path := "/subcategories"
	if categoryID != "" {
		path += "?" + url.Values{"categoryId": {categoryID}}.Encode()
	}
	var subCategories []model.SubCategory
	if err := c.get(ctx, path, &subCategories); err != nil {
		return nil, err
	}
	return subCategories, nil
}

// GetSubCategory returns one subcategory
func (c *Client) GetSubCategory(ctx context.Context, id string) (*model.SubCategory, error) {
	var subCategory model.SubCategory
	if err := c.get(ctx, "/subcategories/"+url.PathEscape(id), &subCategory); err != nil {
		return nil, err
	}
	return &subCategory, nil
}

// ListProducts returns one page of the filtered product listing
func (c *Client) ListProducts(ctx context.Context, params query.Params) (*model.ProductPage, error) {
	path := "/products"
	if encoded := params.Values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	var page model.ProductPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct returns one product
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListTypes returns the distinct product types
func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.get(ctx, "/products/types", &types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListUsages returns the distinct product usages
func (c *Client) ListUsages(ctx context.Context) ([]string, error) {
	var usages []string
	if err := c.get(ctx, "/products/usages", &usages); err != nil {
		return nil, err
	}
	return usages, nil
}

// Login authenticates and keeps the token for later admin calls
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.CallAPI(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	c.AccessToken = res.Token
	c.Logger.Info("Logged in", zap.String("username", res.User.Username))
	return &res, nil
}

// Me returns the authenticated principal
func (c *Client) Me(ctx context.Context) (*model.PublicUser, error) {
	var user model.PublicUser
	if err := c.get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the password of the authenticated principal
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.CallAPI(ctx, http.MethodPut, "/auth/password", body, nil)
}

// CreateProduct creates a product, admin token required
func (c *Client) CreateProduct(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	var product model.Product
	if err := c.CallAPI(ctx, http.MethodPost, "/admin/products", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct merges in over an existing product
func (c *Client) UpdateProduct(ctx context.Context, id string, in *model.ProductInput) (*model.Product, error) {
	var product model.Product
	if err := c.CallAPI(ctx, http.MethodPut, "/admin/products/"+url.PathEscape(id), in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.CallAPI(ctx, http.MethodDelete, "/admin/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, in *model.CategoryInput) (*model.Category, error) {
	var category model.Category
	if err := c.CallAPI(ctx, http.MethodPost, "/admin/categories", in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in *model.CategoryInput) (*model.Category, error) {
	var category model.Category
	if err := c.CallAPI(ctx, http.MethodPut, "/admin/categories/"+url.PathEscape(id), in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.CallAPI(ctx, http.MethodDelete, "/admin/categories/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateSubCategory(ctx context.Context, in *model.SubCategoryInput) (*model.SubCategory, error) {
	var subCategory model.SubCategory
	if err := c.CallAPI(ctx, http.MethodPost, "/admin/subcategories", in, &subCategory); err != nil {
		return nil, err
	}
	return &subCategory, nil
}

func (c *Client) UpdateSubCategory(ctx context.Context, id string, in *model.SubCategoryInput) (*model.SubCategory, error) {
	var subCategory model.SubCategory
	if err := c.CallAPI(ctx, http.MethodPut, "/admin/subcategories/"+url.PathEscape(id), in, &subCategory); err != nil {
		return nil, err
	}
	return &subCategory, nil
}

func (c *Client) DeleteSubCategory(ctx context.Context, id string) error {
	return c.CallAPI(ctx, http.MethodDelete, "/admin/subcategories/"+url.PathEscape(id), nil, nil)
}
