package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"github.com/moementrabelsi/mma/internal/service"
	"github.com/moementrabelsi/mma/pkg/logger"
	"go.uber.org/zap"
)

// ProductHandler serves product endpoints
type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts handles retrieving products with filters, sorting and pagination
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	params := query.ParseParams(c.QueryParams(), h.products.DefaultLimit())

	page, err := h.products.List(c.Request().Context(), params)
	if err != nil {
		return err
	}

	log.Debug("Products retrieved",
		zap.Int("count", len(page.Products)),
		zap.Int("total", page.Pagination.TotalProducts),
		zap.Int("page", page.Pagination.CurrentPage))
	return ok(c, page)
}

// GetProduct handles retrieving a single product by ID
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, product)
}

// ListTypes returns the distinct product types
func (h *ProductHandler) ListTypes(c echo.Context) error {
	types, err := h.products.Types(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, types)
}

// ListUsages returns the distinct product usages
func (h *ProductHandler) ListUsages(c echo.Context) error {
	usages, err := h.products.Usages(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, usages)
}

// CreateProduct handles creating a new product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var in model.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}

	product, err := h.products.Create(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return okMessage(c, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct handles updating an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var in model.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}

	product, err := h.products.Update(c.Request().Context(), c.Param("id"), &in)
	if err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct handles deleting a product
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Product deleted successfully", nil)
}
