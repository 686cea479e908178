package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/service"
	"github.com/moementrabelsi/mma/pkg/logger"
	"go.uber.org/zap"
)

// CategoryHandler serves category endpoints
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler, constructor
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, categories)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	category, err := h.categories.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, category)
}

// CreateCategory handles POST /admin/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var in model.CategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}

	category, err := h.categories.Create(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	logger.FromContext(c).Info("Category created", zap.String("category_id", category.ID))
	return okMessage(c, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var in model.CategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}

	category, err := h.categories.Update(c.Request().Context(), c.Param("id"), &in)
	if err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.categories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Category deleted successfully", nil)
}
