package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/service"
)

// SubCategoryHandler serves subcategory endpoints
type SubCategoryHandler struct {
	subCategories *service.SubCategoryService
}

func NewSubCategoryHandler(subCategories *service.SubCategoryService) *SubCategoryHandler {
	return &SubCategoryHandler{subCategories: subCategories}
}

// ListSubCategories handles GET /subcategories?categoryId=
func (h *SubCategoryHandler) ListSubCategories(c echo.Context) error {
	subs, err := h.subCategories.List(c.Request().Context(), c.QueryParam("categoryId"))
	if err != nil {
		return err
	}
	return ok(c, subs)
}

func (h *SubCategoryHandler) GetSubCategory(c echo.Context) error {
	sub, err := h.subCategories.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, sub)
}

func (h *SubCategoryHandler) CreateSubCategory(c echo.Context) error {
	var in model.SubCategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}

	sub, err := h.subCategories.Create(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return okMessage(c, http.StatusCreated, "Subcategory created successfully", sub)
}

func (h *SubCategoryHandler) UpdateSubCategory(c echo.Context) error {
	var in model.SubCategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}

	sub, err := h.subCategories.Update(c.Request().Context(), c.Param("id"), &in)
	if err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Subcategory updated successfully", sub)
}

func (h *SubCategoryHandler) DeleteSubCategory(c echo.Context) error {
	if err := h.subCategories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Subcategory deleted successfully", nil)
}
