package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// fieldMessages are the user-facing violations keyed by struct namespace and tag
var fieldMessages = map[string]string{
	"Product.Name.required":           "Product name is required",
	"Product.Category.required":       "Category is required",
	"Product.SubCategory.required":    "Subcategory is required",
	"Product.Description.required":    "Description is required",
	"Product.Image.required":          "Image URL is required",
	"Product.Price.gte":               "Price must be a positive number",
	"Category.Name.required":          "Category name is required",
	"SubCategory.Name.required":       "Subcategory name is required",
	"SubCategory.CategoryID.required": "Category is required",
}

// violations runs the struct tags of v and returns every failure as a message
func violations(validate *validator.Validate, v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := fieldMessages[fe.StructNamespace()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return out
}
