package model

import (
	"strings"
	"time"
)

// Category represents a top-level product category
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryInput is the create/update payload of a category
type CategoryInput struct {
	ID          *string `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// ApplyTo merges the supplied fields over c
func (in *CategoryInput) ApplyTo(c *Category) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Image != nil {
		c.Image = strings.TrimSpace(*in.Image)
	}
}

// SubCategory belongs to exactly one Category
type SubCategory struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	CategoryID  string    `json:"categoryId" gorm:"type:varchar(64);not null;index" validate:"required"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName is "subcategories", matching existing databases
func (SubCategory) TableName() string { return "subcategories" }

// SubCategoryInput is the create/update payload of a subcategory
type SubCategoryInput struct {
	ID          *string `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ApplyTo merges the supplied fields over s
func (in *SubCategoryInput) ApplyTo(s *SubCategory) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.CategoryID != nil {
		s.CategoryID = strings.TrimSpace(*in.CategoryID)
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
}
