package model

import (
	"strings"
	"time"
)

// Well-known attribute keys used as first-class filters
const (
	AttributeType  = "type"
	AttributeUsage = "usage"
)

// Attributes is the free-form attribute bag of a product
type Attributes map[string]string

// Get returns the value of key, or "" when absent
func (a Attributes) Get(key string) string {
	if a == nil {
		return ""
	}
	return a[key]
}

// Product represents a catalog product
type Product struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null;index" validate:"required"`
	Category    string     `json:"category" gorm:"type:varchar(64);index" validate:"required"`
	SubCategory string     `json:"subCategory" gorm:"type:varchar(64);index" validate:"required"`
	Description string     `json:"description" gorm:"type:text" validate:"required"`
	Image       string     `json:"image" gorm:"type:text" validate:"required"`
	Images      []string   `json:"images" gorm:"type:text;serializer:json"`
	Price       float64    `json:"price" gorm:"not null;default:0" validate:"gte=0"`
	InStock     bool       `json:"inStock" gorm:"not null"`
	Attributes  Attributes `json:"attributes" gorm:"type:text;serializer:json"`
	IsStatic    bool       `json:"isStatic" gorm:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Normalize fills the derived fields of a product read from any store
func (p *Product) Normalize() {
	if p.Attributes == nil {
		p.Attributes = Attributes{}
	}
	if len(p.Images) == 0 {
		if p.Image != "" {
			p.Images = []string{p.Image}
		} else {
			p.Images = []string{}
		}
	}
}

// ProductInput is the create/update payload of a product.
// Nil fields are left untouched by an update.
type ProductInput struct {
	ID          *string    `json:"id,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Category    *string    `json:"category,omitempty"`
	SubCategory *string    `json:"subCategory,omitempty"`
	Description *string    `json:"description,omitempty"`
	Image       *string    `json:"image,omitempty"`
	Images      []string   `json:"images,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	InStock     *bool      `json:"inStock,omitempty"`
	Attributes  Attributes `json:"attributes,omitempty"`
}

// ApplyTo merges the supplied fields over p
func (in *ProductInput) ApplyTo(p *Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.SubCategory != nil {
		p.SubCategory = strings.TrimSpace(*in.SubCategory)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Images != nil {
		p.Images = append([]string(nil), in.Images...)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Attributes != nil {
		attrs := make(Attributes, len(in.Attributes))
		for k, v := range in.Attributes {
			attrs[k] = v
		}
		p.Attributes = attrs
	}
}

// Pagination is the page metadata of a product listing
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalProducts int  `json:"totalProducts"`
	Limit         int  `json:"limit"`
	HasNextPage   bool `json:"hasNextPage"`
	HasPrevPage   bool `json:"hasPrevPage"`
}

// ProductPage is one page of a filtered, sorted product listing
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}
