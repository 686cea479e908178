package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
)

// Counts is the number of records per collection
type Counts struct {
	Categories    int
	SubCategories int
	Products      int
	Admins        int64
}

// ImportStats reports what Import wrote
type ImportStats struct {
	Skipped       bool
	Categories    int
	SubCategories int
	Products      int
}

// importedProduct defaults inStock to true when the document omits it
type importedProduct struct {
	model.Product
	InStock *bool `json:"inStock"`
}

type importDocument struct {
	Categories    []model.Category    `json:"categories"`
	SubCategories []model.SubCategory `json:"subCategories"`
	Products      []importedProduct   `json:"products"`
}

// ReadDocument decodes a catalog document in the products.json layout
func ReadDocument(r io.Reader) (*Document, error) {
	var raw importDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog document: %w", err)
	}
	doc := &Document{
		Categories:    raw.Categories,
		SubCategories: raw.SubCategories,
		Products:      make([]model.Product, 0, len(raw.Products)),
	}
	for _, p := range raw.Products {
		product := p.Product
		product.InStock = p.InStock == nil || *p.InStock
		doc.Products = append(doc.Products, product)
	}
	return doc, nil
}

// Count returns the size of every collection of st
func Count(ctx context.Context, st Store) (Counts, error) {
	var counts Counts
	categories, err := st.Categories().List(ctx)
	if err != nil {
		return counts, err
	}
	subCategories, err := st.SubCategories().List(ctx, "")
	if err != nil {
		return counts, err
	}
	products, err := st.Products().List(ctx, query.Filter{})
	if err != nil {
		return counts, err
	}
	admins, err := st.Admins().Count(ctx)
	if err != nil {
		return counts, err
	}
	return Counts{
		Categories:    len(categories),
		SubCategories: len(subCategories),
		Products:      len(products),
		Admins:        admins,
	}, nil
}

// Import writes doc into st, but only when st holds no category and no product.
// Records whose id already exists are skipped.
func Import(ctx context.Context, st Store, doc *Document) (ImportStats, error) {
	var stats ImportStats
	counts, err := Count(ctx, st)
	if err != nil {
		return stats, err
	}
	if counts.Categories > 0 || counts.Products > 0 {
		stats.Skipped = true
		return stats, nil
	}

	now := time.Now().UTC()
	stamp := func(created, updated *time.Time) {
		if created.IsZero() {
			*created = now
		}
		if updated.IsZero() {
			*updated = now
		}
	}

	for i := range doc.Categories {
		c := doc.Categories[i]
		stamp(&c.CreatedAt, &c.UpdatedAt)
		ok, err := inserted(st.Categories().Create(ctx, &c))
		if err != nil {
			return stats, err
		}
		if ok {
			stats.Categories++
		}
	}
	for i := range doc.SubCategories {
		s := doc.SubCategories[i]
		stamp(&s.CreatedAt, &s.UpdatedAt)
		ok, err := inserted(st.SubCategories().Create(ctx, &s))
		if err != nil {
			return stats, err
		}
		if ok {
			stats.SubCategories++
		}
	}
	for i := range doc.Products {
		p := doc.Products[i]
		p.IsStatic = false
		p.Normalize()
		stamp(&p.CreatedAt, &p.UpdatedAt)
		ok, err := inserted(st.Products().Create(ctx, &p))
		if err != nil {
			return stats, err
		}
		if ok {
			stats.Products++
		}
	}
	return stats, nil
}

// inserted treats a duplicate id as a skipped record rather than a failure
func inserted(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrReferentialConflict):
		return false, nil
	default:
		return false, err
	}
}

// ClearProducts deletes every persisted product and returns how many were removed
func ClearProducts(ctx context.Context, st Store) (int, error) {
	products, err := st.Products().List(ctx, query.Filter{})
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		if err := st.Products().Delete(ctx, p.ID); err != nil {
			return 0, err
		}
	}
	return len(products), nil
}

// ClearAll deletes products, then subcategories, then categories. Admins are kept.
func ClearAll(ctx context.Context, st Store) (Counts, error) {
	var removed Counts
	n, err := ClearProducts(ctx, st)
	if err != nil {
		return removed, err
	}
	removed.Products = n

	subCategories, err := st.SubCategories().List(ctx, "")
	if err != nil {
		return removed, err
	}
	for _, s := range subCategories {
		if err := st.SubCategories().Delete(ctx, s.ID); err != nil {
			return removed, err
		}
		removed.SubCategories++
	}

	categories, err := st.Categories().List(ctx)
	if err != nil {
		return removed, err
	}
	for _, c := range categories {
		if err := st.Categories().Delete(ctx, c.ID); err != nil {
			return removed, err
		}
		removed.Categories++
	}
	return removed, nil
}
