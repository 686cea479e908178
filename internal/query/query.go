// Package query filters, sorts and paginates product listings.
//
// Every data source hands its (possibly pre-filtered) records to this package so that
// sorting and page boundaries are computed in one place, over the union of persisted
// and static products.
package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/moementrabelsi/mma/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort orders accepted by sortBy
const (
	SortName      = "name"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// MaxLimit caps the page size a client may request
const MaxLimit = 100

// Filter holds the optional, AND-combined product predicates
type Filter struct {
	Category    string
	SubCategory string
	Search      string
	Type        string
	Usage       string
	MinPrice    *float64
	MaxPrice    *float64
	InStock     *bool
}

// IsZero reports whether no predicate is set
func (f Filter) IsZero() bool {
	return f.Category == "" && f.SubCategory == "" && f.Search == "" && f.Type == "" &&
		f.Usage == "" && f.MinPrice == nil && f.MaxPrice == nil && f.InStock == nil
}

// Params is a complete listing request
type Params struct {
	Filter
	SortBy string
	Page   int
	Limit  int
}

// Normalize replaces out-of-range values with defaults
func (p *Params) Normalize(defaultLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	switch p.SortBy {
	case SortPriceAsc, SortPriceDesc:
	default:
		p.SortBy = SortName
	}
}

// ParseParams reads a listing request from query-string values.
// Unparseable numbers and booleans are ignored rather than rejected.
func ParseParams(values url.Values, defaultLimit int) Params {
	p := Params{
		Filter: Filter{
			Category:    strings.TrimSpace(values.Get("category")),
			SubCategory: strings.TrimSpace(values.Get("subCategory")),
			Search:      strings.TrimSpace(values.Get("search")),
			Type:        strings.TrimSpace(values.Get("type")),
			Usage:       strings.TrimSpace(values.Get("usage")),
			MinPrice:    parseFloat(values.Get("minPrice")),
			MaxPrice:    parseFloat(values.Get("maxPrice")),
			InStock:     parseBool(values.Get("inStock")),
		},
		SortBy: strings.TrimSpace(values.Get("sortBy")),
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil {
		p.Limit = limit
	}
	p.Normalize(defaultLimit)
	return p
}

// Values encodes the params back into query-string form
func (p Params) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("category", p.Category)
	set("subCategory", p.SubCategory)
	set("search", p.Search)
	set("type", p.Type)
	set("usage", p.Usage)
	if p.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64))
	}
	if p.InStock != nil {
		v.Set("inStock", strconv.FormatBool(*p.InStock))
	}
	set("sortBy", p.SortBy)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseBool(s string) *bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// Match reports whether p satisfies every predicate of f
func Match(p *model.Product, f Filter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.SubCategory != "" && p.SubCategory != f.SubCategory {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if f.Type != "" && !strings.EqualFold(p.Attributes.Get(model.AttributeType), f.Type) {
		return false
	}
	if f.Usage != "" &&
		!strings.Contains(strings.ToLower(p.Attributes.Get(model.AttributeUsage)), strings.ToLower(f.Usage)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// Apply returns the records matching f, in their original order
func Apply(records []model.Product, f Filter) []model.Product {
	out := make([]model.Product, 0, len(records))
	for i := range records {
		if Match(&records[i], f) {
			out = append(out, records[i])
		}
	}
	return out
}

// SortProducts orders records in place.
// Names use locale-aware collation; price-desc is the exact reverse of price-asc.
func SortProducts(records []model.Product, sortBy string) {
	col := collate.New(language.Und)
	byName := func(a, b *model.Product) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}

	switch sortBy {
	case SortPriceAsc, SortPriceDesc:
		sort.SliceStable(records, func(i, j int) bool {
			a, b := &records[i], &records[j]
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return byName(a, b) < 0
		})
		if sortBy == SortPriceDesc {
			for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
				records[i], records[j] = records[j], records[i]
			}
		}
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return byName(&records[i], &records[j]) < 0
		})
	}
}

// Paginate slices one page out of the full filtered set
func Paginate(records []model.Product, page, limit int) model.ProductPage {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	total := len(records)

	products := []model.Product{}
	hasNext := false
	// page-1 <= total/limit keeps (page-1)*limit from overflowing on absurd page numbers
	if page-1 <= total/limit {
		start := (page - 1) * limit
		end := start + limit
		hasNext = end < total
		if start < total {
			if end > total {
				end = total
			}
			products = append(products, records[start:end]...)
		}
	}

	return model.ProductPage{
		Products: products,
		Pagination: model.Pagination{
			CurrentPage:   page,
			TotalPages:    (total + limit - 1) / limit,
			TotalProducts: total,
			Limit:         limit,
			HasNextPage:   hasNext,
			HasPrevPage:   page > 1,
		},
	}
}

// Run filters, sorts and paginates records in one step
func Run(records []model.Product, p Params) model.ProductPage {
	filtered := Apply(records, p.Filter)
	SortProducts(filtered, p.SortBy)
	return Paginate(filtered, p.Page, p.Limit)
}
