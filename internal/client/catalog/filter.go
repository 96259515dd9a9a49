package catalog

import (
	"cmp"
	"slices"
	"strings"

	"storefront/internal/domain/entity"
)

// SortBy orders filtered products.
type SortBy string

const (
	SortByName           SortBy = "name"
	SortByPriceLow       SortBy = "price-low"
	SortByPriceHigh      SortBy = "price-high"
	SortBySustainability SortBy = "sustainability"
)

// FilterOptions narrows the cached list. Zero values do not filter;
// MaxPrice 0 means no upper bound.
type FilterOptions struct {
	Search   string
	Category entity.Category
	MinPrice float64
	MaxPrice float64
	SortBy   SortBy
}

// Filter returns the matching cached products. Search is a
// case-insensitive substring match on name or description. Unknown sort
// keys sort by name.
func (c *Catalog) Filter(opts FilterOptions) []entity.Product {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	var out []entity.Product
	for _, p := range c.Products() {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if p.Price < opts.MinPrice || (opts.MaxPrice > 0 && p.Price > opts.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, compareBy(opts.SortBy))

	return out
}

// Categories lists the product categories in display order.
func Categories() []entity.Category {
	return entity.Categories()
}

func compareBy(sortBy SortBy) func(a, b entity.Product) int {
	switch sortBy {
	case SortByPriceLow:
		return func(a, b entity.Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortByPriceHigh:
		return func(a, b entity.Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortBySustainability:
		return func(a, b entity.Product) int { return cmp.Compare(b.SustainabilityScore, a.SustainabilityScore) }
	default:
		return func(a, b entity.Product) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}
