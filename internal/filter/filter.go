package filter

import (
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// Apply returns the products matching every constraint of s. The state is
// normalized first; the input slice is never modified and output order
// follows input order.
func Apply(products []catalog.Product, s State) []catalog.Product {
	s = s.Normalize()

	result := where(products, func(p catalog.Product) bool {
		return s.Category == "" || p.Category == s.Category
	})

	if len(s.Brands) > 0 {
		brands := make(map[string]struct{}, len(s.Brands))
		for _, b := range s.Brands {
			brands[b] = struct{}{}
		}
		result = where(result, func(p catalog.Product) bool {
			_, ok := brands[p.Brand]
			return ok
		})
	}

	for _, dim := range Dimensions(s.Category) {
		key, ok := s.Ranges[dim.Key]
		if !ok || key == BucketAll {
			continue
		}
		bucket, ok := dim.Bucket(key)
		if !ok {
			continue
		}
		result = where(result, bucket.Matches)
	}

	result = where(result, func(p catalog.Product) bool {
		return p.Price >= s.PriceMin && p.Price <= s.PriceMax
	})

	if s.InStockOnly {
		result = where(result, func(p catalog.Product) bool { return p.InStock })
	}

	if s.Query != "" {
		m := newQueryMatcher(s.Query)
		result = where(result, m.matches)
	}

	return result
}

// Brands returns a map of brand name to product count.
func Brands(products []catalog.Product) map[string]int {
	brands := make(map[string]int)
	for _, p := range products {
		if b := strings.TrimSpace(p.Brand); b != "" {
			brands[b]++
		}
	}
	return brands
}

func where(products []catalog.Product, fn func(catalog.Product) bool) []catalog.Product {
	result := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if fn(p) {
			result = append(result, p)
		}
	}
	return result
}
