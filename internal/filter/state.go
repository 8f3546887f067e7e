package filter

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// MaxQueryLength caps the free-text query in runes.
const MaxQueryLength = 200

// PriceRange is an inclusive price interval in yen.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

var defaultPriceRanges = map[catalog.Category]PriceRange{
	catalog.Dehumidifier:   {Min: 0, Max: 100000},
	catalog.AirPurifier:    {Min: 0, Max: 150000},
	catalog.AirConditioner: {Min: 0, Max: 500000},
	catalog.Heater:         {Min: 0, Max: 100000},
	catalog.Fan:            {Min: 0, Max: 60000},
}

// DefaultPriceRange returns the slider bounds for a category. Unknown
// categories get the widest range.
func DefaultPriceRange(cat catalog.Category) PriceRange {
	if r, ok := defaultPriceRanges[cat]; ok {
		return r
	}
	return PriceRange{Min: 0, Max: 500000}
}

// State is the filter/sort/page value object driving the list pipeline.
type State struct {
	Category    catalog.Category  `json:"category,omitempty"`
	Brands      []string          `json:"brands,omitempty"`
	Ranges      map[string]string `json:"ranges,omitempty"`
	PriceMin    float64           `json:"priceMin"`
	PriceMax    float64           `json:"priceMax"`
	Query       string            `json:"query,omitempty"`
	Sort        SortKey           `json:"sort"`
	Page        int               `json:"page"`
	InStockOnly bool              `json:"inStockOnly,omitempty"`
}

// DefaultState returns the pristine state for a category.
func DefaultState(cat catalog.Category) State {
	r := DefaultPriceRange(cat)
	return State{
		Category: cat,
		PriceMin: r.Min,
		PriceMax: r.Max,
		Sort:     DefaultSort,
		Page:     1,
	}
}

// Normalize returns a coerced copy: prices finite, ordered and inside the
// category range, page >= 1, known sort key, known buckets only, trimmed and
// de-duplicated brands, capped query.
func (s State) Normalize() State {
	out := s
	bounds := DefaultPriceRange(s.Category)

	out.PriceMin = clampPrice(s.PriceMin, bounds, bounds.Min)
	out.PriceMax = clampPrice(s.PriceMax, bounds, bounds.Max)
	if out.PriceMin > out.PriceMax {
		out.PriceMin, out.PriceMax = out.PriceMax, out.PriceMin
	}

	if out.Page < 1 {
		out.Page = 1
	}
	if !out.Sort.Valid() {
		out.Sort = DefaultSort
	}

	out.Brands = cleanBrands(s.Brands)
	out.Ranges = cleanRanges(s.Category, s.Ranges)
	out.Query = CapQuery(s.Query)
	return out
}

// Equal reports whether two states are identical after normalization.
func (s State) Equal(o State) bool {
	a, b := s.Normalize(), o.Normalize()
	if a.Category != b.Category || a.PriceMin != b.PriceMin || a.PriceMax != b.PriceMax ||
		a.Query != b.Query || a.Sort != b.Sort || a.Page != b.Page || a.InStockOnly != b.InStockOnly {
		return false
	}
	if len(a.Brands) != len(b.Brands) || len(a.Ranges) != len(b.Ranges) {
		return false
	}
	for i := range a.Brands {
		if a.Brands[i] != b.Brands[i] {
			return false
		}
	}
	for k, v := range a.Ranges {
		if b.Ranges[k] != v {
			return false
		}
	}
	return true
}

// IsDefault reports whether s carries no user-chosen constraint.
func (s State) IsDefault() bool {
	return s.Equal(DefaultState(s.Category))
}

// CapQuery trims q and truncates it to MaxQueryLength runes.
func CapQuery(q string) string {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) <= MaxQueryLength {
		return q
	}
	runes := []rune(q)
	return strings.TrimSpace(string(runes[:MaxQueryLength]))
}

func clampPrice(v float64, bounds PriceRange, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Min(math.Max(v, bounds.Min), bounds.Max)
}

func cleanBrands(in []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, b := range in {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

func cleanRanges(cat catalog.Category, in map[string]string) map[string]string {
	var out map[string]string
	for dim, bucket := range in {
		d, ok := LookupDimension(cat, dim)
		if !ok {
			continue
		}
		if _, ok := d.Bucket(bucket); !ok {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[dim] = bucket
	}
	return out
}
