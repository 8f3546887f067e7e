package filter

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// SortKey names a list ordering.
type SortKey string

const (
	SortPopularity   SortKey = "popularity"
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortNoiseAsc     SortKey = "noise_asc"
	SortCapacityDesc SortKey = "capacity_desc"
	SortDiscountDesc SortKey = "discount_desc"
	SortValueAsc     SortKey = "value_asc"

	DefaultSort = SortPopularity
)

// SortKeys lists every supported key in menu order.
var SortKeys = []SortKey{
	SortPopularity, SortPriceAsc, SortPriceDesc, SortNoiseAsc,
	SortCapacityDesc, SortDiscountDesc, SortValueAsc,
}

// Sort-last sentinels for missing spec values. These are not physical values.
const (
	WorstNoiseDB  = 99.0
	WorstCapacity = 0.0
)

// MinDiscountPercent is the smallest discount worth showing.
const MinDiscountPercent = 5

// Popularity heuristic tuning, kept for ranking compatibility.
const (
	popularityDiscountCap  = 40
	popularityEffWeight    = 5
	popularityValueCeiling = 800
	popularityValueSpan    = 500
	popularityValuePoints  = 20
	popularityBrandBonus   = 15
)

// Valid reports whether k is a supported key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// Label is the human readable name of k.
func (k SortKey) Label() string {
	switch k {
	case SortPriceAsc:
		return "Price: low to high"
	case SortPriceDesc:
		return "Price: high to low"
	case SortNoiseAsc:
		return "Quietest"
	case SortCapacityDesc:
		return "Highest capacity"
	case SortDiscountDesc:
		return "Biggest discount"
	case SortValueAsc:
		return "Best value"
	default:
		return "Popularity"
	}
}

// ParseSortKey resolves canonical keys and common aliases. Unknown input
// reports false.
func ParseSortKey(raw string) (SortKey, bool) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	switch norm {
	case "", "popularity", "popular", "relevance", "recommended":
		return SortPopularity, true
	case "price_asc", "price", "cheapest", "cheap":
		return SortPriceAsc, true
	case "price_desc", "expensive":
		return SortPriceDesc, true
	case "noise_asc", "noise", "quiet", "quietest":
		return SortNoiseAsc, true
	case "capacity_desc", "capacity", "powerful":
		return SortCapacityDesc, true
	case "discount_desc", "discount", "savings":
		return SortDiscountDesc, true
	case "value_asc", "value", "cp":
		return SortValueAsc, true
	default:
		return DefaultSort, false
	}
}

// DiscountPercent returns the rounded discount off the original price, or nil
// when there is no valid baseline or the discount is below MinDiscountPercent.
func DiscountPercent(p catalog.Product) *int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 || *p.OriginalPrice <= p.Price {
		return nil
	}
	pct := int(math.Round((1 - p.Price / *p.OriginalPrice) * 100))
	if pct < MinDiscountPercent {
		return nil
	}
	return &pct
}

// ValueScore is price per unit of primary spec; lower is better. Missing or
// zero spec yields +Inf.
func ValueScore(price float64, spec *float64) float64 {
	if spec == nil || *spec <= 0 {
		return math.Inf(1)
	}
	return price / *spec
}

// ProductValueScore is ValueScore over the product's primary spec.
func ProductValueScore(p catalog.Product) float64 {
	return ValueScore(p.Price, p.Capacity())
}

// Popularity is the default ranking heuristic; higher is better.
func Popularity(p catalog.Product) float64 {
	score := 0.0

	if d := DiscountPercent(p); d != nil {
		score += float64(min(*d, popularityDiscountCap))
	}

	eff := 5
	if e := p.EnergyEfficiency(); e != nil {
		eff = *e
	}
	score += float64((6 - eff) * popularityEffWeight)

	value := ProductValueScore(p)
	proximity := (popularityValueCeiling - value) / popularityValueSpan * popularityValuePoints
	score += math.Min(math.Max(proximity, 0), popularityValuePoints)

	if IsPopularBrand(p.Brand) {
		score += popularityBrandBonus
	}
	return score
}

// IsPopularBrand reports whether brand contains an allowlisted brand name,
// case-insensitively.
func IsPopularBrand(brand string) bool {
	b := strings.ToLower(brand)
	if b == "" {
		return false
	}
	for _, popular := range catalog.PopularBrands {
		if strings.Contains(b, popular) {
			return true
		}
	}
	return false
}

// Sort returns a new slice ordered by key. Ties break on category then ID,
// so the result is deterministic and idempotent.
func Sort(products []catalog.Product, key SortKey) []catalog.Product {
	if !key.Valid() {
		key = DefaultSort
	}

	type ranked struct {
		p     catalog.Product
		score float64
	}
	rows := make([]ranked, len(products))
	for i, p := range products {
		rows[i] = ranked{p: p, score: sortScore(p, key)}
	}

	slices.SortStableFunc(rows, func(a, b ranked) int {
		if c := cmp.Compare(a.score, b.score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.p.Category, b.p.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.p.ID, b.p.ID)
	})

	out := make([]catalog.Product, len(rows))
	for i, r := range rows {
		out[i] = r.p
	}
	return out
}

// sortScore maps a product to an ascending sort value for key.
func sortScore(p catalog.Product, key SortKey) float64 {
	switch key {
	case SortPriceAsc:
		return p.Price
	case SortPriceDesc:
		return -p.Price
	case SortNoiseAsc:
		if n := p.Noise(); n != nil {
			return *n
		}
		return WorstNoiseDB
	case SortCapacityDesc:
		if c := p.Capacity(); c != nil {
			return -*c
		}
		return -WorstCapacity
	case SortDiscountDesc:
		if d := DiscountPercent(p); d != nil {
			return -float64(*d)
		}
		return 0
	case SortValueAsc:
		return ProductValueScore(p)
	default:
		return -Popularity(p)
	}
}
