// Package urlstate maps list and compare state to URL query parameters.
// Decoding never fails: malformed input is clamped or defaulted.
package urlstate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/filter"
)

const (
	ParamBrands   = "brands"
	ParamPriceMin = "priceMin"
	ParamPriceMax = "priceMax"
	ParamSort     = "sort"
	ParamQuery    = "q"
	ParamPage     = "page"
	ParamStock    = "stock"
	ParamCategory = "cat"
	ParamIDs      = "ids"
)

// Decode reads a filter state from values. Missing parameters keep the value
// from defaults. A valid cat parameter naming another category switches to
// that category's defaults.
func Decode(values url.Values, defaults filter.State) filter.State {
	st := defaults
	st.Brands = append([]string(nil), defaults.Brands...)
	st.Ranges = nil
	for k, v := range defaults.Ranges {
		if st.Ranges == nil {
			st.Ranges = map[string]string{}
		}
		st.Ranges[k] = v
	}

	if raw := values.Get(ParamCategory); raw != "" {
		if cat, err := catalog.ParseCategory(raw); err == nil && cat != st.Category {
			st = filter.DefaultState(cat)
		}
	}

	if values.Has(ParamBrands) {
		st.Brands = splitList(values.Get(ParamBrands))
	}

	for _, dim := range filter.Dimensions(st.Category) {
		if !values.Has(dim.Key) {
			continue
		}
		raw := strings.TrimSpace(values.Get(dim.Key))
		if _, ok := dim.Bucket(raw); ok {
			if st.Ranges == nil {
				st.Ranges = map[string]string{}
			}
			st.Ranges[dim.Key] = raw
		} else {
			delete(st.Ranges, dim.Key)
		}
	}

	bounds := filter.DefaultPriceRange(st.Category)
	if values.Has(ParamPriceMin) {
		st.PriceMin = parsePrice(values.Get(ParamPriceMin), bounds.Min)
	}
	if values.Has(ParamPriceMax) {
		st.PriceMax = parsePrice(values.Get(ParamPriceMax), bounds.Max)
	}

	if values.Has(ParamSort) {
		st.Sort, _ = filter.ParseSortKey(values.Get(ParamSort))
	}
	if values.Has(ParamQuery) {
		st.Query = filter.CapQuery(values.Get(ParamQuery))
	}
	if values.Has(ParamPage) {
		st.Page = parsePage(values.Get(ParamPage))
	}
	if values.Has(ParamStock) {
		st.InStockOnly = parseFlag(values.Get(ParamStock))
	}

	return st.Normalize()
}

// Encode writes st as query parameters, omitting every field equal to the
// default state of its category. The category itself is not encoded.
func Encode(st filter.State) url.Values {
	st = st.Normalize()
	def := filter.DefaultState(st.Category)
	values := url.Values{}

	if len(st.Brands) > 0 {
		values.Set(ParamBrands, strings.Join(st.Brands, ","))
	}
	for _, dim := range filter.Dimensions(st.Category) {
		if b, ok := st.Ranges[dim.Key]; ok && b != filter.BucketAll {
			values.Set(dim.Key, b)
		}
	}
	if st.PriceMin != def.PriceMin {
		values.Set(ParamPriceMin, formatPrice(st.PriceMin))
	}
	if st.PriceMax != def.PriceMax {
		values.Set(ParamPriceMax, formatPrice(st.PriceMax))
	}
	if st.Sort != def.Sort {
		values.Set(ParamSort, string(st.Sort))
	}
	if st.Query != "" {
		values.Set(ParamQuery, st.Query)
	}
	if st.Page > 1 {
		values.Set(ParamPage, strconv.Itoa(st.Page))
	}
	if st.InStockOnly {
		values.Set(ParamStock, "1")
	}
	return values
}

// EncodeCompare writes a shareable compare link.
func EncodeCompare(sel compare.Selection) url.Values {
	values := url.Values{}
	if sel.Len() == 0 {
		return values
	}
	values.Set(ParamCategory, string(sel.Category))
	values.Set(ParamIDs, strings.Join(sel.IDs, ","))
	return values
}

// DecodeCompare reads a compare link. An unknown category yields an empty
// selection; ids are de-duplicated and capped at compare.MaxProducts.
func DecodeCompare(values url.Values) compare.Selection {
	cat, err := catalog.ParseCategory(values.Get(ParamCategory))
	if err != nil {
		return compare.Selection{}
	}
	ids := splitList(values.Get(ParamIDs))
	if len(ids) == 0 {
		return compare.Selection{}
	}
	if len(ids) > compare.MaxProducts {
		ids = ids[:compare.MaxProducts]
	}
	return compare.Selection{Category: cat, IDs: ids}
}

func splitList(raw string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func parsePrice(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
