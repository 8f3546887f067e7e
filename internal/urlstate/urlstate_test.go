package urlstate_test

import (
	"math/rand"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/filter"
	"github.com/tayloree/appliance-compare/internal/urlstate"
)

func TestRoundTrip_DefaultState(t *testing.T) {
	for _, cat := range catalog.Categories {
		def := filter.DefaultState(cat)
		values := urlstate.Encode(def)
		assert.Empty(t, values, "default state encodes to an empty query for %s", cat)
		assert.Equal(t, def, urlstate.Decode(values, def))
	}
}

func TestDecode_InvalidPriceUsesDefault(t *testing.T) {
	def := filter.DefaultState(catalog.Dehumidifier)
	bounds := filter.DefaultPriceRange(catalog.Dehumidifier)

	for _, raw := range []string{"abc", "NaN", "Infinity", "-Inf", ""} {
		st := urlstate.Decode(url.Values{"priceMin": {raw}, "priceMax": {raw}}, def)
		assert.Equal(t, bounds.Min, st.PriceMin, raw)
		assert.Equal(t, bounds.Max, st.PriceMax, raw)
	}
}

func TestDecode_ClampsAndSwapsPrices(t *testing.T) {
	def := filter.DefaultState(catalog.Fan)
	st := urlstate.Decode(url.Values{"priceMin": {"40000"}, "priceMax": {"-20"}}, def)
	assert.Equal(t, 0.0, st.PriceMin)
	assert.Equal(t, 40000.0, st.PriceMax)

	st = urlstate.Decode(url.Values{"priceMax": {"1e12"}}, def)
	assert.Equal(t, filter.DefaultPriceRange(catalog.Fan).Max, st.PriceMax)
}

func TestDecode_SanitizesEverything(t *testing.T) {
	def := filter.DefaultState(catalog.Dehumidifier)
	values := url.Values{
		"brands":   {" Sharp,,Corona ,Sharp"},
		"capacity": {"under10"},
		"type":     {"<script>"},
		"cadr":     {"under300"},
		"sort":     {"DROP TABLE"},
		"q":        {strings.Repeat("a", 500)},
		"page":     {"-4"},
		"stock":    {"true"},
	}
	st := urlstate.Decode(values, def)

	assert.Equal(t, []string{"Sharp", "Corona"}, st.Brands)
	assert.Equal(t, map[string]string{"capacity": "under10"}, st.Ranges)
	assert.Equal(t, filter.DefaultSort, st.Sort)
	assert.Len(t, st.Query, filter.MaxQueryLength)
	assert.Equal(t, 1, st.Page)
	assert.True(t, st.InStockOnly)
}

func TestDecode_PageGarbage(t *testing.T) {
	def := filter.DefaultState(catalog.Heater)
	for _, raw := range []string{"x", "0", "1.5", ""} {
		assert.Equal(t, 1, urlstate.Decode(url.Values{"page": {raw}}, def).Page, raw)
	}
	assert.Equal(t, 7, urlstate.Decode(url.Values{"page": {"7"}}, def).Page)
}

func TestDecode_CategorySwitch(t *testing.T) {
	def := filter.DefaultState(catalog.Dehumidifier)
	st := urlstate.Decode(url.Values{"cat": {"fan"}, "motor": {"dc"}, "capacity": {"under10"}}, def)
	assert.Equal(t, catalog.Fan, st.Category)
	assert.Equal(t, map[string]string{"motor": "dc"}, st.Ranges)
	assert.Equal(t, filter.DefaultPriceRange(catalog.Fan).Max, st.PriceMax)
}

func TestEncode_OmitsDefaults(t *testing.T) {
	st := filter.DefaultState(catalog.AirPurifier)
	st.Brands = []string{"Daikin", "Sharp"}
	st.Ranges = map[string]string{"cadr": "over500", "coverage": filter.BucketAll}
	st.PriceMax = 80000
	st.Sort = filter.SortPriceAsc
	st.Query = "加湿"
	st.Page = 3

	values := urlstate.Encode(st)
	assert.Equal(t, "Daikin,Sharp", values.Get("brands"))
	assert.Equal(t, "over500", values.Get("cadr"))
	assert.False(t, values.Has("coverage"))
	assert.False(t, values.Has("priceMin"))
	assert.Equal(t, "80000", values.Get("priceMax"))
	assert.Equal(t, "price_asc", values.Get("sort"))
	assert.Equal(t, "加湿", values.Get("q"))
	assert.Equal(t, "3", values.Get("page"))
	assert.False(t, values.Has("stock"))
}

func TestRoundTrip_ReachableStates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		cat := catalog.Categories[rng.Intn(len(catalog.Categories))]
		st := filter.DefaultState(cat)
		if rng.Intn(2) == 0 {
			st.Brands = []string{"Sharp", "Dyson"}[:1+rng.Intn(2)]
		}
		for _, dim := range filter.Dimensions(cat) {
			if rng.Intn(2) == 0 {
				if st.Ranges == nil {
					st.Ranges = map[string]string{}
				}
				st.Ranges[dim.Key] = dim.Buckets[rng.Intn(len(dim.Buckets))].Key
			}
		}
		bounds := filter.DefaultPriceRange(cat)
		if rng.Intn(2) == 0 {
			st.PriceMin = float64(rng.Intn(int(bounds.Max) / 2))
			st.PriceMax = st.PriceMin + float64(rng.Intn(int(bounds.Max)/2))
		}
		st.Sort = filter.SortKeys[rng.Intn(len(filter.SortKeys))]
		if rng.Intn(3) == 0 {
			st.Query = "quiet 静音"
		}
		st.Page = 1 + rng.Intn(5)
		st.InStockOnly = rng.Intn(2) == 0

		got := urlstate.Decode(urlstate.Encode(st), filter.DefaultState(cat))
		require.Equal(t, st.Normalize(), got, "state %+v", st)
	}
}

func TestCompareLinks(t *testing.T) {
	sel := compare.Selection{Category: catalog.AirPurifier, IDs: []string{"ap-001", "ap-003"}}
	values := urlstate.EncodeCompare(sel)
	assert.Equal(t, "ap-001,ap-003", values.Get("ids"))
	assert.Equal(t, sel, urlstate.DecodeCompare(values))

	assert.Empty(t, urlstate.EncodeCompare(compare.Selection{}))
	assert.Zero(t, urlstate.DecodeCompare(url.Values{"cat": {"toaster"}, "ids": {"a,b"}}).Len())

	capped := urlstate.DecodeCompare(url.Values{"cat": {"fan"}, "ids": {"a,b,a,c,d,e"}})
	assert.Equal(t, []string{"a", "b", "c", "d"}, capped.IDs)
}
