package filter_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
)

func TestState_Normalize(t *testing.T) {
	st := filter.State{
		Category: catalog.Fan,
		Brands:   []string{" Balmuda ", "", "Balmuda", "Dyson"},
		Ranges:   map[string]string{"motor": "dc", "capacity": "under10"},
		PriceMin: 50000,
		PriceMax: math.NaN(),
		Query:    "  fan  ",
		Sort:     "bogus",
		Page:     -3,
	}

	got := st.Normalize()
	bounds := filter.DefaultPriceRange(catalog.Fan)

	assert.Equal(t, []string{"Balmuda", "Dyson"}, got.Brands)
	assert.Equal(t, map[string]string{"motor": "dc"}, got.Ranges)
	assert.Equal(t, 50000.0, got.PriceMin)
	assert.Equal(t, bounds.Max, got.PriceMax)
	assert.Equal(t, "fan", got.Query)
	assert.Equal(t, filter.DefaultSort, got.Sort)
	assert.Equal(t, 1, got.Page)
}

func TestState_NormalizeSwapsAndClampsPrices(t *testing.T) {
	st := filter.DefaultState(catalog.Heater)
	st.PriceMin = 1e9
	st.PriceMax = -5

	got := st.Normalize()
	bounds := filter.DefaultPriceRange(catalog.Heater)
	assert.Equal(t, bounds.Min, got.PriceMin)
	assert.Equal(t, bounds.Max, got.PriceMax)
	assert.LessOrEqual(t, got.PriceMin, got.PriceMax)
}

func TestState_DefaultIsDefault(t *testing.T) {
	for _, cat := range catalog.Categories {
		assert.True(t, filter.DefaultState(cat).IsDefault())
	}
	st := filter.DefaultState(catalog.Fan)
	st.Page = 2
	assert.False(t, st.IsDefault())
}

func TestCapQuery(t *testing.T) {
	long := strings.Repeat("除", filter.MaxQueryLength+50)
	assert.Equal(t, filter.MaxQueryLength, len([]rune(filter.CapQuery(long))))
	assert.Equal(t, "abc", filter.CapQuery(" abc "))
}
