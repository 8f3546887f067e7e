package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
)

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }
func s(v string) *string   { return &v }

func dehumidifier(id, brand string, price float64, capacity *float64) catalog.Product {
	return catalog.Product{
		ID:           id,
		Slug:         "dehumidifier-" + id,
		Category:     catalog.Dehumidifier,
		Brand:        brand,
		Name:         brand + " dehumidifier " + id,
		Price:        price,
		InStock:      true,
		Dehumidifier: &catalog.DehumidifierSpecs{DailyCapacity: capacity},
	}
}

func sampleProducts() []catalog.Product {
	a := dehumidifier("1", "Sharp", 24800, f(8))
	a.Dehumidifier.Type = s("compressor")
	b := dehumidifier("2", "Panasonic", 39800, f(12))
	b.Dehumidifier.Type = s("hybrid")
	c := dehumidifier("3", "Corona", 18800, f(18))
	c.Dehumidifier.Type = s("compressor")
	d := dehumidifier("4", "Iris Ohyama", 9800, nil)
	d.InStock = false
	e := catalog.Product{
		ID: "10", Slug: "fan-10", Category: catalog.Fan, Brand: "Balmuda",
		Name: "GreenFan", Price: 38500, InStock: true,
		Fan: &catalog.FanSpecs{Motor: s("dc")},
	}
	return []catalog.Product{a, b, c, d, e}
}

func ids(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApply_DefaultStateKeepsCategory(t *testing.T) {
	result := filter.Apply(sampleProducts(), filter.DefaultState(catalog.Dehumidifier))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(result))
}

func TestApply_EmptyCategoryKeepsEverything(t *testing.T) {
	result := filter.Apply(sampleProducts(), filter.State{PriceMax: 500000})
	assert.Len(t, result, 5)
}

func TestApply_BrandsAreExactOr(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	st.Brands = []string{"Sharp", "Corona", "sharp"}
	result := filter.Apply(sampleProducts(), st)
	assert.Equal(t, []string{"1", "3"}, ids(result))
}

func TestApply_Under10ExcludesNullCapacity(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	st.Ranges = map[string]string{"capacity": "under10"}
	result := filter.Apply(sampleProducts(), st)
	require.Equal(t, []string{"1"}, ids(result))
	for _, p := range result {
		require.NotNil(t, p.Capacity())
		assert.Less(t, *p.Capacity(), 10.0)
	}
}

func TestApply_BucketBoundariesAreInclusive(t *testing.T) {
	products := []catalog.Product{
		dehumidifier("a", "X", 1, f(10)),
		dehumidifier("b", "X", 1, f(15)),
		dehumidifier("c", "X", 1, f(15.5)),
	}
	st := filter.DefaultState(catalog.Dehumidifier)
	st.Ranges = map[string]string{"capacity": "10to15"}
	assert.Equal(t, []string{"a", "b"}, ids(filter.Apply(products, st)))

	st.Ranges = map[string]string{"capacity": "over15"}
	assert.Equal(t, []string{"c"}, ids(filter.Apply(products, st)))
}

func TestApply_AllAndUnknownBucketsAreIgnored(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	st.Ranges = map[string]string{"capacity": filter.BucketAll, "cadr": "under300", "type": "bogus"}
	assert.Len(t, filter.Apply(sampleProducts(), st), 4)
}

func TestApply_EnumBucket(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	st.Ranges = map[string]string{"type": "compressor"}
	assert.Equal(t, []string{"1", "3"}, ids(filter.Apply(sampleProducts(), st)))
}

func TestApply_PriceIsInclusive(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	st.PriceMin = 18800
	st.PriceMax = 24800
	assert.Equal(t, []string{"1", "3"}, ids(filter.Apply(sampleProducts(), st)))
}

func TestApply_SwappedPriceIsCoerced(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	st.PriceMin = 24800
	st.PriceMax = 18800
	assert.Equal(t, []string{"1", "3"}, ids(filter.Apply(sampleProducts(), st)))
}

func TestApply_InStockOnly(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	st.InStockOnly = true
	assert.Equal(t, []string{"1", "2", "3"}, ids(filter.Apply(sampleProducts(), st)))
}

func TestApply_QueryMatchesNameBrandAndSynonyms(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)

	st.Query = "  PANASONIC "
	assert.Equal(t, []string{"2"}, ids(filter.Apply(sampleProducts(), st)))

	st.Query = "パナソニック"
	assert.Equal(t, []string{"2"}, ids(filter.Apply(sampleProducts(), st)))

	st.Query = "iris-ohyama"
	assert.Equal(t, []string{"4"}, ids(filter.Apply(sampleProducts(), st)))

	st.Query = "toaster"
	assert.Empty(t, filter.Apply(sampleProducts(), st))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	before := ids(products)
	st := filter.DefaultState(catalog.Dehumidifier)
	st.Brands = []string{"Corona"}
	_ = filter.Apply(products, st)
	assert.Equal(t, before, ids(products))
}

func TestBrands(t *testing.T) {
	products := append(sampleProducts(), dehumidifier("5", "Sharp", 1, nil))
	brands := filter.Brands(products)
	assert.Equal(t, 2, brands["Sharp"])
	assert.Equal(t, 1, brands["Balmuda"])
}

func TestDimensions(t *testing.T) {
	for _, cat := range catalog.Categories {
		assert.NotEmpty(t, filter.Dimensions(cat), "category %s", cat)
	}
	dim, ok := filter.LookupDimension(catalog.AirPurifier, "coverage")
	require.True(t, ok)
	assert.Len(t, dim.Buckets, 3)
	assert.Contains(t, filter.DimensionKeys(), "motor")
}
