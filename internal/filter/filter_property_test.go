package filter_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
)

func randomProducts(rng *rand.Rand, count int) []catalog.Product {
	brands := []string{"Sharp", "Panasonic", "Corona", "Acme", "Dyson"}
	out := make([]catalog.Product, count)
	for i := range out {
		var capacity *float64
		if rng.Intn(4) > 0 {
			capacity = f(float64(rng.Intn(25)))
		}
		p := dehumidifier(fmt.Sprintf("p%03d", i), brands[rng.Intn(len(brands))], float64(rng.Intn(60000)), capacity)
		if rng.Intn(3) == 0 {
			p.OriginalPrice = f(p.Price + float64(rng.Intn(20000)))
		}
		if rng.Intn(2) == 0 {
			p.Dehumidifier.Noise = f(float64(30 + rng.Intn(25)))
		}
		if rng.Intn(2) == 0 {
			p.Dehumidifier.EnergyEfficiency = n(1 + rng.Intn(5))
		}
		p.InStock = rng.Intn(5) > 0
		out[i] = p
	}
	return out
}

func randomState(rng *rand.Rand) filter.State {
	st := filter.DefaultState(catalog.Dehumidifier)
	if rng.Intn(2) == 0 {
		st.Brands = []string{[]string{"Sharp", "Panasonic", "Corona"}[rng.Intn(3)]}
	}
	if rng.Intn(2) == 0 {
		st.Ranges = map[string]string{"capacity": []string{"under10", "10to15", "over15", "all"}[rng.Intn(4)]}
	}
	if rng.Intn(2) == 0 {
		st.PriceMin = float64(rng.Intn(30000))
		st.PriceMax = float64(rng.Intn(60000))
	}
	st.InStockOnly = rng.Intn(4) == 0
	return st
}

func referenceMatch(p catalog.Product, st filter.State) bool {
	st = st.Normalize()
	if len(st.Brands) > 0 {
		found := false
		for _, b := range st.Brands {
			found = found || b == p.Brand
		}
		if !found {
			return false
		}
	}
	c := p.Capacity()
	switch st.Ranges["capacity"] {
	case "under10":
		if c == nil || *c >= 10 {
			return false
		}
	case "10to15":
		if c == nil || *c < 10 || *c > 15 {
			return false
		}
	case "over15":
		if c == nil || *c <= 15 {
			return false
		}
	}
	if p.Price < st.PriceMin || p.Price > st.PriceMax {
		return false
	}
	return !st.InStockOnly || p.InStock
}

func TestApply_MatchesReferenceOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		products := randomProducts(rng, 40)
		st := randomState(rng)

		var want []string
		for _, p := range products {
			if referenceMatch(p, st) {
				want = append(want, p.ID)
			}
		}
		got := ids(filter.Apply(products, st))
		if len(want) == 0 {
			assert.Empty(t, got, "round %d", round)
			continue
		}
		assert.Equal(t, want, got, "round %d state %+v", round, st)
	}
}

func TestSort_PropertiesOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		products := randomProducts(rng, 30)
		for _, key := range filter.SortKeys {
			once := filter.Sort(products, key)
			assert.Len(t, once, len(products))
			assert.Equal(t, ids(once), ids(filter.Sort(once, key)), "key %s", key)
		}

		asc := filter.Sort(products, filter.SortPriceAsc)
		for i := 1; i < len(asc); i++ {
			assert.LessOrEqual(t, asc[i-1].Price, asc[i].Price)
		}
		noise := filter.Sort(products, filter.SortNoiseAsc)
		seenMissing := false
		for _, p := range noise {
			if p.Noise() == nil {
				seenMissing = true
			} else {
				assert.False(t, seenMissing && *p.Noise() < filter.WorstNoiseDB, "missing noise must sort last")
			}
		}
	}
}
