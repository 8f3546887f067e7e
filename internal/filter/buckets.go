package filter

import (
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// BucketAll disables a dimension.
const BucketAll = "all"

// Bucket is a named discrete interval (or enumerated value) of a dimension.
type Bucket struct {
	Key   string
	Label string
	match func(catalog.Product) bool
}

// Matches reports whether p falls into the bucket. Products with a missing
// value never match.
func (b Bucket) Matches(p catalog.Product) bool { return b.match(p) }

// Dimension is a category-specific bucketed filter.
type Dimension struct {
	Key     string
	Label   string
	Buckets []Bucket
}

// Bucket looks up a bucket by key.
func (d Dimension) Bucket(key string) (Bucket, bool) {
	for _, b := range d.Buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

type numGetter func(catalog.Product) *float64

func below(key, label string, get numGetter, limit float64) Bucket {
	return Bucket{Key: key, Label: label, match: func(p catalog.Product) bool {
		v := get(p)
		return v != nil && *v < limit
	}}
}

func between(key, label string, get numGetter, lo, hi float64) Bucket {
	return Bucket{Key: key, Label: label, match: func(p catalog.Product) bool {
		v := get(p)
		return v != nil && *v >= lo && *v <= hi
	}}
}

func above(key, label string, get numGetter, limit float64) Bucket {
	return Bucket{Key: key, Label: label, match: func(p catalog.Product) bool {
		v := get(p)
		return v != nil && *v > limit
	}}
}

func equalsFold(key, label string, get func(catalog.Product) *string) Bucket {
	return Bucket{Key: key, Label: label, match: func(p catalog.Product) bool {
		v := get(p)
		return v != nil && strings.EqualFold(*v, key)
	}}
}

func tierWithin(key, label string, lo, hi int) Bucket {
	return Bucket{Key: key, Label: label, match: func(p catalog.Product) bool {
		v := p.EnergyEfficiency()
		return v != nil && *v >= lo && *v <= hi
	}}
}

func capacity(p catalog.Product) *float64 { return p.Capacity() }

func dehumidifierType(p catalog.Product) *string {
	if p.Dehumidifier == nil {
		return nil
	}
	return p.Dehumidifier.Type
}

func purifierCoverage(p catalog.Product) *float64 {
	if p.AirPurifier == nil {
		return nil
	}
	return p.AirPurifier.Coverage
}

func airconCoverage(p catalog.Product) *float64 {
	if p.AirConditioner == nil {
		return nil
	}
	return p.AirConditioner.Coverage
}

func fanMotor(p catalog.Product) *string {
	if p.Fan == nil {
		return nil
	}
	return p.Fan.Motor
}

var dimensions = map[catalog.Category][]Dimension{
	catalog.Dehumidifier: {
		{Key: "capacity", Label: "Daily capacity", Buckets: []Bucket{
			below("under10", "Under 10 L/day", capacity, 10),
			between("10to15", "10–15 L/day", capacity, 10, 15),
			above("over15", "Over 15 L/day", capacity, 15),
		}},
		{Key: "type", Label: "Type", Buckets: []Bucket{
			equalsFold("compressor", "Compressor", dehumidifierType),
			equalsFold("desiccant", "Desiccant", dehumidifierType),
			equalsFold("hybrid", "Hybrid", dehumidifierType),
		}},
	},
	catalog.AirPurifier: {
		{Key: "cadr", Label: "CADR", Buckets: []Bucket{
			below("under300", "Under 300 m³/h", capacity, 300),
			between("300to500", "300–500 m³/h", capacity, 300, 500),
			above("over500", "Over 500 m³/h", capacity, 500),
		}},
		{Key: "coverage", Label: "Coverage", Buckets: []Bucket{
			below("under20", "Under 20 畳", purifierCoverage, 20),
			between("20to40", "20–40 畳", purifierCoverage, 20, 40),
			above("over40", "Over 40 畳", purifierCoverage, 40),
		}},
	},
	catalog.AirConditioner: {
		{Key: "coverage", Label: "Room size", Buckets: []Bucket{
			below("under10", "Under 10 畳", airconCoverage, 10),
			between("10to18", "10–18 畳", airconCoverage, 10, 18),
			above("over18", "Over 18 畳", airconCoverage, 18),
		}},
		{Key: "efficiency", Label: "Energy efficiency", Buckets: []Bucket{
			tierWithin("top", "Tier 1–2", 1, 2),
			tierWithin("standard", "Tier 3–5", 3, 5),
		}},
	},
	catalog.Heater: {
		{Key: "output", Label: "Heat output", Buckets: []Bucket{
			below("under800", "Under 800 W", capacity, 800),
			between("800to1200", "800–1200 W", capacity, 800, 1200),
			above("over1200", "Over 1200 W", capacity, 1200),
		}},
	},
	catalog.Fan: {
		{Key: "motor", Label: "Motor", Buckets: []Bucket{
			equalsFold("dc", "DC motor", fanMotor),
			equalsFold("ac", "AC motor", fanMotor),
		}},
	},
}

// Dimensions returns the bucketed filter dimensions of a category.
func Dimensions(cat catalog.Category) []Dimension {
	return dimensions[cat]
}

// LookupDimension finds a dimension of cat by key.
func LookupDimension(cat catalog.Category, key string) (Dimension, bool) {
	for _, d := range dimensions[cat] {
		if d.Key == key {
			return d, true
		}
	}
	return Dimension{}, false
}

// DimensionKeys returns the union of dimension keys across categories, used by
// the URL codec to recognise bucket parameters.
func DimensionKeys() []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, cat := range catalog.Categories {
		for _, d := range dimensions[cat] {
			if _, ok := seen[d.Key]; ok {
				continue
			}
			seen[d.Key] = struct{}{}
			keys = append(keys, d.Key)
		}
	}
	return keys
}
