package catalog

import (
	"fmt"
	"strings"
)

// Category identifies one of the closed set of appliance categories.
type Category string

const (
	Dehumidifier   Category = "dehumidifier"
	AirPurifier    Category = "air-purifier"
	AirConditioner Category = "air-conditioner"
	Heater         Category = "heater"
	Fan            Category = "fan"
)

// Categories lists every category in display order.
var Categories = []Category{Dehumidifier, AirPurifier, AirConditioner, Heater, Fan}

var categoryLabels = map[Category]string{
	Dehumidifier:   "Dehumidifiers",
	AirPurifier:    "Air purifiers",
	AirConditioner: "Air conditioners",
	Heater:         "Heaters",
	Fan:            "Fans",
}

var categoryAliases = map[string]Category{
	"dehumidifiers":    Dehumidifier,
	"air-purifiers":    AirPurifier,
	"purifier":         AirPurifier,
	"air-conditioners": AirConditioner,
	"aircon":           AirConditioner,
	"ac":               AirConditioner,
	"heaters":          Heater,
	"fans":             Fan,
	"circulator":       Fan,
}

// ParseCategory resolves a slug or a loose alias ("air_purifiers", "aircon").
func ParseCategory(raw string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.ReplaceAll(norm, "_", "-")
	norm = strings.ReplaceAll(norm, " ", "-")
	for _, c := range Categories {
		if string(c) == norm {
			return c, nil
		}
	}
	if c, ok := categoryAliases[norm]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns a human readable plural name.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// PrimarySpecKey names the spec field used for value (price per unit) scoring.
func (c Category) PrimarySpecKey() string {
	switch c {
	case Dehumidifier:
		return "daily_capacity"
	case AirPurifier:
		return "cadr"
	case AirConditioner:
		return "cooling_capacity"
	case Heater:
		return "heat_output"
	case Fan:
		return "airflow"
	default:
		return ""
	}
}
