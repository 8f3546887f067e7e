package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/tayloree/appliance-compare/internal/api"
)

// ErrInvalidRecord marks a raw record that failed required-field validation.
var ErrInvalidRecord = errors.New("invalid record")

// ErrExcluded marks a record rejected by a category quality gate.
var ErrExcluded = errors.New("excluded by quality gate")

var (
	reNumber    = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	reSlugJunk  = regexp.MustCompile(`[^a-z0-9]+`)
	reWordCache = map[string]*regexp.Regexp{}
)

func init() {
	for _, kw := range dehumidifierRequired {
		if isASCII(kw) {
			reWordCache[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw))
		}
	}
	// Exclusions match whole words so "fan" does not hit "fancy" and
	// "humidifier" does not hit "dehumidifier".
	for _, kw := range dehumidifierExcluded {
		if isASCII(kw) {
			reWordCache[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `s?\b`)
		}
	}
}

// Normalize converts one raw record into a Product of the given category.
func Normalize(raw api.RawRecord, cat Category) (Product, error) {
	if !cat.Valid() {
		return Product{}, fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, cat)
	}

	id := strings.TrimSpace(raw.ID.String())
	if id == "" {
		return Product{}, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Product{}, fmt.Errorf("%w: record %s: missing name", ErrInvalidRecord, id)
	}
	price := parseNumber(raw.Price)
	if price == nil || *price < 0 {
		return Product{}, fmt.Errorf("%w: record %s: missing or negative price", ErrInvalidRecord, id)
	}

	p := Product{
		ID:            id,
		Slug:          strings.TrimSpace(raw.Slug),
		Category:      cat,
		Brand:         strings.TrimSpace(raw.Brand),
		Model:         strings.TrimSpace(raw.Model),
		Name:          name,
		Price:         *price,
		OriginalPrice: parseNumber(raw.OriginalPrice),
		AffiliateURL:  strings.TrimSpace(raw.AffiliateURL),
		ImageURL:      strings.TrimSpace(raw.ImageURL),
		InStock:       raw.InStock == nil || *raw.InStock,
		Features:      cleanFeatures(raw.Features),
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < 0 {
		p.OriginalPrice = nil
	}
	if p.Slug == "" {
		p.Slug = deriveSlug(p)
	}

	num := func(keys []string) *float64 {
		v, _ := raw.Lookup(keys...)
		return parseNumber(v)
	}
	str := func(keys []string) *string {
		v, _ := raw.Lookup(keys...)
		return parseString(v)
	}
	flag := func(keys []string) *bool {
		v, _ := raw.Lookup(keys...)
		return parseBool(v)
	}
	eff := func() *int {
		v, _ := raw.Lookup(aliasEfficiency...)
		return parseTier(v)
	}

	switch cat {
	case Dehumidifier:
		p.Dehumidifier = &DehumidifierSpecs{
			DailyCapacity:    num(aliasDailyCapacity),
			TankCapacity:     num(aliasTankCapacity),
			Noise:            num(aliasNoise),
			Power:            num(aliasPower),
			EnergyEfficiency: eff(),
			Type:             lower(str(aliasDehumType)),
		}
	case AirPurifier:
		p.AirPurifier = &AirPurifierSpecs{
			CADR:             num(aliasCADR),
			Coverage:         num(aliasPurifierCv),
			Noise:            num(aliasNoise),
			Power:            num(aliasPower),
			EnergyEfficiency: eff(),
			FilterType:       str(aliasFilterType),
			Humidifying:      flag(aliasHumidify),
		}
	case AirConditioner:
		p.AirConditioner = &AirConditionerSpecs{
			CoolingCapacity:  num(aliasCooling),
			HeatingCapacity:  num(aliasHeating),
			Coverage:         num(aliasCoverage),
			CSPF:             num(aliasCSPF),
			Noise:            num(aliasNoise),
			Power:            num(aliasPower),
			EnergyEfficiency: eff(),
			Inverter:         flag(aliasInverter),
		}
	case Heater:
		p.Heater = &HeaterSpecs{
			HeatOutput:        num(aliasHeatOutput),
			Coverage:          num(aliasCoverage),
			Noise:             num(aliasNoise),
			Power:             num(aliasPower),
			EnergyEfficiency:  eff(),
			HeaterType:        lower(str(aliasHeaterType)),
			TipOverProtection: flag(aliasTipOver),
		}
	case Fan:
		p.Fan = &FanSpecs{
			Airflow:          num(aliasAirflow),
			Noise:            num(aliasNoise),
			Power:            num(aliasPower),
			EnergyEfficiency: eff(),
			Motor:            lower(str(aliasMotor)),
			SpeedLevels:      parseCount(firstValue(raw, aliasSpeedLevels)),
			HasRemote:        flag(aliasRemote),
		}
	}

	return p, nil
}

// Gate applies the category's data-quality gate to a product name. Only
// dehumidifiers have one.
func Gate(cat Category, name string) error {
	if cat != Dehumidifier {
		return nil
	}
	lowered := strings.ToLower(name)
	for _, kw := range dehumidifierExcluded {
		if containsKeyword(lowered, kw) {
			return fmt.Errorf("%w: %q mentions %q", ErrExcluded, name, kw)
		}
	}
	for _, kw := range dehumidifierRequired {
		if containsKeyword(lowered, kw) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q does not mention dehumidifying", ErrExcluded, name)
}

func containsKeyword(lowered, kw string) bool {
	if re, ok := reWordCache[kw]; ok {
		return re.MatchString(lowered)
	}
	return strings.Contains(lowered, kw)
}

func firstValue(raw api.RawRecord, keys []string) any {
	v, _ := raw.Lookup(keys...)
	return v
}

// parseNumber accepts JSON numbers and scraped strings such as "10.5L/日" or
// "¥12,800". Non-finite values are treated as absent.
func parseNumber(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		clean := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		m := reNumber.FindString(clean)
		if m == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseTier returns an energy-efficiency tier in 1..5, nil otherwise.
func parseTier(v any) *int {
	n := parseCount(v)
	if n == nil || *n < 1 || *n > 5 {
		return nil
	}
	return n
}

func parseCount(v any) *int {
	f := parseNumber(v)
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

func parseString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseBool(v any) *bool {
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1", "あり", "有", "○":
			b = true
		case "false", "no", "0", "なし", "無", "×":
			b = false
		default:
			return nil
		}
	case json.Number:
		b = t.String() != "0"
	case float64:
		b = t != 0
	default:
		return nil
	}
	return &b
}

func lower(s *string) *string {
	if s == nil {
		return nil
	}
	l := strings.ToLower(*s)
	return &l
}

func cleanFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func deriveSlug(p Product) string {
	base := strings.ToLower(strings.TrimSpace(p.Brand + " " + p.Model))
	slug := strings.Trim(reSlugJunk.ReplaceAllString(base, "-"), "-")
	if slug == "" || p.Model == "" {
		return string(p.Category) + "-" + strings.ToLower(p.ID)
	}
	return slug
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
