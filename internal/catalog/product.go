package catalog

import "encoding/json"

// Product is a normalized catalog record. Exactly one of the category spec
// payloads is non-nil and it always matches Category. Products are never
// mutated after load.
type Product struct {
	ID            string
	Slug          string
	Category      Category
	Brand         string
	Model         string
	Name          string
	Price         float64
	OriginalPrice *float64
	AffiliateURL  string
	ImageURL      string
	InStock       bool
	Features      []string

	Dehumidifier   *DehumidifierSpecs
	AirPurifier    *AirPurifierSpecs
	AirConditioner *AirConditionerSpecs
	Heater         *HeaterSpecs
	Fan            *FanSpecs
}

type DehumidifierSpecs struct {
	DailyCapacity    *float64 // L/day
	TankCapacity     *float64 // L
	Noise            *float64 // dB
	Power            *float64 // W
	EnergyEfficiency *int
	Type             *string
}

type AirPurifierSpecs struct {
	CADR             *float64 // m³/h
	Coverage         *float64 // 畳
	Noise            *float64
	Power            *float64
	EnergyEfficiency *int
	FilterType       *string
	Humidifying      *bool
}

type AirConditionerSpecs struct {
	CoolingCapacity  *float64 // kW
	HeatingCapacity  *float64 // kW
	Coverage         *float64
	CSPF             *float64
	Noise            *float64
	Power            *float64
	EnergyEfficiency *int
	Inverter         *bool
}

type HeaterSpecs struct {
	HeatOutput        *float64 // W
	Coverage          *float64
	Noise             *float64
	Power             *float64
	EnergyEfficiency  *int
	HeaterType        *string
	TipOverProtection *bool
}

type FanSpecs struct {
	Airflow          *float64 // m³/min
	Noise            *float64
	Power            *float64
	EnergyEfficiency *int
	Motor            *string
	SpeedLevels      *int
	HasRemote        *bool
}

// SpecField is one named spec value. Value is nil, float64, int, string or bool.
type SpecField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Unit  string `json:"unit,omitempty"`
	Value any    `json:"value"`
}

// DisplayName is "Brand Model" when both are known, otherwise Name.
func (p Product) DisplayName() string {
	if p.Brand != "" && p.Model != "" {
		return p.Brand + " " + p.Model
	}
	return p.Name
}

// Noise returns the operating noise in dB, or nil when unknown.
func (p Product) Noise() *float64 {
	switch {
	case p.Dehumidifier != nil:
		return p.Dehumidifier.Noise
	case p.AirPurifier != nil:
		return p.AirPurifier.Noise
	case p.AirConditioner != nil:
		return p.AirConditioner.Noise
	case p.Heater != nil:
		return p.Heater.Noise
	case p.Fan != nil:
		return p.Fan.Noise
	}
	return nil
}

// Capacity returns the category's primary capability metric.
func (p Product) Capacity() *float64 {
	switch {
	case p.Dehumidifier != nil:
		return p.Dehumidifier.DailyCapacity
	case p.AirPurifier != nil:
		return p.AirPurifier.CADR
	case p.AirConditioner != nil:
		return p.AirConditioner.CoolingCapacity
	case p.Heater != nil:
		return p.Heater.HeatOutput
	case p.Fan != nil:
		return p.Fan.Airflow
	}
	return nil
}

// EnergyEfficiency returns the 1..5 tier (1 = best), or nil when unknown.
func (p Product) EnergyEfficiency() *int {
	switch {
	case p.Dehumidifier != nil:
		return p.Dehumidifier.EnergyEfficiency
	case p.AirPurifier != nil:
		return p.AirPurifier.EnergyEfficiency
	case p.AirConditioner != nil:
		return p.AirConditioner.EnergyEfficiency
	case p.Heater != nil:
		return p.Heater.EnergyEfficiency
	case p.Fan != nil:
		return p.Fan.EnergyEfficiency
	}
	return nil
}

// Power returns the rated power consumption in watts.
func (p Product) Power() *float64 {
	switch {
	case p.Dehumidifier != nil:
		return p.Dehumidifier.Power
	case p.AirPurifier != nil:
		return p.AirPurifier.Power
	case p.AirConditioner != nil:
		return p.AirConditioner.Power
	case p.Heater != nil:
		return p.Heater.Power
	case p.Fan != nil:
		return p.Fan.Power
	}
	return nil
}

// SpecFields returns the category's comparison-relevant fields in display order.
func (p Product) SpecFields() []SpecField {
	switch {
	case p.Dehumidifier != nil:
		s := p.Dehumidifier
		return []SpecField{
			numField("daily_capacity", "Daily capacity", "L/day", s.DailyCapacity),
			numField("tank_capacity", "Tank capacity", "L", s.TankCapacity),
			numField("noise_level", "Noise", "dB", s.Noise),
			numField("power_consumption", "Power", "W", s.Power),
			intField("energy_efficiency", "Energy efficiency", "", s.EnergyEfficiency),
			strField("type", "Type", s.Type),
		}
	case p.AirPurifier != nil:
		s := p.AirPurifier
		return []SpecField{
			numField("cadr", "CADR", "m³/h", s.CADR),
			numField("coverage", "Coverage", "畳", s.Coverage),
			numField("noise_level", "Noise", "dB", s.Noise),
			numField("power_consumption", "Power", "W", s.Power),
			intField("energy_efficiency", "Energy efficiency", "", s.EnergyEfficiency),
			strField("filter_type", "Filter", s.FilterType),
			boolField("humidifying", "Humidifying", s.Humidifying),
		}
	case p.AirConditioner != nil:
		s := p.AirConditioner
		return []SpecField{
			numField("cooling_capacity", "Cooling capacity", "kW", s.CoolingCapacity),
			numField("heating_capacity", "Heating capacity", "kW", s.HeatingCapacity),
			numField("coverage", "Coverage", "畳", s.Coverage),
			numField("cspf", "CSPF", "", s.CSPF),
			numField("noise_level", "Noise", "dB", s.Noise),
			numField("power_consumption", "Power", "W", s.Power),
			intField("energy_efficiency", "Energy efficiency", "", s.EnergyEfficiency),
			boolField("inverter", "Inverter", s.Inverter),
		}
	case p.Heater != nil:
		s := p.Heater
		return []SpecField{
			numField("heat_output", "Heat output", "W", s.HeatOutput),
			numField("coverage", "Coverage", "畳", s.Coverage),
			numField("noise_level", "Noise", "dB", s.Noise),
			numField("power_consumption", "Power", "W", s.Power),
			intField("energy_efficiency", "Energy efficiency", "", s.EnergyEfficiency),
			strField("heater_type", "Heater type", s.HeaterType),
			boolField("tip_over_protection", "Tip-over protection", s.TipOverProtection),
		}
	case p.Fan != nil:
		s := p.Fan
		return []SpecField{
			numField("airflow", "Airflow", "m³/min", s.Airflow),
			numField("noise_level", "Noise", "dB", s.Noise),
			numField("power_consumption", "Power", "W", s.Power),
			intField("energy_efficiency", "Energy efficiency", "", s.EnergyEfficiency),
			strField("motor", "Motor", s.Motor),
			intField("speed_levels", "Speed levels", "", s.SpeedLevels),
			boolField("has_remote", "Remote", s.HasRemote),
		}
	}
	return nil
}

// Spec returns the value of a single spec field by key.
func (p Product) Spec(key string) any {
	for _, f := range p.SpecFields() {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// MarshalJSON renders the flat record shape: envelope fields plus every spec
// value promoted to a top-level key, absent values as null.
func (p Product) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":             p.ID,
		"slug":           p.Slug,
		"category_slug":  p.Category,
		"brand":          p.Brand,
		"model":          p.Model,
		"name":           p.Name,
		"price":          p.Price,
		"original_price": p.OriginalPrice,
		"affiliate_url":  p.AffiliateURL,
		"image_url":      p.ImageURL,
		"in_stock":       p.InStock,
		"features":       nonNilStrings(p.Features),
	}
	for _, f := range p.SpecFields() {
		out[f.Key] = f.Value
	}
	return json.Marshal(out)
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func numField(key, label, unit string, v *float64) SpecField {
	f := SpecField{Key: key, Label: label, Unit: unit}
	if v != nil {
		f.Value = *v
	}
	return f
}

func intField(key, label, unit string, v *int) SpecField {
	f := SpecField{Key: key, Label: label, Unit: unit}
	if v != nil {
		f.Value = *v
	}
	return f
}

func strField(key, label string, v *string) SpecField {
	f := SpecField{Key: key, Label: label}
	if v != nil {
		f.Value = *v
	}
	return f
}

func boolField(key, label string, v *bool) SpecField {
	f := SpecField{Key: key, Label: label}
	if v != nil {
		f.Value = *v
	}
	return f
}
