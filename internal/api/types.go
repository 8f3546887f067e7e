package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CatalogFile is the shape of a bundled per-category JSON file.
type CatalogFile struct {
	Products []RawRecord `json:"products"`
}

// RawRecord is a scraped or synced product record as it arrives from a
// catalog source. Envelope fields are typed; every top-level key is also kept
// in Fields so category-specific spec values can be looked up by alias.
type RawRecord struct {
	ID            FlexString     `json:"id"`
	Slug          string         `json:"slug"`
	CategorySlug  string         `json:"category_slug"`
	Brand         string         `json:"brand"`
	Model         string         `json:"model"`
	Name          string         `json:"name"`
	Price         any            `json:"price"`
	OriginalPrice any            `json:"original_price"`
	ImageURL      string         `json:"image_url"`
	AffiliateURL  string         `json:"affiliate_url"`
	InStock       *bool          `json:"in_stock"`
	Features      []string       `json:"features"`
	Specs         map[string]any `json:"specs"`

	Fields map[string]any `json:"-"`
}

// UnmarshalJSON decodes the typed envelope and keeps the raw key/value view.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	type plain RawRecord
	var envelope plain
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return err
	}

	*r = RawRecord(envelope)
	r.Fields = fields
	if specs, ok := fields["specs"].(map[string]any); ok {
		r.Specs = specs
	}
	return nil
}

// Lookup returns the first non-null value for any of keys, searching the
// nested specs object before the top-level fields.
func (r RawRecord) Lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r.Specs[key]; ok && v != nil {
			return v, true
		}
	}
	for _, key := range keys {
		if v, ok := r.Fields[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// FlexString accepts both JSON strings and numbers. Synced rows carry numeric
// ids while the bundled files use strings.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", data)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*s = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = FlexString(n.String())
	return nil
}

// String returns the id text.
func (s FlexString) String() string { return string(s) }
