package compare

import (
	"fmt"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// Row is one comparison table line. Values are aligned with the compared
// products; nil means unknown.
type Row struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Unit    string `json:"unit,omitempty"`
	Values  []any  `json:"values"`
	Differs bool   `json:"differs"`
}

// Differences builds the comparison rows (price first, then the category's
// spec fields) and flags rows whose known values are not all equal. Unknown
// values are ignored when deciding.
func Differences(products []catalog.Product) []Row {
	if len(products) == 0 {
		return nil
	}

	price := Row{Key: "price", Label: "Price", Unit: "円"}
	for _, p := range products {
		price.Values = append(price.Values, p.Price)
	}
	rows := []Row{price}

	for i, field := range products[0].SpecFields() {
		row := Row{Key: field.Key, Label: field.Label, Unit: field.Unit}
		for _, p := range products {
			fields := p.SpecFields()
			var v any
			if i < len(fields) && fields[i].Key == field.Key {
				v = fields[i].Value
			} else {
				v = p.Spec(field.Key)
			}
			row.Values = append(row.Values, v)
		}
		rows = append(rows, row)
	}

	for i := range rows {
		rows[i].Differs = differs(rows[i].Values)
	}
	return rows
}

// DifferingKeys returns the keys of rows that discriminate between products.
func DifferingKeys(rows []Row) []string {
	var keys []string
	for _, r := range rows {
		if r.Differs {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

func differs(values []any) bool {
	var first string
	seen := false
	for _, v := range values {
		if v == nil {
			continue
		}
		key := fmt.Sprint(v)
		if !seen {
			first, seen = key, true
			continue
		}
		if key != first {
			return true
		}
	}
	return false
}
