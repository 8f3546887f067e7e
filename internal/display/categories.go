package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tayloree/appliance-compare/internal/browse"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
)

// CategoryJSON describes one category and its filter facets.
type CategoryJSON struct {
	Slug        catalog.Category    `json:"slug"`
	Label       string              `json:"label"`
	Count       int                 `json:"count"`
	PrimarySpec string              `json:"primary_spec"`
	PriceRange  filter.PriceRange   `json:"price_range"`
	Dimensions  []DimensionJSON     `json:"dimensions"`
	Brands      []browse.BrandCount `json:"brands"`
	SortKeys    []filter.SortKey    `json:"sort_keys"`
}

// DimensionJSON is a bucketed filter with per-bucket counts.
type DimensionJSON struct {
	Key     string       `json:"key"`
	Label   string       `json:"label"`
	Buckets []BucketJSON `json:"buckets"`
}

// BucketJSON is one bucket of a dimension.
type BucketJSON struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DescribeCategories builds the facet summary of every category in snap.
func DescribeCategories(snap *catalog.Snapshot) []CategoryJSON {
	out := make([]CategoryJSON, 0, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		out = append(out, DescribeCategory(cat, snap.Category(cat)))
	}
	return out
}

// DescribeCategory builds the facet summary of one category.
func DescribeCategory(cat catalog.Category, products []catalog.Product) CategoryJSON {
	info := CategoryJSON{
		Slug:        cat,
		Label:       cat.Label(),
		Count:       len(products),
		PrimarySpec: cat.PrimarySpecKey(),
		PriceRange:  filter.DefaultPriceRange(cat),
		Brands:      browse.New(products, filter.DefaultState(cat)).View().Brands,
		SortKeys:    filter.SortKeys,
		Dimensions:  []DimensionJSON{},
	}
	for _, dim := range filter.Dimensions(cat) {
		d := DimensionJSON{Key: dim.Key, Label: dim.Label}
		for _, b := range dim.Buckets {
			count := 0
			for _, p := range products {
				if b.Matches(p) {
					count++
				}
			}
			d.Buckets = append(d.Buckets, BucketJSON{Key: b.Key, Label: b.Label, Count: count})
		}
		info.Dimensions = append(info.Dimensions, d)
	}
	return info
}

// PrintCategories renders every category with its product count.
func PrintCategories(w io.Writer, cats []CategoryJSON) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Categories:"))
	for _, c := range cats {
		fmt.Fprintf(w, "  %s %s %s\n",
			cyanStyle.Render(pad(string(c.Slug), 16)),
			pad(c.Label, 18),
			dimStyle.Render(fmt.Sprintf("%d products", c.Count)),
		)
	}
	fmt.Fprintln(w)
}

// PrintCategoryFacets renders the filter facets of one category.
func PrintCategoryFacets(w io.Writer, c CategoryJSON) {
	fmt.Fprintf(w, "\n%s %s\n\n",
		titleStyle.Render(c.Label),
		dimStyle.Render(fmt.Sprintf("(%d products, %s–%s)", c.Count, FormatYen(c.PriceRange.Min), FormatYen(c.PriceRange.Max))),
	)
	for _, d := range c.Dimensions {
		fmt.Fprintf(w, "  %s %s\n", titleStyle.Render(d.Label), dimStyle.Render("--range "+d.Key+"=KEY"))
		for _, b := range d.Buckets {
			fmt.Fprintf(w, "    %s %s %s\n", cyanStyle.Render(pad(b.Key, 12)), pad(b.Label, 18), dimStyle.Render(fmt.Sprint(b.Count)))
		}
	}

	fmt.Fprintf(w, "  %s\n", titleStyle.Render("Brands"))
	for _, b := range c.Brands {
		fmt.Fprintf(w, "    %s %s\n", pad(b.Brand, 20), dimStyle.Render(fmt.Sprint(b.Count)))
	}

	keys := make([]string, 0, len(c.SortKeys))
	for _, k := range c.SortKeys {
		keys = append(keys, string(k))
	}
	fmt.Fprintf(w, "\n  %s %s\n\n", titleStyle.Render("Sort:"), strings.Join(keys, ", "))
}

// PrintCategoriesJSON renders category facets as JSON.
func PrintCategoriesJSON(w io.Writer, cats []CategoryJSON) error {
	return json.NewEncoder(w).Encode(cats)
}
