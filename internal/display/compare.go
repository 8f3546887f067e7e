package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
)

// ComparisonJSON is the JSON output shape of a comparison.
type ComparisonJSON struct {
	Result *compare.Result `json:"result"`
	Share  string          `json:"share"`
}

// PrintComparison renders scores, winners, the summary sentence and the
// spec table with differing rows highlighted. Only differing rows are shown
// when onlyDiffs is set.
func PrintComparison(w io.Writer, res *compare.Result, share string, onlyDiffs bool) {
	fmt.Fprintf(w, "\n%s — %s\n\n",
		headerStyle.Render("Comparison"),
		cyanStyle.Render(fmt.Sprintf("%d %s", len(res.Products), strings.ToLower(res.Category.Label()))),
	)
	fmt.Fprintf(w, "  %s\n\n", titleStyle.Render(wordWrap(res.Summary.Text, 72, "  ")))

	names := make([]string, len(res.Products))
	for i, p := range res.Products {
		names[i] = p.DisplayName()
	}
	width := columnWidth(names)

	fmt.Fprintf(w, "  %-22s", "")
	for _, n := range names {
		fmt.Fprintf(w, " %s", titleStyle.Render(pad(n, width)))
	}
	fmt.Fprintln(w)

	scoreRow := func(label string, get func(compare.Score) float64) {
		fmt.Fprintf(w, "  %-22s", label)
		for _, s := range res.Scores {
			fmt.Fprintf(w, " %s", pad(fmt.Sprintf("%.1f", get(s)), width))
		}
		fmt.Fprintln(w)
	}
	scoreRow("Price score", func(s compare.Score) float64 { return s.Price })
	scoreRow("Capacity score", func(s compare.Score) float64 { return s.Capacity })
	scoreRow("Noise score", func(s compare.Score) float64 { return s.Noise })
	scoreRow("Efficiency score", func(s compare.Score) float64 { return s.Efficiency })

	fmt.Fprintf(w, "  %-22s", "Total")
	for _, s := range res.Scores {
		cell := pad(fmt.Sprintf("%.1f", s.Total), width)
		if s.ProductID == res.Winners.Overall {
			cell = priceStyle.Render(cell)
		}
		fmt.Fprintf(w, " %s", cell)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(fmt.Sprintf(
		"weights: price %.0f, capacity %.0f, noise %.0f, efficiency %.0f",
		res.Weights.Price, res.Weights.Capacity, res.Weights.Noise, res.Weights.Efficiency,
	)))

	byID := make(map[string]catalog.Product, len(res.Products))
	for _, p := range res.Products {
		byID[p.ID] = p
	}
	winner := func(label, id string) {
		fmt.Fprintf(w, "  %-22s %s\n", label, byID[id].DisplayName())
	}
	winner("Best budget", res.Winners.Budget)
	winner("Quietest", res.Winners.Quiet)
	winner("Most powerful", res.Winners.Powerful)
	winner("Best value", res.Winners.Value)
	winner("Best overall", res.Winners.Overall)
	fmt.Fprintln(w)

	for _, row := range res.Rows {
		if onlyDiffs && !row.Differs {
			continue
		}
		label := row.Label
		if row.Unit != "" {
			label += " (" + row.Unit + ")"
		}
		fmt.Fprintf(w, "  %-22s", label)
		for _, v := range row.Values {
			cell := pad(formatCell(row.Key, v), width)
			if row.Differs {
				cell = specStyle.Render(cell)
			}
			fmt.Fprintf(w, " %s", cell)
		}
		fmt.Fprintln(w)
	}

	if share != "" {
		fmt.Fprintf(w, "\n  %s\n", dimStyle.Render("share: ?"+share))
	}
	fmt.Fprintln(w)
}

// PrintComparisonJSON renders a comparison as JSON.
func PrintComparisonJSON(w io.Writer, res *compare.Result, share string) error {
	return json.NewEncoder(w).Encode(ComparisonJSON{Result: res, Share: share})
}

func formatCell(key string, v any) string {
	if key == "price" {
		if f, ok := v.(float64); ok {
			return FormatYen(f)
		}
	}
	return FormatSpec(catalog.SpecField{Value: v})
}

func columnWidth(names []string) int {
	width := 12
	for _, n := range names {
		if l := len([]rune(n)); l > width {
			width = l
		}
	}
	if width > 24 {
		width = 24
	}
	return width
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
