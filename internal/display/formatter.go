package display

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/appliance-compare/internal/browse"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
	"github.com/tayloree/appliance-compare/internal/prefs"
	"github.com/tayloree/appliance-compare/internal/toast"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	saleTag      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	specStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ProductJSON is the JSON output shape for a listed product.
type ProductJSON struct {
	Product         catalog.Product `json:"product"`
	DiscountPercent *int            `json:"discount_percent"`
	ValueScore      *float64        `json:"value_score"`
	Popularity      float64         `json:"popularity"`
	Favorite        bool            `json:"favorite,omitempty"`
}

// ProductDetailJSON adds the ordered spec table.
type ProductDetailJSON struct {
	ProductJSON
	Specs []catalog.SpecField `json:"specs"`
}

// ListJSON is the JSON output shape for one page of results.
type ListJSON struct {
	Category   catalog.Category    `json:"category"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Pages      []int               `json:"page_numbers"`
	Query      string              `json:"query"`
	Brands     []browse.BrandCount `json:"brands"`
	Items      []ProductJSON       `json:"items"`
}

// Summarize attaches the derived ranking figures to p.
func Summarize(p catalog.Product) ProductJSON {
	return ProductJSON{
		Product:         p,
		DiscountPercent: filter.DiscountPercent(p),
		ValueScore:      finite(filter.ProductValueScore(p)),
		Popularity:      filter.Popularity(p),
	}
}

// Detail returns the detail shape of p.
func Detail(p catalog.Product) ProductDetailJSON {
	return ProductDetailJSON{ProductJSON: Summarize(p), Specs: p.SpecFields()}
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// PrintProducts renders one page of a browse view. favorites marks slugs
// with a star and may be nil.
func PrintProducts(w io.Writer, view browse.View, favorites map[string]bool) {
	fmt.Fprintf(w, "\n%s — %s\n\n",
		headerStyle.Render(view.State.Category.Label()),
		cyanStyle.Render(fmt.Sprintf("%d matches, page %d/%d", view.Page.Total, view.Page.Page, view.Page.TotalPages)),
	)

	offset := (view.Page.Page - 1) * filter.PageSize
	for i, p := range view.Page.Items {
		printProduct(w, offset+i+1, p, favorites[p.Slug])
		fmt.Fprintln(w)
	}

	if view.Page.TotalPages > 1 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("pages: "+pageStrip(view.Page)))
	}
}

// PrintProductsJSON renders a browse view as JSON.
func PrintProductsJSON(w io.Writer, view browse.View, query string, favorites map[string]bool) error {
	out := ListJSON{
		Category:   view.State.Category,
		Total:      view.Page.Total,
		Page:       view.Page.Page,
		TotalPages: view.Page.TotalPages,
		Pages:      view.Page.Numbers,
		Query:      query,
		Brands:     view.Brands,
		Items:      make([]ProductJSON, 0, len(view.Page.Items)),
	}
	for _, p := range view.Page.Items {
		item := Summarize(p)
		item.Favorite = favorites[p.Slug]
		out.Items = append(out.Items, item)
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintProduct renders one product with its full spec table.
func PrintProduct(w io.Writer, p catalog.Product, favorite bool) {
	star := ""
	if favorite {
		star = specStyle.Render("★") + " "
	}
	fmt.Fprintf(w, "\n%s%s\n", star, titleStyle.Render(p.DisplayName()))
	if p.Name != p.DisplayName() {
		fmt.Fprintf(w, "%s\n", dimStyle.Render(wordWrap(p.Name, 72, "")))
	}
	fmt.Fprintf(w, "\n  %s\n", priceLine(p))

	fmt.Fprintln(w)
	for _, f := range p.SpecFields() {
		fmt.Fprintf(w, "  %-22s %s\n", f.Label, FormatSpec(f))
	}

	if len(p.Features) > 0 {
		fmt.Fprintf(w, "\n  %s\n", dimStyle.Render(wordWrap(strings.Join(p.Features, " · "), 72, "  ")))
	}

	var meta []string
	if v := finite(filter.ProductValueScore(p)); v != nil {
		meta = append(meta, fmt.Sprintf("value %.1f yen/unit", *v))
	}
	meta = append(meta, fmt.Sprintf("popularity %.1f", filter.Popularity(p)))
	if !p.InStock {
		meta = append(meta, "out of stock")
	}
	fmt.Fprintf(w, "\n  %s\n", dimStyle.Render(strings.Join(meta, " | ")))
	if p.AffiliateURL != "" {
		fmt.Fprintf(w, "  %s\n", cyanStyle.Render(p.AffiliateURL))
	}
	fmt.Fprintln(w)
}

// PrintProductJSON renders one product as JSON.
func PrintProductJSON(w io.Writer, p catalog.Product, favorite bool) error {
	out := Detail(p)
	out.Favorite = favorite
	return json.NewEncoder(w).Encode(out)
}

// PrintFavorites renders the favorite products; unknown slugs are listed dim.
func PrintFavorites(w io.Writer, products []catalog.Product, missing []string) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Favorites (%d)", len(products)+len(missing))))
	if len(products)+len(missing) == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No favorites yet."))
		return
	}
	for i, p := range products {
		printProduct(w, i+1, p, true)
		fmt.Fprintln(w)
	}
	for _, slug := range missing {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render(slug+" (no longer in the catalog)"))
	}
}

// PrintFavoritesJSON renders the favorite products as JSON.
func PrintFavoritesJSON(w io.Writer, products []catalog.Product) error {
	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		item := Summarize(p)
		item.Favorite = true
		out = append(out, item)
	}
	return json.NewEncoder(w).Encode(out)
}

// HistoryJSON is the JSON output shape of the history command.
type HistoryJSON struct {
	RecentlyViewed []prefs.Viewed `json:"recently_viewed"`
	Searches       []string       `json:"searches"`
}

// PrintHistory renders recently viewed products and recent searches.
func PrintHistory(w io.Writer, viewed []prefs.Viewed, searches []string) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Recently viewed"))
	if len(viewed) == 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Nothing yet."))
	}
	for _, v := range viewed {
		fmt.Fprintf(w, "  %s  %s %s\n",
			cyanStyle.Render(v.Slug),
			v.Name,
			dimStyle.Render(fmt.Sprintf("(%s, %s)", v.Category, v.ViewedAt.Format("2006-01-02 15:04"))),
		)
	}

	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Recent searches"))
	if len(searches) == 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Nothing yet."))
	}
	for _, q := range searches {
		fmt.Fprintf(w, "  %s\n", q)
	}
	fmt.Fprintln(w)
}

// PrintHistoryJSON renders history as JSON.
func PrintHistoryJSON(w io.Writer, viewed []prefs.Viewed, searches []string) error {
	if viewed == nil {
		viewed = []prefs.Viewed{}
	}
	if searches == nil {
		searches = []string{}
	}
	return json.NewEncoder(w).Encode(HistoryJSON{RecentlyViewed: viewed, Searches: searches})
}

// PrintReportNote prints a dim line when the catalog was not fully loaded
// from its primary source.
func PrintReportNote(w io.Writer, report catalog.Report) {
	switch report.Status {
	case catalog.StatusFallback:
		fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("note: using bundled data for %s", joinCategories(report.Degraded))))
	case catalog.StatusError:
		fmt.Fprintf(w, "%s\n", warningStyle.Render(fmt.Sprintf("note: no data for %s", joinCategories(report.Degraded))))
	}
}

// PrintStatus renders the per-category load report.
func PrintStatus(w io.Writer, report catalog.Report) {
	fmt.Fprintf(w, "\n%s %s\n\n", titleStyle.Render("Catalog status:"), statusLabel(report.Status))
	for _, r := range report.Categories {
		line := fmt.Sprintf("  %-16s %-8s loaded %d, dropped %d", r.Category, emptyIf(r.Source, "-"), r.Loaded, r.Dropped)
		if r.Error != "" {
			fmt.Fprintln(w, errorStyle.Render(line+" ("+r.Error+")"))
			continue
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

// PrintStatusJSON renders the load report as JSON.
func PrintStatusJSON(w io.Writer, report catalog.Report) error {
	return json.NewEncoder(w).Encode(report)
}

// PrintToasts writes the pending notifications, one per line.
func PrintToasts(w io.Writer, toasts []toast.Toast) {
	for _, t := range toasts {
		style := dimStyle
		switch t.Kind {
		case toast.Success:
			style = priceStyle
		case toast.Warning:
			style = warningStyle
		case toast.Error:
			style = errorStyle
		}
		fmt.Fprintln(w, style.Render(t.Message))
	}
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

// FormatYen renders a price as ¥24,800.
func FormatYen(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "¥" + b.String()
}

// FormatSpec renders a spec value with its unit; missing values render "-".
func FormatSpec(f catalog.SpecField) string {
	switch v := f.Value.(type) {
	case nil:
		return "-"
	case float64:
		return withUnit(strconv.FormatFloat(v, 'f', -1, 64), f.Unit)
	case int:
		return withUnit(strconv.Itoa(v), f.Unit)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func withUnit(s, unit string) string {
	if unit == "" {
		return s
	}
	return s + " " + unit
}

func printProduct(w io.Writer, n int, p catalog.Product, favorite bool) {
	tag := ""
	if favorite {
		tag = specStyle.Render("★") + " "
	}
	fmt.Fprintf(w, "  %s %s%s\n", dimStyle.Render(fmt.Sprintf("%2d.", n)), tag, titleStyle.Render(p.DisplayName()))
	fmt.Fprintf(w, "      %s\n", priceLine(p))

	if specs := SpecSummary(p); specs != "" {
		fmt.Fprintf(w, "      %s\n", specStyle.Render(specs))
	}

	meta := []string{p.Slug}
	if !p.InStock {
		meta = append(meta, "out of stock")
	}
	fmt.Fprintf(w, "      %s\n", dimStyle.Render(strings.Join(meta, " | ")))
}

// SpecSummary is the plain-text key spec line used by list rows.
func SpecSummary(p catalog.Product) string {
	var specs []string
	for _, f := range keySpecs(p) {
		specs = append(specs, f.Label+" "+FormatSpec(f))
	}
	return strings.Join(specs, " | ")
}

func priceLine(p catalog.Product) string {
	line := priceStyle.Render(FormatYen(p.Price))
	if d := filter.DiscountPercent(p); d != nil {
		line += " " + dimStyle.Render(FormatYen(*p.OriginalPrice)) + " " + saleTag.Render(fmt.Sprintf("-%d%%", *d))
	}
	return line
}

// keySpecs picks the fields shown in list rows: the primary spec, noise and
// efficiency tier.
func keySpecs(p catalog.Product) []catalog.SpecField {
	wanted := map[string]bool{
		p.Category.PrimarySpecKey(): true,
		"noise_level":               true,
		"energy_efficiency":         true,
	}
	var out []catalog.SpecField
	for _, f := range p.SpecFields() {
		if wanted[f.Key] && f.Value != nil {
			out = append(out, f)
		}
	}
	return out
}

func pageStrip(page filter.Page) string {
	parts := make([]string, 0, len(page.Numbers)+2)
	if page.HasPrev() {
		parts = append(parts, "‹")
	}
	for _, n := range page.Numbers {
		if n == page.Page {
			parts = append(parts, "["+strconv.Itoa(n)+"]")
			continue
		}
		parts = append(parts, strconv.Itoa(n))
	}
	if page.HasNext() {
		parts = append(parts, "›")
	}
	return strings.Join(parts, " ")
}

func statusLabel(s catalog.Status) string {
	switch s {
	case catalog.StatusSuccess:
		return priceStyle.Render(string(s))
	case catalog.StatusFallback:
		return warningStyle.Render(string(s))
	default:
		return errorStyle.Render(string(s))
	}
}

func joinCategories(cats []catalog.Category) string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func emptyIf(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n"+indent)
}
