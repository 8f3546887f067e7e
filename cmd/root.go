package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tayloree/appliance-compare/internal/browse"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/filter"
	"github.com/tayloree/appliance-compare/internal/urlstate"
)

var (
	flagAPIURL   string
	flagOffline  bool
	flagStorage  string
	flagLogLevel string
	flagJSON     bool

	flagCategory string
	flagBrands   []string
	flagRanges   []string
	flagPriceMin string
	flagPriceMax string
	flagQuery    string
	flagSort     string
	flagPage     int
	flagInStock  bool
	flagLink     string
)

var rootCmd = &cobra.Command{
	Use:   "appcmp",
	Short: "Browse and compare home appliances",
	Long: "CLI tool that loads the appliance catalog (dehumidifiers, air purifiers, air conditioners,\n" +
		"heaters and fans), filters, sorts and pages it, and compares up to four products.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -category fan, category=fan, --categroy fan).",
	Example: `  appcmp --category dehumidifier
  appcmp -c dehumidifier --brand Sharp --range capacity=10to15 --sort price_asc
  appcmp -c air-purifier --link "brands=Sharp&sort=noise_asc"
  appcmp show sharp-cv-r71
  appcmp compare dh-001 dh-003 --category dehumidifier
  appcmp serve --addr :8080`,
	RunE: runList,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPIURL, "api-url", "", "Catalog REST endpoint (overrides APPCMP_API_URL)")
	pf.BoolVar(&flagOffline, "offline", false, "Use the bundled catalog only")
	pf.StringVar(&flagStorage, "storage", "", "Storage location: file path, redis:// URL, or memory")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, or error")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")

	registerListFlags(rootCmd.Flags())
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagAPIURL = ""
	flagOffline = false
	flagStorage = ""
	flagLogLevel = ""
	flagJSON = false

	flagCategory = ""
	flagBrands = nil
	flagRanges = nil
	flagPriceMin = ""
	flagPriceMax = ""
	flagQuery = ""
	flagSort = ""
	flagPage = 0
	flagInStock = false
	flagLink = ""

	resetCompareFlags()
	flagServeAddr = ""
	flagServeReload = 0

	// Flag values survive between Execute calls; clear the Changed marks too.
	resetFlagSet(rootCmd)
}

func resetFlagSet(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, child := range cmd.Commands() {
		resetFlagSet(child)
	}
}

func registerListFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagCategory, "category", "c", "", "Category (dehumidifier, air-purifier, air-conditioner, heater, fan)")
	f.StringSliceVarP(&flagBrands, "brand", "b", nil, "Only these brands (repeatable or comma-separated)")
	f.StringArrayVarP(&flagRanges, "range", "r", nil, "Bucket filter as DIMENSION=BUCKET (e.g., capacity=10to15)")
	f.StringVar(&flagPriceMin, "price-min", "", "Minimum price in yen")
	f.StringVar(&flagPriceMax, "price-max", "", "Maximum price in yen")
	f.StringVarP(&flagQuery, "query", "q", "", "Search name, brand and model (katakana brand names work too)")
	f.StringVar(&flagSort, "sort", "", "Sort by popularity, price_asc, price_desc, noise_asc, capacity_desc, discount_desc, or value_asc")
	f.IntVarP(&flagPage, "page", "p", 0, "Page number (12 products per page)")
	f.BoolVar(&flagInStock, "in-stock", false, "Show only products in stock")
	f.StringVar(&flagLink, "link", "", "Start from a shared query string or URL; flags override it")
}

func sortKeyList() string {
	keys := make([]string, 0, len(filter.SortKeys))
	for _, k := range filter.SortKeys {
		keys = append(keys, string(k))
	}
	return strings.Join(keys, ", ")
}

// parseLink accepts a bare query string, one with a leading "?", or a full URL.
func parseLink(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return url.Values{}, nil
	}
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, invalidArgsError(
			fmt.Sprintf("invalid --link query string: %v", err),
			`appcmp --link "cat=fan&sort=price_asc"`,
		)
	}
	return values, nil
}

// buildListState merges --link with the individual list flags and decodes the
// result through the URL codec.
func buildListState() (filter.State, error) {
	values, err := parseLink(flagLink)
	if err != nil {
		return filter.State{}, err
	}

	rawCat := flagCategory
	if rawCat == "" {
		rawCat = values.Get(urlstate.ParamCategory)
	}
	if rawCat == "" {
		return filter.State{}, invalidArgsError(
			"please provide --category",
			"appcmp --category dehumidifier",
			"appcmp categories",
		)
	}
	cat, err := catalog.ParseCategory(rawCat)
	if err != nil {
		return filter.State{}, invalidArgsError(
			fmt.Sprintf("unknown category %q", rawCat),
			"appcmp categories",
			"appcmp --category air-purifier",
		)
	}
	values.Set(urlstate.ParamCategory, string(cat))

	if flagSort != "" {
		key, ok := filter.ParseSortKey(flagSort)
		if !ok {
			return filter.State{}, invalidArgsError(
				"invalid value for --sort (use "+sortKeyList()+")",
				"appcmp -c "+string(cat)+" --sort price_asc",
			)
		}
		values.Set(urlstate.ParamSort, string(key))
	}

	if len(flagBrands) > 0 {
		values.Set(urlstate.ParamBrands, strings.Join(flagBrands, ","))
	}
	for _, r := range flagRanges {
		dim, bucket, err := parseRangeFlag(cat, r)
		if err != nil {
			return filter.State{}, err
		}
		values.Set(dim, bucket)
	}
	for param, raw := range map[string]string{urlstate.ParamPriceMin: flagPriceMin, urlstate.ParamPriceMax: flagPriceMax} {
		if raw == "" {
			continue
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return filter.State{}, invalidArgsError(
				fmt.Sprintf("invalid price %q", raw),
				"appcmp -c "+string(cat)+" --price-min 10000 --price-max 30000",
			)
		}
		values.Set(param, raw)
	}
	if flagQuery != "" {
		values.Set(urlstate.ParamQuery, flagQuery)
	}
	if flagPage > 0 {
		values.Set(urlstate.ParamPage, strconv.Itoa(flagPage))
	}
	if flagInStock {
		values.Set(urlstate.ParamStock, "1")
	}

	return urlstate.Decode(values, filter.DefaultState(cat)), nil
}

func parseRangeFlag(cat catalog.Category, raw string) (string, string, error) {
	dimKey, bucketKey, ok := strings.Cut(raw, "=")
	dimKey = strings.ToLower(strings.TrimSpace(dimKey))
	bucketKey = strings.ToLower(strings.TrimSpace(bucketKey))

	dim, found := filter.LookupDimension(cat, dimKey)
	if !ok || !found {
		var keys []string
		for _, d := range filter.Dimensions(cat) {
			keys = append(keys, d.Key)
		}
		return "", "", invalidArgsError(
			fmt.Sprintf("invalid --range %q for %s (dimensions: %s)", raw, cat, strings.Join(keys, ", ")),
			"appcmp categories "+string(cat),
		)
	}
	if bucketKey == filter.BucketAll {
		return dim.Key, bucketKey, nil
	}
	if _, ok := dim.Bucket(bucketKey); !ok {
		var keys []string
		for _, b := range dim.Buckets {
			keys = append(keys, b.Key)
		}
		return "", "", invalidArgsError(
			fmt.Sprintf("invalid bucket %q for %s (use %s)", bucketKey, dim.Key, strings.Join(keys, ", ")),
			"appcmp categories "+string(cat),
		)
	}
	return dim.Key, bucketKey, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	st, err := buildListState()
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.load(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	view := browse.New(snap.Category(st.Category), st).View()
	if view.State.Query != "" {
		a.prefs.AddSearch(cmd.Context(), view.State.Query)
	}
	if view.Page.Total == 0 {
		return withHints(errNoMatches, "Relax filters like --brand/--range/--query/--price-max.")
	}

	favorites := a.favoriteSet(cmd.Context())
	query := urlstate.Encode(view.State).Encode()
	if flagJSON {
		return display.PrintProductsJSON(cmd.OutOrStdout(), view, query, favorites)
	}
	display.PrintProducts(cmd.OutOrStdout(), view, favorites)
	if query != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "link: ?cat=%s&%s\n", view.State.Category, query)
	}
	return nil
}
