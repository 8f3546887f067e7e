package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/toast"
	"github.com/tayloree/appliance-compare/internal/urlstate"
)

var (
	flagCompareCategory string
	flagWeights         compare.Weights
	flagDiff            bool
	flagSave            bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [slug|id...]",
	Short: "Compare 2 to 4 products of one category",
	Long: "Scores the products on price, capacity, noise and energy efficiency, picks the\n" +
		"winner of each criterion, and prints a side-by-side spec table.\n" +
		"Without arguments the saved comparison (see `appcmp compare add`) is used.",
	Example: `  appcmp compare dh-001 dh-003
  appcmp compare sharp-cv-r71 iris-ohyama-dce-120 --w-noise 60 --diff
  appcmp compare add sharp-cv-r71
  appcmp compare --json`,
	Args: cobra.ArbitraryArgs,
	RunE: runCompare,
}

var compareAddCmd = &cobra.Command{
	Use:   "add <slug|id>...",
	Short: "Add products to the saved comparison",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompareAdd,
}

var compareRemoveCmd = &cobra.Command{
	Use:   "remove <slug|id>...",
	Short: "Remove products from the saved comparison",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompareRemove,
}

var compareClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the saved comparison",
	Args:  cobra.NoArgs,
	RunE:  runCompareClear,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.AddCommand(compareAddCmd, compareRemoveCmd, compareClearCmd)

	f := compareCmd.Flags()
	f.StringVarP(&flagCompareCategory, "category", "c", "", "Category used to resolve bare ids")
	f.Float64Var(&flagWeights.Price, "w-price", compare.DefaultWeights.Price, "Price weight (0-100)")
	f.Float64Var(&flagWeights.Capacity, "w-capacity", compare.DefaultWeights.Capacity, "Capacity weight (0-100)")
	f.Float64Var(&flagWeights.Noise, "w-noise", compare.DefaultWeights.Noise, "Noise weight (0-100)")
	f.Float64Var(&flagWeights.Efficiency, "w-efficiency", compare.DefaultWeights.Efficiency, "Energy efficiency weight (0-100)")
	f.BoolVar(&flagDiff, "diff", false, "Show only spec rows that differ")
	f.BoolVar(&flagSave, "save", false, "Save these products as the current comparison")
}

func resetCompareFlags() {
	flagCompareCategory = ""
	flagWeights = compare.DefaultWeights
	flagDiff = false
	flagSave = false
}

func compareCategory() (catalog.Category, error) {
	if flagCompareCategory == "" {
		return "", nil
	}
	cat, err := catalog.ParseCategory(flagCompareCategory)
	if err != nil {
		return "", invalidArgsError(
			fmt.Sprintf("unknown category %q", flagCompareCategory),
			"appcmp categories",
		)
	}
	return cat, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cat, err := compareCategory()
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

	var sel compare.Selection
	if len(args) == 0 {
		sel = a.prefs.CompareSelection(cmd.Context())
		if sel.Len() == 0 {
			return invalidArgsError(
				"no products to compare",
				"appcmp compare dh-001 dh-003",
				"appcmp compare add sharp-cv-r71",
			)
		}
	} else {
		for _, ref := range args {
			p, err := resolveProduct(snap, ref, cat)
			if err != nil {
				return withHints(err, browseHint(cat))
			}
			if sel.Len() > 0 && p.Category != sel.Category {
				return fmt.Errorf("%s is a %s, the others are %s: %w", ref, p.Category, sel.Category, compare.ErrMixedCategories)
			}
			if _, err := sel.Add(p); err != nil {
				return withHints(
					fmt.Errorf("adding %s: %w (max %d)", ref, err, compare.MaxProducts),
					"appcmp compare dh-001 dh-002 dh-003 dh-004",
				)
			}
		}
	}

	products := sel.Resolve(snap)
	if missing := sel.Len() - len(products); missing > 0 {
		a.notify(toast.Warning, "%d saved product(s) are no longer in the catalog", missing)
	}

	res, err := compare.Analyze(products, flagWeights.Clamp())
	if err != nil {
		return err
	}

	if flagSave && len(args) > 0 {
		if a.prefs.SaveCompareSelection(cmd.Context(), sel) {
			a.notify(toast.Success, "Saved comparison of %d products", sel.Len())
		} else {
			a.notify(toast.Error, "Could not save the comparison")
		}
	}

	share := urlstate.EncodeCompare(sel).Encode()
	if flagJSON {
		return display.PrintComparisonJSON(cmd.OutOrStdout(), res, share)
	}
	display.PrintComparison(cmd.OutOrStdout(), res, share, flagDiff)
	return nil
}

func runCompareAdd(cmd *cobra.Command, args []string) error {
	return editSelection(cmd, func(a *app, snap *catalog.Snapshot, sel *compare.Selection) error {
		cat, err := compareCategory()
		if err != nil {
			return err
		}
		for _, ref := range args {
			p, err := resolveProduct(snap, ref, cat)
			if err != nil {
				return withHints(err, browseHint(cat))
			}
			previous := sel.Category
			replaced, err := sel.Add(p)
			if err != nil {
				return withHints(
					fmt.Errorf("adding %s: %w (max %d)", ref, err, compare.MaxProducts),
					"appcmp compare remove "+sel.IDs[0],
					"appcmp compare clear",
				)
			}
			if replaced {
				a.notify(toast.Info, "Started a new %s comparison (previous %s selection cleared)", p.Category, previous)
			}
			a.notify(toast.Success, "Added %s to the comparison (%d/%d)", p.DisplayName(), sel.Len(), compare.MaxProducts)
		}
		return nil
	})
}

func runCompareRemove(cmd *cobra.Command, args []string) error {
	return editSelection(cmd, func(a *app, snap *catalog.Snapshot, sel *compare.Selection) error {
		for _, ref := range args {
			id := ref
			if p, err := resolveProduct(snap, ref, sel.Category); err == nil {
				id = p.ID
			}
			if !sel.Contains(id) {
				return withHints(fmt.Errorf("%w in the comparison: %s", errProductNotFound, ref), "appcmp compare")
			}
			sel.Remove(id)
			a.notify(toast.Success, "Removed %s from the comparison", ref)
		}
		return nil
	})
}

func runCompareClear(cmd *cobra.Command, _ []string) error {
	return editSelection(cmd, func(a *app, _ *catalog.Snapshot, sel *compare.Selection) error {
		sel.Clear()
		a.notify(toast.Success, "Cleared the comparison")
		return nil
	})
}

func editSelection(cmd *cobra.Command, edit func(*app, *catalog.Snapshot, *compare.Selection) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.load(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	sel := a.prefs.CompareSelection(cmd.Context())
	if err := edit(a, snap, &sel); err != nil {
		return err
	}
	if !a.prefs.SaveCompareSelection(cmd.Context(), sel) {
		a.notify(toast.Error, "Could not save the comparison")
	}

	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(sel)
	}
	if sel.Ready() {
		fmt.Fprintf(cmd.OutOrStdout(), "Ready: run `appcmp compare` to compare %d products.\n", sel.Len())
	}
	return nil
}

func browseHint(cat catalog.Category) string {
	if cat == "" {
		return "appcmp categories"
	}
	return "appcmp --category " + string(cat)
}
