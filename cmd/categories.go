package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/display"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [category]",
	Short: "List categories, or the filter facets of one category",
	Example: `  appcmp categories
  appcmp categories dehumidifier
  appcmp categories air-purifier --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	var cat catalog.Category
	if len(args) == 1 {
		c, err := catalog.ParseCategory(args[0])
		if err != nil {
			return invalidArgsError(
				fmt.Sprintf("unknown category %q", args[0]),
				"appcmp categories",
			)
		}
		cat = c
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

	if cat == "" {
		cats := display.DescribeCategories(snap)
		if flagJSON {
			return display.PrintCategoriesJSON(cmd.OutOrStdout(), cats)
		}
		display.PrintCategories(cmd.OutOrStdout(), cats)
		return nil
	}

	info := display.DescribeCategory(cat, snap.Category(cat))
	if flagJSON {
		return display.PrintCategoriesJSON(cmd.OutOrStdout(), []display.CategoryJSON{info})
	}
	display.PrintCategoryFacets(cmd.OutOrStdout(), info)
	return nil
}
