package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/display"
)

var showCmd = &cobra.Command{
	Use:   "show <slug|id>",
	Short: "Show one product with its full spec table",
	Example: `  appcmp show sharp-cv-r71
  appcmp show dh-003 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.load(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	p, err := resolveProduct(snap, args[0], "")
	if err != nil {
		return withHints(err, "appcmp --category dehumidifier")
	}
	a.prefs.AddRecentlyViewed(cmd.Context(), p)

	favorite := a.prefs.IsFavorite(cmd.Context(), p.Slug)
	if flagJSON {
		return display.PrintProductJSON(cmd.OutOrStdout(), p, favorite)
	}
	display.PrintProduct(cmd.OutOrStdout(), p, favorite)
	return nil
}
