package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/toast"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently viewed products and recent searches",
	Example: `  appcmp history
  appcmp history clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recently viewed products and searches",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	viewed := a.prefs.RecentlyViewed(cmd.Context())
	searches := a.prefs.SearchHistory(cmd.Context())
	if flagJSON {
		return display.PrintHistoryJSON(cmd.OutOrStdout(), viewed, searches)
	}
	display.PrintHistory(cmd.OutOrStdout(), viewed, searches)
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.prefs.ClearRecentlyViewed(cmd.Context()) && a.prefs.ClearSearchHistory(cmd.Context()) {
		a.notify(toast.Success, "Cleared history")
		return nil
	}
	a.notify(toast.Error, "Could not clear history")
	return nil
}
