package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/display"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the catalog was loaded from",
	Long:  "Loads the catalog and reports, per category, whether it came from the remote API or the bundled data and how many records were dropped.",
	Example: `  appcmp status
  appcmp status --api-url https://example.supabase.co/rest/v1 --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.store.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	if flagJSON {
		return display.PrintStatusJSON(cmd.OutOrStdout(), snap.Report())
	}
	display.PrintStatus(cmd.OutOrStdout(), snap.Report())
	return nil
}
