package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/toast"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect or trim the local preference storage",
}

var storageKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List stored keys",
	Args:  cobra.NoArgs,
	RunE:  runStorageKeys,
}

var storageCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Trim history lists to free space",
	Args:  cobra.NoArgs,
	RunE:  runStorageCleanup,
}

func init() {
	rootCmd.AddCommand(storageCmd)
	storageCmd.AddCommand(storageKeysCmd, storageCleanupCmd)
}

func runStorageKeys(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	keys, err := a.backend.Keys(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing storage keys: %w", err)
	}
	sort.Strings(keys)
	if keys == nil {
		keys = []string{}
	}

	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
			"location": a.cfg.StorageLocation(),
			"keys":     keys,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "storage: %s\n", a.cfg.StorageLocation())
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", k)
	}
	return nil
}

func runStorageCleanup(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	changed := a.safe.Cleanup(cmd.Context())
	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]int{"changed": changed})
	}
	a.notify(toast.Success, "Trimmed %d storage key(s)", changed)
	return nil
}
