package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/toast"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav", "favs"},
	Short:   "List favorite products",
	Example: `  appcmp favorites
  appcmp favorites add sharp-cv-r71
  appcmp favorites toggle dh-003
  appcmp favorites clear`,
	Args: cobra.NoArgs,
	RunE: runFavorites,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <slug|id>...",
	Short: "Add products to favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editFavorites(cmd, args, func(a *app, p catalog.Product) {
			if a.prefs.IsFavorite(cmd.Context(), p.Slug) {
				a.notify(toast.Info, "%s is already a favorite", p.DisplayName())
				return
			}
			a.prefs.ToggleFavorite(cmd.Context(), p.Slug)
			a.notify(toast.Success, "Added %s to favorites", p.DisplayName())
		})
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <slug|id>...",
	Short: "Remove products from favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editFavorites(cmd, args, func(a *app, p catalog.Product) {
			a.prefs.RemoveFavorite(cmd.Context(), p.Slug)
			a.notify(toast.Success, "Removed %s from favorites", p.DisplayName())
		})
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <slug|id>...",
	Short: "Add or remove products from favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editFavorites(cmd, args, func(a *app, p catalog.Product) {
			if a.prefs.ToggleFavorite(cmd.Context(), p.Slug) {
				a.notify(toast.Success, "Added %s to favorites", p.DisplayName())
				return
			}
			a.notify(toast.Success, "Removed %s from favorites", p.DisplayName())
		})
	},
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.prefs.ClearFavorites(cmd.Context()) {
			a.notify(toast.Success, "Cleared favorites")
		} else {
			a.notify(toast.Error, "Could not clear favorites")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesRemoveCmd, favoritesToggleCmd, favoritesClearCmd)
}

func runFavorites(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.load(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	var products []catalog.Product
	var missing []string
	for _, slug := range a.prefs.Favorites(cmd.Context()) {
		if p, ok := snap.FindSlug(slug); ok {
			products = append(products, p)
			continue
		}
		missing = append(missing, slug)
	}

	if flagJSON {
		return display.PrintFavoritesJSON(cmd.OutOrStdout(), products)
	}
	display.PrintFavorites(cmd.OutOrStdout(), products, missing)
	return nil
}

func editFavorites(cmd *cobra.Command, refs []string, apply func(*app, catalog.Product)) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.load(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		p, err := resolveProduct(snap, ref, "")
		if err != nil {
			return withHints(err, "appcmp favorites")
		}
		apply(a, p)
	}

	if flagJSON {
		return display.PrintFavoritesJSON(cmd.OutOrStdout(), favoriteProducts(a, snap, cmd))
	}
	return nil
}

func favoriteProducts(a *app, snap *catalog.Snapshot, cmd *cobra.Command) []catalog.Product {
	var out []catalog.Product
	for _, slug := range a.prefs.Favorites(cmd.Context()) {
		if p, ok := snap.FindSlug(slug); ok {
			out = append(out, p)
		}
	}
	return out
}
