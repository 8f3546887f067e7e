package prefs

import (
	"context"
	"slices"

	"github.com/tayloree/appliance-compare/internal/storage"
)

// Favorites returns favorited product slugs in the order they were added.
func (p *Prefs) Favorites(ctx context.Context) []string {
	return storage.Get(ctx, p.store, storage.KeyFavorites, []string{})
}

// IsFavorite reports whether slug is favorited.
func (p *Prefs) IsFavorite(ctx context.Context, slug string) bool {
	return slices.Contains(p.Favorites(ctx), slug)
}

// ToggleFavorite adds or removes slug and reports whether it is now a
// favorite. The result reflects the intended state even if persisting failed.
func (p *Prefs) ToggleFavorite(ctx context.Context, slug string) bool {
	favs := p.Favorites(ctx)
	if i := slices.Index(favs, slug); i >= 0 {
		favs = slices.Delete(favs, i, i+1)
		p.store.Set(ctx, storage.KeyFavorites, favs)
		return false
	}
	favs = append(favs, slug)
	p.store.Set(ctx, storage.KeyFavorites, favs)
	return true
}

// RemoveFavorite drops slug if present.
func (p *Prefs) RemoveFavorite(ctx context.Context, slug string) {
	favs := p.Favorites(ctx)
	if i := slices.Index(favs, slug); i >= 0 {
		p.store.Set(ctx, storage.KeyFavorites, slices.Delete(favs, i, i+1))
	}
}

// ClearFavorites removes every favorite.
func (p *Prefs) ClearFavorites(ctx context.Context) bool {
	return p.store.Remove(ctx, storage.KeyFavorites)
}
