package prefs

import (
	"context"

	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/storage"
)

// CompareSelection returns the persisted compare selection.
func (p *Prefs) CompareSelection(ctx context.Context) compare.Selection {
	sel := storage.Get(ctx, p.store, storage.KeyCompare, compare.Selection{})
	if len(sel.IDs) > compare.MaxProducts {
		sel.IDs = sel.IDs[:compare.MaxProducts]
	}
	return sel
}

// SaveCompareSelection persists sel; an empty selection removes the key.
func (p *Prefs) SaveCompareSelection(ctx context.Context, sel compare.Selection) bool {
	if sel.Len() == 0 {
		return p.store.Remove(ctx, storage.KeyCompare)
	}
	return p.store.Set(ctx, storage.KeyCompare, sel)
}
