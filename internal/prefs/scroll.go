package prefs

import (
	"context"
	"time"

	"github.com/tayloree/appliance-compare/internal/storage"
)

// ScrollEntry remembers the scroll offset of one view.
type ScrollEntry struct {
	View    string    `json:"view"`
	Offset  int       `json:"offset"`
	SavedAt time.Time `json:"savedAt"`
}

// SaveScroll records the offset of view, pruning stale entries and keeping at
// most MaxScrollEntries.
func (p *Prefs) SaveScroll(ctx context.Context, view string, offset int) {
	now := p.now()
	var fresh []ScrollEntry
	for _, e := range storage.Get(ctx, p.store, storage.KeyScrollPositions, []ScrollEntry{}) {
		if now.Sub(e.SavedAt) <= ScrollMaxAge {
			fresh = append(fresh, e)
		}
	}
	list := prepend(fresh, ScrollEntry{View: view, Offset: offset, SavedAt: now},
		func(a, b ScrollEntry) bool { return a.View == b.View }, MaxScrollEntries)
	p.store.Set(ctx, storage.KeyScrollPositions, list)
}

// Scroll returns the saved offset of view if it is still fresh.
func (p *Prefs) Scroll(ctx context.Context, view string) (int, bool) {
	now := p.now()
	for _, e := range storage.Get(ctx, p.store, storage.KeyScrollPositions, []ScrollEntry{}) {
		if e.View == view {
			if now.Sub(e.SavedAt) > ScrollMaxAge {
				return 0, false
			}
			return e.Offset, true
		}
	}
	return 0, false
}
