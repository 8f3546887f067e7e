// Package prefs keeps per-user state (favorites, history, consent, theme,
// scroll positions, compare selection) on top of safe storage.
package prefs

import (
	"time"

	"github.com/tayloree/appliance-compare/internal/storage"
)

const (
	MaxRecentlyViewed = 10
	MaxSearchHistory  = 5
	MaxScrollEntries  = 20

	ConsentTTL   = 365 * 24 * time.Hour
	ScrollMaxAge = 30 * time.Minute
)

// Prefs is the owner of every persisted preference list.
type Prefs struct {
	store *storage.Safe
	now   func() time.Time
}

// Option configures Prefs.
type Option func(*Prefs)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Prefs) { p.now = now }
}

// New returns prefs persisted in store.
func New(store *storage.Safe, opts ...Option) *Prefs {
	p := &Prefs{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// prepend puts v first, drops entries equal to it and caps the list.
func prepend[T any](list []T, v T, same func(a, b T) bool, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, v)
	for _, existing := range list {
		if len(out) >= limit {
			break
		}
		if same(existing, v) {
			continue
		}
		out = append(out, existing)
	}
	return out
}
