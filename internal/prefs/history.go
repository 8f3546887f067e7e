package prefs

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
	"github.com/tayloree/appliance-compare/internal/storage"
)

// Viewed is one recently viewed product.
type Viewed struct {
	Slug     string           `json:"slug"`
	Category catalog.Category `json:"category"`
	Name     string           `json:"name"`
	ViewedAt time.Time        `json:"viewedAt"`
}

// RecentlyViewed returns up to MaxRecentlyViewed entries, newest first.
func (p *Prefs) RecentlyViewed(ctx context.Context) []Viewed {
	list := storage.Get(ctx, p.store, storage.KeyRecentlyViewed, []Viewed{})
	if len(list) > MaxRecentlyViewed {
		list = list[:MaxRecentlyViewed]
	}
	return list
}

// AddRecentlyViewed records a product view, moving repeats to the front.
func (p *Prefs) AddRecentlyViewed(ctx context.Context, prod catalog.Product) {
	entry := Viewed{Slug: prod.Slug, Category: prod.Category, Name: prod.DisplayName(), ViewedAt: p.now()}
	list := prepend(p.RecentlyViewed(ctx), entry,
		func(a, b Viewed) bool { return a.Slug == b.Slug }, MaxRecentlyViewed)
	p.store.Set(ctx, storage.KeyRecentlyViewed, list)
}

// ClearRecentlyViewed forgets every view.
func (p *Prefs) ClearRecentlyViewed(ctx context.Context) bool {
	return p.store.Remove(ctx, storage.KeyRecentlyViewed)
}

// SearchHistory returns up to MaxSearchHistory queries, newest first.
func (p *Prefs) SearchHistory(ctx context.Context) []string {
	list := storage.Get(ctx, p.store, storage.KeySearchHistory, []string{})
	if len(list) > MaxSearchHistory {
		list = list[:MaxSearchHistory]
	}
	return list
}

// AddSearch records a query. Blank queries are ignored and repeats are
// matched case-insensitively.
func (p *Prefs) AddSearch(ctx context.Context, query string) {
	query = filter.CapQuery(query)
	if query == "" {
		return
	}
	list := prepend(p.SearchHistory(ctx), query, strings.EqualFold, MaxSearchHistory)
	p.store.Set(ctx, storage.KeySearchHistory, list)
}

// RemoveSearch forgets one query.
func (p *Prefs) RemoveSearch(ctx context.Context, query string) {
	list := slices.DeleteFunc(p.SearchHistory(ctx), func(q string) bool {
		return strings.EqualFold(q, query)
	})
	p.store.Set(ctx, storage.KeySearchHistory, list)
}

// ClearSearchHistory forgets every query.
func (p *Prefs) ClearSearchHistory(ctx context.Context) bool {
	return p.store.Remove(ctx, storage.KeySearchHistory)
}
