// Package browse owns the list view state: a catalog slice plus a filter
// state, with the filtered, sorted and paged result recomputed on every
// change.
package browse

import (
	"sort"
	"sync"

	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
)

// View is the derived result of the current state.
type View struct {
	State    filter.State      `json:"state"`
	Matched  []catalog.Product `json:"-"`
	Page     filter.Page       `json:"page"`
	Brands   []BrandCount      `json:"brands"`
	Category []catalog.Product `json:"-"`
}

// BrandCount is one brand facet.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// Browser recomputes its View synchronously on every mutation, so a read
// after a write never observes stale results.
type Browser struct {
	mu       sync.Mutex
	products []catalog.Product
	state    filter.State
	view     View

	subs   map[int]func(View)
	nextID int
}

// New builds a browser over products starting at st.
func New(products []catalog.Product, st filter.State) *Browser {
	b := &Browser{products: products, state: st, subs: make(map[int]func(View))}
	b.recompute()
	return b
}

// View returns the current derived view.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// State returns the current (normalized) filter state.
func (b *Browser) State() filter.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Subscribe registers fn to receive every new view. It returns the
// unsubscribe function.
func (b *Browser) Subscribe(fn func(View)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Update applies fn to a copy of the state and recomputes. Changes to
// anything other than the page reset the page to 1.
func (b *Browser) Update(fn func(*filter.State)) View {
	b.mu.Lock()
	next := b.state
	next.Brands = append([]string(nil), b.state.Brands...)
	next.Ranges = cloneRanges(b.state.Ranges)
	fn(&next)

	candidate, current := next, b.state
	candidate.Page, current.Page = 1, 1
	if !candidate.Equal(current) && next.Page == b.state.Page {
		next.Page = 1
	}
	b.state = next
	return b.commitLocked()
}

// SetState replaces the whole state.
func (b *Browser) SetState(st filter.State) View {
	b.mu.Lock()
	b.state = st
	return b.commitLocked()
}

// SetProducts swaps the catalog, keeping the state. The page is clamped if
// the result shrank.
func (b *Browser) SetProducts(products []catalog.Product) View {
	b.mu.Lock()
	b.products = products
	return b.commitLocked()
}

// SetCategory switches category and resets every filter.
func (b *Browser) SetCategory(cat catalog.Category) View {
	return b.SetState(filter.DefaultState(cat))
}

// Reset restores the default state of the current category.
func (b *Browser) Reset() View {
	return b.SetState(filter.DefaultState(b.State().Category))
}

// ToggleBrand adds or removes a brand constraint.
func (b *Browser) ToggleBrand(brand string) View {
	return b.Update(func(st *filter.State) {
		for i, existing := range st.Brands {
			if existing == brand {
				st.Brands = append(st.Brands[:i], st.Brands[i+1:]...)
				return
			}
		}
		st.Brands = append(st.Brands, brand)
	})
}

// SetRange selects a bucket of a dimension; filter.BucketAll clears it.
func (b *Browser) SetRange(dimension, bucket string) View {
	return b.Update(func(st *filter.State) {
		if bucket == filter.BucketAll || bucket == "" {
			delete(st.Ranges, dimension)
			return
		}
		if st.Ranges == nil {
			st.Ranges = map[string]string{}
		}
		st.Ranges[dimension] = bucket
	})
}

// SetPriceRange sets the price interval.
func (b *Browser) SetPriceRange(lo, hi float64) View {
	return b.Update(func(st *filter.State) { st.PriceMin, st.PriceMax = lo, hi })
}

// SetQuery sets the free-text query.
func (b *Browser) SetQuery(q string) View {
	return b.Update(func(st *filter.State) { st.Query = q })
}

// SetSort changes the ordering.
func (b *Browser) SetSort(key filter.SortKey) View {
	return b.Update(func(st *filter.State) { st.Sort = key })
}

// SetInStockOnly toggles the stock constraint.
func (b *Browser) SetInStockOnly(v bool) View {
	return b.Update(func(st *filter.State) { st.InStockOnly = v })
}

// SetPage jumps to a page; it is clamped to the available range.
func (b *Browser) SetPage(page int) View {
	return b.Update(func(st *filter.State) { st.Page = page })
}

// NextPage advances one page if possible.
func (b *Browser) NextPage() View {
	return b.Update(func(st *filter.State) { st.Page++ })
}

// PrevPage goes back one page if possible.
func (b *Browser) PrevPage() View {
	return b.Update(func(st *filter.State) { st.Page-- })
}

// commitLocked recomputes, releases the lock and notifies subscribers.
func (b *Browser) commitLocked() View {
	b.recompute()
	view := b.view
	subs := make([]func(View), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(view)
	}
	return view
}

func (b *Browser) recompute() {
	st := b.state.Normalize()

	inCategory := b.products
	if st.Category != "" {
		inCategory = make([]catalog.Product, 0, len(b.products))
		for _, p := range b.products {
			if p.Category == st.Category {
				inCategory = append(inCategory, p)
			}
		}
	}

	matched := filter.Sort(filter.Apply(inCategory, st), st.Sort)
	page := filter.Paginate(matched, st.Page, filter.PageSize)
	st.Page = page.Page

	b.state = st
	b.view = View{
		State:    st,
		Matched:  matched,
		Page:     page,
		Brands:   brandCounts(inCategory),
		Category: inCategory,
	}
}

func brandCounts(products []catalog.Product) []BrandCount {
	counts := filter.Brands(products)
	out := make([]BrandCount, 0, len(counts))
	for brand, n := range counts {
		out = append(out, BrandCount{Brand: brand, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

func cloneRanges(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
