package cmd

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/browse"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/filter"
	"github.com/tayloree/appliance-compare/internal/logging"
	"github.com/tayloree/appliance-compare/internal/prefs"
	"github.com/tayloree/appliance-compare/internal/storage"
	"github.com/tayloree/appliance-compare/internal/toast"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	logger := logging.Discard()
	backend := storage.NewMemory(0)
	safe := storage.NewSafe(backend, logger)
	a := &app{
		logger:  logger,
		store:   catalog.NewStore(nil, catalog.BundledSource(), logger),
		backend: backend,
		safe:    safe,
		prefs:   prefs.New(safe),
		toasts:  toast.NewManager(nil),
		stderr:  io.Discard,
	}
	t.Cleanup(a.toasts.Close)
	return a
}

func loadedTUIModel(t *testing.T, a *app) browseTUIModel {
	t.Helper()
	m := newLoadingBrowseTUIModel(tuiLoadConfig{
		ctx:          context.Background(),
		app:          a,
		initialState: filter.DefaultState(catalog.Dehumidifier),
	})
	next, _ := m.Update(m.loadCmd())
	next, _ = next.Update(tea.WindowSizeMsg{Width: 140, Height: 48})
	return next.(browseTUIModel)
}

func pressKey(t *testing.T, m browseTUIModel, key string) (browseTUIModel, tea.Cmd) {
	t.Helper()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	next, cmd := m.Update(msg)
	return next.(browseTUIModel), cmd
}

func selectedProduct(t *testing.T, m browseTUIModel) catalog.Product {
	t.Helper()
	item, ok := m.list.SelectedItem().(tuiProductItem)
	require.True(t, ok)
	return item.product
}

func TestNextSortKey_Wraps(t *testing.T) {
	keys := filter.SortKeys
	assert.Equal(t, keys[1], nextSortKey(keys[0]))
	assert.Equal(t, keys[0], nextSortKey(keys[len(keys)-1]))
	assert.Equal(t, keys[0], nextSortKey("bogus"))
}

func TestNextCategory_Wraps(t *testing.T) {
	assert.Equal(t, catalog.AirPurifier, nextCategory(catalog.Dehumidifier))
	assert.Equal(t, catalog.Dehumidifier, nextCategory(catalog.Fan))
}

func TestNextBrandFilter(t *testing.T) {
	brands := []browse.BrandCount{{Brand: "Sharp", Count: 2}, {Brand: "Panasonic", Count: 1}}

	assert.Equal(t, []string{"Sharp"}, nextBrandFilter(nil, brands))
	assert.Equal(t, []string{"Panasonic"}, nextBrandFilter([]string{"sharp"}, brands))
	assert.Nil(t, nextBrandFilter([]string{"Panasonic"}, brands))
	assert.Nil(t, nextBrandFilter([]string{"Sharp", "Panasonic"}, brands))
	assert.Nil(t, nextBrandFilter(nil, nil))
}

func TestBuildTUIProductItem_Markers(t *testing.T) {
	snap, err := catalog.NewStore(nil, catalog.BundledSource(), logging.Discard()).Load(context.Background())
	require.NoError(t, err)
	p, ok := snap.Find(catalog.Dehumidifier, "dh-001")
	require.True(t, ok)

	plain := buildTUIProductItem(p, false, false)
	assert.Equal(t, "Sharp CV-R71", plain.Title())
	assert.Contains(t, plain.Description(), "¥24,800")
	assert.Contains(t, plain.Description(), "-24%")
	assert.Contains(t, plain.FilterValue(), "sharp-cv-r71")

	marked := buildTUIProductItem(p, true, true)
	assert.Equal(t, "★ Sharp CV-R71 [cmp]", marked.Title())
}

func TestFilterSummaryParts(t *testing.T) {
	st := filter.DefaultState(catalog.Dehumidifier)
	assert.Empty(t, filterSummaryParts(st))

	st.Brands = []string{"Sharp"}
	st.InStockOnly = true
	st.Sort = filter.SortPriceAsc
	assert.Equal(t, []string{"brand:Sharp", "in-stock", "sort:price_asc"}, filterSummaryParts(st))
}

func TestBrowseTUIModel_LoadsCatalog(t *testing.T) {
	m := loadedTUIModel(t, newTestApp(t))

	assert.False(t, m.loading)
	assert.Equal(t, 6, m.view.Page.Total)
	assert.Len(t, m.list.Items(), 6)
	assert.NotEmpty(t, m.selectedID)
	assert.Contains(t, m.View(), "appcmp tui")
}

func TestBrowseTUIModel_FilterKeys(t *testing.T) {
	m := loadedTUIModel(t, newTestApp(t))

	m, _ = pressKey(t, m, "s")
	assert.Equal(t, nextSortKey(filter.DefaultSort), m.view.State.Sort)

	m, _ = pressKey(t, m, "i")
	assert.True(t, m.view.State.InStockOnly)

	m, _ = pressKey(t, m, "r")
	assert.Equal(t, filter.DefaultSort, m.view.State.Sort)
	assert.False(t, m.view.State.InStockOnly)

	m, _ = pressKey(t, m, "c")
	assert.Equal(t, catalog.AirPurifier, m.view.State.Category)
	for _, p := range m.view.Page.Items {
		assert.Equal(t, catalog.AirPurifier, p.Category)
	}
}

func TestBrowseTUIModel_FavoriteToggle(t *testing.T) {
	a := newTestApp(t)
	m := loadedTUIModel(t, a)
	p := selectedProduct(t, m)

	m, _ = pressKey(t, m, "f")
	assert.True(t, m.favorites[p.Slug])
	assert.True(t, a.prefs.IsFavorite(context.Background(), p.Slug))
	require.NotEmpty(t, m.toasts)
	assert.Equal(t, toast.Success, m.toasts[len(m.toasts)-1].Kind)

	m, _ = pressKey(t, m, "f")
	assert.False(t, m.favorites[p.Slug])
}

func TestBrowseTUIModel_CompareFlow(t *testing.T) {
	a := newTestApp(t)
	m := loadedTUIModel(t, a)

	m, _ = pressKey(t, m, "a")
	assert.Equal(t, 1, m.selection.Len())
	assert.Equal(t, 1, a.prefs.CompareSelection(context.Background()).Len())

	m, _ = pressKey(t, m, "x")
	assert.Equal(t, tuiDetailProduct, m.detailMode)
	assert.Equal(t, toast.Warning, m.toasts[len(m.toasts)-1].Kind)

	m, _ = pressKey(t, m, "j")
	m, _ = pressKey(t, m, "a")
	require.Equal(t, 2, m.selection.Len())

	m, _ = pressKey(t, m, "x")
	assert.Equal(t, tuiDetailCompare, m.detailMode)
	assert.Equal(t, tuiFocusDetail, m.focus)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(browseTUIModel)
	assert.Equal(t, tuiDetailProduct, m.detailMode)
	assert.Equal(t, tuiFocusList, m.focus)
}

func TestBrowseTUIModel_CompareSelectionIsCapped(t *testing.T) {
	a := newTestApp(t)
	m := loadedTUIModel(t, a)

	for i := 0; i < compare.MaxProducts; i++ {
		m, _ = pressKey(t, m, "a")
		m, _ = pressKey(t, m, "j")
	}
	require.Equal(t, compare.MaxProducts, m.selection.Len())

	m, _ = pressKey(t, m, "a")
	assert.Equal(t, compare.MaxProducts, m.selection.Len())
	assert.Equal(t, toast.Warning, m.toasts[len(m.toasts)-1].Kind)
}

func TestBrowseTUIModel_QuitSavesScroll(t *testing.T) {
	a := newTestApp(t)
	m := loadedTUIModel(t, a)

	m, _ = pressKey(t, m, "j")
	index := m.list.Index()
	_, cmd := pressKey(t, m, "q")
	require.NotNil(t, cmd)

	offset, ok := a.prefs.Scroll(context.Background(), "tui:dehumidifier")
	assert.True(t, ok)
	assert.Equal(t, index, offset)

	restored := loadedTUIModel(t, a)
	assert.Equal(t, index, restored.list.Index())
}

func TestBrowseTUIModel_EnterRecordsView(t *testing.T) {
	a := newTestApp(t)
	m := loadedTUIModel(t, a)
	p := selectedProduct(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseTUIModel)

	assert.Equal(t, tuiFocusDetail, m.focus)
	viewed := a.prefs.RecentlyViewed(context.Background())
	require.NotEmpty(t, viewed)
	assert.Equal(t, p.Slug, viewed[0].Slug)
}
