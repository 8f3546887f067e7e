package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/appliance-compare/internal/browse"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/filter"
	"github.com/tayloree/appliance-compare/internal/toast"
	"github.com/tayloree/appliance-compare/internal/urlstate"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24
)

var (
	tuiHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiSuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	tuiWarnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	tuiErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	tuiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

type tuiLoadConfig struct {
	ctx          context.Context
	app          *app
	initialState filter.State
	toastChanged <-chan struct{}
}

type tuiDataLoadedMsg struct {
	snap *catalog.Snapshot
}

type tuiDataLoadErrMsg struct {
	err error
}

type tuiToastsChangedMsg struct{}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
)

type tuiDetailMode int

const (
	tuiDetailProduct tuiDetailMode = iota
	tuiDetailCompare
)

type tuiProductItem struct {
	product     catalog.Product
	title       string
	description string
	filterValue string
}

func (p tuiProductItem) FilterValue() string { return p.filterValue }
func (p tuiProductItem) Title() string       { return p.title }
func (p tuiProductItem) Description() string { return p.description }

type browseTUIModel struct {
	loading  bool
	spinner  spinner.Model
	loadCmd  tea.Cmd
	fatalErr error

	ctx          context.Context
	app          *app
	toastChanged <-chan struct{}

	snap         *catalog.Snapshot
	browser      *browse.Browser
	view         browse.View
	initialState filter.State

	favorites map[string]bool
	selection compare.Selection
	toasts    []toast.Toast

	list   list.Model
	detail viewport.Model

	focus      tuiFocus
	detailMode tuiDetailMode
	showHelp   bool
	selectedID string

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newLoadingBrowseTUIModel(cfg tuiLoadConfig) browseTUIModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Products"
	lst.SetStatusBarItemName("product", "products")
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("pgdown", " ")
	detail.KeyMap.PageUp.SetKeys("pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	ctx := cfg.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	return browseTUIModel{
		loading:      true,
		spinner:      spin,
		loadCmd:      loadTUIDataCmd(ctx, cfg.app),
		ctx:          ctx,
		app:          cfg.app,
		toastChanged: cfg.toastChanged,
		initialState: cfg.initialState,
		favorites:    map[string]bool{},
		list:         lst,
		detail:       detail,
		focus:        tuiFocusList,
	}
}

func loadTUIDataCmd(ctx context.Context, a *app) tea.Cmd {
	return func() tea.Msg {
		snap, err := a.store.Load(ctx)
		if err != nil {
			return tuiDataLoadErrMsg{err: err}
		}
		return tuiDataLoadedMsg{snap: snap}
	}
}

func waitForToastChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return tuiToastsChangedMsg{}
	}
}

func (m browseTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd, waitForToastChange(m.toastChanged))
}

func (m browseTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiDataLoadedMsg:
		m.loading = false
		m.snap = msg.snap
		m.favorites = m.app.favoriteSet(m.ctx)
		m.selection = m.app.prefs.CompareSelection(m.ctx)
		m.browser = browse.New(msg.snap.Category(m.initialState.Category), m.initialState)
		m.applyView(m.browser.View(), true)
		if offset, ok := m.app.prefs.Scroll(m.ctx, m.scrollKey()); ok && offset < len(m.list.Items()) {
			m.list.Select(offset)
			m.refreshDetail(true)
		}
		if report := msg.snap.Report(); report.Status != catalog.StatusSuccess {
			m.notify(toast.Warning, "Using bundled data for %d categor(ies)", len(report.Degraded))
		}
		m.resize()
		return m, nil

	case tuiDataLoadErrMsg:
		m.loading = false
		m.fatalErr = msg.err
		return m, tea.Quit

	case tuiToastsChangedMsg:
		m.toasts = m.app.toasts.List()
		return m, waitForToastChange(m.toastChanged)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if keyMsg.String() == "ctrl+c" {
			m.saveScroll()
			return m, tea.Quit
		}
		if m.loading {
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.loading {
		return m, nil
	}

	if isKey {
		filtering := m.list.FilterState() == list.Filtering
		key := keyMsg.String()

		if !filtering {
			switch key {
			case "q":
				m.saveScroll()
				return m, tea.Quit
			case "tab":
				if m.focus == tuiFocusList {
					m.focus = tuiFocusDetail
				} else {
					m.focus = tuiFocusList
				}
				return m, nil
			case "esc":
				if m.focus == tuiFocusDetail {
					m.focus = tuiFocusList
					if m.detailMode == tuiDetailCompare {
						m.detailMode = tuiDetailProduct
						m.refreshDetail(true)
					}
					return m, nil
				}
			case "?":
				m.showHelp = !m.showHelp
				m.resize()
				return m, nil
			case "s":
				m.applyView(m.browser.SetSort(nextSortKey(m.view.State.Sort)), false)
				return m, nil
			case "i":
				m.applyView(m.browser.SetInStockOnly(!m.view.State.InStockOnly), false)
				return m, nil
			case "b":
				brands := m.view.Brands
				m.applyView(m.browser.Update(func(st *filter.State) {
					st.Brands = nextBrandFilter(st.Brands, brands)
				}), false)
				return m, nil
			case "c":
				m.switchCategory(nextCategory(m.view.State.Category))
				return m, nil
			case "n":
				if m.view.Page.HasNext() {
					m.applyView(m.browser.NextPage(), true)
				}
				return m, nil
			case "p":
				if m.view.Page.HasPrev() {
					m.applyView(m.browser.PrevPage(), true)
				}
				return m, nil
			case "r":
				m.applyView(m.browser.SetState(m.initialState), true)
				return m, nil
			case "f":
				m.toggleFavorite()
				return m, nil
			case "a":
				m.toggleCompare()
				return m, nil
			case "x":
				m.showComparison()
				return m, nil
			case "enter":
				if m.focus == tuiFocusList && !m.list.IsFiltered() {
					if item, ok := m.list.SelectedItem().(tuiProductItem); ok {
						m.app.prefs.AddRecentlyViewed(m.ctx, item.product)
						m.focus = tuiFocusDetail
						return m, nil
					}
				}
			}
		}

		if m.focus == tuiFocusDetail && !filtering {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

func (m browseTUIModel) View() string {
	if m.loading {
		return m.loadingView()
	}
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the product browser.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m browseTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	skeletonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	lines := []string{
		tuiHeaderStyle.Render("appcmp tui"),
		tuiMetaStyle.Render("Preparing interactive interface..."),
		"",
		fmt.Sprintf("%s Loading the appliance catalog", m.spinner.View()),
		tuiHintStyle.Render("Tip: press q to cancel."),
		"",
		skeletonStyle.Render("┌──────────────────────────────┬─────────────────────────────────────────┐"),
		skeletonStyle.Render("│  Loading product list...     │  Loading detail panel...               │"),
		skeletonStyle.Render("│  • categories                │  • price and discount                  │"),
		skeletonStyle.Render("│  • brands                    │  • spec table                          │"),
		skeletonStyle.Render("│  • pages                     │  • comparison                          │"),
		skeletonStyle.Render("└──────────────────────────────┴─────────────────────────────────────────┘"),
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m *browseTUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if m.loading {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 3
	footerH := 3
	if m.showHelp {
		footerH = 8
	}
	m.bodyHeight = max(8, m.height-headerH-footerH-1)

	listWidth := max(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	panelInnerHeight := max(6, m.bodyHeight-2)
	m.list.SetSize(max(24, listWidth-4), panelInnerHeight)
	m.detail.Width = max(24, detailWidth-4)
	m.detail.Height = panelInnerHeight
	if m.detailMode == tuiDetailProduct {
		m.refreshDetail(false)
	}
}

func (m browseTUIModel) headerView() string {
	focus := "list"
	if m.focus == tuiFocusDetail {
		focus = "detail"
	}

	status := ""
	if m.snap != nil {
		status = string(m.snap.Report().Status)
	}
	top := fmt.Sprintf("appcmp tui  |  %s  |  catalog: %s", m.view.State.Category.Label(), status)
	bottom := fmt.Sprintf(
		"products: %d match / %d total  |  page %d/%d  |  filters: %s  |  compare: %d/%d  |  focus: %s",
		m.view.Page.Total, len(m.view.Category), m.view.Page.Page, max(1, m.view.Page.TotalPages),
		m.activeFilterSummary(), m.selection.Len(), compare.MaxProducts, focus,
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(bottom))
}

func (m browseTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusList {
		listBorder = listBorder.BorderForeground(lipgloss.Color("86"))
	} else {
		detailBorder = detailBorder.BorderForeground(lipgloss.Color("86"))
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(m.list.View())
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m browseTUIModel) footerView() string {
	base := "Tab switch pane • / fuzzy filter • s sort • b brand • i in stock • c category • n/p page • f favorite • a compare • x show comparison • r reset • q quit"
	if m.focus == tuiFocusDetail {
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • pgup/pgdown page • esc list • ? help • q quit"
	}

	lines := []string{tuiHintStyle.Render(base)}
	if m.showHelp {
		lines = []string{
			"Key Help",
			"list pane: ↑/↓ or j/k move • / fuzzy filter within the page • enter open detail",
			"filters: s sort • b cycle brand • i in-stock only • c next category • r reset to start filters",
			"pages: n next page • p previous page",
			"actions: f favorite • a add/remove from comparison • x show comparison",
			"global: tab switch pane • esc list • ? toggle help • q quit • ctrl+c force quit",
		}
		for i := range lines {
			lines[i] = tuiHintStyle.Render(lines[i])
		}
	}
	lines = append(lines, renderToastLine(m.toasts))

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func renderToastLine(toasts []toast.Toast) string {
	if len(toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := tuiMetaStyle
		switch t.Kind {
		case toast.Success:
			style = tuiSuccessStyle
		case toast.Warning:
			style = tuiWarnStyle
		case toast.Error:
			style = tuiErrorStyle
		}
		parts = append(parts, style.Render(t.Message))
	}
	return strings.Join(parts, "  •  ")
}

func (m browseTUIModel) activeFilterSummary() string {
	parts := filterSummaryParts(m.view.State)
	if fuzzy := strings.TrimSpace(m.list.FilterValue()); fuzzy != "" {
		parts = append(parts, "fuzzy:"+fuzzy)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func filterSummaryParts(st filter.State) []string {
	parts := []string{}
	if len(st.Brands) > 0 {
		parts = append(parts, "brand:"+strings.Join(st.Brands, "+"))
	}
	for _, dim := range filter.Dimensions(st.Category) {
		if bucket, ok := st.Ranges[dim.Key]; ok && bucket != filter.BucketAll {
			parts = append(parts, dim.Key+":"+bucket)
		}
	}
	if bounds := filter.DefaultPriceRange(st.Category); st.PriceMin != bounds.Min || st.PriceMax != bounds.Max {
		parts = append(parts, fmt.Sprintf("price:%s-%s", display.FormatYen(st.PriceMin), display.FormatYen(st.PriceMax)))
	}
	if st.Query != "" {
		parts = append(parts, "query:"+st.Query)
	}
	if st.InStockOnly {
		parts = append(parts, "in-stock")
	}
	if st.Sort != "" && st.Sort != filter.DefaultSort {
		parts = append(parts, "sort:"+string(st.Sort))
	}
	return parts
}

func (m *browseTUIModel) switchCategory(cat catalog.Category) {
	m.browser.SetCategory(cat)
	m.applyView(m.browser.SetProducts(m.snap.Category(cat)), true)
}

func (m *browseTUIModel) applyView(view browse.View, resetSelection bool) {
	currentID := m.selectedID
	m.view = view

	items := buildProductListItems(view.Page.Items, m.favorites, m.selection)
	m.list.Title = fmt.Sprintf("%s • page %d/%d", view.State.Category.Label(), view.Page.Page, max(1, view.Page.TotalPages))
	m.list.SetItems(items)

	target := -1
	if !resetSelection && currentID != "" {
		target = findItemIndexByID(items, currentID)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.detailMode = tuiDetailProduct
	m.refreshDetail(true)
}

func (m *browseTUIModel) refreshDetail(resetScroll bool) {
	if m.detailMode == tuiDetailCompare {
		return
	}

	var content string
	nextID := ""
	if item, ok := m.list.SelectedItem().(tuiProductItem); ok {
		p := item.product
		content = renderProductDetailContent(p, m.favorites[p.Slug], m.selection.Contains(p.ID))
		nextID = p.ID
	}
	if content == "" {
		content = "No products match the current filters.\n\nTry pressing r to reset filters."
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func (m *browseTUIModel) toggleFavorite() {
	item, ok := m.list.SelectedItem().(tuiProductItem)
	if !ok {
		return
	}
	p := item.product
	if m.app.prefs.ToggleFavorite(m.ctx, p.Slug) {
		m.notify(toast.Success, "Added %s to favorites", p.DisplayName())
	} else {
		m.notify(toast.Info, "Removed %s from favorites", p.DisplayName())
	}
	m.favorites = m.app.favoriteSet(m.ctx)
	m.applyView(m.view, false)
}

func (m *browseTUIModel) toggleCompare() {
	item, ok := m.list.SelectedItem().(tuiProductItem)
	if !ok {
		return
	}
	p := item.product
	wasSelected := m.selection.Contains(p.ID)
	previous := m.selection.Category

	replaced, err := m.selection.Toggle(p)
	if errors.Is(err, compare.ErrSelectionFull) {
		m.notify(toast.Warning, "You can compare up to %d products", compare.MaxProducts)
		return
	}
	if !m.app.prefs.SaveCompareSelection(m.ctx, m.selection) {
		m.notify(toast.Error, "Could not save the comparison")
	}

	switch {
	case replaced:
		m.notify(toast.Info, "Started a new %s comparison (previous %s selection cleared)", p.Category, previous)
	case wasSelected:
		m.notify(toast.Info, "Removed %s from the comparison", p.DisplayName())
	default:
		m.notify(toast.Success, "Added %s to the comparison (%d/%d)", p.DisplayName(), m.selection.Len(), compare.MaxProducts)
	}
	m.applyView(m.view, false)
}

func (m *browseTUIModel) showComparison() {
	products := m.selection.Resolve(m.snap)
	res, err := compare.Analyze(products, compare.DefaultWeights)
	if err != nil {
		m.notify(toast.Warning, "Pick %d to %d products from one category to compare", compare.MinProducts, compare.MaxProducts)
		return
	}

	var b strings.Builder
	display.PrintComparison(&b, res, urlstate.EncodeCompare(m.selection).Encode(), false)
	m.detailMode = tuiDetailCompare
	m.focus = tuiFocusDetail
	m.detail.SetContent(tuiSectionStyle.Render("Comparison") + "\n" + b.String())
	m.detail.GotoTop()
}

func (m *browseTUIModel) notify(kind toast.Kind, format string, args ...any) {
	m.app.toasts.Show(kind, fmt.Sprintf(format, args...), 0)
	m.toasts = m.app.toasts.List()
}

func (m browseTUIModel) scrollKey() string {
	return "tui:" + string(m.view.State.Category)
}

func (m browseTUIModel) saveScroll() {
	if m.app == nil || m.browser == nil {
		return
	}
	m.app.prefs.SaveScroll(m.ctx, m.scrollKey(), m.list.Index())
}

func buildProductListItems(products []catalog.Product, favorites map[string]bool, sel compare.Selection) []list.Item {
	items := make([]list.Item, 0, len(products))
	for _, p := range products {
		items = append(items, buildTUIProductItem(p, favorites[p.Slug], sel.Contains(p.ID)))
	}
	return items
}

func buildTUIProductItem(p catalog.Product, favorite, selected bool) tuiProductItem {
	title := p.DisplayName()
	if favorite {
		title = "★ " + title
	}
	if selected {
		title += " [cmp]"
	}

	descParts := []string{display.FormatYen(p.Price)}
	if d := filter.DiscountPercent(p); d != nil {
		descParts = append(descParts, fmt.Sprintf("-%d%%", *d))
	}
	if specs := display.SpecSummary(p); specs != "" {
		descParts = append(descParts, specs)
	}
	if !p.InStock {
		descParts = append(descParts, "out of stock")
	}

	return tuiProductItem{
		product:     p,
		title:       title,
		description: strings.Join(descParts, "  •  "),
		filterValue: strings.ToLower(strings.Join([]string{p.Name, p.Brand, p.Model, p.Slug}, " ")),
	}
}

func renderProductDetailContent(p catalog.Product, favorite, selected bool) string {
	var b strings.Builder
	display.PrintProduct(&b, p, favorite)

	hint := "a add to comparison • f favorite"
	if selected {
		hint = "in comparison • a remove • x show comparison"
	}
	return strings.Trim(b.String(), "\n") + "\n\n" + tuiHintStyle.Render(hint)
}

func findItemIndexByID(items []list.Item, id string) int {
	for i, item := range items {
		if p, ok := item.(tuiProductItem); ok && p.product.ID == id {
			return i
		}
	}
	return -1
}

func nextSortKey(current filter.SortKey) filter.SortKey {
	i := slices.Index(filter.SortKeys, current)
	return filter.SortKeys[(i+1)%len(filter.SortKeys)]
}

func nextCategory(current catalog.Category) catalog.Category {
	i := slices.Index(catalog.Categories, current)
	return catalog.Categories[(i+1)%len(catalog.Categories)]
}

// nextBrandFilter cycles none -> each brand alone -> none. A multi-brand
// filter set from flags collapses to none.
func nextBrandFilter(current []string, brands []browse.BrandCount) []string {
	if len(brands) == 0 || len(current) > 1 {
		return nil
	}
	if len(current) == 0 {
		return []string{brands[0].Brand}
	}
	i := slices.IndexFunc(brands, func(b browse.BrandCount) bool { return strings.EqualFold(b.Brand, current[0]) })
	if i < 0 || i+1 >= len(brands) {
		return nil
	}
	return []string{brands[i+1].Brand}
}
