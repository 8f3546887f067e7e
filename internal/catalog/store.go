package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tayloree/appliance-compare/internal/api"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Status summarizes where the loaded catalog came from.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFallback Status = "fallback"
	StatusError    Status = "error"
)

// ErrEmptyCatalog is returned when no category produced any product.
var ErrEmptyCatalog = errors.New("catalog is empty")

// DefaultLoadTimeout bounds one shared load across every category. It sits
// above the per-request client timeout so a slow source still falls back.
const DefaultLoadTimeout = 30 * time.Second

// CategoryReport describes the load outcome of one category.
type CategoryReport struct {
	Category Category `json:"category"`
	Source   string   `json:"source"`
	Loaded   int      `json:"loaded"`
	Dropped  int      `json:"dropped"`
	Error    string   `json:"error,omitempty"`
}

// Report is the aggregate load outcome surfaced to the UI.
type Report struct {
	Status     Status           `json:"status"`
	Categories []CategoryReport `json:"categories"`
	Degraded   []Category       `json:"degraded,omitempty"`
}

// Snapshot is a read-only view of a loaded catalog.
type Snapshot struct {
	products []Product
	byCat    map[Category][]Product
	bySlug   map[string]int
	report   Report
}

// Products returns every product in category order.
func (s *Snapshot) Products() []Product { return s.products }

// Category returns the products of one category.
func (s *Snapshot) Category(cat Category) []Product { return s.byCat[cat] }

// Report returns the load report.
func (s *Snapshot) Report() Report { return s.report }

// Find looks a product up by category and id.
func (s *Snapshot) Find(cat Category, id string) (Product, bool) {
	for _, p := range s.byCat[cat] {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FindSlug looks a product up by slug.
func (s *Snapshot) FindSlug(slug string) (Product, bool) {
	idx, ok := s.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return s.products[idx], true
}

// NewSnapshot builds a snapshot from already normalized products.
func NewSnapshot(products []Product, report Report) *Snapshot {
	s := &Snapshot{
		products: products,
		byCat:    make(map[Category][]Product, len(Categories)),
		bySlug:   make(map[string]int, len(products)),
		report:   report,
	}
	for i, p := range products {
		s.byCat[p.Category] = append(s.byCat[p.Category], p)
		if _, dup := s.bySlug[p.Slug]; !dup {
			s.bySlug[p.Slug] = i
		}
	}
	return s
}

// Store owns the process-wide catalog. The first successful Load is memoized;
// concurrent callers share a single in-flight load.
type Store struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
	timeout  time.Duration

	group singleflight.Group
	mu    sync.Mutex
	snap  *Snapshot
}

// NewStore creates a store. primary may be nil, in which case only the
// fallback is used and the load is not reported as degraded.
func NewStore(primary, fallback Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{primary: primary, fallback: fallback, logger: logger, timeout: DefaultLoadTimeout}
}

// SetLoadTimeout overrides DefaultLoadTimeout. Non-positive values are
// ignored.
func (s *Store) SetLoadTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Load returns the memoized snapshot, loading it on first use.
//
// The shared load is detached from the caller that started it: a caller
// whose ctx ends stops waiting and gets ctx.Err(), while the load carries on
// for everyone else.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	if snap := s.cached(); snap != nil {
		return snap, nil
	}

	ch := s.group.DoChan("catalog", func() (any, error) {
		if snap := s.cached(); snap != nil {
			return snap, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		snap, err := s.loadAll(loadCtx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snap = snap
		s.mu.Unlock()
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops the memoized snapshot so the next Load refetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}

func (s *Store) cached() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Store) loadAll(ctx context.Context) (*Snapshot, error) {
	reports := make([]CategoryReport, len(Categories))
	results := make([][]Product, len(Categories))

	// A category that fails falls back on its own. Only the shared load
	// running out of time fails the group, so a snapshot degraded by the
	// deadline is never memoized.
	var g errgroup.Group
	for i, cat := range Categories {
		g.Go(func() error {
			results[i], reports[i] = s.loadCategory(ctx, cat)
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("loading %s: %w", cat, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	report := Report{Status: StatusSuccess, Categories: reports}
	var products []Product
	for i, r := range reports {
		products = append(products, results[i]...)
		switch {
		case r.Error != "":
			report.Status = StatusError
			report.Degraded = append(report.Degraded, r.Category)
		case r.Source == sourceBundled && s.primary != nil:
			if report.Status == StatusSuccess {
				report.Status = StatusFallback
			}
			report.Degraded = append(report.Degraded, r.Category)
		}
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("loading catalog: %w", ErrEmptyCatalog)
	}

	s.logger.Info("catalog loaded",
		"products", len(products),
		"status", report.Status,
		"degraded", report.Degraded,
	)
	return NewSnapshot(products, report), nil
}

const (
	sourceRemote  = "remote"
	sourceBundled = "bundled"
)

func (s *Store) loadCategory(ctx context.Context, cat Category) ([]Product, CategoryReport) {
	report := CategoryReport{Category: cat}

	if s.primary != nil {
		raw, err := s.primary.Fetch(ctx, cat)
		switch {
		case err != nil:
			s.logger.Warn("remote catalog unavailable, using bundled data",
				"category", cat, "error", err, "timeout", errors.Is(err, api.ErrTimeout))
		default:
			products, dropped := normalizeAll(raw, cat, s.logger)
			if len(products) > 0 {
				report.Source = sourceRemote
				report.Loaded = len(products)
				report.Dropped = dropped
				return products, report
			}
			s.logger.Warn("remote catalog returned no usable products, using bundled data", "category", cat)
		}
	}

	if s.fallback == nil {
		report.Error = "no fallback source configured"
		return nil, report
	}
	raw, err := s.fallback.Fetch(ctx, cat)
	if err != nil {
		s.logger.Error("bundled catalog unavailable", "category", cat, "error", err)
		report.Error = err.Error()
		return nil, report
	}
	products, dropped := normalizeAll(raw, cat, s.logger)
	report.Source = sourceBundled
	report.Loaded = len(products)
	report.Dropped = dropped
	if len(products) == 0 {
		report.Error = "no usable products"
	}
	return products, report
}

// normalizeAll converts a batch, dropping invalid, gated and duplicate records
// individually.
func normalizeAll(raw []api.RawRecord, cat Category, logger *slog.Logger) ([]Product, int) {
	out := make([]Product, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	dropped := 0
	for _, r := range raw {
		p, err := Normalize(r, cat)
		if err == nil {
			err = Gate(cat, p.Name)
		}
		if err == nil {
			if _, dup := seen[p.ID]; dup {
				err = fmt.Errorf("%w: duplicate id %s", ErrInvalidRecord, p.ID)
			}
		}
		if err != nil {
			dropped++
			logger.Debug("dropping record", "category", cat, "error", err)
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, dropped
}
