package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/api"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/config"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/logging"
	"github.com/tayloree/appliance-compare/internal/prefs"
	"github.com/tayloree/appliance-compare/internal/storage"
	"github.com/tayloree/appliance-compare/internal/toast"
)

// app holds the per-invocation wiring shared by every command.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *catalog.Store
	backend storage.Backend
	safe    *storage.Safe
	prefs   *prefs.Prefs
	toasts  *toast.Manager
	stderr  io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, invalidArgsError(err.Error(), "Check the APPCMP_* environment variables.")
	}
	if flagAPIURL != "" {
		cfg.APIURL = strings.TrimRight(flagAPIURL, "/")
	}
	if flagStorage != "" {
		cfg.Storage = flagStorage
	}

	level := cfg.LogLevel
	switch {
	case flagLogLevel != "":
		level, err = logging.ParseLevel(flagLogLevel)
		if err != nil {
			return nil, invalidArgsError(
				"invalid value for --log-level (use debug, info, warn, or error)",
				"appcmp --log-level debug --category fan",
			)
		}
	case os.Getenv(config.EnvLogLevel) == "" && cmd.Name() != "serve" && level < slog.LevelWarn:
		level = slog.LevelWarn
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	var primary catalog.Source
	if cfg.Remote() && !flagOffline {
		client := api.NewClient(cfg.APIURL, cfg.APIKey, api.WithTimeout(cfg.FetchTimeout))
		primary = catalog.RemoteSource{Client: client}
	}

	backend, err := storage.Open(cmd.Context(), cfg.StorageLocation(), cfg.StorageQuota)
	if err != nil {
		logger.Warn("storage unavailable, using memory", "location", cfg.StorageLocation(), "error", err)
		backend = storage.NewMemory(cfg.StorageQuota)
	}

	safe := storage.NewSafe(backend, logger)
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   catalog.NewStore(primary, catalog.BundledSource(), logger),
		backend: backend,
		safe:    safe,
		prefs:   prefs.New(safe),
		toasts:  toast.NewManager(nil),
		stderr:  cmd.ErrOrStderr(),
	}, nil
}

// load returns the catalog snapshot and prints a note when it is degraded.
func (a *app) load(ctx context.Context, cmd *cobra.Command) (*catalog.Snapshot, error) {
	snap, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if !flagJSON {
		display.PrintReportNote(cmd.ErrOrStderr(), snap.Report())
	}
	return snap, nil
}

func (a *app) notify(kind toast.Kind, format string, args ...any) {
	a.toasts.Show(kind, fmt.Sprintf(format, args...), toast.Sticky)
}

// Close flushes pending notifications to stderr and releases storage.
func (a *app) Close() {
	if !flagJSON {
		display.PrintToasts(a.stderr, a.toasts.List())
	}
	a.toasts.Close()
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("closing storage", "error", err)
	}
}

// favoriteSet returns the stored favorites as a lookup set.
func (a *app) favoriteSet(ctx context.Context) map[string]bool {
	set := map[string]bool{}
	for _, slug := range a.prefs.Favorites(ctx) {
		set[slug] = true
	}
	return set
}

// resolveProduct finds a product by slug, then by id within cat (or every
// category when cat is empty). Misses wrap errProductNotFound.
func resolveProduct(snap *catalog.Snapshot, ref string, cat catalog.Category) (catalog.Product, error) {
	ref = strings.TrimSpace(ref)
	if p, ok := snap.FindSlug(strings.ToLower(ref)); ok {
		return p, nil
	}
	cats := catalog.Categories
	if cat != "" {
		cats = []catalog.Category{cat}
	}
	for _, c := range cats {
		if p, ok := snap.Find(c, ref); ok {
			return p, nil
		}
	}
	return catalog.Product{}, fmt.Errorf("%w: %s", errProductNotFound, ref)
}
