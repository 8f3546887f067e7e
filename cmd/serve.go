package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/server"
)

var (
	flagServeAddr   string
	flagServeReload time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON HTTP API",
	Long: "Starts an HTTP server exposing /api/status, /api/categories, /api/products,\n" +
		"/api/products/:slug and /api/compare. List filters use the same query\n" +
		"parameters as shared links.",
	Example: `  appcmp serve
  appcmp serve --addr 127.0.0.1:9000 --api-url https://example.supabase.co/rest/v1
  appcmp serve --reload 15m`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (overrides APPCMP_ADDR)")
	serveCmd.Flags().DurationVar(&flagServeReload, "reload", 0, "Refetch the catalog on this interval (0 disables)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}

	if flagServeReload < 0 {
		return invalidArgsError(fmt.Sprintf("--reload must not be negative, got %s", flagServeReload), "appcmp serve --reload 15m")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := a.store.Load(ctx); err != nil {
		a.logger.Warn("catalog not loaded at startup, will retry per request", "error", err)
	}

	srv := server.New(server.Options{
		Store:       a.store,
		Logger:      a.logger,
		CORSOrigins: a.cfg.CORSOrigins,
		ReloadEvery: flagServeReload,
	})
	return srv.Run(ctx, addr)
}
