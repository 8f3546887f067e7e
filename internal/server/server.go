// Package server exposes the catalog pipeline as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tayloree/appliance-compare/internal/catalog"
)

// Options configures a Server.
type Options struct {
	Store       *catalog.Store
	Logger      *slog.Logger
	CORSOrigins []string
	// ReloadEvery refetches the catalog on this interval while Run is
	// active. Zero disables it.
	ReloadEvery time.Duration
}

// Server routes API requests to the catalog store.
type Server struct {
	store       *catalog.Store
	logger      *slog.Logger
	engine      *gin.Engine
	reloadEvery time.Duration
}

// New builds the router.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: opts.Store, logger: logger, reloadEvery: opts.ReloadEvery}

	engine := gin.New()
	engine.Use(recoverer(logger), requestLogger(logger))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.CORSOrigins
	}
	engine.Use(cors.New(corsCfg))

	api := engine.Group("/api")
	api.GET("/status", s.getStatus)
	api.GET("/categories", s.getCategories)

	products := api.Group("/products")
	{
		products.GET("", s.getProducts)
		products.GET("/:slug", s.getProduct)
	}
	api.GET("/compare", s.getCompare)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, failure(c, "Route not found"))
	})

	s.engine = engine
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.reloadEvery > 0 {
		go s.reloadLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("api shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Reload drops the memoized catalog and loads it again.
func (s *Server) Reload(ctx context.Context) error {
	s.store.Invalidate()
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reloading catalog: %w", err)
	}
	s.logger.Info("catalog reloaded", "products", len(snap.Products()), "status", snap.Report().Status)
	return nil
}

func (s *Server) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(s.reloadEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("catalog reload failed", "error", err)
			}
		}
	}
}

func (s *Server) snapshot(c *gin.Context) (*catalog.Snapshot, bool) {
	snap, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.logger.Error("catalog load failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, failure(c, "Catalog unavailable"))
		return nil, false
	}
	return snap, true
}
