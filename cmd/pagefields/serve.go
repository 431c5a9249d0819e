package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/pagefields/api"
	"github.com/use-agent/pagefields/cache"
	"github.com/use-agent/pagefields/config"
	"github.com/use-agent/pagefields/engine"
	"github.com/use-agent/pagefields/extractor"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
}

func serve(cfg *config.Config) error {
	// ── 1. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log, os.Stdout)
	slog.Info("pagefields starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"cache", cfg.Cache.Backend,
	)

	// ── 2. Initialise cache ─────────────────────────────────────────
	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("cache close failed", "error", err)
		}
	}()

	// ── 3. Initialise fetch engine and extractor ────────────────────
	eng := engine.NewHTTPEngine(cfg.Fetch)
	x := extractor.New(store, eng)
	slog.Info("fetch engine ready",
		"engine", eng.Name(),
		"timeout", cfg.Fetch.Timeout,
		"followRedirects", cfg.Fetch.FollowRedirects,
		"tlsFingerprint", cfg.Fetch.TLSFingerprint,
	)

	// ── 4. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(x, store, cfg, time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("pagefields stopped")
	return nil
}
