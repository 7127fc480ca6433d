// Command assetstore runs the reference asset store backend
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-inventory/internal/config"
	"asset-inventory/internal/logger"
	"asset-inventory/internal/server"
	"asset-inventory/internal/server/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "assetstore:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st store.Store
	if cfg.DSN != "" {
		pg, err := store.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return err
		}
		st = pg
		log.Infow("using postgres store")
	} else {
		st = store.NewMemory()
		log.Warnw("DB_DSN not set, assets are kept in memory only")
	}

	srv, err := server.New(st, cfg, log)
	if err != nil {
		_ = st.Close()
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting asset store",
			"addr", cfg.Addr,
			"auth", cfg.AuthEnabled,
			"metrics", cfg.EnableMetrics,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = srv.Close(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	log.Infow("shutting down asset store")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	return srv.Close(shutdownCtx)
}
