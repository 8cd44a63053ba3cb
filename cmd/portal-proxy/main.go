// Command portal-proxy serves the membership portal's server-side
// endpoints: the SSO token exchange, the userinfo lookup and the blind CRM
// API passthrough.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-memberportal/components/apiproxy"
	"github.com/goliatone/go-memberportal/components/ssoproxy"
	"github.com/goliatone/go-memberportal/internal/config"
	"github.com/goliatone/go-memberportal/internal/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.SSO.Complete() {
		logger.Warn("sso configuration incomplete, token endpoint will fail closed")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))

	if _, err := ssoproxy.RegisterRoutes(router,
		ssoproxy.WithSSO(cfg.SSO),
		ssoproxy.WithLogger(logger),
	); err != nil {
		logger.Error("register sso routes", "error", err)
		os.Exit(1)
	}
	if _, err := apiproxy.RegisterRoutes(router,
		apiproxy.WithRoutePath("/api/salesforce/*"),
		apiproxy.WithLogger(logger),
	); err != nil {
		logger.Error("register api routes", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
			os.Exit(1)
		}
	}
}
