package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rateconverter/internal/config"
	"rateconverter/internal/metrics"
	"rateconverter/internal/provider"
	"rateconverter/internal/service"
)

// App holds all application dependencies and manages their lifecycle.
type App struct {
	cfg         *config.Config
	logger      *zap.SugaredLogger
	metrics     *metrics.Metrics
	rateService *service.RateService
	httpServer  *http.Server
}

// NewApp wires the rates API client, the rate service and the HTTP server.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger) *App {
	app := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	rateProvider := provider.NewFrankfurterProvider(cfg.Frankfurter.BaseURL, cfg.Frankfurter.Timeout(), app.metrics)
	app.rateService = service.NewRateService(rateProvider, app.metrics, logger)

	app.initHTTP(app.rateService)
	return app
}

// loadCurrencies fetches the currency list once at startup.
// A failure is not fatal: handlers retry the load on demand.
// The rate service already reports the failure, so only a debug line is added here.
func (app *App) loadCurrencies(ctx context.Context) {
	list, err := app.rateService.ListCurrencies(ctx)
	if err != nil {
		app.logger.Debugw("Currency list not loaded at startup, will load on first request", "error", err)
		return
	}
	app.logger.Infow("Currency list loaded", "count", len(list))
}

// Run starts the HTTP server, blocking until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.loadCurrencies(ctx)
		return nil
	})

	g.Go(func() error {
		app.logger.Infow("HTTP server listening", "port", app.cfg.Server.Port)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown: triggered by context cancellation (signal or server failure).
	g.Go(func() error {
		<-ctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

func (app *App) shutdown() error {
	app.logger.Infow("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
		return fmt.Errorf("http shutdown: %w", err)
	}

	app.logger.Infow("Shutdown complete")
	return nil
}
