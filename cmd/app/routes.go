package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"rateconverter/internal/api"
	"rateconverter/internal/api/middleware"
	"rateconverter/internal/service"
)

func (app *App) initHTTP(rateService service.RateServiceInterface) {
	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           app.router(rateService),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (app *App) router(rateService service.RateServiceInterface) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/currencies", api.HandleListCurrencies(rateService))
	r.Get("/convert", api.HandleConvert(rateService))
	r.Get("/rates/delta", api.HandleRateDelta(rateService))
	r.Get("/rates/{date}", api.HandleRateOnDate(rateService))
	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(rateService))
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	if app.cfg.Server.ServeSwagger {
		r.Get("/swagger/*", api.SwaggerUIHandler())
		r.Get("/openapi.json", api.OpenAPISpecHandler())
	}

	return r
}
