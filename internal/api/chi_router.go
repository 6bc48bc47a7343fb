// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/eternyx/threatlens/internal/middleware"
)

// Request timing thresholds.
const (
	defaultRequestTimeout = 30 * time.Second
	slowRequestThreshold  = time.Second
)

// Router binds the handler and middleware to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	timeout       time.Duration
}

// NewRouter creates a router. A zero timeout selects the default per-request
// handler timeout for analysis endpoints.
func NewRouter(handler *Handler, mw *ChiMiddleware, timeout time.Duration) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		timeout:       timeout,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(respondNotFound)
	r.MethodNotAllowed(respondMethodNotAllowed)

	// ========================
	// Health, Metrics and API Docs
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Route("/analysis", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.Timeout(router.timeout))
				r.Post("/sample", router.handler.AnalyzeSample)
				r.Post("/traffic", router.handler.AnalyzeTraffic)
				r.Post("/threats", router.handler.PredictThreats)
				r.Post("/trends", router.handler.AnalyzeTrends)
			})

			r.Get("/models", router.handler.Models)
			r.Get("/policy", router.handler.Policy)
		})

		// Long-lived; no handler timeout
		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", router.handler.WebSocket)
	})

	return r
}
