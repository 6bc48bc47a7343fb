// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package middleware provides HTTP middleware shared by the API router.

All middleware uses the chi-compatible func(http.Handler) http.Handler shape
so it composes with chi's r.Use and with the go-chi/cors and go-chi/httprate
handlers configured in the api package.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: request count, latency and in-flight gauge labelled
    by chi route pattern
  - AccessLog: one zerolog line per request, escalated for slow requests
    and server errors

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)

The response recorder shared by these middlewares forwards Flush and Hijack,
so WebSocket upgrades work behind the full stack.
*/
package middleware
