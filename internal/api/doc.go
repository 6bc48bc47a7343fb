// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package api exposes the analysis engine over HTTP.

Routing uses go-chi/chi with go-chi/cors and go-chi/httprate. Every
response, success or failure, is a models.APIResponse envelope.

# Endpoints

Analysis (rate limited, Prometheus instrumented):

	POST /api/v1/analysis/sample    {name, content | content_base64}  -> SampleReport
	POST /api/v1/analysis/traffic   {records: [...]} or [...]        -> TrafficAnalysis
	POST /api/v1/analysis/threats   {events: [...]} or [...]         -> ThreatForecast
	POST /api/v1/analysis/trends    {events: [...]} or [...]         -> TrendSummary
	GET  /api/v1/analysis/models                                     -> []ModelInfo
	GET  /api/v1/analysis/policy                                     -> Policy
	GET  /api/v1/ws                                                  -> alert stream

Operations:

	GET /health/live
	GET /health/ready
	GET /metrics

# Errors

  - 400 VALIDATION_ERROR: the engine rejected the input; details carry
    the op, field and batch index when known
  - 413 PAYLOAD_TOO_LARGE: the body exceeded server.max_body_bytes
  - 429 RATE_LIMIT_EXCEEDED: too many requests from one client
  - 500 INTERNAL_ERROR: anything else; the cause is logged, not returned

# Alerts

Successful analyses are handed to the websocket Alerter, which broadcasts
non-clean verdicts, traffic above Low risk and forecasts at High or
Critical to every connected /api/v1/ws client.

# Usage

	handler, err := api.NewHandler(analyzer, cfg, hub)
	if err != nil {
		return err
	}
	mw := api.NewChiMiddlewareFromConfig(cfg.Security)
	router := api.NewRouter(handler, mw, cfg.Server.Timeout)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
