// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// ThreatLens API general information for swag.
//
// @title ThreatLens API
// @version 1.0
// @description Heuristic security analysis: malware scoring of samples, anomaly detection over
// @description network traffic batches, and threat trend forecasting from event history.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "VALIDATION_ERROR",
// @description     "message": "analyze_traffic: invalid input at [1].source: is required",
// @description     "details": {"field": "source", "index": 1}
// @description   },
// @description   "metadata": {"timestamp": "2026-03-14T12:00:00Z"}
// @description }
// @description ```
// @description
// @description ## Rate Limiting
// @description
// @description Analysis endpoints are limited per client IP (security.rate_limit_requests per
// @description security.rate_limit_window). Exceeding the limit returns 429 RATE_LIMIT_EXCEEDED.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/eternyx/threatlens/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8088
// @BasePath /
// @schemes http https
//
// @tag.name Analysis
// @tag.description Malware, traffic, trend and forecast analysis
//
// @tag.name Health
// @tag.description Liveness and readiness probes
//
// @tag.name Alerts
// @tag.description Real-time alert stream over WebSocket
package main
