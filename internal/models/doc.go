// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package models defines the wire envelopes shared by the HTTP API, the
WebSocket alert stream and the NATS result publisher.

Analysis payloads themselves (SampleReport, TrafficAnalysis, ThreatForecast,
TrendSummary) live in the detection package; this package only wraps them:

  - APIResponse: status, data, metadata and optional error
  - APIError: machine-readable code with a human message and details
  - HealthStatus: liveness and readiness probe payload

Error codes are shared across transports so a client sees VALIDATION_ERROR
for the same bad batch whether it was posted over HTTP or published to NATS.
*/
package models
