// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the HTTP server at /metrics:

	curl http://localhost:8088/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Labels method, endpoint, status_code
  - api_request_duration_seconds: Labels method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Labels endpoint

Analysis Metrics:
  - analysis_requests_total: Labels kind, transport (http, nats, cli), outcome
  - analysis_duration_seconds: Engine time per call, labels kind
  - analysis_batch_size: Records or events per batch, labels kind
  - malware_verdicts_total: Labels classification (Clean, Suspicious, Malicious)
  - traffic_anomalies_detected_total: Flagged traffic records
  - traffic_risk_levels_total: Labels level
  - threat_forecast_levels_total: Labels level

WebSocket Metrics:
  - websocket_connections: Connected alert subscribers (gauge)
  - websocket_messages_sent_total: Labels message_type
  - websocket_messages_received_total
  - websocket_errors_total: Labels error_type

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open, labels name
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

NATS Metrics:
  - nats_messages_published_total, nats_messages_consumed_total
  - nats_messages_processed_total, nats_messages_parse_failed_total
  - nats_processing_duration_seconds
  - nats_throttle_wait_seconds

# Usage

	start := time.Now()
	verdict, err := analyzer.AnalyzeSample(sample)
	metrics.RecordAnalysis("sample", metrics.TransportHTTP, metrics.OutcomeSuccess, time.Since(start))
	metrics.RecordVerdict(string(verdict.Classification))

# Testing

Collectors are package globals. Tests read them with
prometheus/testutil and compare deltas rather than absolute values.
*/
package metrics
