// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// Package eventprocessor serves the analysis engine over NATS JetStream
// using Watermill.
//
// # Subjects
//
// One JetStream stream, ANALYSIS, captures "analysis.>":
//
//	analysis.request.sample   → analysis.result.sample
//	analysis.request.traffic  → analysis.result.traffic
//	analysis.request.threats  → analysis.result.threats
//	analysis.poison           handler failures that survived every retry
//
// # Envelopes
//
// Requests carry a request_id, an optional kind and one payload:
//
//	{"request_id": "r-1", "kind": "traffic", "records": [...]}
//	{"request_id": "r-2", "sample": {"name": "a.js", "content": "eval(x)"}}
//	{"request_id": "r-3", "events": [...]}
//
// Results echo the id and kind:
//
//	{"request_id": "r-1", "kind": "traffic", "status": "ok", "result": {...}, "processed_at": "..."}
//	{"request_id": "r-2", "kind": "sample", "status": "error", "error": {"code": "VALIDATION_ERROR", ...}, "processed_at": "..."}
//
// # Delivery
//
//   - Invalid input is answered with an error result and acked
//   - A result that cannot be published nacks the request for redelivery
//   - Result messages reuse a deterministic Nats-Msg-Id, so a redelivered
//     request that was already answered is deduplicated by JetStream
//
// # Components
//
//   - EmbeddedServer: optional in-process NATS server
//   - StreamInitializer: idempotent stream provisioning
//   - Publisher: circuit-breaker guarded Watermill publisher
//   - Subscriber: durable queue-group JetStream subscriber
//   - Router: Watermill router with throttle, poison queue, recoverer and retry
//   - AnalysisHandler: one per kind, drives the engine and the alert hub
//   - Worker: owns all of the above for the supervisor
//
// # Usage
//
//	worker, err := eventprocessor.NewWorker(eventprocessor.NewWorkerConfig(cfg.NATS), analyzer, alerter)
//	if err != nil {
//	    return err
//	}
//	if err := worker.Start(ctx); err != nil {
//	    return err
//	}
//	defer worker.Shutdown(context.Background())
package eventprocessor
