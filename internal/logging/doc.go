// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// Package logging provides centralized zerolog-based structured logging.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once with Init
//   - JSON output for production and console output for development
//   - Request and correlation IDs carried through context.Context
//   - An slog.Handler bridge for libraries that log through log/slog
//     (suture's event hook, watermill)
//   - An audit logger that records one line per analysis call
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("kind", "traffic").Int("records", 100).Msg("analysis complete")
//
// # Context Logging
//
//	ctx = logging.ContextWithRequestID(ctx, requestID)
//	logging.Ctx(ctx).Warn().Err(err).Msg("invalid input")
//
// # Thread Safety
//
// The global logger is guarded by a RWMutex; every exported function is safe
// for concurrent use.
package logging
