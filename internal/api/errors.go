// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import "errors"

// Common API errors
var (
	// ErrNilEngine is returned when a handler is built without an engine
	ErrNilEngine = errors.New("analysis engine is required")

	// ErrComponentNotReady is reported by readiness checks that fail without
	// a more specific cause
	ErrComponentNotReady = errors.New("component not ready")
)
