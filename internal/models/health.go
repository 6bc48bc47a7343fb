// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package models

// HealthStatus is the payload of the liveness and readiness probes.
type HealthStatus struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`

	// Components maps each dependency to "ok", "disabled" or an error text.
	Components map[string]string `json:"components,omitempty"`
}
