// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eternyx/threatlens/internal/config"
	"github.com/eternyx/threatlens/internal/detection"
	"github.com/eternyx/threatlens/internal/logging"
	ws "github.com/eternyx/threatlens/internal/websocket"
)

// defaultMaxBodyBytes applies when the configuration sets no body limit.
const defaultMaxBodyBytes = 10 << 20

// Engine is the analysis surface the handlers drive. *detection.Analyzer
// implements it.
type Engine interface {
	InspectSample(s detection.Sample) (detection.SampleReport, error)
	AnalyzeTraffic(records []detection.TrafficRecord) (detection.TrafficAnalysis, error)
	AnalyzeTrends(events []detection.HistoricalEvent) (detection.TrendSummary, error)
	PredictThreats(events []detection.HistoricalEvent) (detection.ThreatForecast, error)
	Models() []detection.ModelInfo
	Policy() detection.Policy
}

// ReadinessCheck returns nil when the component it guards can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade checks (this file)
//   - handlers_helpers.go: response and body helpers
//   - handlers_analysis.go: analysis endpoints
//   - handlers_health.go: liveness and readiness probes
//   - handlers_websocket.go: alert stream endpoint
type Handler struct {
	engine    Engine
	config    *config.Config
	wsHub     *ws.Hub
	alerter   *ws.Alerter
	audit     *logging.AuditLogger
	version   string
	startTime time.Time
	now       func() time.Time

	checksMu sync.RWMutex
	checks   map[string]ReadinessCheck
}

// NewHandler creates the API handler. cfg and wsHub may be nil: without a
// config the defaults apply, without a hub no alerts are sent and the
// WebSocket endpoint answers 503.
func NewHandler(engine Engine, cfg *config.Config, wsHub *ws.Hub) (*Handler, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}

	h := &Handler{
		engine:    engine,
		config:    cfg,
		wsHub:     wsHub,
		audit:     logging.NewAuditLogger(),
		version:   "dev",
		startTime: time.Now(),
		now:       time.Now,
		checks:    make(map[string]ReadinessCheck),
	}
	if wsHub != nil {
		h.alerter = ws.NewAlerter(wsHub)
	}
	return h, nil
}

// SetVersion sets the version reported by the health probes.
func (h *Handler) SetVersion(version string) {
	h.version = version
}

// RegisterReadinessCheck adds a named dependency to the readiness probe.
// Registering the same name again replaces the check.
func (h *Handler) RegisterReadinessCheck(name string, check ReadinessCheck) {
	h.checksMu.Lock()
	defer h.checksMu.Unlock()
	h.checks[name] = check
}

// readinessChecks returns the registered checks ordered by name.
func (h *Handler) readinessChecks() ([]string, map[string]ReadinessCheck) {
	h.checksMu.RLock()
	defer h.checksMu.RUnlock()

	names := make([]string, 0, len(h.checks))
	checks := make(map[string]ReadinessCheck, len(h.checks))
	for name, check := range h.checks {
		names = append(names, name)
		checks[name] = check
	}
	sort.Strings(names)
	return names, checks
}

func (h *Handler) maxBodyBytes() int64 {
	if h.config != nil && h.config.Server.MaxBodyBytes > 0 {
		return h.config.Server.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against the
// CORS allow list.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin; accepting an empty one would bypass CORS
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// No config means tests or local development
	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
