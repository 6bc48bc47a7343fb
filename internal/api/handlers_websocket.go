// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"net/http"

	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/metrics"
	"github.com/eternyx/threatlens/internal/models"
)

// WebSocket upgrades the connection and subscribes it to analysis alerts.
//
// @Summary Alert stream
// @Description Streams malware_alert, traffic_alert and threat_alert messages
// @Tags Alerts
// @Success 101 "Switching protocols"
// @Failure 503 {object} models.APIResponse "Alert hub unavailable"
// @Router /api/v1/ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil || hubStopped(h.wsHub.Done()) {
		logging.Warn().Msg("WebSocket connection rejected: hub not running")
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error
		metrics.RecordWSError("upgrade")
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client, err := h.wsHub.Attach(conn)
	if err != nil {
		metrics.RecordWSError("attach")
		logging.Warn().Err(err).Msg("WebSocket client not attached")
		_ = conn.Close()
		return
	}

	logging.Ctx(r.Context()).Debug().Uint64("client_id", client.ID()).Msg("WebSocket client connected")
}
