// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/eternyx/threatlens/internal/models"
)

// readinessTimeout bounds all readiness checks of one probe.
const readinessTimeout = 2 * time.Second

// Component states reported by the readiness probe.
const (
	componentOK       = "ok"
	componentDisabled = "disabled"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.respondSuccess(w, models.HealthStatus{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}, h.now())
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if every registered component is ready
//
// @Summary Kubernetes readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=models.HealthStatus} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	components := map[string]string{"analysis": componentOK}
	ready := true

	switch {
	case h.wsHub == nil:
		components["websocket"] = componentDisabled
	case hubStopped(h.wsHub.Done()):
		components["websocket"] = "hub stopped"
		ready = false
	default:
		components["websocket"] = componentOK
	}

	names, checks := h.readinessChecks()
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			components[name] = err.Error()
			ready = false
			continue
		}
		components[name] = componentOK
	}

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	resp := models.NewSuccess(models.HealthStatus{
		Status:     status,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Seconds(),
		Components: components,
	}, h.now())
	if !ready {
		resp.Status = models.StatusError
		resp.Error = &models.APIError{Code: models.ErrCodeUnavailable, Message: "service not ready"}
	}
	respondJSON(w, statusCode, resp)
}

func hubStopped(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
