// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/eternyx/threatlens/internal/models"
	ws "github.com/eternyx/threatlens/internal/websocket"
)

// startTestHub runs a hub until the test ends.
func startTestHub(t *testing.T) (*ws.Hub, context.CancelFunc) {
	t.Helper()
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	return hub, cancel
}

func TestHealthLive(t *testing.T) {
	cfg := testConfig()
	h := newTestHandler(t, newRealAnalyzer(t), cfg, nil)
	h.SetVersion("1.2.3")

	rec := serve(h, cfg, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := dataMap(t, decodeResponse(t, rec))
	if data["status"] != "alive" || data["version"] != "1.2.3" {
		t.Errorf("data = %v", data)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("health response lacks security headers")
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		withHub    bool
		stopHub    bool
		check      ReadinessCheck
		wantStatus int
		wantWS     string
	}{
		{
			name:       "no hub",
			wantStatus: http.StatusOK,
			wantWS:     componentDisabled,
		},
		{
			name:       "running hub and passing check",
			withHub:    true,
			check:      func(context.Context) error { return nil },
			wantStatus: http.StatusOK,
			wantWS:     componentOK,
		},
		{
			name:       "failing check",
			withHub:    true,
			check:      func(context.Context) error { return errors.New("nats disconnected") },
			wantStatus: http.StatusServiceUnavailable,
			wantWS:     componentOK,
		},
		{
			name:       "stopped hub",
			withHub:    true,
			stopHub:    true,
			wantStatus: http.StatusServiceUnavailable,
			wantWS:     "hub stopped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			var hub *ws.Hub
			if tt.withHub {
				var cancel context.CancelFunc
				hub, cancel = startTestHub(t)
				if tt.stopHub {
					cancel()
					<-hub.Done()
				}
			}
			h := newTestHandler(t, newRealAnalyzer(t), cfg, hub)
			if tt.check != nil {
				h.RegisterReadinessCheck("nats", tt.check)
			}

			rec := serve(h, cfg, http.MethodGet, "/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			resp := decodeResponse(t, rec)
			components, _ := dataMap(t, resp)["components"].(map[string]interface{})
			if components["websocket"] != tt.wantWS {
				t.Errorf("websocket = %v, want %s", components["websocket"], tt.wantWS)
			}
			if components["analysis"] != componentOK {
				t.Errorf("analysis = %v", components["analysis"])
			}

			if tt.wantStatus == http.StatusOK {
				if resp.Status != models.StatusSuccess {
					t.Errorf("status = %q", resp.Status)
				}
				return
			}
			if resp.Status != models.StatusError || resp.Error == nil || resp.Error.Code != models.ErrCodeUnavailable {
				t.Errorf("resp = %+v", resp)
			}
			if tt.check != nil && components["nats"] != "nats disconnected" {
				t.Errorf("nats = %v", components["nats"])
			}
		})
	}
}
