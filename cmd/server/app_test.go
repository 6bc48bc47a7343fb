// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/eternyx/threatlens/internal/config"
	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/metrics"
)

//nolint:gochecknoinits // init keeps test output quiet
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "json",
		Output: io.Discard,
	})
}

// loadTestConfig loads defaults without any config file.
func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Security.RateLimitDisabled = true
	return cfg
}

func get(t *testing.T, a *app, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewApp_Defaults(t *testing.T) {
	cfg := loadTestConfig(t)

	a, err := newApp(cfg, "1.0.0-test")
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if a.hub == nil {
		t.Error("hub not created although websocket is enabled by default")
	}
	if a.worker != nil {
		t.Error("worker created although NATS is disabled by default")
	}
	if a.server.Addr != cfg.Server.Addr() {
		t.Errorf("server addr = %q, want %q", a.server.Addr, cfg.Server.Addr())
	}

	rec := get(t, a, "/health/live")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "1.0.0-test") {
		t.Errorf("live = %d %s", rec.Code, rec.Body.String())
	}
	if rec := get(t, a, "/health/ready"); rec.Code != http.StatusOK {
		t.Errorf("ready = %d %s", rec.Code, rec.Body.String())
	}

	if got := testutil.ToFloat64(metrics.AppInfo.WithLabelValues("1.0.0-test", runtime.Version())); got != 1 {
		t.Errorf("app_info = %v, want 1", got)
	}
}

func TestNewApp_WebSocketDisabled(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.WebSocket.Enabled = false

	a, err := newApp(cfg, "dev")
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if a.hub != nil {
		t.Error("hub created although websocket is disabled")
	}
	if rec := get(t, a, "/api/v1/ws"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ws = %d, want 503", rec.Code)
	}
}

func TestNewApp_NATSGatesReadiness(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.NATS.Enabled = true

	a, err := newApp(cfg, "dev")
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if a.worker == nil {
		t.Fatal("worker not created")
	}

	// The tree is not served, so the worker never started
	rec := get(t, a, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), errWorkerUnhealthy.Error()) {
		t.Errorf("body %s lacks %q", rec.Body.String(), errWorkerUnhealthy)
	}
}

func TestNewApp_InvalidPolicy(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Analysis.Malware.MaliciousThreshold = 2

	if _, err := newApp(cfg, "dev"); err == nil {
		t.Fatal("newApp accepted an invalid policy")
	}
}

func TestUptimeService(t *testing.T) {
	svc := newUptimeService(time.Now().Add(-time.Hour), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(metrics.AppUptime) < 3600 {
		if time.Now().After(deadline) {
			t.Fatalf("uptime = %v, want >= 3600", testutil.ToFloat64(metrics.AppUptime))
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
	if svc.String() != "uptime-gauge" {
		t.Errorf("String() = %q", svc.String())
	}
}
