// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	ws "github.com/eternyx/threatlens/internal/websocket"
)

func serveRouter(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewRouter(h, NewChiMiddlewareFromConfig(testConfig().Security), 0).SetupChi())
	t.Cleanup(server.Close)
	return server
}

func dialAlerts(server *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(wsURL, header)
}

func TestWebSocket_StreamsAlerts(t *testing.T) {
	hub, _ := startTestHub(t)
	h := newTestHandler(t, newRealAnalyzer(t), testConfig(), hub)
	server := serveRouter(t, h)

	conn, resp, err := dialAlerts(server, "http://localhost:3000")
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want 1", hub.GetClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !hub.Broadcast(ws.MessageTypeThreatAlert, map[string]string{"current_level": "High"}) {
		t.Fatal("broadcast rejected")
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ws.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if msg.Type != ws.MessageTypeThreatAlert {
		t.Errorf("type = %q, want %q", msg.Type, ws.MessageTypeThreatAlert)
	}
}

func TestWebSocket_RejectsOrigins(t *testing.T) {
	hub, _ := startTestHub(t)
	h := newTestHandler(t, newRealAnalyzer(t), testConfig(), hub)
	server := serveRouter(t, h)

	for _, origin := range []string{"", "http://evil.example"} {
		t.Run("origin="+origin, func(t *testing.T) {
			conn, resp, err := dialAlerts(server, origin)
			if resp != nil && resp.Body != nil {
				defer resp.Body.Close()
			}
			if err == nil {
				conn.Close()
				t.Fatal("dial succeeded, want rejection")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Fatalf("response = %v, want 403", resp)
			}
		})
	}
	if n := hub.GetClientCount(); n != 0 {
		t.Errorf("client count = %d, want 0", n)
	}
}

func TestWebSocket_NoHub(t *testing.T) {
	h := newTestHandler(t, newRealAnalyzer(t), testConfig(), nil)
	server := serveRouter(t, h)

	conn, resp, err := dialAlerts(server, "http://localhost:3000")
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err == nil {
		conn.Close()
		t.Fatal("dial succeeded without a hub")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("response = %v, want 503", resp)
	}
}

func TestCheckWebSocketOrigin_Wildcard(t *testing.T) {
	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"*"}
	h := newTestHandler(t, newRealAnalyzer(t), cfg, nil)

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"any origin", "http://anything.example", true},
		{"empty origin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
