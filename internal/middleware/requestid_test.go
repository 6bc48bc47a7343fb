// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/eternyx/threatlens/internal/logging"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	var capturedID, loggingID, correlationID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = GetRequestID(r.Context())
		loggingID = logging.RequestIDFromContext(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	responseID := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("Response X-Request-ID is not a valid UUID: %v", err)
	}
	if capturedID != responseID {
		t.Errorf("Context ID (%s) doesn't match response header ID (%s)", capturedID, responseID)
	}
	if loggingID != responseID {
		t.Errorf("logging request ID = %q, want %q", loggingID, responseID)
	}
	if correlationID == "" {
		t.Error("Expected correlation ID in logging context")
	}
}

func TestRequestID_UpstreamIDs(t *testing.T) {
	tests := []struct {
		name     string
		upstream string
		keep     bool
	}{
		{"uuid", "4b3c2a10-8f8e-4b8e-9a61-0d1f1c2e3a4b", true},
		{"proxy token", "edge_01.req-77", true},
		{"empty", "", false},
		{"header injection", "abc\r\nSet-Cookie: x=y", false},
		{"spaces", "abc def", false},
		{"too long", strings.Repeat("a", maxUpstreamIDLen+1), false},
		{"at limit", strings.Repeat("a", maxUpstreamIDLen), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/sample", nil)
			if tt.upstream != "" {
				req.Header.Set(RequestIDHeader, tt.upstream)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if tt.keep && captured != tt.upstream {
				t.Errorf("captured %q, want upstream %q", captured, tt.upstream)
			}
			if !tt.keep {
				if captured == tt.upstream {
					t.Errorf("upstream ID %q should have been replaced", tt.upstream)
				}
				if _, err := uuid.Parse(captured); err != nil {
					t.Errorf("replacement %q is not a UUID", captured)
				}
			}
			if got := rec.Header().Get(RequestIDHeader); got != captured {
				t.Errorf("header %q != context %q", got, captured)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	seen := make(map[string]bool)
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		id := rec.Header().Get(RequestIDHeader)
		if seen[id] {
			t.Fatalf("duplicate request ID %s", id)
		}
		seen[id] = true
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}
