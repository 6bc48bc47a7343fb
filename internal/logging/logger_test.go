// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() {
		Init(DefaultConfig())
	})
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	buf := captureLogs(t, "warn")

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("kind", "sample").Msg("console line")

	out := buf.String()
	if !strings.Contains(out, "console line") || !strings.Contains(out, "sample") {
		t.Errorf("unexpected console output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel("Debug") {
		t.Error("expected Debug to be valid")
	}
	if ValidLevel("verbose") {
		t.Error("expected verbose to be invalid")
	}
}

func TestSetLevelString(t *testing.T) {
	defer SetLevelString("info")

	SetLevelString("error")
	if GetLevel() != zerolog.ErrorLevel {
		t.Errorf("expected error level, got %v", GetLevel())
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureLogs(t, "info")

	l := WithComponent("api")
	l.Info().Msg("component message")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["component"] != "api" {
		t.Errorf("expected component=api, got %v", lines[0]["component"])
	}
}

func TestCtx_AddsIdentifiers(t *testing.T) {
	buf := captureLogs(t, "info")

	ctx := ContextWithRequestID(context.Background(), "req-123")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	Ctx(ctx).Info().Msg("with ids")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["request_id"] != "req-123" {
		t.Errorf("request_id = %v", lines[0]["request_id"])
	}
	if lines[0]["correlation_id"] != "corr-1" {
		t.Errorf("correlation_id = %v", lines[0]["correlation_id"])
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" {
		t.Error("expected empty IDs on bare context")
	}

	ctx = ContextWithNewCorrelationID(ctx)
	if len(CorrelationIDFromContext(ctx)) != 8 {
		t.Errorf("expected 8-char correlation ID, got %q", CorrelationIDFromContext(ctx))
	}
	if len(GenerateRequestID()) != 36 {
		t.Error("expected UUID-length request ID")
	}
}

func TestSlogHandler(t *testing.T) {
	buf := captureLogs(t, "debug")

	logger := NewSlogLogger().With("service", "supervisor").WithGroup("event")
	logger.Warn("service restarted",
		slog.Int("attempt", 3),
		slog.Duration("backoff", 2*time.Second),
		slog.Any("err", errors.New("boom")),
		slog.Group("svc", slog.String("name", "http-server")),
	)

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	line := lines[0]

	checks := map[string]interface{}{
		"level":          "warn",
		"message":        "service restarted",
		"service":        "supervisor",
		"event.attempt":  float64(3),
		"event.err":      "boom",
		"event.svc.name": "http-server",
		"event.backoff":  float64(2000),
	}
	for k, want := range checks {
		if line[k] != want {
			t.Errorf("%s = %v, want %v", k, line[k], want)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	captureLogs(t, "warn")

	h := NewSlogHandler()
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLoggerWithLogger(NewTestLogger(&buf))

	ctx := ContextWithRequestID(context.Background(), "req-9")
	audit.Log(ctx, &AuditEvent{
		Kind:      "sample",
		Transport: "http",
		Subject:   "dropper\x00.js",
		Outcome:   "Malicious",
		Score:     1,
		Duration:  5 * time.Millisecond,
		Success:   true,
		Details:   map[string]string{"tags": "Code Injection", "file_type": "JavaScript"},
	})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line["component"] != "audit" || line["status"] != "success" {
		t.Errorf("unexpected audit header fields: %v", line)
	}
	if line["subject"] != "dropper?.js" {
		t.Errorf("expected control characters to be replaced, got %v", line["subject"])
	}
	if line["request_id"] != "req-9" {
		t.Errorf("request_id = %v", line["request_id"])
	}
	if line["file_type"] != "JavaScript" {
		t.Errorf("file_type = %v", line["file_type"])
	}
}

func TestAuditLogger_Failure(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLoggerWithLogger(NewTestLogger(&buf))

	audit.Log(context.Background(), &AuditEvent{
		Kind:    "traffic",
		Success: false,
		Error:   "records[2].source is required",
	})

	lines := decodeLines(t, &buf)
	if lines[0]["level"] != "warn" || lines[0]["status"] != "failed" {
		t.Errorf("unexpected failure line: %v", lines[0])
	}
	if _, ok := lines[0]["score"]; ok {
		t.Error("score should be omitted for failed analyses")
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("abcdef", 3); got != "abc..." {
		t.Errorf("sanitize truncation = %q", got)
	}
	if got := sanitize("a\nb", 10); got != "a?b" {
		t.Errorf("sanitize control = %q", got)
	}
}
