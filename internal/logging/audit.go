// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package logging

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AuditEvent records the outcome of one analysis call.
type AuditEvent struct {
	// Kind is the entry point: sample, traffic, threats or trends.
	Kind string
	// Transport is where the request came from: http or nats.
	Transport string
	// Subject identifies the input, e.g. a sample name or record count.
	Subject string
	// Outcome is the headline result: a classification or risk level.
	Outcome string
	// Score is the primary numeric result when there is one.
	Score    float64
	Duration time.Duration
	Success  bool
	Error    string
	Details  map[string]string
}

// AuditLogger writes one structured line per analysis for later review.
type AuditLogger struct {
	logger zerolog.Logger
}

func NewAuditLogger() *AuditLogger {
	return &AuditLogger{logger: WithComponent("audit")}
}

func NewAuditLoggerWithLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With().Str("component", "audit").Logger()}
}

// Log emits the event, pulling request and correlation IDs from ctx.
func (l *AuditLogger) Log(ctx context.Context, event *AuditEvent) {
	var e *zerolog.Event
	if event.Success {
		e = l.logger.Info().Str("status", "success")
	} else {
		e = l.logger.Warn().Str("status", "failed")
	}

	e = e.Str("kind", event.Kind)
	if id := RequestIDFromContext(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		e = e.Str("correlation_id", id)
	}
	if event.Transport != "" {
		e = e.Str("transport", event.Transport)
	}
	if event.Subject != "" {
		e = e.Str("subject", sanitize(event.Subject, 128))
	}
	if event.Outcome != "" {
		e = e.Str("outcome", event.Outcome)
	}
	if event.Success {
		e = e.Float64("score", event.Score)
	}
	if event.Duration > 0 {
		e = e.Dur("duration", event.Duration)
	}
	if event.Error != "" {
		e = e.Str("error", sanitize(event.Error, 256))
	}

	// Stable field order keeps audit lines diffable.
	keys := make([]string, 0, len(event.Details))
	for k := range event.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e = e.Str(k, sanitize(event.Details[k], 128))
	}

	e.Msg("analysis audit")
}

// sanitize strips control characters and truncates to limit runes.
func sanitize(s string, limit int) string {
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		if n == limit {
			b.WriteString("...")
			break
		}
		if r < 0x20 || r == 0x7f {
			b.WriteRune('?')
		} else {
			b.WriteRune(r)
		}
		n++
	}
	return b.String()
}
