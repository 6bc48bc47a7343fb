// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package middleware

import (
	"net/http"
	"time"

	"github.com/eternyx/threatlens/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which AccessLog
// escalates a request to warn level.
const DefaultSlowRequestThreshold = time.Second

// AccessLog returns middleware that writes one structured log line per
// request. Requests slower than slowThreshold are logged at warn level,
// server errors at error level and everything else at debug.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := newStatusRecorder(w)

			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())

			event := logger.Debug()
			switch {
			case wrapper.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
			case duration > slowThreshold:
				event = logger.Warn().Dur("threshold", slowThreshold)
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Int64("bytes", wrapper.bytes).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}
