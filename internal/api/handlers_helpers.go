// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/middleware"
	"github.com/eternyx/threatlens/internal/models"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
// This includes newlines, carriage returns, tabs, and other control characters that could
// allow attackers to forge log entries or corrupt log files.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers. The request ID set
// by the RequestID middleware is copied into the envelope metadata.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	if response.Metadata.RequestID == "" {
		response.Metadata.RequestID = w.Header().Get(middleware.RequestIDHeader)
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		// Sanitize error output to prevent log injection attacks
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}
	respondJSON(w, status, models.NewError(code, message, nil, time.Now()))
}

// respondSuccess wraps data in a success envelope, stamping how long the
// request took since start.
func (h *Handler) respondSuccess(w http.ResponseWriter, data interface{}, start time.Time) {
	now := h.now()
	resp := models.NewSuccess(data, now)
	resp.Metadata.DurationMS = now.Sub(start).Milliseconds()
	respondJSON(w, http.StatusOK, resp)
}

// readBody reads the whole request body up to the configured limit. It
// writes the error response itself and reports false on failure.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := h.maxBodyBytes()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, models.ErrCodePayloadTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", limit), nil)
			return nil, false
		}
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, "failed to read request body", err)
		return nil, false
	}
	return body, true
}

// respondMethodNotAllowed is chi's MethodNotAllowed handler.
func respondMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed, "Method not allowed", nil)
}

// respondNotFound is chi's NotFound handler.
func respondNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Resource not found", nil)
}
