// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes shared by the HTTP API and the NATS result envelope.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"total_records": 100, "anomalies_detected": 3, ...},
//	  "metadata": {
//	    "timestamp": "2026-03-14T12:00:00Z",
//	    "request_id": "4b3c2a10-8f8e-4b8e-9a61-0d1f1c2e3a4b",
//	    "duration_ms": 2
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "analyze_traffic: invalid input at [1].source: is required",
//	    "details": {"field": "source", "index": 1}
//	  },
//	  "metadata": {"timestamp": "2026-03-14T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for tracing and latency tracking.
type Metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: the payload decoded but failed engine validation
//   - BAD_REQUEST: the payload is not valid JSON for the endpoint
//   - PAYLOAD_TOO_LARGE: the body exceeded server.max_body_bytes
//   - RATE_LIMIT_EXCEEDED: too many requests from one client
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewSuccess wraps data in a success envelope stamped with now.
func NewSuccess(data interface{}, now time.Time) *APIResponse {
	return &APIResponse{
		Status:   StatusSuccess,
		Data:     data,
		Metadata: Metadata{Timestamp: now},
	}
}

// NewError builds an error envelope stamped with now.
func NewError(code, message string, details map[string]interface{}, now time.Time) *APIResponse {
	return &APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: now},
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
