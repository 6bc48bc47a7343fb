// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is created lazily and shared by the whole process.
// Field names in errors are taken from `json` struct tags, and nested failures
// carry a path such as "records[3].source" so that API clients can locate the
// offending element of a batch.
//
// # Usage
//
//	type TrafficRequest struct {
//	    Records []detection.TrafficRecord `json:"records" validate:"dive"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Messages
//
// Common tags (required, gte, lte, oneof, min, max) are translated to short
// English sentences. Unknown tags fall back to "<field> failed <tag> validation".
//
// # Thread Safety
//
// GetValidator, ValidateStruct and ValidateVar are safe for concurrent use.
package validation
