// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/eternyx/threatlens/internal/detection"
)

// opDecodeRequest labels envelope decoding failures.
const opDecodeRequest = "decode_request"

// Serializer handles envelope encoding/decoding for NATS messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// MarshalRequest converts a request envelope to JSON bytes.
func (s *Serializer) MarshalRequest(req *Request) ([]byte, error) {
	if req.RequestID == "" {
		return nil, fmt.Errorf("marshal request: request_id is required")
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return data, nil
}

// UnmarshalRequest parses a request envelope. Malformed payloads are
// reported as *detection.InvalidInputError so they are answered rather
// than redelivered.
func (s *Serializer) UnmarshalRequest(data []byte) (*Request, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, &detection.InvalidInputError{Op: opDecodeRequest, Index: -1, Reason: "expected a JSON object"}
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &detection.InvalidInputError{Op: opDecodeRequest, Index: -1, Reason: "unparsable envelope: " + err.Error()}
	}
	return &req, nil
}

// MarshalResult converts a result envelope to JSON bytes.
func (s *Serializer) MarshalResult(res *Result) ([]byte, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return data, nil
}

// UnmarshalResult parses a result envelope.
func (s *Serializer) UnmarshalResult(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &res, nil
}
