// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"bytes"
	"encoding/base64"

	"github.com/goccy/go-json"
)

// SampleRequest is the wire shape of a sample. Exactly one of Content and
// ContentBase64 may be set; both empty means an empty sample.
type SampleRequest struct {
	Name          string `json:"name" yaml:"name"`
	Content       string `json:"content,omitempty" yaml:"content,omitempty"`
	ContentBase64 string `json:"content_base64,omitempty" yaml:"content_base64,omitempty"`
}

// Sample converts the request into an engine Sample.
func (r SampleRequest) Sample() (Sample, error) {
	if r.Content != "" && r.ContentBase64 != "" {
		return Sample{}, invalidInput(OpAnalyzeSample, "content", "content and content_base64 are mutually exclusive")
	}
	if r.ContentBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(r.ContentBase64)
		if err != nil {
			return Sample{}, invalidInput(OpAnalyzeSample, "content_base64", "content_base64 must be valid base64 encoded")
		}
		return Sample{Name: r.Name, Content: raw}, nil
	}
	return Sample{Name: r.Name, Content: []byte(r.Content)}, nil
}

// NewSampleRequest encodes raw content as base64 for transport.
func NewSampleRequest(name string, content []byte) SampleRequest {
	return SampleRequest{Name: name, ContentBase64: base64.StdEncoding.EncodeToString(content)}
}

// DecodeSample parses a JSON SampleRequest.
func DecodeSample(data []byte) (Sample, error) {
	var req SampleRequest
	if err := decodeObject(OpAnalyzeSample, data, &req); err != nil {
		return Sample{}, err
	}
	return req.Sample()
}

// DecodeTrafficBatch accepts either a bare JSON array of records or an
// object with a "records" array. The key is required in the object form.
func DecodeTrafficBatch(data []byte) ([]TrafficRecord, error) {
	var wrapped struct {
		Records *[]TrafficRecord `json:"records"`
	}
	records, err := decodeBatch(OpAnalyzeTraffic, data, "records", &wrapped, func() *[]TrafficRecord { return wrapped.Records })
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DecodeHistory accepts either a bare JSON array of events or an object with
// an "events" array. The key is required in the object form.
func DecodeHistory(data []byte) ([]HistoricalEvent, error) {
	var wrapped struct {
		Events *[]HistoricalEvent `json:"events"`
	}
	events, err := decodeBatch(OpPredictThreats, data, "events", &wrapped, func() *[]HistoricalEvent { return wrapped.Events })
	if err != nil {
		return nil, err
	}
	return events, nil
}

func decodeBatch[T any](op string, data []byte, key string, wrapper any, unwrap func() *[]T) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, invalidInput(op, "", "empty batch document")
	}

	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, invalidInput(op, "", "unparsable batch: "+err.Error())
		}
		return nonNil(items), nil
	case '{':
		if err := json.Unmarshal(data, wrapper); err != nil {
			return nil, invalidInput(op, "", "unparsable batch: "+err.Error())
		}
		items := unwrap()
		if items == nil {
			return nil, invalidInput(op, key, key+" is required")
		}
		return nonNil(*items), nil
	default:
		return nil, invalidInput(op, "", "batch must be a JSON array or object")
	}
}

func decodeObject(op string, data []byte, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return invalidInput(op, "", "expected a JSON object")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return invalidInput(op, "", "unparsable document: "+err.Error())
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
