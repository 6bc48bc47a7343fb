// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/eternyx/threatlens/internal/detection"
	"github.com/eternyx/threatlens/internal/models"
)

// Subject layout of the analysis stream.
const (
	SubjectWildcard      = "analysis.>"
	requestSubjectPrefix = "analysis.request."
	resultSubjectPrefix  = "analysis.result."
)

// Kind names the analysis a request asks for.
type Kind string

// Kinds served over NATS.
const (
	KindSample  Kind = "sample"
	KindTraffic Kind = "traffic"
	KindThreats Kind = "threats"
)

// Kinds returns every kind the worker subscribes to.
func Kinds() []Kind {
	return []Kind{KindSample, KindTraffic, KindThreats}
}

// Valid reports whether k is a served kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSample, KindTraffic, KindThreats:
		return true
	}
	return false
}

// RequestSubject is the subject requests of this kind are published to.
func (k Kind) RequestSubject() string {
	return requestSubjectPrefix + string(k)
}

// ResultSubject is the subject results of this kind are published to.
func (k Kind) ResultSubject() string {
	return resultSubjectPrefix + string(k)
}

// KindFromSubject extracts the kind from a request or result subject.
func KindFromSubject(subject string) (Kind, bool) {
	for _, prefix := range []string{requestSubjectPrefix, resultSubjectPrefix} {
		if rest, ok := strings.CutPrefix(subject, prefix); ok {
			k := Kind(rest)
			return k, k.Valid()
		}
	}
	return "", false
}

// Result statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request is the envelope published to analysis.request.<kind>. Exactly one
// payload field is used, chosen by Kind. Payloads stay raw so they are
// decoded by the same codec the HTTP API uses.
type Request struct {
	RequestID string          `json:"request_id"`
	Kind      Kind            `json:"kind,omitempty"`
	Sample    json.RawMessage `json:"sample,omitempty"`
	Records   json.RawMessage `json:"records,omitempty"`
	Events    json.RawMessage `json:"events,omitempty"`
}

// NewSampleRequest builds a sample analysis request.
func NewSampleRequest(requestID string, sample detection.SampleRequest) (*Request, error) {
	raw, err := json.Marshal(sample)
	if err != nil {
		return nil, fmt.Errorf("marshal sample: %w", err)
	}
	return &Request{RequestID: requestID, Kind: KindSample, Sample: raw}, nil
}

// NewTrafficRequest builds a traffic analysis request.
func NewTrafficRequest(requestID string, records []detection.TrafficRecord) (*Request, error) {
	raw, err := json.Marshal(nonNil(records))
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return &Request{RequestID: requestID, Kind: KindTraffic, Records: raw}, nil
}

// NewThreatRequest builds a threat forecast request.
func NewThreatRequest(requestID string, events []detection.HistoricalEvent) (*Request, error) {
	raw, err := json.Marshal(nonNil(events))
	if err != nil {
		return nil, fmt.Errorf("marshal events: %w", err)
	}
	return &Request{RequestID: requestID, Kind: KindThreats, Events: raw}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Result is the envelope published to analysis.result.<kind>.
type Result struct {
	RequestID   string           `json:"request_id"`
	Kind        Kind             `json:"kind"`
	Status      string           `json:"status"`
	Result      json.RawMessage  `json:"result,omitempty"`
	Error       *models.APIError `json:"error,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// OK reports whether the analysis succeeded.
func (r *Result) OK() bool {
	return r.Status == StatusOK
}

// Decode unmarshals the result payload into v.
func (r *Result) Decode(v interface{}) error {
	if !r.OK() {
		return fmt.Errorf("result %s has status %s", r.RequestID, r.Status)
	}
	return json.Unmarshal(r.Result, v)
}
