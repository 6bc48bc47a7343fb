// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/eternyx/threatlens/internal/detection"
	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/metrics"
	"github.com/eternyx/threatlens/internal/models"
	"github.com/eternyx/threatlens/internal/websocket"
)

// Message metadata keys set on published envelopes.
const (
	MetadataRequestID = "request_id"
	MetadataKind      = "kind"
	MetadataStatus    = "status"
)

// Engine is the subset of *detection.Analyzer the worker drives.
type Engine interface {
	InspectSample(s detection.Sample) (detection.SampleReport, error)
	AnalyzeTraffic(records []detection.TrafficRecord) (detection.TrafficAnalysis, error)
	PredictThreats(events []detection.HistoricalEvent) (detection.ThreatForecast, error)
}

// HandlerStats is a snapshot of handler counters.
type HandlerStats struct {
	MessagesReceived int64
	Succeeded        int64
	Rejected         int64
	Failed           int64
	ParseErrors      int64
	AlertsRaised     int64
	LastMessageTime  time.Time
}

// AnalysisHandler answers requests of one kind. It runs under the router's
// middleware stack:
//   - Recoverer turns panics into errors
//   - Retry re-runs handler errors with backoff
//   - the throttle bounds how fast requests are taken
//
// Every request that reaches the engine, valid or not, produces exactly one
// result message. Returning an error is reserved for failures where a
// redelivery could succeed.
type AnalysisHandler struct {
	kind       Kind
	engine     Engine
	alerter    *websocket.Alerter
	serializer *Serializer
	audit      *logging.AuditLogger
	now        func() time.Time

	messagesReceived atomic.Int64
	succeeded        atomic.Int64
	rejected         atomic.Int64
	failed           atomic.Int64
	parseErrors      atomic.Int64
	alertsRaised     atomic.Int64
	lastMessageTime  atomic.Value // stores time.Time
}

// NewAnalysisHandler creates a handler for kind. alerter may be nil.
func NewAnalysisHandler(kind Kind, engine Engine, alerter *websocket.Alerter) (*AnalysisHandler, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	h := &AnalysisHandler{
		kind:       kind,
		engine:     engine,
		alerter:    alerter,
		serializer: NewSerializer(),
		audit:      logging.NewAuditLogger(),
		now:        time.Now,
	}
	h.lastMessageTime.Store(time.Time{})
	return h, nil
}

// Kind returns the kind this handler serves.
func (h *AnalysisHandler) Kind() Kind {
	return h.kind
}

// Handle processes one request message and returns the result message.
// This is the handler function passed to Router.AddHandler.
func (h *AnalysisHandler) Handle(msg *message.Message) ([]*message.Message, error) {
	start := h.now()
	h.messagesReceived.Add(1)
	h.lastMessageTime.Store(start)
	metrics.RecordNATSConsume()

	req, err := h.serializer.UnmarshalRequest(msg.Payload)
	if err != nil {
		h.parseErrors.Add(1)
		metrics.RecordNATSParseFailed()
		req = &Request{}
	}

	requestID := requestIDFor(req, msg)
	ctx := logging.ContextWithRequestID(messageContext(msg), requestID)

	var payload interface{}
	var subject string
	if err == nil {
		payload, subject, err = h.process(req, requestID)
	}
	audit := &logging.AuditEvent{
		Kind:      string(h.kind),
		Transport: metrics.TransportNATS,
		Subject:   subject,
	}

	res := &Result{RequestID: requestID, Kind: h.kind, Status: StatusOK}
	outcome := metrics.OutcomeSuccess
	if err == nil {
		res.Result, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s result: %w", h.kind, err)
		}
		h.succeeded.Add(1)
		audit.Success = true
		if hl, ok := payload.(interface{ Headline() (string, float64) }); ok {
			audit.Outcome, audit.Score = hl.Headline()
		}
	} else {
		res.Status = StatusError
		res.Error, outcome = h.describeFailure(ctx, err)
		audit.Outcome, audit.Error = outcome, res.Error.Message
	}
	res.ProcessedAt = h.now().UTC()

	duration := h.now().Sub(start)
	metrics.RecordAnalysis(string(h.kind), metrics.TransportNATS, outcome, duration)
	metrics.RecordNATSProcessed()
	metrics.RecordNATSProcessingDuration(duration)
	audit.Duration = duration
	h.audit.Log(ctx, audit)

	data, err := h.serializer.MarshalResult(res)
	if err != nil {
		return nil, err
	}

	out := message.NewMessage(watermill.NewUUID(), data)
	out.Metadata.Set(MetadataRequestID, requestID)
	out.Metadata.Set(MetadataKind, string(h.kind))
	out.Metadata.Set(MetadataStatus, res.Status)
	// Redeliveries of the same request publish the same result id, so
	// JetStream drops the duplicate inside its window.
	out.Metadata.Set(natsgo.MsgIdHdr, "result-"+msg.UUID)

	logging.Ctx(ctx).Debug().
		Str("kind", string(h.kind)).
		Str("status", res.Status).
		Dur("duration", duration).
		Msg("Analysis request handled")

	return []*message.Message{out}, nil
}

// process returns the result payload and the audit subject.
func (h *AnalysisHandler) process(req *Request, requestID string) (interface{}, string, error) {
	if req.Kind != "" && req.Kind != h.kind {
		return nil, "", &detection.InvalidInputError{
			Op:     opDecodeRequest,
			Field:  "kind",
			Index:  -1,
			Reason: fmt.Sprintf("kind %q does not match subject %s", req.Kind, h.kind.RequestSubject()),
		}
	}

	meta := websocket.AlertMeta{Transport: metrics.TransportNATS, RequestID: requestID}

	switch h.kind {
	case KindSample:
		if len(req.Sample) == 0 {
			return nil, "", missingPayload(detection.OpInspectSample, "sample")
		}
		sample, err := detection.DecodeSample(req.Sample)
		if err != nil {
			return nil, "", err
		}
		report, err := h.engine.InspectSample(sample)
		if err != nil {
			return nil, "", err
		}
		metrics.RecordVerdict(string(report.Verdict.Classification))
		h.countAlert(h.alerter.SampleAnalyzed(meta, report))
		return report, sample.Name, nil

	case KindTraffic:
		if len(req.Records) == 0 {
			return nil, "", missingPayload(detection.OpAnalyzeTraffic, "records")
		}
		records, err := detection.DecodeTrafficBatch(req.Records)
		if err != nil {
			return nil, "", err
		}
		metrics.RecordBatchSize(string(h.kind), len(records))
		result, err := h.engine.AnalyzeTraffic(records)
		if err != nil {
			return nil, "", err
		}
		metrics.RecordTrafficAnalysis(string(result.RiskLevel), result.AnomaliesDetected)
		h.countAlert(h.alerter.TrafficAnalyzed(meta, result))
		return result, detection.DescribeInput(records), nil

	case KindThreats:
		if len(req.Events) == 0 {
			return nil, "", missingPayload(detection.OpPredictThreats, "events")
		}
		events, err := detection.DecodeHistory(req.Events)
		if err != nil {
			return nil, "", err
		}
		metrics.RecordBatchSize(string(h.kind), len(events))
		forecast, err := h.engine.PredictThreats(events)
		if err != nil {
			return nil, "", err
		}
		metrics.RecordForecast(string(forecast.CurrentLevel))
		h.countAlert(h.alerter.ThreatsForecast(meta, forecast))
		return forecast, detection.DescribeInput(events), nil
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnknownKind, h.kind)
}

// describeFailure maps a processing error onto the result error and the
// metrics outcome.
func (h *AnalysisHandler) describeFailure(ctx context.Context, err error) (*models.APIError, string) {
	if ie, ok := detection.AsInvalidInput(err); ok {
		h.rejected.Add(1)
		logging.Ctx(ctx).Warn().Err(err).Str("kind", string(h.kind)).Msg("Rejected analysis request")
		return &models.APIError{
			Code:    models.ErrCodeValidation,
			Message: ie.Error(),
			Details: ie.Details(),
		}, metrics.OutcomeInvalidInput
	}

	h.failed.Add(1)
	logging.Ctx(ctx).Error().Err(err).Str("kind", string(h.kind)).Msg("Analysis request failed")
	return &models.APIError{
		Code:    models.ErrCodeInternal,
		Message: "analysis failed",
	}, metrics.OutcomeError
}

func (h *AnalysisHandler) countAlert(raised bool) {
	if raised {
		h.alertsRaised.Add(1)
	}
}

// Stats returns a snapshot of the handler counters.
func (h *AnalysisHandler) Stats() HandlerStats {
	last, _ := h.lastMessageTime.Load().(time.Time)
	return HandlerStats{
		MessagesReceived: h.messagesReceived.Load(),
		Succeeded:        h.succeeded.Load(),
		Rejected:         h.rejected.Load(),
		Failed:           h.failed.Load(),
		ParseErrors:      h.parseErrors.Load(),
		AlertsRaised:     h.alertsRaised.Load(),
		LastMessageTime:  last,
	}
}

func missingPayload(op, field string) *detection.InvalidInputError {
	return &detection.InvalidInputError{Op: op, Field: field, Index: -1, Reason: field + " is required"}
}

// requestIDFor prefers the envelope id, then the message metadata, then the
// watermill message UUID.
func requestIDFor(req *Request, msg *message.Message) string {
	if req.RequestID != "" {
		return req.RequestID
	}
	if id := msg.Metadata.Get(MetadataRequestID); id != "" {
		return id
	}
	return msg.UUID
}

func messageContext(msg *message.Message) context.Context {
	if ctx := msg.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
