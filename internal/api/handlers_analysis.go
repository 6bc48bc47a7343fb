// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package api

import (
	"net/http"
	"time"

	"github.com/eternyx/threatlens/internal/detection"
	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/metrics"
	"github.com/eternyx/threatlens/internal/middleware"
	"github.com/eternyx/threatlens/internal/models"
	ws "github.com/eternyx/threatlens/internal/websocket"
)

// Analysis kinds used as metric labels.
const (
	kindSample  = "sample"
	kindTraffic = "traffic"
	kindThreats = "threats"
	kindTrends  = "trends"
)

// AnalyzeSample scores one sample for malware indicators.
//
// @Summary Analyze a sample
// @Description Extracts features from the sample and returns the malware verdict with them
// @Tags Analysis
// @Accept json
// @Produce json
// @Param sample body detection.SampleRequest true "Sample with content or content_base64"
// @Success 200 {object} models.APIResponse{data=detection.SampleReport}
// @Failure 400 {object} models.APIResponse "Invalid sample"
// @Failure 413 {object} models.APIResponse "Body too large"
// @Router /api/v1/analysis/sample [post]
func (h *Handler) AnalyzeSample(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(h, w, r, kindSample, detection.DecodeSample, h.engine.InspectSample,
		func(meta ws.AlertMeta, _ detection.Sample, report detection.SampleReport) {
			metrics.RecordVerdict(string(report.Verdict.Classification))
			h.alerter.SampleAnalyzed(meta, report)
		})
}

// AnalyzeTraffic flags anomalous records in a traffic batch.
//
// @Summary Analyze network traffic
// @Description Scores every record of the batch and reports the anomalies and overall risk
// @Tags Analysis
// @Accept json
// @Produce json
// @Param records body []detection.TrafficRecord true "Traffic records, bare or wrapped in {\"records\": [...]}"
// @Success 200 {object} models.APIResponse{data=detection.TrafficAnalysis}
// @Failure 400 {object} models.APIResponse "Invalid batch"
// @Router /api/v1/analysis/traffic [post]
func (h *Handler) AnalyzeTraffic(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(h, w, r, kindTraffic, detection.DecodeTrafficBatch, h.engine.AnalyzeTraffic,
		func(meta ws.AlertMeta, records []detection.TrafficRecord, result detection.TrafficAnalysis) {
			metrics.RecordBatchSize(kindTraffic, len(records))
			metrics.RecordTrafficAnalysis(string(result.RiskLevel), result.AnomaliesDetected)
			h.alerter.TrafficAnalyzed(meta, result)
		})
}

// PredictThreats forecasts threat activity from historical events.
//
// @Summary Forecast threats
// @Tags Analysis
// @Accept json
// @Produce json
// @Param events body []detection.HistoricalEvent true "Historical events, bare or wrapped in {\"events\": [...]}"
// @Success 200 {object} models.APIResponse{data=detection.ThreatForecast}
// @Failure 400 {object} models.APIResponse "Invalid events"
// @Router /api/v1/analysis/threats [post]
func (h *Handler) PredictThreats(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(h, w, r, kindThreats, detection.DecodeHistory, h.engine.PredictThreats,
		func(meta ws.AlertMeta, events []detection.HistoricalEvent, forecast detection.ThreatForecast) {
			metrics.RecordBatchSize(kindThreats, len(events))
			metrics.RecordForecast(string(forecast.CurrentLevel))
			h.alerter.ThreatsForecast(meta, forecast)
		})
}

// AnalyzeTrends buckets historical events over time.
//
// @Summary Analyze event trends
// @Tags Analysis
// @Accept json
// @Produce json
// @Param events body []detection.HistoricalEvent true "Historical events, bare or wrapped in {\"events\": [...]}"
// @Success 200 {object} models.APIResponse{data=detection.TrendSummary}
// @Failure 400 {object} models.APIResponse "Invalid events"
// @Router /api/v1/analysis/trends [post]
func (h *Handler) AnalyzeTrends(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(h, w, r, kindTrends, detection.DecodeHistory, h.engine.AnalyzeTrends,
		func(_ ws.AlertMeta, events []detection.HistoricalEvent, _ detection.TrendSummary) {
			metrics.RecordBatchSize(kindTrends, len(events))
		})
}

// Models returns the model catalog.
//
// @Summary List heuristic models
// @Tags Analysis
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]detection.ModelInfo}
// @Router /api/v1/analysis/models [get]
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	h.respondSuccess(w, h.engine.Models(), h.now())
}

// Policy returns the active scoring policy.
//
// @Summary Show the active policy
// @Tags Analysis
// @Produce json
// @Success 200 {object} models.APIResponse{data=detection.Policy}
// @Router /api/v1/analysis/policy [get]
func (h *Handler) Policy(w http.ResponseWriter, r *http.Request) {
	h.respondSuccess(w, h.engine.Policy(), h.now())
}

// serveAnalysis runs one analysis request end to end: read the body,
// decode it with the shared codec, analyze, record metrics, alert and
// respond. after only runs on success.
func serveAnalysis[In, Out any](
	h *Handler,
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	decode func([]byte) (In, error),
	analyze func(In) (Out, error),
	after func(ws.AlertMeta, In, Out),
) {
	start := h.now()

	body, ok := h.readBody(w, r)
	if !ok {
		metrics.RecordAnalysis(kind, metrics.TransportHTTP, metrics.OutcomeInvalidInput, h.now().Sub(start))
		return
	}

	input, err := decode(body)
	var result Out
	if err == nil {
		result, err = analyze(input)
	}
	if err != nil {
		h.respondAnalysisError(w, r, kind, err, start)
		return
	}

	duration := h.now().Sub(start)
	metrics.RecordAnalysis(kind, metrics.TransportHTTP, metrics.OutcomeSuccess, duration)
	event := &logging.AuditEvent{
		Kind:      kind,
		Transport: metrics.TransportHTTP,
		Subject:   detection.DescribeInput(input),
		Duration:  duration,
		Success:   true,
	}
	if hl, ok := any(result).(headliner); ok {
		event.Outcome, event.Score = hl.Headline()
	}
	h.audit.Log(r.Context(), event)

	after(ws.AlertMeta{
		Transport: metrics.TransportHTTP,
		RequestID: middleware.GetRequestID(r.Context()),
	}, input, result)

	h.respondSuccess(w, result, start)
}

// headliner is implemented by every analysis result.
type headliner interface {
	Headline() (string, float64)
}

// respondAnalysisError maps engine errors to 400 for invalid input and 500
// for everything else. Internal causes are logged, never returned.
func (h *Handler) respondAnalysisError(w http.ResponseWriter, r *http.Request, kind string, err error, start time.Time) {
	if ie, ok := detection.AsInvalidInput(err); ok {
		metrics.RecordAnalysis(kind, metrics.TransportHTTP, metrics.OutcomeInvalidInput, h.now().Sub(start))
		h.audit.Log(r.Context(), &logging.AuditEvent{
			Kind:      kind,
			Transport: metrics.TransportHTTP,
			Outcome:   metrics.OutcomeInvalidInput,
			Duration:  h.now().Sub(start),
			Error:     ie.Error(),
		})
		logging.Ctx(r.Context()).Warn().
			Str("kind", kind).
			Str("reason", sanitizeLogValue(ie.Error())).
			Msg("Rejected analysis request")
		respondJSON(w, http.StatusBadRequest, models.NewError(models.ErrCodeValidation, ie.Error(), ie.Details(), h.now()))
		return
	}

	metrics.RecordAnalysis(kind, metrics.TransportHTTP, metrics.OutcomeError, h.now().Sub(start))
	h.audit.Log(r.Context(), &logging.AuditEvent{
		Kind:      kind,
		Transport: metrics.TransportHTTP,
		Outcome:   metrics.OutcomeError,
		Duration:  h.now().Sub(start),
		Error:     err.Error(),
	})
	logging.Ctx(r.Context()).Error().Err(err).Str("kind", kind).Msg("Analysis request failed")
	respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "analysis failed", nil)
}
