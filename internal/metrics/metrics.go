// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for analysis metrics.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

// Transport label values for analysis metrics.
const (
	TransportHTTP = "http"
	TransportNATS = "nats"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Analysis Engine Metrics
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_requests_total",
			Help: "Total number of analysis requests by kind, transport and outcome",
		},
		[]string{"kind", "transport", "outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Time spent inside the analysis engine in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"kind"},
	)

	AnalysisBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_batch_size",
			Help:    "Number of records or events per analysis batch",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"kind"},
	)

	MalwareVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malware_verdicts_total",
			Help: "Total number of sample verdicts by classification",
		},
		[]string{"classification"},
	)

	TrafficAnomaliesDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "traffic_anomalies_detected_total",
			Help: "Total number of traffic records flagged as anomalous",
		},
	)

	TrafficRiskLevels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_risk_levels_total",
			Help: "Total number of traffic batches by assessed risk level",
		},
		[]string{"level"},
	)

	ThreatForecastLevels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threat_forecast_levels_total",
			Help: "Total number of threat forecasts by current threat level",
		},
		[]string{"level"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
		[]string{"message_type"},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// NATS Event Processing Metrics
	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of messages published to NATS",
		},
	)

	NATSMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of messages consumed from NATS",
		},
	)

	NATSMessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_processed_total",
			Help: "Total number of messages successfully processed",
		},
	)

	NATSMessagesParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_parse_failed_total",
			Help: "Total number of messages that failed to parse",
		},
	)

	NATSProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nats_processing_duration_seconds",
			Help:    "Duration of NATS message processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	NATSThrottleWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nats_throttle_wait_seconds",
			Help:    "Time a message waited for the worker rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAnalysis records one engine call. Duration is only observed for
// calls that reached the engine.
func RecordAnalysis(kind, transport, outcome string, duration time.Duration) {
	AnalysisRequests.WithLabelValues(kind, transport, outcome).Inc()
	if outcome != OutcomeInvalidInput {
		AnalysisDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordBatchSize records the size of a traffic or history batch.
func RecordBatchSize(kind string, n int) {
	AnalysisBatchSize.WithLabelValues(kind).Observe(float64(n))
}

// RecordVerdict counts a malware verdict by classification.
func RecordVerdict(classification string) {
	MalwareVerdicts.WithLabelValues(classification).Inc()
}

// RecordTrafficAnalysis counts a traffic batch and its anomalies.
func RecordTrafficAnalysis(riskLevel string, anomalies int) {
	TrafficRiskLevels.WithLabelValues(riskLevel).Inc()
	TrafficAnomaliesDetected.Add(float64(anomalies))
}

// RecordForecast counts a threat forecast by its current level.
func RecordForecast(level string) {
	ThreatForecastLevels.WithLabelValues(level).Inc()
}

// circuitStateValues maps gobreaker state names to gauge values.
var circuitStateValues = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// RecordCircuitBreakerTransition updates the state gauge and counts the transition.
func RecordCircuitBreakerTransition(name, from, to string) {
	if v, ok := circuitStateValues[to]; ok {
		CircuitBreakerState.WithLabelValues(name).Set(v)
	}
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordWSMessageSent counts an outbound WebSocket message by type.
func RecordWSMessageSent(messageType string) {
	WSMessagesSent.WithLabelValues(messageType).Inc()
}

// RecordWSError counts a WebSocket error by type.
func RecordWSError(errorType string) {
	WSErrors.WithLabelValues(errorType).Inc()
}

// RecordNATSPublish records a successful NATS message publish.
func RecordNATSPublish() {
	NATSMessagesPublished.Inc()
}

// RecordNATSConsume records a NATS message consumed.
func RecordNATSConsume() {
	NATSMessagesConsumed.Inc()
}

// RecordNATSProcessed records a NATS message successfully processed.
func RecordNATSProcessed() {
	NATSMessagesProcessed.Inc()
}

// RecordNATSParseFailed records a NATS message that failed to parse.
func RecordNATSParseFailed() {
	NATSMessagesParseFailed.Inc()
}

// RecordNATSProcessingDuration records the duration of NATS message processing.
func RecordNATSProcessingDuration(duration time.Duration) {
	NATSProcessingDuration.Observe(duration.Seconds())
}

// RecordNATSThrottleWait records time spent waiting on the worker rate limiter.
func RecordNATSThrottleWait(duration time.Duration) {
	NATSThrottleWait.Observe(duration.Seconds())
}
