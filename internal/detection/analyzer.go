// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"fmt"
	"math"
	"time"

	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/validation"
)

// Operation names reported in InvalidInputError.Op.
const (
	OpAnalyzeSample  = "analyze_sample"
	OpInspectSample  = "inspect_sample"
	OpAnalyzeTraffic = "analyze_traffic"
	OpAnalyzeTrends  = "analyze_trends"
	OpPredictThreats = "predict_threats"
)

// Analyzer is the single entry point to the engine. Every method is a pure
// function of its arguments and the configuration fixed at construction,
// so one Analyzer may be shared by any number of goroutines.
type Analyzer struct {
	policy    Policy
	extractor *FeatureExtractor
	scorer    *MalwareScorer
	traffic   *TrafficDetector
	trends    *TrendPredictor
	models    []ModelInfo
}

type analyzerOptions struct {
	now    func() time.Time
	models []ModelInfo
}

// Option customizes NewAnalyzer.
type Option func(*analyzerOptions)

// WithClock injects the time source used for the threat lookback window.
func WithClock(now func() time.Time) Option {
	return func(o *analyzerOptions) {
		o.now = now
	}
}

// WithModelCatalog replaces the default model catalog.
func WithModelCatalog(models []ModelInfo) Option {
	return func(o *analyzerOptions) {
		o.models = cloneCatalog(models)
	}
}

// NewAnalyzer validates policy and builds the component pipeline.
func NewAnalyzer(policy Policy, opts ...Option) (*Analyzer, error) {
	o := analyzerOptions{now: time.Now, models: DefaultModelCatalog()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	policy = policy.Clone()

	extractor, err := NewFeatureExtractor(policy.Malware)
	if err != nil {
		return nil, err
	}
	trends, err := NewTrendPredictor(policy.Trends, o.now)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Int("patterns", len(policy.Malware.SuspiciousPatterns)).
		Strs("allowed_protocols", policy.Traffic.AllowedProtocols).
		Str("granularity", string(policy.Trends.Granularity)).
		Int("max_batch_size", policy.MaxBatchSize).
		Msg("analysis engine initialized")

	return &Analyzer{
		policy:    policy,
		extractor: extractor,
		scorer:    NewMalwareScorer(policy.Malware),
		traffic:   NewTrafficDetector(policy.Traffic),
		trends:    trends,
		models:    o.models,
	}, nil
}

// AnalyzeSample scores one sample.
func (a *Analyzer) AnalyzeSample(s Sample) (MalwareVerdict, error) {
	if err := a.checkSample(OpAnalyzeSample, s); err != nil {
		return MalwareVerdict{}, err
	}
	return a.scorer.Score(a.extractor.Extract(s)), nil
}

// InspectSample is AnalyzeSample plus the extracted features.
func (a *Analyzer) InspectSample(s Sample) (SampleReport, error) {
	if err := a.checkSample(OpInspectSample, s); err != nil {
		return SampleReport{}, err
	}
	features := a.extractor.Extract(s)
	return SampleReport{
		Name:     s.Name,
		Features: features,
		Verdict:  a.scorer.Score(features),
	}, nil
}

// AnalyzeTraffic flags anomalous records in one batch. An empty batch is
// valid and yields a Low result.
func (a *Analyzer) AnalyzeTraffic(records []TrafficRecord) (TrafficAnalysis, error) {
	if err := checkBatch(OpAnalyzeTraffic, records, a.policy.MaxBatchSize); err != nil {
		return TrafficAnalysis{}, err
	}
	if err := checkTrafficVolume(records); err != nil {
		return TrafficAnalysis{}, err
	}
	return a.traffic.Analyze(records), nil
}

// AnalyzeTrends buckets a batch of historical events.
func (a *Analyzer) AnalyzeTrends(events []HistoricalEvent) (TrendSummary, error) {
	if err := checkBatch(OpAnalyzeTrends, events, a.policy.MaxBatchSize); err != nil {
		return TrendSummary{}, err
	}
	return a.trends.AnalyzeTrends(events), nil
}

// PredictThreats forecasts threat activity from a batch of historical events.
func (a *Analyzer) PredictThreats(events []HistoricalEvent) (ThreatForecast, error) {
	if err := checkBatch(OpPredictThreats, events, a.policy.MaxBatchSize); err != nil {
		return ThreatForecast{}, err
	}
	return a.trends.Predict(events), nil
}

// Models returns a copy of the model catalog.
func (a *Analyzer) Models() []ModelInfo {
	return cloneCatalog(a.models)
}

// Policy returns a copy of the active policy.
func (a *Analyzer) Policy() Policy {
	return a.policy.Clone()
}

func (a *Analyzer) checkSample(op string, s Sample) error {
	if verr := validation.ValidateStruct(s); verr != nil {
		first := verr.First()
		return invalidInput(op, first.Path(), first.Error())
	}
	if limit := a.policy.MaxSampleBytes; limit > 0 && len(s.Content) > limit {
		return invalidInput(op, "content", fmt.Sprintf("content exceeds %d bytes", limit))
	}
	return nil
}

func checkBatch[T any](op string, batch []T, limit int) error {
	if limit > 0 && len(batch) > limit {
		return invalidInput(op, "", fmt.Sprintf("batch of %d exceeds limit of %d", len(batch), limit))
	}
	for i := range batch {
		if verr := validation.ValidateStruct(batch[i]); verr != nil {
			first := verr.First()
			return &InvalidInputError{Op: op, Field: first.Path(), Index: i, Reason: first.Error()}
		}
	}
	return nil
}

// checkTrafficVolume rejects a batch whose summed size does not fit in an
// int64. Sizes are already known to be non-negative.
func checkTrafficVolume(records []TrafficRecord) error {
	var total int64
	for i, r := range records {
		if r.Size > math.MaxInt64-total {
			return &InvalidInputError{Op: OpAnalyzeTraffic, Field: "size", Index: i, Reason: "total traffic volume overflows int64"}
		}
		total += r.Size
	}
	return nil
}
