// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// Package detection implements the heuristic analysis engine.
//
// # Components
//
//   - FeatureExtractor: Shannon entropy, suspicious-token counts and file type
//     of a content sample
//   - MalwareScorer: weighted risk score, classification, threat tags and a
//     deterministic confidence calibration
//   - TrafficDetector: batch statistics and per-record anomaly scoring
//   - TrendPredictor: time bucketing, growth rate and threat forecasting
//   - Analyzer: validated entry points wiring the above together
//
// All weights and thresholds come from a single Policy fixed at construction.
// The engine performs no I/O, holds no mutable state and is safe for
// concurrent use.
//
// # Usage
//
//	analyzer, err := detection.NewAnalyzer(detection.DefaultPolicy())
//	if err != nil {
//	    return err
//	}
//	verdict, err := analyzer.AnalyzeSample(detection.Sample{Name: "dropper.js", Content: data})
//	if errors.Is(err, detection.ErrInvalidInput) {
//	    // reject the request
//	}
//
// The rules are intentionally simple heuristics. They are not a substitute
// for sandboxing or statistically rigorous anomaly detection.
package detection
