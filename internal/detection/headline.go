// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import "fmt"

// Headline returns the classification and score.
func (r SampleReport) Headline() (string, float64) {
	return string(r.Verdict.Classification), r.Verdict.Score
}

// Headline returns the risk level and the number of anomalies.
func (a TrafficAnalysis) Headline() (string, float64) {
	return string(a.RiskLevel), float64(a.AnomaliesDetected)
}

// Headline returns the current level and the forecast confidence.
func (f ThreatForecast) Headline() (string, float64) {
	return string(f.CurrentLevel), f.Confidence
}

// Headline returns the granularity and the growth rate.
func (s TrendSummary) Headline() (string, float64) {
	return string(s.Granularity), s.GrowthRate
}

// DescribeInput names an analysis input for audit records: the sample
// name, or the batch size.
func DescribeInput(input any) string {
	switch v := input.(type) {
	case Sample:
		return v.Name
	case []TrafficRecord:
		return fmt.Sprintf("%d records", len(v))
	case []HistoricalEvent:
		return fmt.Sprintf("%d events", len(v))
	default:
		return ""
	}
}
