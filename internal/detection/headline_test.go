// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import "testing"

func TestHeadline(t *testing.T) {
	tests := []struct {
		name      string
		result    interface{ Headline() (string, float64) }
		wantLabel string
		wantScore float64
	}{
		{"sample", SampleReport{Verdict: MalwareVerdict{Classification: ClassificationSuspicious, Score: 0.45}}, "Suspicious", 0.45},
		{"traffic", TrafficAnalysis{RiskLevel: RiskHigh, AnomaliesDetected: 12}, "High", 12},
		{"forecast", ThreatForecast{CurrentLevel: RiskCritical, Confidence: 0.8}, "Critical", 0.8},
		{"trends", TrendSummary{Granularity: GranularityDaily, GrowthRate: -0.5}, "daily", -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, score := tt.result.Headline()
			if label != tt.wantLabel || score != tt.wantScore {
				t.Errorf("Headline() = %q, %v; want %q, %v", label, score, tt.wantLabel, tt.wantScore)
			}
		})
	}
}

func TestDescribeInput(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{Sample{Name: "a.exe"}, "a.exe"},
		{make([]TrafficRecord, 3), "3 records"},
		{[]HistoricalEvent{}, "0 events"},
		{42, ""},
	}
	for _, tt := range tests {
		if got := DescribeInput(tt.input); got != tt.want {
			t.Errorf("DescribeInput(%T) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
