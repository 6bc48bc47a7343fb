// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package websocket

import (
	"github.com/eternyx/threatlens/internal/detection"
)

// maxAlertAnomalies bounds how many anomalies a traffic alert carries.
const maxAlertAnomalies = 5

// Broadcaster is the subset of Hub the Alerter needs.
type Broadcaster interface {
	Broadcast(messageType string, data interface{}) bool
}

// AlertMeta identifies where an analysis came from.
type AlertMeta struct {
	Transport string `json:"transport"`
	RequestID string `json:"request_id,omitempty"`
}

// MalwareAlert is sent for any verdict other than Clean.
type MalwareAlert struct {
	AlertMeta
	Name           string                   `json:"name"`
	FileType       string                   `json:"file_type"`
	Classification detection.Classification `json:"classification"`
	Score          float64                  `json:"score"`
	Confidence     float64                  `json:"confidence"`
	ThreatTags     []string                 `json:"threat_tags"`
}

// TrafficAlert is sent for traffic batches graded above Low.
type TrafficAlert struct {
	AlertMeta
	RiskLevel         detection.RiskLevel      `json:"risk_level"`
	TotalRecords      int                      `json:"total_records"`
	AnomaliesDetected int                      `json:"anomalies_detected"`
	TopAnomalies      []detection.AnomalyEvent `json:"top_anomalies"`
}

// ThreatAlert is sent for forecasts at High or Critical.
type ThreatAlert struct {
	AlertMeta
	CurrentLevel    detection.RiskLevel `json:"current_level"`
	RecentEvents    int                 `json:"recent_events"`
	Next24h         string              `json:"next_24h"`
	NextWeek        string              `json:"next_week"`
	Recommendations []string            `json:"recommendations"`
}

// Alerter turns analysis results into hub broadcasts. A nil Alerter is
// valid and never alerts.
type Alerter struct {
	b Broadcaster
}

// NewAlerter returns an Alerter broadcasting through b.
func NewAlerter(b Broadcaster) *Alerter {
	return &Alerter{b: b}
}

// SampleAnalyzed broadcasts a malware_alert unless the verdict is Clean.
// It reports whether an alert was queued.
func (a *Alerter) SampleAnalyzed(meta AlertMeta, report detection.SampleReport) bool {
	if a == nil || a.b == nil || report.Verdict.Classification == detection.ClassificationClean {
		return false
	}
	return a.b.Broadcast(MessageTypeMalwareAlert, MalwareAlert{
		AlertMeta:      meta,
		Name:           report.Name,
		FileType:       report.Features.FileType,
		Classification: report.Verdict.Classification,
		Score:          report.Verdict.Score,
		Confidence:     report.Verdict.Confidence,
		ThreatTags:     report.Verdict.ThreatTags,
	})
}

// TrafficAnalyzed broadcasts a traffic_alert when the batch risk is above Low.
func (a *Alerter) TrafficAnalyzed(meta AlertMeta, result detection.TrafficAnalysis) bool {
	if a == nil || a.b == nil || result.RiskLevel.Rank() <= detection.RiskLow.Rank() {
		return false
	}

	top := result.Anomalies
	if len(top) > maxAlertAnomalies {
		top = top[:maxAlertAnomalies]
	}
	return a.b.Broadcast(MessageTypeTrafficAlert, TrafficAlert{
		AlertMeta:         meta,
		RiskLevel:         result.RiskLevel,
		TotalRecords:      result.TotalRecords,
		AnomaliesDetected: result.AnomaliesDetected,
		TopAnomalies:      top,
	})
}

// ThreatsForecast broadcasts a threat_alert at High or Critical.
func (a *Alerter) ThreatsForecast(meta AlertMeta, fc detection.ThreatForecast) bool {
	if a == nil || a.b == nil || fc.CurrentLevel.Rank() < detection.RiskHigh.Rank() {
		return false
	}
	return a.b.Broadcast(MessageTypeThreatAlert, ThreatAlert{
		AlertMeta:       meta,
		CurrentLevel:    fc.CurrentLevel,
		RecentEvents:    fc.RecentEvents,
		Next24h:         fc.Next24h,
		NextWeek:        fc.NextWeek,
		Recommendations: fc.Recommendations,
	})
}
