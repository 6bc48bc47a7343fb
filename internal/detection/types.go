// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"math"
	"time"
)

// Classification is the categorical malware verdict.
type Classification string

const (
	ClassificationClean      Classification = "Clean"
	ClassificationSuspicious Classification = "Suspicious"
	ClassificationMalicious  Classification = "Malicious"
)

// RiskLevel grades traffic batches and threat forecasts.
// Traffic analysis only uses Low, Medium and High.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Rank orders risk levels for comparisons, Low being 0.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

// Threat tags attached to malware verdicts.
const (
	TagCodeInjection    = "Code Injection"
	TagObfuscatedCode   = "Obfuscated Code"
	TagEncryptedPayload = "Encrypted Payload"
)

// Anomaly reasons attached to flagged traffic records.
const (
	ReasonUnusualSize        = "Unusual packet size"
	ReasonUncommonPort       = "Uncommon port"
	ReasonHighFrequency      = "High frequency"
	ReasonUnusualProtocol    = "Unusual protocol"
	ReasonStatisticalAnomaly = "Statistical anomaly"
)

// UnknownFileType is reported for extensions missing from the file-type table.
const UnknownFileType = "Unknown"

// Sample is a piece of content submitted for malware scoring.
// It is never retained after the call returns.
type Sample struct {
	Name    string `json:"name" validate:"required"`
	Content []byte `json:"content"`
}

// FeatureVector is derived deterministically from a Sample.
type FeatureVector struct {
	Entropy              float64 `json:"entropy"`
	SuspiciousTokenCount int     `json:"suspicious_token_count"`
	Length               int     `json:"length"`
	HasObfuscation       bool    `json:"has_obfuscation"`
	Extension            string  `json:"extension"`
	FileType             string  `json:"file_type"`
}

// MalwareVerdict is the scorer's output for one sample.
type MalwareVerdict struct {
	Score          float64        `json:"score"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	ThreatTags     []string       `json:"threat_tags"`
}

// HasTag reports whether the verdict carries tag.
func (v MalwareVerdict) HasTag(tag string) bool {
	for _, t := range v.ThreatTags {
		if t == tag {
			return true
		}
	}
	return false
}

// SampleReport bundles a verdict with the features it was computed from.
type SampleReport struct {
	Name     string         `json:"name"`
	Features FeatureVector  `json:"features"`
	Verdict  MalwareVerdict `json:"verdict"`
}

// TrafficRecord is one observation of network telemetry.
type TrafficRecord struct {
	Timestamp   time.Time `json:"timestamp" validate:"required"`
	Source      string    `json:"source" validate:"required"`
	Destination string    `json:"destination" validate:"required"`
	Port        int       `json:"port" validate:"gte=0,lte=65535"`
	Size        int64     `json:"size" validate:"gte=0"`
	Protocol    string    `json:"protocol,omitempty"`
	Frequency   int       `json:"frequency" validate:"gte=0"`
}

// TrafficStats aggregates a batch of records.
type TrafficStats struct {
	AvgSize     float64 `json:"avg_size"`
	MaxSize     float64 `json:"max_size"`
	CommonPorts []int   `json:"common_ports"`
	TotalVolume float64 `json:"total_volume"`
}

// IsCommonPort reports whether port is among the batch's common ports.
func (s TrafficStats) IsCommonPort(port int) bool {
	for _, p := range s.CommonPorts {
		if p == port {
			return true
		}
	}
	return false
}

// AnomalyEvent is a traffic record whose score crossed the anomaly threshold.
type AnomalyEvent struct {
	Record       TrafficRecord `json:"record"`
	AnomalyScore float64       `json:"anomaly_score"`
	Reasons      []string      `json:"reasons"`
}

// TrafficAnalysis is the result of analyzing one traffic batch.
type TrafficAnalysis struct {
	TotalRecords      int            `json:"total_records"`
	AnomaliesDetected int            `json:"anomalies_detected"`
	Anomalies         []AnomalyEvent `json:"anomalies"`
	Stats             TrafficStats   `json:"stats"`
	RiskLevel         RiskLevel      `json:"risk_level"`
}

// HistoricalEvent is a past security event used for trend analysis.
type HistoricalEvent struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Category  string    `json:"category" validate:"required"`
	Severity  int       `json:"severity" validate:"gte=0"`
}

// BucketCount is one time bucket in natural key order.
type BucketCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TrendSummary describes how events distribute over time buckets.
type TrendSummary struct {
	Granularity  Granularity    `json:"granularity"`
	BucketCounts map[string]int `json:"bucket_counts"`
	Buckets      []BucketCount  `json:"buckets"`
	GrowthRate   float64        `json:"growth_rate"`
	PeakBuckets  []string       `json:"peak_buckets"`
}

// ThreatForecast is the short-term outlook derived from history.
type ThreatForecast struct {
	CurrentLevel    RiskLevel    `json:"current_level"`
	RecentEvents    int          `json:"recent_events"`
	Next24h         string       `json:"next_24h"`
	NextWeek        string       `json:"next_week"`
	Confidence      float64      `json:"confidence"`
	Recommendations []string     `json:"recommendations"`
	Trends          TrendSummary `json:"trends"`
}

// clamp01 bounds v to [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
