// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/eternyx/threatlens/internal/validation"
)

// Policy is the complete scoring configuration. It is read once at
// construction and never mutated by the engine afterwards.
type Policy struct {
	Malware MalwarePolicy `koanf:"malware" json:"malware"`
	Traffic TrafficPolicy `koanf:"traffic" json:"traffic"`
	Trends  TrendPolicy   `koanf:"trends" json:"trends"`

	// MaxBatchSize caps traffic and history batches. Zero disables the cap.
	MaxBatchSize int `koanf:"max_batch_size" json:"max_batch_size" validate:"gte=0"`
	// MaxSampleBytes caps sample content. Zero disables the cap.
	MaxSampleBytes int `koanf:"max_sample_bytes" json:"max_sample_bytes" validate:"gte=0"`
}

// MalwarePolicy configures feature extraction and malware scoring.
type MalwarePolicy struct {
	SuspiciousPatterns []string          `koanf:"suspicious_patterns" json:"suspicious_patterns" validate:"required,min=1,dive,required"`
	FileTypes          map[string]string `koanf:"file_types" json:"file_types"`

	TokenWeight       float64 `koanf:"token_weight" json:"token_weight" validate:"gte=0"`
	ObfuscationWeight float64 `koanf:"obfuscation_weight" json:"obfuscation_weight" validate:"gte=0"`
	HighEntropyWeight float64 `koanf:"high_entropy_weight" json:"high_entropy_weight" validate:"gte=0"`

	ObfuscationEntropy float64 `koanf:"obfuscation_entropy" json:"obfuscation_entropy" validate:"gte=0,lte=8"`
	HighEntropy        float64 `koanf:"high_entropy" json:"high_entropy" validate:"gte=0,lte=8"`
	EncryptedEntropy   float64 `koanf:"encrypted_entropy" json:"encrypted_entropy" validate:"gte=0,lte=8"`

	MaliciousThreshold  float64 `koanf:"malicious_threshold" json:"malicious_threshold" validate:"gte=0,lte=1,gtefield=SuspiciousThreshold"`
	SuspiciousThreshold float64 `koanf:"suspicious_threshold" json:"suspicious_threshold" validate:"gte=0,lte=1"`

	// CodeInjectionTokens is the token count that must be exceeded for the
	// Code Injection tag.
	CodeInjectionTokens int `koanf:"code_injection_tokens" json:"code_injection_tokens" validate:"gte=0"`

	ConfidenceFloor   float64 `koanf:"confidence_floor" json:"confidence_floor" validate:"gte=0,lte=1"`
	ConfidenceCeiling float64 `koanf:"confidence_ceiling" json:"confidence_ceiling" validate:"gte=0,lte=1,gtefield=ConfidenceFloor"`
}

// TrafficPolicy configures anomaly scoring of traffic batches.
type TrafficPolicy struct {
	SizeMultiplier     float64  `koanf:"size_multiplier" json:"size_multiplier" validate:"gt=0"`
	SizeWeight         float64  `koanf:"size_weight" json:"size_weight" validate:"gte=0"`
	UncommonPortWeight float64  `koanf:"uncommon_port_weight" json:"uncommon_port_weight" validate:"gte=0"`
	FrequencyThreshold int      `koanf:"frequency_threshold" json:"frequency_threshold" validate:"gte=0"`
	FrequencyWeight    float64  `koanf:"frequency_weight" json:"frequency_weight" validate:"gte=0"`
	ProtocolWeight     float64  `koanf:"protocol_weight" json:"protocol_weight" validate:"gte=0"`
	AllowedProtocols   []string `koanf:"allowed_protocols" json:"allowed_protocols" validate:"dive,required"`
	// ProtocolCaseInsensitive makes "https" match an allowed "HTTPS".
	ProtocolCaseInsensitive bool `koanf:"protocol_case_insensitive" json:"protocol_case_insensitive"`

	AnomalyThreshold     float64 `koanf:"anomaly_threshold" json:"anomaly_threshold" validate:"gte=0,lte=1"`
	CommonPorts          int     `koanf:"common_ports" json:"common_ports" validate:"gte=0,lte=5"`
	MaxReportedAnomalies int     `koanf:"max_reported_anomalies" json:"max_reported_anomalies" validate:"gte=0"`

	HighRiskAnomalies   int `koanf:"high_risk_anomalies" json:"high_risk_anomalies" validate:"gte=0,gtefield=MediumRiskAnomalies"`
	MediumRiskAnomalies int `koanf:"medium_risk_anomalies" json:"medium_risk_anomalies" validate:"gte=0"`
}

// TrendPolicy configures bucketing and forecasting of historical events.
type TrendPolicy struct {
	Granularity Granularity `koanf:"granularity" json:"granularity" validate:"oneof=hour_of_day day_of_month day_of_week hourly daily"`
	Timezone    string      `koanf:"timezone" json:"timezone" validate:"required"`
	// EdgeBuckets is how many leading and trailing buckets feed the growth rate.
	EdgeBuckets int           `koanf:"edge_buckets" json:"edge_buckets" validate:"gte=1"`
	PeakBuckets int           `koanf:"peak_buckets" json:"peak_buckets" validate:"gte=0"`
	Lookback    time.Duration `koanf:"lookback" json:"lookback" validate:"gt=0"`

	CriticalEvents int `koanf:"critical_events" json:"critical_events" validate:"gtefield=HighEvents"`
	HighEvents     int `koanf:"high_events" json:"high_events" validate:"gtefield=MediumEvents"`
	MediumEvents   int `koanf:"medium_events" json:"medium_events" validate:"gte=0"`

	IncreasingGrowth float64 `koanf:"increasing_growth" json:"increasing_growth"`
	EscalationGrowth float64 `koanf:"escalation_growth" json:"escalation_growth"`

	BaseConfidence       float64 `koanf:"base_confidence" json:"base_confidence" validate:"gte=0,lte=1"`
	MaxConfidence        float64 `koanf:"max_confidence" json:"max_confidence" validate:"gte=0,lte=1"`
	MonitoringConfidence float64 `koanf:"monitoring_confidence" json:"monitoring_confidence" validate:"gte=0,lte=1"`
}

// DefaultSuspiciousPatterns covers dynamic evaluation, process execution,
// encoded payload markers and executable extensions.
var DefaultSuspiciousPatterns = []string{
	`eval\s*\(`,
	`exec\s*\(`,
	`system\s*\(`,
	`shell_exec`,
	`base64_decode`,
	`document\.write`,
	`innerHTML`,
	`\.exe`,
	`\.bat`,
	`\.cmd`,
}

// DefaultFileTypes maps lower-case extensions to display names.
var DefaultFileTypes = map[string]string{
	"js":   "JavaScript",
	"php":  "PHP Script",
	"py":   "Python Script",
	"exe":  "Windows Executable",
	"bat":  "Batch File",
	"sh":   "Shell Script",
	"html": "HTML Document",
	"pdf":  "PDF Document",
}

// DefaultPolicy returns the stock heuristics.
func DefaultPolicy() Policy {
	return Policy{
		Malware: MalwarePolicy{
			SuspiciousPatterns:  slices.Clone(DefaultSuspiciousPatterns),
			FileTypes:           maps.Clone(DefaultFileTypes),
			TokenWeight:         0.3,
			ObfuscationWeight:   0.4,
			HighEntropyWeight:   0.2,
			ObfuscationEntropy:  7.5,
			HighEntropy:         6,
			EncryptedEntropy:    7,
			MaliciousThreshold:  0.7,
			SuspiciousThreshold: 0.4,
			CodeInjectionTokens: 5,
			ConfidenceFloor:     0.85,
			ConfidenceCeiling:   0.95,
		},
		Traffic: TrafficPolicy{
			SizeMultiplier:       3,
			SizeWeight:           0.3,
			UncommonPortWeight:   0.2,
			FrequencyThreshold:   100,
			FrequencyWeight:      0.4,
			ProtocolWeight:       0.3,
			AllowedProtocols:     []string{"HTTP", "HTTPS", "TCP", "UDP"},
			AnomalyThreshold:     0.8,
			CommonPorts:          5,
			MaxReportedAnomalies: 10,
			HighRiskAnomalies:    5,
			MediumRiskAnomalies:  2,
		},
		Trends: TrendPolicy{
			Granularity:          GranularityHourOfDay,
			Timezone:             "UTC",
			EdgeBuckets:          3,
			PeakBuckets:          3,
			Lookback:             24 * time.Hour,
			CriticalEvents:       100,
			HighEvents:           50,
			MediumEvents:         20,
			IncreasingGrowth:     0.2,
			EscalationGrowth:     0.5,
			BaseConfidence:       0.7,
			MaxConfidence:        0.95,
			MonitoringConfidence: 0.8,
		},
		MaxBatchSize:   100000,
		MaxSampleBytes: 32 << 20,
	}
}

// Validate checks every field constraint and that the timezone resolves.
func (p Policy) Validate() error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, verr.Error())
	}
	if _, err := time.LoadLocation(p.Trends.Timezone); err != nil {
		return fmt.Errorf("%w: trends.timezone: %v", ErrInvalidPolicy, err)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a running engine.
func (p Policy) Clone() Policy {
	c := p
	c.Malware.SuspiciousPatterns = slices.Clone(p.Malware.SuspiciousPatterns)
	c.Malware.FileTypes = maps.Clone(p.Malware.FileTypes)
	c.Traffic.AllowedProtocols = slices.Clone(p.Traffic.AllowedProtocols)
	return c
}
