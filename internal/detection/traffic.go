// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"strings"

	"github.com/eternyx/threatlens/internal/rank"
)

// TrafficDetector computes batch statistics and flags anomalous records.
type TrafficDetector struct {
	policy  TrafficPolicy
	allowed map[string]struct{}
}

func NewTrafficDetector(p TrafficPolicy) *TrafficDetector {
	allowed := make(map[string]struct{}, len(p.AllowedProtocols))
	for _, proto := range p.AllowedProtocols {
		allowed[p.protocolKey(proto)] = struct{}{}
	}
	return &TrafficDetector{policy: p, allowed: allowed}
}

type portCount struct {
	port  int
	count int
	first int
}

func portRanksBelow(a, b portCount) bool {
	if a.count != b.count {
		return a.count < b.count
	}
	return a.first > b.first
}

// ComputeStats aggregates records. An empty batch yields zero values and no
// common ports. The size sum must fit in an int64; Analyzer rejects batches
// where it does not.
func (d *TrafficDetector) ComputeStats(records []TrafficRecord) TrafficStats {
	stats := TrafficStats{CommonPorts: []int{}}
	if len(records) == 0 {
		return stats
	}

	var total, largest int64
	counts := make(map[int]*portCount)
	order := make([]*portCount, 0)
	for i, r := range records {
		total += r.Size
		if r.Size > largest {
			largest = r.Size
		}
		pc, ok := counts[r.Port]
		if !ok {
			pc = &portCount{port: r.Port, first: i}
			counts[r.Port] = pc
			order = append(order, pc)
		}
		pc.count++
	}

	top := rank.NewTopK(d.policy.CommonPorts, portRanksBelow)
	for _, pc := range order {
		top.Push(*pc)
	}
	for _, pc := range top.Sorted() {
		stats.CommonPorts = append(stats.CommonPorts, pc.port)
	}

	stats.TotalVolume = float64(total)
	stats.MaxSize = float64(largest)
	stats.AvgSize = float64(total) / float64(len(records))
	return stats
}

// ScoreAnomaly scores a single record against batch statistics. The score is
// clamped to [0, 1] and reasons follow rule order.
func (d *TrafficDetector) ScoreAnomaly(r TrafficRecord, stats TrafficStats) (float64, []string) {
	p := d.policy
	var score float64
	reasons := make([]string, 0, 4)

	if float64(r.Size) > p.SizeMultiplier*stats.AvgSize {
		score += p.SizeWeight
		reasons = append(reasons, ReasonUnusualSize)
	}
	if !stats.IsCommonPort(r.Port) {
		score += p.UncommonPortWeight
		reasons = append(reasons, ReasonUncommonPort)
	}
	if r.Frequency > p.FrequencyThreshold {
		score += p.FrequencyWeight
		reasons = append(reasons, ReasonHighFrequency)
	}
	if r.Protocol != "" && !d.AllowedProtocol(r.Protocol) {
		score += p.ProtocolWeight
		reasons = append(reasons, ReasonUnusualProtocol)
	}

	return clamp01(score), reasons
}

// AllowedProtocol reports whether proto is in the allowed set. Matching is
// exact unless the policy enables ProtocolCaseInsensitive.
func (d *TrafficDetector) AllowedProtocol(proto string) bool {
	_, ok := d.allowed[d.policy.protocolKey(proto)]
	return ok
}

func (p TrafficPolicy) protocolKey(proto string) string {
	if p.ProtocolCaseInsensitive {
		return strings.ToUpper(proto)
	}
	return proto
}

type rankedAnomaly struct {
	event AnomalyEvent
	index int
}

func anomalyRanksBelow(a, b rankedAnomaly) bool {
	if a.event.AnomalyScore != b.event.AnomalyScore {
		return a.event.AnomalyScore < b.event.AnomalyScore
	}
	at, bt := a.event.Record.Timestamp, b.event.Record.Timestamp
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.index > b.index
}

// Analyze runs the full batch pipeline. Records are never mutated.
func (d *TrafficDetector) Analyze(records []TrafficRecord) TrafficAnalysis {
	stats := d.ComputeStats(records)

	top := rank.NewTopK(d.policy.MaxReportedAnomalies, anomalyRanksBelow)
	detected := 0
	for i, r := range records {
		score, reasons := d.ScoreAnomaly(r, stats)
		if score <= d.policy.AnomalyThreshold {
			continue
		}
		detected++
		// Every current rule names itself. This only covers a future rule
		// that adds score without a reason.
		if len(reasons) == 0 {
			reasons = append(reasons, ReasonStatisticalAnomaly)
		}
		top.Push(rankedAnomaly{
			event: AnomalyEvent{Record: r, AnomalyScore: score, Reasons: reasons},
			index: i,
		})
	}

	ranked := top.Sorted()
	anomalies := make([]AnomalyEvent, 0, len(ranked))
	for _, ra := range ranked {
		anomalies = append(anomalies, ra.event)
	}

	return TrafficAnalysis{
		TotalRecords:      len(records),
		AnomaliesDetected: detected,
		Anomalies:         anomalies,
		Stats:             stats,
		RiskLevel:         d.RiskLevel(detected),
	}
}

// RiskLevel grades a batch by its anomaly count.
func (d *TrafficDetector) RiskLevel(anomalies int) RiskLevel {
	switch {
	case anomalies > d.policy.HighRiskAnomalies:
		return RiskHigh
	case anomalies > d.policy.MediumRiskAnomalies:
		return RiskMedium
	default:
		return RiskLow
	}
}
