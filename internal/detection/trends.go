// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/eternyx/threatlens/internal/rank"
)

// Granularity selects how events are grouped into buckets.
type Granularity string

const (
	// Calendar granularities fold events onto a cycle.
	GranularityHourOfDay  Granularity = "hour_of_day"
	GranularityDayOfMonth Granularity = "day_of_month"
	GranularityDayOfWeek  Granularity = "day_of_week"

	// Window granularities keep absolute time. Keys are RFC3339 window starts.
	GranularityHourly Granularity = "hourly"
	GranularityDaily  Granularity = "daily"
)

// Forecast messages and recommendations.
const (
	Next24hIncreasing = "Increasing threat activity expected"
	Next24hStable     = "Stable threat levels"
	NextWeekEscalated = "Significant threat escalation likely"
	NextWeekNormal    = "Normal threat patterns"

	RecommendIncreaseMonitoring = "Increase monitoring frequency"
	RecommendEnhancedProtocols  = "Activate enhanced security protocols"
	RecommendAlertTeam          = "Alert security team for potential incidents"
	RecommendReviewSignatures   = "Review and update threat signatures"
	RecommendAwarenessTraining  = "Conduct security awareness training"
)

// TrendPredictor buckets historical events and extrapolates a forecast.
type TrendPredictor struct {
	policy TrendPolicy
	loc    *time.Location
	now    func() time.Time
}

// NewTrendPredictor resolves the policy timezone. now may be nil, in which
// case time.Now is used.
func NewTrendPredictor(p TrendPolicy, now func() time.Time) (*TrendPredictor, error) {
	switch p.Granularity {
	case GranularityHourOfDay, GranularityDayOfMonth, GranularityDayOfWeek,
		GranularityHourly, GranularityDaily:
	default:
		return nil, fmt.Errorf("%w: unknown granularity %q", ErrInvalidPolicy, p.Granularity)
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidPolicy, p.Timezone, err)
	}
	if now == nil {
		now = time.Now
	}
	return &TrendPredictor{policy: p, loc: loc, now: now}, nil
}

type bucket struct {
	key     string
	ordinal int64
	count   int
}

// bucketOf returns the key and sort ordinal of t's bucket.
func (tp *TrendPredictor) bucketOf(t time.Time) (string, int64) {
	t = t.In(tp.loc)
	switch tp.policy.Granularity {
	case GranularityDayOfMonth:
		return strconv.Itoa(t.Day()), int64(t.Day())
	case GranularityDayOfWeek:
		return strconv.Itoa(int(t.Weekday())), int64(t.Weekday())
	case GranularityHourly:
		start := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, tp.loc)
		return start.Format(time.RFC3339), start.Unix()
	case GranularityDaily:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, tp.loc)
		return start.Format(time.RFC3339), start.Unix()
	default:
		return strconv.Itoa(t.Hour()), int64(t.Hour())
	}
}

func bucketRanksBelow(a, b bucket) bool {
	if a.count != b.count {
		return a.count < b.count
	}
	return a.ordinal > b.ordinal
}

// AnalyzeTrends groups events into buckets. Only observed buckets appear.
func (tp *TrendPredictor) AnalyzeTrends(events []HistoricalEvent) TrendSummary {
	index := make(map[string]int)
	buckets := make([]bucket, 0)
	for _, ev := range events {
		key, ord := tp.bucketOf(ev.Timestamp)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, bucket{key: key, ordinal: ord})
		}
		buckets[i].count++
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].ordinal < buckets[j].ordinal
	})

	summary := TrendSummary{
		Granularity:  tp.policy.Granularity,
		BucketCounts: make(map[string]int, len(buckets)),
		Buckets:      make([]BucketCount, 0, len(buckets)),
		PeakBuckets:  []string{},
	}
	values := make([]int, 0, len(buckets))
	for _, b := range buckets {
		summary.BucketCounts[b.key] = b.count
		summary.Buckets = append(summary.Buckets, BucketCount{Key: b.key, Count: b.count})
		values = append(values, b.count)
	}
	summary.GrowthRate = GrowthRate(values, tp.policy.EdgeBuckets)

	for _, b := range rank.Select(buckets, tp.policy.PeakBuckets, bucketRanksBelow) {
		summary.PeakBuckets = append(summary.PeakBuckets, b.key)
	}
	return summary
}

// GrowthRate compares the mean of the last edge values to the mean of the
// first edge values. It returns 0 for fewer than two values or a zero base.
func GrowthRate(values []int, edge int) float64 {
	n := len(values)
	if n < 2 || edge <= 0 {
		return 0
	}
	k := min(edge, n)

	first := mean(values[:k])
	if first == 0 {
		return 0
	}
	last := mean(values[n-k:])
	g := (last - first) / first
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0
	}
	return g
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// RecentEvents counts events with timestamps in (now-lookback, now].
func (tp *TrendPredictor) RecentEvents(events []HistoricalEvent, now time.Time) int {
	cutoff := now.Add(-tp.policy.Lookback)
	n := 0
	for _, ev := range events {
		if ev.Timestamp.After(cutoff) && !ev.Timestamp.After(now) {
			n++
		}
	}
	return n
}

// ThreatLevel grades a recent-event count.
func (tp *TrendPredictor) ThreatLevel(recent int) RiskLevel {
	p := tp.policy
	switch {
	case recent > p.CriticalEvents:
		return RiskCritical
	case recent > p.HighEvents:
		return RiskHigh
	case recent > p.MediumEvents:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Forecast derives the outlook from a trend summary and a recent-event count.
func (tp *TrendPredictor) Forecast(trends TrendSummary, recent int) ThreatForecast {
	p := tp.policy
	g := trends.GrowthRate

	fc := ThreatForecast{
		CurrentLevel: tp.ThreatLevel(recent),
		RecentEvents: recent,
		Next24h:      Next24hStable,
		NextWeek:     NextWeekNormal,
		Confidence:   clamp01(math.Min(p.BaseConfidence+math.Abs(g), p.MaxConfidence)),
		Trends:       trends,
	}
	if g > p.IncreasingGrowth {
		fc.Next24h = Next24hIncreasing
	}
	if g > p.EscalationGrowth {
		fc.NextWeek = NextWeekEscalated
	}

	recs := make([]string, 0, 5)
	if fc.Confidence > p.MonitoringConfidence {
		recs = append(recs, RecommendIncreaseMonitoring)
	}
	if fc.Next24h == Next24hIncreasing {
		recs = append(recs, RecommendEnhancedProtocols, RecommendAlertTeam)
	}
	fc.Recommendations = append(recs, RecommendReviewSignatures, RecommendAwarenessTraining)
	return fc
}

// Predict runs AnalyzeTrends and Forecast against the injected clock.
func (tp *TrendPredictor) Predict(events []HistoricalEvent) ThreatForecast {
	return tp.Forecast(tp.AnalyzeTrends(events), tp.RecentEvents(events, tp.now()))
}
