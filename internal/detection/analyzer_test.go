// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	a, err := NewAnalyzer(DefaultPolicy(), opts...)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return a
}

func TestNewAnalyzer_RejectsInvalidPolicy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"thresholds inverted", func(p *Policy) { p.Malware.MaliciousThreshold = 0.3 }},
		{"no patterns", func(p *Policy) { p.Malware.SuspiciousPatterns = nil }},
		{"bad regex", func(p *Policy) { p.Malware.SuspiciousPatterns = []string{"[a-"} }},
		{"confidence inverted", func(p *Policy) { p.Malware.ConfidenceCeiling = 0.5 }},
		{"too many common ports", func(p *Policy) { p.Traffic.CommonPorts = 6 }},
		{"unknown granularity", func(p *Policy) { p.Trends.Granularity = "weekly" }},
		{"unknown timezone", func(p *Policy) { p.Trends.Timezone = "Nowhere/Special" }},
		{"zero lookback", func(p *Policy) { p.Trends.Lookback = 0 }},
		{"negative batch cap", func(p *Policy) { p.MaxBatchSize = -1 }},
		{"level cutoffs inverted", func(p *Policy) { p.Trends.HighEvents = 200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			if _, err := NewAnalyzer(p); !errors.Is(err, ErrInvalidPolicy) {
				t.Errorf("expected ErrInvalidPolicy, got %v", err)
			}
		})
	}
}

func TestDefaultPolicyIsValid(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
}

func TestAnalyzer_AnalyzeSampleRequiresName(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.AnalyzeSample(Sample{Content: []byte("eval(x)")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	ie, ok := AsInvalidInput(err)
	if !ok {
		t.Fatalf("expected *InvalidInputError, got %T", err)
	}
	if ie.Op != OpAnalyzeSample || ie.Field != "name" || ie.Index != -1 {
		t.Errorf("unexpected error fields %+v", ie)
	}
}

func TestAnalyzer_SampleSizeLimit(t *testing.T) {
	p := DefaultPolicy()
	p.MaxSampleBytes = 16
	a, err := NewAnalyzer(p)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.AnalyzeSample(Sample{Name: "ok.txt", Content: bytes.Repeat([]byte("a"), 16)}); err != nil {
		t.Errorf("sample at the limit rejected: %v", err)
	}
	_, err = a.InspectSample(Sample{Name: "big.txt", Content: bytes.Repeat([]byte("a"), 17)})
	if ie, ok := AsInvalidInput(err); !ok || ie.Field != "content" || ie.Op != OpInspectSample {
		t.Errorf("expected content size error, got %v", err)
	}
}

func TestAnalyzer_AnalyzeTrafficReportsBadRecord(t *testing.T) {
	a := newTestAnalyzer(t)

	records := []TrafficRecord{
		record(80, 10, 0, "TCP"),
		{Timestamp: testNow, Destination: "10.0.0.1", Port: 80},
		{Timestamp: testNow, Source: "a", Destination: "b", Port: 70000},
	}

	_, err := a.AnalyzeTraffic(records)
	ie, ok := AsInvalidInput(err)
	if !ok {
		t.Fatalf("expected *InvalidInputError, got %v", err)
	}
	if ie.Index != 1 || ie.Field != "source" {
		t.Errorf("Index=%d Field=%q, want 1/source", ie.Index, ie.Field)
	}
	if !strings.Contains(ie.Error(), "[1].source") {
		t.Errorf("error text %q lacks location", ie.Error())
	}

	_, err = a.AnalyzeTraffic(records[2:])
	if ie, ok := AsInvalidInput(err); !ok || ie.Field != "port" {
		t.Errorf("expected port error, got %v", err)
	}
}

func TestAnalyzer_TrafficVolumeOverflow(t *testing.T) {
	a := newTestAnalyzer(t)
	half := int64(math.MaxInt64/2 + 1)

	tests := []struct {
		name      string
		sizes     []int64
		wantIndex int
	}{
		{"two halves", []int64{half, half, 1}, 1},
		{"max then one", []int64{math.MaxInt64, 1}, 1},
		{"one then max", []int64{1, math.MaxInt64}, 1},
		{"exactly max", []int64{math.MaxInt64 - 1, 1}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]TrafficRecord, len(tt.sizes))
			for i, size := range tt.sizes {
				records[i] = record(80, size, 0, "TCP")
			}
			result, err := a.AnalyzeTraffic(records)
			if tt.wantIndex < 0 {
				if err != nil {
					t.Fatalf("AnalyzeTraffic: %v", err)
				}
				if result.Stats.TotalVolume <= 0 {
					t.Errorf("TotalVolume = %v, want positive", result.Stats.TotalVolume)
				}
				return
			}
			ie, ok := AsInvalidInput(err)
			if !ok {
				t.Fatalf("expected *InvalidInputError, got %v", err)
			}
			if ie.Index != tt.wantIndex || ie.Field != "size" {
				t.Errorf("Index=%d Field=%q, want %d/size", ie.Index, ie.Field, tt.wantIndex)
			}
		})
	}
}

func TestAnalyzer_NegativeValuesRejected(t *testing.T) {
	a := newTestAnalyzer(t)

	r := record(80, -1, 0, "TCP")
	if _, err := a.AnalyzeTraffic([]TrafficRecord{r}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative size accepted: %v", err)
	}

	ev := eventAt(testNow)
	ev.Severity = -3
	if _, err := a.PredictThreats([]HistoricalEvent{ev}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative severity accepted: %v", err)
	}
}

func TestAnalyzer_HistoryRequiresTimestampAndCategory(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.AnalyzeTrends([]HistoricalEvent{{Category: "ddos"}})
	if ie, ok := AsInvalidInput(err); !ok || ie.Field != "timestamp" || ie.Op != OpAnalyzeTrends {
		t.Errorf("expected timestamp error, got %v", err)
	}

	_, err = a.PredictThreats([]HistoricalEvent{{Timestamp: testNow}})
	if ie, ok := AsInvalidInput(err); !ok || ie.Field != "category" || ie.Op != OpPredictThreats {
		t.Errorf("expected category error, got %v", err)
	}
}

func TestAnalyzer_BatchLimit(t *testing.T) {
	p := DefaultPolicy()
	p.MaxBatchSize = 5
	a, err := NewAnalyzer(p)
	if err != nil {
		t.Fatal(err)
	}

	records := SyntheticTraffic(NewSeededRand(1), testNow, 6)
	if _, err := a.AnalyzeTraffic(records); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("oversized batch accepted: %v", err)
	}
	if _, err := a.AnalyzeTraffic(records[:5]); err != nil {
		t.Errorf("batch at limit rejected: %v", err)
	}
}

func TestAnalyzer_DegradedInputs(t *testing.T) {
	a := newTestAnalyzer(t)

	traffic, err := a.AnalyzeTraffic(nil)
	if err != nil || traffic.RiskLevel != RiskLow || traffic.TotalRecords != 0 {
		t.Errorf("empty traffic: %+v, %v", traffic, err)
	}

	fc, err := a.PredictThreats(nil)
	if err != nil {
		t.Fatalf("empty history: %v", err)
	}
	if fc.CurrentLevel != RiskLow || fc.Trends.GrowthRate != 0 || fc.Next24h != Next24hStable {
		t.Errorf("empty history forecast: %+v", fc)
	}
}

func TestAnalyzer_ReturnsCopies(t *testing.T) {
	a := newTestAnalyzer(t)

	p := a.Policy()
	p.Malware.SuspiciousPatterns[0] = "mutated"
	p.Malware.FileTypes["js"] = "mutated"
	if a.Policy().Malware.SuspiciousPatterns[0] == "mutated" || a.Policy().Malware.FileTypes["js"] == "mutated" {
		t.Error("Policy() exposed internal state")
	}

	models := a.Models()
	models[0].Name = "mutated"
	if a.Models()[0].Name == "mutated" {
		t.Error("Models() exposed internal state")
	}
}

func TestAnalyzer_ConstructionCopiesPolicy(t *testing.T) {
	p := DefaultPolicy()
	a, err := NewAnalyzer(p)
	if err != nil {
		t.Fatal(err)
	}

	p.Traffic.AllowedProtocols[0] = "GOPHER"
	if a.Policy().Traffic.AllowedProtocols[0] != "HTTP" {
		t.Error("analyzer shares slices with the caller's policy")
	}
}

func TestAnalyzer_ModelCatalog(t *testing.T) {
	a := newTestAnalyzer(t)
	if got := len(a.Models()); got != 3 {
		t.Fatalf("default catalog has %d models, want 3", got)
	}

	custom := newTestAnalyzer(t, WithModelCatalog([]ModelInfo{{Key: "k", Name: "Custom"}}))
	if models := custom.Models(); len(models) != 1 || models[0].Key != "k" {
		t.Errorf("custom catalog = %+v", models)
	}

	empty := newTestAnalyzer(t, WithModelCatalog(nil))
	if models := empty.Models(); models == nil || len(models) != 0 {
		t.Errorf("nil catalog should yield empty slice, got %#v", models)
	}
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	a := newTestAnalyzer(t)
	records := scenarioTraffic()
	history := SyntheticHistory(NewSeededRand(9), testNow, 200)
	sample := Sample{Name: "x.js", Content: []byte("eval(a); eval(b);")}

	want, _ := a.AnalyzeTraffic(records)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got, err := a.AnalyzeTraffic(records)
				if err != nil {
					errs <- err
					return
				}
				if got.AnomaliesDetected != want.AnomaliesDetected {
					errs <- errors.New("nondeterministic traffic result")
					return
				}
				if _, err := a.PredictThreats(history); err != nil {
					errs <- err
					return
				}
				if _, err := a.AnalyzeSample(sample); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestInvalidInputError_Messages(t *testing.T) {
	tests := []struct {
		err  *InvalidInputError
		want string
	}{
		{&InvalidInputError{Op: "op", Index: -1, Reason: "bad"}, "op: invalid input: bad"},
		{&InvalidInputError{Op: "op", Field: "name", Index: -1, Reason: "bad"}, "op: invalid input name: bad"},
		{&InvalidInputError{Op: "op", Index: 2, Reason: "bad"}, "op: invalid input at [2]: bad"},
		{&InvalidInputError{Op: "op", Field: "port", Index: 2, Reason: "bad"}, "op: invalid input at [2].port: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestInvalidInputError_Details(t *testing.T) {
	whole := (&InvalidInputError{Op: OpAnalyzeTraffic, Index: -1, Reason: "bad"}).Details()
	if len(whole) != 1 || whole["op"] != OpAnalyzeTraffic {
		t.Errorf("Details() = %v", whole)
	}

	located := (&InvalidInputError{Op: OpAnalyzeTraffic, Field: "port", Index: 3, Reason: "bad"}).Details()
	if located["field"] != "port" || located["index"] != 3 {
		t.Errorf("Details() = %v", located)
	}
}
