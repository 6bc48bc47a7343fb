// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"bytes"
	"math"
	"slices"
	"testing"
)

func TestMalwareScorer_Classify(t *testing.T) {
	s := NewMalwareScorer(DefaultPolicy().Malware)

	tests := []struct {
		score float64
		want  Classification
	}{
		{0, ClassificationClean},
		{0.4, ClassificationClean},
		{0.40001, ClassificationSuspicious},
		{0.7, ClassificationSuspicious},
		{0.70001, ClassificationMalicious},
		{1, ClassificationMalicious},
	}

	for _, tt := range tests {
		if got := s.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestMalwareScorer_BoundaryScoreIsSuspicious(t *testing.T) {
	p := DefaultPolicy().Malware
	p.TokenWeight = 0.35
	s := NewMalwareScorer(p)

	v := s.Score(FeatureVector{SuspiciousTokenCount: 2, Entropy: 3})
	if v.Score != 0.7 {
		t.Fatalf("Score = %v, want exactly 0.7", v.Score)
	}
	if v.Classification != ClassificationSuspicious {
		t.Errorf("Classification = %s, want Suspicious", v.Classification)
	}
}

func TestMalwareScorer_ScoreComponents(t *testing.T) {
	s := NewMalwareScorer(DefaultPolicy().Malware)

	tests := []struct {
		name      string
		features  FeatureVector
		wantScore float64
		wantClass Classification
		wantTags  []string
	}{
		{
			name:      "nothing",
			features:  FeatureVector{},
			wantScore: 0,
			wantClass: ClassificationClean,
			wantTags:  []string{},
		},
		{
			name:      "one token",
			features:  FeatureVector{SuspiciousTokenCount: 1, Entropy: 4},
			wantScore: 0.3,
			wantClass: ClassificationClean,
			wantTags:  []string{},
		},
		{
			name:      "two tokens high entropy",
			features:  FeatureVector{SuspiciousTokenCount: 2, Entropy: 6.5},
			wantScore: 0.8,
			wantClass: ClassificationMalicious,
			wantTags:  []string{},
		},
		{
			name:      "encrypted but not obfuscated",
			features:  FeatureVector{Entropy: 7.2},
			wantScore: 0.2,
			wantClass: ClassificationClean,
			wantTags:  []string{TagEncryptedPayload},
		},
		{
			name:      "packed",
			features:  FeatureVector{Entropy: 7.9, HasObfuscation: true},
			wantScore: 0.6,
			wantClass: ClassificationSuspicious,
			wantTags:  []string{TagObfuscatedCode, TagEncryptedPayload},
		},
		{
			name:      "many tokens clamp",
			features:  FeatureVector{SuspiciousTokenCount: 40},
			wantScore: 1,
			wantClass: ClassificationMalicious,
			wantTags:  []string{TagCodeInjection},
		},
		{
			name:      "five tokens is not injection",
			features:  FeatureVector{SuspiciousTokenCount: 5},
			wantScore: 1,
			wantClass: ClassificationMalicious,
			wantTags:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.Score(tt.features)
			if math.Abs(v.Score-tt.wantScore) > 1e-9 {
				t.Errorf("Score = %v, want %v", v.Score, tt.wantScore)
			}
			if v.Classification != tt.wantClass {
				t.Errorf("Classification = %s, want %s", v.Classification, tt.wantClass)
			}
			if !slices.Equal(v.ThreatTags, tt.wantTags) {
				t.Errorf("ThreatTags = %v, want %v", v.ThreatTags, tt.wantTags)
			}
		})
	}
}

func TestMalwareScorer_MonotonicInTokens(t *testing.T) {
	s := NewMalwareScorer(DefaultPolicy().Malware)

	for _, base := range []FeatureVector{
		{},
		{Entropy: 6.5},
		{Entropy: 7.8, HasObfuscation: true},
	} {
		prev := -1.0
		for tokens := 0; tokens <= 20; tokens++ {
			f := base
			f.SuspiciousTokenCount = tokens
			score := s.Score(f).Score
			if score < prev {
				t.Fatalf("score decreased from %v to %v at %d tokens (base %+v)", prev, score, tokens, base)
			}
			prev = score
		}
	}
}

func TestMalwareScorer_Confidence(t *testing.T) {
	s := NewMalwareScorer(DefaultPolicy().Malware)

	if got := s.Confidence(0.5); math.Abs(got-0.85) > 1e-9 {
		t.Errorf("Confidence(0.5) = %v, want 0.85", got)
	}
	if got := s.Confidence(0); math.Abs(got-0.95) > 1e-9 {
		t.Errorf("Confidence(0) = %v, want 0.95", got)
	}
	if got := s.Confidence(1); math.Abs(got-0.95) > 1e-9 {
		t.Errorf("Confidence(1) = %v, want 0.95", got)
	}

	for i := 0; i <= 100; i++ {
		score := float64(i) / 100
		c := s.Confidence(score)
		if c < 0.85-1e-12 || c > 0.95+1e-12 {
			t.Fatalf("Confidence(%v) = %v outside [0.85, 0.95]", score, c)
		}
		if c != s.Confidence(score) {
			t.Fatalf("Confidence(%v) is not deterministic", score)
		}
	}
}

func TestScenario_EmptySampleIsClean(t *testing.T) {
	a := newTestAnalyzer(t)

	v, err := a.AnalyzeSample(Sample{Name: "empty.txt", Content: []byte("")})
	if err != nil {
		t.Fatalf("AnalyzeSample: %v", err)
	}
	if v.Classification != ClassificationClean || v.Score != 0 {
		t.Errorf("got %s score %v, want Clean score 0", v.Classification, v.Score)
	}
	if len(v.ThreatTags) != 0 {
		t.Errorf("ThreatTags = %v, want none", v.ThreatTags)
	}
}

func TestScenario_InjectionWithHighEntropyIsMalicious(t *testing.T) {
	a := newTestAnalyzer(t)

	content := append(bytes.Repeat([]byte("exec("), 6), uniformBytes(4096)...)
	report, err := a.InspectSample(Sample{Name: "loader.js", Content: content})
	if err != nil {
		t.Fatalf("InspectSample: %v", err)
	}

	if report.Features.SuspiciousTokenCount != 6 {
		t.Errorf("SuspiciousTokenCount = %d, want 6", report.Features.SuspiciousTokenCount)
	}
	if report.Features.Entropy <= 7.5 {
		t.Errorf("Entropy = %v, want > 7.5", report.Features.Entropy)
	}
	if report.Features.FileType != "JavaScript" {
		t.Errorf("FileType = %q", report.Features.FileType)
	}

	v := report.Verdict
	if v.Classification != ClassificationMalicious {
		t.Errorf("Classification = %s, want Malicious", v.Classification)
	}
	for _, tag := range []string{TagCodeInjection, TagObfuscatedCode} {
		if !v.HasTag(tag) {
			t.Errorf("missing tag %q in %v", tag, v.ThreatTags)
		}
	}
}
