// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import "math"

// MalwareScorer turns feature vectors into verdicts.
type MalwareScorer struct {
	policy MalwarePolicy
}

func NewMalwareScorer(p MalwarePolicy) *MalwareScorer {
	return &MalwareScorer{policy: p}
}

// Score computes the verdict for f. Per-token contributions are uncapped;
// only the final sum is clamped.
func (s *MalwareScorer) Score(f FeatureVector) MalwareVerdict {
	p := s.policy

	raw := float64(f.SuspiciousTokenCount) * p.TokenWeight
	if f.HasObfuscation {
		raw += p.ObfuscationWeight
	}
	if f.Entropy > p.HighEntropy {
		raw += p.HighEntropyWeight
	}
	score := clamp01(raw)

	tags := make([]string, 0, 3)
	if f.SuspiciousTokenCount > p.CodeInjectionTokens {
		tags = append(tags, TagCodeInjection)
	}
	if f.HasObfuscation {
		tags = append(tags, TagObfuscatedCode)
	}
	if f.Entropy > p.EncryptedEntropy {
		tags = append(tags, TagEncryptedPayload)
	}

	return MalwareVerdict{
		Score:          score,
		Classification: s.Classify(score),
		Confidence:     s.Confidence(score),
		ThreatTags:     tags,
	}
}

// Classify applies the strict thresholds: a score equal to a threshold
// falls into the lower bucket.
func (s *MalwareScorer) Classify(score float64) Classification {
	switch {
	case score > s.policy.MaliciousThreshold:
		return ClassificationMalicious
	case score > s.policy.SuspiciousThreshold:
		return ClassificationSuspicious
	default:
		return ClassificationClean
	}
}

// Confidence is a deterministic calibration: lowest at score 0.5, where the
// verdict is least decisive, rising linearly to the ceiling at 0 and 1.
func (s *MalwareScorer) Confidence(score float64) float64 {
	floor, ceil := s.policy.ConfidenceFloor, s.policy.ConfidenceCeiling
	decisiveness := math.Abs(2*clamp01(score) - 1)
	return clamp01(floor + (ceil-floor)*decisiveness)
}
