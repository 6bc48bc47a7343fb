// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"fmt"
	"math"
	"path"
	"regexp"
	"strings"
)

// Entropy returns the Shannon entropy of data in bits per byte, in [0, 8].
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var freq [256]int
	for _, b := range data {
		freq[b]++
	}

	n := float64(len(data))
	var h float64
	for _, c := range freq {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}

	// Rounding can leave -0 or a hair above 8.
	if h < 0 {
		return 0
	}
	if h > 8 {
		return 8
	}
	return h
}

// Extension returns the lower-cased suffix after the last dot of the base
// name, or "" when there is none.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// FeatureExtractor derives FeatureVectors from samples. It is immutable
// after construction and safe for concurrent use.
type FeatureExtractor struct {
	patterns           []*regexp.Regexp
	fileTypes          map[string]string
	obfuscationEntropy float64
}

// NewFeatureExtractor compiles the policy's token patterns case-insensitively.
func NewFeatureExtractor(p MalwarePolicy) (*FeatureExtractor, error) {
	patterns := make([]*regexp.Regexp, 0, len(p.SuspiciousPatterns))
	for _, expr := range p.SuspiciousPatterns {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("%w: suspicious pattern %q: %v", ErrInvalidPolicy, expr, err)
		}
		patterns = append(patterns, re)
	}

	fileTypes := make(map[string]string, len(p.FileTypes))
	for ext, name := range p.FileTypes {
		fileTypes[strings.ToLower(strings.TrimPrefix(ext, "."))] = name
	}

	return &FeatureExtractor{
		patterns:           patterns,
		fileTypes:          fileTypes,
		obfuscationEntropy: p.ObfuscationEntropy,
	}, nil
}

// Extract computes the feature vector of s. It never fails.
func (e *FeatureExtractor) Extract(s Sample) FeatureVector {
	entropy := Entropy(s.Content)
	ext := Extension(s.Name)

	return FeatureVector{
		Entropy:              entropy,
		SuspiciousTokenCount: e.CountSuspiciousTokens(s.Content),
		Length:               len(s.Content),
		HasObfuscation:       entropy > e.obfuscationEntropy,
		Extension:            ext,
		FileType:             e.FileType(ext),
	}
}

// CountSuspiciousTokens sums non-overlapping matches of every pattern.
func (e *FeatureExtractor) CountSuspiciousTokens(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	total := 0
	for _, re := range e.patterns {
		total += len(re.FindAllIndex(content, -1))
	}
	return total
}

// FileType maps an extension to its display name.
func (e *FeatureExtractor) FileType(ext string) string {
	if name, ok := e.fileTypes[strings.ToLower(ext)]; ok {
		return name
	}
	return UnknownFileType
}
