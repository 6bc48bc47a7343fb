// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package detection

import (
	"fmt"
	"math/rand/v2"
	"time"
)

var (
	syntheticPorts      = []int{80, 443, 22, 21, 25, 53, 3389}
	syntheticProtocols  = []string{"HTTP", "HTTPS", "TCP", "UDP"}
	syntheticCategories = []string{"malware", "phishing", "ddos", "intrusion"}
)

// NewSeededRand returns a PCG source seeded for reproducible demo data.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SyntheticTraffic generates n plausible records spread over the 24h before
// now. It is for demos and load tests, not detection.
func SyntheticTraffic(rng *rand.Rand, now time.Time, n int) []TrafficRecord {
	records := make([]TrafficRecord, 0, n)
	for range n {
		records = append(records, TrafficRecord{
			Timestamp:   now.Add(-time.Duration(rng.Int64N(int64(24 * time.Hour)))).UTC(),
			Source:      fmt.Sprintf("192.168.1.%d", rng.IntN(255)),
			Destination: fmt.Sprintf("10.0.0.%d", rng.IntN(255)),
			Port:        syntheticPorts[rng.IntN(len(syntheticPorts))],
			Size:        int64(rng.IntN(10000) + 100),
			Protocol:    syntheticProtocols[rng.IntN(len(syntheticProtocols))],
			Frequency:   rng.IntN(200),
		})
	}
	return records
}

// SyntheticHistory generates n events one hour apart, newest first.
func SyntheticHistory(rng *rand.Rand, now time.Time, n int) []HistoricalEvent {
	events := make([]HistoricalEvent, 0, n)
	for i := range n {
		events = append(events, HistoricalEvent{
			Timestamp: now.Add(-time.Duration(i) * time.Hour).UTC(),
			Category:  syntheticCategories[rng.IntN(len(syntheticCategories))],
			Severity:  rng.IntN(10) + 1,
		})
	}
	return events
}
