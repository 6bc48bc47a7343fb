// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package main

import (
	"context"
	"time"

	"github.com/eternyx/threatlens/internal/metrics"
)

// uptimeService keeps the app_uptime_seconds gauge current.
type uptimeService struct {
	started  time.Time
	interval time.Duration
}

func newUptimeService(started time.Time, interval time.Duration) *uptimeService {
	return &uptimeService{started: started, interval: interval}
}

// Serve implements suture.Service.
func (s *uptimeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		metrics.AppUptime.Set(time.Since(s.started).Seconds())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *uptimeService) String() string {
	return "uptime-gauge"
}
