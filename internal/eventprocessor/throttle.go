// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"golang.org/x/time/rate"

	"github.com/eternyx/threatlens/internal/metrics"
)

// Throttle is a token bucket shared by every handler of a router. Unlike
// watermill's ticker based throttle it allows bursts and honours the
// message context while waiting.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows perSecond messages with bursts of up to burst.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Middleware blocks until a token is available or the message context ends.
// A canceled wait is returned as an error so the message is nacked.
func (t *Throttle) Middleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		start := time.Now()
		if err := t.limiter.Wait(messageContext(msg)); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}
		metrics.RecordNATSThrottleWait(time.Since(start))
		return h(msg)
	}
}
