// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

func passThrough(calls *int) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		*calls++
		return nil, nil
	}
}

func TestThrottle_AllowsBurst(t *testing.T) {
	calls := 0
	h := NewThrottle(1, 3).Middleware(passThrough(&calls))

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := h(message.NewMessage(watermill.NewUUID(), nil)); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("burst of 3 took %v", elapsed)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestThrottle_CanceledWait(t *testing.T) {
	calls := 0
	h := NewThrottle(0.01, 1).Middleware(passThrough(&calls))

	if _, err := h(message.NewMessage(watermill.NewUUID(), nil)); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msg := message.NewMessage(watermill.NewUUID(), nil)
	msg.SetContext(ctx)

	_, err := h(msg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestNewThrottle_ClampsBurst(t *testing.T) {
	th := NewThrottle(10, 0)
	if th.limiter.Burst() != 1 {
		t.Errorf("Burst() = %d, want 1", th.limiter.Burst())
	}
}
