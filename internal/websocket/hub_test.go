// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/eternyx/threatlens/internal/logging"
)

//nolint:gochecknoinits // init keeps test output quiet
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "json",
		Output: io.Discard,
	})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T, cfg Config) *Hub {
	t.Helper()
	hub := NewHubWithConfig(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	return hub
}

// createTestClient creates a client without a connection
func createTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestNewHubWithConfigDefaults(t *testing.T) {
	hub := NewHubWithConfig(Config{SendBuffer: 8})
	cfg := hub.Config()

	if cfg.SendBuffer != 8 {
		t.Errorf("SendBuffer = %d, want 8", cfg.SendBuffer)
	}
	def := DefaultConfig()
	if cfg.PingInterval != def.PingInterval || cfg.WriteTimeout != def.WriteTimeout || cfg.MaxMessageSize != def.MaxMessageSize {
		t.Errorf("zero fields not defaulted: %+v", cfg)
	}
	if cfg.pongWait() <= cfg.PingInterval {
		t.Errorf("pongWait %v must exceed ping interval %v", cfg.pongWait(), cfg.PingInterval)
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t, DefaultConfig())

	a := createTestClient(hub, 4)
	b := createTestClient(hub, 4)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	if !hub.Broadcast(MessageTypeTrafficAlert, map[string]int{"anomalies_detected": 3}) {
		t.Fatal("Broadcast reported a drop")
	}

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		if msg.Type != MessageTypeTrafficAlert {
			t.Errorf("client %d got type %q", c.id, msg.Type)
		}
		if msg.Timestamp.IsZero() || msg.Timestamp.Location() != time.UTC {
			t.Errorf("timestamp %v should be set in UTC", msg.Timestamp)
		}
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t, DefaultConfig())

	c := createTestClient(hub, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.Unregister <- c
	waitForClients(t, hub, 0)

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}

	// A second unregister is a no-op.
	hub.Unregister <- c
	waitForClients(t, hub, 0)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t, DefaultConfig())

	slow := createTestClient(hub, 1)
	fast := createTestClient(hub, 8)
	hub.Register <- slow
	hub.Register <- fast
	waitForClients(t, hub, 2)

	hub.Broadcast(MessageTypeMalwareAlert, "first")
	hub.Broadcast(MessageTypeMalwareAlert, "second")

	waitForClients(t, hub, 1)
	if got := receive(t, fast); got.Data != "first" {
		t.Errorf("fast client first message = %v", got.Data)
	}
	if got := receive(t, fast); got.Data != "second" {
		t.Errorf("fast client second message = %v", got.Data)
	}

	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("slow client should have been disconnected")
	}
}

func TestHub_BroadcastQueueFull(t *testing.T) {
	// Not running, so nothing drains the queue.
	hub := NewHubWithConfig(Config{BroadcastBuffer: 1})

	if !hub.Broadcast(MessageTypeThreatAlert, nil) {
		t.Fatal("first broadcast should be queued")
	}
	if hub.Broadcast(MessageTypeThreatAlert, nil) {
		t.Error("second broadcast should be dropped")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()

	c := createTestClient(hub, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-c.send; ok {
		t.Error("client send channel should be closed on shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients remaining = %d", hub.GetClientCount())
	}

	if _, err := hub.Attach(nil); !errors.Is(err, ErrHubStopped) {
		t.Errorf("Attach after stop = %v, want ErrHubStopped", err)
	}

	// Unregister after shutdown must not block.
	done := make(chan struct{})
	go func() {
		c.unregister()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after hub shutdown")
	}
}

func TestGetShutdownReason(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled ctx reason = %s", got)
	}

	ctx, cancel = context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline ctx reason = %s", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{
		Type:      MessageTypePong,
		Timestamp: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"pong","timestamp":"2026-03-14T12:00:00Z","data":null}`
	if string(data) != want {
		t.Errorf("MarshalMessage() = %s, want %s", data, want)
	}
}
