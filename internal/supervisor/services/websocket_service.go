// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/eternyx/threatlens/internal/logging"
)

// ContextHub is the run loop of *websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the alert hub under the messaging layer.
//
// A hub is single use: once its loop returns, attached clients are gone
// and new ones are refused. An exit that was not caused by shutdown is
// therefore reported with suture.ErrDoNotRestart instead of restarting a
// dead hub in a tight loop.
//
//	hub := websocket.NewHubWithConfig(hubConfig)
//	tree.AddMessagingService(services.NewWebSocketHubService(hub))
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService creates a new WebSocket hub service wrapper.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	err := w.hub.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	logging.Error().Err(err).Str("service", w.name).Msg("WebSocket hub stopped unexpectedly")
	return fmt.Errorf("%w: websocket hub exited: %v", suture.ErrDoNotRestart, err)
}

// String implements fmt.Stringer for suture's log messages.
func (w *WebSocketHubService) String() string {
	return w.name
}
