// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// Package services adapts the server's components to suture.Service.
//
// Each adapter depends on a small interface instead of the concrete type,
// so this package imports neither the websocket nor the eventprocessor
// package:
//
//   - HTTPServerService: *http.Server
//   - WebSocketHubService: *websocket.Hub
//   - NATSWorkerService: *eventprocessor.Worker
package services
