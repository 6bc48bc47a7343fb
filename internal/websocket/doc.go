// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package websocket streams analysis alerts to connected dashboards.

It uses gorilla/websocket with a hub-and-spoke layout: one Hub run loop owns
the client set and fans messages out, and each Client runs a read pump
(answering application pings) and a write pump (draining its send buffer and
sending protocol pings).

Message Types:

  - malware_alert: a sample was classified Suspicious or Malicious
  - traffic_alert: a traffic batch was graded above Low
  - threat_alert: a forecast reached High or Critical
  - ping / pong: application-level keepalive initiated by the client

The Alerter decides which analysis results become alerts, so the HTTP API and
the NATS worker apply the same thresholds.

Usage:

	hub := websocket.NewHubWithConfig(websocket.Config{PingInterval: 54 * time.Second})
	go hub.RunWithContext(ctx)

	alerter := websocket.NewAlerter(hub)
	alerter.TrafficAnalyzed(websocket.AlertMeta{Transport: "http"}, result)

Broadcast never blocks. A full broadcast queue drops the message and a
client whose send buffer is full is disconnected.
*/
package websocket
