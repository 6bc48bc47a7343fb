// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package supervisor runs the server's long-lived components under a suture v4
supervisor tree.

# Tree Layout

	threatlens (root)
	├── messaging-layer
	│   ├── websocket-hub
	│   └── nats-worker (when nats.enabled)
	└── api-layer
	    └── http-server

Each layer restarts its own services with exponential backoff once the
failure threshold is crossed. Supervisor events are logged through
sutureslog, bridged onto the process zerolog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewComponentSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

The adapters in package services translate each component's lifecycle into
suture's Serve(ctx) error contract.
*/
package supervisor
