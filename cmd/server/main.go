// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// Package main is the entry point for the ThreatLens analysis server.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml and environment variables (Koanf v2)
//  2. Logging: zerolog at the configured level and format
//  3. Analyzer: the heuristic engine built from the analysis policy
//  4. WebSocket Hub: alert broadcast to connected clients (optional)
//  5. NATS worker: JetStream analysis requests and results (optional)
//  6. HTTP Server: REST API, health probes and Prometheus metrics
//
// Everything long-lived runs under a suture supervisor tree; see package
// supervisor for the layout.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server then drains
// in-flight requests for server.shutdown_timeout, the NATS worker finishes
// its in-flight messages and the hub closes every client.
//
// # Example Usage
//
// Development with an embedded NATS server:
//
//	export NATS_ENABLED=true
//	export NATS_EMBEDDED=true
//	export CORS_ORIGINS=http://localhost:3000
//	./threatlens-server
//
// Docker:
//
//	docker run -d -p 8088:8088 -e LOG_FORMAT=json ghcr.io/eternyx/threatlens
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/eternyx/threatlens/docs" // Import generated swagger docs
	"github.com/eternyx/threatlens/internal/config"
	"github.com/eternyx/threatlens/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Bool("websocket_enabled", cfg.WebSocket.Enabled).
		Msg("Starting ThreatLens")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS allows all origins (CORS_ORIGINS=*)")
		logging.Warn().Msg("  Any website can call the analysis API and open the alert")
		logging.Warn().Msg("  stream. Set specific origins in production.")
		logging.Warn().Msg("============================================================")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApp(cfg, version)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize server")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := app.tree.ServeBackground(ctx)

	// The channel yields exactly one result
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := app.tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
