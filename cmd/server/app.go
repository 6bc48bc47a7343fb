// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/eternyx/threatlens/internal/api"
	"github.com/eternyx/threatlens/internal/config"
	"github.com/eternyx/threatlens/internal/detection"
	"github.com/eternyx/threatlens/internal/eventprocessor"
	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/metrics"
	"github.com/eternyx/threatlens/internal/supervisor"
	"github.com/eternyx/threatlens/internal/supervisor/services"
	ws "github.com/eternyx/threatlens/internal/websocket"
)

// errWorkerUnhealthy is reported by the readiness probe while the NATS
// worker is down or restarting.
var errWorkerUnhealthy = errors.New("worker not consuming")

// app holds the wired components of one server process.
type app struct {
	analyzer *detection.Analyzer
	hub      *ws.Hub
	handler  *api.Handler
	worker   *eventprocessor.Worker
	server   *http.Server
	tree     *supervisor.SupervisorTree
}

// newApp builds every component from cfg and registers the long-lived ones
// with a fresh supervisor tree. Nothing runs until the tree is served.
func newApp(cfg *config.Config, version string) (*app, error) {
	analyzer, err := detection.NewAnalyzer(cfg.Analysis)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	logging.Info().
		Float64("malicious_threshold", cfg.Analysis.Malware.MaliciousThreshold).
		Str("trend_granularity", string(cfg.Analysis.Trends.Granularity)).
		Int("max_batch_size", cfg.Analysis.MaxBatchSize).
		Msg("Analyzer initialized")

	tree, err := supervisor.NewSupervisorTree(logging.NewComponentSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("supervisor tree: %w", err)
	}

	a := &app{analyzer: analyzer, tree: tree}

	if cfg.WebSocket.Enabled {
		a.hub = ws.NewHubWithConfig(ws.Config{
			PingInterval:   cfg.WebSocket.PingInterval,
			WriteTimeout:   cfg.WebSocket.WriteTimeout,
			SendBuffer:     cfg.WebSocket.SendBuffer,
			MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		})
		tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
		logging.Info().Msg("WebSocket hub added to supervisor tree")
	}

	a.handler, err = api.NewHandler(analyzer, cfg, a.hub)
	if err != nil {
		return nil, fmt.Errorf("api handler: %w", err)
	}
	a.handler.SetVersion(version)

	if err := a.initWorker(cfg); err != nil {
		return nil, err
	}

	router := api.NewRouter(a.handler, api.NewChiMiddlewareFromConfig(cfg.Security), cfg.Server.Timeout)
	a.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Upgraded alert streams set their own write deadlines
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(a.server, cfg.Server.ShutdownTimeout))
	tree.AddAPIService(newUptimeService(time.Now(), 15*time.Second))
	logging.Info().Str("addr", a.server.Addr).Msg("HTTP server service added")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if path := config.ConfigFile(); path != "" {
		watchLogLevel(path)
	}

	return a, nil
}

// initWorker creates the NATS analysis worker when enabled and gates the
// readiness probe on it.
func (a *app) initWorker(cfg *config.Config) error {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS worker disabled (NATS_ENABLED=false)")
		return nil
	}

	var alerter *ws.Alerter
	if a.hub != nil {
		alerter = ws.NewAlerter(a.hub)
	}

	worker, err := eventprocessor.NewWorker(eventprocessor.NewWorkerConfig(cfg.NATS), a.analyzer, alerter)
	if err != nil {
		return fmt.Errorf("nats worker: %w", err)
	}
	a.worker = worker

	a.handler.RegisterReadinessCheck("nats", func(ctx context.Context) error {
		if !worker.Healthy(ctx) {
			return errWorkerUnhealthy
		}
		return nil
	})
	a.tree.AddMessagingService(services.NewNATSWorkerService(worker, cfg.Server.ShutdownTimeout))

	logging.Info().
		Str("url", cfg.NATS.URL).
		Bool("embedded", cfg.NATS.EmbeddedServer).
		Msg("NATS worker added to supervisor tree")
	return nil
}

// watchLogLevel re-reads the configuration when the file changes and
// applies the new log level. Other settings need a restart.
func watchLogLevel(path string) {
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		if cfg.Logging.Level != logging.GetLevel().String() {
			logging.SetLevelString(cfg.Logging.Level)
			logging.Info().Str("level", cfg.Logging.Level).Msg("Log level changed")
		}
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		return
	}
	logging.Info().Str("path", path).Msg("Watching config file for log level changes")
}
