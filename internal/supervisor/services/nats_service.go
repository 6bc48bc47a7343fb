// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eternyx/threatlens/internal/logging"
)

// errWorkerStopped is returned when the worker's router exits on its own.
var errWorkerStopped = errors.New("NATS worker stopped unexpectedly")

// WorkerRunner matches the lifecycle of *eventprocessor.Worker.
type WorkerRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	Stopped() <-chan struct{}
}

// NATSWorkerService runs the JetStream analysis worker under the messaging
// layer.
//
// Serve starts the worker and blocks until shutdown or until the worker's
// router exits by itself. The latter releases the worker's connections and
// returns an error so suture restarts it with a fresh Start.
//
//	worker, _ := eventprocessor.NewWorker(eventprocessor.NewWorkerConfig(cfg.NATS), analyzer, alerter)
//	tree.AddMessagingService(services.NewNATSWorkerService(worker, cfg.Server.ShutdownTimeout))
type NATSWorkerService struct {
	worker          WorkerRunner
	shutdownTimeout time.Duration
	name            string
}

// NewNATSWorkerService creates the worker service. A non-positive timeout
// selects 10s.
func NewNATSWorkerService(worker WorkerRunner, shutdownTimeout time.Duration) *NATSWorkerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSWorkerService{
		worker:          worker,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-worker",
	}
}

// Serve implements suture.Service.
func (s *NATSWorkerService) Serve(ctx context.Context) error {
	if err := s.worker.Start(ctx); err != nil {
		return fmt.Errorf("NATS worker start failed: %w", err)
	}

	var result error
	select {
	case <-ctx.Done():
		result = ctx.Err()
	case <-s.worker.Stopped():
		logging.Error().Str("service", s.name).Msg("NATS worker router exited, restarting")
		result = errWorkerStopped
	}

	// The original context may already be canceled
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.worker.Shutdown(shutdownCtx)

	return result
}

// String implements fmt.Stringer for suture's log messages.
func (s *NATSWorkerService) String() string {
	return s.name
}
