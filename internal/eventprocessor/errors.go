// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import "errors"

// ErrNilEngine is returned when a handler is built without an analysis engine.
var ErrNilEngine = errors.New("analysis engine cannot be nil")

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrUnknownKind is returned for a request kind the worker does not serve.
var ErrUnknownKind = errors.New("unknown analysis kind")

// ErrWorkerRunning is returned when Start is called on a running worker.
var ErrWorkerRunning = errors.New("analysis worker already running")
