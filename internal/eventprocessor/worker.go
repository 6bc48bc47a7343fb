// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/websocket"
)

// Worker owns every NATS component of the analysis pipeline: the optional
// embedded server, the stream, one durable subscriber per kind, the result
// publisher and the router connecting them.
type Worker struct {
	cfg     WorkerConfig
	engine  Engine
	alerter *websocket.Alerter
	logger  watermill.LoggerAdapter

	mu          sync.Mutex
	server      *EmbeddedServer
	conn        *natsgo.Conn
	streams     *StreamInitializer
	publisher   *Publisher
	subscribers []message.Subscriber
	router      *Router
	handlers    map[Kind]*AnalysisHandler
	routerDone  chan struct{}
	running     bool
}

// NewWorker creates a worker. alerter may be nil.
func NewWorker(cfg WorkerConfig, engine Engine, alerter *websocket.Alerter) (*Worker, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	return &Worker{
		cfg:     cfg,
		engine:  engine,
		alerter: alerter,
		logger:  watermill.NewSlogLogger(logging.NewComponentSlogLogger("eventprocessor")),
	}, nil
}

// Start brings up the pipeline and returns once the router is consuming.
// On failure everything started so far is torn down again.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrWorkerRunning
	}

	if err := w.connect(ctx); err != nil {
		w.teardown(context.Background())
		return err
	}

	newSubscriber := func(kind Kind) (message.Subscriber, error) {
		subCfg := w.cfg.Subscriber
		subCfg.DurableName = w.cfg.Subscriber.DurableName + "-" + string(kind)
		subCfg.QueueGroup = w.cfg.Subscriber.QueueGroup + "-" + string(kind)
		return NewSubscriber(&subCfg, w.logger)
	}
	if err := w.wire(newSubscriber, w.publisher); err != nil {
		w.teardown(context.Background())
		return err
	}

	if err := w.runRouter(ctx); err != nil {
		w.teardown(context.Background())
		return err
	}

	w.running = true
	logging.Info().
		Str("url", w.cfg.URL).
		Int("handlers", len(w.handlers)).
		Msg("NATS analysis worker started")
	return nil
}

// connect starts the embedded server if configured, dials NATS, provisions
// the stream and creates the result publisher.
func (w *Worker) connect(ctx context.Context) error {
	if w.cfg.Embedded {
		serverCfg := w.cfg.Server
		srv, err := NewEmbeddedServer(&serverCfg)
		if err != nil {
			return err
		}
		w.server = srv
		w.cfg = w.cfg.withURL(srv.ClientURL())
		logging.Info().Str("url", w.cfg.URL).Msg("Embedded NATS server started")
	}

	nc, err := natsgo.Connect(w.cfg.URL,
		natsgo.Name("threatlens-stream-init"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	w.conn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := w.cfg.Stream
	w.streams, err = NewStreamInitializer(js, &streamCfg)
	if err != nil {
		return fmt.Errorf("create stream initializer: %w", err)
	}
	stream, err := w.streams.EnsureStream(ctx)
	if err != nil {
		return fmt.Errorf("ensure stream exists: %w", err)
	}
	info := stream.CachedInfo()
	logging.Info().
		Str("name", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Dur("max_age", info.Config.MaxAge).
		Msg("JetStream stream ready")

	pub, err := NewPublisher(w.cfg.Publisher, w.logger)
	if err != nil {
		return err
	}
	pub.SetCircuitBreaker(NewCircuitBreaker(w.cfg.CircuitBreaker))
	w.publisher = pub
	return nil
}

// wire creates the router and registers one handler per kind. It only
// depends on Watermill interfaces so it also runs over in-memory pub/sub.
func (w *Worker) wire(newSubscriber func(Kind) (message.Subscriber, error), pub message.Publisher) error {
	routerCfg := w.cfg.Router
	router, err := NewRouter(&routerCfg, pub, w.logger)
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}
	w.router = router
	w.handlers = make(map[Kind]*AnalysisHandler, len(Kinds()))

	for _, kind := range Kinds() {
		h, err := NewAnalysisHandler(kind, w.engine, w.alerter)
		if err != nil {
			return err
		}
		sub, err := newSubscriber(kind)
		if err != nil {
			return fmt.Errorf("create %s subscriber: %w", kind, err)
		}
		w.subscribers = append(w.subscribers, sub)
		w.handlers[kind] = h

		router.AddHandler(
			"analysis-"+string(kind),
			kind.RequestSubject(),
			sub,
			kind.ResultSubject(),
			pub,
			h.Handle,
		)
	}
	return nil
}

// runRouter runs the router in the background and waits until it is
// consuming, failed, or ctx ended.
func (w *Worker) runRouter(ctx context.Context) error {
	router := w.router
	done := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		defer close(done)
		if err := router.Run(context.Background()); err != nil {
			errc <- err
		}
	}()
	w.routerDone = done

	select {
	case <-router.Running():
		return nil
	case err := <-errc:
		return fmt.Errorf("run router: %w", err)
	case <-done:
		return errors.New("router exited before it was running")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops consuming, waits for in-flight messages up to the router's
// close timeout and releases every connection.
func (w *Worker) Shutdown(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.teardown(ctx)
	w.running = false
	logging.Info().Msg("NATS analysis worker stopped")
}

func (w *Worker) teardown(ctx context.Context) {
	if w.router != nil {
		if err := w.router.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing router")
		}
		if w.routerDone != nil {
			select {
			case <-w.routerDone:
			case <-ctx.Done():
			}
		}
		w.router = nil
		w.routerDone = nil
	}
	for _, sub := range w.subscribers {
		if err := sub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing subscriber")
		}
	}
	w.subscribers = nil
	if w.publisher != nil {
		if err := w.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing publisher")
		}
		w.publisher = nil
	}
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	if w.server != nil {
		if err := w.server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error shutting down embedded NATS server")
		}
		w.server = nil
	}
}

// IsRunning reports whether Start succeeded and Shutdown has not run.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Stopped is closed when the router exits. Before Start it is already
// closed.
func (w *Worker) Stopped() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.routerDone == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return w.routerDone
}

// Healthy reports whether the router is consuming and the stream is
// reachable.
func (w *Worker) Healthy(ctx context.Context) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running || w.router == nil || !w.router.IsRunning() {
		return false
	}
	return w.streams == nil || w.streams.IsHealthy(ctx)
}

// Stats returns per-kind handler counters.
func (w *Worker) Stats() map[Kind]HandlerStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	stats := make(map[Kind]HandlerStats, len(w.handlers))
	for kind, h := range w.handlers {
		stats[kind] = h.Stats()
	}
	return stats
}
