// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/eternyx/threatlens/internal/metrics"
)

// Publisher wraps a Watermill publisher with a circuit breaker. It
// satisfies message.Publisher so the router can publish results through it.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	serializer     *Serializer
	mu             sync.RWMutex
	closed         bool
	logger         watermill.LoggerAdapter
}

// NewPublisher creates a resilient Watermill NATS publisher.
// The publisher is configured for JetStream with message ID tracking for deduplication.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(nc *natsgo.Conn, sub *natsgo.Subscription, err error) {
			fields := watermill.LogFields{}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			logger.Error("NATS error", err, fields)
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // Stream is pre-created by StreamInitializer
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return WrapPublisher(pub, logger), nil
}

// WrapPublisher adds the circuit breaker and metrics to any Watermill
// publisher.
func WrapPublisher(pub message.Publisher, logger watermill.LoggerAdapter) *Publisher {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Publisher{
		publisher:  pub,
		serializer: NewSerializer(),
		logger:     logger,
	}
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// CircuitState returns the breaker state, or "disabled" without one.
func (p *Publisher) CircuitState() string {
	if p.circuitBreaker == nil {
		return "disabled"
	}
	return CircuitBreakerState(p.circuitBreaker)
}

// Publish sends messages to topic with circuit breaker protection. The
// message UUID is used as Nats-Msg-Id for deduplication if not already set.
func (p *Publisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	for _, msg := range msgs {
		if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
			msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
		}

		var err error
		if p.circuitBreaker != nil {
			_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
				return nil, p.publisher.Publish(topic, msg)
			})
		} else {
			err = p.publisher.Publish(topic, msg)
		}
		if err != nil {
			return fmt.Errorf("publish message %s to %s: %w", msg.UUID, topic, err)
		}
		metrics.RecordNATSPublish()
	}
	return nil
}

// PublishRequest serializes req and publishes it to its kind's request
// subject. Republishing the same request id within the stream's duplicate
// window is dropped by JetStream.
func (p *Publisher) PublishRequest(ctx context.Context, req *Request) error {
	if !req.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	data, err := p.serializer.MarshalRequest(req)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataRequestID, req.RequestID)
	msg.Metadata.Set(MetadataKind, string(req.Kind))
	msg.Metadata.Set(natsgo.MsgIdHdr, "request-"+string(req.Kind)+"-"+req.RequestID)
	msg.SetContext(ctx)

	return p.Publish(req.Kind.RequestSubject(), msg)
}

// Close gracefully shuts down the publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}
