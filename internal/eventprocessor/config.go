// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package eventprocessor

import (
	"time"

	"github.com/eternyx/threatlens/internal/config"
)

// StreamName is the JetStream stream holding analysis requests and results.
const StreamName = "ANALYSIS"

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns defaults for the embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 1 << 30,   // 1GB
	}
}

// PublisherConfig holds result publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds request subscriber configuration.
type SubscriberConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
	// StreamName binds the subscriber to an existing stream and disables
	// watermill's auto provisioning.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		DurableName:      "threatlens-analyzer",
		QueueGroup:       "analyzers",
		SubscribersCount: 4,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,   // Max redelivery attempts
		MaxAckPending:    256, // Flow control
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		StreamName:       StreamName,
	}
}

// StreamConfig defines analysis stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns production stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            StreamName,
		Subjects:        []string{SubjectWildcard},
		MaxAge:          7 * 24 * time.Hour,
		MaxBytes:        1 << 30, // 1GB
		MaxMsgs:         -1,      // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}

// WorkerConfig gathers everything the analysis worker needs to start.
type WorkerConfig struct {
	// URL of an external server. Ignored when Embedded is set.
	URL      string
	Embedded bool

	Server         ServerConfig
	Publisher      PublisherConfig
	Subscriber     SubscriberConfig
	Stream         StreamConfig
	Router         RouterConfig
	CircuitBreaker CircuitBreakerConfig
}

// NewWorkerConfig derives the worker settings from the application's NATS section.
func NewWorkerConfig(cfg config.NATSConfig) WorkerConfig {
	server := DefaultServerConfig()
	server.Port = cfg.NATSPort()
	server.StoreDir = cfg.StoreDir
	server.JetStreamMaxMem = cfg.MaxMemory
	server.JetStreamMaxStore = cfg.MaxStore

	sub := DefaultSubscriberConfig(cfg.URL)
	sub.DurableName = cfg.DurableName
	sub.QueueGroup = cfg.QueueGroup
	sub.SubscribersCount = cfg.SubscribersCount

	stream := DefaultStreamConfig()
	stream.MaxAge = time.Duration(cfg.StreamRetentionDays) * 24 * time.Hour

	router := DefaultRouterConfig()
	router.ThrottlePerSecond = cfg.RequestsPerSecond
	router.ThrottleBurst = cfg.Burst

	return WorkerConfig{
		URL:            cfg.URL,
		Embedded:       cfg.EmbeddedServer,
		Server:         server,
		Publisher:      DefaultPublisherConfig(cfg.URL),
		Subscriber:     sub,
		Stream:         stream,
		Router:         router,
		CircuitBreaker: DefaultCircuitBreakerConfig("nats-publisher"),
	}
}

// withURL points the client configs at url, used once an embedded server
// has reported its actual address.
func (c WorkerConfig) withURL(url string) WorkerConfig {
	c.URL = url
	c.Publisher.URL = url
	c.Subscriber.URL = url
	return c
}
