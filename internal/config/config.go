// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package config

import (
	"time"

	"github.com/eternyx/threatlens/internal/detection"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: defaultConfig()
//  2. Config File: config.yaml, or the file named by CONFIG_PATH
//  3. Environment Variables: explicit mappings in envTransformFunc
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	analyzer, err := detection.NewAnalyzer(cfg.Analysis)
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Security  SecurityConfig   `koanf:"security"`
	Logging   LoggingConfig    `koanf:"logging"`
	Analysis  detection.Policy `koanf:"analysis"`
	NATS      NATSConfig       `koanf:"nats"`
	WebSocket WebSocketConfig  `koanf:"websocket"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // per-request handler timeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful drain on stop
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`   // larger request bodies get 413
	Environment     string        `koanf:"environment"`      // "development", "staging" or "production"
}

// SecurityConfig holds CORS and rate-limit settings. There is no
// authentication layer; deploy behind a gateway if one is needed.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// NATSConfig holds the JetStream analysis worker settings.
type NATSConfig struct {
	// Enabled starts the worker. The HTTP API works without it.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer runs an in-process NATS server at URL's port.
	// If false, expects an external NATS server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// StreamRetentionDays is how long requests and results stay in the stream.
	StreamRetentionDays int `koanf:"stream_retention_days"`

	// SubscribersCount is the number of concurrent message processors.
	SubscribersCount int `koanf:"subscribers_count"`

	// DurableName is the consumer durable name for message tracking.
	DurableName string `koanf:"durable_name"`

	// QueueGroup is the queue group for load balancing.
	QueueGroup string `koanf:"queue_group"`

	// RequestsPerSecond throttles request processing. Zero means unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Burst is the token bucket size for RequestsPerSecond.
	Burst int `koanf:"burst"`
}

// WebSocketConfig holds alert stream settings.
type WebSocketConfig struct {
	Enabled        bool          `koanf:"enabled"`
	PingInterval   time.Duration `koanf:"ping_interval"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	SendBuffer     int           `koanf:"send_buffer"`
	MaxMessageSize int64         `koanf:"max_message_size"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// Load reads configuration using Koanf v2 with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
