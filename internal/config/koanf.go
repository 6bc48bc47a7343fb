// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/eternyx/threatlens/internal/detection"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/threatlens/config.yaml",
	"/etc/threatlens/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8088,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    64 << 20, // base64 of a 32MB sample plus envelope
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Analysis: detection.DefaultPolicy(),
		NATS: NATSConfig{
			Enabled:             false,
			URL:                 "nats://127.0.0.1:4222",
			EmbeddedServer:      true,
			StoreDir:            "/data/nats/jetstream",
			MaxMemory:           256 << 20, // 256MB
			MaxStore:            1 << 30,   // 1GB
			StreamRetentionDays: 7,
			SubscribersCount:    4,
			DurableName:         "threatlens-analyzer",
			QueueGroup:          "analyzers",
			RequestsPerSecond:   0, // Unlimited
			Burst:               50,
		},
		WebSocket: WebSocketConfig{
			Enabled:        true,
			PingInterval:   54 * time.Second,
			WriteTimeout:   10 * time.Second,
			SendBuffer:     256,
			MaxMessageSize: 512,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
// Configuration is loaded in the following order (later sources override earlier):
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file instead of the
// search path. The file must exist.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return loadFrom(path)
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port
	// ANALYSIS_ANOMALY_THRESHOLD -> analysis.traffic.anomaly_threshold
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ConfigFile returns the config file Load reads, or "" when none exists.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"analysis.traffic.allowed_protocols",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Suspicious patterns and the file-type table are file-only settings.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",
	"environment":           "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Analysis policy
	"analysis_max_batch_size":            "analysis.max_batch_size",
	"analysis_max_sample_bytes":          "analysis.max_sample_bytes",
	"analysis_malicious_threshold":       "analysis.malware.malicious_threshold",
	"analysis_suspicious_threshold":      "analysis.malware.suspicious_threshold",
	"analysis_obfuscation_entropy":       "analysis.malware.obfuscation_entropy",
	"analysis_anomaly_threshold":         "analysis.traffic.anomaly_threshold",
	"analysis_allowed_protocols":         "analysis.traffic.allowed_protocols",
	"analysis_protocol_case_insensitive": "analysis.traffic.protocol_case_insensitive",
	"analysis_frequency_threshold":       "analysis.traffic.frequency_threshold",
	"analysis_max_reported_anomalies":    "analysis.traffic.max_reported_anomalies",
	"analysis_trend_granularity":         "analysis.trends.granularity",
	"analysis_trend_timezone":            "analysis.trends.timezone",
	"analysis_trend_lookback":            "analysis.trends.lookback",
	"analysis_trend_critical_events":     "analysis.trends.critical_events",
	"analysis_trend_high_events":         "analysis.trends.high_events",
	"analysis_trend_medium_events":       "analysis.trends.medium_events",
	"analysis_trend_increasing_growth":   "analysis.trends.increasing_growth",
	"analysis_trend_escalation_growth":   "analysis.trends.escalation_growth",

	// NATS
	"nats_enabled":             "nats.enabled",
	"nats_url":                 "nats.url",
	"nats_embedded":            "nats.embedded_server",
	"nats_store_dir":           "nats.store_dir",
	"nats_max_memory":          "nats.max_memory",
	"nats_max_store":           "nats.max_store",
	"nats_retention_days":      "nats.stream_retention_days",
	"nats_subscribers":         "nats.subscribers_count",
	"nats_durable_name":        "nats.durable_name",
	"nats_queue_group":         "nats.queue_group",
	"nats_requests_per_second": "nats.requests_per_second",
	"nats_burst":               "nats.burst",

	// WebSocket
	"websocket_enabled":       "websocket.enabled",
	"websocket_ping_interval": "websocket.ping_interval",
	"websocket_write_timeout": "websocket.write_timeout",
	"websocket_send_buffer":   "websocket.send_buffer",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - NATS_URL -> nats.url
//   - ANALYSIS_TREND_GRANULARITY -> analysis.trends.granularity
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to configuration
// replaced in callback.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
