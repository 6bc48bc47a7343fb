// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateAnalysis,
		c.validateNATS,
		c.validateWebSocket,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// Server limit constants
const (
	minBodyBytes   = 1 << 10 // 1KB
	minTimeout     = time.Second
	maxTimeout     = 10 * time.Minute
	minShutdown    = time.Second
	maxShutdown    = 5 * time.Minute
	defaultEnvName = "development"
)

// validEnvironments defines the allowed deployment environments
var validEnvironments = map[string]bool{
	"development": true,
	"dev":         true,
	"staging":     true,
	"production":  true,
	"prod":        true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout < minTimeout || c.Server.Timeout > maxTimeout {
		return fmt.Errorf("HTTP_TIMEOUT must be between %v and %v", minTimeout, maxTimeout)
	}
	if c.Server.ShutdownTimeout < minShutdown || c.Server.ShutdownTimeout > maxShutdown {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be between %v and %v", minShutdown, maxShutdown)
	}
	if c.Server.MaxBodyBytes < minBodyBytes {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be at least %d", minBodyBytes)
	}
	env := strings.ToLower(c.Server.Environment)
	if env == "" {
		c.Server.Environment = defaultEnvName
	} else if !validEnvironments[env] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// validateSecurity validates CORS and rate limiting configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects malformed origins, and a wildcard in production.
func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if err := validateOriginURL(origin); err != nil {
			return fmt.Errorf("CORS_ORIGINS entry %q is invalid: %w", origin, err)
		}
	}
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed when ENVIRONMENT=production. " +
			"Set specific origins: CORS_ORIGINS=https://soc.example.com,https://app.example.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS() && !c.IsDevelopment()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// validateAnalysis delegates to the policy's own struct validation.
func (c *Config) validateAnalysis() error {
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis policy: %w", err)
	}
	return nil
}

// NATS limit constants
const (
	natsMinMemory      = 64 * 1024 * 1024  // 64MB
	natsMinStore       = 100 * 1024 * 1024 // 100MB
	natsMaxRetention   = 365
	natsMinRetention   = 1
	natsMaxSubscribers = 32
)

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}

	switch {
	case c.NATS.EmbeddedServer && c.NATS.MaxMemory < natsMinMemory:
		return fmt.Errorf("NATS_MAX_MEMORY must be at least 64MB (67108864 bytes)")
	case c.NATS.EmbeddedServer && c.NATS.MaxStore < natsMinStore:
		return fmt.Errorf("NATS_MAX_STORE must be at least 100MB (104857600 bytes)")
	case c.NATS.StreamRetentionDays < natsMinRetention || c.NATS.StreamRetentionDays > natsMaxRetention:
		return fmt.Errorf("NATS_RETENTION_DAYS must be between 1 and 365")
	case c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > natsMaxSubscribers:
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and 32")
	case c.NATS.DurableName == "":
		return fmt.Errorf("NATS_DURABLE_NAME is required when NATS_ENABLED=true")
	case c.NATS.RequestsPerSecond < 0:
		return fmt.Errorf("NATS_REQUESTS_PER_SECOND must not be negative")
	case c.NATS.RequestsPerSecond > 0 && c.NATS.Burst < 1:
		return fmt.Errorf("NATS_BURST must be at least 1 when throttling is enabled")
	}
	return nil
}

// validateWebSocket validates the alert stream settings (only if enabled)
func (c *Config) validateWebSocket() error {
	if !c.WebSocket.Enabled {
		return nil
	}
	if c.WebSocket.PingInterval <= 0 || c.WebSocket.WriteTimeout <= 0 {
		return fmt.Errorf("WEBSOCKET_PING_INTERVAL and WEBSOCKET_WRITE_TIMEOUT must be positive")
	}
	if c.WebSocket.SendBuffer < 1 {
		return fmt.Errorf("WEBSOCKET_SEND_BUFFER must be at least 1")
	}
	if c.WebSocket.MaxMessageSize < 1 {
		return fmt.Errorf("websocket.max_message_size must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
