// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package config provides centralized configuration management for ThreatLens.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then explicitly mapped environment variables. Unmapped environment
variables are ignored.

# Configuration Sources

  - config.yaml / config.yml in the working directory, /etc/threatlens/,
    or the path named by CONFIG_PATH
  - Environment variables (highest priority)

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts, request body limit
  - SecurityConfig: CORS origins and per-IP rate limiting
  - LoggingConfig: zerolog level, format and caller info
  - Analysis (detection.Policy): every weight and threshold the engine uses
  - NATSConfig: JetStream analysis worker and optional embedded server
  - WebSocketConfig: alert stream keepalive and buffering

# Environment Variables

Server:
  - HTTP_PORT: Listen port (default: 8088)
  - HTTP_HOST: Listen address (default: 0.0.0.0)
  - HTTP_TIMEOUT: Per-request timeout (default: 30s)
  - HTTP_MAX_BODY_BYTES: Request body limit (default: 64MB)
  - ENVIRONMENT: development, staging or production

Security:
  - CORS_ORIGINS: Comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Per-IP budget (default: 100 per 1m)
  - DISABLE_RATE_LIMIT: Turn rate limiting off

Analysis:
  - ANALYSIS_ANOMALY_THRESHOLD: Traffic anomaly cutoff (default: 0.8)
  - ANALYSIS_ALLOWED_PROTOCOLS: Comma-separated protocols (default: HTTP,HTTPS,TCP,UDP)
  - ANALYSIS_PROTOCOL_CASE_INSENSITIVE: Match protocols ignoring case (default: false)
  - ANALYSIS_TREND_GRANULARITY: hour_of_day, day_of_month, day_of_week, hourly, daily
  - ANALYSIS_TREND_TIMEZONE: IANA zone used for calendar buckets (default: UTC)
  - ANALYSIS_MAX_BATCH_SIZE: Largest accepted traffic or history batch

NATS:
  - NATS_ENABLED: Start the JetStream worker (default: false)
  - NATS_URL: Server URL (default: nats://127.0.0.1:4222)
  - NATS_EMBEDDED: Run an in-process server (default: true)
  - NATS_REQUESTS_PER_SECOND: Worker throttle, 0 for unlimited

Suspicious token patterns and the file-type table are only settable from the
config file:

	analysis:
	  malware:
	    suspicious_patterns: ['eval\s*\(', 'powershell\s+-enc']
	    file_types:
	      ps1: PowerShell Script

# Validation

Load() returns an error when a value is out of range, an origin or NATS URL is
malformed, a wildcard CORS origin is used in production, or the analysis policy
fails its own validation.

# Thread Safety

The Config struct is not modified after Load() returns and can be shared
between goroutines.
*/
package config
