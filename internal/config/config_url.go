// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// validateNATSURL validates that the NATS URL is properly formatted
// Supports: nats://, tls://, and ws:// schemes with IP addresses/hostnames and optional ports
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, 192.168.1.100:4222, nats.example.com)")
	}

	return nil
}

// validateOriginURL validates a CORS origin. Origins carry a scheme and host
// and nothing else.
func validateOriginURL(origin string) error {
	if origin == "*" {
		return nil
	}
	parsedURL, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required")
	}
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("origin should not contain a path: %s", parsedURL.Path)
	}
	return nil
}

// NATSPort extracts the port from the NATS URL, defaulting to 4222.
func (c *NATSConfig) NATSPort() int {
	parsedURL, err := url.Parse(c.URL)
	if err != nil || parsedURL.Port() == "" {
		return 4222
	}
	port, err := strconv.Atoi(parsedURL.Port())
	if err != nil {
		return 4222
	}
	return port
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
