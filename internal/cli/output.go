// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Formatter writes a result document.
type Formatter interface {
	Write(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format ("json" or "yaml").
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return JSONFormatter{}, nil
	case "yaml", "yml":
		return YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// JSONFormatter writes indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Write(w io.Writer, data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("format JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// YAMLFormatter writes YAML with the same keys and field order as the
// JSON output.
type YAMLFormatter struct{}

func (YAMLFormatter) Write(w io.Writer, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("format YAML: %w", err)
	}
	// JSON is valid YAML, so parsing it keeps key order and scalar tags
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("format YAML: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("format YAML: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles inherited from JSON.
// The encoder still quotes strings that would otherwise change type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
