// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/eternyx/threatlens/internal/detection"
)

// stdinName is the path argument that reads standard input.
const stdinName = "-"

// readInput returns the contents of path, or of stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// readDocument reads a JSON or YAML document and returns it as JSON, so
// the engine decoders see the same shape the API accepts.
func readDocument(path string, stdin io.Reader) ([]byte, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
		return out, nil
	default:
		return data, nil
	}
}

func readTraffic(path string, stdin io.Reader) ([]detection.TrafficRecord, error) {
	data, err := readDocument(path, stdin)
	if err != nil {
		return nil, err
	}
	return detection.DecodeTrafficBatch(data)
}

func readHistory(path string, stdin io.Reader) ([]detection.HistoricalEvent, error) {
	data, err := readDocument(path, stdin)
	if err != nil {
		return nil, err
	}
	return detection.DecodeHistory(data)
}
