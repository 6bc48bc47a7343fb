// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

// Command threatlens is the offline command-line front end of the
// ThreatLens engine.
//
//	threatlens scan --fail-on malicious ./uploads/*
//	threatlens simulate traffic --seed 7 | threatlens traffic -
//	threatlens predict -o yaml history.json
package main

import (
	"os"

	"github.com/eternyx/threatlens/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(cli.Execute(version, os.Args[1:]))
}
