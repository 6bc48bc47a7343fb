// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

/*
Package cli implements the threatlens command line tool on top of cobra.

Every command runs the analysis engine in process with the scoring policy
the server would load (defaults, config file, environment), so results
match the HTTP API for the same input.

Commands:

	scan <file>...        malware verdicts per file
	traffic <file>        anomaly detection over a traffic batch
	trends <file>         event counts per time bucket
	predict <file>        threat level forecast
	simulate traffic      synthetic traffic records
	simulate history      synthetic event history
	models                detection model catalog
	policy                effective scoring policy
	version               build information

Results are written as JSON or, with -o yaml, as YAML. The --fail-on flag
of scan, traffic and predict turns a finding into exit status 2 so the
tool can gate CI pipelines.
*/
package cli
