// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eternyx/threatlens/internal/detection"
)

// ErrFindings is returned after the report is printed when a result
// reaches the --fail-on level.
var ErrFindings = errors.New("findings at or above the --fail-on level")

var classificationRank = map[detection.Classification]int{
	detection.ClassificationClean:      0,
	detection.ClassificationSuspicious: 1,
	detection.ClassificationMalicious:  2,
}

func parseClassification(s string) (detection.Classification, error) {
	for c := range classificationRank {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("--fail-on: unknown classification %q (want clean, suspicious or malicious)", s)
}

func parseRisk(s string) (detection.RiskLevel, error) {
	for _, r := range []detection.RiskLevel{detection.RiskLow, detection.RiskMedium, detection.RiskHigh, detection.RiskCritical} {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("--fail-on: unknown risk level %q (want low, medium, high or critical)", s)
}

// riskGate returns ErrFindings when got reaches the --fail-on level.
// An empty level never fails.
func riskGate(failOn string, got detection.RiskLevel) error {
	if failOn == "" {
		return nil
	}
	threshold, err := parseRisk(failOn)
	if err != nil {
		return err
	}
	if got.Rank() >= threshold.Rank() {
		return fmt.Errorf("%w: risk %s", ErrFindings, got)
	}
	return nil
}

func newScanCmd(st *state) *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Score files for malware indicators",
		Long: `Score each file with the malware heuristics and print one report per file
with its features and verdict. Use "-" to read a single sample from stdin.`,
		Example: `  threatlens scan ./uploads/*
  threatlens scan --fail-on suspicious dropper.ps1
  cat payload.js | threatlens scan -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var threshold detection.Classification
			if failOn != "" {
				var err error
				if threshold, err = parseClassification(failOn); err != nil {
					return err
				}
			}

			reports := make([]detection.SampleReport, 0, len(args))
			worst := detection.ClassificationClean
			for _, path := range args {
				content, err := readInput(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				name := filepath.Base(path)
				if path == stdinName {
					name = "stdin"
				}
				report, err := st.analyzer.InspectSample(detection.Sample{Name: name, Content: content})
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				reports = append(reports, report)
				if classificationRank[report.Verdict.Classification] > classificationRank[worst] {
					worst = report.Verdict.Classification
				}
			}

			if err := st.formatter.Write(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			if threshold != "" && classificationRank[worst] >= classificationRank[threshold] {
				return fmt.Errorf("%w: %s sample", ErrFindings, strings.ToLower(string(worst)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit with status 2 if any sample is at least this classification (suspicious, malicious)")
	return cmd
}

func newTrafficCmd(st *state) *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "traffic <file>",
		Short: "Find anomalous records in a traffic batch",
		Long: `Analyze a batch of traffic records and report the batch statistics, the
highest scoring anomalies and the overall risk level.

The file holds a JSON or YAML array of records, or an object with a
"records" array. Use "-" to read JSON from stdin.`,
		Example: `  threatlens traffic flows.json
  threatlens simulate traffic --count 200 | threatlens traffic --fail-on high -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readTraffic(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			result, err := st.analyzer.AnalyzeTraffic(records)
			if err != nil {
				return err
			}
			if err := st.formatter.Write(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			return riskGate(failOn, result.RiskLevel)
		},
	}
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit with status 2 if the batch risk is at least this level (low, medium, high)")
	return cmd
}

func newPredictCmd(st *state) *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "predict <file>",
		Short: "Forecast the threat level from event history",
		Long: `Grade the current threat level from recent events and print the 24 hour
and one week outlook with recommendations.

The file holds a JSON or YAML array of events, or an object with an
"events" array. "Recent" is measured from --now.`,
		Example: `  threatlens predict history.yaml
  threatlens predict --now 2026-03-01T12:00:00Z -o yaml history.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := readHistory(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			forecast, err := st.analyzer.PredictThreats(events)
			if err != nil {
				return err
			}
			if err := st.formatter.Write(cmd.OutOrStdout(), forecast); err != nil {
				return err
			}
			return riskGate(failOn, forecast.CurrentLevel)
		},
	}
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit with status 2 if the current level is at least this level (low, medium, high, critical)")
	return cmd
}

func newTrendsCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "trends <file>",
		Short: "Bucket event history and report growth and peaks",
		Long: `Count events per time bucket at the configured granularity and report the
growth rate and peak buckets. Input has the same shape as predict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := readHistory(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			summary, err := st.analyzer.AnalyzeTrends(events)
			if err != nil {
				return err
			}
			return st.formatter.Write(cmd.OutOrStdout(), summary)
		},
	}
}
