// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eternyx/threatlens/internal/config"
	"github.com/eternyx/threatlens/internal/detection"
	"github.com/eternyx/threatlens/internal/logging"
)

// Exit codes returned by Execute.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitFindings = 2
)

// state is shared by every subcommand of one invocation.
type state struct {
	version      string
	cfgFile      string
	outputFormat string
	nowFlag      string
	verbose      bool

	analyzer  *detection.Analyzer
	formatter Formatter
	now       time.Time
}

// NewRootCmd builds the command tree. Each call returns an independent
// tree, so tests can run commands side by side.
func NewRootCmd(version string) *cobra.Command {
	st := &state{version: version}

	root := &cobra.Command{
		Use:   "threatlens",
		Short: "ThreatLens CLI: score samples, traffic and threat history offline",
		Long: `threatlens runs the ThreatLens heuristic engine locally, without a server.

It scores files for malware indicators, flags anomalous records in traffic
exports, buckets historical events and forecasts threat levels. The scoring
policy comes from the same configuration the server reads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&st.cfgFile, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	flags.StringVarP(&st.outputFormat, "output", "o", "json", "output format: json, yaml")
	flags.StringVar(&st.nowFlag, "now", "", "reference time for trends and forecasts (RFC 3339, default: current time)")
	flags.BoolVarP(&st.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(
		newScanCmd(st),
		newTrafficCmd(st),
		newPredictCmd(st),
		newTrendsCmd(st),
		newSimulateCmd(st),
		newModelsCmd(st),
		newPolicyCmd(st),
		newVersionCmd(st),
	)
	return root
}

// setup loads the policy and builds the analyzer and formatter.
func (st *state) setup(stderr io.Writer) error {
	level := "warn"
	if st.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: stderr})

	formatter, err := NewFormatter(st.outputFormat)
	if err != nil {
		return err
	}
	st.formatter = formatter

	st.now = time.Now()
	if st.nowFlag != "" {
		st.now, err = time.Parse(time.RFC3339, st.nowFlag)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
	}

	var cfg *config.Config
	source := st.cfgFile
	if source != "" {
		cfg, err = config.LoadFile(source)
	} else {
		source = config.ConfigFile()
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	now := st.now
	st.analyzer, err = detection.NewAnalyzer(cfg.Analysis, detection.WithClock(func() time.Time { return now }))
	if err != nil {
		return fmt.Errorf("failed to build analyzer: %w", err)
	}
	logging.Debug().Str("config", source).Time("now", now).Msg("Analyzer ready")
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string, args []string) int {
	root := NewRootCmd(version)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, ErrFindings) {
			return ExitFindings
		}
		return ExitError
	}
	return ExitOK
}
