// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eternyx/threatlens/internal/detection"
)

type simulateOptions struct {
	count   int
	seed    uint64
	analyze bool
}

// seedOrClock returns the --seed value when set, otherwise a clock seed.
func (o *simulateOptions) seedOrClock(cmd *cobra.Command) uint64 {
	if cmd.Flags().Changed("seed") {
		return o.seed
	}
	return uint64(time.Now().UnixNano())
}

func newSimulateCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate synthetic traffic or event history",
		Long: `Generate plausible demo data. The output can be piped back into the
traffic, trends and predict commands, or analyzed directly with --analyze.
A fixed --seed makes the output reproducible together with --now.`,
	}
	cmd.AddCommand(newSimulateTrafficCmd(st), newSimulateHistoryCmd(st))
	return cmd
}

func (o *simulateOptions) bind(cmd *cobra.Command, defaultCount int) {
	cmd.Flags().IntVarP(&o.count, "count", "n", defaultCount, "number of items to generate")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "random seed (default: derived from the clock)")
	cmd.Flags().BoolVar(&o.analyze, "analyze", false, "print the analysis of the generated data instead of the data")
}

func (o *simulateOptions) validate() error {
	if o.count < 0 {
		return fmt.Errorf("--count must not be negative, got %d", o.count)
	}
	return nil
}

func newSimulateTrafficCmd(st *state) *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Generate synthetic traffic records spread over the last 24 hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			rng := detection.NewSeededRand(opts.seedOrClock(cmd))
			records := detection.SyntheticTraffic(rng, st.now, opts.count)
			if !opts.analyze {
				return st.formatter.Write(cmd.OutOrStdout(), records)
			}
			result, err := st.analyzer.AnalyzeTraffic(records)
			if err != nil {
				return err
			}
			return st.formatter.Write(cmd.OutOrStdout(), result)
		},
	}
	opts.bind(cmd, 100)
	return cmd
}

func newSimulateHistoryCmd(st *state) *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Generate synthetic events one hour apart, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			rng := detection.NewSeededRand(opts.seedOrClock(cmd))
			events := detection.SyntheticHistory(rng, st.now, opts.count)
			if !opts.analyze {
				return st.formatter.Write(cmd.OutOrStdout(), events)
			}
			forecast, err := st.analyzer.PredictThreats(events)
			if err != nil {
				return err
			}
			return st.formatter.Write(cmd.OutOrStdout(), forecast)
		},
	}
	opts.bind(cmd, 200)
	return cmd
}
