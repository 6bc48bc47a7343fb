// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newModelsCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the detection models and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.formatter.Write(cmd.OutOrStdout(), st.analyzer.Models())
		},
	}
}

func newPolicyCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective scoring policy",
		Long: `Print the scoring policy after defaults, the config file and environment
overrides are applied. Useful to check what the server would use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.formatter.Write(cmd.OutOrStdout(), st.analyzer.Policy())
		},
	}
}

func newVersionCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version needs neither config nor analyzer
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "threatlens %s (%s, %s/%s)\n", st.version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
