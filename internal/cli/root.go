// Package cli wires the latrec commands together.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "latrec",
	Short:   "Record and convert binary latency logs",
	Version: version,
	Long: `Latrec captures per-event latency measurements into a compact
append-only binary log during execution, and converts that log offline
into a CSV report with rank-based percentile statistics.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. The binary's main exits non-zero when
// it returns an error.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(convertCmd)
	RootCmd.AddCommand(recordCmd)
}
