// Package cmd implements the nocsim command line tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "nocsim",
	Short: "nocsim runs synthetic traffic through an on-chip network model.",
	Long: `nocsim runs trials of synthetic traffic through an on-chip network
model and reports packet, network, and flit latencies and throughput per
traffic class.`,
}

// Execute runs the root command. The handlers registered with atexit run
// before the process exits.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
