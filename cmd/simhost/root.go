package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simhost <data-path> <scenario-path> <rate> <window-width> <window-height> <quality-preset>",
	Short: "Real-time simulation host with on-demand sensor captures",
	Long: "simhost drives a simulation engine at a fixed rate and generates sensor images from random poses on request.\n" +
		"Given the six launch arguments it behaves like \"simhost run\".",
	Args: requireLaunchArgs,
	RunE: runHost,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addRunFlags(rootCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}
