package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"simhost/internal/record"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a capture log file",
	Long:  "replay feeds capture rows from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		ws, err := baseWriters(replayPrintOnly)
		if err != nil {
			return err
		}
		n, err := record.ReplayLogFile(replayInput, ws.capture, replaySpeed)
		if err != nil {
			return fmt.Errorf("replay stopped after %d rows: %w", n, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "replayed %d captures\n", n)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to capture log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (0 = no delay)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print captures to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
