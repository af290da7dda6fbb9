package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "roundtrack",
	Short: "Track persistent issues across migration analysis rounds",
	Long: `roundtrack examines the timestamped round directories an automated
migration loop leaves behind and identifies the issues the loop is
struggling to fix: which reported issues persist across rounds, whether
they are trending up or down, and which ones deserve manual attention.

Each round directory (round_YYYYMMDD_HHMMSS) holds one Kantra analysis
snapshot. roundtrack never modifies the workspace; every run recomputes
its results from the snapshots on disk.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
