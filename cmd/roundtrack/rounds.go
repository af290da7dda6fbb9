package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/migrationtools/roundtrack/internal/analysis"
	"github.com/migrationtools/roundtrack/internal/kantra"
)

var roundsCmd = &cobra.Command{
	Use:   "rounds [workspace]",
	Short: "List the analysis rounds found in a workspace",
	Long: `List the round directories discovered in a workspace, in
chronological order, with each round's issue and incident counts.

Examples:
  roundtrack rounds
  roundtrack rounds /path/to/.migration-workspace`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		workspace := defaultWorkspace
		if len(args) > 0 {
			workspace = args[0]
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		rounds, warnings := analysis.DiscoverRounds(workspace)
		if len(rounds) == 0 {
			fmt.Printf("%s No rounds found in %s\n", yellow("⚠"), workspace)
			printWarnings(warnings)
			return
		}

		snapshots, loadWarnings := analysis.LoadRounds(context.Background(), rounds,
			kantra.Load, analysis.DefaultOptions().Jobs)
		warnings = append(warnings, loadWarnings...)

		fmt.Printf("%s %d round(s) in %s:\n\n", cyan("▶"), len(rounds), workspace)
		for _, rs := range snapshots {
			stamp := rs.Round.Timestamp.Format("2006-01-02 15:04:05")
			if rs.Snapshot == nil {
				fmt.Printf("%s  %s  %s\n", stamp, rs.Round.Name, yellow("no valid snapshot"))
				continue
			}
			fmt.Printf("%s  %s  %s %d issues, %d incidents\n",
				stamp, rs.Round.Name, green("✓"),
				len(rs.Snapshot.Issues), rs.Snapshot.TotalIncidents)
		}
		fmt.Println()

		printWarnings(warnings)
	},
}

func init() {
	rootCmd.AddCommand(roundsCmd)
}
