package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/migrationtools/roundtrack/internal/analysis"
)

const defaultWorkspace = ".migration-workspace"

var analyzeCmd = &cobra.Command{
	Use:   "analyze [workspace]",
	Short: "Analyze issues that persist across migration rounds",
	Long: `Analyze issues that persist across multiple analysis rounds.

Scans the workspace for round directories, follows every issue across
rounds, and reports the ones that appear in at least --min-rounds rounds
together with their trend and a prioritized recommendation set.

Examples:
  # Analyze the default workspace
  roundtrack analyze

  # Analyze a specific workspace with a lower persistence bar
  roundtrack analyze /path/to/.migration-workspace --min-rounds 2

  # Tighten the high-impact thresholds
  roundtrack analyze --incidents 10 --files 5`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		workspace := defaultWorkspace
		if len(args) > 0 {
			workspace = args[0]
		}

		opts := analysis.DefaultOptions()
		opts.MinRounds, _ = cmd.Flags().GetInt("min-rounds")
		opts.IncidentThreshold, _ = cmd.Flags().GetInt("incidents")
		opts.FileThreshold, _ = cmd.Flags().GetInt("files")
		opts.Jobs, _ = cmd.Flags().GetInt("jobs")
		verbose, _ := cmd.Flags().GetBool("verbose")

		result, err := analysis.Analyze(context.Background(), workspace, opts)
		if err != nil {
			red := color.New(color.FgRed).SprintFunc()
			var insufficient *analysis.InsufficientRoundsError
			if errors.As(err, &insufficient) {
				fmt.Fprintf(os.Stderr, "%s Need at least %d rounds to analyze persistence.\n",
					red("✗"), insufficient.Need)
				fmt.Fprintf(os.Stderr, "Found %d valid round(s) in %s.\n", insufficient.Have, workspace)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		renderAnalysis(result, opts, verbose)
	},
}

func init() {
	analyzeCmd.Flags().Int("min-rounds", 3, "Minimum rounds for an issue to be considered persistent")
	analyzeCmd.Flags().Int("incidents", 5, "Incident count at which a persistent issue is high-impact")
	analyzeCmd.Flags().Int("files", 3, "Affected-file count at which a persistent issue is high-impact")
	analyzeCmd.Flags().Int("jobs", 4, "Snapshot loads to run concurrently")
	analyzeCmd.Flags().BoolP("verbose", "v", false, "Show per-round history and affected files for every issue")

	rootCmd.AddCommand(analyzeCmd)
}

func renderAnalysis(result *analysis.AnalysisResult, opts analysis.Options, verbose bool) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	rule := strings.Repeat("═", 70)

	fmt.Println(rule)
	fmt.Println(cyan("PERSISTENT ISSUES ANALYSIS"))
	fmt.Println(rule)
	fmt.Printf("Workspace: %s\n", result.Workspace)
	fmt.Printf("Rounds analyzed: %d\n", len(result.Rounds))
	fmt.Printf("Persistence threshold: %d+ rounds\n\n", opts.MinRounds)

	fmt.Println(cyan("ROUND SUMMARY"))
	fmt.Println(strings.Repeat("─", 40))
	for _, round := range result.Rounds {
		fmt.Printf("%s: %d issues, %d incidents\n", round.Name, round.UniqueIssues, round.TotalIncidents)
	}
	fmt.Println()

	if len(result.Persistent) == 0 {
		fmt.Printf("%s No persistent issues found!\n", green("✓"))
		fmt.Printf("All issues were resolved within %d round(s).\n", opts.MinRounds-1)
		printWarnings(result.Warnings)
		return
	}

	fmt.Printf("%s Found %d issue(s) persisting %d+ rounds\n\n",
		yellow("⚠"), len(result.Persistent), opts.MinRounds)

	for _, issue := range result.Persistent {
		renderPersistentIssue(issue, verbose)
	}

	renderRecommendations(result.Recs)
	printWarnings(result.Warnings)
}

func renderPersistentIssue(issue analysis.PersistentIssue, verbose bool) {
	cyan := color.New(color.FgCyan).SprintFunc()

	latest := issue.Timeline.Latest().Record
	fmt.Printf("%s %s\n", cyan("▶"), issue.ID)
	fmt.Printf("  Description: %s\n", latest.Description)
	fmt.Printf("  Category: %s\n", latest.Category)
	fmt.Printf("  Effort level: %s\n", latest.Effort)
	fmt.Printf("  Ruleset: %s\n", latest.Ruleset)
	fmt.Printf("  Persistence: %d rounds\n", issue.Timeline.Persistence())

	if verbose {
		fmt.Println("  History:")
		for _, obs := range issue.Timeline {
			fmt.Printf("    %s: %d incidents, %d files\n",
				obs.Round.Name, obs.Record.IncidentCount, len(obs.Record.FilesAffected))
		}
		if len(latest.FilesAffected) > 0 {
			fmt.Println("  Current files affected:")
			files := append([]string(nil), latest.FilesAffected...)
			sort.Strings(files)
			for _, f := range files {
				fmt.Printf("    - %s\n", f)
			}
		}
	}

	fmt.Printf("  Trend: %s (%d → %d incidents)\n\n",
		trendLabel(issue.Trend),
		issue.Timeline.First().Record.IncidentCount,
		issue.Timeline.Latest().Record.IncidentCount)
}

func renderRecommendations(recs analysis.Recommendations) {
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Println(cyan("RECOMMENDATIONS"))
	fmt.Println(strings.Repeat("─", 40))

	fmt.Printf("1. High impact issues (%d found):\n", len(recs.HighImpact))
	for _, hi := range recs.HighImpact {
		fmt.Printf("   - %s: %d incidents, %d files\n", hi.ID, hi.IncidentCount, hi.FileCount)
	}

	fmt.Println("\n2. By category:")
	for _, group := range recs.ByCategory {
		fmt.Printf("   - %s: %d issue(s)\n", group.Key, len(group.IssueIDs))
	}

	fmt.Println("\n3. By effort level:")
	for _, group := range recs.ByEffort {
		fmt.Printf("   - level %s: %d issue(s)\n", group.Key, len(group.IssueIDs))
	}

	fmt.Println("\n4. Suggested actions:")
	fmt.Println("   - Review fix strategies for high-effort issues (may need manual intervention)")
	fmt.Println("   - Focus on mandatory category issues first")
	fmt.Println("   - Consider whether high-impact issues need a different migration approach")
	fmt.Println("   - Check whether persistently affected files have complex dependencies")
	fmt.Println()
}
