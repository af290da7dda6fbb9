package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/migrationtools/roundtrack/internal/kantra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect a single Kantra output snapshot",
	Long: `Inspect one Kantra output.yaml snapshot without any cross-round
analysis: summarize its issues, list the files it touches, or show every
occurrence within a specific file.`,
}

var snapshotSummaryCmd = &cobra.Command{
	Use:   "summary <output.yaml>",
	Short: "Summarize all issues in a snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, warnings := loadSnapshotOrDie(args[0])

		rule := strings.Repeat("═", 70)
		fmt.Println(rule)
		fmt.Println("KANTRA MIGRATION ISSUES SUMMARY")
		fmt.Println(rule)
		fmt.Printf("%-40s %-8s %s\n", "Rule ID", "Files", "Description")
		fmt.Println(strings.Repeat("─", 70))

		totalIssues := 0
		allFiles := make(map[string]struct{})
		for _, rs := range doc {
			for _, v := range rs.Violations {
				files := make(map[string]struct{})
				for _, in := range v.Incidents {
					if path, ok := in.FilePath(); ok {
						files[path] = struct{}{}
						allFiles[path] = struct{}{}
					}
				}
				totalIssues++
				fmt.Printf("%-40s %-8d %s\n", v.RuleID, len(files), v.Description)
			}
		}

		fmt.Println(rule)
		fmt.Printf("TOTAL: %d issues across %d files\n", totalIssues, len(allFiles))
		if totalIssues == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s No migration issues found in the analysis results.\n", green("✓"))
		}
		printSnapshotWarnings(warnings)
	},
}

var snapshotFilesCmd = &cobra.Command{
	Use:   "files <output.yaml>",
	Short: "List every file with issues, with incident counts",
	Run: func(cmd *cobra.Command, args []string) {
		doc, warnings := loadSnapshotOrDie(args[0])

		counts := countFileIncidents(doc)
		paths := make([]string, 0, len(counts))
		for path := range counts {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		fmt.Println("FILES WITH MIGRATION ISSUES")
		fmt.Println(strings.Repeat("─", 70))
		if len(paths) == 0 {
			fmt.Println("No files with migration issues found.")
		}
		for _, path := range paths {
			fmt.Printf("%3d incidents | %s\n", counts[path], path)
		}
		fmt.Println(strings.Repeat("─", 70))
		fmt.Printf("TOTAL: %d files have migration issues\n", len(paths))
		printSnapshotWarnings(warnings)
	},
	Args: cobra.ExactArgs(1),
}

var snapshotFileCmd = &cobra.Command{
	Use:   "file <output.yaml> <target-file>",
	Short: "Show every issue occurring in one file",
	Long: `Show every issue with occurrences in the target file, including line
numbers, messages, and code previews. The target matches by exact path
or by path suffix, so a bare filename like pom.xml works.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[1]
		if strings.TrimSpace(target) == "" {
			fmt.Fprintln(os.Stderr, "Error: target file name cannot be empty")
			os.Exit(1)
		}

		doc, warnings := loadSnapshotOrDie(args[0])
		matches := collectFileIssues(doc, target)

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("ISSUES IN FILE: %s\n", target)
		fmt.Println(strings.Repeat("═", 70))

		if len(matches) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s No issues found for file: %s\n", yellow("⚠"), target)
			fmt.Println("Tip: try just the filename (e.g. pom.xml) if the full path does not match.")
			printSnapshotWarnings(warnings)
			return
		}

		for i, match := range matches {
			fmt.Printf("\n%s Issue %d: %s\n", cyan("▶"), i+1, match.Violation.RuleID)
			fmt.Printf("  Ruleset: %s\n", match.Ruleset)
			fmt.Printf("  Category: %s\n", match.Violation.Category)
			fmt.Printf("  Effort: %s\n", match.Violation.Effort)
			fmt.Printf("  Description: %s\n", match.Violation.Description)

			for j, in := range match.Incidents {
				fmt.Printf("\n  Occurrence %d:\n", j+1)
				if in.LineNumber > 0 {
					fmt.Printf("    Line: %d\n", in.LineNumber)
				}
				if in.Message != "" {
					fmt.Printf("    Message: %s\n", in.Message)
				}
				for _, line := range snippetPreview(in.CodeSnip, 5) {
					fmt.Printf("      %s\n", line)
				}
			}
		}

		fmt.Println()
		fmt.Println(strings.Repeat("═", 70))
		fmt.Printf("TOTAL: %d issues found in %s\n", len(matches), target)
		printSnapshotWarnings(warnings)
	},
}

// fileIssueMatch is one violation restricted to the occurrences that hit
// the target file.
type fileIssueMatch struct {
	Ruleset   string
	Violation kantra.Violation
	Incidents []kantra.Incident
}

// matchesTarget reports whether an affected-file path refers to the
// requested target: exact match or path-suffix match, so bare filenames
// work without the full path.
func matchesTarget(path, target string) bool {
	return path == target || strings.HasSuffix(path, target)
}

// collectFileIssues filters a snapshot down to the issues touching one
// file, in document order.
func collectFileIssues(doc kantra.Document, target string) []fileIssueMatch {
	var matches []fileIssueMatch
	for _, rs := range doc {
		for _, v := range rs.Violations {
			var hits []kantra.Incident
			for _, in := range v.Incidents {
				if path, ok := in.FilePath(); ok && matchesTarget(path, target) {
					hits = append(hits, in)
				}
			}
			if len(hits) > 0 {
				matches = append(matches, fileIssueMatch{
					Ruleset:   rs.Name,
					Violation: v,
					Incidents: hits,
				})
			}
		}
	}
	return matches
}

// countFileIncidents tallies incidents per affected file across the
// whole snapshot.
func countFileIncidents(doc kantra.Document) map[string]int {
	counts := make(map[string]int)
	for _, rs := range doc {
		for _, v := range rs.Violations {
			for _, in := range v.Incidents {
				if path, ok := in.FilePath(); ok {
					counts[path]++
				}
			}
		}
	}
	return counts
}

// snippetPreview returns up to maxLines non-blank-trimmed lines of a code
// snippet, with a truncation marker when the snippet is longer.
func snippetPreview(snippet string, maxLines int) []string {
	if strings.TrimSpace(snippet) == "" {
		return nil
	}
	lines := strings.Split(snippet, "\n")
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(out) == maxLines {
			out = append(out, "... (truncated)")
			break
		}
		out = append(out, line)
	}
	return out
}

func init() {
	snapshotCmd.AddCommand(snapshotSummaryCmd)
	snapshotCmd.AddCommand(snapshotFilesCmd)
	snapshotCmd.AddCommand(snapshotFileCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func loadSnapshotOrDie(path string) (kantra.Document, []kantra.Warning) {
	doc, warnings, err := kantra.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return doc, warnings
}

func printSnapshotWarnings(warnings []kantra.Warning) {
	if len(warnings) == 0 {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("\n%s %d malformed entr(ies) skipped:\n", yellow("⚠"), len(warnings))
	for _, w := range warnings {
		fmt.Printf("  %s\n", w)
	}
}
