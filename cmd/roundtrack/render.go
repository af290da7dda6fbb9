package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/migrationtools/roundtrack/internal/analysis"
)

// trendLabel renders a trend with its color and direction marker.
func trendLabel(trend analysis.Trend) string {
	switch trend {
	case analysis.TrendWorsening:
		return color.New(color.FgRed).Sprint("↑ WORSENING")
	case analysis.TrendImproving:
		return color.New(color.FgGreen).Sprint("↓ IMPROVING")
	default:
		return color.New(color.FgYellow).Sprint("• STABLE")
	}
}

// printWarnings lists the recoverable problems a run accumulated. The
// pipeline itself never prints; everything it recovered from surfaces
// here, after the results.
func printWarnings(warnings []analysis.Warning) {
	if len(warnings) == 0 {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s %d warning(s):\n", yellow("⚠"), len(warnings))
	for _, w := range warnings {
		fmt.Printf("  %s\n", w)
	}
}
