package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/migrationtools/roundtrack/internal/kantra"
)

// Options configures one analysis run.
type Options struct {
	// MinRounds is the persistence threshold: an issue must appear in at
	// least this many rounds to count as persistent.
	MinRounds int

	// IncidentThreshold flags an issue high-impact when its latest
	// incident count meets it.
	IncidentThreshold int

	// FileThreshold flags an issue high-impact when its latest
	// affected-file count meets it.
	FileThreshold int

	// Jobs bounds how many round snapshots load concurrently.
	Jobs int

	// Loader resolves snapshot files. Defaults to kantra.Load.
	Loader Loader
}

// DefaultOptions mirrors the analyzer's historical defaults.
func DefaultOptions() Options {
	return Options{
		MinRounds:         3,
		IncidentThreshold: 5,
		FileThreshold:     3,
		Jobs:              4,
	}
}

// ConfigError reports an invalid option. Fatal: it invalidates the whole
// request, so it surfaces before any processing begins.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the options before any workspace access.
func (o Options) Validate() error {
	if o.MinRounds < 1 {
		return &ConfigError{Field: "min-rounds", Message: "must be at least 1"}
	}
	if o.IncidentThreshold < 1 {
		return &ConfigError{Field: "incident threshold", Message: "must be at least 1"}
	}
	if o.FileThreshold < 1 {
		return &ConfigError{Field: "file threshold", Message: "must be at least 1"}
	}
	if o.Jobs < 1 {
		return &ConfigError{Field: "jobs", Message: "must be at least 1"}
	}
	return nil
}

// RoundSummary is the per-round roll-up for rounds that produced a
// snapshot. Rounds that failed to load are excluded entirely.
type RoundSummary struct {
	Name           string
	Timestamp      time.Time
	UniqueIssues   int
	TotalIncidents int
}

// AnalysisResult bundles everything one run computes. Rendering is the
// caller's concern. Given an unchanged workspace the result is
// reproducible field for field: nothing in it depends on when the run
// happened.
type AnalysisResult struct {
	Workspace  string
	Rounds     []RoundSummary
	Persistent []PersistentIssue
	Recs       Recommendations
	Warnings   []Warning
}

// Analyze runs the full pipeline over a workspace: locate rounds, load and
// normalize each snapshot, build per-issue history, classify persistence,
// and derive recommendations. Per-round and per-entry problems accumulate
// as warnings on the result; only configuration errors and insufficient
// rounds abort.
func Analyze(ctx context.Context, workspace string, opts Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	load := opts.Loader
	if load == nil {
		load = kantra.Load
	}

	rounds, warnings := DiscoverRounds(workspace)
	if len(rounds) < opts.MinRounds {
		return nil, &InsufficientRoundsError{Have: len(rounds), Need: opts.MinRounds}
	}

	snapshots, loadWarnings := LoadRounds(ctx, rounds, load, opts.Jobs)
	warnings = append(warnings, loadWarnings...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Workspace: workspace,
		Warnings:  warnings,
	}

	valid := 0
	for _, rs := range snapshots {
		if rs.Snapshot == nil {
			continue
		}
		valid++
		result.Rounds = append(result.Rounds, RoundSummary{
			Name:           rs.Round.Name,
			Timestamp:      rs.Round.Timestamp,
			UniqueIssues:   len(rs.Snapshot.Issues),
			TotalIncidents: rs.Snapshot.TotalIncidents,
		})
	}

	history := BuildHistory(snapshots)

	persistent, err := Classify(history, opts.MinRounds, valid)
	if err != nil {
		return nil, err
	}
	result.Persistent = persistent
	result.Recs = Recommend(persistent, opts.IncidentThreshold, opts.FileThreshold)

	return result, nil
}
