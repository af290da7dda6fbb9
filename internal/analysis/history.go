package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/migrationtools/roundtrack/internal/kantra"
)

// Loader resolves a snapshot file into a parsed document. It matches the
// signature of kantra.Load and exists so tests can substitute fixtures.
type Loader func(path string) (kantra.Document, []kantra.Warning, error)

// RoundSnapshot pairs a discovered round with its normalized snapshot.
// Snapshot is nil when the round's snapshot could not be loaded.
type RoundSnapshot struct {
	Round    Round
	Snapshot *Snapshot
}

// Observation is one appearance of an issue in one round.
type Observation struct {
	Round  Round
	Record IssueRecord
}

// Timeline is the ordered appearances of a single issue id across rounds,
// ascending by round timestamp. Rounds the id was absent from have no
// entry; gaps do not reset the timeline.
type Timeline []Observation

// First returns the earliest observation.
func (t Timeline) First() Observation { return t[0] }

// Latest returns the most recent observation.
func (t Timeline) Latest() Observation { return t[len(t)-1] }

// Persistence is the number of rounds the issue was observed in.
func (t Timeline) Persistence() int { return len(t) }

// History maps every issue id ever observed to its timeline. IDs preserves
// first-encounter order so downstream groupings are deterministic.
type History struct {
	IDs       []string
	Timelines map[string]Timeline
}

// LoadRounds resolves each round's snapshot through the loader, at most
// jobs rounds at a time. Results and warnings come back in round order
// regardless of completion order: the fold in BuildHistory depends on
// chronological order for correctness, not just reproducibility. A round
// that fails to load degrades to a nil snapshot plus a warning; it never
// stops the other rounds.
func LoadRounds(ctx context.Context, rounds []Round, load Loader, jobs int) ([]RoundSnapshot, []Warning) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]RoundSnapshot, len(rounds))
	warnings := make([][]Warning, len(rounds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, round := range rounds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			doc, shapeWarnings, err := load(round.SnapshotPath())
			if err != nil {
				results[i] = RoundSnapshot{Round: round}
				warnings[i] = []Warning{warnf(StageLoad, round.SnapshotPath(),
					"skipping round %s: %v", round.Name, err)}
				return nil
			}

			for _, w := range shapeWarnings {
				warnings[i] = append(warnings[i],
					warnf(StageShape, w.Path, "%s: %s", w.Context, w.Message))
			}
			results[i] = RoundSnapshot{Round: round, Snapshot: Normalize(doc)}
			return nil
		})
	}

	// Workers only return ctx cancellation errors; per-round failures are
	// already folded into warnings.
	_ = g.Wait()

	var flat []Warning
	for _, ws := range warnings {
		flat = append(flat, ws...)
	}
	return results, flat
}

// BuildHistory folds the ordered rounds into per-issue timelines. Rounds
// with a nil snapshot contribute nothing. Pure accumulation: no
// classification happens here.
func BuildHistory(rounds []RoundSnapshot) *History {
	h := &History{Timelines: make(map[string]Timeline)}

	for _, rs := range rounds {
		if rs.Snapshot == nil {
			continue
		}
		for _, record := range rs.Snapshot.Issues {
			if _, seen := h.Timelines[record.ID]; !seen {
				h.IDs = append(h.IDs, record.ID)
			}
			h.Timelines[record.ID] = append(h.Timelines[record.ID], Observation{
				Round:  rs.Round,
				Record: record,
			})
		}
	}

	return h
}
