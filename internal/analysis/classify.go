package analysis

import "fmt"

// Trend is the direction of change in an issue's incident count between
// its first and last observed round. Intermediate fluctuation is
// deliberately not examined; only the endpoints are compared, so a
// dip-then-spike inside the window reads as stable.
type Trend string

const (
	TrendWorsening Trend = "worsening"
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
)

// PersistentIssue is a read-only view over an issue whose timeline meets
// the persistence threshold.
type PersistentIssue struct {
	ID       string
	Timeline Timeline
	Trend    Trend
}

// InsufficientRoundsError reports that fewer valid rounds exist than the
// persistence threshold requires. This is a distinct "cannot evaluate"
// outcome, not an empty result: zero persistent issues after a full
// analysis means something very different.
type InsufficientRoundsError struct {
	Have int
	Need int
}

func (e *InsufficientRoundsError) Error() string {
	return fmt.Sprintf("need at least %d valid rounds to analyze persistence, found %d", e.Need, e.Have)
}

// Classify filters the history down to issues observed in at least
// minRounds rounds and computes each one's trend. validRounds is the
// number of rounds that actually produced a snapshot; when it is below
// minRounds no issue could ever qualify and classification refuses to run.
// Output preserves the history's first-encounter order.
func Classify(h *History, minRounds, validRounds int) ([]PersistentIssue, error) {
	if minRounds < 1 {
		return nil, &ConfigError{Field: "min-rounds", Message: "must be at least 1"}
	}
	if validRounds < minRounds {
		return nil, &InsufficientRoundsError{Have: validRounds, Need: minRounds}
	}

	var persistent []PersistentIssue
	for _, id := range h.IDs {
		timeline := h.Timelines[id]
		if timeline.Persistence() < minRounds {
			continue
		}
		persistent = append(persistent, PersistentIssue{
			ID:       id,
			Timeline: timeline,
			Trend:    trendOf(timeline),
		})
	}

	return persistent, nil
}

func trendOf(t Timeline) Trend {
	first := t.First().Record.IncidentCount
	last := t.Latest().Record.IncidentCount
	switch {
	case last > first:
		return TrendWorsening
	case last < first:
		return TrendImproving
	default:
		return TrendStable
	}
}
