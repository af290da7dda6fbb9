package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// SnapshotFileName is the fixed name of the analysis snapshot inside each
// round directory.
const SnapshotFileName = "kantra_output.yaml"

// roundMarker prefixes every round directory name.
const roundMarker = "round_"

// roundTimestampPattern extracts the compact timestamp token embedded in a
// round directory name, e.g. round_20240101_120000.
var roundTimestampPattern = regexp.MustCompile(`round_(\d{8}_\d{6})`)

const roundTimestampLayout = "20060102_150405"

// Round is one timestamped snapshot directory in the workspace,
// corresponding to one iteration of the remediation loop. Immutable once
// discovered.
type Round struct {
	// Name is the directory name, e.g. "round_20240101_120000".
	Name string

	// Path is the directory location for loading the snapshot.
	Path string

	// Timestamp parsed from the directory name.
	Timestamp time.Time
}

// SnapshotPath returns the location of the round's snapshot file.
func (r Round) SnapshotPath() string {
	return filepath.Join(r.Path, SnapshotFileName)
}

// ParseRoundName extracts the timestamp embedded in a round directory name.
// Names without the round marker are not rounds at all (ok=false, no
// error); names with the marker but an unparseable timestamp return an
// error so callers can warn about directories that look like rounds.
func ParseRoundName(name string) (time.Time, bool, error) {
	if !strings.HasPrefix(name, roundMarker) {
		return time.Time{}, false, nil
	}
	m := roundTimestampPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false, fmt.Errorf("no %s timestamp in %q", roundTimestampLayout, name)
	}
	ts, err := time.Parse(roundTimestampLayout, m[1])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid timestamp in %q: %w", name, err)
	}
	return ts, true, nil
}

// DiscoverRounds scans the immediate children of the workspace root and
// returns the round directories in chronological order. A missing or
// unreadable root yields an empty slice plus a warning, never an error:
// the caller decides whether "no rounds" is a problem.
func DiscoverRounds(root string) ([]Round, []Warning) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, []Warning{warnf(StageLocate, root, "workspace does not exist")}
		}
		return nil, []Warning{warnf(StageLocate, root, "cannot read workspace: %v", err)}
	}

	var rounds []Round
	var warnings []Warning

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		ts, ok, err := ParseRoundName(name)
		if err != nil {
			warnings = append(warnings, warnf(StageLocate, filepath.Join(root, name),
				"skipping directory: %v", err))
			continue
		}
		if !ok {
			continue
		}
		rounds = append(rounds, Round{
			Name:      name,
			Path:      filepath.Join(root, name),
			Timestamp: ts,
		})
	}

	// Chronological order is a correctness requirement for trend
	// computation; ties break by name so results are deterministic.
	sort.Slice(rounds, func(i, j int) bool {
		if !rounds[i].Timestamp.Equal(rounds[j].Timestamp) {
			return rounds[i].Timestamp.Before(rounds[j].Timestamp)
		}
		return rounds[i].Name < rounds[j].Name
	})

	return rounds, warnings
}
