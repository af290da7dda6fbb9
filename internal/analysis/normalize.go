package analysis

import (
	"sort"

	"github.com/migrationtools/roundtrack/internal/kantra"
)

// IssueRecord is one rule violation within a single round, normalized from
// the raw snapshot document. Never mutated after construction.
type IssueRecord struct {
	// ID is the stable rule identifier.
	ID string

	// Description of the rule.
	Description string

	// Category is the analyzer's classification tag, e.g. "mandatory".
	Category string

	// Effort is the analyzer's cost indicator in string form.
	Effort string

	// Ruleset names the group the rule belongs to.
	Ruleset string

	// IncidentCount is the number of occurrences in this round, including
	// occurrences whose location could not be resolved to a file.
	IncidentCount int

	// FilesAffected is the deduplicated, sorted set of file paths derived
	// from file-scheme occurrence locations.
	FilesAffected []string

	// Messages is the deduplicated, sorted set of distinct occurrence
	// messages.
	Messages []string
}

// Snapshot is one round's normalized issue set. A nil *Snapshot means the
// round produced no result at all (load failure), which is distinct from a
// snapshot that loaded cleanly and found nothing.
type Snapshot struct {
	// TotalIncidents across all issues in the round.
	TotalIncidents int

	// Issues in document order. Each ID appears once; when a snapshot
	// repeats a rule id across rulesets the last record wins, keeping the
	// position of the first.
	Issues []IssueRecord
}

// Issue returns the record for an id, or nil if the round did not report it.
func (s *Snapshot) Issue(id string) *IssueRecord {
	for i := range s.Issues {
		if s.Issues[i].ID == id {
			return &s.Issues[i]
		}
	}
	return nil
}

// Normalize converts a parsed snapshot document into a Snapshot. Pure
// function: shape problems were already handled (and skipped) by the
// loader, so normalization cannot fail.
func Normalize(doc kantra.Document) *Snapshot {
	snap := &Snapshot{}
	position := make(map[string]int)

	for _, rs := range doc {
		for _, v := range rs.Violations {
			files := make(map[string]struct{})
			messages := make(map[string]struct{})
			for _, in := range v.Incidents {
				if path, ok := in.FilePath(); ok {
					files[path] = struct{}{}
				}
				if in.Message != "" {
					messages[in.Message] = struct{}{}
				}
			}

			record := IssueRecord{
				ID:            v.RuleID,
				Description:   v.Description,
				Category:      v.Category,
				Effort:        v.Effort,
				Ruleset:       rs.Name,
				IncidentCount: len(v.Incidents),
				FilesAffected: sortedKeys(files),
				Messages:      sortedKeys(messages),
			}
			snap.TotalIncidents += len(v.Incidents)

			if at, seen := position[v.RuleID]; seen {
				snap.Issues[at] = record
				continue
			}
			position[v.RuleID] = len(snap.Issues)
			snap.Issues = append(snap.Issues, record)
		}
	}

	return snap
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
