package analysis

// Group is an ordered partition of persistent issue ids sharing one key
// (a category or an effort level). Groups and the ids inside them follow
// first-encounter order; no ranking happens here.
type Group struct {
	Key      string
	IssueIDs []string
}

// HighImpactIssue flags a persistent issue whose latest observation
// crosses the incident or file thresholds.
type HighImpactIssue struct {
	ID            string
	IncidentCount int
	FileCount     int
}

// Recommendations partitions the persistent issues for manual attention.
type Recommendations struct {
	// ByCategory groups issue ids by their latest category.
	ByCategory []Group

	// ByEffort groups issue ids by their latest effort level.
	ByEffort []Group

	// HighImpact lists issues whose latest incident count or affected-file
	// count meets the configured thresholds (OR semantics).
	HighImpact []HighImpactIssue
}

// Recommend partitions persistent issues by category and effort and flags
// the high-impact subset. An issue is high-impact when its latest
// incident count >= incidentThreshold OR its latest affected-file count
// >= fileThreshold.
func Recommend(persistent []PersistentIssue, incidentThreshold, fileThreshold int) Recommendations {
	var rec Recommendations
	byCategory := make(map[string]int)
	byEffort := make(map[string]int)

	for _, issue := range persistent {
		latest := issue.Timeline.Latest().Record

		rec.ByCategory = appendToGroup(rec.ByCategory, byCategory, latest.Category, issue.ID)
		rec.ByEffort = appendToGroup(rec.ByEffort, byEffort, latest.Effort, issue.ID)

		if latest.IncidentCount >= incidentThreshold || len(latest.FilesAffected) >= fileThreshold {
			rec.HighImpact = append(rec.HighImpact, HighImpactIssue{
				ID:            issue.ID,
				IncidentCount: latest.IncidentCount,
				FileCount:     len(latest.FilesAffected),
			})
		}
	}

	return rec
}

func appendToGroup(groups []Group, index map[string]int, key, id string) []Group {
	at, seen := index[key]
	if !seen {
		index[key] = len(groups)
		return append(groups, Group{Key: key, IssueIDs: []string{id}})
	}
	groups[at].IssueIDs = append(groups[at].IssueIDs, id)
	return groups
}
