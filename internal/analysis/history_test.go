package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migrationtools/roundtrack/internal/kantra"
)

func testRound(day int) Round {
	return Round{
		Name:      time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC).Format("round_20060102_150405"),
		Path:      "/ws/r" + string(rune('0'+day)),
		Timestamp: time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC),
	}
}

func snapshotWith(records ...IssueRecord) *Snapshot {
	snap := &Snapshot{Issues: records}
	for _, r := range records {
		snap.TotalIncidents += r.IncidentCount
	}
	return snap
}

func TestBuildHistory_GapsDoNotResetTimelines(t *testing.T) {
	r1, r2, r3 := testRound(1), testRound(2), testRound(3)

	rounds := []RoundSnapshot{
		{Round: r1, Snapshot: snapshotWith(IssueRecord{ID: "flaky-rule", IncidentCount: 2})},
		{Round: r2, Snapshot: snapshotWith()}, // issue absent in round 2
		{Round: r3, Snapshot: snapshotWith(IssueRecord{ID: "flaky-rule", IncidentCount: 1})},
	}

	h := BuildHistory(rounds)
	timeline := h.Timelines["flaky-rule"]
	require.Len(t, timeline, 2)
	assert.Equal(t, r1.Name, timeline[0].Round.Name)
	assert.Equal(t, r3.Name, timeline[1].Round.Name)
	assert.Equal(t, 2, timeline.Persistence())
}

func TestBuildHistory_NilSnapshotsContributeNothing(t *testing.T) {
	r1, r2 := testRound(1), testRound(2)

	rounds := []RoundSnapshot{
		{Round: r1, Snapshot: snapshotWith(IssueRecord{ID: "rule-a", IncidentCount: 1})},
		{Round: r2, Snapshot: nil}, // failed load
	}

	h := BuildHistory(rounds)
	require.Len(t, h.IDs, 1)
	assert.Len(t, h.Timelines["rule-a"], 1)
}

func TestBuildHistory_FirstEncounterOrder(t *testing.T) {
	r1, r2 := testRound(1), testRound(2)

	rounds := []RoundSnapshot{
		{Round: r1, Snapshot: snapshotWith(
			IssueRecord{ID: "rule-b"},
			IssueRecord{ID: "rule-a"},
		)},
		{Round: r2, Snapshot: snapshotWith(
			IssueRecord{ID: "rule-c"},
			IssueRecord{ID: "rule-a"},
		)},
	}

	h := BuildHistory(rounds)
	assert.Equal(t, []string{"rule-b", "rule-a", "rule-c"}, h.IDs)
}

func stubLoader(docs map[string]kantra.Document, fail map[string]error) Loader {
	return func(path string) (kantra.Document, []kantra.Warning, error) {
		if err, ok := fail[path]; ok {
			return nil, nil, err
		}
		doc, ok := docs[path]
		if !ok {
			return nil, nil, errors.New("unexpected path: " + path)
		}
		return doc, nil, nil
	}
}

func singleRuleDoc(ruleID string, incidents int) kantra.Document {
	v := kantra.Violation{RuleID: ruleID}
	for i := 0; i < incidents; i++ {
		v.Incidents = append(v.Incidents, kantra.Incident{URI: "file:///a.java"})
	}
	return kantra.Document{{Name: "rs", Violations: []kantra.Violation{v}}}
}

func TestLoadRounds_FailedRoundDegradesToWarning(t *testing.T) {
	r1, r2, r3 := testRound(1), testRound(2), testRound(3)
	load := stubLoader(map[string]kantra.Document{
		r1.SnapshotPath(): singleRuleDoc("rule-a", 1),
		r3.SnapshotPath(): singleRuleDoc("rule-a", 4),
	}, map[string]error{
		r2.SnapshotPath(): errors.New("boom"),
	})

	snapshots, warnings := LoadRounds(context.Background(), []Round{r1, r2, r3}, load, 2)
	require.Len(t, snapshots, 3)
	assert.NotNil(t, snapshots[0].Snapshot)
	assert.Nil(t, snapshots[1].Snapshot)
	assert.NotNil(t, snapshots[2].Snapshot)

	require.Len(t, warnings, 1)
	assert.Equal(t, StageLoad, warnings[0].Stage)
	assert.Contains(t, warnings[0].Message, r2.Name)
}

func TestLoadRounds_ParallelMatchesSerial(t *testing.T) {
	var rounds []Round
	docs := make(map[string]kantra.Document)
	for day := 1; day <= 9; day++ {
		r := testRound(day)
		rounds = append(rounds, r)
		docs[r.SnapshotPath()] = singleRuleDoc("rule-a", day)
	}
	load := stubLoader(docs, nil)

	serial, _ := LoadRounds(context.Background(), rounds, load, 1)
	parallel, _ := LoadRounds(context.Background(), rounds, load, 4)

	require.Equal(t, len(serial), len(parallel))
	for i := range serial {
		assert.Equal(t, serial[i].Round.Name, parallel[i].Round.Name)
		assert.Equal(t, serial[i].Snapshot, parallel[i].Snapshot)
	}
}

func TestLoadRounds_ShapeWarningsCarrySnapshotPath(t *testing.T) {
	r1 := testRound(1)
	load := func(path string) (kantra.Document, []kantra.Warning, error) {
		return singleRuleDoc("rule-a", 1), []kantra.Warning{
			{Path: path, Context: "ruleset[1]", Message: "expected a mapping, got a scalar"},
		}, nil
	}

	snapshots, warnings := LoadRounds(context.Background(), []Round{r1}, load, 1)
	require.NotNil(t, snapshots[0].Snapshot)
	require.Len(t, warnings, 1)
	assert.Equal(t, StageShape, warnings[0].Stage)
	assert.Equal(t, r1.SnapshotPath(), warnings[0].Path)
}

func TestTimeline_Endpoints(t *testing.T) {
	timeline := Timeline{
		{Record: IssueRecord{IncidentCount: 2}},
		{Record: IssueRecord{IncidentCount: 7}},
		{Record: IssueRecord{IncidentCount: 5}},
	}
	assert.Equal(t, 2, timeline.First().Record.IncidentCount)
	assert.Equal(t, 5, timeline.Latest().Record.IncidentCount)
	assert.Equal(t, 3, timeline.Persistence())
}
