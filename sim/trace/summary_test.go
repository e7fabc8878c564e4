package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_CountsMatchesAndTargets(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordAssignment(AssignmentDecision{TaskID: 1, ProcessorID: 0, Affinity: 1.0})
	st.RecordAssignment(AssignmentDecision{TaskID: 2, ProcessorID: 0, Affinity: 0.25})
	st.RecordAssignment(AssignmentDecision{TaskID: 3, ProcessorID: 2, Affinity: 1.0})

	summary := Summarize(st)

	assert.Equal(t, 3, summary.TotalAssignments)
	assert.Equal(t, 2, summary.MatchedAssignments)
	assert.Equal(t, 2, summary.UniqueTargets)
	assert.Equal(t, map[int]int{0: 2, 2: 1}, summary.TargetDistribution)
}

func TestSummarize_SeparatesMigrationsFromThrottles(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordMigration(MigrationRecord{TaskID: 1, From: 0, To: 1})
	st.RecordMigration(MigrationRecord{TaskID: 2, From: 0, To: 2})
	st.RecordMigration(MigrationRecord{TaskID: 3, From: 1, Throttled: true, Reason: "no viable destination"})

	summary := Summarize(st)

	assert.Equal(t, 2, summary.MigrationCount)
	assert.Equal(t, 1, summary.ThrottleCount)
}

func TestSummarize_NilAndEmptyTraces(t *testing.T) {
	summary := Summarize(nil)
	require.NotNil(t, summary)
	assert.Zero(t, summary.TotalAssignments)
	assert.NotNil(t, summary.TargetDistribution)

	summary = Summarize(NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions}))
	assert.Zero(t, summary.TotalAssignments)
	assert.Zero(t, summary.UniqueTargets)
}
