package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTraceLevel(t *testing.T) {
	assert.True(t, IsValidTraceLevel("none"))
	assert.True(t, IsValidTraceLevel("decisions"))
	assert.True(t, IsValidTraceLevel(""))
	assert.False(t, IsValidTraceLevel("verbose"))
}

func TestSimulationTrace_RecordsAtDecisionsLevel(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	st.RecordAssignment(AssignmentDecision{TaskID: 1, Clock: 0, ProcessorID: 2, Affinity: 1.0, Load: 30})
	st.RecordAssignment(AssignmentDecision{TaskID: 2, Clock: 1, ProcessorID: 0, Affinity: 0.25, Load: 10})
	st.RecordMigration(MigrationRecord{TaskID: 1, Clock: 3, From: 2, To: 0})

	assert.Len(t, st.Assignments, 2)
	assert.Len(t, st.Migrations, 1)
	assert.Equal(t, int64(1), st.Assignments[0].TaskID)
	assert.Equal(t, 0, st.Migrations[0].To)
}

func TestSimulationTrace_NoneLevelDropsRecords(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone})

	st.RecordAssignment(AssignmentDecision{TaskID: 1})
	st.RecordMigration(MigrationRecord{TaskID: 1})

	assert.Empty(t, st.Assignments)
	assert.Empty(t, st.Migrations)
}
