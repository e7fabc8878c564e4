package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures all assignment and rebalancing decisions.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is recognized.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a simulation run.
type SimulationTrace struct {
	Config      TraceConfig
	Assignments []AssignmentDecision
	Migrations  []MigrationRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Assignments: make([]AssignmentDecision, 0),
		Migrations:  make([]MigrationRecord, 0),
	}
}

// RecordAssignment appends an assignment decision record.
func (st *SimulationTrace) RecordAssignment(record AssignmentDecision) {
	if st.Config.Level != TraceLevelDecisions {
		return
	}
	st.Assignments = append(st.Assignments, record)
}

// RecordMigration appends a rebalancing decision record.
func (st *SimulationTrace) RecordMigration(record MigrationRecord) {
	if st.Config.Level != TraceLevelDecisions {
		return
	}
	st.Migrations = append(st.Migrations, record)
}
