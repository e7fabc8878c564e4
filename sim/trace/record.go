// Package trace provides decision-trace recording for policy analysis.
// It stores pure data types and has no dependency on the sim package.
package trace

// AssignmentDecision captures a single assignment policy decision.
type AssignmentDecision struct {
	TaskID      int64
	Clock       int64
	ProcessorID int
	Affinity    float64 // affinity score of the chosen processor for the task
	Load        float64 // chosen processor's load at decision time
}

// MigrationRecord captures a single rebalancing decision.
// Throttled is true when the monitor found no viable destination and the
// task stayed queued on the hot processor.
type MigrationRecord struct {
	TaskID    int64
	Clock     int64
	From      int
	To        int
	Throttled bool
	Reason    string
}
