package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAssignments   int
	MatchedAssignments int // assignments where the chosen processor's affinity was the match score
	MigrationCount     int
	ThrottleCount      int
	UniqueTargets      int
	TargetDistribution map[int]int // processor ID → count of tasks assigned
}

// matchAffinity is the score a specialty-matched processor reports.
// Kept in sync with the sim package's affinity constants.
const matchAffinity = 1.0

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAssignments = len(st.Assignments)
	for _, a := range st.Assignments {
		summary.TargetDistribution[a.ProcessorID]++
		if a.Affinity == matchAffinity {
			summary.MatchedAssignments++
		}
	}

	for _, m := range st.Migrations {
		if m.Throttled {
			summary.ThrottleCount++
		} else {
			summary.MigrationCount++
		}
	}

	summary.UniqueTargets = len(summary.TargetDistribution)
	return summary
}
