// Aggregates per-processor and run-level statistics for the final report.

package sim

import (
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// AssignmentRecord is the immutable report artifact for one task.
// Appended once when the task reaches a terminal status, never mutated.
type AssignmentRecord struct {
	TaskID       int64
	ProcessorID  int
	AssignedTick int64
	FinishedTick int64
	Failed       bool
	FailReason   string
}

// ProcessorSummary captures end-of-run state for one processor.
type ProcessorSummary struct {
	ID             int
	Specialty      TaskKind
	TasksProcessed int
	TasksFailed    int
	AvgLoad        float64
	FinalLoad      float64
	Temperature    float64
	EnergyUse      float64
}

// Report is the final output of a simulation run.
type Report struct {
	RunID string
	Seed  int64

	TicksElapsed int64
	TimedOut     bool
	Cancelled    bool

	TasksAdmitted    int
	TasksCompleted   int
	TasksFailed      int
	ThrottleWarnings int
	Migrations       int

	// Completion latency (FinishedTick - AssignedTick) percentiles over
	// completed tasks, in ticks.
	LatencyP50 float64
	LatencyP95 float64
	LatencyP99 float64

	Records    []AssignmentRecord
	Processors []ProcessorSummary
}

// newReport assembles a Report from final simulator state.
func newReport(seed int64, ticks int64, timedOut, cancelled bool,
	records []AssignmentRecord, processors []*Processor,
	throttles, migrations int) *Report {

	r := &Report{
		RunID:            uuid.NewString(),
		Seed:             seed,
		TicksElapsed:     ticks,
		TimedOut:         timedOut,
		Cancelled:        cancelled,
		TasksAdmitted:    len(records),
		ThrottleWarnings: throttles,
		Migrations:       migrations,
		Records:          records,
	}

	var latencies []float64
	for _, rec := range records {
		if rec.Failed {
			r.TasksFailed++
			continue
		}
		r.TasksCompleted++
		latencies = append(latencies, float64(rec.FinishedTick-rec.AssignedTick))
	}
	if len(latencies) > 0 {
		sort.Float64s(latencies)
		r.LatencyP50 = stat.Quantile(0.50, stat.Empirical, latencies, nil)
		r.LatencyP95 = stat.Quantile(0.95, stat.Empirical, latencies, nil)
		r.LatencyP99 = stat.Quantile(0.99, stat.Empirical, latencies, nil)
	}

	for _, p := range processors {
		sum := ProcessorSummary{
			ID:             p.ID,
			Specialty:      p.Specialty,
			TasksProcessed: p.TasksProcessed,
			TasksFailed:    p.TasksFailed,
			FinalLoad:      p.LoadLevel,
			Temperature:    p.Temperature,
			EnergyUse:      p.EnergyUse,
		}
		if hist := p.LoadHistory(); len(hist) > 0 {
			sum.AvgLoad = stat.Mean(hist, nil)
		}
		r.Processors = append(r.Processors, sum)
	}
	return r
}

// SuccessRate returns completed/admitted in [0, 1], or 0 for an empty run.
func (r *Report) SuccessRate() float64 {
	if r.TasksAdmitted == 0 {
		return 0
	}
	return float64(r.TasksCompleted) / float64(r.TasksAdmitted)
}
