package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/loadsim/loadsim/sim"
	"github.com/loadsim/loadsim/sim/trace"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
)

// RenderReport prints the final simulation report: a run summary followed
// by a per-processor table, in the shape of the original balancer's
// end-of-run statistics dump.
func RenderReport(r *sim.Report, events *sim.CollectorSink) {
	_, _ = headerColor.Printf("\n=== Simulation Report (run %s) ===\n", r.RunID)
	fmt.Printf("Seed                 : %d\n", r.Seed)
	fmt.Printf("Ticks Elapsed        : %d\n", r.TicksElapsed)
	fmt.Printf("Tasks Admitted       : %d\n", r.TasksAdmitted)
	fmt.Printf("Tasks Completed      : %d\n", r.TasksCompleted)
	fmt.Printf("Tasks Failed         : %d\n", r.TasksFailed)
	fmt.Printf("Success Rate         : %.1f%%\n", r.SuccessRate()*100)
	fmt.Printf("Migrations           : %d\n", r.Migrations)
	fmt.Printf("Throttle Warnings    : %d\n", r.ThrottleWarnings)
	if r.TasksCompleted > 0 {
		fmt.Printf("Latency P50/P95/P99  : %.0f / %.0f / %.0f ticks\n", r.LatencyP50, r.LatencyP95, r.LatencyP99)
	}
	if r.TimedOut {
		_, _ = warnColor.Println("Run exceeded the tick budget; remaining tasks were failed.")
	}
	if r.Cancelled {
		_, _ = warnColor.Println("Run was cancelled; partial results reported.")
	} else if !r.TimedOut {
		_, _ = okColor.Println("Run completed cleanly.")
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Processor", "Specialty", "Processed", "Failed", "Avg Load", "Final Load", "Temp", "Energy")
	for _, p := range r.Processors {
		_ = table.Append(
			fmt.Sprintf("%d", p.ID),
			string(p.Specialty),
			fmt.Sprintf("%d", p.TasksProcessed),
			fmt.Sprintf("%d", p.TasksFailed),
			fmt.Sprintf("%.1f", p.AvgLoad),
			fmt.Sprintf("%.1f", p.FinalLoad),
			fmt.Sprintf("%.1f°C", p.Temperature),
			fmt.Sprintf("%.1f", p.EnergyUse),
		)
	}
	if err := table.Render(); err != nil {
		_, _ = warnColor.Println("could not render processor table:", err)
	}

	if events != nil {
		fmt.Printf("Events: %d assigned, %d completed, %d failed, %d throttled\n",
			events.CountByType(sim.EventTaskAssigned),
			events.CountByType(sim.EventTaskCompleted),
			events.CountByType(sim.EventTaskFailed),
			events.CountByType(sim.EventProcessorThrottled),
		)
	}
}

// RenderTraceSummary prints aggregate decision-trace statistics.
func RenderTraceSummary(s *trace.TraceSummary) {
	_, _ = headerColor.Println("\n=== Decision Trace Summary ===")
	fmt.Printf("Assignments          : %d (%d specialty-matched)\n", s.TotalAssignments, s.MatchedAssignments)
	fmt.Printf("Migrations           : %d\n", s.MigrationCount)
	fmt.Printf("Throttles            : %d\n", s.ThrottleCount)
	fmt.Printf("Unique Targets       : %d\n", s.UniqueTargets)

	ids := make([]int, 0, len(s.TargetDistribution))
	for id := range s.TargetDistribution {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Printf("  processor %d: %d tasks\n", id, s.TargetDistribution[id])
	}
}
