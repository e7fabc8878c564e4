// Defines the Task struct that models an individual unit of work in the simulation.
// Tracks kind, cost, progress, and lifecycle status with forward-only transitions.

package sim

import "fmt"

// TaskKind classifies a task by the resource it stresses.
// Processors carry a matching specialty that yields a higher affinity score.
type TaskKind string

const (
	KindCompute TaskKind = "compute"
	KindMemory  TaskKind = "memory"
	KindIO      TaskKind = "io"
)

// TaskKinds lists all valid kinds in declaration order.
// Processor specialties cycle through this slice at pool creation.
var TaskKinds = []TaskKind{KindCompute, KindMemory, KindIO}

// IsValidTaskKind returns true if kind is one of the closed set.
func IsValidTaskKind(kind TaskKind) bool {
	for _, k := range TaskKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// statusRank orders statuses so transitions can only move forward.
// completed and failed share the terminal rank; a task reaches exactly one.
var statusRank = map[TaskStatus]int{
	StatusPending:   0,
	StatusRunning:   1,
	StatusCompleted: 2,
	StatusFailed:    2,
}

// Task models a single unit of work flowing through the simulation.
// Ownership: a task belongs to exactly one processor queue at a time;
// the RebalancingMonitor transfers ownership atomically on migration.
type Task struct {
	ID       int64    // Unique sequence number, assigned at creation, never reused
	Kind     TaskKind // compute, memory, or io; fixed at creation
	Cost     float64  // Total work in simulated duration units (> 0)
	Priority int      // Informational priority carried into the report

	Remaining float64 // Work left; Cost minus the in-flight consumed fraction

	Status     TaskStatus
	FailReason string // Set when Status becomes failed

	ArrivalTick  int64 // Tick at which the task entered the simulation
	AssignedTick int64 // Tick of the (last) assignment decision
	FinishedTick int64 // Tick at which the task reached a terminal status
}

// NewTask creates a pending task. Cost must be positive; the simulator
// treats non-positive costs as a workload generation bug and rejects them.
func NewTask(id int64, kind TaskKind, cost float64, priority int, arrivalTick int64) (*Task, error) {
	if !IsValidTaskKind(kind) {
		return nil, fmt.Errorf("task %d: unknown kind %q", id, kind)
	}
	if cost <= 0 {
		return nil, fmt.Errorf("task %d: cost must be positive, got %v", id, cost)
	}
	return &Task{
		ID:          id,
		Kind:        kind,
		Cost:        cost,
		Priority:    priority,
		Remaining:   cost,
		Status:      StatusPending,
		ArrivalTick: arrivalTick,
	}, nil
}

// Transition moves the task to a new status. Transitions are monotonic:
// a status never regresses, and terminal statuses never change.
func (t *Task) Transition(to TaskStatus) error {
	fromRank, ok := statusRank[t.Status]
	if !ok {
		return fmt.Errorf("task %d: corrupt status %q", t.ID, t.Status)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("task %d: unknown status %q", t.ID, to)
	}
	if toRank < fromRank {
		return fmt.Errorf("task %d: illegal transition %s -> %s", t.ID, t.Status, to)
	}
	if t.Terminal() && to != t.Status {
		return fmt.Errorf("task %d: already terminal (%s), cannot become %s", t.ID, t.Status, to)
	}
	t.Status = to
	return nil
}

// Fail marks the task failed with a reason. No-op error if already terminal.
func (t *Task) Fail(reason string, tick int64) error {
	if err := t.Transition(StatusFailed); err != nil {
		return err
	}
	t.FailReason = reason
	t.FinishedTick = tick
	return nil
}

// Terminal returns true once the task is completed or failed.
func (t *Task) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

func (t *Task) String() string {
	return fmt.Sprintf("Task(ID: %d, Kind: %s, Cost: %.1f, Status: %s)", t.ID, t.Kind, t.Cost, t.Status)
}
