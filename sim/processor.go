// Models a single simulated processing unit: specialty, FIFO task queue,
// load level, temperature, and cumulative energy draw. A processor advances
// its own state each tick; it never touches another processor's fields.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// AffinityMatch is the score for a task whose kind equals the
	// processor's specialty. AffinityMismatch applies otherwise;
	// cross-specialty tasks are acceptable, just scored worse.
	AffinityMatch    = 1.0
	AffinityMismatch = 0.25

	// mismatchEnergyFactor inflates the energy cost of cross-specialty work.
	mismatchEnergyFactor = 1.5

	// idleEnergyPerTick is the leakage draw of a powered-on unit.
	// Keeps EnergyUse strictly monotone even across idle ticks.
	idleEnergyPerTick = 0.05

	// heatRatePerTick scales temperature growth with relative load.
	// coolRatePerTick is the decay toward baseline under low load.
	heatRatePerTick = 0.8
	coolRatePerTick = 2.0

	// loadHistorySize bounds the per-processor load history ring.
	loadHistorySize = 100
)

// Processor is one simulated processing unit.
type Processor struct {
	ID        int
	Specialty TaskKind

	LoadLevel   float64 // deterministic function of queued remaining cost, in [0, saturationCap]
	Temperature float64 // rises with sustained load, decays toward baseline when lightly loaded
	EnergyUse   float64 // cumulative, monotonically non-decreasing

	TasksProcessed int
	TasksFailed    int

	queue       []*Task // FIFO; head is the in-flight task
	loadHistory []float64

	saturationCap    float64
	baselineTemp     float64
	lowLoadThreshold float64
}

// NewProcessor creates a processor at baseline temperature with an empty queue.
func NewProcessor(id int, specialty TaskKind, cfg SimConfig) *Processor {
	return &Processor{
		ID:               id,
		Specialty:        specialty,
		Temperature:      cfg.BaselineTemp,
		saturationCap:    cfg.SaturationCap,
		baselineTemp:     cfg.BaselineTemp,
		lowLoadThreshold: cfg.LowLoadThreshold,
	}
}

// CanAccept reports whether the task fits under the saturation cap.
func (p *Processor) CanAccept(t *Task) bool {
	return p.LoadLevel+t.Cost <= p.saturationCap
}

// Affinity scores the compatibility between this processor and the task's kind.
func (p *Processor) Affinity(t *Task) float64 {
	if p.Specialty == t.Kind {
		return AffinityMatch
	}
	return AffinityMismatch
}

// Assign appends the task to the queue. Fails with *OverloadError when the
// task does not fit; callers (policy, monitor) must check CanAccept first
// or handle the error.
func (p *Processor) Assign(t *Task) error {
	if !p.CanAccept(t) {
		return &OverloadError{
			ProcessorID: p.ID,
			TaskID:      t.ID,
			Load:        p.LoadLevel,
			Cost:        t.Cost,
			Cap:         p.saturationCap,
		}
	}
	p.queue = append(p.queue, t)
	p.recomputeLoad()
	return nil
}

// Advance consumes cost from the head of the queue proportionally to
// deltaTicks (one cost unit per tick). Tasks whose remaining cost reaches
// zero are removed, marked completed, and returned. Temperature and energy
// are updated from the load observed during the interval.
func (p *Processor) Advance(deltaTicks int64) []*Task {
	if deltaTicks <= 0 {
		return nil
	}
	loadBefore := p.LoadLevel

	var completed []*Task
	budget := float64(deltaTicks)
	for budget > 0 && len(p.queue) > 0 {
		head := p.queue[0]
		if head.Status == StatusPending {
			if err := head.Transition(StatusRunning); err != nil {
				logrus.Warnf("processor %d: %v", p.ID, err)
			}
		}
		consume := min(head.Remaining, budget)
		head.Remaining -= consume
		budget -= consume

		if head.Remaining > 0 {
			break
		}
		p.queue = p.queue[1:]
		if err := head.Transition(StatusCompleted); err != nil {
			logrus.Warnf("processor %d: %v", p.ID, err)
			continue
		}
		p.TasksProcessed++
		factor := 1.0
		if head.Kind != p.Specialty {
			factor = mismatchEnergyFactor
		}
		p.EnergyUse += head.Cost * factor
		completed = append(completed, head)
	}

	p.recomputeLoad()
	p.updateThermals(loadBefore, deltaTicks)
	p.EnergyUse += idleEnergyPerTick * float64(deltaTicks)
	p.recordLoad()
	return completed
}

// updateThermals heats the unit in proportion to its relative load and
// cools it toward baseline once load drops below the low-load threshold.
func (p *Processor) updateThermals(loadBefore float64, deltaTicks int64) {
	dt := float64(deltaTicks)
	if loadBefore > p.lowLoadThreshold {
		p.Temperature += heatRatePerTick * (loadBefore / p.saturationCap) * dt
		return
	}
	p.Temperature -= coolRatePerTick * dt
	if p.Temperature < p.baselineTemp {
		p.Temperature = p.baselineTemp
	}
}

// recomputeLoad derives LoadLevel from the queue contents. The load is the
// sum of remaining costs, never negative, capped at the saturation value.
func (p *Processor) recomputeLoad() {
	var sum float64
	for _, t := range p.queue {
		sum += t.Remaining
	}
	if sum < 0 {
		sum = 0
	}
	if sum > p.saturationCap {
		sum = p.saturationCap
	}
	p.LoadLevel = sum
}

func (p *Processor) recordLoad() {
	p.loadHistory = append(p.loadHistory, p.LoadLevel)
	if len(p.loadHistory) > loadHistorySize {
		p.loadHistory = p.loadHistory[1:]
	}
}

// QueueLen returns the number of tasks currently owned by this processor.
func (p *Processor) QueueLen() int {
	return len(p.queue)
}

// LoadHistory returns the recent load samples (most recent last).
func (p *Processor) LoadHistory() []float64 {
	out := make([]float64, len(p.loadHistory))
	copy(out, p.loadHistory)
	return out
}

// PeekOldestPending returns the least-recently-assigned task that has not
// started executing, or nil. The head of the queue is skipped once running.
func (p *Processor) PeekOldestPending() *Task {
	for _, t := range p.queue {
		if t.Status == StatusPending {
			return t
		}
	}
	return nil
}

// removeTask detaches the task from this processor's queue. Returns false
// if the task is not owned here. Used by migration, which pairs it with an
// Assign on the destination as one logical step.
func (p *Processor) removeTask(taskID int64) bool {
	for i, t := range p.queue {
		if t.ID == taskID {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			p.recomputeLoad()
			return true
		}
	}
	return false
}

// drainTasks empties the queue and returns the orphaned tasks.
// Used when the run ends before the queue does (timeout, cancellation).
func (p *Processor) drainTasks() []*Task {
	out := p.queue
	p.queue = nil
	p.recomputeLoad()
	return out
}

// ProcessorSnapshot is an immutable view of processor state for policy and
// monitor decisions.
type ProcessorSnapshot struct {
	ID          int
	Specialty   TaskKind
	LoadLevel   float64
	Temperature float64
	EnergyUse   float64
	QueueDepth  int
}

// Snapshot captures the current state.
func (p *Processor) Snapshot() ProcessorSnapshot {
	return ProcessorSnapshot{
		ID:          p.ID,
		Specialty:   p.Specialty,
		LoadLevel:   p.LoadLevel,
		Temperature: p.Temperature,
		EnergyUse:   p.EnergyUse,
		QueueDepth:  len(p.queue),
	}
}

func (p *Processor) String() string {
	return fmt.Sprintf("Processor(ID: %d, Specialty: %s, Load: %.1f, Temp: %.1f)",
		p.ID, p.Specialty, p.LoadLevel, p.Temperature)
}
