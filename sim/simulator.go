// simulator.go
//
// The simulation loop: drives the clock, admits arrivals, advances the
// processor pool, and runs the rebalancing monitor each tick.

package sim

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/loadsim/loadsim/sim/trace"
)

// Phase is the simulation loop state: Idle -> Running -> Draining -> Completed.
// A mid-run stop signal jumps straight to Completed with partial results.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseDraining  Phase = "draining"
	PhaseCompleted Phase = "completed"
)

// Simulator drives time forward in discrete ticks. Per tick, in order:
// admit arrivals, advance every processor, rebalance, record terminal tasks.
// The ordering keeps outcomes deterministic for a fixed seed and arrival
// sequence; processor advances may run in parallel because they touch
// disjoint state, and the rebalancing phase only starts after they join.
type Simulator struct {
	Clock int64

	cfg        SimConfig
	Processors []*Processor
	procByID   map[int]*Processor

	policy  AssignmentPolicy
	monitor *Monitor
	source  TaskSource
	sink    ReportSink

	// Trace, when non-nil, records assignment and migration decisions.
	Trace *trace.SimulationTrace

	// OnTick, when non-nil, is invoked after every completed tick.
	// Used by the CLI for progress reporting.
	OnTick func(tick int64)

	phase      Phase
	held       *Task   // pulled from the source but not yet due
	sourceDone bool
	retryQ     []*Task // arrived tasks awaiting capacity, FIFO

	records    []AssignmentRecord
	throttles  int
	migrations int
}

// NewSimulator builds the processor pool (specialties cycling through
// compute, memory, io) and wires the configured assignment policy and
// rebalancing monitor. The sink may be nil when no event consumer exists.
func NewSimulator(cfg SimConfig, source TaskSource, sink ReportSink) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		cfg:      cfg,
		policy:   NewAssignmentPolicy(cfg.Policy),
		monitor:  NewMonitor(cfg),
		source:   source,
		sink:     sink,
		procByID: make(map[int]*Processor, cfg.ProcessorCount),
		phase:    PhaseIdle,
	}
	for i := 0; i < cfg.ProcessorCount; i++ {
		p := NewProcessor(i, TaskKinds[i%len(TaskKinds)], cfg)
		s.Processors = append(s.Processors, p)
		s.procByID[p.ID] = p
	}
	return s, nil
}

// Phase returns the current loop phase.
func (s *Simulator) Phase() Phase {
	return s.phase
}

func (s *Simulator) emit(ev Event) {
	if s.sink != nil {
		s.sink.Record(s.Clock, ev)
	}
}

// Run executes the simulation until all tasks complete, the tick budget is
// exhausted, or ctx is cancelled. It always returns a complete report; no
// error condition is fatal.
func (s *Simulator) Run(ctx context.Context) *Report {
	s.phase = PhaseRunning
	logrus.Infof("[tick %07d] Simulation started: %d processors, policy=%s",
		s.Clock, len(s.Processors), s.cfg.Policy)

	cancelled := false
	finished := false

	for s.Clock < s.cfg.MaxTicks {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		s.admit()
		s.advanceAll(1)
		s.rebalance()

		if s.exhausted() && s.poolIdle() {
			finished = true
			break
		}
		if s.exhausted() && s.phase == PhaseRunning {
			s.phase = PhaseDraining
			logrus.Infof("[tick %07d] Source exhausted, draining %d queued tasks", s.Clock, s.queuedTasks())
		}

		s.Clock++
		if s.OnTick != nil {
			s.OnTick(s.Clock)
		}
	}

	timedOut := false
	if !finished {
		reason := "not completed within budget"
		if cancelled {
			reason = "cancelled"
		} else if s.queuedTasks() > 0 || len(s.retryQ) > 0 || s.held != nil {
			timedOut = true
			s.emit(Event{Type: EventSimulationTimeout, TaskID: -1, ProcessorID: -1, Reason: reason})
		}
		s.failRemaining(reason)
	}

	s.phase = PhaseCompleted
	logrus.Infof("[tick %07d] Simulation ended (timeout=%v cancelled=%v)", s.Clock, timedOut, cancelled)
	return newReport(s.cfg.Seed, s.Clock, timedOut, cancelled,
		s.records, s.Processors, s.throttles, s.migrations)
}

// admit places due tasks onto processors. Retries from earlier ticks go
// first, then newly arrived tasks. A task the policy cannot place stays in
// the retry queue for the next tick; it is never dropped.
func (s *Simulator) admit() {
	due := s.retryQ
	s.retryQ = nil
	for t := s.nextDue(); t != nil; t = s.nextDue() {
		due = append(due, t)
	}

	for _, t := range due {
		p, err := s.policy.Select(t, s.Processors)
		if err != nil {
			// ErrNoCapacity: the whole pool is saturated right now.
			logrus.Debugf("[tick %07d] task %d re-queued: %v", s.Clock, t.ID, err)
			s.retryQ = append(s.retryQ, t)
			continue
		}
		if err := p.Assign(t); err != nil {
			// Policy raced nothing here; an OverloadError means a policy bug.
			logrus.Warnf("[tick %07d] assign rejected after selection: %v", s.Clock, err)
			s.retryQ = append(s.retryQ, t)
			continue
		}
		t.AssignedTick = s.Clock
		s.emit(Event{Type: EventTaskAssigned, TaskID: t.ID, ProcessorID: p.ID})
		if s.Trace != nil {
			s.Trace.RecordAssignment(trace.AssignmentDecision{
				TaskID:      t.ID,
				Clock:       s.Clock,
				ProcessorID: p.ID,
				Affinity:    p.Affinity(t),
				Load:        p.LoadLevel,
			})
		}
	}
}

// nextDue pulls the next task whose arrival tick has been reached, holding
// back at most one pre-pulled future task between calls.
func (s *Simulator) nextDue() *Task {
	if s.held != nil {
		if s.held.ArrivalTick > s.Clock {
			return nil
		}
		t := s.held
		s.held = nil
		return t
	}
	if s.sourceDone {
		return nil
	}
	t := s.source.Next()
	if t == nil {
		s.sourceDone = true
		return nil
	}
	if t.ArrivalTick > s.Clock {
		s.held = t
		return nil
	}
	return t
}

// advanceAll steps every processor by deltaTicks. Advances run concurrently
// (disjoint state per processor) and join before any shared-state work;
// completions are then recorded in processor ID order for determinism.
func (s *Simulator) advanceAll(deltaTicks int64) {
	completedBy := make([][]*Task, len(s.Processors))
	g := new(errgroup.Group)
	for i, p := range s.Processors {
		i, p := i, p
		g.Go(func() error {
			completedBy[i] = p.Advance(deltaTicks)
			return nil
		})
	}
	_ = g.Wait() // advances return no errors; Wait is the join barrier

	for i, p := range s.Processors {
		for _, t := range completedBy[i] {
			t.FinishedTick = s.Clock
			s.records = append(s.records, AssignmentRecord{
				TaskID:       t.ID,
				ProcessorID:  p.ID,
				AssignedTick: t.AssignedTick,
				FinishedTick: s.Clock,
			})
			s.emit(Event{Type: EventTaskCompleted, TaskID: t.ID, ProcessorID: p.ID})
		}
	}
}

// rebalance runs the monitor over the pool and applies its actions.
// Serialized with respect to the advance phase by construction.
func (s *Simulator) rebalance() {
	actions := s.monitor.Inspect(s.Processors)
	for _, a := range actions {
		if a.Throttle {
			s.throttles++
			s.emit(Event{Type: EventProcessorThrottled, TaskID: a.TaskID, ProcessorID: a.From, Reason: a.Reason})
		}
		if s.Trace != nil {
			s.Trace.RecordMigration(trace.MigrationRecord{
				TaskID:    a.TaskID,
				Clock:     s.Clock,
				From:      a.From,
				To:        a.To,
				Throttled: a.Throttle,
				Reason:    a.Reason,
			})
		}
	}
	s.migrations += s.monitor.ApplyActions(actions, s.procByID)
}

// exhausted reports whether no further arrivals can occur.
func (s *Simulator) exhausted() bool {
	return s.sourceDone && s.held == nil && len(s.retryQ) == 0
}

// poolIdle reports whether every processor queue is empty.
func (s *Simulator) poolIdle() bool {
	for _, p := range s.Processors {
		if p.QueueLen() > 0 {
			return false
		}
	}
	return true
}

// queuedTasks counts tasks currently owned by processors.
func (s *Simulator) queuedTasks() int {
	n := 0
	for _, p := range s.Processors {
		n += p.QueueLen()
	}
	return n
}

// failRemaining marks every non-terminal task failed with the given reason
// and appends its record, so no task is ever silently dropped.
func (s *Simulator) failRemaining(reason string) {
	for _, p := range s.Processors {
		for _, t := range p.drainTasks() {
			s.failTask(t, p.ID, reason)
			p.TasksFailed++
		}
	}
	for _, t := range s.retryQ {
		s.failTask(t, -1, reason)
	}
	s.retryQ = nil
	if s.held != nil {
		s.failTask(s.held, -1, reason)
		s.held = nil
	}
	// Tasks never pulled from the source were not admitted; they stay with
	// the source and are outside the report.
}

func (s *Simulator) failTask(t *Task, processorID int, reason string) {
	if t.Terminal() {
		return
	}
	if err := t.Fail(reason, s.Clock); err != nil {
		logrus.Warnf("[tick %07d] %v", s.Clock, err)
		return
	}
	s.records = append(s.records, AssignmentRecord{
		TaskID:       t.ID,
		ProcessorID:  processorID,
		AssignedTick: t.AssignedTick,
		FinishedTick: s.Clock,
		Failed:       true,
		FailReason:   reason,
	})
	s.emit(Event{Type: EventTaskFailed, TaskID: t.ID, ProcessorID: processorID, Reason: reason})
}
