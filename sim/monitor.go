// The rebalancing monitor inspects the pool after every tick and migrates
// queued work away from overloaded or overheated processors.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RebalanceAction is one decision produced by Monitor.Inspect.
// Either a migration (Throttle false, To set) or a throttle warning
// (Throttle true, To unset) for a triggered processor that has queued work
// but no viable destination.
type RebalanceAction struct {
	TaskID int64
	From   int
	To     int
	// Throttle marks backpressure: the processor stays above threshold and
	// its task remains queued. Non-fatal.
	Throttle bool
	Reason   string
}

// Monitor implements the rebalancing policy. Thresholds come from
// configuration; see SimConfig.
type Monitor struct {
	OverloadThreshold float64
	ThermalThreshold  float64
}

// NewMonitor creates a Monitor from the simulation config.
func NewMonitor(cfg SimConfig) *Monitor {
	return &Monitor{
		OverloadThreshold: cfg.OverloadThreshold,
		ThermalThreshold:  cfg.ThermalThreshold,
	}
}

// triggered reports whether a processor is past either threshold.
func (m *Monitor) triggered(p *Processor) bool {
	return p.LoadLevel > m.OverloadThreshold || p.Temperature > m.ThermalThreshold
}

// Inspect walks the pool in ID order and plans at most one migration per
// triggered processor. The planned destination load is tracked across the
// pass so that every action still satisfies CanAccept when applied: two hot
// processors in the same tick cannot both count the same free capacity.
// Inspect does not mutate the pool; ApplyActions performs the migrations.
func (m *Monitor) Inspect(processors []*Processor) []RebalanceAction {
	var actions []RebalanceAction
	plannedLoad := make(map[int]float64, len(processors))

	for _, hot := range processors {
		if !m.triggered(hot) {
			continue
		}
		task := hot.PeekOldestPending()
		if task == nil {
			// Only in-flight work left; nothing migratable this tick.
			continue
		}

		var target *Processor
		for _, cand := range processors {
			if cand.ID == hot.ID || m.triggered(cand) {
				continue
			}
			if cand.LoadLevel+plannedLoad[cand.ID]+task.Cost > cand.saturationCap {
				continue
			}
			if target == nil || cand.LoadLevel+plannedLoad[cand.ID] < target.LoadLevel+plannedLoad[target.ID] ||
				(cand.LoadLevel+plannedLoad[cand.ID] == target.LoadLevel+plannedLoad[target.ID] && cand.ID < target.ID) {
				target = cand
			}
		}

		if target == nil {
			actions = append(actions, RebalanceAction{
				TaskID:   task.ID,
				From:     hot.ID,
				Throttle: true,
				Reason:   fmt.Sprintf("load %.1f temp %.1f, no destination", hot.LoadLevel, hot.Temperature),
			})
			continue
		}

		plannedLoad[target.ID] += task.Cost
		actions = append(actions, RebalanceAction{
			TaskID: task.ID,
			From:   hot.ID,
			To:     target.ID,
			Reason: fmt.Sprintf("load %.1f temp %.1f", hot.LoadLevel, hot.Temperature),
		})
	}
	return actions
}

// ApplyActions executes planned migrations. Removal from the source and
// insertion into the destination happen as one step under the single-threaded
// rebalancing phase, so a task is never visible in two queues.
// Returns the number of migrations actually performed.
func (m *Monitor) ApplyActions(actions []RebalanceAction, processors map[int]*Processor) int {
	migrated := 0
	for _, a := range actions {
		if a.Throttle {
			continue
		}
		src, ok := processors[a.From]
		if !ok {
			logrus.Warnf("rebalance: unknown source processor %d", a.From)
			continue
		}
		dst, ok := processors[a.To]
		if !ok {
			logrus.Warnf("rebalance: unknown destination processor %d", a.To)
			continue
		}
		task := srcTask(src, a.TaskID)
		if task == nil {
			logrus.Warnf("rebalance: task %d no longer on processor %d", a.TaskID, a.From)
			continue
		}
		src.removeTask(task.ID)
		if err := dst.Assign(task); err != nil {
			// Planned capacity was reserved in Inspect; reaching here means
			// the pool mutated between phases. Put the task back.
			logrus.Errorf("rebalance: %v, returning task %d to processor %d", err, task.ID, src.ID)
			if err := src.Assign(task); err != nil {
				logrus.Errorf("rebalance: could not restore task %d: %v", task.ID, err)
			}
			continue
		}
		migrated++
		logrus.Infof("rebalance: moved task %d from processor %d to %d (%s)", a.TaskID, a.From, a.To, a.Reason)
	}
	return migrated
}

func srcTask(p *Processor, taskID int64) *Task {
	for _, t := range p.queue {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}
