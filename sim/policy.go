package sim

import "fmt"

// Assignment policy names accepted by NewAssignmentPolicy.
const (
	PolicyBestAffinity = "best-affinity"
	PolicyLeastLoaded  = "least-loaded"
	PolicyRoundRobin   = "round-robin"
)

// AssignmentPolicy chooses a processor for an incoming task.
// Select must be a pure function of the task and the current processor
// states: identical inputs return the same processor.
// It returns ErrNoCapacity when no processor can accept the task; the
// simulation loop then re-queues the task for retry on the next tick.
type AssignmentPolicy interface {
	Select(t *Task, processors []*Processor) (*Processor, error)
}

// BestAffinity selects, among processors that can accept the task, the one
// maximizing Affinity. Ties break by lowest current load, then by lowest ID,
// giving a deterministic, reproducible ordering.
type BestAffinity struct{}

func (ba *BestAffinity) Select(t *Task, processors []*Processor) (*Processor, error) {
	var best *Processor
	bestScore := -1.0
	for _, p := range processors {
		if !p.CanAccept(t) {
			continue
		}
		score := p.Affinity(t)
		switch {
		case best == nil,
			score > bestScore,
			score == bestScore && p.LoadLevel < best.LoadLevel,
			score == bestScore && p.LoadLevel == best.LoadLevel && p.ID < best.ID:
			best = p
			bestScore = score
		}
	}
	if best == nil {
		return nil, ErrNoCapacity
	}
	return best, nil
}

// LeastLoaded ignores affinity and picks the accepting processor with the
// lowest load level, ties broken by lowest ID.
type LeastLoaded struct{}

func (ll *LeastLoaded) Select(t *Task, processors []*Processor) (*Processor, error) {
	var best *Processor
	for _, p := range processors {
		if !p.CanAccept(t) {
			continue
		}
		if best == nil || p.LoadLevel < best.LoadLevel ||
			(p.LoadLevel == best.LoadLevel && p.ID < best.ID) {
			best = p
		}
	}
	if best == nil {
		return nil, ErrNoCapacity
	}
	return best, nil
}

// RoundRobin cycles through the pool, skipping processors that cannot
// accept the task. The cursor only moves on successful selection, so the
// policy stays deterministic under capacity rejections.
type RoundRobin struct {
	cursor int
}

func (rr *RoundRobin) Select(t *Task, processors []*Processor) (*Processor, error) {
	n := len(processors)
	for i := 0; i < n; i++ {
		p := processors[(rr.cursor+i)%n]
		if p.CanAccept(t) {
			rr.cursor = (rr.cursor + i + 1) % n
			return p, nil
		}
	}
	return nil, ErrNoCapacity
}

// IsValidPolicy returns true for recognized policy names.
// Empty string is valid and defaults to best-affinity.
func IsValidPolicy(name string) bool {
	switch name {
	case "", PolicyBestAffinity, PolicyLeastLoaded, PolicyRoundRobin:
		return true
	}
	return false
}

// AvailablePolicies lists the supported assignment policy names.
func AvailablePolicies() []string {
	return []string{PolicyBestAffinity, PolicyLeastLoaded, PolicyRoundRobin}
}

// NewAssignmentPolicy creates an AssignmentPolicy by name.
// Empty string defaults to BestAffinity. Panics on unrecognized names.
func NewAssignmentPolicy(name string) AssignmentPolicy {
	switch name {
	case "", PolicyBestAffinity:
		return &BestAffinity{}
	case PolicyLeastLoaded:
		return &LeastLoaded{}
	case PolicyRoundRobin:
		return &RoundRobin{}
	default:
		panic(fmt.Sprintf("unknown assignment policy %q", name))
	}
}
