package sim

// TaskSource feeds tasks into the simulation loop, pull-based.
// Next returns tasks in non-decreasing ArrivalTick order; nil signals
// exhaustion and the source is never polled again.
type TaskSource interface {
	Next() *Task
}

// SliceSource serves a pre-generated task slice in order.
// The workload generator produces arrival-sorted slices for it.
type SliceSource struct {
	tasks []*Task
	idx   int
}

// NewSliceSource wraps tasks in a TaskSource. The slice is not copied;
// the caller hands over ownership.
func NewSliceSource(tasks []*Task) *SliceSource {
	return &SliceSource{tasks: tasks}
}

// Next returns the next task, or nil once the slice is exhausted.
func (s *SliceSource) Next() *Task {
	if s.idx >= len(s.tasks) {
		return nil
	}
	t := s.tasks[s.idx]
	s.idx++
	return t
}

// Remaining returns how many tasks have not been pulled yet.
func (s *SliceSource) Remaining() int {
	return len(s.tasks) - s.idx
}
