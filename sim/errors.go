package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrOverloaded is returned by Processor.Assign when accepting the task
	// would push the load level past the saturation cap.
	ErrOverloaded = errors.New("processor cannot accept task")

	// ErrNoCapacity is returned by an AssignmentPolicy when no processor in
	// the pool can accept the task. The simulation loop re-queues the task
	// for retry on the next tick; it is never dropped.
	ErrNoCapacity = errors.New("no processor has capacity")
)

// OverloadError carries the rejection context for a failed Assign call.
// Unwraps to ErrOverloaded so callers can match with errors.Is.
type OverloadError struct {
	ProcessorID int
	TaskID      int64
	Load        float64
	Cost        float64
	Cap         float64
}

func (e *OverloadError) Error() string {
	return fmt.Sprintf("processor %d cannot accept task %d: load %.1f + cost %.1f exceeds cap %.1f",
		e.ProcessorID, e.TaskID, e.Load, e.Cost, e.Cap)
}

func (e *OverloadError) Unwrap() error {
	return ErrOverloaded
}
