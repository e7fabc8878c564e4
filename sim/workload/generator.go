package workload

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/loadsim/loadsim/sim"
)

// GenerateTasks creates a task sequence from a WorkloadSpec.
// Deterministic given the same spec and seed: each class draws from its own
// partitioned RNG stream, and the merged sequence is sorted by arrival tick
// with class order as the tie-break before sequential IDs are assigned.
func GenerateTasks(spec *WorkloadSpec) ([]*sim.Task, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))

	type protoTask struct {
		classIdx int
		kind     sim.TaskKind
		cost     float64
		priority int
		arrival  int64
	}
	var protos []protoTask

	for i := range spec.Classes {
		class := &spec.Classes[i]
		classRNG := rng.ForSubsystem(sim.SubsystemClass(class.ID))

		arrivalSampler, err := NewArrivalSampler(class.Arrival)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", class.ID, err)
		}
		costSampler, err := newCostSampler(class.Cost)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", class.ID, err)
		}

		currentTick := class.Arrival.At
		for n := 0; n < class.Count; n++ {
			currentTick += arrivalSampler.SampleIAT(classRNG)
			protos = append(protos, protoTask{
				classIdx: i,
				kind:     sim.TaskKind(class.Kind),
				cost:     costSampler(classRNG),
				priority: class.Priority,
				arrival:  currentTick,
			})
		}
	}

	sort.SliceStable(protos, func(i, j int) bool {
		if protos[i].arrival != protos[j].arrival {
			return protos[i].arrival < protos[j].arrival
		}
		return protos[i].classIdx < protos[j].classIdx
	})

	tasks := make([]*sim.Task, 0, len(protos))
	for i, p := range protos {
		t, err := sim.NewTask(int64(i), p.kind, p.cost, p.priority, p.arrival)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// newCostSampler builds a cost draw function from a validated DistSpec.
// All samplers clamp to a positive minimum so generated tasks are valid.
func newCostSampler(spec DistSpec) (func(*rand.Rand) float64, error) {
	const floor = 0.1
	switch spec.Type {
	case "fixed":
		value := spec.Params["value"]
		return func(_ *rand.Rand) float64 { return value }, nil
	case "uniform":
		lo, hi := spec.Params["min"], spec.Params["max"]
		return func(rng *rand.Rand) float64 {
			return lo + rng.Float64()*(hi-lo)
		}, nil
	case "normal":
		mean, stdev := spec.Params["mean"], spec.Params["stdev"]
		lo, hi := spec.Params["min"], spec.Params["max"]
		return func(rng *rand.Rand) float64 {
			v := mean + rng.NormFloat64()*stdev
			if lo > 0 && v < lo {
				v = lo
			}
			if hi > 0 && v > hi {
				v = hi
			}
			if v < floor {
				v = floor
			}
			return v
		}, nil
	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
