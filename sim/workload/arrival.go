package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// ArrivalSampler generates inter-arrival times for one workload class.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in ticks.
	// Always non-negative; burst processes return 0.
	SampleIAT(rng *rand.Rand) int64
}

// PoissonSampler generates exponentially-distributed inter-arrival times.
type PoissonSampler struct {
	rate float64 // tasks per tick
}

func (s *PoissonSampler) SampleIAT(rng *rand.Rand) int64 {
	iat := int64(rng.ExpFloat64() / s.rate)
	if iat < 1 {
		return 1
	}
	return iat
}

// UniformSampler spaces arrivals evenly at 1/rate ticks.
type UniformSampler struct {
	interval int64
}

func (s *UniformSampler) SampleIAT(_ *rand.Rand) int64 {
	return s.interval
}

// BurstSampler makes every task in the class arrive at the same tick.
// The generator adds the configured base tick; the IAT is always zero.
type BurstSampler struct{}

func (s *BurstSampler) SampleIAT(_ *rand.Rand) int64 {
	return 0
}

// NewArrivalSampler builds a sampler from a validated ArrivalSpec.
func NewArrivalSampler(spec ArrivalSpec) (ArrivalSampler, error) {
	switch spec.Process {
	case "poisson":
		return &PoissonSampler{rate: spec.Rate}, nil
	case "uniform":
		interval := int64(math.Max(1, math.Round(1.0/spec.Rate)))
		return &UniformSampler{interval: interval}, nil
	case "burst":
		return &BurstSampler{}, nil
	default:
		return nil, fmt.Errorf("unknown arrival process %q", spec.Process)
	}
}
