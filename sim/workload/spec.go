package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loadsim/loadsim/sim"
)

// WorkloadSpec is the top-level workload configuration.
// Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Version string      `yaml:"version"`
	Seed    int64       `yaml:"seed"`
	Classes []ClassSpec `yaml:"classes"`
}

// ClassSpec defines one class of tasks: its kind, how many arrive, how
// their cost is distributed, and the arrival process pacing them.
type ClassSpec struct {
	ID       string      `yaml:"id"`
	Kind     string      `yaml:"kind"`
	Count    int         `yaml:"count"`
	Priority int         `yaml:"priority,omitempty"`
	Cost     DistSpec    `yaml:"cost"`
	Arrival  ArrivalSpec `yaml:"arrival"`
}

// DistSpec parameterizes a cost distribution.
// Types: fixed {value}, uniform {min, max}, normal {mean, stdev, min, max}.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// ArrivalSpec configures the inter-arrival process.
// Processes: poisson {rate}, uniform {rate}, burst {at}.
type ArrivalSpec struct {
	Process string  `yaml:"process"`
	Rate    float64 `yaml:"rate,omitempty"` // tasks per tick
	At      int64   `yaml:"at,omitempty"`   // burst: the tick every task arrives at
}

// LoadWorkloadSpec reads and validates a workload spec from a YAML file.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workload spec: %w", err)
	}
	var spec WorkloadSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse workload spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the spec for values the generator cannot work with.
func (s *WorkloadSpec) Validate() error {
	if len(s.Classes) == 0 {
		return fmt.Errorf("workload spec has no classes")
	}
	seen := make(map[string]bool, len(s.Classes))
	for i := range s.Classes {
		c := &s.Classes[i]
		if c.ID == "" {
			return fmt.Errorf("class %d: missing id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("class %q: duplicate id", c.ID)
		}
		seen[c.ID] = true
		if !sim.IsValidTaskKind(sim.TaskKind(c.Kind)) {
			return fmt.Errorf("class %q: unknown kind %q", c.ID, c.Kind)
		}
		if c.Count <= 0 {
			return fmt.Errorf("class %q: count must be positive, got %d", c.ID, c.Count)
		}
		if err := c.Cost.validate(); err != nil {
			return fmt.Errorf("class %q cost: %w", c.ID, err)
		}
		if err := c.Arrival.validate(); err != nil {
			return fmt.Errorf("class %q arrival: %w", c.ID, err)
		}
	}
	return nil
}

func (d DistSpec) validate() error {
	switch d.Type {
	case "fixed":
		if d.Params["value"] <= 0 {
			return fmt.Errorf("fixed distribution needs positive value")
		}
	case "uniform":
		if d.Params["min"] <= 0 || d.Params["max"] < d.Params["min"] {
			return fmt.Errorf("uniform distribution needs 0 < min <= max")
		}
	case "normal":
		if d.Params["mean"] <= 0 || d.Params["stdev"] < 0 {
			return fmt.Errorf("normal distribution needs positive mean and non-negative stdev")
		}
	default:
		return fmt.Errorf("unknown distribution type %q", d.Type)
	}
	return nil
}

func (a ArrivalSpec) validate() error {
	switch a.Process {
	case "poisson", "uniform":
		if a.Rate <= 0 {
			return fmt.Errorf("%s arrival needs positive rate", a.Process)
		}
	case "burst":
		if a.At < 0 {
			return fmt.Errorf("burst arrival tick must be non-negative")
		}
	default:
		return fmt.Errorf("unknown arrival process %q", a.Process)
	}
	return nil
}
