package sim

import "fmt"

// SimConfig groups the parameters consumed at simulation start.
type SimConfig struct {
	ProcessorCount int // size of the processor pool (specialties cycle compute, memory, io)

	OverloadThreshold float64 // load level above which the monitor triggers rebalancing
	ThermalThreshold  float64 // temperature above which the monitor triggers rebalancing
	SaturationCap     float64 // maximum load a processor can hold before refusing work

	BaselineTemp     float64 // resting temperature an idle unit decays toward
	LowLoadThreshold float64 // load below which temperature decays instead of rising

	MaxTicks int64  // tick budget; exceeding it fails remaining tasks, non-fatally
	Seed     int64  // deterministic randomness source
	Policy   string // assignment policy name; "" defaults to best-affinity
}

// DefaultSimConfig mirrors the thresholds of the original load balancer:
// rebalance above 70% load, thermal trip at 80°C over a 40°C baseline.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		ProcessorCount:    4,
		OverloadThreshold: 70.0,
		ThermalThreshold:  80.0,
		SaturationCap:     100.0,
		BaselineTemp:      40.0,
		LowLoadThreshold:  10.0,
		MaxTicks:          10000,
		Seed:              42,
		Policy:            PolicyBestAffinity,
	}
}

// Validate rejects configurations the simulator cannot run with.
func (c SimConfig) Validate() error {
	if c.ProcessorCount <= 0 {
		return fmt.Errorf("processor count must be positive, got %d", c.ProcessorCount)
	}
	if c.SaturationCap <= 0 {
		return fmt.Errorf("saturation cap must be positive, got %v", c.SaturationCap)
	}
	if c.OverloadThreshold <= 0 || c.OverloadThreshold > c.SaturationCap {
		return fmt.Errorf("overload threshold %v must be in (0, %v]", c.OverloadThreshold, c.SaturationCap)
	}
	if c.ThermalThreshold <= c.BaselineTemp {
		return fmt.Errorf("thermal threshold %v must exceed baseline %v", c.ThermalThreshold, c.BaselineTemp)
	}
	if c.LowLoadThreshold < 0 || c.LowLoadThreshold > c.SaturationCap {
		return fmt.Errorf("low-load threshold %v must be in [0, %v]", c.LowLoadThreshold, c.SaturationCap)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("max ticks must be positive, got %d", c.MaxTicks)
	}
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("unknown assignment policy %q", c.Policy)
	}
	return nil
}
