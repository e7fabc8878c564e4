package sim

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
)

// MetricsSource abstracts where processor-pool calibration numbers come
// from. The core simulation only ever uses SyntheticMetricsSource; the
// host-backed implementation exists for calibrating defaults (pool size,
// capacity) from the machine the simulator runs on.
type MetricsSource interface {
	// ProcessorCount suggests a pool size.
	ProcessorCount() (int, error)
	// BaseCapacity suggests a saturation cap in load units.
	BaseCapacity() (float64, error)
}

// SyntheticMetricsSource returns fixed, configured values. This is the
// implementation the simulation core runs with.
type SyntheticMetricsSource struct {
	Count    int
	Capacity float64
}

func (s *SyntheticMetricsSource) ProcessorCount() (int, error) {
	return s.Count, nil
}

func (s *SyntheticMetricsSource) BaseCapacity() (float64, error) {
	return s.Capacity, nil
}

// HostMetricsSource calibrates from the host via gopsutil: logical CPU
// count for the pool size, nominal clock for the capacity figure. Falls
// back to the given defaults when the platform does not expose a value.
type HostMetricsSource struct {
	FallbackCount    int
	FallbackCapacity float64
}

func (h *HostMetricsSource) ProcessorCount() (int, error) {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logrus.Warnf("host metrics: cpu count unavailable (%v), using fallback %d", err, h.FallbackCount)
		return h.FallbackCount, nil
	}
	return n, nil
}

func (h *HostMetricsSource) BaseCapacity() (float64, error) {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 || infos[0].Mhz <= 0 {
		logrus.Warnf("host metrics: cpu frequency unavailable (%v), using fallback %.1f", err, h.FallbackCapacity)
		return h.FallbackCapacity, nil
	}
	// Scale MHz down to the same order as the default 100-unit cap.
	return infos[0].Mhz / 10.0, nil
}
