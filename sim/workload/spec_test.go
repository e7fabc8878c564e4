package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `
version: "1"
seed: 7
classes:
  - id: heavy-compute
    kind: compute
    count: 10
    priority: 2
    cost:
      type: normal
      params: {mean: 30, stdev: 10, min: 5, max: 60}
    arrival:
      process: poisson
      rate: 0.5
  - id: io-burst
    kind: io
    count: 4
    cost:
      type: fixed
      params: {value: 12}
    arrival:
      process: burst
      at: 3
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWorkloadSpec_ParsesYAML(t *testing.T) {
	spec, err := LoadWorkloadSpec(writeSpec(t, sampleSpec))
	require.NoError(t, err)

	assert.Equal(t, int64(7), spec.Seed)
	require.Len(t, spec.Classes, 2)
	assert.Equal(t, "heavy-compute", spec.Classes[0].ID)
	assert.Equal(t, "compute", spec.Classes[0].Kind)
	assert.Equal(t, 10, spec.Classes[0].Count)
	assert.Equal(t, 30.0, spec.Classes[0].Cost.Params["mean"])
	assert.Equal(t, "burst", spec.Classes[1].Arrival.Process)
	assert.Equal(t, int64(3), spec.Classes[1].Arrival.At)
}

func TestLoadWorkloadSpec_MissingFile(t *testing.T) {
	_, err := LoadWorkloadSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWorkloadSpec_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WorkloadSpec)
	}{
		{"no classes", func(s *WorkloadSpec) { s.Classes = nil }},
		{"missing id", func(s *WorkloadSpec) { s.Classes[0].ID = "" }},
		{"duplicate id", func(s *WorkloadSpec) { s.Classes[1].ID = s.Classes[0].ID }},
		{"unknown kind", func(s *WorkloadSpec) { s.Classes[0].Kind = "gpu" }},
		{"zero count", func(s *WorkloadSpec) { s.Classes[0].Count = 0 }},
		{"bad distribution", func(s *WorkloadSpec) { s.Classes[0].Cost.Type = "zipf" }},
		{"zero rate", func(s *WorkloadSpec) { s.Classes[0].Arrival.Rate = 0 }},
		{"bad process", func(s *WorkloadSpec) { s.Classes[0].Arrival.Process = "weibull" }},
		{"negative fixed value", func(s *WorkloadSpec) {
			s.Classes[1].Cost.Params = map[string]float64{"value": -1}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := LoadWorkloadSpec(writeSpec(t, sampleSpec))
			require.NoError(t, err)
			tc.mutate(spec)
			assert.Error(t, spec.Validate())
		})
	}
}
