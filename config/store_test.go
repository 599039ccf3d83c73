package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
total_cores: 5
process_count: 2
mcp_core_num: 4
current_process_num: 0
application_cores: 4
enable_performance_modeling: true
default_core_frequency: 1.0
default_core_model: simple
processes:
  0:
    cores: [0, 1, 4]
  1:
    cores: [2, 3]
cores:
  1:
    model: iocoom
    frequency: 2.5
  3:
    pep_model: magic
`

func TestStoreNamedQueries(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, 5, s.TotalCores())
	require.Equal(t, 2, s.ProcessCount())
	require.Equal(t, 4, s.MCPCoreNum())
	require.Equal(t, 0, s.CurrentProcessNum())
	require.Equal(t, 4, s.ApplicationCores())
	require.True(t, s.EnablePerformanceModeling())

	require.Equal(t, []int{0, 1, 4}, s.CoreListForProcess(0))
	require.Equal(t, []int{2, 3}, s.CoreListForProcess(1))
}

func TestStoreCoreTypeFallsBackToDefault(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "simple", s.CoreType(0))
	require.Equal(t, "iocoom", s.CoreType(1))
	require.Equal(t, 2.5, s.CoreFrequency(1))
	require.Equal(t, 1.0, s.CoreFrequency(0))
}

func TestStorePepCoreTypeDefaultsToNone(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "none", s.PepCoreType(0))
	require.Equal(t, "magic", s.PepCoreType(3))
}

func TestStoreGetOrDefault(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "fallback", s.GetStringOrDefault("missing.key", "fallback"))
	require.Equal(t, 42, s.GetIntOrDefault("missing.key", 42))
	require.Equal(t, false, s.GetBoolOrDefault("missing.key", false))
}
