package cluster

import (
	"testing"

	"github.com/sarchlab/tilesim/config"
	"github.com/sarchlab/tilesim/transport"
	"github.com/stretchr/testify/require"
)

const testClusterYAML = `
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
    cores: [0, 1]
  1:
    cores: [2, 3]
cores:
  1:
    model: iocoom
    frequency: 2.5
  3:
    pep_model: magic
`

func buildTestContext(t *testing.T) *Context {
	cfg, err := config.Parse([]byte(testClusterYAML))
	require.NoError(t, err)
	return NewBuilder().WithConfig(cfg).Build()
}

func TestBuilderWiresEveryConfiguredTile(t *testing.T) {
	ctx := buildTestContext(t)

	require.Len(t, ctx.Tiles, 5)
	for core := transport.CoreID(0); core < 5; core++ {
		tile := ctx.Tiles[core]
		require.NotNil(t, tile)
		require.Equal(t, core, tile.Core)
		require.NotNil(t, tile.Model)
	}
	require.NotNil(t, ctx.Tiles[3].PepModel)
	require.Nil(t, ctx.Tiles[0].PepModel)
}

func TestBuilderAssignsRepresentativeCorePerProcess(t *testing.T) {
	ctx := buildTestContext(t)

	require.Len(t, ctx.Procs, 2)
	require.Equal(t, []transport.CoreID{0, 1}, ctx.Procs[0].Cores)
	require.Equal(t, []transport.CoreID{2, 3}, ctx.Procs[1].Cores)
	require.NotNil(t, ctx.Procs[0].Network)
	require.NotNil(t, ctx.Procs[1].Network)
}

func TestBuilderGivesMCPItsOwnProcessSlot(t *testing.T) {
	ctx := buildTestContext(t)

	require.Equal(t, transport.CoreID(4), ctx.MCPCore)
	require.Equal(t, transport.ProcessID(2), ctx.ProcessForCore(ctx.MCPCore))
	require.Nil(t, ctx.ProcessOf(ctx.MCPCore))

	for _, p := range ctx.Procs {
		for _, core := range p.Cores {
			require.Equal(t, p.ID, ctx.ProcessForCore(core))
			require.Same(t, p, ctx.ProcessOf(core))
		}
	}
}
