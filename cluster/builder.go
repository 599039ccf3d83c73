package cluster

import (
	"github.com/sarchlab/tilesim/config"
	"github.com/sarchlab/tilesim/control"
	"github.com/sarchlab/tilesim/perfmodel"
	"github.com/sarchlab/tilesim/transport"
	"github.com/sirupsen/logrus"
)

// Builder assembles a Context from a config.Store, following the
// teacher's fluent value-receiver builder pattern (runner/mesh.go,
// runner/gpu.go): each With* method returns a modified copy, and Build
// does the actual wiring.
type Builder struct {
	cfg *config.Store
}

// NewBuilder creates an empty Builder.
func NewBuilder() Builder {
	return Builder{}
}

// WithConfig installs the configuration store the cluster is assembled
// from.
func (b Builder) WithConfig(cfg *config.Store) Builder {
	b.cfg = cfg
	return b
}

// Build wires processes, tiles, the LCP per process, and the single
// cluster-wide MCP, per spec.md §4.6/§6's configuration contract. It
// does not start any goroutines; call Context.Run for that.
func (b Builder) Build() *Context {
	cfg := b.cfg
	numProcesses := cfg.ProcessCount()
	mcpCore := transport.CoreID(cfg.MCPCoreNum())
	mcpProcess := transport.ProcessID(numProcesses)

	fabric := transport.NewFabric(numProcesses + 1)

	coreProc := make(map[transport.CoreID]transport.ProcessID)
	processCores := make([][]transport.CoreID, numProcesses)
	for p := 0; p < numProcesses; p++ {
		for _, core := range cfg.CoreListForProcess(p) {
			coreProc[transport.CoreID(core)] = transport.ProcessID(p)
			processCores[p] = append(processCores[p], transport.CoreID(core))
		}
	}
	coreProc[mcpCore] = mcpProcess

	coreProcFn := func(c transport.CoreID) transport.ProcessID { return coreProc[c] }

	ctx := &Context{
		Config:     cfg,
		Fabric:     fabric,
		Tiles:      make(map[transport.CoreID]*Tile),
		MCPCore:    mcpCore,
		mcpProcess: mcpProcess,
		coreProc:   coreProc,
	}

	for core := 0; core < cfg.TotalCores(); core++ {
		ctx.Tiles[transport.CoreID(core)] = b.buildTile(cfg, transport.CoreID(core), mcpCore)
	}

	for p := 0; p < numProcesses; p++ {
		ctx.Procs = append(ctx.Procs, b.buildProcess(cfg, fabric, coreProcFn, transport.ProcessID(p), processCores[p]))
	}

	mcpNetwork := transport.NewNetwork(mcpCore, fabric.Endpoint(mcpProcess), coreProcFn)
	ctx.MCP = control.NewMCP(mcpNetwork, topology{ctx: ctx},
		noopSyscalls{log: logrus.WithField("component", "cluster.mcp.syscalls")},
		newUtilizationTracker())

	return ctx
}

func (b Builder) buildTile(cfg *config.Store, core, mcpCore transport.CoreID) *Tile {
	isMCP := core == mcpCore
	t := &Tile{Core: core}

	modelName := cfg.CoreType(int(core))
	t.Model = perfmodel.NewForCoreType(perfmodel.CoreTypeMain, modelName, cfg.CoreFrequency(int(core)), isMCP)

	pepName := cfg.PepCoreType(int(core))
	if pepName != "none" {
		t.PepModel = perfmodel.NewForCoreType(perfmodel.CoreTypePep, pepName, cfg.CoreFrequency(int(core)), isMCP)
	}

	return t
}

func (b Builder) buildProcess(
	cfg *config.Store,
	fabric *transport.Fabric,
	coreProcFn func(transport.CoreID) transport.ProcessID,
	procID transport.ProcessID,
	cores []transport.CoreID,
) *Process {
	t := fabric.Endpoint(procID)
	commMap := control.NewCommMap()
	hooks := newSimHooks(int(procID))

	var network *transport.Network
	var selfCore transport.CoreID
	if len(cores) > 0 {
		selfCore = cores[0]
		network = transport.NewNetwork(selfCore, t, coreProcFn)
	}

	threads := newThreadManager(network, selfCore)
	lcp := control.NewLCP(procID, t, commMap, threads, hooks)

	return &Process{
		ID:        procID,
		Cores:     cores,
		LCP:       lcp,
		CommMap:   commMap,
		Network:   network,
		Transport: t,
	}
}
