// Package cluster assembles the pieces spec.md names as external
// collaborators — config, transport, perfmodel, control — into a running
// topology: a fixed number of host processes, each with its own LCP and
// a slice of tiles, plus one cluster-wide MCP. Grounded on the teacher's
// runner/mesh.go + runner/gpu.go builder pattern and model8/runner/tile.go's
// per-tile construction.
package cluster

import (
	"runtime"

	"github.com/sarchlab/tilesim/config"
	"github.com/sarchlab/tilesim/control"
	"github.com/sarchlab/tilesim/fatal"
	"github.com/sarchlab/tilesim/perfmodel"
	"github.com/sarchlab/tilesim/transport"
)

// Tile is one core's worth of assembled state: its performance model,
// and its optional pep co-processor model (nil when the core's pep model
// is configured as "none").
type Tile struct {
	Core     transport.CoreID
	Model    *perfmodel.CorePerfModel
	PepModel *perfmodel.CorePerfModel
}

// Process is one host process's assembled state: its LCP, the comm map
// it owns, and the cores it hosts (index 0 is the representative core
// used for broadcast fan-out and for this process's Network endpoint).
type Process struct {
	ID        transport.ProcessID
	Cores     []transport.CoreID
	LCP       *control.LCP
	CommMap   *control.CommMap
	Network   *transport.Network
	Transport transport.Transport
}

// Context is the assembled, running cluster: every process, every tile,
// the MCP, and the shared fabric beneath them. It is the single
// ambient-global payload the capi package binds to — see capi.Bind.
type Context struct {
	Config *config.Store

	Fabric  *transport.Fabric
	Tiles   map[transport.CoreID]*Tile
	Procs   []*Process
	MCP     *control.MCP
	MCPCore transport.CoreID

	mcpProcess transport.ProcessID
	coreProc   map[transport.CoreID]transport.ProcessID
}

// ProcessForCore returns which host process owns core, including the
// MCP's own dedicated slot.
func (c *Context) ProcessForCore(core transport.CoreID) transport.ProcessID {
	return c.coreProc[core]
}

// ProcessOf returns the assembled Process for a core, or nil if core is
// the MCP's own core.
func (c *Context) ProcessOf(core transport.CoreID) *Process {
	proc := c.coreProc[core]
	for _, p := range c.Procs {
		if p.ID == proc {
			return p
		}
	}
	return nil
}

// Run starts every process's LCP loop, its comm-map update listener,
// and the MCP's loop, each on its own goroutine, and returns
// immediately.
func (c *Context) Run() {
	for _, p := range c.Procs {
		lcp := p.LCP
		go lcp.Run()
		if p.Network != nil {
			go p.listenCommMapUpdates(c.MCPCore)
		}
	}
	mcp := c.MCP
	go func() {
		for !mcp.Finished() {
			mcp.Run()
		}
	}()
}

// listenCommMapUpdates installs every BROADCAST_COMM_MAP_UPDATE fan-out
// packet the MCP addresses to this process's representative core into
// this process's own comm map, then acks it. This is the Network-level
// counterpart to LCP's COMMID_UPDATE dispatch: the MCP's broadcast
// (control.MCP's broadcastPacketToProcesses) targets a core's Network
// directly rather than routing through the LCP's tag protocol, and it
// blocks for a RESPONSE per process before moving to the next one, so
// something has to be listening on that Network and acking it.
func (p *Process) listenCommMapUpdates(mcpCore transport.CoreID) {
	for {
		pkt := p.Network.NetRecv(transport.Match(transport.PacketCommMapUpdate))
		u := control.DecodeCommIDUpdate(pkt.Data)
		p.CommMap.Update(u.CommID, u.CoreID)

		if err := p.Network.NetSend(transport.NetPacket{
			Sender:   p.Cores[0],
			Receiver: mcpCore,
			Type:     transport.PacketResponse,
		}); err != nil {
			fatal.Fail("cluster: comm-map update ack failed: %v", err)
		}
	}
}

// Finish performs the orderly shutdown of spec.md §4.4/§4.3: the MCP is
// told to finish first, then every process's LCP, matching scenario 6 of
// spec.md §8.
func (c *Context) Finish() {
	c.MCP.Finish()
	for !c.MCP.Finished() {
		runtime.Gosched()
	}
	for _, p := range c.Procs {
		p.LCP.Finish()
	}
}
