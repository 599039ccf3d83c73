package control

import (
	"github.com/sarchlab/tilesim/fatal"
	"github.com/sarchlab/tilesim/transport"
	"github.com/sirupsen/logrus"
)

// Topology is the slice of the configuration contract (spec.md §6) the
// MCP needs to fan broadcasts out to every process and to every core.
type Topology interface {
	TotalCores() int
	ProcessCount() int
	CoreListForProcess(proc int) []transport.CoreID
	MCPCoreID() transport.CoreID
}

// SysCallHandler forwards a syscall argument buffer to the host OS and
// returns the response to send back to the caller, per spec.md §4.4's
// SYS_CALL row.
type SysCallHandler interface {
	HandleSysCall(sender transport.CoreID, args []byte) []byte
}

// UtilizationSink feeds the analytical network model, per spec.md §4.4's
// UTILIZATION_UPDATE row.
type UtilizationSink interface {
	UpdateUtilization(sender transport.CoreID, payload []byte)
}

// MCP is the Master Control Process: the single cluster-wide arbiter for
// syscalls, sync primitives, and comm-map broadcasts. Grounded
// line-for-line on original_source/common/system/mcp.cc.
type MCP struct {
	network  *transport.Network
	topology Topology
	syscalls SysCallHandler
	util     UtilizationSink
	sync     *SyncServer

	finished bool
	log      *logrus.Entry
}

// NewMCP constructs the MCP. network must be the Network endpoint bound
// to topology.MCPCoreID().
func NewMCP(network *transport.Network, topology Topology, syscalls SysCallHandler, util UtilizationSink) *MCP {
	m := &MCP{
		network:  network,
		topology: topology,
		syscalls: syscalls,
		util:     util,
		log:      logrus.WithField("component", "mcp"),
	}
	m.sync = NewSyncServer(m.unblock)
	return m
}

// unblock sends a RESPONSE packet to core, the deferred-reply mechanism
// SyncServer uses to wake a blocked requester.
func (m *MCP) unblock(core transport.CoreID, payload []byte) {
	if err := m.network.NetSend(transport.NetPacket{
		Sender:   m.topology.MCPCoreID(),
		Receiver: core,
		Type:     transport.PacketResponse,
		Data:     payload,
	}); err != nil {
		fatal.Fail("MCP: failed to send deferred reply to core %d: %v", core, err)
	}
}

// Run processes exactly one MCP-addressed packet: receives a REQUEST or
// SYSTEM-typed packet, decodes the message tag, and dispatches. Callers
// loop `for !mcp.Finished() { mcp.Run() }`.
func (m *MCP) Run() {
	pkt := m.network.NetRecv(transport.Match(transport.PacketRequest, transport.PacketSystem))
	tag := decodeMCPTag(pkt.Data)
	payload := pkt.Data[4:]

	m.log.WithField("tag", tag.String()).Debug("MCP message")

	switch tag {
	case MCPSysCall:
		resp := m.syscalls.HandleSysCall(pkt.Sender, payload)
		if err := m.network.NetSend(transport.NetPacket{
			Sender: m.topology.MCPCoreID(), Receiver: pkt.Sender,
			Type: transport.PacketResponse, Data: resp,
		}); err != nil {
			fatal.Fail("MCP: SYS_CALL response send failed: %v", err)
		}

	case MCPQuit:
		m.log.Debug("quit message received")
		m.finished = true

	case MCPMutexInit:
		m.sync.MutexInit(decodeInt32(payload))
	case MCPMutexLock:
		id, core := decodeIDAndCore(payload)
		m.sync.MutexLock(id, transport.CoreID(core))
	case MCPMutexUnlock:
		id, core := decodeIDAndCore(payload)
		m.sync.MutexUnlock(id, transport.CoreID(core))

	case MCPCondInit:
		m.sync.CondInit(decodeInt32(payload))
	case MCPCondWait:
		id, core := decodeIDAndCore(payload)
		m.sync.CondWait(id, transport.CoreID(core))
	case MCPCondSignal:
		m.sync.CondSignal(decodeInt32(payload))
	case MCPCondBroadcast:
		m.sync.CondBroadcast(decodeInt32(payload))

	case MCPBarrierInit:
		id, capacity := decodeIDAndCore(payload)
		m.sync.BarrierInit(id, int(capacity))
	case MCPBarrierWait:
		id, core := decodeIDAndCore(payload)
		m.sync.BarrierWait(id, transport.CoreID(core))

	case MCPUtilizationUpdate:
		m.util.UpdateUtilization(pkt.Sender, payload)

	case MCPBroadcastCommMapUpdate:
		m.broadcastPacketToProcesses(transport.NetPacket{
			Type: transport.PacketCommMapUpdate,
			Data: payload,
		})

	default:
		fatal.Fail("unhandled MCP message type %d from core %d", tag, pkt.Sender)
	}
}

// Finished reports whether this MCP has observed QUIT.
func (m *MCP) Finished() bool {
	return m.finished
}

// Finish sends the MCP its own QUIT message over the network (so it
// observes it through the exact same path any other MCP message would
// take), per spec.md §4.4/mcp.cc. It returns once the message is sent
// and does not wait for the loop; callers poll Finished.
func (m *MCP) Finish() {
	m.log.Debug("send MCP quit message")

	if err := m.network.NetSend(transport.NetPacket{
		Sender: m.topology.MCPCoreID(), Receiver: m.topology.MCPCoreID(),
		Type: transport.PacketSystem, Data: encodeMCPTag(MCPQuit),
	}); err != nil {
		fatal.Fail("MCP.Finish: %v", err)
	}
}

// broadcastPacketToProcesses fans pkt out to exactly one representative
// core per process, strictly sequentially: send, then block for that
// process's RESPONSE ack, before moving to the next process. This is
// what makes a BROADCAST_COMM_MAP_UPDATE observed by any application
// thread imply every earlier broadcast has fully propagated, per
// spec.md §5.
func (m *MCP) broadcastPacketToProcesses(pkt transport.NetPacket) {
	pkt.Sender = m.topology.MCPCoreID()

	for proc := 0; proc < m.topology.ProcessCount(); proc++ {
		cores := m.topology.CoreListForProcess(proc)
		pkt.Receiver = cores[0]

		m.log.WithField("core", pkt.Receiver).Debug("sending process broadcast")

		if err := m.network.NetSend(pkt); err != nil {
			fatal.Fail("MCP.broadcastPacketToProcesses: %v", err)
		}

		m.network.NetRecv(transport.Match(transport.PacketResponse))
	}
}
