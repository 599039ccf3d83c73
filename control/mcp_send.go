package control

import "github.com/sarchlab/tilesim/transport"

// sendToMCP builds and sends an MCP-addressed packet of type class
// typ carrying tag followed by payload, from self to mcpCore.
func sendToMCP(
	network *transport.Network,
	mcpCore, self transport.CoreID,
	typ transport.PacketType,
	tag MCPTag,
	payload []byte,
) error {
	data := append(encodeMCPTag(tag), payload...)
	return network.NetSend(transport.NetPacket{
		Sender: self, Receiver: mcpCore, Type: typ, Data: data,
	})
}

// SendSysCall forwards a syscall argument buffer to the MCP and returns
// its response, per spec.md §4.4's SYS_CALL row.
func SendSysCall(network *transport.Network, mcpCore, self transport.CoreID, args []byte) []byte {
	if err := sendToMCP(network, mcpCore, self, transport.PacketSystem, MCPSysCall, args); err != nil {
		panic(err)
	}
	resp := network.NetRecv(transport.Match(transport.PacketResponse))
	return resp.Data
}

// SendMCPQuit sends the MCP a QUIT message.
func SendMCPQuit(network *transport.Network, mcpCore, self transport.CoreID) error {
	return sendToMCP(network, mcpCore, self, transport.PacketSystem, MCPQuit, nil)
}

// SendMutexInit requests a new mutex.
func SendMutexInit(network *transport.Network, mcpCore, self transport.CoreID, mutexID int32) error {
	return sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPMutexInit, encodeInt32(mutexID))
}

// SendMutexLock requests mutexID and blocks until the MCP's deferred
// reply grants it.
func SendMutexLock(network *transport.Network, mcpCore, self transport.CoreID, mutexID int32) {
	if err := sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPMutexLock, encodeIDAndCore(mutexID, int32(self))); err != nil {
		panic(err)
	}
	network.NetRecv(transport.Match(transport.PacketResponse))
}

// SendMutexUnlock releases mutexID.
func SendMutexUnlock(network *transport.Network, mcpCore, self transport.CoreID, mutexID int32) {
	if err := sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPMutexUnlock, encodeIDAndCore(mutexID, int32(self))); err != nil {
		panic(err)
	}
	network.NetRecv(transport.Match(transport.PacketResponse))
}

// SendCondInit requests a new condition variable.
func SendCondInit(network *transport.Network, mcpCore, self transport.CoreID, condID int32) error {
	return sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPCondInit, encodeInt32(condID))
}

// SendCondWait parks on condID until signaled or broadcast to.
func SendCondWait(network *transport.Network, mcpCore, self transport.CoreID, condID int32) {
	if err := sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPCondWait, encodeIDAndCore(condID, int32(self))); err != nil {
		panic(err)
	}
	network.NetRecv(transport.Match(transport.PacketResponse))
}

// SendCondSignal wakes one waiter on condID.
func SendCondSignal(network *transport.Network, mcpCore, self transport.CoreID, condID int32) error {
	return sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPCondSignal, encodeInt32(condID))
}

// SendCondBroadcast wakes every waiter on condID.
func SendCondBroadcast(network *transport.Network, mcpCore, self transport.CoreID, condID int32) error {
	return sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPCondBroadcast, encodeInt32(condID))
}

// SendBarrierInit requests a new barrier sized to capacity.
func SendBarrierInit(network *transport.Network, mcpCore, self transport.CoreID, barrierID, capacity int32) error {
	return sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPBarrierInit, encodeIDAndCore(barrierID, capacity))
}

// SendBarrierWait blocks until capacity peers have called
// SendBarrierWait on the same barrier.
func SendBarrierWait(network *transport.Network, mcpCore, self transport.CoreID, barrierID int32) {
	if err := sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPBarrierWait, encodeIDAndCore(barrierID, int32(self))); err != nil {
		panic(err)
	}
	network.NetRecv(transport.Match(transport.PacketResponse))
}

// SendUtilizationUpdate feeds the analytical network model.
func SendUtilizationUpdate(network *transport.Network, mcpCore, self transport.CoreID, payload []byte) error {
	return sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPUtilizationUpdate, payload)
}

// SendBroadcastCommMapUpdate asks the MCP to fan a comm-map update out
// to every process.
func SendBroadcastCommMapUpdate(network *transport.Network, mcpCore, self transport.CoreID, u CommIDUpdate) error {
	return sendToMCP(network, mcpCore, self, transport.PacketRequest, MCPBroadcastCommMapUpdate, encodeCommIDUpdate(u))
}
