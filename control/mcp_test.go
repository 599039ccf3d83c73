package control

import (
	"sync"
	"testing"

	"github.com/sarchlab/tilesim/transport"
	"github.com/stretchr/testify/require"
)

type fakeSyscalls struct{}

func (fakeSyscalls) HandleSysCall(sender transport.CoreID, args []byte) []byte { return args }

type fakeUtilSink struct{}

func (fakeUtilSink) UpdateUtilization(sender transport.CoreID, payload []byte) {}

type fakeTopology struct {
	totalCores   int
	processCount int
	cores        [][]transport.CoreID
	mcpCore      transport.CoreID
}

func (f fakeTopology) TotalCores() int   { return f.totalCores }
func (f fakeTopology) ProcessCount() int { return f.processCount }
func (f fakeTopology) CoreListForProcess(proc int) []transport.CoreID { return f.cores[proc] }
func (f fakeTopology) MCPCoreID() transport.CoreID                    { return f.mcpCore }

// TestMCPBroadcastPropagation exercises scenario 5 of spec.md §8: a
// BROADCAST_COMM_MAP_UPDATE fans out to exactly one representative core
// per process, strictly sequentially (send, then wait for that
// process's RESPONSE ack, before the next process).
func TestMCPBroadcastPropagation(t *testing.T) {
	const numProcesses = 3
	mcpCore := transport.CoreID(100)
	mcpProcess := transport.ProcessID(numProcesses + 1)
	requesterCore := transport.CoreID(10)
	requesterProcess := transport.ProcessID(numProcesses)

	fabric := transport.NewFabric(numProcesses + 2)
	coreProc := map[transport.CoreID]transport.ProcessID{
		mcpCore:       mcpProcess,
		requesterCore: requesterProcess,
	}
	cores := make([][]transport.CoreID, numProcesses)
	for p := 0; p < numProcesses; p++ {
		coreProc[transport.CoreID(p)] = transport.ProcessID(p)
		cores[p] = []transport.CoreID{transport.CoreID(p)}
	}
	coreProcFn := func(c transport.CoreID) transport.ProcessID { return coreProc[c] }

	mcpNetwork := transport.NewNetwork(mcpCore, fabric.Endpoint(mcpProcess), coreProcFn)
	mcp := NewMCP(mcpNetwork, fakeTopology{
		totalCores:   numProcesses + 1,
		processCount: numProcesses,
		cores:        cores,
		mcpCore:      mcpCore,
	}, fakeSyscalls{}, fakeUtilSink{})

	received := make([][]byte, numProcesses)
	var wg sync.WaitGroup
	wg.Add(numProcesses)
	for p := 0; p < numProcesses; p++ {
		p := p
		network := transport.NewNetwork(transport.CoreID(p), fabric.Endpoint(transport.ProcessID(p)), coreProcFn)
		go func() {
			defer wg.Done()
			pkt := network.NetRecv(transport.Match(transport.PacketCommMapUpdate))
			received[p] = pkt.Data
			require.NoError(t, network.NetSend(transport.NetPacket{
				Sender: transport.CoreID(p), Receiver: mcpCore, Type: transport.PacketResponse,
			}))
		}()
	}

	requesterNetwork := transport.NewNetwork(requesterCore, fabric.Endpoint(requesterProcess), coreProcFn)
	update := CommIDUpdate{CommID: 1, CoreID: 2}
	require.NoError(t, SendBroadcastCommMapUpdate(requesterNetwork, mcpCore, requesterCore, update))

	mcp.Run()
	wg.Wait()

	for p := 0; p < numProcesses; p++ {
		require.Equal(t, update, decodeCommIDUpdate(received[p]))
	}
}

// TestMCPFinishObservesQuit exercises the MCP side of scenario 6 of
// spec.md §8: MCP.Finish followed by the loop observing QUIT.
func TestMCPFinishObservesQuit(t *testing.T) {
	mcpCore := transport.CoreID(1)
	fabric := transport.NewFabric(1)
	coreProcFn := func(transport.CoreID) transport.ProcessID { return 0 }

	network := transport.NewNetwork(mcpCore, fabric.Endpoint(0), coreProcFn)
	mcp := NewMCP(network, fakeTopology{mcpCore: mcpCore, processCount: 0, totalCores: 1, cores: nil}, fakeSyscalls{}, fakeUtilSink{})

	mcp.Finish()
	mcp.Run()

	require.True(t, mcp.Finished())
}

// TestMCPSysCallRoundTrip exercises the SYS_CALL row of spec.md §4.4.
func TestMCPSysCallRoundTrip(t *testing.T) {
	mcpCore := transport.CoreID(1)
	callerCore := transport.CoreID(2)
	fabric := transport.NewFabric(2)
	coreProc := map[transport.CoreID]transport.ProcessID{mcpCore: 0, callerCore: 1}
	coreProcFn := func(c transport.CoreID) transport.ProcessID { return coreProc[c] }

	mcpNetwork := transport.NewNetwork(mcpCore, fabric.Endpoint(0), coreProcFn)
	mcp := NewMCP(mcpNetwork, fakeTopology{mcpCore: mcpCore, processCount: 0, totalCores: 2}, fakeSyscalls{}, fakeUtilSink{})

	callerNetwork := transport.NewNetwork(callerCore, fabric.Endpoint(1), coreProcFn)

	var resp []byte
	done := make(chan struct{})
	go func() {
		resp = SendSysCall(callerNetwork, mcpCore, callerCore, []byte("hello"))
		close(done)
	}()

	mcp.Run()
	<-done

	require.Equal(t, []byte("hello"), resp)
}
