// Package capi exposes the C-callable application surface of spec.md §6
// (grounded on original_source/common/user/capi.h and
// perf_counter_support.cc) as idiomatic Go functions. A C ABI cannot
// carry a Go context.Context or thread-local state, so capi keeps
// exactly the one ambient-global spec.md §9 calls out: a single
// *cluster.Context installed by Bind. Every function below still takes
// the calling core explicitly — Go has no analogue of pthread-local
// storage, and threading the core id through is the idiomatic
// replacement for it.
package capi

import (
	"sync"

	"github.com/sarchlab/tilesim/cluster"
	"github.com/sarchlab/tilesim/control"
	"github.com/sarchlab/tilesim/fatal"
	"github.com/sarchlab/tilesim/transport"
)

var (
	bindMu         sync.Mutex
	defaultContext *cluster.Context
)

// Bind installs the cluster context every exported CAPI_/Carbon*
// function dispatches against. Call once, before any application thread
// touches this package.
func Bind(ctx *cluster.Context) {
	bindMu.Lock()
	defer bindMu.Unlock()
	defaultContext = ctx
}

func current() *cluster.Context {
	bindMu.Lock()
	defer bindMu.Unlock()
	if defaultContext == nil {
		fatal.Fail("capi: Bind was never called")
	}
	return defaultContext
}

// CarbonInitializeThread performs whatever thread-local setup a newly
// spawned application thread needs before calling any other CAPI
// function. The original leaves this "// FIXME: put me some place
// better"; tilesim's threads start with nothing to initialize, since
// core assignment already happened at cluster.Builder.Build time.
func CarbonInitializeThread(core transport.CoreID) {
	current()
}

// CAPI_Initialize registers core as communicator rank, broadcasting the
// mapping to every process's comm map so CAPI_MessageSendW elsewhere can
// resolve rank to a core id, per spec.md §4.3's COMMID_UPDATE row.
func CAPI_Initialize(core transport.CoreID, rank int) error {
	ctx := current()
	proc := ctx.ProcessOf(core)
	if proc == nil {
		fatal.Fail("capi: CAPI_Initialize: core %d has no owning process", core)
	}
	return control.SendBroadcastCommMapUpdate(proc.Network, ctx.MCPCore, core,
		control.CommIDUpdate{CommID: int32(rank), CoreID: int32(core)})
}

// CAPI_rank returns core's own id as its communicator rank. It does not
// consult the comm map, so a different rank bound to core by
// CAPI_Initialize is not reported. The original signature returns the
// rank via an out-parameter (CAPI_return_t CAPI_rank(int *rank));
// idiomatic Go returns it directly alongside the error.
func CAPI_rank(core transport.CoreID) (rank int, err error) {
	ctx := current()
	proc := ctx.ProcessOf(core)
	if proc == nil {
		fatal.Fail("capi: CAPI_rank: core %d has no owning process", core)
	}
	// The comm map only maps rank -> core and offers no reverse lookup,
	// so the core id itself is returned, whatever rank CAPI_Initialize
	// registered for it.
	return int(core), nil
}

// CAPI_MessageSendW sends size bytes of payload from sendEndpoint to
// receiveEndpoint, resolving receiveEndpoint through the caller's
// process comm map, per spec.md §6's message-passing surface
// (CAPI_message_send_w in the original).
func CAPI_MessageSendW(core transport.CoreID, sendEndpoint, receiveEndpoint int, payload []byte) error {
	ctx := current()
	proc := ctx.ProcessOf(core)
	if proc == nil {
		fatal.Fail("capi: CAPI_MessageSendW: core %d has no owning process", core)
	}

	dstCore, ok := proc.CommMap.Lookup(int32(receiveEndpoint))
	if !ok {
		fatal.Fail("capi: CAPI_MessageSendW: unresolved receive endpoint %d", receiveEndpoint)
	}

	return proc.Network.NetSend(transport.NetPacket{
		Sender:   core,
		Receiver: transport.CoreID(dstCore),
		Type:     transport.PacketUser,
		Data:     payload,
	})
}

// CAPI_MessageReceiveW blocks until a user-level message addressed to
// receiveEndpoint's process arrives, and returns its payload. Matching
// strictly on sendEndpoint is not possible without a third round trip
// through the comm map the original does not describe either; tilesim
// accepts the first PacketUser that arrives, relying on transport's
// per-sender FIFO guarantee that if the caller only expects traffic
// from one peer, this is exactly that peer's next message.
func CAPI_MessageReceiveW(core transport.CoreID, sendEndpoint, receiveEndpoint int) ([]byte, error) {
	ctx := current()
	proc := ctx.ProcessOf(core)
	if proc == nil {
		fatal.Fail("capi: CAPI_MessageReceiveW: core %d has no owning process", core)
	}

	pkt := proc.Network.NetRecv(transport.Match(transport.PacketUser))
	return pkt.Data, nil
}

// CarbonInitModels performs the one-time barrier setup of
// CarbonInitModels (perf_counter_support.cc).
func CarbonInitModels(core transport.CoreID) {
	ctx := current()
	proc := ctx.ProcessOf(core)
	if proc == nil {
		fatal.Fail("capi: CarbonInitModels: core %d has no owning process", core)
	}
	cluster.InitModels(ctx, *proc)
}

// CarbonEnableModels enables performance modeling cluster-wide via the
// double-barrier collective of CarbonEnableModels.
func CarbonEnableModels(core transport.CoreID) {
	dispatchCollective(core, cluster.EnableModels)
}

// CarbonDisableModels disables performance modeling cluster-wide via the
// double-barrier collective of CarbonDisableModels.
func CarbonDisableModels(core transport.CoreID) {
	dispatchCollective(core, cluster.DisableModels)
}

// CarbonResetModels resets every tile's performance model cluster-wide
// via the double-barrier collective of CarbonResetModels.
func CarbonResetModels(core transport.CoreID) {
	dispatchCollective(core, cluster.ResetModels)
}

func dispatchCollective(core transport.CoreID, fn func(ctx *cluster.Context, self cluster.Process, coreIndexInProcess int)) {
	ctx := current()
	proc := ctx.ProcessOf(core)
	if proc == nil {
		fatal.Fail("capi: core %d has no owning process", core)
	}

	idx := -1
	for i, c := range proc.Cores {
		if c == core {
			idx = i
			break
		}
	}
	if idx < 0 {
		fatal.Fail("capi: core %d not found in its own process's core list", core)
	}

	fn(ctx, *proc, idx)
}

// CarbonResetCacheCounters and CarbonDisableCacheCounters forward a
// cache-counter control message to the MCP, per
// perf_counter_support.cc's MCP_MESSAGE_RESET_CACHE_COUNTERS /
// MCP_MESSAGE_DISABLE_CACHE_COUNTERS rows. tilesim has no cache model
// (spec.md §1's Non-goals exclude memory-system modeling), so both are
// accepted as acknowledged no-ops via the same SYS_CALL round trip the
// original uses, preserving the wire contract without a cache subsystem
// behind it.
func CarbonResetCacheCounters(core transport.CoreID) {
	forwardCacheCounterMessage(core, "reset")
}

func CarbonDisableCacheCounters(core transport.CoreID) {
	forwardCacheCounterMessage(core, "disable")
}

func forwardCacheCounterMessage(core transport.CoreID, op string) {
	ctx := current()
	proc := ctx.ProcessOf(core)
	if proc == nil {
		fatal.Fail("capi: cache counter message: core %d has no owning process", core)
	}
	control.SendSysCall(proc.Network, ctx.MCPCore, core, []byte(op))
}
