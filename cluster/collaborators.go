package cluster

import (
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/tilesim/control"
	"github.com/sarchlab/tilesim/fatal"
	"github.com/sarchlab/tilesim/transport"
	"github.com/sirupsen/logrus"
)

// topology adapts a *Context to control.Topology, the narrow slice of
// the configuration contract the MCP needs to address broadcasts.
type topology struct {
	ctx *Context
}

func (t topology) TotalCores() int { return t.ctx.Config.TotalCores() }
func (t topology) ProcessCount() int { return t.ctx.Config.ProcessCount() }

func (t topology) CoreListForProcess(proc int) []transport.CoreID {
	cores := t.ctx.Config.CoreListForProcess(proc)
	out := make([]transport.CoreID, len(cores))
	for i, c := range cores {
		out[i] = transport.CoreID(c)
	}
	return out
}

func (t topology) MCPCoreID() transport.CoreID { return t.ctx.MCPCore }

// noopSyscalls answers every MCP SYS_CALL with an empty acknowledgement.
// Forwarding syscalls to an actual host OS is explicitly out of scope
// (spec.md §1's Non-goals: no particular host-OS transport API).
type noopSyscalls struct {
	log *logrus.Entry
}

func (n noopSyscalls) HandleSysCall(sender transport.CoreID, args []byte) []byte {
	n.log.WithField("core", sender).Debug("ignoring syscall forward: out of scope")
	return nil
}

// utilizationTracker is the UTILIZATION_UPDATE sink: it just counts
// updates per sender, since spec.md's Non-goals put the analytical
// network model itself out of scope — only the message plumbing is in
// scope.
type utilizationTracker struct {
	mu     sync.Mutex
	counts map[transport.CoreID]int
}

func newUtilizationTracker() *utilizationTracker {
	return &utilizationTracker{counts: make(map[transport.CoreID]int)}
}

func (u *utilizationTracker) UpdateUtilization(sender transport.CoreID, payload []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.counts[sender]++
}

// Count returns how many UTILIZATION_UPDATE messages sender has sent.
func (u *utilizationTracker) Count(sender transport.CoreID) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.counts[sender]
}

// threadManager is the cluster-lifecycle collaborator every LCP
// dispatches THREAD_* tags to. It tracks live threads and pending joins
// well enough to satisfy spec.md §4.3's tag table without reimplementing
// an OS scheduler, which is out of scope.
//
// A join that arrives before the matching exit cannot be answered from
// inside MasterJoinThread: the LCP loop that calls it must move on to
// the next packet, not block waiting for an exit that hasn't happened
// yet. waiters instead records which core asked, and MasterOnThreadExit
// replies to each of them directly over the network once the exit
// finally arrives, mirroring SyncServer's deferred-reply idiom.
type threadManager struct {
	mu      sync.Mutex
	nextID  int32
	exited  map[int32]uint64
	waiters map[int32][]transport.CoreID

	network  *transport.Network
	selfCore transport.CoreID
	log      *logrus.Entry
}

func newThreadManager(network *transport.Network, selfCore transport.CoreID) *threadManager {
	return &threadManager{
		exited:   make(map[int32]uint64),
		waiters:  make(map[int32][]transport.CoreID),
		network:  network,
		selfCore: selfCore,
		log:      logrus.WithField("component", "cluster.threadManager"),
	}
}

// MasterSpawnThread handles THREAD_SPAWN_REQUEST_FROM_REQUESTER: the
// master process mints a thread id and logs it. No reply is sent and the
// minted id is not stored. Picking which
// core actually executes it is a scheduling policy spec.md leaves
// unspecified; this assigns threads round-robin-free (caller-specified
// TargetCoreID), matching the request as given.
func (m *threadManager) MasterSpawnThread(req control.ThreadSpawnRequest) {
	m.mu.Lock()
	req.ThreadID = m.nextID
	m.nextID++
	m.mu.Unlock()

	// A correlation id attached to this log line only; the wire protocol
	// itself stays the original's three int32 fields, so it never crosses
	// the network and SlaveSpawnThread/MasterSpawnThreadReply do not see it.
	corrID := xid.New()
	m.log.WithField("thread", req.ThreadID).WithField("corr", corrID.String()).Debug("spawned thread")
}

// SlaveSpawnThread handles THREAD_SPAWN_REQUEST_FROM_MASTER on the
// target process: nothing further to do, since the calling process's
// LCP already routed the request to the right destination.
func (m *threadManager) SlaveSpawnThread(req control.ThreadSpawnRequest) {
	m.log.WithField("thread", req.ThreadID).Debug("slave accepted spawn")
}

// MasterSpawnThreadReply handles THREAD_SPAWN_REPLY_FROM_SLAVE: nothing
// further to do beyond the logged acknowledgement.
func (m *threadManager) MasterSpawnThreadReply(req control.ThreadSpawnRequest) {
	m.log.WithField("thread", req.ThreadID).WithField("success", req.Success).Debug("spawn reply")
}

// MasterOnThreadExit handles THREAD_EXIT: records the thread's final
// cycle count and replies to any joiners already waiting on it.
func (m *threadManager) MasterOnThreadExit(threadID int32, cycleCount uint64) {
	m.mu.Lock()
	m.exited[threadID] = cycleCount
	waiters := m.waiters[threadID]
	delete(m.waiters, threadID)
	m.mu.Unlock()

	for _, joiner := range waiters {
		m.replyToJoiner(joiner, control.ThreadExit{ThreadID: threadID, CycleCount: cycleCount})
	}
}

// MasterJoinThread handles THREAD_JOIN_REQUEST: if the thread has
// already exited, it replies immediately; otherwise it queues the
// joiner's core and lets MasterOnThreadExit reply once the thread
// actually exits.
func (m *threadManager) MasterJoinThread(req control.ThreadJoinRequest) {
	joiner := transport.CoreID(req.JoinerCoreID)

	m.mu.Lock()
	cycleCount, exited := m.exited[req.ThreadID]
	if !exited {
		m.waiters[req.ThreadID] = append(m.waiters[req.ThreadID], joiner)
	}
	m.mu.Unlock()

	if exited {
		m.replyToJoiner(joiner, control.ThreadExit{ThreadID: req.ThreadID, CycleCount: cycleCount})
		return
	}

	m.log.WithField("thread", req.ThreadID).Debug("join requested before exit observed")
}

// replyToJoiner sends a joiner its thread's exit payload directly over
// the network, the same PacketResponse path the MCP's deferred replies
// use. The fabric beneath Network resolves by core id regardless of
// which process originated the join request, so this reaches the
// joiner even when it lives on a different process than the thread it
// is waiting on.
func (m *threadManager) replyToJoiner(joiner transport.CoreID, exit control.ThreadExit) {
	if err := m.network.NetSend(transport.NetPacket{
		Sender:   m.selfCore,
		Receiver: joiner,
		Type:     transport.PacketResponse,
		Data:     control.EncodeThreadExit(exit),
	}); err != nil {
		fatal.Fail("cluster: thread-join reply failed: %v", err)
	}
}
