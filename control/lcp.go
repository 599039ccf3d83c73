package control

import (
	"runtime"

	"github.com/sarchlab/tilesim/fatal"
	"github.com/sarchlab/tilesim/transport"
	"github.com/sirupsen/logrus"
)

// ThreadManager is the cluster-lifecycle collaborator an LCP dispatches
// thread spawn/join/exit bookkeeping to, per spec.md §4.3's tag table.
// Grounded on lcp.cc's calls into Sim()->getThreadManager().
type ThreadManager interface {
	MasterSpawnThread(req ThreadSpawnRequest)
	SlaveSpawnThread(req ThreadSpawnRequest)
	MasterSpawnThreadReply(req ThreadSpawnRequest)
	MasterOnThreadExit(threadID int32, cycleCount uint64)
	MasterJoinThread(req ThreadJoinRequest)
}

// SimulatorHooks is the simulator-lifecycle collaborator an LCP
// dispatches SIMULATOR_FINISHED / SIMULATOR_FINISHED_ACK to, grounded on
// lcp.cc's calls into Sim()->handleFinish() / Sim()->deallocateProcess().
type SimulatorHooks interface {
	HandleFinish()
	DeallocateProcess()
}

// LCP is the Local Control Process: one per host process, serializing
// that process's control-plane events. Grounded line-for-line on
// original_source/common/system/lcp.cc.
type LCP struct {
	procNum   transport.ProcessID
	transport transport.Transport
	commMap   *CommMap
	threads   ThreadManager
	sim       SimulatorHooks

	finished bool

	log *logrus.Entry
}

// NewLCP constructs the LCP for host process procNum.
func NewLCP(
	procNum transport.ProcessID,
	t transport.Transport,
	commMap *CommMap,
	threads ThreadManager,
	sim SimulatorHooks,
) *LCP {
	return &LCP{
		procNum:   procNum,
		transport: t,
		commMap:   commMap,
		threads:   threads,
		sim:       sim,
		log:       logrus.WithField("component", "lcp").WithField("proc", int(procNum)),
	}
}

// Run executes `while (!finished) processPacket();`, per spec.md §4.3.
func (l *LCP) Run() {
	l.log.Debug("LCP started")
	for !l.finished {
		l.ProcessPacket()
	}
}

// Finished reports whether this LCP has observed QUIT.
func (l *LCP) Finished() bool {
	return l.finished
}

// ProcessPacket receives and dispatches exactly one packet. The LCP owns
// the received buffer for the duration of the call; nothing escapes it,
// so there is no explicit release step in Go.
func (l *LCP) ProcessPacket() {
	pkt := l.transport.Recv()
	tag, payload := unpackLCP(pkt)

	l.log.WithField("tag", tag.String()).Debug("received LCP message")

	switch tag {
	case LCPQuit:
		l.log.Debug("received quit message")
		l.finished = true

	case LCPCommIDUpdate:
		l.updateCommID(decodeCommIDUpdate(payload))

	case LCPSimulatorFinished:
		l.sim.HandleFinish()

	case LCPSimulatorFinishedAck:
		l.sim.DeallocateProcess()

	case LCPThreadSpawnRequestFromRequester:
		l.threads.MasterSpawnThread(decodeThreadSpawnRequest(payload))

	case LCPThreadSpawnRequestFromMaster:
		l.threads.SlaveSpawnThread(decodeThreadSpawnRequest(payload))

	case LCPThreadSpawnReplyFromSlave:
		l.threads.MasterSpawnThreadReply(decodeThreadSpawnRequest(payload))

	case LCPThreadExit:
		exit := decodeThreadExit(payload)
		l.threads.MasterOnThreadExit(exit.ThreadID, exit.CycleCount)

	case LCPThreadJoinRequest:
		l.threads.MasterJoinThread(decodeThreadJoinRequest(payload))

	default:
		fatal.Fail("unexpected LCP message tag: %d", tag)
	}
}

// Finish sends this process's own LCP a QUIT and yields the host
// scheduler until Run observes it, per spec.md §4.3's shutdown
// paragraph.
func (l *LCP) Finish() {
	l.log.Debug("send LCP quit message")

	if err := l.transport.GlobalSend(l.procNum, packLCP(LCPQuit, nil)); err != nil {
		fatal.Fail("LCP.Finish: %v", err)
	}

	for !l.finished {
		runtime.Gosched()
	}

	l.log.Debug("LCP finished")
}

// updateCommID installs the comm_id -> core_id mapping. The original
// leaves this un-acked (lcp.cc: "// FIXME: Do we need to send an ACK?");
// tilesim preserves that, per the Open Question decision in DESIGN.md.
func (l *LCP) updateCommID(u CommIDUpdate) {
	l.log.WithFields(logrus.Fields{"comm_id": u.CommID, "core_id": u.CoreID}).Debug("updating comm map")
	l.commMap.Update(u.CommID, u.CoreID)
	// FIXME: Do we need to send an ACK?
}
