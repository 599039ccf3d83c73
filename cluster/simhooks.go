package cluster

import "github.com/sirupsen/logrus"

// simHooks satisfies control.SimulatorHooks: the LCP's
// SIMULATOR_FINISHED / SIMULATOR_FINISHED_ACK dispatch targets.
// Grounded on lcp.cc's calls into Sim()->handleFinish() /
// Sim()->deallocateProcess(); tilesim has no separate teardown beyond
// marking the process done, since process deallocation in the original
// is an OS-level concern out of scope here.
type simHooks struct {
	proc     int
	finished bool
	deallocd bool
	log      *logrus.Entry
}

func newSimHooks(proc int) *simHooks {
	return &simHooks{proc: proc, log: logrus.WithField("component", "cluster.simHooks").WithField("proc", proc)}
}

func (h *simHooks) HandleFinish() {
	h.finished = true
	h.log.Debug("simulator finished")
}

func (h *simHooks) DeallocateProcess() {
	h.deallocd = true
	h.log.Debug("process deallocated")
}
