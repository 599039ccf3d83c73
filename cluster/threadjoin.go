package cluster

import (
	"github.com/sarchlab/tilesim/control"
	"github.com/sarchlab/tilesim/fatal"
	"github.com/sarchlab/tilesim/transport"
)

// JoinThread sends THREAD_JOIN_REQUEST for threadID to master and blocks
// until that thread's owning process reports its exit, returning the
// final cycle count. master need not be self.ID: the fabric beneath a
// process's Network resolves any core cluster-wide, so the reply
// reaches self regardless of which process is tracking threadID.
func JoinThread(self Process, master transport.ProcessID, threadID int32) uint64 {
	cycles, err := control.SendThreadJoinRequest(self.Transport, master, self.Network, control.ThreadJoinRequest{
		JoinerCoreID: int32(self.Cores[0]),
		ThreadID:     threadID,
	})
	if err != nil {
		fatal.Fail("cluster: JoinThread: %v", err)
	}
	return cycles
}
