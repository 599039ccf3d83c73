package cluster

import (
	"testing"
	"time"

	"github.com/sarchlab/tilesim/control"
	"github.com/sarchlab/tilesim/transport"
	"github.com/stretchr/testify/require"
)

// TestJoinThreadAfterExitAlreadyObserved exercises the path where the
// thread has already exited by the time JoinThread's request reaches
// master: the exit and the join request land in master's inbox in that
// order, so MasterJoinThread must answer immediately rather than queue
// a waiter.
func TestJoinThreadAfterExitAlreadyObserved(t *testing.T) {
	ctx := buildTestContext(t)
	ctx.Run()
	t.Cleanup(func() { finishWithTimeout(t, ctx) })

	master := ctx.Procs[1]
	joiner := ctx.Procs[0]

	require.NoError(t, control.SendThreadExit(joiner.Transport, master.ID, control.ThreadExit{
		ThreadID: 42, CycleCount: 777,
	}))

	result := make(chan uint64, 1)
	go func() { result <- doJoin(t, *joiner, master.ID, 42) }()

	select {
	case cycles := <-result:
		require.Equal(t, uint64(777), cycles)
	case <-time.After(2 * time.Second):
		t.Fatal("JoinThread did not return for an already-exited thread")
	}
}

// TestJoinThreadBeforeExitObserved exercises the deferred-reply path:
// the join request is queued as a waiter, and MasterOnThreadExit wakes
// it once the exit actually arrives.
func TestJoinThreadBeforeExitObserved(t *testing.T) {
	ctx := buildTestContext(t)
	ctx.Run()
	t.Cleanup(func() { finishWithTimeout(t, ctx) })

	master := ctx.Procs[1]
	joiner := ctx.Procs[0]

	result := make(chan uint64, 1)
	go func() { result <- doJoin(t, *joiner, master.ID, 43) }()

	// Give master's LCP a chance to record the waiter before the exit
	// fires, so this genuinely exercises the queued path rather than
	// racing it.
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, control.SendThreadExit(joiner.Transport, master.ID, control.ThreadExit{
		ThreadID: 43, CycleCount: 999,
	}))

	select {
	case cycles := <-result:
		require.Equal(t, uint64(999), cycles)
	case <-time.After(2 * time.Second):
		t.Fatal("JoinThread did not return after exit was observed")
	}
}

func doJoin(t *testing.T, joiner Process, master transport.ProcessID, threadID int32) uint64 {
	t.Helper()
	return JoinThread(joiner, master, threadID)
}

func finishWithTimeout(t *testing.T, ctx *Context) {
	t.Helper()
	done := make(chan struct{})
	go func() { ctx.Finish(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Context.Finish did not return")
	}
}
