package control

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sarchlab/tilesim/transport"
	"github.com/stretchr/testify/require"
)

type fakeSimHooks struct {
	finished bool
	deallocd bool
}

func (f *fakeSimHooks) HandleFinish()      { f.finished = true }
func (f *fakeSimHooks) DeallocateProcess() { f.deallocd = true }

func newTestLCP(t *testing.T, threads ThreadManager) (*LCP, transport.Transport) {
	fabric := transport.NewFabric(2)
	lcpEndpoint := fabric.Endpoint(0)
	testEndpoint := fabric.Endpoint(1)

	lcp := NewLCP(0, lcpEndpoint, NewCommMap(), threads, &fakeSimHooks{})
	return lcp, testEndpoint
}

func TestLCPProcessPacketQuit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	threads := NewMockThreadManager(ctrl)

	lcp, sender := newTestLCP(t, threads)
	require.NoError(t, sender.GlobalSend(0, packLCP(LCPQuit, nil)))

	lcp.ProcessPacket()

	require.True(t, lcp.Finished())
}

func TestLCPProcessPacketCommIDUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	threads := NewMockThreadManager(ctrl)

	lcp, sender := newTestLCP(t, threads)
	require.NoError(t, sender.GlobalSend(0, packLCP(LCPCommIDUpdate, encodeCommIDUpdate(CommIDUpdate{CommID: 7, CoreID: 3}))))

	lcp.ProcessPacket()

	coreID, ok := lcp.commMap.Lookup(7)
	require.True(t, ok)
	require.Equal(t, int32(3), coreID)
}

func TestLCPProcessPacketThreadSpawnDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	threads := NewMockThreadManager(ctrl)

	req := ThreadSpawnRequest{RequesterCoreID: 1, TargetCoreID: 2, ThreadID: 9, Success: true}
	threads.EXPECT().MasterSpawnThread(req)

	lcp, sender := newTestLCP(t, threads)
	require.NoError(t, sender.GlobalSend(0, packLCP(LCPThreadSpawnRequestFromRequester, encodeThreadSpawnRequest(req))))

	lcp.ProcessPacket()
}

func TestLCPProcessPacketThreadExitDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	threads := NewMockThreadManager(ctrl)

	threads.EXPECT().MasterOnThreadExit(int32(5), uint64(1000))

	lcp, sender := newTestLCP(t, threads)
	require.NoError(t, sender.GlobalSend(0, packLCP(LCPThreadExit, encodeThreadExit(ThreadExit{ThreadID: 5, CycleCount: 1000}))))

	lcp.ProcessPacket()
}

func TestLCPFinishObservesQuit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	threads := NewMockThreadManager(ctrl)

	lcp, _ := newTestLCP(t, threads)

	go lcp.Run()
	lcp.Finish()

	require.True(t, lcp.Finished())
}
