package control

import "github.com/sarchlab/tilesim/transport"

// SendQuit sends an LCP QUIT message to dst.
func SendQuit(t transport.Transport, dst transport.ProcessID) error {
	return t.GlobalSend(dst, packLCP(LCPQuit, nil))
}

// SendCommIDUpdate sends an LCP COMMID_UPDATE message to dst.
func SendCommIDUpdate(t transport.Transport, dst transport.ProcessID, u CommIDUpdate) error {
	return t.GlobalSend(dst, packLCP(LCPCommIDUpdate, encodeCommIDUpdate(u)))
}

// SendSimulatorFinished sends an LCP SIMULATOR_FINISHED message to dst.
func SendSimulatorFinished(t transport.Transport, dst transport.ProcessID) error {
	return t.GlobalSend(dst, packLCP(LCPSimulatorFinished, nil))
}

// SendSimulatorFinishedAck sends an LCP SIMULATOR_FINISHED_ACK message to dst.
func SendSimulatorFinishedAck(t transport.Transport, dst transport.ProcessID) error {
	return t.GlobalSend(dst, packLCP(LCPSimulatorFinishedAck, nil))
}

// SendThreadSpawnRequestFromRequester forwards a spawn request to the
// master's process.
func SendThreadSpawnRequestFromRequester(t transport.Transport, dst transport.ProcessID, r ThreadSpawnRequest) error {
	return t.GlobalSend(dst, packLCP(LCPThreadSpawnRequestFromRequester, encodeThreadSpawnRequest(r)))
}

// SendThreadSpawnRequestFromMaster forwards a spawn request to the slave
// process that should execute it.
func SendThreadSpawnRequestFromMaster(t transport.Transport, dst transport.ProcessID, r ThreadSpawnRequest) error {
	return t.GlobalSend(dst, packLCP(LCPThreadSpawnRequestFromMaster, encodeThreadSpawnRequest(r)))
}

// SendThreadSpawnReplyFromSlave reports a spawn's outcome back to the
// requesting process.
func SendThreadSpawnReplyFromSlave(t transport.Transport, dst transport.ProcessID, r ThreadSpawnRequest) error {
	return t.GlobalSend(dst, packLCP(LCPThreadSpawnReplyFromSlave, encodeThreadSpawnRequest(r)))
}

// SendThreadExit reports a thread's exit cycle count to the master.
func SendThreadExit(t transport.Transport, dst transport.ProcessID, e ThreadExit) error {
	return t.GlobalSend(dst, packLCP(LCPThreadExit, encodeThreadExit(e)))
}

// SendThreadJoinRequest forwards a join request to the master and
// blocks on joinerNetwork for the deferred reply MasterJoinThread sends
// back to r.JoinerCoreID, returning the joined thread's final cycle
// count. Unlike every other Send* helper in this file, a join request's
// entire point is to wait for an answer, so it takes on the MCP's
// deferred-reply shape (control.SyncServer) rather than the
// fire-and-forget one.
func SendThreadJoinRequest(
	t transport.Transport, dst transport.ProcessID,
	joinerNetwork *transport.Network, r ThreadJoinRequest,
) (uint64, error) {
	if err := t.GlobalSend(dst, packLCP(LCPThreadJoinRequest, encodeThreadJoinRequest(r))); err != nil {
		return 0, err
	}

	pkt := joinerNetwork.NetRecv(transport.Match(transport.PacketResponse))
	return decodeThreadExit(pkt.Data).CycleCount, nil
}
