// Package control implements the control-plane message loops of
// spec.md §4.3/§4.4: the per-process Local Control Process (LCP) and the
// single cluster-wide Master Control Process (MCP), plus the MCP's
// deferred-reply sync server and broadcast helpers.
package control

import "encoding/binary"

// LCPTag is the closed set of message tags an LCP packet carries, per
// spec.md §4.3's tag table. The wire format is a contiguous byte buffer
// whose first 32-bit word is the tag.
type LCPTag int32

const (
	LCPQuit LCPTag = iota
	LCPCommIDUpdate
	LCPSimulatorFinished
	LCPSimulatorFinishedAck
	LCPThreadSpawnRequestFromRequester
	LCPThreadSpawnRequestFromMaster
	LCPThreadSpawnReplyFromSlave
	LCPThreadExit
	LCPThreadJoinRequest
)

func (t LCPTag) String() string {
	switch t {
	case LCPQuit:
		return "QUIT"
	case LCPCommIDUpdate:
		return "COMMID_UPDATE"
	case LCPSimulatorFinished:
		return "SIMULATOR_FINISHED"
	case LCPSimulatorFinishedAck:
		return "SIMULATOR_FINISHED_ACK"
	case LCPThreadSpawnRequestFromRequester:
		return "THREAD_SPAWN_REQUEST_FROM_REQUESTER"
	case LCPThreadSpawnRequestFromMaster:
		return "THREAD_SPAWN_REQUEST_FROM_MASTER"
	case LCPThreadSpawnReplyFromSlave:
		return "THREAD_SPAWN_REPLY_FROM_SLAVE"
	case LCPThreadExit:
		return "THREAD_EXIT"
	case LCPThreadJoinRequest:
		return "THREAD_JOIN_REQUEST"
	default:
		return "UNKNOWN_LCP_TAG"
	}
}

// packLCP prefixes payload with tag's 32-bit wire encoding, the inverse
// of the original's `SInt32 *msg_type = (SInt32*)pkt`.
func packLCP(tag LCPTag, payload []byte) []byte {
	buf := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(tag))
	copy(buf[4:], payload)
	return buf
}

// unpackLCP splits a raw LCP packet into its tag and payload.
func unpackLCP(pkt []byte) (LCPTag, []byte) {
	tag := LCPTag(binary.BigEndian.Uint32(pkt[0:4]))
	return tag, pkt[4:]
}

// CommIDUpdate is the COMMID_UPDATE payload of spec.md §4.3.
type CommIDUpdate struct {
	CommID int32
	CoreID int32
}

func encodeCommIDUpdate(u CommIDUpdate) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(u.CommID))
	binary.BigEndian.PutUint32(buf[4:8], uint32(u.CoreID))
	return buf
}

func decodeCommIDUpdate(buf []byte) CommIDUpdate {
	return CommIDUpdate{
		CommID: int32(binary.BigEndian.Uint32(buf[0:4])),
		CoreID: int32(binary.BigEndian.Uint32(buf[4:8])),
	}
}

// DecodeCommIDUpdate decodes a COMMID_UPDATE wire payload. Exported for
// the cluster-level listener that installs BROADCAST_COMM_MAP_UPDATE
// fan-out packets into a process's comm map.
func DecodeCommIDUpdate(buf []byte) CommIDUpdate {
	return decodeCommIDUpdate(buf)
}

// ThreadSpawnRequest is the spawn-request payload shared by
// THREAD_SPAWN_REQUEST_FROM_REQUESTER, THREAD_SPAWN_REQUEST_FROM_MASTER,
// and THREAD_SPAWN_REPLY_FROM_SLAVE, per spec.md §4.3.
type ThreadSpawnRequest struct {
	RequesterCoreID int32
	TargetCoreID    int32
	ThreadID        int32
	Success         bool
}

func encodeThreadSpawnRequest(r ThreadSpawnRequest) []byte {
	buf := make([]byte, 13)
	binary.BigEndian.PutUint32(buf[0:4], uint32(r.RequesterCoreID))
	binary.BigEndian.PutUint32(buf[4:8], uint32(r.TargetCoreID))
	binary.BigEndian.PutUint32(buf[8:12], uint32(r.ThreadID))
	if r.Success {
		buf[12] = 1
	}
	return buf
}

func decodeThreadSpawnRequest(buf []byte) ThreadSpawnRequest {
	return ThreadSpawnRequest{
		RequesterCoreID: int32(binary.BigEndian.Uint32(buf[0:4])),
		TargetCoreID:    int32(binary.BigEndian.Uint32(buf[4:8])),
		ThreadID:        int32(binary.BigEndian.Uint32(buf[8:12])),
		Success:         buf[12] != 0,
	}
}

// ThreadExit is the THREAD_EXIT payload.
type ThreadExit struct {
	ThreadID   int32
	CycleCount uint64
}

func encodeThreadExit(e ThreadExit) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:4], uint32(e.ThreadID))
	binary.BigEndian.PutUint64(buf[4:12], e.CycleCount)
	return buf
}

func decodeThreadExit(buf []byte) ThreadExit {
	return ThreadExit{
		ThreadID:   int32(binary.BigEndian.Uint32(buf[0:4])),
		CycleCount: binary.BigEndian.Uint64(buf[4:12]),
	}
}

// EncodeThreadExit encodes a THREAD_EXIT-shaped payload. Exported since
// a join reply carries the same shape back to a waiting joiner outside
// the LCP's own tag protocol.
func EncodeThreadExit(e ThreadExit) []byte {
	return encodeThreadExit(e)
}

// DecodeThreadExit decodes a THREAD_EXIT-shaped payload.
func DecodeThreadExit(buf []byte) ThreadExit {
	return decodeThreadExit(buf)
}

// ThreadJoinRequest is the THREAD_JOIN_REQUEST payload.
type ThreadJoinRequest struct {
	JoinerCoreID int32
	ThreadID     int32
}

func encodeThreadJoinRequest(r ThreadJoinRequest) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(r.JoinerCoreID))
	binary.BigEndian.PutUint32(buf[4:8], uint32(r.ThreadID))
	return buf
}

func decodeThreadJoinRequest(buf []byte) ThreadJoinRequest {
	return ThreadJoinRequest{
		JoinerCoreID: int32(binary.BigEndian.Uint32(buf[0:4])),
		ThreadID:     int32(binary.BigEndian.Uint32(buf[4:8])),
	}
}

// MCPTag is the closed set of message tags an MCP-addressed packet
// carries, per spec.md §4.4's tag table.
type MCPTag int32

const (
	MCPSysCall MCPTag = iota
	MCPQuit
	MCPMutexInit
	MCPMutexLock
	MCPMutexUnlock
	MCPCondInit
	MCPCondWait
	MCPCondSignal
	MCPCondBroadcast
	MCPBarrierInit
	MCPBarrierWait
	MCPUtilizationUpdate
	MCPBroadcastCommMapUpdate
)

func (t MCPTag) String() string {
	switch t {
	case MCPSysCall:
		return "SYS_CALL"
	case MCPQuit:
		return "QUIT"
	case MCPMutexInit:
		return "MUTEX_INIT"
	case MCPMutexLock:
		return "MUTEX_LOCK"
	case MCPMutexUnlock:
		return "MUTEX_UNLOCK"
	case MCPCondInit:
		return "COND_INIT"
	case MCPCondWait:
		return "COND_WAIT"
	case MCPCondSignal:
		return "COND_SIGNAL"
	case MCPCondBroadcast:
		return "COND_BROADCAST"
	case MCPBarrierInit:
		return "BARRIER_INIT"
	case MCPBarrierWait:
		return "BARRIER_WAIT"
	case MCPUtilizationUpdate:
		return "UTILIZATION_UPDATE"
	case MCPBroadcastCommMapUpdate:
		return "BROADCAST_COMM_MAP_UPDATE"
	default:
		return "UNKNOWN_MCP_TAG"
	}
}

func encodeMCPTag(tag MCPTag) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(tag))
	return buf
}

func decodeMCPTag(buf []byte) MCPTag {
	return MCPTag(binary.BigEndian.Uint32(buf[0:4]))
}

func encodeInt32(v int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(v))
	return buf
}

func decodeInt32(buf []byte) int32 {
	return int32(binary.BigEndian.Uint32(buf[0:4]))
}

// encodeIDAndCore packs a sync-primitive id together with a core id (or,
// for BARRIER_INIT, a capacity) — the common shape of every MUTEX_*,
// COND_*, and BARRIER_* payload that needs more than a bare id.
func encodeIDAndCore(id, core int32) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(id))
	binary.BigEndian.PutUint32(buf[4:8], uint32(core))
	return buf
}

func decodeIDAndCore(buf []byte) (id int32, core int32) {
	return int32(binary.BigEndian.Uint32(buf[0:4])), int32(binary.BigEndian.Uint32(buf[4:8]))
}
