package control

import (
	"sync"

	"github.com/sarchlab/tilesim/transport"
)

// SyncServer implements mutex/cond/barrier via deferred replies, per
// spec.md §4.4's "Blocking primitives" paragraph: a request is recorded
// here, and the thread's own network receive is what blocks it — the
// unblocking packet is sent only once the condition is satisfied, so the
// MCP loop itself never blocks on user synchronization. Its internal
// tables are touched only from the MCP's own goroutine, per spec.md §5.
//
// original_source does not carry a standalone sync_server file (it is
// referenced only as "§Glossary: Sync server" by the distilled spec), so
// the bookkeeping structures here are this repository's own, built to
// the deferred-reply contract spec.md §4.4 describes.
type SyncServer struct {
	reply func(core transport.CoreID, payload []byte)

	mu       sync.Mutex
	mutexes  map[int32]*mutexState
	conds    map[int32]*condState
	barriers map[int32]*barrierState
}

type mutexState struct {
	locked  bool
	waiters []transport.CoreID
}

type condState struct {
	waiters []transport.CoreID
}

type barrierState struct {
	capacity int
	waiters  []transport.CoreID
}

// NewSyncServer builds a sync server that unblocks waiters by calling
// reply with the core id to unblock and the response payload to send it.
func NewSyncServer(reply func(core transport.CoreID, payload []byte)) *SyncServer {
	return &SyncServer{
		reply:    reply,
		mutexes:  make(map[int32]*mutexState),
		conds:    make(map[int32]*condState),
		barriers: make(map[int32]*barrierState),
	}
}

// MutexInit registers a new mutex id.
func (s *SyncServer) MutexInit(mutexID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutexes[mutexID] = &mutexState{}
}

// MutexLock grants the lock immediately if free, or defers the requester
// until MutexUnlock hands it to them.
func (s *SyncServer) MutexLock(mutexID int32, requester transport.CoreID) {
	s.mu.Lock()
	m := s.mutexes[mutexID]
	if m == nil {
		m = &mutexState{}
		s.mutexes[mutexID] = m
	}

	if !m.locked {
		m.locked = true
		s.mu.Unlock()
		s.reply(requester, nil)
		return
	}
	m.waiters = append(m.waiters, requester)
	s.mu.Unlock()
}

// MutexUnlock hands the lock to the next waiter, or frees it if none are
// waiting.
func (s *SyncServer) MutexUnlock(mutexID int32, requester transport.CoreID) {
	s.mu.Lock()
	m := s.mutexes[mutexID]
	if m == nil {
		s.mu.Unlock()
		s.reply(requester, nil)
		return
	}

	var next transport.CoreID
	var handoff bool
	if len(m.waiters) > 0 {
		next, m.waiters = m.waiters[0], m.waiters[1:]
		handoff = true
	} else {
		m.locked = false
	}
	s.mu.Unlock()

	s.reply(requester, nil)
	if handoff {
		s.reply(next, nil)
	}
}

// CondInit registers a new condition variable id.
func (s *SyncServer) CondInit(condID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conds[condID] = &condState{}
}

// CondWait parks the requester until CondSignal or CondBroadcast wakes
// it. Unlike the real pthread_cond_wait, the associated mutex's
// release/reacquire is the caller's concern at a higher layer: the sync
// server only tracks who is parked on which condition.
func (s *SyncServer) CondWait(condID int32, requester transport.CoreID) {
	s.mu.Lock()
	c := s.conds[condID]
	if c == nil {
		c = &condState{}
		s.conds[condID] = c
	}
	c.waiters = append(c.waiters, requester)
	s.mu.Unlock()
}

// CondSignal wakes exactly one waiter on condID, if any are parked.
func (s *SyncServer) CondSignal(condID int32) {
	s.mu.Lock()
	c := s.conds[condID]
	if c == nil || len(c.waiters) == 0 {
		s.mu.Unlock()
		return
	}
	woken, rest := c.waiters[0], c.waiters[1:]
	c.waiters = rest
	s.mu.Unlock()

	s.reply(woken, nil)
}

// CondBroadcast wakes every waiter on condID.
func (s *SyncServer) CondBroadcast(condID int32) {
	s.mu.Lock()
	c := s.conds[condID]
	if c == nil {
		s.mu.Unlock()
		return
	}
	woken := c.waiters
	c.waiters = nil
	s.mu.Unlock()

	for _, core := range woken {
		s.reply(core, nil)
	}
}

// BarrierInit registers a barrier sized to capacity.
func (s *SyncServer) BarrierInit(barrierID int32, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barriers[barrierID] = &barrierState{capacity: capacity}
}

// BarrierWait parks the requester until capacity threads have called
// BarrierWait on the same barrier, at which point every one of them is
// released together.
func (s *SyncServer) BarrierWait(barrierID int32, requester transport.CoreID) {
	s.mu.Lock()
	b := s.barriers[barrierID]
	if b == nil {
		s.mu.Unlock()
		s.reply(requester, nil)
		return
	}

	b.waiters = append(b.waiters, requester)
	var release []transport.CoreID
	if len(b.waiters) >= b.capacity {
		release = b.waiters
		b.waiters = nil
	}
	s.mu.Unlock()

	for _, core := range release {
		s.reply(core, nil)
	}
}
