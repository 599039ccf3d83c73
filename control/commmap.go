package control

import (
	"sync"

	"github.com/google/btree"
)

// commEntry is one communicator→core mapping, ordered by CommID, the key
// the btree sorts and looks entries up by.
type commEntry struct {
	commID int32
	coreID int32
}

func (e commEntry) Less(than btree.Item) bool {
	return e.commID < than.(commEntry).commID
}

// CommMap is the process-wide communicator→core map of spec.md §3. It is
// updated by the LCP in response to COMMID_UPDATE and, for
// BROADCAST_COMM_MAP_UPDATE fan-outs, by the cluster package's listener
// on the process's Network; the LCP does not see those fan-outs. Backed by
// github.com/google/btree rather than a bare map so that diagnostics
// and any future ordered fan-out over live communicators get a
// deterministic iteration order for free.
type CommMap struct {
	mu   sync.RWMutex
	tree *btree.BTree
}

// NewCommMap builds an empty communicator→core map.
func NewCommMap() *CommMap {
	return &CommMap{tree: btree.New(8)}
}

// Update installs or replaces the core id a communicator rank resolves
// to.
func (m *CommMap) Update(commID, coreID int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.ReplaceOrInsert(commEntry{commID: commID, coreID: coreID})
}

// Lookup resolves a communicator rank to a core id.
func (m *CommMap) Lookup(commID int32) (coreID int32, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item := m.tree.Get(commEntry{commID: commID})
	if item == nil {
		return 0, false
	}
	return item.(commEntry).coreID, true
}

// Len returns the number of communicators currently mapped.
func (m *CommMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}
