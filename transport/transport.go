// Package transport implements the two wire-level contracts of spec.md
// §6: a reliable, exactly-once, per-sender-FIFO byte-packet Transport
// between host processes, and a typed Network layer on top of it that
// the control plane (LCP/MCP) and application cores exchange NetPackets
// over. Both are in-process, channel-backed stand-ins for a host-OS
// transport, which spec.md's Non-goals explicitly put out of scope.
package transport

import (
	"fmt"
	"sync"

	"github.com/sarchlab/tilesim/fatal"
)

// ProcessID addresses a host process.
type ProcessID int

// Transport is the point-to-point byte-packet contract of spec.md §6:
// GlobalSend hands a buffer to a destination process; Recv blocks until
// the next buffer addressed to this process's own endpoint arrives.
// Delivery is reliable, exactly-once, and FIFO per sender.
type Transport interface {
	GlobalSend(dst ProcessID, data []byte) error
	Recv() []byte
}

// Fabric is the shared, process-wide set of per-process inboxes that
// backs every process's Transport. It plays the role of the host-OS
// transport layer the original links against.
type Fabric struct {
	mu      sync.Mutex
	inboxes map[ProcessID]chan []byte
}

// NewFabric builds an empty fabric with inboxes for processes
// 0..numProcesses-1.
func NewFabric(numProcesses int) *Fabric {
	f := &Fabric{inboxes: make(map[ProcessID]chan []byte)}
	for p := 0; p < numProcesses; p++ {
		f.inboxes[ProcessID(p)] = make(chan []byte, 4096)
	}
	return f
}

// Endpoint returns the Transport this process should use to talk to the
// rest of the fabric.
func (f *Fabric) Endpoint(self ProcessID) Transport {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.inboxes[self]; !ok {
		f.inboxes[self] = make(chan []byte, 4096)
	}
	return &channelTransport{self: self, fabric: f}
}

type channelTransport struct {
	self   ProcessID
	fabric *Fabric
}

func (t *channelTransport) GlobalSend(dst ProcessID, data []byte) error {
	t.fabric.mu.Lock()
	inbox, ok := t.fabric.inboxes[dst]
	t.fabric.mu.Unlock()
	if !ok {
		return fmt.Errorf("transport: unknown destination process %d", dst)
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	select {
	case inbox <- buf:
		return nil
	default:
		// The control plane treats send failure as fatal (spec.md §7):
		// shutdown cannot be trusted otherwise.
		fatal.Fail("transport: inbox for process %d is full, send would block forever", dst)
		return nil
	}
}

func (t *channelTransport) Recv() []byte {
	t.fabric.mu.Lock()
	inbox := t.fabric.inboxes[t.self]
	t.fabric.mu.Unlock()
	return <-inbox
}
