package transport

import "sync"

// CoreID addresses a simulated core cluster-wide, per spec.md §3.

type CoreID int

// PacketType is the closed set of network-level type classes a NetPacket
// carries, per spec.md §4.4/§6 (REQUEST, SYSTEM, RESPONSE, and the
// broadcast comm-map update fan-out type).
type PacketType int

const (
	PacketRequest PacketType = iota
	PacketSystem
	PacketResponse
	PacketCommMapUpdate
	// PacketUser carries an application-level payload exchanged directly
	// between cores via the CAPI message-passing surface (spec.md §6),
	// bypassing the MCP entirely.
	PacketUser
)

// NetPacket is a received network message: sender/receiver core ids, a
// type tag, and a caller-owned payload, per spec.md §6.
type NetPacket struct {
	Sender   CoreID
	Receiver CoreID
	Type     PacketType
	Data     []byte
}

// NetMatch is the set of type tags NetRecv will accept; any other type
// arriving first is held back (still delivered in order) until a
// matching receive consumes it.
type NetMatch map[PacketType]bool

// Match builds a NetMatch accepting exactly the given types.
func Match(types ...PacketType) NetMatch {
	m := make(NetMatch, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}

// Network is the typed send/receive contract of spec.md §6, implemented
// per core on top of a shared Transport per host process.
type Network struct {
	self      CoreID
	transport Transport
	coreProc  func(CoreID) ProcessID

	mu      sync.Mutex
	pending []NetPacket
}

// NewNetwork builds the Network endpoint for core self, whose packets
// physically travel over transport to whichever process coreProc maps a
// destination core onto.
func NewNetwork(self CoreID, transport Transport, coreProc func(CoreID) ProcessID) *Network {
	return &Network{self: self, transport: transport, coreProc: coreProc}
}

// NetSend encodes and hands pkt to the transport addressed to whichever
// process hosts pkt.Receiver.
func (n *Network) NetSend(pkt NetPacket) error {
	dst := n.coreProc(pkt.Receiver)
	return n.transport.GlobalSend(dst, encodePacket(pkt))
}

// NetRecv blocks until a packet whose Type is in match arrives, skipping
// (but preserving the order of) any non-matching packets it reads in the
// meantime.
func (n *Network) NetRecv(match NetMatch) NetPacket {
	n.mu.Lock()
	for {
		for i, pkt := range n.pending {
			if match[pkt.Type] {
				n.pending = append(n.pending[:i:i], n.pending[i+1:]...)
				n.mu.Unlock()
				return pkt
			}
		}
		n.mu.Unlock()

		raw := n.transport.Recv()
		pkt := decodePacket(raw)

		n.mu.Lock()
		if match[pkt.Type] {
			n.mu.Unlock()
			return pkt
		}
		n.pending = append(n.pending, pkt)
	}
}
