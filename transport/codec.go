package transport

import "encoding/binary"

// encodePacket serializes a NetPacket as four big-endian 32-bit header
// words (sender, receiver, type, length) followed by the payload, the
// network-layer framing underneath the message-tag framing spec.md §4.3
// describes for the control plane specifically.
func encodePacket(pkt NetPacket) []byte {
	buf := make([]byte, 16+len(pkt.Data))
	binary.BigEndian.PutUint32(buf[0:4], uint32(pkt.Sender))
	binary.BigEndian.PutUint32(buf[4:8], uint32(pkt.Receiver))
	binary.BigEndian.PutUint32(buf[8:12], uint32(pkt.Type))
	binary.BigEndian.PutUint32(buf[12:16], uint32(len(pkt.Data)))
	copy(buf[16:], pkt.Data)
	return buf
}

func decodePacket(buf []byte) NetPacket {
	sender := CoreID(binary.BigEndian.Uint32(buf[0:4]))
	receiver := CoreID(binary.BigEndian.Uint32(buf[4:8]))
	typ := PacketType(binary.BigEndian.Uint32(buf[8:12]))
	length := binary.BigEndian.Uint32(buf[12:16])

	data := make([]byte, length)
	copy(data, buf[16:16+length])

	return NetPacket{Sender: sender, Receiver: receiver, Type: typ, Data: data}
}
