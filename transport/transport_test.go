package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransportFIFOPerSender(t *testing.T) {
	fabric := NewFabric(2)
	a := fabric.Endpoint(0)
	b := fabric.Endpoint(1)

	require.NoError(t, a.GlobalSend(1, []byte("first")))
	require.NoError(t, a.GlobalSend(1, []byte("second")))

	require.Equal(t, "first", string(b.Recv()))
	require.Equal(t, "second", string(b.Recv()))
}

func TestNetworkMatchSkipsNonMatchingPackets(t *testing.T) {
	fabric := NewFabric(1)
	proc := func(CoreID) ProcessID { return 0 }

	sender := NewNetwork(0, fabric.Endpoint(0), proc)
	receiver := NewNetwork(1, fabric.Endpoint(0), proc)

	require.NoError(t, sender.NetSend(NetPacket{Sender: 0, Receiver: 1, Type: PacketResponse, Data: []byte("ack")}))
	require.NoError(t, sender.NetSend(NetPacket{Sender: 0, Receiver: 1, Type: PacketRequest, Data: []byte("req")}))

	req := receiver.NetRecv(Match(PacketRequest))
	require.Equal(t, "req", string(req.Data))

	resp := receiver.NetRecv(Match(PacketResponse))
	require.Equal(t, "ack", string(resp.Data))
}
