package stream

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte{1, 2, 3}))
	require.NoError(t, rw.WritePacket(nil))
	assert.Equal(t, []byte{3, 0, 0, 0, 1, 2, 3, 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	assert.Empty(t, pkt)

	buf.Write([]byte{0xff, 0xff, 0, 0})
	_, err = rw.ReadPacket()
	assert.Error(t, err)
}

func eventually(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestModule(t *testing.T) {
	local, remote := net.Pipe()
	received := make(chan []byte, 4)
	m := NewModule(local, func(b []byte) int {
		received <- b
		return len(b)
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	peer := New(remote)
	require.NoError(t, peer.WritePacket([]byte{byte(KindData), 0x01, 0x01, 0x00}))
	select {
	case b := <-received:
		assert.Equal(t, []byte{0x01, 0x01, 0x00}, b)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("nothing received")
	}
	pkt, err := peer.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(KindReady)}, pkt)

	assert.False(t, m.TxReady())
	require.NoError(t, peer.WritePacket([]byte{byte(KindReady)}))
	eventually(t, m.TxReady)

	require.NoError(t, peer.WritePacket([]byte{byte(KindBurst), 1}))
	eventually(t, m.BurstMode)

	reading := make([]byte, 5)
	reading[0] = byte(KindReading)
	binary.LittleEndian.PutUint32(reading[1:], math.Float32bits(12.5))
	require.NoError(t, peer.WritePacket(reading))
	eventually(t, func() bool { return m.Reading() == 12.5 })

	go func() { assert.NoError(t, m.Transmit([]byte{9, 8})) }()
	pkt, err = peer.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(KindData), 9, 8}, pkt)
	assert.False(t, m.TxReady())

	require.NoError(t, peer.WritePacket([]byte{byte(KindReady)}))
	eventually(t, m.TxReady)
}
