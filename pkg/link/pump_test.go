package link

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPump(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	received := make(chan []byte, 4)
	p := NewPump("test", local, func(b []byte) int {
		received <- append([]byte(nil), b...)
		return len(b)
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	_, err := remote.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	select {
	case b := <-received:
		assert.Equal(t, []byte{1, 2, 3}, b)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("nothing received")
	}

	go func() { assert.NoError(t, p.Transmit([]byte{4, 5})) }()
	buf := make([]byte, 8)
	n, err := remote.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, buf[:n])

	cancel()
	select {
	case err := <-errCh:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("pump didn't stop")
	}
}

func TestPumpPeerClosed(t *testing.T) {
	local, remote := net.Pipe()
	p := NewPump("test", local, nil)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(context.Background()) }()
	remote.Close()
	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("pump didn't stop")
	}
}
