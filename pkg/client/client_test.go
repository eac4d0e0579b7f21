package client

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device/sim"
	"github.com/robotalks/gauge.go/pkg/device/store"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// serveGauge answers frames read from conn with a real dispatcher.
func serveGauge(conn net.Conn) {
	dev := sim.New(store.New("")).Device(nil)
	d := command.NewDispatcher(command.NewStandardTable(dev, nil), dev)
	var acc frame.Accumulator
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			acc.Accumulate(b)
			status, rsp := d.Dispatch(acc.Bytes())
			if status != command.StatusDone {
				continue
			}
			acc.Reset()
			if len(rsp) > 0 {
				conn.Write(rsp)
			}
		}
	}
}

func runClient(t *testing.T) (*Client, net.Conn, context.CancelFunc) {
	local, remote := net.Pipe()
	c := New(local)
	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)
	return c, remote, func() {
		cancel()
		local.Close()
		remote.Close()
	}
}

func TestCall(t *testing.T) {
	c, remote, stop := runClient(t)
	defer stop()
	go serveGauge(remote)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	f, err := c.Call(ctx, command.CodeAppVer)
	require.NoError(t, err)
	assert.Equal(t, command.CodeAppVer, f.Code)

	_, err = c.Call(ctx, command.CodeReadTrue, 9)
	require.IsType(t, &CommandError{}, err)
	assert.Equal(t, frame.ExcWrongArgs, err.(*CommandError).Exception)
	assert.Equal(t, "READ_TRUE: "+frame.ExcWrongArgs.String(), err.Error())
}

func TestEvents(t *testing.T) {
	c, remote, stop := runClient(t)
	defer stop()

	ev := frame.AppendChecksum(frame.EncodeResp(command.AddrPrimary, command.CodeEvent, frame.PutUint32(command.EvtUSBOverload)))
	go remote.Write(ev)
	select {
	case f := <-c.EventChan():
		assert.Equal(t, command.CodeEvent, f.Code)
		assert.Equal(t, frame.PutUint32(command.EvtUSBOverload), f.Data)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}

func TestPartialFrameDropped(t *testing.T) {
	c, remote, stop := runClient(t)
	defer stop()

	ev := frame.AppendChecksum(frame.EncodeResp(command.AddrPrimary, command.CodeEvent, []byte{1}))
	_, err := remote.Write(ev[:2])
	require.NoError(t, err)
	time.Sleep(3 * InterByteTimeout)
	go remote.Write(ev)
	select {
	case f := <-c.EventChan():
		assert.Equal(t, []byte{1}, f.Data)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}

func TestReplyMatching(t *testing.T) {
	c := New(&bytes.Buffer{})
	first := c.Do(command.CodeReadTrue, 0)
	second := c.Do(command.CodeAppVer)
	third := c.Do(command.CodeReadTrue, 0)

	c.HandleFrame(&frame.Frame{Code: command.CodeAppVer, Data: []byte{1, 2}})
	assert.Equal(t, ErrNoReply, (<-first.ResultChan()).Err)
	res := <-second.ResultChan()
	require.NoError(t, res.Err)
	assert.Equal(t, []byte{1, 2}, res.Frame.Data)

	c.HandleFrame(&frame.Frame{Code: command.CodeReadTrue, Data: []byte{0, 0, 0, 0}})
	res = <-third.ResultChan()
	require.NoError(t, res.Err)

	c.HandleFrame(&frame.Frame{Code: command.CodeReadTrue})
	select {
	case f := <-c.EventChan():
		assert.Equal(t, command.CodeReadTrue, f.Code)
	default:
		t.Fatal("unmatched reply not delivered as event")
	}
}

func TestRunFailsPending(t *testing.T) {
	local, remote := net.Pipe()
	c := New(local)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	go func() {
		buf := make([]byte, 16)
		remote.Read(buf)
	}()
	cmd := c.Do(command.CodeAppVer)
	cancel()
	assert.Equal(t, context.Canceled, <-done)
	assert.Equal(t, ErrClosed, (<-cmd.ResultChan()).Err)
	remote.Close()
}

func TestASCIILines(t *testing.T) {
	c, remote, stop := runClient(t)
	defer stop()
	c.SetASCII(true)

	go remote.Write([]byte("12.50 lbf\r\n"))
	select {
	case line := <-c.LineChan():
		assert.Equal(t, "12.50 lbf", line)
	case <-time.After(time.Second):
		t.Fatal("no line")
	}

	go func() {
		buf := make([]byte, 16)
		n, _ := remote.Read(buf)
		remote.Write(append([]byte("echo:"), buf[:n]...))
	}()
	require.NoError(t, c.SendLine("?"))
	select {
	case line := <-c.LineChan():
		assert.Equal(t, "echo:?", line)
	case <-time.After(time.Second):
		t.Fatal("no echo")
	}
}

// replyThenFail completes each command before failing its write.
type replyThenFail struct {
	c *Client
}

func (w *replyThenFail) Read([]byte) (int, error) {
	return 0, errors.New("not readable")
}

func (w *replyThenFail) Write(b []byte) (int, error) {
	w.c.HandleFrame(&frame.Frame{Addr: b[0], Code: b[1], Data: []byte{0x2a}})
	return 0, errors.New("link down")
}

func TestSendFailureAfterReply(t *testing.T) {
	w := &replyThenFail{}
	c := New(w)
	w.c = c

	done := make(chan *Command, 1)
	go func() { done <- c.Do(command.CodeAppVer) }()
	select {
	case cmd := <-done:
		res := <-cmd.ResultChan()
		require.NoError(t, res.Err)
		assert.Equal(t, []byte{0x2a}, res.Frame.Data)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Do blocked")
	}
}
