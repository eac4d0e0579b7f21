// Package client talks to a gauge over its host link.
package client

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// InterByteTimeout drops a partial frame when the link goes quiet.
const InterByteTimeout = 50 * time.Millisecond

// Result is the result of a command.
type Result struct {
	Err   error
	Frame *frame.Frame
}

// Command represents a pending command waiting for reply.
type Command struct {
	code     byte
	resultCh chan Result
	next     *Command
}

// Code returns the function code of the request.
func (c *Command) Code() byte {
	return c.code
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

// Client sends command frames and matches replies by function code.
// Frames nobody waits for are delivered as events.
type Client struct {
	ReadWriter io.ReadWriter
	// Addr is the device address put in requests.
	Addr byte

	eventCh  chan *frame.Frame
	lineCh   chan string
	ascii    int32
	sendLock sync.Mutex
	cmdsHead *Command
	cmdsTail *Command
	cmdsLock sync.Mutex
}

// New creates a client over rw.
func New(rw io.ReadWriter) *Client {
	return &Client{
		ReadWriter: rw,
		Addr:       command.AddrPrimary,
		eventCh:    make(chan *frame.Frame, 16),
		lineCh:     make(chan string, 16),
	}
}

// SetASCII switches reply parsing between binary frames and CR LF lines.
func (c *Client) SetASCII(on bool) {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&c.ascii, v)
}

// ASCII tells if replies are parsed as text lines.
func (c *Client) ASCII() bool {
	return atomic.LoadInt32(&c.ascii) != 0
}

// LineChan retrieves text lines received in ASCII mode.
func (c *Client) LineChan() <-chan string {
	return c.lineCh
}

// SendLine writes a text command terminated by CR LF.
func (c *Client) SendLine(line string) error {
	return c.Send([]byte(line + "\r\n"))
}

// EventChan retrieves the event reporting chan.
func (c *Client) EventChan() <-chan *frame.Frame {
	return c.eventCh
}

// Do sends a command and returns a Command for result.
func (c *Client) Do(code byte, data ...byte) *Command {
	cmd := &Command{code: code, resultCh: make(chan Result, 1)}
	req := frame.AppendChecksum(frame.EncodeResp(c.Addr, code, data))

	c.cmdsLock.Lock()
	if c.cmdsHead == nil {
		c.cmdsHead = cmd
	} else {
		c.cmdsTail.next = cmd
	}
	c.cmdsTail = cmd
	c.cmdsLock.Unlock()

	// a reply read meanwhile may have completed cmd already
	if err := c.Send(req); err != nil && c.remove(cmd) {
		cmd.resultCh <- Result{Err: err}
	}
	return cmd
}

// Call sends a command and waits for its reply. A NACK is returned as
// *CommandError.
func (c *Client) Call(ctx context.Context, code byte, data ...byte) (*frame.Frame, error) {
	cmd := c.Do(code, data...)
	select {
	case res := <-cmd.ResultChan():
		return res.Frame, res.Err
	case <-ctx.Done():
		c.remove(cmd)
		return nil, ctx.Err()
	}
}

// Send writes raw bytes to the gauge.
func (c *Client) Send(b []byte) error {
	c.sendLock.Lock()
	defer c.sendLock.Unlock()
	glog.V(2).Infof("TX % x", b)
	_, err := c.ReadWriter.Write(b)
	return err
}

// remove detaches cmd and reports whether it was still pending.
func (c *Client) remove(cmd *Command) bool {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	var prev *Command
	for curr := c.cmdsHead; curr != nil; prev, curr = curr, curr.next {
		if curr != cmd {
			continue
		}
		if prev == nil {
			c.cmdsHead = curr.next
		} else {
			prev.next = curr.next
		}
		if c.cmdsTail == curr {
			c.cmdsTail = prev
		}
		return true
	}
	return false
}

// HandleFrame completes the oldest pending command with the same code.
func (c *Client) HandleFrame(f *frame.Frame) {
	c.cmdsLock.Lock()
	var prev, curr *Command
	for curr = c.cmdsHead; curr != nil; prev, curr = curr, curr.next {
		if curr.code == f.Code {
			break
		}
	}
	var skipped *Command
	if curr != nil {
		skipped = c.cmdsHead
		if prev == nil {
			skipped = nil
		} else {
			prev.next = nil
		}
		c.cmdsHead = curr.next
		if c.cmdsHead == nil {
			c.cmdsTail = nil
		}
	}
	c.cmdsLock.Unlock()

	if curr == nil {
		select {
		case c.eventCh <- f:
		default:
			glog.Warningf("event dropped: %s", f)
		}
		return
	}
	for ; skipped != nil; skipped = skipped.next {
		skipped.resultCh <- Result{Err: ErrNoReply}
	}
	if exc, ok := f.Exception(); ok {
		curr.resultCh <- Result{Err: &CommandError{Code: f.Code, Exception: exc}, Frame: f}
		return
	}
	curr.resultCh <- Result{Frame: f}
}

// Run reads replies until ctx is done or the link fails. Pending
// commands fail with ErrClosed on exit.
func (c *Client) Run(ctx context.Context) error {
	defer c.failAll(ErrClosed)

	byteCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.readLoop(subCtx, byteCh, errCh)

	var acc frame.Accumulator
	timer := time.NewTimer(InterByteTimeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-timer.C:
			if acc.Len() > 0 {
				glog.Warningf("partial frame dropped: % x", acc.Bytes())
				acc.Reset()
			}
			timer.Reset(InterByteTimeout)
		case chunk := <-byteCh:
			for _, b := range chunk {
				c.accumulate(&acc, b)
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(InterByteTimeout)
		}
	}
}

func (c *Client) accumulate(acc *frame.Accumulator, b byte) {
	acc.ASCII = c.ASCII()
	switch acc.Accumulate(b) {
	case frame.Processing:
		return
	case frame.Complete:
		glog.V(2).Infof("RX % x", acc.Bytes())
		if acc.ASCII {
			c.handleLine(strings.TrimRight(string(acc.Bytes()), "\r\n"))
			break
		}
		f, err := frame.Decode(acc.Bytes())
		if err != nil {
			glog.Warningf("bad frame % x: %v", acc.Bytes(), err)
		} else {
			c.HandleFrame(f)
		}
	}
	acc.Reset()
}

func (c *Client) handleLine(line string) {
	select {
	case c.lineCh <- line:
	default:
		glog.Warningf("line dropped: %q", line)
	}
}

func (c *Client) readLoop(ctx context.Context, byteCh chan []byte, errCh chan error) {
	buf := make([]byte, frame.BufferSize)
	for {
		n, err := c.ReadWriter.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case byteCh <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (c *Client) failAll(err error) {
	c.cmdsLock.Lock()
	head := c.cmdsHead
	c.cmdsHead, c.cmdsTail = nil, nil
	c.cmdsLock.Unlock()
	for ; head != nil; head = head.next {
		head.resultCh <- Result{Err: err}
	}
}
