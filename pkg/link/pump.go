package link

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/framework"
)

// ReadBufferSize is the largest chunk read at once.
const ReadBufferSize = 256

// ErrNotConnected indicates there's no peer to transmit to.
var ErrNotConnected = errors.New("not connected")

// Receiver accepts bytes read from a link and returns how many were taken.
type Receiver func([]byte) int

// Pump moves bytes between a stream and the pipeline.
type Pump struct {
	Name       string
	ReadWriter io.ReadWriter
	Receive    Receiver

	sendLock sync.Mutex
}

// NewPump creates a Pump.
func NewPump(name string, rw io.ReadWriter, recv Receiver) *Pump {
	return &Pump{Name: name, ReadWriter: rw, Receive: recv}
}

// Transmit implements com.USBPort.
func (p *Pump) Transmit(b []byte) error {
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	if glog.V(2) {
		glog.Infof("%s TX % x", p.Name, b)
	}
	_, err := p.ReadWriter.Write(b)
	return err
}

// Run implements framework.Runnable.
func (p *Pump) Run(ctx context.Context) error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return framework.RunWithContextCloser(ctx, closer, p.readLoop)
	}
	return framework.RunWithContext(ctx, p.readLoop)
}

func (p *Pump) readLoop() error {
	buf := make([]byte, ReadBufferSize)
	for {
		n, err := p.ReadWriter.Read(buf)
		if n > 0 {
			if glog.V(2) {
				glog.Infof("%s RX % x", p.Name, buf[:n])
			}
			if p.Receive != nil {
				p.Receive(buf[:n])
			}
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			if err == io.EOF {
				glog.Infof("%s closed", p.Name)
			}
			return err
		}
	}
}
