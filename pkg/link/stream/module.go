package stream

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/com"
	"github.com/robotalks/gauge.go/pkg/framework"
	"github.com/robotalks/gauge.go/pkg/link"
)

// Kind is the first byte of every module packet.
type Kind byte

// Packet kinds.
const (
	// KindData carries command link bytes.
	KindData Kind = iota
	// KindReady tells the peer drained its receive buffer.
	KindReady
	// KindBurst turns burst readings on (1) or off (0).
	KindBurst
	// KindReading carries the module's own reading as a little-endian
	// float32.
	KindReading
)

// Module implements com.ModulePort over a packet stream.
type Module struct {
	com.ModuleState
	Stream  *ReadWriter
	Receive link.Receiver

	sendLock sync.Mutex
}

// NewModule creates a Module.
func NewModule(rw io.ReadWriter, recv link.Receiver) *Module {
	return &Module{Stream: New(rw), Receive: recv}
}

// Transmit implements com.ModulePort. One packet is in flight at a
// time: the link stays busy until the peer's next KindReady.
func (m *Module) Transmit(b []byte) error {
	m.ResetTxReady()
	return m.send(KindData, b)
}

// SendReady tells the peer this side can receive.
func (m *Module) SendReady() error {
	return m.send(KindReady, nil)
}

func (m *Module) send(kind Kind, b []byte) error {
	m.sendLock.Lock()
	defer m.sendLock.Unlock()
	if glog.V(2) {
		glog.Infof("tcm TX[%d] % x", kind, b)
	}
	return m.Stream.WritePacket(append([]byte{byte(kind)}, b...))
}

// Run implements framework.Runnable.
func (m *Module) Run(ctx context.Context) error {
	if closer, ok := m.Stream.ReadWriter.(io.Closer); ok {
		return framework.RunWithContextCloser(ctx, closer, m.readLoop)
	}
	return framework.RunWithContext(ctx, m.readLoop)
}

func (m *Module) readLoop() error {
	for {
		pkt, err := m.Stream.ReadPacket()
		if err != nil {
			return err
		}
		if len(pkt) == 0 {
			continue
		}
		m.handle(Kind(pkt[0]), pkt[1:])
	}
}

func (m *Module) handle(kind Kind, data []byte) {
	switch kind {
	case KindData:
		if glog.V(2) {
			glog.Infof("tcm RX % x", data)
		}
		if m.Receive != nil && len(data) > 0 {
			m.Receive(data)
		}
		if err := m.SendReady(); err != nil {
			glog.Errorf("tcm: send ready: %v", err)
		}
	case KindReady:
		m.SetTxReady(true)
	case KindBurst:
		m.SetBurstMode(len(data) > 0 && data[0] != 0)
	case KindReading:
		if len(data) >= 4 {
			m.SetReading(math.Float32frombits(binary.LittleEndian.Uint32(data)))
		}
	default:
		glog.Warningf("tcm: unknown packet kind %d", kind)
	}
}
