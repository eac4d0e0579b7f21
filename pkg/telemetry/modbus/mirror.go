// Package modbus mirrors the live reading of a gauge into holding
// registers of a Modbus TCP server, e.g. a PLC.
package modbus

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/framework"
)

// Register layout relative to Config.Address.
const (
	RegReadingHigh = iota
	RegReadingLow
	RegStatus
	RegSource
	NumRegisters
)

// Status register bits.
const (
	StatusOverload uint16 = 1 << iota
	StatusTesting
	StatusSleeping
	StatusASCII
)

// DefaultInterval is the minimum time between two writes.
const DefaultInterval = 100 * time.Millisecond

// Config describes the Modbus target.
type Config struct {
	Endpoint string        `yaml:"endpoint"`
	UnitID   uint8         `yaml:"unit_id"`
	Address  uint16        `yaml:"address"`
	Timeout  time.Duration `yaml:"timeout"`
	Interval time.Duration `yaml:"interval"`
}

// RegisterWriter is the part of modbus.Client used by Mirror.
type RegisterWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) (results []byte, err error)
}

// Mirror writes the reading of the test source on every loop iteration,
// at most once per Interval.
type Mirror struct {
	Client   RegisterWriter
	Device   *device.Device
	Address  uint16
	Interval time.Duration

	lock      sync.Mutex
	handler   *modbus.TCPClientHandler
	lastWrite time.Time
	failures  int
}

// Dial connects to the Modbus TCP endpoint.
func Dial(cfg Config, dev *device.Device) (*Mirror, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus: endpoint required")
	}
	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID
	if err := h.Connect(); err != nil {
		return nil, err
	}
	return &Mirror{
		Client:   modbus.NewClient(h),
		Device:   dev,
		Address:  cfg.Address,
		Interval: cfg.Interval,
		handler:  h,
	}, nil
}

// Close implements io.Closer.
func (m *Mirror) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.handler != nil {
		return m.handler.Close()
	}
	return nil
}

// Registers builds the register values from the current device state.
func (m *Mirror) Registers() []uint16 {
	dev := m.Device
	src := dev.SourceLoad()
	bits := math.Float32bits(dev.Measurement.ReadAdjusted(src))
	regs := make([]uint16, NumRegisters)
	regs[RegReadingHigh] = uint16(bits >> 16)
	regs[RegReadingLow] = uint16(bits)
	if dev.Measurement.Overloaded(src) {
		regs[RegStatus] |= StatusOverload
	}
	if dev.Tester.RunByHost() {
		regs[RegStatus] |= StatusTesting
	}
	if dev.Sleeping() {
		regs[RegStatus] |= StatusSleeping
	}
	if dev.ASCIIMode() != device.ASCIIOff {
		regs[RegStatus] |= StatusASCII
	}
	regs[RegSource] = uint16(src.Offset())
	return regs
}

// Write writes the registers once.
func (m *Mirror) Write() error {
	regs := m.Registers()
	m.lock.Lock()
	defer m.lock.Unlock()
	_, err := m.Client.WriteMultipleRegisters(m.Address, uint16(len(regs)), packRegisters(regs))
	return err
}

// Control implements framework.Controller.
func (m *Mirror) Control(ctx framework.ControlContext) error {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	now := ctx.Time()
	if now.Sub(m.lastWrite) < interval {
		return nil
	}
	m.lastWrite = now
	if err := m.Write(); err != nil {
		// one report per outage
		if m.failures == 0 {
			glog.Warningf("modbus write error: %v", err)
		}
		m.failures++
		return nil
	}
	if m.failures > 0 {
		glog.Infof("modbus write recovered after %d failures", m.failures)
		m.failures = 0
	}
	return nil
}

// AddToLoop installs the mirror at low priority.
func (m *Mirror) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvLow, m)
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
