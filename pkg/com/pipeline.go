// Package com runs the communication workers of the gauge: command
// processing on the host and module links, burst data fan-out and
// asynchronous events.
package com

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/command/ascii"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/framework"
	"github.com/robotalks/gauge.go/pkg/watchdog"
)

// Timing and sizes.
const (
	RxTimeout       = 10 * time.Millisecond
	TxTimeout       = 100 * time.Millisecond
	TxLockThreshold = 5
	RxQueueSize     = 256
	DataQueueSize   = 500
	// EventRetryDelay paces re-posted module events while the link is busy.
	EventRetryDelay = RxTimeout
)

// Channel identifies one of the two command links.
type Channel int

// Channels.
const (
	ChannelUSB Channel = iota
	ChannelModule
)

// String implements fmt.Stringer.
func (c Channel) String() string {
	if c == ChannelModule {
		return "tcm"
	}
	return "usb"
}

// Tap observes readings and events leaving the pipeline. It's called from
// the workers and must not block.
type Tap interface {
	TapSample(device.Sample)
	TapEvent(Channel, uint32)
}

// Pipeline owns the queues, locks and notifiers shared by the workers.
type Pipeline struct {
	Device *device.Device
	USB    USBPort
	Module ModulePort
	// Liveness receives watchdog reports. Optional.
	Liveness watchdog.Reporter
	// Taps are set before Run.
	Taps []Tap

	USBCommands    *command.Dispatcher
	ModuleCommands *command.Dispatcher
	Text           *ascii.Adapter

	usbEnc    *command.Encoder
	moduleEnc *command.Encoder

	usbRx    chan byte
	moduleRx chan byte
	data     chan device.Sample

	usbEvents    *Notifier
	moduleEvents *Notifier
	usbTx        *TxLock

	started   chan struct{}
	startOnce sync.Once
	rxDropped uint64
}

// New creates a Pipeline over the standard command table.
func New(dev *device.Device, usb USBPort, module ModulePort) *Pipeline {
	p := &Pipeline{
		Device:       dev,
		USB:          usb,
		Module:       module,
		usbRx:        make(chan byte, RxQueueSize),
		moduleRx:     make(chan byte, RxQueueSize),
		data:         make(chan device.Sample, DataQueueSize),
		usbEvents:    NewNotifier(),
		moduleEvents: NewNotifier(),
		usbTx:        NewTxLock(),
		started:      make(chan struct{}),
	}
	table := command.NewStandardTable(dev, p.PostUSBEvent)
	p.Text = ascii.New(dev)
	p.USBCommands = command.NewDispatcher(table, dev)
	p.USBCommands.Mode, p.USBCommands.Text = dev, p.Text
	p.ModuleCommands = command.NewDispatcher(table, dev)
	p.usbEnc = command.NewEncoder(dev, p.USBCommands.Channel)
	p.moduleEnc = command.NewEncoder(dev, p.ModuleCommands.Channel)
	return p
}

// Start opens the gate after configuration completes. Workers do nothing
// before it.
func (p *Pipeline) Start() {
	p.startOnce.Do(func() {
		close(p.started)
		glog.Info("communication started")
	})
}

// ReceiveUSB queues bytes from the host link. Bytes beyond the queue
// capacity are dropped.
func (p *Pipeline) ReceiveUSB(b []byte) int {
	return p.receive(p.usbRx, b)
}

// ReceiveModule queues bytes from the module link.
func (p *Pipeline) ReceiveModule(b []byte) int {
	return p.receive(p.moduleRx, b)
}

func (p *Pipeline) receive(ch chan<- byte, b []byte) int {
	for n, c := range b {
		select {
		case ch <- c:
		default:
			atomic.AddUint64(&p.rxDropped, uint64(len(b)-n))
			glog.Warningf("receive queue full, %d bytes dropped", len(b)-n)
			return n
		}
	}
	return len(b)
}

// RxDropped returns the number of received bytes dropped so far.
func (p *Pipeline) RxDropped() uint64 {
	return atomic.LoadUint64(&p.rxDropped)
}

// Samples is the burst data queue.
func (p *Pipeline) Samples() chan<- device.Sample {
	return p.data
}

// PostUSBEvent wakes the host event worker. Binary events outside the
// configured event mask are discarded.
func (p *Pipeline) PostUSBEvent(bits uint32) {
	mask := p.Device.Config.Uint32(device.K(device.ParamEventMask))
	p.usbEvents.Post(bits & (mask&command.EvtUSBMaskAll | command.EvtUSBMaskASCII))
}

// PostModuleEvent wakes the module event worker.
func (p *Pipeline) PostModuleEvent(bits uint32) {
	p.moduleEvents.Post(bits & command.EvtTCMAll)
}

// Run runs all workers until ctx is done.
func (p *Pipeline) Run(ctx context.Context) error {
	return framework.NewRunnerWith(ctx).Go(
		framework.NamedRun("cmd-usb", framework.RunFunc(p.runUSBCommands)),
		framework.NamedRun("cmd-tcm", framework.RunFunc(p.runModuleCommands)),
		framework.NamedRun("com-data", framework.RunFunc(p.runData)),
		framework.NamedRun("evt-usb", framework.RunFunc(p.runUSBEvents)),
		framework.NamedRun("evt-tcm", framework.RunFunc(p.runModuleEvents)),
	).Wait()
}

func (p *Pipeline) report(w watchdog.Worker, s watchdog.State) {
	if p.Liveness != nil {
		p.Liveness.Report(w, s)
	}
}

func (p *Pipeline) tapSample(s device.Sample) {
	for _, t := range p.Taps {
		t.TapSample(s)
	}
}

func (p *Pipeline) tapEvent(c Channel, bit uint32) {
	for _, t := range p.Taps {
		t.TapEvent(c, bit)
	}
}

func (p *Pipeline) waitStart(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.started:
		return nil
	}
}

func (p *Pipeline) asciiMode() bool {
	return p.Device.ASCIIMode() != device.ASCIIOff
}

// transmitUSB sends under the transmit lock. When the lock isn't given
// back in time it is forced free and retried once without waiting.
// Empty frames are skipped.
func (p *Pipeline) transmitUSB(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if !p.usbTx.Take(TxTimeout) {
		p.usbTx.Give()
		if !p.usbTx.Take(0) {
			glog.Warningf("usb transmit lock busy, %d bytes dropped", len(b))
			return ErrTxTimeout
		}
	}
	defer p.usbTx.Give()
	err := p.USB.Transmit(b)
	if err != nil {
		glog.Errorf("usb transmit error: %v", err)
	}
	return err
}
