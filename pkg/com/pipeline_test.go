package com

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/device/sim"
	"github.com/robotalks/gauge.go/pkg/device/store"
	"github.com/robotalks/gauge.go/pkg/frame"
	"github.com/robotalks/gauge.go/pkg/watchdog"
)

const waitTimeout = 2 * time.Second

type capturePort struct {
	ch chan []byte
}

func newCapturePort() *capturePort {
	return &capturePort{ch: make(chan []byte, 64)}
}

func (c *capturePort) Transmit(b []byte) error {
	c.ch <- append([]byte(nil), b...)
	return nil
}

func (c *capturePort) expect(t *testing.T) []byte {
	select {
	case b := <-c.ch:
		return b
	case <-time.After(waitTimeout):
		t.Fatal("nothing transmitted")
	}
	return nil
}

func (c *capturePort) expectNone(t *testing.T, d time.Duration) {
	select {
	case b := <-c.ch:
		t.Fatalf("unexpected transmit % x", b)
	case <-time.After(d):
	}
}

type captureModule struct {
	ModuleState
	capturePort
}

type liveness struct {
	lock   sync.Mutex
	states map[watchdog.Worker]watchdog.State
}

func (l *liveness) Report(w watchdog.Worker, s watchdog.State) {
	l.lock.Lock()
	l.states[w] = s
	l.lock.Unlock()
}

func (l *liveness) reported(w watchdog.Worker) bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	_, ok := l.states[w]
	return ok
}

type fixture struct {
	gauge  *sim.Gauge
	dev    *device.Device
	usb    *capturePort
	module *captureModule
	live   *liveness
	p      *Pipeline
	cancel context.CancelFunc
	done   chan error
}

func newFixture(t *testing.T, start bool) *fixture {
	f := &fixture{
		usb:    newCapturePort(),
		module: &captureModule{capturePort: capturePort{ch: make(chan []byte, 64)}},
		live:   &liveness{states: make(map[watchdog.Worker]watchdog.State)},
		done:   make(chan error, 1),
	}
	f.gauge = sim.New(store.New(""))
	f.dev = f.gauge.Device(nil)
	f.p = New(f.dev, f.usb, f.module)
	f.p.Liveness = f.live
	var ctx context.Context
	ctx, f.cancel = context.WithCancel(context.Background())
	go func() { f.done <- f.p.Run(ctx) }()
	if start {
		f.p.Start()
	}
	return f
}

func (f *fixture) stop(t *testing.T) {
	f.cancel()
	select {
	case err := <-f.done:
		assert.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("pipeline didn't stop")
	}
}

func sealed(code byte, data ...byte) []byte {
	return frame.AppendChecksum(frame.EncodeResp(command.AddrPrimary, code, data))
}

func decode(t *testing.T, b []byte) *frame.Frame {
	f, err := frame.Decode(b)
	require.NoError(t, err)
	return f
}

func TestStartGate(t *testing.T) {
	f := newFixture(t, false)
	defer f.stop(t)
	f.p.ReceiveUSB(sealed(command.CodeAppVer))
	f.usb.expectNone(t, 50*time.Millisecond)
	assert.False(t, f.live.reported(watchdog.WorkerCmdUSB))

	f.p.Start()
	rsp := decode(t, f.usb.expect(t))
	assert.Equal(t, command.CodeAppVer, rsp.Code)
	assert.Equal(t, 1, f.gauge.CommActive())
}

func TestUSBCommandsInPieces(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	req := sealed(command.CodeReadTrue, 0)
	f.p.ReceiveUSB(req[:2])
	f.p.ReceiveUSB(req[2:])
	rsp := decode(t, f.usb.expect(t))
	assert.Equal(t, command.CodeReadTrue, rsp.Code)
	assert.Equal(t, frame.PutFloat32(0), rsp.Data)

	// a partial frame is dropped after the receive timeout
	f.p.ReceiveUSB(req[:2])
	time.Sleep(5 * RxTimeout)
	f.p.ReceiveUSB(sealed(command.CodeAppVer))
	rsp = decode(t, f.usb.expect(t))
	assert.Equal(t, command.CodeAppVer, rsp.Code)
}

func TestForeignAddressIgnored(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	f.p.ReceiveUSB(frame.AppendChecksum(frame.EncodeResp(0x33, command.CodeAppVer, nil)))
	f.usb.expectNone(t, 50*time.Millisecond)
}

func TestUSBASCIIAndStreaming(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	require.True(t, f.dev.Config.SetUint32(device.K(device.ParamASCIIMode), uint32(device.ASCIIDF2O)))
	f.gauge.SetLoad(device.SourcePrim, 1)
	f.p.ReceiveUSB([]byte("?\r\n"))
	assert.Equal(t, "1.00\r\n", string(f.usb.expect(t)))

	f.p.ReceiveUSB([]byte("C\r\n"))
	assert.Equal(t, "!OK\r\n", string(f.usb.expect(t)))
	assert.Equal(t, "1.00\r\n", string(f.usb.expect(t)))
	assert.Equal(t, "1.00\r\n", string(f.usb.expect(t)))
	f.p.Text.SetStreaming(false)
}

func TestDataFanOut(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	f.p.Samples() <- device.Sample{Source: device.SourcePrim, Reading: 2}
	rsp := decode(t, f.usb.expect(t))
	assert.Equal(t, command.CodeReadBurst, rsp.Code)
	assert.Equal(t, append([]byte{0}, frame.PutFloat32(2)...), rsp.Data)

	require.True(t, f.dev.Config.SetUint32(device.K(device.ParamASCIIMode), uint32(device.ASCIIDF2W)))
	f.p.Samples() <- device.Sample{Source: device.SourcePrim, Reading: 2}
	assert.Equal(t, "2.00 lbf\r\n", string(f.usb.expect(t)))

	f.module.SetConnected(true)
	f.module.SetBurstMode(true)
	f.module.SetTxReady(true)
	f.module.SetReading(7)
	f.p.Samples() <- device.Sample{Source: device.SourcePrim, Reading: 2}
	rsp = decode(t, f.module.expect(t))
	assert.Equal(t, append(frame.PutFloat32(2), frame.PutFloat32(7)...), rsp.Data)
	f.usb.expectNone(t, 20*time.Millisecond)
}

func TestModuleCommands(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	f.module.SetTxReady(true)
	f.p.ReceiveModule(sealed(command.CodeAppVer))
	rsp := decode(t, f.module.expect(t))
	assert.Equal(t, command.CodeAppVer, rsp.Code)
	assert.True(t, f.module.Connected())

	// busy link drops responses and eventually clears the ready flag
	f.module.ResetTxReady()
	f.p.ReceiveModule(sealed(command.CodeAppVer))
	f.module.expectNone(t, 30*time.Millisecond)
}

func TestUSBEventsSplitPerBit(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	f.p.PostUSBEvent(command.EvtUSBOverload | command.EvtUSBTensionBreak | command.EvtUSBExportData)
	first := decode(t, f.usb.expect(t))
	second := decode(t, f.usb.expect(t))
	assert.Equal(t, frame.PutUint32(command.EvtUSBTensionBreak), first.Data[:4])
	assert.Equal(t, frame.PutUint32(command.EvtUSBOverload), second.Data)
	f.usb.expectNone(t, 30*time.Millisecond)

	require.True(t, f.dev.Config.SetUint32(device.K(device.ParamEventMask), command.EvtUSBTestStop))
	f.p.PostUSBEvent(command.EvtUSBOverload)
	f.usb.expectNone(t, 30*time.Millisecond)

	require.True(t, f.dev.Config.SetUint32(device.K(device.ParamASCIIMode), uint32(device.ASCIIDF3)))
	f.p.PostUSBEvent(command.EvtUSBTestStop | command.EvtUSBExportDataHeader)
	assert.Equal(t, "R0,R1,R2,R3,R4,R5,R6,R7\r\n", string(f.usb.expect(t)))
	f.usb.expectNone(t, 30*time.Millisecond)
}

func TestModuleEventRequeued(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	f.p.PostModuleEvent(command.EvtTCMZero | command.EvtTCMTestStart)
	f.module.expectNone(t, 50*time.Millisecond)

	f.module.SetTxReady(true)
	first := decode(t, f.module.expect(t))
	second := decode(t, f.module.expect(t))
	assert.Equal(t, frame.PutUint32(command.EvtTCMZero), first.Data)
	assert.Equal(t, frame.PutUint32(command.EvtTCMTestStart), second.Data)
	f.module.expectNone(t, 30*time.Millisecond)
}

func TestWorkersReportLiveness(t *testing.T) {
	f := newFixture(t, true)
	defer f.stop(t)
	f.p.Samples() <- device.Sample{Source: device.SourcePrim}
	f.usb.expect(t)
	f.p.PostUSBEvent(command.EvtUSBOverload)
	f.usb.expect(t)
	f.p.PostModuleEvent(command.EvtTCMClear)
	time.Sleep(5 * RxTimeout)
	for _, w := range []watchdog.Worker{
		watchdog.WorkerCmdUSB, watchdog.WorkerCmdTCM, watchdog.WorkerComData,
		watchdog.WorkerEvtUSB, watchdog.WorkerEvtTCM,
	} {
		assert.True(t, f.live.reported(w), w.String())
	}
}

func TestTransmitForcesStuckLock(t *testing.T) {
	usb := newCapturePort()
	g := sim.New(store.New(""))
	p := New(g.Device(nil), usb, &NoModule{})
	start := time.Now()
	require.NoError(t, p.transmitUSB([]byte{1}))
	assert.True(t, time.Since(start) >= TxTimeout)
	assert.Equal(t, []byte{1}, usb.expect(t))
	assert.True(t, p.usbTx.Take(0))
}

type recordingTap struct {
	samples chan device.Sample
	events  chan string
}

func (r *recordingTap) TapSample(s device.Sample) { r.samples <- s }
func (r *recordingTap) TapEvent(c Channel, bit uint32) {
	r.events <- c.String() + ":" + strconv.FormatUint(uint64(bit), 16)
}

func TestTapsObserveTraffic(t *testing.T) {
	tap := &recordingTap{samples: make(chan device.Sample, 8), events: make(chan string, 8)}
	f := newFixture(t, false)
	defer f.stop(t)
	f.p.Taps = append(f.p.Taps, tap)
	f.p.Start()

	f.p.Samples() <- device.Sample{Source: device.SourceAux1, Reading: 3}
	f.usb.expect(t)
	assert.Equal(t, device.Sample{Source: device.SourceAux1, Reading: 3}, <-tap.samples)

	f.p.PostUSBEvent(command.EvtUSBTestStop)
	f.usb.expect(t)
	assert.Equal(t, "usb:8", <-tap.events)

	f.module.SetTxReady(true)
	f.p.PostModuleEvent(command.EvtTCMClear)
	f.module.expect(t)
	assert.Equal(t, "tcm:1000", <-tap.events)
}
