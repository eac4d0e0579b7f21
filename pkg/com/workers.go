package com

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/frame"
	"github.com/robotalks/gauge.go/pkg/watchdog"
)

// receiveByte waits up to RxTimeout for a byte.
func receiveByte(ctx context.Context, ch <-chan byte, timer *time.Timer) (byte, bool, error) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(RxTimeout)
	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	case b := <-ch:
		return b, true, nil
	case <-timer.C:
		return 0, false, nil
	}
}

func accumulate(acc *frame.Accumulator, b byte) bool {
	if acc.Accumulate(b) == frame.Error {
		glog.Warningf("receive buffer overflow, %d bytes dropped", acc.Len())
		acc.Reset()
		return false
	}
	return true
}

func (p *Pipeline) runUSBCommands(ctx context.Context) error {
	if err := p.waitStart(ctx); err != nil {
		return err
	}
	p.usbTx.Give()

	var acc frame.Accumulator
	timer := time.NewTimer(RxTimeout)
	defer timer.Stop()
	for {
		p.report(watchdog.WorkerCmdUSB, watchdog.StateAsleep)
		b, received, err := receiveByte(ctx, p.usbRx, timer)
		if err != nil {
			return err
		}
		switch {
		case received:
			p.report(watchdog.WorkerCmdUSB, watchdog.StateAlive)
			if !accumulate(&acc, b) {
				continue
			}
			status, rsp := p.USBCommands.Dispatch(acc.Bytes())
			if status == command.StatusDone {
				p.transmitUSB(rsp)
				acc.Reset()
				p.Device.System.SetCommActive()
			}
		case p.Text.Streaming() && p.asciiMode():
			p.transmitUSB(p.Text.StreamReading())
			acc.Reset()
			p.Device.System.SetCommActive()
		default:
			p.report(watchdog.WorkerCmdUSB, watchdog.StateAlive)
			acc.Reset()
		}
	}
}

func (p *Pipeline) runModuleCommands(ctx context.Context) error {
	if err := p.waitStart(ctx); err != nil {
		return err
	}

	var acc frame.Accumulator
	lock := &lockCounter{name: "cmd-tcm"}
	timer := time.NewTimer(RxTimeout)
	defer timer.Stop()
	for {
		p.report(watchdog.WorkerCmdTCM, watchdog.StateAsleep)
		b, received, err := receiveByte(ctx, p.moduleRx, timer)
		if err != nil {
			return err
		}
		if !received {
			p.report(watchdog.WorkerCmdTCM, watchdog.StateAlive)
			acc.Reset()
			continue
		}
		p.report(watchdog.WorkerCmdTCM, watchdog.StateAlive)
		if !accumulate(&acc, b) {
			continue
		}
		status, rsp := p.ModuleCommands.Dispatch(acc.Bytes())
		if status != command.StatusDone {
			continue
		}
		if len(rsp) > 0 {
			lock.send(p.Module, rsp)
		}
		acc.Reset()
		if !p.asciiMode() {
			p.Device.System.SetCommActive()
			p.Module.SetConnected(true)
		}
	}
}

func (p *Pipeline) runData(ctx context.Context) error {
	if err := p.waitStart(ctx); err != nil {
		return err
	}

	lock := &lockCounter{name: "com-data"}
	for {
		p.report(watchdog.WorkerComData, watchdog.StateAsleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-p.data:
			p.report(watchdog.WorkerComData, watchdog.StateAlive)
			p.tapSample(s)
			if p.Module.Connected() && p.Module.BurstMode() {
				lock.send(p.Module, p.moduleEnc.ModuleReading(s.Reading, p.Module.Reading()))
			} else if p.asciiMode() {
				p.transmitUSB(p.usbEnc.ASCIIReading(s))
			} else {
				p.transmitUSB(p.usbEnc.Reading(s))
			}
		}
	}
}

func (p *Pipeline) runUSBEvents(ctx context.Context) error {
	if err := p.waitStart(ctx); err != nil {
		return err
	}

	for {
		p.report(watchdog.WorkerEvtUSB, watchdog.StateAsleep)
		bits, err := p.usbEvents.Wait(ctx)
		if err != nil {
			return err
		}
		p.report(watchdog.WorkerEvtUSB, watchdog.StateAlive)
		allowed := command.EvtUSBMaskAll
		if p.asciiMode() {
			allowed = command.EvtUSBMaskASCII
		}
		for _, bit := range command.Bits(bits & allowed) {
			b := p.usbEnc.USBEvent(bit)
			if len(b) == 0 {
				continue
			}
			if p.transmitUSB(b) == nil {
				p.tapEvent(ChannelUSB, bit)
			}
		}
	}
}

func (p *Pipeline) runModuleEvents(ctx context.Context) error {
	if err := p.waitStart(ctx); err != nil {
		return err
	}

	for {
		p.report(watchdog.WorkerEvtTCM, watchdog.StateAsleep)
		bits, err := p.moduleEvents.Wait(ctx)
		if err != nil {
			return err
		}
		p.report(watchdog.WorkerEvtTCM, watchdog.StateAlive)
		bits &= command.EvtTCMAll
		if bits == 0 {
			continue
		}
		if !p.Module.TxReady() {
			p.moduleEvents.Post(bits)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(EventRetryDelay):
			}
			continue
		}
		for _, bit := range command.Bits(bits) {
			if err := p.Module.Transmit(p.moduleEnc.TCMEvent(bit)); err != nil {
				glog.Errorf("module event transmit error: %v", err)
				continue
			}
			p.tapEvent(ChannelModule, bit)
		}
	}
}
