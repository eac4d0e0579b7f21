package com

import (
	"math"
	"sync/atomic"
)

// USBPort is the host facing transmitter.
type USBPort interface {
	Transmit([]byte) error
}

// ModulePort is the module link. It has no transmit lock, only a ready
// flag cleared by the pipeline when the peer stops draining.
type ModulePort interface {
	TxReady() bool
	ResetTxReady()
	Transmit([]byte) error
	Connected() bool
	SetConnected(bool)
	// BurstMode tells if the module wants burst readings.
	BurstMode() bool
	// Reading is the module's own measurement sent along burst readings.
	Reading() float32
}

// ModuleState is a ModulePort building block holding the link flags.
type ModuleState struct {
	ready     int32
	connected int32
	burst     int32
	reading   uint32
}

func flag(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// TxReady implements ModulePort.
func (s *ModuleState) TxReady() bool {
	return atomic.LoadInt32(&s.ready) != 0
}

// SetTxReady is called by the link when the peer drained its buffer.
func (s *ModuleState) SetTxReady(ready bool) {
	atomic.StoreInt32(&s.ready, flag(ready))
}

// ResetTxReady implements ModulePort.
func (s *ModuleState) ResetTxReady() {
	atomic.StoreInt32(&s.ready, 0)
}

// Connected implements ModulePort.
func (s *ModuleState) Connected() bool {
	return atomic.LoadInt32(&s.connected) != 0
}

// SetConnected implements ModulePort.
func (s *ModuleState) SetConnected(connected bool) {
	atomic.StoreInt32(&s.connected, flag(connected))
}

// BurstMode implements ModulePort.
func (s *ModuleState) BurstMode() bool {
	return atomic.LoadInt32(&s.burst) != 0
}

// SetBurstMode switches burst readings to the module link.
func (s *ModuleState) SetBurstMode(on bool) {
	atomic.StoreInt32(&s.burst, flag(on))
}

// Reading implements ModulePort.
func (s *ModuleState) Reading() float32 {
	return math.Float32frombits(atomic.LoadUint32(&s.reading))
}

// SetReading updates the module reading.
func (s *ModuleState) SetReading(v float32) {
	atomic.StoreUint32(&s.reading, math.Float32bits(v))
}

// NoModule is a ModulePort for gauges without a module. It is never
// ready and drops everything.
type NoModule struct {
	ModuleState
}

// Transmit implements ModulePort.
func (*NoModule) Transmit([]byte) error {
	return nil
}
