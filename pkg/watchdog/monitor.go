// Package watchdog supervises worker liveness and refreshes the hardware
// watchdog while every worker keeps reporting.
package watchdog

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/fault"
	"github.com/robotalks/gauge.go/pkg/framework"
)

// Worker identifies a supervised worker.
type Worker int

// Workers.
const (
	WorkerSys Worker = iota
	WorkerDisplay
	WorkerIO
	WorkerDAQ
	WorkerConfig
	WorkerCmdUSB
	WorkerCmdTCM
	WorkerComData
	WorkerEvtUSB
	WorkerEvtTCM
	WorkerAxMHost
	WorkerAxM1
	WorkerAxM2
	WorkerUpdateAxM

	NumWorkers
)

var workerNames = [NumWorkers]string{
	"sys", "display", "io", "daq", "config", "cmd-usb", "cmd-tcm",
	"com-data", "evt-usb", "evt-tcm", "axm-host", "axm1", "axm2", "update-axm",
}

// String implements fmt.Stringer.
func (w Worker) String() string {
	if w >= 0 && w < NumWorkers {
		return workerNames[w]
	}
	return fmt.Sprintf("worker(%d)", int(w))
}

// State is the liveness of a worker in the current window.
type State int32

// States.
const (
	StateUnknown State = iota
	StateAsleep
	StateAlive
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAsleep:
		return "asleep"
	case StateAlive:
		return "alive"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Timing of the supervision.
const (
	Period  = 100 * time.Millisecond
	Timeout = 2 * time.Second
)

// Hardware is the watchdog peripheral.
type Hardware interface {
	Start(timeout time.Duration) error
	Refresh()
}

// Reporter accepts liveness reports.
type Reporter interface {
	Report(Worker, State)
}

// Monitor tracks liveness states and refreshes the hardware watchdog.
type Monitor struct {
	Hardware Hardware

	states    [NumWorkers]int32
	refreshes uint64
	skipped   uint64
}

// New creates a Monitor with all workers Unknown.
func New(hw Hardware) *Monitor {
	return &Monitor{Hardware: hw}
}

// Start arms the hardware watchdog. A failure is reported as fatal.
func (m *Monitor) Start(faults fault.Reporter) error {
	if err := m.Hardware.Start(Timeout); err != nil {
		glog.Errorf("watchdog start error: %v", err)
		if faults != nil {
			faults.Report(fault.CodeWatchdogInit)
		}
		return err
	}
	return nil
}

// Report implements Reporter. It never blocks.
func (m *Monitor) Report(w Worker, s State) {
	if w >= 0 && w < NumWorkers {
		atomic.StoreInt32(&m.states[w], int32(s))
	}
}

// State returns the current state of a worker.
func (m *Monitor) State(w Worker) State {
	return State(atomic.LoadInt32(&m.states[w]))
}

// Snapshot returns the states of all workers.
func (m *Monitor) Snapshot() [NumWorkers]State {
	var out [NumWorkers]State
	for w := range out {
		out[w] = m.State(Worker(w))
	}
	return out
}

// Stalled lists workers which haven't reported in this window.
func (m *Monitor) Stalled() []Worker {
	var stalled []Worker
	for w := Worker(0); w < NumWorkers; w++ {
		if m.State(w) == StateUnknown {
			stalled = append(stalled, w)
		}
	}
	return stalled
}

// Refreshes returns how many windows refreshed the hardware.
func (m *Monitor) Refreshes() uint64 {
	return atomic.LoadUint64(&m.refreshes)
}

// Skipped returns how many windows ended with a stalled worker.
func (m *Monitor) Skipped() uint64 {
	return atomic.LoadUint64(&m.skipped)
}

// Check closes the current window. If every worker reported, the hardware
// is refreshed and Alive workers are reset to Unknown. Asleep is kept.
func (m *Monitor) Check() bool {
	if stalled := m.Stalled(); len(stalled) > 0 {
		atomic.AddUint64(&m.skipped, 1)
		glog.V(3).Infof("watchdog not refreshed, stalled: %v", stalled)
		return false
	}
	m.Hardware.Refresh()
	atomic.AddUint64(&m.refreshes, 1)
	for w := range m.states {
		atomic.CompareAndSwapInt32(&m.states[w], int32(StateAlive), int32(StateUnknown))
	}
	return true
}

// Control implements framework.Controller.
func (m *Monitor) Control(framework.ControlContext) error {
	m.Check()
	return nil
}

// AddToLoop installs the monitor to supervise the loop.
func (m *Monitor) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvSupervise, m)
}
