// Package sim provides a simulated gauge behind the device interfaces.
package sim

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/device"
)

// Event is a notable state change of the simulated gauge.
type Event int

// Events.
const (
	EventOverload Event = iota
	EventTensionBreak
	EventCompressionBreak
	EventTestStop
	EventBootError
	EventUpdateStatus
)

// DefaultPin is the initial pin of every user.
const DefaultPin = "0000"

// Gauge simulates the measurement, session, system and test state.
type Gauge struct {
	Config device.Config
	// Notify is called outside of the lock when an Event occurs.
	Notify func(Event)

	lock        sync.Mutex
	raw         int32
	loads       [device.NumSources]float32
	connected   [device.NumSources]bool
	overloaded  [device.NumSources]bool
	bootloader  [device.NumSources]bool
	overloads   []device.OverloadRecord
	user        device.User
	pins        map[device.User]string
	sleeping    bool
	dfx         bool
	epoch       uint32
	commActive  int
	calibrating bool
	pending     []string
	updateStat  int32

	testing    bool
	runByHost  bool
	useHost    bool
	results    [device.NumResults]float32
	tBreak     float32
	cBreak     float32
	zeroOffset [device.NumSources]float32

	files
}

// New creates a Gauge with only the primary source connected.
func New(cfg device.Config) *Gauge {
	g := &Gauge{
		Config: cfg,
		pins: map[device.User]string{
			device.UserAdmin: DefaultPin,
			device.UserSuper: DefaultPin,
		},
	}
	g.connected[0] = true
	g.files.init()
	return g
}

// Device wires the gauge into a device.Device.
func (g *Gauge) Device(errs device.ErrorLog) *device.Device {
	return &device.Device{
		Config:      g.Config,
		Measurement: g,
		Users:       g,
		System:      g,
		Tester:      g,
		Files:       g,
		Errors:      errs,
	}
}

func (g *Gauge) notify(ev Event) {
	if g.Notify != nil {
		g.Notify(ev)
	}
}

func idx(s device.Source) int {
	return int(s.Offset())
}

// SetLoad sets the current reading of a source in its calibration unit.
// A reading beyond the capacity marks the source overloaded.
func (g *Gauge) SetLoad(s device.Source, v float32) {
	if !s.IsValid() {
		return
	}
	capacity := g.Config.Float32(device.ParamCapacity.Of(s))
	g.lock.Lock()
	i := idx(s)
	g.loads[i] = v
	over := capacity > 0 && (v > capacity || v < -capacity)
	rising := over && !g.overloaded[i]
	g.overloaded[i] = over
	if rising {
		g.overloads = append(g.overloads, device.OverloadRecord{Value: v, Timestamp: g.epoch})
	}
	g.raw = int32(v * 1000)
	g.lock.Unlock()
	if rising {
		glog.Warningf("source %s overloaded: %g", s, v)
		g.notify(EventOverload)
	}
}

// SetConnected plugs or unplugs a source.
func (g *Gauge) SetConnected(s device.Source, connected bool) {
	if s.IsValid() {
		g.lock.Lock()
		g.connected[idx(s)] = connected
		g.lock.Unlock()
	}
}

// SetBootloader marks an auxiliary module as running its bootloader.
func (g *Gauge) SetBootloader(s device.Source, on bool) {
	if s.IsValid() {
		g.lock.Lock()
		g.bootloader[idx(s)] = on
		g.lock.Unlock()
	}
}

// SetSleeping enters or leaves sleep.
func (g *Gauge) SetSleeping(sleeping bool) {
	g.lock.Lock()
	g.sleeping = sleeping
	g.lock.Unlock()
}

// SetDFX enables the factory test fixture mode.
func (g *Gauge) SetDFX(dfx bool) {
	g.lock.Lock()
	g.dfx = dfx
	g.lock.Unlock()
}

// Pending returns and clears the maintenance requests made so far.
func (g *Gauge) Pending() []string {
	g.lock.Lock()
	defer g.lock.Unlock()
	p := g.pending
	g.pending = nil
	return p
}

// CommActive returns how many times communication was reported.
func (g *Gauge) CommActive() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.commActive
}

// ReadRaw implements device.Measurement.
func (g *Gauge) ReadRaw() int32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.raw
}

// ReadMeasured implements device.Measurement.
func (g *Gauge) ReadMeasured() float32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.loads[0]
}

// ReadAdjusted implements device.Measurement.
func (g *Gauge) ReadAdjusted(s device.Source) float32 {
	if !s.IsValid() {
		return 0
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	v := g.loads[idx(s)] - g.zeroOffset[idx(s)]
	if g.Config.Bool(device.K(device.ParamPolarity)) {
		v = -v
	}
	return v
}

// Overloaded implements device.Measurement.
func (g *Gauge) Overloaded(s device.Source) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return s.IsValid() && g.overloaded[idx(s)]
}

// Connected implements device.Measurement.
func (g *Gauge) Connected(s device.Source) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return s.IsValid() && g.connected[idx(s)]
}

// InBootloader implements device.Measurement.
func (g *Gauge) InBootloader(s device.Source) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return s.IsValid() && g.bootloader[idx(s)]
}

// Overloads implements device.Measurement.
func (g *Gauge) Overloads() []device.OverloadRecord {
	g.lock.Lock()
	defer g.lock.Unlock()
	return append([]device.OverloadRecord(nil), g.overloads...)
}

// ClearOverloads implements device.Measurement.
func (g *Gauge) ClearOverloads() {
	g.lock.Lock()
	g.overloads = nil
	g.lock.Unlock()
}
