package sim

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/framework"
)

// SampleInterval is the acquisition period.
const SampleInterval = 10 * time.Millisecond

// Waveform produces the simulated load at a time since start.
type Waveform func(elapsed time.Duration) float32

// Sine returns a sine waveform.
func Sine(amplitude float32, period time.Duration) Waveform {
	return func(elapsed time.Duration) float32 {
		phase := 2 * math.Pi * float64(elapsed) / float64(period)
		return amplitude * float32(math.Sin(phase))
	}
}

// Acquisition samples the gauge and pushes burst readings.
type Acquisition struct {
	Gauge    *Gauge
	Waveform Waveform
	// Samples receives burst readings. Full queues drop the reading.
	Samples chan<- device.Sample
	// Heartbeat is called on every iteration.
	Heartbeat func()

	start    time.Time
	lastSent time.Time
	dropped  int
}

// AddToLoop installs the acquisition at sensing priority.
func (a *Acquisition) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvSense, a)
}

// Dropped returns the number of readings dropped on a full queue.
func (a *Acquisition) Dropped() int {
	return a.dropped
}

// Control implements framework.Controller.
func (a *Acquisition) Control(ctx framework.ControlContext) error {
	now := ctx.Time()
	if a.Heartbeat != nil {
		a.Heartbeat()
	}
	if a.start.IsZero() {
		a.start = now
	}
	if a.Waveform != nil {
		v := a.Waveform(now.Sub(a.start))
		a.Gauge.SetLoad(device.SourcePrim, v)
		a.Gauge.Track(v)
	}

	cfg := a.Gauge.Config
	if !cfg.Bool(device.K(device.ParamDataComEnable)) || a.Gauge.Sleeping() {
		return nil
	}
	period := time.Duration(cfg.Uint32(device.K(device.ParamDataComTime))) * time.Millisecond
	if now.Sub(a.lastSent) < period {
		return nil
	}
	a.lastSent = now
	src := device.Source(cfg.Uint32(device.K(device.ParamSourceLoad)))
	s := device.Sample{Source: src, Reading: a.Gauge.ReadAdjusted(src)}
	select {
	case a.Samples <- s:
	default:
		a.dropped++
		glog.V(2).Infof("data queue full, reading dropped")
	}
	return nil
}
