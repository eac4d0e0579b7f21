package daemon

import (
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/device/sim"
	"github.com/robotalks/gauge.go/pkg/framework"
	"github.com/robotalks/gauge.go/pkg/watchdog"
)

// housekeeping reports the workers the simulated gauge has no goroutine
// for. Auxiliary module workers sleep while their source is disconnected.
type housekeeping struct {
	gauge    *sim.Gauge
	reporter watchdog.Reporter
}

var systemWorkers = []watchdog.Worker{
	watchdog.WorkerSys,
	watchdog.WorkerIO,
	watchdog.WorkerConfig,
	watchdog.WorkerAxMHost,
	watchdog.WorkerUpdateAxM,
}

func newHousekeeping(g *sim.Gauge, r watchdog.Reporter) *housekeeping {
	return &housekeeping{gauge: g, reporter: r}
}

// Control implements framework.Controller.
func (h *housekeeping) Control(framework.ControlContext) error {
	for _, w := range systemWorkers {
		h.reporter.Report(w, watchdog.StateAlive)
	}
	h.reportIf(watchdog.WorkerDisplay, !h.gauge.Sleeping())
	h.reportIf(watchdog.WorkerAxM1, h.gauge.Connected(device.SourceAux1))
	h.reportIf(watchdog.WorkerAxM2, h.gauge.Connected(device.SourceAux2))
	return nil
}

func (h *housekeeping) reportIf(w watchdog.Worker, alive bool) {
	if alive {
		h.reporter.Report(w, watchdog.StateAlive)
		return
	}
	h.reporter.Report(w, watchdog.StateAsleep)
}

// AddToLoop installs the reporter before the monitor checks the window.
func (h *housekeeping) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvLow, h)
}
