// Package daemon assembles a simulated gauge with its communication
// pipeline, watchdog and telemetry from a config.Config.
package daemon

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/com"
	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/config"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/device/sim"
	"github.com/robotalks/gauge.go/pkg/device/store"
	"github.com/robotalks/gauge.go/pkg/fault"
	"github.com/robotalks/gauge.go/pkg/framework"
	"github.com/robotalks/gauge.go/pkg/link"
	"github.com/robotalks/gauge.go/pkg/link/serial"
	"github.com/robotalks/gauge.go/pkg/link/stream"
	"github.com/robotalks/gauge.go/pkg/link/websocket"
	"github.com/robotalks/gauge.go/pkg/telemetry/modbus"
	"github.com/robotalks/gauge.go/pkg/telemetry/mqtt"
	"github.com/robotalks/gauge.go/pkg/watchdog"
)

// ErrRestart is returned by Run when a fatal error asks for a restart.
var ErrRestart = errors.New("restart requested")

// Daemon is an assembled gauge.
type Daemon struct {
	Config   *config.Config
	Store    *store.MemStore
	Gauge    *sim.Gauge
	Device   *device.Device
	Faults   *fault.Sink
	Pipeline *com.Pipeline
	Monitor  *watchdog.Monitor
	Dog      *watchdog.SoftDog
	Loop     *framework.Loop

	// Host is the serial host link, HostServer serves it over websocket
	// when no port is configured.
	Host       *link.Pump
	HostServer *websocket.Server
	Module     *stream.Module

	Acquisition *sim.Acquisition
	Bridge      *mqtt.Bridge
	Mirror      *modbus.Mirror

	runnables []framework.Runnable
	closers   []io.Closer

	lock    sync.Mutex
	cancel  func()
	restart bool
}

// New assembles a daemon. cfg must be validated.
func New(cfg *config.Config) (*Daemon, error) {
	d := &Daemon{Config: cfg, Loop: framework.NewLoop()}
	d.Loop.Interval = cfg.WatchdogPeriod
	d.Faults = fault.NewSink(!cfg.Release)
	d.Faults.Restart = d.requestRestart

	s, err := store.Load(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	d.Store = s
	d.applyConfig()

	d.Gauge = sim.New(s)
	d.Device = d.Gauge.Device(d.Faults)

	usb, err := d.openHostLink()
	if err != nil {
		d.Faults.Report(fault.CodeUSB)
		d.Close()
		return nil, err
	}
	d.Pipeline = com.New(d.Device, usb, d.openModuleLink())
	if d.Host != nil {
		d.Host.Receive = d.Pipeline.ReceiveUSB
	}
	if d.HostServer != nil {
		d.HostServer.Receive = d.Pipeline.ReceiveUSB
	}
	if d.Module != nil {
		d.Module.Receive = d.Pipeline.ReceiveModule
	}
	d.setupDispatcher(d.Pipeline.USBCommands)
	d.setupDispatcher(d.Pipeline.ModuleCommands)
	d.Gauge.Notify = d.notify

	d.Dog = &watchdog.SoftDog{}
	if cfg.Release {
		d.Dog.Expired = func() {
			glog.Errorf("watchdog expired, restarting")
			d.requestRestart(fault.CodeNone)
		}
	}
	d.Monitor = watchdog.New(d.Dog)
	d.Pipeline.Liveness = d.Monitor

	d.Acquisition = &sim.Acquisition{
		Gauge:    d.Gauge,
		Waveform: sim.Sine(float32(cfg.SimAmplitude), cfg.SimPeriod),
		Samples:  d.Pipeline.Samples(),
		Heartbeat: func() {
			d.Monitor.Report(watchdog.WorkerDAQ, watchdog.StateAlive)
		},
	}
	d.Loop.Add(d.Acquisition, newHousekeeping(d.Gauge, d.Monitor), d.Monitor)

	if err := d.setupTelemetry(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Daemon) applyConfig() {
	cfg := d.Config
	d.Store.SetString(device.K(device.ParamSerial), cfg.Serial)
	d.Store.SetUint32(device.K(device.ParamASCIIMode), uint32(cfg.Mode()))
}

func (d *Daemon) setupDispatcher(disp *command.Dispatcher) {
	disp.Addresses = d.Config.Addresses()
	disp.CheckCRC = d.Config.CheckCRC
	disp.Channel.Set(d.Config.AddrPrimary)
}

// openHostLink opens the serial host port, or serves the link over
// websocket when no port is configured.
func (d *Daemon) openHostLink() (com.USBPort, error) {
	if d.Config.USB.Name != "" {
		port, err := serial.Open(d.Config.USB)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, port)
		d.Host = link.NewPump("usb", port, nil)
		d.runnables = append(d.runnables, d.Host)
		return d.Host, nil
	}
	d.HostServer = websocket.NewServer(d.Config.Listen, nil)
	d.runnables = append(d.runnables, d.HostServer)
	return d.HostServer, nil
}

func (d *Daemon) openModuleLink() com.ModulePort {
	if d.Config.Module.Name == "" {
		return &com.NoModule{}
	}
	port, err := serial.Open(d.Config.Module)
	if err != nil {
		glog.Errorf("module link %s: %v", d.Config.Module.Name, err)
		d.Faults.Report(fault.CodeModuleLink)
		return &com.NoModule{}
	}
	d.closers = append(d.closers, port)
	d.Module = stream.NewModule(port, nil)
	d.runnables = append(d.runnables, d.Module)
	return d.Module
}

func (d *Daemon) setupTelemetry() error {
	cfg := d.Config
	if cfg.MQTTBrokerURL != "" {
		q, err := mqtt.NewQueueFromURL(cfg.MQTTBrokerURL)
		if err != nil {
			return err
		}
		b := mqtt.NewBridge(q, cfg.Serial, d.Device)
		b.Commands = command.NewDispatcher(command.NewStandardTable(d.Device, d.Pipeline.PostUSBEvent), d.Device)
		d.setupDispatcher(b.Commands)
		b.Monitor, b.Faults, b.Pipeline = d.Monitor, d.Faults, d.Pipeline
		b.Attach(q)
		if tok := q.Connect(); tok.Wait() && tok.Error() != nil {
			return tok.Error()
		}
		d.closers = append(d.closers, q)
		d.Pipeline.Taps = append(d.Pipeline.Taps, b)
		d.Loop.Add(b)
		d.Bridge = b
	}
	if cfg.Modbus.Endpoint != "" {
		m, err := modbus.Dial(cfg.Modbus, d.Device)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, m)
		d.Loop.Add(m)
		d.Mirror = m
	}
	return nil
}

func (d *Daemon) requestRestart(code fault.Code) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.restart = true
	if d.cancel != nil {
		d.cancel()
	}
}

// Run arms the watchdog, opens the pipeline and runs until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.lock.Lock()
	d.cancel = cancel
	d.lock.Unlock()
	defer cancel()

	if err := d.Monitor.Start(d.Faults); err != nil {
		return err
	}
	defer d.Dog.Stop()

	runner := framework.NewRunnerWith(ctx)
	runner.Go(d.runnables...)
	runner.Go(framework.NamedRun("pipeline", d.Pipeline), framework.NamedRun("loop", d.Loop))
	d.Pipeline.Start()
	glog.Infof("gauge %s started", d.Config.Serial)
	err := runner.Wait()

	d.lock.Lock()
	restart := d.restart
	d.lock.Unlock()
	if restart {
		return ErrRestart
	}
	return err
}

// Close releases the opened links.
func (d *Daemon) Close() error {
	var errs framework.AggregatedError
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs.Add(d.closers[i].Close())
	}
	d.closers = nil
	return errs.Aggregate()
}
