// Package ascii implements the legacy text protocols.
package ascii

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device"
)

// Replies.
const (
	ReplyOK  = "!OK\r\n"
	ReplyNOK = "!NOK\r\n"
)

// ResetKeyword restores defaults in any text mode.
const ResetKeyword = "DF3RST"

type lineFunc func(a *Adapter, args []string) []byte

// Adapter answers text lines in the configured dialect.
type Adapter struct {
	Device *device.Device

	streaming int32
}

// New creates an Adapter.
func New(dev *device.Device) *Adapter {
	return &Adapter{Device: dev}
}

// HandleLine implements command.LineHandler.
func (a *Adapter) HandleLine(mode device.ASCIIMode, line []byte) []byte {
	text := string(line)
	if strings.HasPrefix(text, ResetKeyword) {
		a.Device.Config.RestoreDefaults()
		a.Device.Config.SetBool(device.K(device.ParamProgrammed), false)
		glog.Info("defaults restored by text command")
		return ok()
	}
	var cmds map[string]lineFunc
	switch mode {
	case device.ASCIIDF3:
		cmds = df3Commands
	case device.ASCIIDF2W, device.ASCIIDF2O:
		cmds = df2Commands
	default:
		return nok()
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nok()
	}
	fn, found := cmds[strings.ToUpper(fields[0])]
	if !found {
		glog.V(3).Infof("ASCII %s: unknown %q", mode, text)
		return nok()
	}
	return fn(a, fields[1:])
}

// Streaming tells whether continuous DF2 output is on.
func (a *Adapter) Streaming() bool {
	return atomic.LoadInt32(&a.streaming) != 0
}

// SetStreaming turns continuous DF2 output on or off.
func (a *Adapter) SetStreaming(on bool) {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&a.streaming, v)
}

// StreamReading formats the current normal reading of the test source.
func (a *Adapter) StreamReading() []byte {
	dev := a.Device
	return command.FormatReading(dev, dev.SourceLoad(),
		dev.Tester.NormalReading(), dev.ASCIIMode() == device.ASCIIDF2W)
}

func ok() []byte {
	return []byte(ReplyOK)
}

func nok() []byte {
	return []byte(ReplyNOK)
}

func reply(s string) []byte {
	return []byte(s + "\r\n")
}

func (a *Adapter) reading(withUnit bool) []byte {
	dev := a.Device
	src := dev.SourceLoad()
	if dev.Measurement.Overloaded(src) {
		return reply("OVERLOAD")
	}
	return command.FormatReading(dev, src, dev.Measurement.ReadAdjusted(src), withUnit)
}

func (a *Adapter) zero() []byte {
	opt := device.ZeroOption(a.Device.Config.Uint32(device.K(device.ParamZeroDef)))
	a.Device.Tester.Zero(opt)
	return ok()
}

func (a *Adapter) units(args []string) []byte {
	cfg := a.Device.Config
	if len(args) == 0 {
		return reply(device.UnitName(cfg.Uint32(device.K(device.ParamUnits))))
	}
	idx, found := device.UnitIndex(args[0])
	if !found || !cfg.SetUint32(device.K(device.ParamUnits), idx) {
		return nok()
	}
	return ok()
}

var df3Commands = map[string]lineFunc{
	"?": func(a *Adapter, args []string) []byte {
		return a.reading(true)
	},
	"Z": func(a *Adapter, args []string) []byte {
		return a.zero()
	},
	"IDN?": func(a *Adapter, args []string) []byte {
		return reply(command.Identity(a.Device, device.SourcePrim))
	},
	"VER?": func(a *Adapter, args []string) []byte {
		return reply(a.Device.System.FirmwareVersion(device.SourcePrim))
	},
	"UNITS": func(a *Adapter, args []string) []byte {
		return a.units(args)
	},
	"START": func(a *Adapter, args []string) []byte {
		t := a.Device.Tester
		if t.ErrorConditions() || !t.Start() {
			return nok()
		}
		t.SetRunByHost()
		return ok()
	},
	"STOP": func(a *Adapter, args []string) []byte {
		t := a.Device.Tester
		if !t.RunByHost() || !t.Stop() {
			return nok()
		}
		return ok()
	},
	"RES?": func(a *Adapter, args []string) []byte {
		if len(args) != 1 {
			return nok()
		}
		idx, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil || idx >= device.NumResults {
			return nok()
		}
		v := a.Device.Tester.Result(uint8(idx))
		return command.FormatReading(a.Device, a.Device.SourceLoad(), v, true)
	},
}

var df2Commands = map[string]lineFunc{
	"?": func(a *Adapter, args []string) []byte {
		return a.reading(a.Device.ASCIIMode() == device.ASCIIDF2W)
	},
	"Z": func(a *Adapter, args []string) []byte {
		return a.zero()
	},
	"U": func(a *Adapter, args []string) []byte {
		return a.units(args)
	},
	"C": func(a *Adapter, args []string) []byte {
		a.SetStreaming(true)
		return ok()
	},
	"S": func(a *Adapter, args []string) []byte {
		a.SetStreaming(false)
		return ok()
	},
}
