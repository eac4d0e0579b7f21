package measure

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/gauge.go/pkg/cli/sh"
	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

const (
	optStart byte = 1
	optStop  byte = 2
)

func parseSource(c *ishell.Context, index int) (byte, bool) {
	if len(c.Args) <= index {
		return device.SourcePrim.Offset(), true
	}
	val, err := strconv.ParseUint(c.Args[index], 10, 8)
	if err != nil || !device.SourceFromOffset(byte(val)).IsValid() {
		c.Err(fmt.Errorf("Invalid SRC: %s", c.Args[index]))
		return 0, false
	}
	return byte(val), true
}

func printFloat(c *ishell.Context, code byte, data ...byte) {
	f, err := sh.DoCommand(c, code, data...)
	if err != nil {
		return
	}
	v, ok := frame.Float32(f.Data)
	if !ok {
		sh.PrintReply(c, f)
		return
	}
	c.Println(strconv.FormatFloat(float64(v), 'f', -1, 32))
}

var (
	// ReadCmd reads the adjusted value of a source.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "[SRC]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if src, ok := parseSource(c, 0); ok {
				printFloat(c, command.CodeReadTrue, src)
			}
		}),
	}

	// ReadRawCmd reads the raw converter count.
	ReadRawCmd = ishell.Cmd{
		Name: "read.raw",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			f, err := sh.DoCommand(c, command.CodeReadRaw, 0)
			if err != nil {
				return
			}
			if v, ok := frame.Int32(f.Data); ok {
				c.Println(v)
				return
			}
			sh.PrintReply(c, f)
		}),
	}

	// BurstCmd starts or stops periodic readings.
	BurstCmd = ishell.Cmd{
		Name:    "burst",
		Aliases: []string{"b"},
		Help:    "start PERIOD(ms) | stop",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("start or stop required"))
				return
			}
			data := []byte{device.SourcePrim.Offset()}
			switch c.Args[0] {
			case "start":
				if len(c.Args) < 2 {
					c.Err(fmt.Errorf("PERIOD required"))
					return
				}
				ms, err := strconv.ParseUint(c.Args[1], 10, 32)
				if err != nil {
					c.Err(fmt.Errorf("Invalid PERIOD: %v", err))
					return
				}
				data = append(data, optStart)
				data = append(data, frame.PutUint32(uint32(ms))...)
			case "stop":
				data = append(data, optStop)
			default:
				c.Err(fmt.Errorf("start or stop required"))
				return
			}
			if f, err := sh.DoCommand(c, command.CodeReadBurst, data...); err == nil {
				sh.PrintReply(c, f)
			}
		}),
	}

	// ZeroCmd zeroes a source.
	ZeroCmd = ishell.Cmd{
		Name:    "zero",
		Aliases: []string{"z"},
		Help:    "[SRC]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			src, ok := parseSource(c, 0)
			if !ok {
				return
			}
			if f, err := sh.DoCommand(c, command.CodeZero, src, byte(device.ZeroLoad)); err == nil {
				sh.PrintReply(c, f)
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&ReadCmd,
		&ReadRawCmd,
		&BurstCmd,
		&ZeroCmd,
	)
}
