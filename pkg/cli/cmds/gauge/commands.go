package gauge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/gauge.go/pkg/cli/sh"
	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

const (
	optStart byte = 1
	optStop  byte = 2
	pinLen        = 4
)

func printText(c *ishell.Context, code byte, data ...byte) {
	if f, err := sh.DoCommand(c, code, data...); err == nil {
		c.Println(string(f.Data))
	}
}

var (
	// AppVerCmd queries the protocol version.
	AppVerCmd = ishell.Cmd{
		Name:    "appver",
		Aliases: []string{"ver"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			f, err := sh.DoCommand(c, command.CodeAppVer)
			if err != nil {
				return
			}
			if len(f.Data) != 2 {
				sh.PrintReply(c, f)
				return
			}
			c.Printf("%d.%d\n", f.Data[0], f.Data[1])
		}),
	}

	// InfoCmd prints the identity and versions of the gauge.
	InfoCmd = ishell.Cmd{
		Name:    "info",
		Aliases: []string{"idn"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			src := device.SourcePrim.Offset()
			for _, q := range []struct {
				name string
				code byte
			}{
				{"identity", command.CodeIdn},
				{"firmware", command.CodeVerFw},
				{"hardware", command.CodeVerHw},
			} {
				c.Printf("%-9s ", q.name+":")
				printText(c, q.code, src)
			}
		}),
	}

	// LoginCmd starts a user session.
	LoginCmd = ishell.Cmd{
		Name: "login",
		Help: "normal|admin PIN",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("USER and PIN required"))
				return
			}
			var user device.User
			switch strings.ToLower(c.Args[0]) {
			case "normal":
				user = device.UserNormal
			case "admin":
				user = device.UserAdmin
			default:
				c.Err(fmt.Errorf("Invalid USER: %s", c.Args[0]))
				return
			}
			if len(c.Args[1]) > pinLen {
				c.Err(fmt.Errorf("PIN too long"))
				return
			}
			pin := make([]byte, pinLen)
			copy(pin, c.Args[1])
			data := append([]byte{optStart, byte(user)}, pin...)
			if f, err := sh.DoCommand(c, command.CodeUserAccess, data...); err == nil {
				sh.PrintReply(c, f)
			}
		}),
	}

	// LogoutCmd clears the user session.
	LogoutCmd = ishell.Cmd{
		Name: "logout",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if f, err := sh.DoCommand(c, command.CodeUserAccess, optStop); err == nil {
				sh.PrintReply(c, f)
			}
		}),
	}

	// EvtMaskCmd gets or sets the host event mask.
	EvtMaskCmd = ishell.Cmd{
		Name:    "evtmask",
		Aliases: []string{"em"},
		Help:    "[MASK]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				f, err := sh.DoCommand(c, command.CodeEvtMask, command.ArgGet)
				if err != nil {
					return
				}
				mask, ok := frame.Uint32(f.Data)
				if !ok {
					sh.PrintReply(c, f)
					return
				}
				names := make([]string, 0, 8)
				for _, bit := range command.Bits(mask) {
					names = append(names, command.USBEventName(bit))
				}
				c.Printf("0x%08x %s\n", mask, strings.Join(names, ","))
				return
			}
			mask, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("Invalid MASK: %v", err))
				return
			}
			data := append([]byte{command.ArgSet}, frame.PutUint32(uint32(mask))...)
			if f, err := sh.DoCommand(c, command.CodeEvtMask, data...); err == nil {
				sh.PrintReply(c, f)
			}
		}),
	}

	// SleepCmd requests the gauge to sleep.
	SleepCmd = ishell.Cmd{
		Name: "sleep",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if f, err := sh.DoCommand(c, command.CodeSleep); err == nil {
				sh.PrintReply(c, f)
			}
		}),
	}

	// ASCIICmd switches reply parsing or sends a text command.
	ASCIICmd = ishell.Cmd{
		Name:    "ascii",
		Aliases: []string{"a"},
		Help:    "on|off|LINE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			cli := sh.ShellFrom(c).Conn.Client
			if len(c.Args) == 0 {
				c.Println(cli.ASCII())
				return
			}
			switch c.Args[0] {
			case "on":
				cli.SetASCII(true)
				return
			case "off":
				cli.SetASCII(false)
				return
			}
			if !cli.ASCII() {
				c.Err(fmt.Errorf("ascii is off"))
				return
			}
			if err := cli.SendLine(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&AppVerCmd,
		&InfoCmd,
		&LoginCmd,
		&LogoutCmd,
		&EvtMaskCmd,
		&SleepCmd,
		&ASCIICmd,
	)
}
