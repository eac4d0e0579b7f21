package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/fatih/color"

	"github.com/robotalks/gauge.go/pkg/client"
	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/frame"
	"github.com/robotalks/gauge.go/pkg/link/serial"
	"github.com/robotalks/gauge.go/pkg/link/websocket"
)

// CommandTimeout limits the wait for a reply.
const CommandTimeout = time.Second

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	Target      string
	Baud        int

	Shell *ishell.Shell
	Conn  *Conn
}

// Conn is a running client connected to a gauge.
type Conn struct {
	Ctx    context.Context
	Cancel func()
	Target string
	Client *client.Client
	closer io.Closer
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	target     = os.Getenv("GAUGE_PORT")
	baud       = serial.DefaultBaud

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&ExecCmd,
		&RawCmd,
	}

	eventColor = color.New(color.FgYellow)
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&target, "port", target, "Serial port or ws:// URL of the gauge.")
	flag.IntVar(&baud, "baud", baud, "Serial baud rate.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Target:      target,
		Baud:        baud,

		Shell: ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatFrame prints a reply into friendly string for display.
func FormatFrame(f *frame.Frame) string {
	if f.IsAck() {
		return "OK"
	}
	return fmt.Sprintf("%s % x", command.CodeName(f.Code), f.Data)
}

type jsonReply struct {
	Code string `json:"code"`
	Data string `json:"data"`
	Ack  bool   `json:"ack,omitempty"`
}

// DoCommand runs a command and waits for its reply.
func DoCommand(c *ishell.Context, code byte, data ...byte) (*frame.Frame, error) {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return nil, err
	}
	ctx, cancel := context.WithTimeout(s.Conn.Ctx, CommandTimeout)
	defer cancel()
	f, err := s.Conn.Client.Call(ctx, code, data...)
	if err == context.DeadlineExceeded {
		err = fmt.Errorf("Command timeout")
	}
	if err != nil {
		c.Err(err)
		return nil, err
	}
	return f, nil
}

// PrintReply prints the reply of a command.
func PrintReply(c *ishell.Context, f *frame.Frame) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(&jsonReply{
			Code: command.CodeName(f.Code),
			Data: hex.EncodeToString(f.Data),
			Ack:  f.IsAck(),
		})
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(FormatFrame(f))
}

// Open opens the link to target, a serial port path or a ws:// URL.
func (s *Shell) Open(target string) (io.ReadWriteCloser, error) {
	if strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://") {
		return websocket.Dial(target)
	}
	return serial.Open(serial.Config{Name: target, Baud: s.Baud})
}

// Connect connects the gauge at target.
func (s *Shell) Connect(target string) error {
	rw, err := s.Open(target)
	if err != nil {
		return err
	}
	conn := &Conn{Target: target, Client: client.New(rw), closer: rw}
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Conn = conn
	go s.run(conn)
	go s.printEvents(conn)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	return nil
}

func (s *Shell) run(conn *Conn) {
	err := conn.Client.Run(conn.Ctx)
	conn.closer.Close()
	if err != nil && err != context.Canceled {
		s.Shell.Printf("%s: %v\n", conn.Target, err)
	}
}

func (s *Shell) printEvents(conn *Conn) {
	for {
		select {
		case <-conn.Ctx.Done():
			return
		case f := <-conn.Client.EventChan():
			s.Shell.Println(eventColor.Sprint(FormatEvent(f)))
		case line := <-conn.Client.LineChan():
			s.Shell.Println(line)
		}
	}
}

// FormatEvent prints an unsolicited frame.
func FormatEvent(f *frame.Frame) string {
	if f.Code != command.CodeEvent {
		return "unsolicited " + f.String()
	}
	bit, ok := frame.Uint32(f.Data)
	if !ok {
		return "EVENT " + f.String()
	}
	msg := "EVENT " + command.USBEventName(bit)
	if len(f.Data) >= 8 {
		if v, ok := frame.Float32(f.Data[4:]); ok {
			msg += fmt.Sprintf(" %g", v)
		}
	}
	return msg
}

// Disconnect disconnects current gauge.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Target != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Target)
		}
		if err := s.Connect(s.Target); err != nil {
			log.Fatalf("connect %q failed: %v", s.Target, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// ParseHex parses bytes from args like "01 02" or "0102".
func ParseHex(args []string) ([]byte, error) {
	return hex.DecodeString(strings.Join(args, ""))
}

var (
	// ConnectCmd connects a gauge.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "PORT|URL",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PORT required"))
				return
			}
			if err := ShellFrom(c).Connect(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current gauge.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// ExecCmd sends any command by name or code.
	ExecCmd = ishell.Cmd{
		Name:    "exec",
		Aliases: []string{"x"},
		Help:    "NAME|CODE [HEX-DATA]",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("command required"))
				return
			}
			code, ok := command.CodeByName(strings.ToUpper(c.Args[0]))
			if !ok {
				b, err := hex.DecodeString(strings.TrimPrefix(c.Args[0], "0x"))
				if err != nil || len(b) != 1 {
					c.Err(fmt.Errorf("unknown command %q", c.Args[0]))
					return
				}
				code = b[0]
			}
			data, err := ParseHex(c.Args[1:])
			if err != nil {
				c.Err(fmt.Errorf("Invalid DATA: %v", err))
				return
			}
			if f, err := DoCommand(c, code, data...); err == nil {
				PrintReply(c, f)
			}
		}),
	}

	// RawCmd writes raw bytes, appending the checksum with -c.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "[-c] HEX",
		Func: MustBeConnected(func(c *ishell.Context) {
			args := c.Args
			seal := len(args) > 0 && args[0] == "-c"
			if seal {
				args = args[1:]
			}
			b, err := ParseHex(args)
			if err != nil {
				c.Err(fmt.Errorf("Invalid HEX: %v", err))
				return
			}
			if seal {
				b = frame.AppendChecksum(b)
			}
			if err := ShellFrom(c).Conn.Client.Send(b); err != nil {
				c.Err(err)
			}
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
