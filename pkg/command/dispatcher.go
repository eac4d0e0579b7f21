package command

import (
	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// Status is the result of dispatching an accumulated buffer.
type Status int

const (
	// StatusProcessing means more bytes are needed.
	StatusProcessing Status = iota
	// StatusDone means the buffer was consumed.
	StatusDone
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == StatusDone {
		return "done"
	}
	return "processing"
}

// Default accepted addresses.
const (
	AddrPrimary   byte = 0x01
	AddrSecondary byte = 0x02
	AddrASCII     byte = 0xfe
)

// DefaultAddresses lists the addresses a channel answers to.
var DefaultAddresses = []byte{AddrPrimary, AddrSecondary, AddrASCII}

// PowerState reports whether the device sleeps.
type PowerState interface {
	Sleeping() bool
}

// Session reports the logged in user.
type Session interface {
	CurrentUser() device.User
}

// TextMode reports the configured text protocol.
type TextMode interface {
	ASCIIMode() device.ASCIIMode
}

// LineHandler answers a CR LF terminated text line.
type LineHandler interface {
	HandleLine(mode device.ASCIIMode, line []byte) []byte
}

// Dispatcher validates accumulated bytes of one channel and runs the
// matching command.
type Dispatcher struct {
	Table     *Table
	Addresses []byte
	CheckCRC  bool
	Power     PowerState
	Session   Session
	// Mode and Text are optional. Without them the channel is binary only.
	Mode TextMode
	Text LineHandler
	// Channel holds the current address, created on demand.
	Channel *Address
}

// NewDispatcher creates a binary dispatcher with default settings.
func NewDispatcher(table *Table, dev *device.Device) *Dispatcher {
	return &Dispatcher{
		Table:     table,
		Addresses: DefaultAddresses,
		CheckCRC:  true,
		Power:     dev,
		Session:   dev,
		Channel:   NewAddress(AddrPrimary),
	}
}

// Dispatch consumes buf. StatusProcessing asks for more bytes and
// never carries a response. The response of StatusDone is sealed
// and may be empty.
func (d *Dispatcher) Dispatch(buf []byte) (Status, []byte) {
	if d.Power != nil && d.Power.Sleeping() {
		return StatusDone, nil
	}

	if d.Mode != nil && d.Text != nil {
		if mode := d.Mode.ASCIIMode(); mode != device.ASCIIOff {
			if !frame.LineComplete(buf) {
				return StatusProcessing, nil
			}
			return StatusDone, d.Text.HandleLine(mode, buf[:len(buf)-2])
		}
	}

	if len(buf) == 0 {
		return StatusProcessing, nil
	}
	if !d.accepts(buf[0]) {
		return StatusDone, nil
	}
	if frame.Completion(buf, false) != frame.Complete {
		return StatusProcessing, nil
	}

	if d.Channel == nil {
		d.Channel = NewAddress(AddrPrimary)
	}
	// aliases outside the device range keep the current address
	if buf[0] >= AddrMin && buf[0] <= AddrMax {
		d.Channel.Set(buf[0])
	}

	size := frame.FrameLen(buf)
	req := &Request{
		Addr:    buf[0],
		Code:    buf[1],
		Data:    buf[frame.HeaderLen : size-1],
		Raw:     buf[:size],
		Channel: d.Channel,
	}
	rsp := newResponse(req.Code, d.Channel)
	d.run(req, rsp)
	if rsp.Empty() {
		return StatusDone, nil
	}
	return StatusDone, frame.AppendChecksum(rsp.Bytes())
}

func (d *Dispatcher) run(req *Request, rsp *Response) {
	if d.CheckCRC && !frame.ChecksumValid(req.Raw) {
		glog.V(3).Infof("CMD %s: bad checksum", CodeName(req.Code))
		rsp.Nack(frame.ExcCRCError)
		return
	}
	entry, ok := d.Table.Lookup(req.Code)
	if !ok {
		glog.V(3).Infof("CMD 0x%02x: unknown", req.Code)
		rsp.Nack(frame.ExcUnknownCmd)
		return
	}
	if d.Session != nil && !entry.Perm.Allows(d.Session.CurrentUser()) {
		rsp.Nack(frame.ExcNoPerm)
		return
	}
	entry.Handler(req, rsp)
	glog.V(4).Infof("CMD %s % x => % x", CodeName(req.Code), req.Data, rsp.Bytes())
}

func (d *Dispatcher) accepts(addr byte) bool {
	for _, a := range d.Addresses {
		if a == addr {
			return true
		}
	}
	return false
}
