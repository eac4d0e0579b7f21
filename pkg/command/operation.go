package command

import (
	"strings"

	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// Option values shared by two-way operations.
const (
	optStart byte = 1
	optStop  byte = 2
)

const pinLen = 4

func pin(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}

func (h *handlers) defaults(req *Request, rsp *Response) {
	if req.Arg(0) != 0 || !h.dev.Config.RestoreDefaults() {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Ack()
}

func (h *handlers) userAccess(req *Request, rsp *Response) {
	switch req.Arg(0) {
	case optStart:
		if req.Len() != 2+pinLen {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		if !h.dev.Users.SetAccess(device.User(req.Arg(1)), pin(req.Data[2:])) {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
	case optStop:
		h.dev.Users.ClearAccess()
	default:
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Ack()
}

func (h *handlers) userPass(req *Request, rsp *Response) {
	user := device.User(req.Arg(1))
	switch req.Arg(0) {
	case 1:
		if req.Len() != 2+2*pinLen ||
			!h.dev.Users.SetPin(user, pin(req.Data[2:2+pinLen]), pin(req.Data[2+pinLen:])) {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
	case 2:
		if req.Len() != 2+pinLen || !h.dev.Users.ResetPin(user, pin(req.Data[2:])) {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
	default:
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Ack()
}

func (h *handlers) calMode(req *Request, rsp *Response) {
	var ok bool
	switch req.Arg(0) {
	case optStart:
		ok = h.dev.System.StartCalibration()
	case optStop:
		ok = h.dev.System.StopCalibration()
	default:
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	if !ok {
		rsp.Nack(frame.ExcGenError)
		return
	}
	rsp.Ack()
}

func (h *handlers) recovery(req *Request, rsp *Response) {
	if req.Arg(0) != 0 {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	target := device.FormatTarget(req.Arg(1))
	switch target {
	case device.FormatSensor, device.FormatDevice, device.RestoreSensor:
		h.dev.System.RequestRecovery(target)
		rsp.Ack()
	default:
		rsp.Nack(frame.ExcWrongArgs)
	}
}

func (h *handlers) updateAxM(req *Request, rsp *Response) {
	module := req.Arg(0)
	if module != 1 && module != 2 {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	h.dev.System.RequestUpdate(int(module))
	rsp.Ack()
}
