package command

import (
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

func (h *handlers) readRaw(req *Request, rsp *Response) {
	if req.Arg(0) != 0 {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Resp(frame.PutInt32(h.dev.Measurement.ReadRaw()))
}

func (h *handlers) readTrue(req *Request, rsp *Response) {
	src := device.SourceFromOffset(req.Arg(0))
	if !src.IsValid() {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	if h.dev.Measurement.Overloaded(src) {
		rsp.Nack(frame.ExcImproperEnv)
		return
	}
	rsp.Resp(frame.PutFloat32(h.dev.Measurement.ReadAdjusted(src)))
}

func (h *handlers) readUncal(req *Request, rsp *Response) {
	if req.Arg(0) != 0 {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Resp(frame.PutFloat32(h.dev.Measurement.ReadMeasured()))
}

// burst controls periodic readings: [src][start|stop][period].
func burst(cfg device.Config, enable, period device.Param) Handler {
	return func(req *Request, rsp *Response) {
		switch req.Arg(1) {
		case optStart:
			ms, ok := req.Uint32(2)
			if !ok || !cfg.SetUint32(device.K(period), ms) {
				rsp.Nack(frame.ExcWrongArgs)
				return
			}
			cfg.SetBool(device.K(enable), true)
		case optStop:
			cfg.SetBool(device.K(enable), false)
		default:
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		rsp.Ack()
	}
}

func (h *handlers) readBurst() Handler {
	return burst(h.dev.Config, device.ParamDataComEnable, device.ParamDataComTime)
}

func (h *handlers) logBurst() Handler {
	b := burst(h.dev.Config, device.ParamDataLogEnable, device.ParamDataLogTime)
	return func(req *Request, rsp *Response) {
		if req.Arg(0) != 0 {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		b(req, rsp)
	}
}

func (h *handlers) zero(req *Request, rsp *Response) {
	src := device.SourceFromOffset(req.Arg(0))
	if !src.IsValid() {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	if src == h.dev.SourceLoad() {
		opt := device.ZeroOption(req.Arg(1))
		if opt < device.ZeroLoad || opt > device.ZeroExtensionResults {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		h.dev.Tester.Zero(opt)
		rsp.Ack()
		return
	}
	if !h.dev.Measurement.Connected(src) {
		rsp.Nack(frame.ExcImproperEnv)
		return
	}
	h.dev.Tester.Zero(device.ZeroSource(src))
	rsp.Ack()
}
