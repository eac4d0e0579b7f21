package command

import (
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// Test source kinds of TEST_SOURCE.
const (
	testSourceLoad      byte = 1
	testSourceExtension byte = 2
)

func (h *handlers) testSource(req *Request, rsp *Response) {
	cfg := h.dev.Config
	switch req.Arg(0) {
	case ArgGet:
		switch req.Arg(1) {
		case testSourceLoad:
			rsp.Resp([]byte{h.dev.SourceLoad().Offset()})
		case testSourceExtension:
			rsp.Resp([]byte{0})
		default:
			rsp.Nack(frame.ExcNoImpl)
		}
	case ArgSet:
		switch req.Arg(1) {
		case testSourceLoad:
			src := device.SourceFromOffset(req.Arg(2))
			if req.Len() < 3 || !src.IsValid() ||
				!cfg.SetUint32(device.K(device.ParamSourceLoad), uint32(src)) {
				rsp.Nack(frame.ExcWrongArgs)
				return
			}
			rsp.Ack()
		case testSourceExtension:
			rsp.Ack()
		default:
			rsp.Nack(frame.ExcNoImpl)
		}
	default:
		rsp.Nack(frame.ExcNoImpl)
	}
}

func (h *handlers) testStart(req *Request, rsp *Response) {
	t := h.dev.Tester
	if h.dev.System.IsDFX() || t.ErrorConditions() || !t.Start() {
		rsp.Nack(frame.ExcImproperEnv)
		return
	}
	t.SetRunByHost()
	rsp.Ack()
}

func (h *handlers) testStop(req *Request, rsp *Response) {
	t := h.dev.Tester
	if h.dev.System.IsDFX() || !t.RunByHost() || !t.Stop() {
		rsp.Nack(frame.ExcImproperEnv)
		return
	}
	rsp.Ack()
}

func (h *handlers) testResult(req *Request, rsp *Response) {
	idx := req.Arg(1)
	if req.Arg(0) != ArgGet || req.Len() < 2 || idx >= device.NumResults {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Resp(frame.PutFloat32(h.dev.Tester.Result(idx)))
}

func (h *handlers) useGaugeParams(req *Request, rsp *Response) {
	switch req.Arg(0) {
	case 0:
		h.dev.Tester.SetUseHostConfig(false)
	case 1:
		h.dev.Tester.SetUseHostConfig(true)
	default:
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Ack()
}

// testLmtEn handles GET [idx] => [on][method] and SET [idx][on][method].
func (h *handlers) testLmtEn(req *Request, rsp *Response) {
	cfg := h.dev.Config
	idx := req.Arg(1)
	if req.Len() < 2 || idx >= device.NumResults {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	en, method := device.ParamLimitEnable.At(idx), device.ParamLimitMethod.At(idx)
	switch req.Arg(0) {
	case ArgGet:
		on := byte(0)
		if cfg.Bool(en) {
			on = 1
		}
		rsp.Resp([]byte{on, byte(cfg.Uint32(method))})
	case ArgSet:
		if req.Len() < 4 || req.Arg(2) > 1 ||
			!cfg.SetUint32(method, uint32(req.Arg(3))) ||
			!cfg.SetBool(en, req.Arg(2) == 1) {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		rsp.Ack()
	default:
		rsp.Nack(frame.ExcWrongArgs)
	}
}

func (h *handlers) testCfgCurr(req *Request, rsp *Response) {
	t := h.dev.Tester
	idx := req.Arg(1)
	switch req.Arg(0) {
	case ArgGet:
		rsp.Resp([]byte{byte(h.dev.Config.Uint32(device.K(device.ParamTestCfgIdx)))})
		return
	case ArgSet, ArgDefault:
		if req.Len() < 2 || idx >= device.NumTestCfgs {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
	default:
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	var ok bool
	if req.Arg(0) == ArgSet {
		ok = t.LoadTestConfig(idx)
	} else {
		ok = t.ResetTestConfig(idx)
	}
	if !ok {
		rsp.Nack(frame.ExcImproperEnv)
		return
	}
	rsp.Ack()
}
