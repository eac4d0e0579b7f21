package command

import (
	"fmt"

	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// BootloaderIdentity is reported by an auxiliary module in its bootloader.
const BootloaderIdentity = "AXM-CBL 12345 lbf"

// Feature selectors of FEATURE_EN.
const (
	featureBuzzer   byte = 1
	featureHide     byte = 2
	featureLockHome byte = 3
)

// Identity returns "model serial calunits" of a source.
func Identity(dev *device.Device, src device.Source) string {
	if src != device.SourcePrim && dev.Measurement.InBootloader(src) {
		return BootloaderIdentity
	}
	cfg := dev.Config
	return fmt.Sprintf("%s %s %s",
		cfg.String(device.ParamModel.Of(src)),
		cfg.String(device.ParamSerial.Of(src)),
		cfg.String(device.ParamCalUnits.Of(src)))
}

func (h *handlers) idn(req *Request, rsp *Response) {
	src := device.SourceFromOffset(req.Arg(0))
	if !src.IsValid() {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Resp([]byte(Identity(h.dev, src)))
}

func (h *handlers) version(fn func(device.Source) string) Handler {
	return func(req *Request, rsp *Response) {
		src := device.SourceFromOffset(req.Arg(0))
		if !src.IsValid() {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		rsp.Resp([]byte(fn(src)))
	}
}

// units handles [src][GS][name]. All sources display in one unit.
func (h *handlers) units(req *Request, rsp *Response) {
	if !device.SourceFromOffset(req.Arg(0)).IsValid() {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	getSet(h.dev.Config, unitCodec{}, device.K(device.ParamUnits), req.Arg(1), req.Tail(2), rsp)
}

// calPoint handles [src][GS][idx][value].
func (h *handlers) calPoint(req *Request, rsp *Response) {
	idx := req.Arg(2)
	if req.Arg(0) != 0 || req.Len() < 3 || idx >= device.NumCalPoints {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	getSet(h.dev.Config, f32Codec{}, device.ParamCalPoint.At(idx), req.Arg(1), req.Tail(3), rsp)
}

func (h *handlers) overloadNum(req *Request, rsp *Response) {
	if req.Arg(0) != 0 {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	switch req.Arg(1) {
	case ArgGet:
		rsp.Resp(frame.PutUint32(uint32(len(h.dev.Measurement.Overloads()))))
	case ArgSet:
		if v, ok := req.Uint32(2); !ok || v != 0 {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		h.dev.Measurement.ClearOverloads()
		rsp.Ack()
	default:
		rsp.Nack(frame.ExcWrongArgs)
	}
}

func (h *handlers) overloadRec(req *Request, rsp *Response) {
	if req.Arg(0) != 0 || req.Arg(1) != ArgGet || req.Len() < 3 {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	off := req.Arg(2)
	recs := h.dev.Measurement.Overloads()
	if int(off) >= len(recs) {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	data := []byte{off}
	data = append(data, frame.PutFloat32(recs[off].Value)...)
	data = append(data, frame.PutUint32(recs[off].Timestamp)...)
	rsp.Resp(data)
}

func (h *handlers) connSrcs(req *Request, rsp *Response) {
	var mask byte
	for s := device.SourcePrim; s <= device.SourceAux2; s++ {
		if h.dev.Measurement.Connected(s) {
			mask |= 1 << s.Offset()
		}
	}
	rsp.Resp([]byte{mask})
}

func (h *handlers) featureEn(req *Request, rsp *Response) {
	var p device.Param
	switch req.Arg(0) {
	case featureBuzzer:
		p = device.ParamBuzzer
	case featureHide:
		p = device.ParamHideMeas
	case featureLockHome:
		p = device.ParamLockHome
	default:
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	getSet(h.dev.Config, boolCodec{}, device.K(p), req.Arg(1), req.Tail(2), rsp)
}

func (h *handlers) saveCfg(req *Request, rsp *Response) {
	if !h.dev.Config.Save() {
		rsp.Nack(frame.ExcFileAccess)
		return
	}
	rsp.Ack()
}
