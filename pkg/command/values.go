package command

import (
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// codec converts a parameter value to and from its wire form.
type codec interface {
	encode(cfg device.Config, k device.Key) []byte
	decode(cfg device.Config, k device.Key, b []byte) bool
}

type boolCodec struct{}

func (boolCodec) encode(cfg device.Config, k device.Key) []byte {
	if cfg.Bool(k) {
		return []byte{1}
	}
	return []byte{0}
}

func (boolCodec) decode(cfg device.Config, k device.Key, b []byte) bool {
	if len(b) < 1 || b[0] > 1 {
		return false
	}
	return cfg.SetBool(k, b[0] == 1)
}

type u8Codec struct{}

func (u8Codec) encode(cfg device.Config, k device.Key) []byte {
	return []byte{byte(cfg.Uint32(k))}
}

func (u8Codec) decode(cfg device.Config, k device.Key, b []byte) bool {
	if len(b) < 1 {
		return false
	}
	return cfg.SetUint32(k, uint32(b[0]))
}

type u32Codec struct{}

func (u32Codec) encode(cfg device.Config, k device.Key) []byte {
	return frame.PutUint32(cfg.Uint32(k))
}

func (u32Codec) decode(cfg device.Config, k device.Key, b []byte) bool {
	v, ok := frame.Uint32(b)
	return ok && cfg.SetUint32(k, v)
}

type f32Codec struct{}

func (f32Codec) encode(cfg device.Config, k device.Key) []byte {
	return frame.PutFloat32(cfg.Float32(k))
}

func (f32Codec) decode(cfg device.Config, k device.Key, b []byte) bool {
	v, ok := frame.Float32(b)
	return ok && cfg.SetFloat32(k, v)
}

type strCodec struct{}

func (strCodec) encode(cfg device.Config, k device.Key) []byte {
	return []byte(cfg.String(k))
}

func (strCodec) decode(cfg device.Config, k device.Key, b []byte) bool {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	if n == 0 {
		return false
	}
	return cfg.SetString(k, string(b[:n]))
}

// unitCodec maps the unit index parameter to unit names.
type unitCodec struct{}

func (unitCodec) encode(cfg device.Config, k device.Key) []byte {
	return []byte(device.UnitName(cfg.Uint32(k)))
}

func (unitCodec) decode(cfg device.Config, k device.Key, b []byte) bool {
	idx, ok := device.UnitIndex(string(b))
	return ok && cfg.SetUint32(k, idx)
}

// getSet answers GET with the encoded value and SET by decoding val.
func getSet(cfg device.Config, c codec, k device.Key, gs byte, val []byte, rsp *Response) {
	switch gs {
	case ArgGet:
		rsp.Resp(c.encode(cfg, k))
	case ArgSet:
		if c.decode(cfg, k, val) {
			rsp.Ack()
		} else {
			rsp.Nack(frame.ExcWrongArgs)
		}
	default:
		rsp.Nack(frame.ExcWrongArgs)
	}
}

// configHandler handles [GS][value].
func configHandler(cfg device.Config, p device.Param, c codec) Handler {
	return func(req *Request, rsp *Response) {
		getSet(cfg, c, device.K(p), req.Arg(0), req.Tail(1), rsp)
	}
}

// sourcedHandler handles [src][GS][value] for per-source parameters.
// Auxiliary sources are read only unless writable is set.
func sourcedHandler(cfg device.Config, p device.Param, c codec, writable bool) Handler {
	return func(req *Request, rsp *Response) {
		src := device.SourceFromOffset(req.Arg(0))
		if !src.IsValid() {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		gs := req.Arg(1)
		if gs == ArgSet && src != device.SourcePrim && !writable {
			rsp.Nack(frame.ExcNoImpl)
			return
		}
		getSet(cfg, c, p.Of(src), gs, req.Tail(2), rsp)
	}
}

// globalSourcedHandler handles [src][GS][value] where all sources
// share one value. Only the primary source is accepted.
func globalSourcedHandler(cfg device.Config, p device.Param, c codec) Handler {
	return func(req *Request, rsp *Response) {
		if req.Arg(0) != 0 {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		getSet(cfg, c, device.K(p), req.Arg(1), req.Tail(2), rsp)
	}
}

// indexedHandler handles [GS][idx][value].
func indexedHandler(cfg device.Config, p device.Param, c codec) Handler {
	spec := device.Spec(p)
	return func(req *Request, rsp *Response) {
		idx := req.Arg(1)
		if req.Len() < 2 || !spec.Valid(idx) {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		getSet(cfg, c, p.At(idx), req.Arg(0), req.Tail(2), rsp)
	}
}

// notImplemented answers NOIMPL.
func notImplemented(req *Request, rsp *Response) {
	rsp.Nack(frame.ExcNoImpl)
}

// request runs a fire-and-forget request and acknowledges it.
func request(fn func() bool) Handler {
	return func(req *Request, rsp *Response) {
		if fn() {
			rsp.Ack()
		} else {
			rsp.Nack(frame.ExcImproperEnv)
		}
	}
}
