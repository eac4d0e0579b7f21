package command

import (
	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// MaxFileName is the longest file name accepted by file transfers.
const MaxFileName = 63

// Import file options.
const (
	importStart byte = 1
	importWrite byte = 2
	importClose byte = 3
)

type handlers struct {
	dev *device.Device
	// Events is notified when a file export starts.
	events func(bits uint32)
}

func (h *handlers) appVer(req *Request, rsp *Response) {
	rsp.Resp([]byte{ProtocolVerMajor, ProtocolVerMinor})
}

func (h *handlers) devAddr(req *Request, rsp *Response) {
	switch req.Arg(0) {
	case ArgGet:
		rsp.Resp([]byte{req.Channel.Get()})
	case ArgSet:
		addr := req.Arg(1)
		if req.Len() < 2 || addr < AddrMin || addr > AddrMax {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		req.Channel.Set(addr)
		rsp.Ack()
	default:
		rsp.Nack(frame.ExcWrongArgs)
	}
}

func (h *handlers) setTime(req *Request, rsp *Response) {
	epoch, ok := req.Uint32(0)
	if !ok || !h.dev.System.SetTime(epoch) {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Ack()
}

func (h *handlers) exportFile(req *Request, rsp *Response) {
	if req.Len() == 0 || req.Len() > MaxFileName {
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	size, ok := h.dev.Files.ExportInfo(req.String(0))
	if !ok {
		rsp.Nack(frame.ExcImproperEnv)
		return
	}
	if size == 0 {
		rsp.Nack(frame.ExcFileAccess)
		return
	}
	rsp.Resp(frame.PutUint32(size))
	h.dev.Files.StartExport()
	if h.events != nil {
		h.events(EvtUSBExportFile)
	}
}

func (h *handlers) importFile(req *Request, rsp *Response) {
	switch req.Arg(0) {
	case importStart:
		if req.Len() < 2 || req.Len()-1 > MaxFileName {
			rsp.Nack(frame.ExcWrongArgs)
			return
		}
		if !h.dev.Files.CreateImport(req.String(1)) {
			rsp.Nack(frame.ExcImproperEnv)
			return
		}
	case importWrite:
		if !h.dev.Files.WriteImport(req.Tail(1)) {
			rsp.Nack(frame.ExcFileAccess)
			return
		}
	case importClose:
		if !h.dev.Files.CloseImport() {
			rsp.Nack(frame.ExcFileAccess)
			return
		}
	default:
		rsp.Nack(frame.ExcWrongArgs)
		return
	}
	rsp.Ack()
}
