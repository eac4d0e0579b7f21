package command

import (
	"strconv"

	"github.com/robotalks/gauge.go/pkg/device"
	"github.com/robotalks/gauge.go/pkg/frame"
)

// Host channel event bits.
const (
	EvtUSBTensionBreak     uint32 = 0x00000001
	EvtUSBCompressionBreak uint32 = 0x00000002
	EvtUSBOverload         uint32 = 0x00000004
	EvtUSBTestStop         uint32 = 0x00000008
	EvtUSBBootError        uint32 = 0x00000010
	EvtUSBTensionLimit     uint32 = 0x00000020
	EvtUSBCompressionLimit uint32 = 0x00000040
	EvtUSBExportFile       uint32 = 0x00000100
	EvtUSBUpdateStatus     uint32 = 0x00000200
	// EvtUSBMaskAll covers events sent in binary mode.
	EvtUSBMaskAll uint32 = 0x0000037f

	EvtUSBExportData       uint32 = 0x00010000
	EvtUSBExportDataHeader uint32 = 0x00020000
	// EvtUSBMaskASCII covers events sent in text mode.
	EvtUSBMaskASCII = EvtUSBExportData | EvtUSBExportDataHeader
)

// Module channel event bits.
const (
	EvtTCMReturnToZero     uint32 = 0x00000001
	EvtTCMZero             uint32 = 0x00000002
	EvtTCMSpeed            uint32 = 0x00000004
	EvtTCMTensionLimit     uint32 = 0x00000008
	EvtTCMCompressionLimit uint32 = 0x00000010
	EvtTCMTensionBreak     uint32 = 0x00000020
	EvtTCMCompressionBreak uint32 = 0x00000040
	EvtTCMCompOverload     uint32 = 0x00000080
	EvtTCMTensionOverload  uint32 = 0x00000100
	EvtTCMTestStart        uint32 = 0x00000200
	EvtTCMTestStop         uint32 = 0x00000400
	EvtTCMPauseStop        uint32 = 0x00000800
	EvtTCMClear            uint32 = 0x00001000
	EvtTCMHomeScreen       uint32 = 0x00002000
	EvtTCMAll              uint32 = 0x00003fff
)

var usbEventNames = map[uint32]string{
	EvtUSBTensionBreak: "TBREAK", EvtUSBCompressionBreak: "CBREAK",
	EvtUSBOverload: "OVERLOAD", EvtUSBTestStop: "TESTSTOP", EvtUSBBootError: "BOOTERR",
	EvtUSBTensionLimit: "TSAFELMT", EvtUSBCompressionLimit: "CSAFELMT",
	EvtUSBExportFile: "EXPORT_FILE", EvtUSBUpdateStatus: "UPDSTAT",
	EvtUSBExportData: "EXP_ADATA", EvtUSBExportDataHeader: "EXP_ADATA_H",
}

var tcmEventNames = map[uint32]string{
	EvtTCMReturnToZero: "RTZ", EvtTCMZero: "ZERO", EvtTCMSpeed: "SPEED",
	EvtTCMTensionLimit: "TLMT", EvtTCMCompressionLimit: "CLMT",
	EvtTCMTensionBreak: "TBRK", EvtTCMCompressionBreak: "CBRK",
	EvtTCMCompOverload: "COVLD", EvtTCMTensionOverload: "TOVLD",
	EvtTCMTestStart: "TSTART", EvtTCMTestStop: "TSTOP", EvtTCMPauseStop: "PSTOP",
	EvtTCMClear: "CLEAR", EvtTCMHomeScreen: "HSCR",
}

func eventName(names map[uint32]string, bit uint32) string {
	if name, ok := names[bit]; ok {
		return name
	}
	return "0x" + strconv.FormatUint(uint64(bit), 16)
}

// USBEventName names a host channel event bit.
func USBEventName(bit uint32) string {
	return eventName(usbEventNames, bit)
}

// TCMEventName names a module channel event bit.
func TCMEventName(bit uint32) string {
	return eventName(tcmEventNames, bit)
}

// Bits splits a mask into single bits in ascending order.
func Bits(mask uint32) []uint32 {
	var bits []uint32
	for bit := uint32(1); bit != 0 && bit <= mask; bit <<= 1 {
		if mask&bit != 0 {
			bits = append(bits, bit)
		}
	}
	return bits
}

// Encoder builds unsolicited frames sent outside of request/response.
type Encoder struct {
	Device  *device.Device
	Channel *Address
}

// NewEncoder creates an Encoder sharing the address of a dispatcher.
func NewEncoder(dev *device.Device, channel *Address) *Encoder {
	return &Encoder{Device: dev, Channel: channel}
}

// Reading encodes a burst reading: RESP(READ_BURST, [src][value]).
func (e *Encoder) Reading(s device.Sample) []byte {
	data := append([]byte{s.Source.Offset()}, frame.PutFloat32(s.Reading)...)
	return frame.AppendChecksum(frame.EncodeResp(e.Channel.Get(), CodeReadBurst, data))
}

// ModuleReading encodes a burst reading for the module link:
// RESP(READ_BURST, [load][module reading]).
func (e *Encoder) ModuleReading(load, module float32) []byte {
	data := append(frame.PutFloat32(load), frame.PutFloat32(module)...)
	return frame.AppendChecksum(frame.EncodeResp(e.Channel.Get(), CodeReadBurst, data))
}

// ASCIIReading formats a reading as a text line in the display unit.
func (e *Encoder) ASCIIReading(s device.Sample) []byte {
	return FormatReading(e.Device, s.Source, s.Reading, e.Device.ASCIIMode() == device.ASCIIDF2W)
}

// FormatReading converts a reading from the calibration unit of its source
// to the display unit, rounded to the configured resolution.
func FormatReading(dev *device.Device, src device.Source, reading float32, withUnit bool) []byte {
	cfg := dev.Config
	if !src.IsValid() {
		src = device.SourcePrim
	}
	calUnit := cfg.String(device.ParamCalUnits.Of(src))
	currUnit := device.UnitName(cfg.Uint32(device.K(device.ParamUnits)))
	res := int(cfg.Uint32(device.ParamResolution.Of(src)))
	v := reading * device.ConvFactor(calUnit, currUnit)
	line := strconv.AppendFloat(nil, float64(v), 'f', res, 32)
	if withUnit {
		line = append(line, ' ')
		line = append(line, currUnit...)
	}
	return append(line, '\r', '\n')
}

// USBEvent encodes a single host channel event bit.
// It returns nil for unknown bits.
func (e *Encoder) USBEvent(bit uint32) []byte {
	addr := e.Channel.Get()
	var rsp []byte
	switch bit {
	case EvtUSBTensionBreak:
		rsp = frame.EncodeResp(addr, CodeEvent, e.eventData(bit, e.Device.Tester.TensionBreak()))
	case EvtUSBCompressionBreak:
		rsp = frame.EncodeResp(addr, CodeEvent, e.eventData(bit, e.Device.Tester.CompressionBreak()))
	case EvtUSBOverload, EvtUSBTestStop, EvtUSBTensionLimit, EvtUSBCompressionLimit:
		rsp = frame.EncodeResp(addr, CodeEvent, frame.PutUint32(bit))
	case EvtUSBUpdateStatus:
		rsp = frame.EncodeResp(addr, CodeEvent, e.eventData(bit, float32(e.Device.System.UpdateStatus())))
	case EvtUSBBootError:
		var codes []byte
		if e.Device.Errors != nil {
			codes = e.Device.Errors.Codes()
		}
		rsp = frame.EncodeResp(addr, CodeExcBoot, codes)
	case EvtUSBExportFile:
		rsp = frame.EncodeResp(addr, CodeExportFile, e.Device.Files.NextExportChunk())
	case EvtUSBExportData:
		line := append([]byte{CodeExportData}, e.Device.Files.ExportData(false)...)
		return append(line, '\r', '\n')
	case EvtUSBExportDataHeader:
		return append(e.Device.Files.ExportData(true), '\r', '\n')
	default:
		return nil
	}
	return frame.AppendChecksum(rsp)
}

// TCMEvent encodes a single module channel event bit.
func (e *Encoder) TCMEvent(bit uint32) []byte {
	if bit&EvtTCMAll == 0 {
		return nil
	}
	return frame.AppendChecksum(frame.EncodeResp(e.Channel.Get(), CodeEvent, frame.PutUint32(bit)))
}

func (e *Encoder) eventData(bit uint32, v float32) []byte {
	return append(frame.PutUint32(bit), frame.PutFloat32(v)...)
}
