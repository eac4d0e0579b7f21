package frame

import (
	"fmt"
	"io"
)

// Layout constants.
const (
	HeaderLen  = 3
	MinLen     = HeaderLen + 1
	MaxDataLen = 0xff
	// BufferSize holds the largest frame with checksum.
	BufferSize = MaxDataLen + MinLen
)

// Response shape markers in the data length byte.
const (
	AckLen  byte = 0x01
	NackLen byte = 0x02
	// ExcCommands is the first data byte of a NACK.
	ExcCommands byte = 0x00
)

// Frame is a decoded binary frame.
type Frame struct {
	Addr byte
	Code byte
	Data []byte
}

// Bytes returns the encoded frame without checksum.
func (f *Frame) Bytes() []byte {
	b := make([]byte, HeaderLen, HeaderLen+len(f.Data)+1)
	b[0], b[1], b[2] = f.Addr, f.Code, byte(len(f.Data))
	return append(b, f.Data...)
}

// Sealed returns the encoded frame with checksum.
func (f *Frame) Sealed() []byte {
	return AppendChecksum(f.Bytes())
}

// WriteTo writes the sealed frame.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Sealed())
	return int64(n), err
}

// IsAck tells if the frame has the ACK shape.
func (f *Frame) IsAck() bool {
	return len(f.Data) == 1 && f.Data[0] == 0
}

// Exception returns the exception code if the frame has the NACK shape.
func (f *Frame) Exception() (ExceptionCode, bool) {
	if len(f.Data) == int(NackLen) && f.Data[0] == ExcCommands {
		return ExceptionCode(f.Data[1]), true
	}
	return 0, false
}

// String implements fmt.Stringer.
func (f *Frame) String() string {
	return fmt.Sprintf("[%02x %02x % x]", f.Addr, f.Code, f.Data)
}

// EncodeAck builds an ACK without checksum.
func EncodeAck(addr, code byte) []byte {
	return []byte{addr, code, AckLen, 0x00}
}

// EncodeNack builds a NACK without checksum.
func EncodeNack(addr, code byte, exc ExceptionCode) []byte {
	return []byte{addr, code, NackLen, ExcCommands, byte(exc)}
}

// EncodeResp builds a data response without checksum.
// Data longer than MaxDataLen is truncated.
func EncodeResp(addr, code byte, data []byte) []byte {
	if len(data) > MaxDataLen {
		data = data[:MaxDataLen]
	}
	b := make([]byte, HeaderLen, HeaderLen+len(data)+1)
	b[0], b[1], b[2] = addr, code, byte(len(data))
	return append(b, data...)
}

// Decode parses one sealed frame from b.
func Decode(b []byte) (*Frame, error) {
	if len(b) < MinLen {
		return nil, ErrShortFrame
	}
	size := int(b[2]) + MinLen
	if len(b) < size {
		return nil, ErrShortFrame
	}
	if !ChecksumValid(b[:size]) {
		return nil, ErrBadChecksum
	}
	f := &Frame{Addr: b[0], Code: b[1]}
	if n := b[2]; n > 0 {
		f.Data = append([]byte(nil), b[HeaderLen:HeaderLen+int(n)]...)
	}
	return f, nil
}
