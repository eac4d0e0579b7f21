package command

import (
	"strings"
	"sync/atomic"

	"github.com/robotalks/gauge.go/pkg/frame"
)

// Device address bounds accepted by DEVADDR.
const (
	AddrMin byte = 0x01
	AddrMax byte = 0xf7
)

// Address is the current device address of one channel.
type Address struct {
	v uint32
}

// NewAddress creates an Address.
func NewAddress(addr byte) *Address {
	return &Address{v: uint32(addr)}
}

// Get returns the address.
func (a *Address) Get() byte {
	return byte(atomic.LoadUint32(&a.v))
}

// Set updates the address.
func (a *Address) Set(addr byte) {
	atomic.StoreUint32(&a.v, uint32(addr))
}

// Request is a validated command frame.
type Request struct {
	Addr byte
	Code byte
	Data []byte
	// Raw is the complete frame including checksum.
	Raw []byte
	// Channel is the address state of the receiving channel.
	Channel *Address
}

// Arg returns data byte i, or 0 if the request is shorter.
func (r *Request) Arg(i int) byte {
	if i < len(r.Data) {
		return r.Data[i]
	}
	return 0
}

// Len returns the declared data length.
func (r *Request) Len() int {
	return len(r.Data)
}

// Tail returns the data from offset i.
func (r *Request) Tail(i int) []byte {
	if i < len(r.Data) {
		return r.Data[i:]
	}
	return nil
}

// Uint32 reads a native-order uint32 at offset i.
func (r *Request) Uint32(i int) (uint32, bool) {
	return frame.Uint32(r.Tail(i))
}

// Float32 reads a native-order float at offset i.
func (r *Request) Float32(i int) (float32, bool) {
	return frame.Float32(r.Tail(i))
}

// String reads a string at offset i, dropping trailing NULs.
func (r *Request) String(i int) string {
	return strings.TrimRight(string(r.Tail(i)), "\x00")
}

// Response collects the reply of a handler.
// An empty response means nothing is sent.
type Response struct {
	code    byte
	channel *Address
	buf     []byte
}

func newResponse(code byte, channel *Address) *Response {
	return &Response{code: code, channel: channel}
}

// Ack replies with an acknowledgement.
func (r *Response) Ack() {
	r.buf = frame.EncodeAck(r.channel.Get(), r.code)
}

// Nack replies with an exception.
func (r *Response) Nack(exc frame.ExceptionCode) {
	r.buf = frame.EncodeNack(r.channel.Get(), r.code, exc)
}

// Resp replies with data.
func (r *Response) Resp(data []byte) {
	r.buf = frame.EncodeResp(r.channel.Get(), r.code, data)
}

// Bytes returns the reply without checksum.
func (r *Response) Bytes() []byte {
	return r.buf
}

// Empty tells if there is nothing to send.
func (r *Response) Empty() bool {
	return len(r.buf) == 0
}
