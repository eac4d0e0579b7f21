package frame

import (
	"encoding/binary"
	"math"
)

// NativeOrder is the byte order of multi-byte values on the wire.
var NativeOrder binary.ByteOrder = binary.NativeEndian

// Uint16 reads a uint16 or returns false if b is too short.
func Uint16(b []byte) (uint16, bool) {
	if len(b) < 2 {
		return 0, false
	}
	return NativeOrder.Uint16(b), true
}

// Uint32 reads a uint32 or returns false if b is too short.
func Uint32(b []byte) (uint32, bool) {
	if len(b) < 4 {
		return 0, false
	}
	return NativeOrder.Uint32(b), true
}

// Int32 reads an int32 or returns false if b is too short.
func Int32(b []byte) (int32, bool) {
	v, ok := Uint32(b)
	return int32(v), ok
}

// Float32 reads an IEEE-754 float or returns false if b is too short.
func Float32(b []byte) (float32, bool) {
	v, ok := Uint32(b)
	return math.Float32frombits(v), ok
}

// PutUint16 encodes v.
func PutUint16(v uint16) []byte {
	b := make([]byte, 2)
	NativeOrder.PutUint16(b, v)
	return b
}

// PutUint32 encodes v.
func PutUint32(v uint32) []byte {
	b := make([]byte, 4)
	NativeOrder.PutUint32(b, v)
	return b
}

// PutInt32 encodes v.
func PutInt32(v int32) []byte {
	return PutUint32(uint32(v))
}

// PutFloat32 encodes v.
func PutFloat32(v float32) []byte {
	return PutUint32(math.Float32bits(v))
}
