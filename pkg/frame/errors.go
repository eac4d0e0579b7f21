package frame

import (
	"errors"
	"fmt"
)

// ExceptionCode is the reason carried by a NACK.
type ExceptionCode byte

// Exception codes.
const (
	ExcWrongArgs   ExceptionCode = 0x01
	ExcImproperEnv ExceptionCode = 0x02
	ExcFileAccess  ExceptionCode = 0x03
	ExcNoImpl      ExceptionCode = 0x04
	ExcNoPerm      ExceptionCode = 0x05
	ExcUnknownCmd  ExceptionCode = 0x06
	ExcCRCError    ExceptionCode = 0x07
	ExcGenError    ExceptionCode = 0x08
)

var exceptionNames = map[ExceptionCode]string{
	ExcWrongArgs:   "WRONGARGS",
	ExcImproperEnv: "IMPROPERENV",
	ExcFileAccess:  "FACCESSERR",
	ExcNoImpl:      "NOIMPL",
	ExcNoPerm:      "NOPERM",
	ExcUnknownCmd:  "UNKNOWNCMD",
	ExcCRCError:    "CRCERROR",
	ExcGenError:    "GENERROR",
}

// String implements fmt.Stringer.
func (c ExceptionCode) String() string {
	if name, ok := exceptionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("EXC(0x%02x)", byte(c))
}

// Error implements error.
func (c ExceptionCode) Error() string {
	return "exception " + c.String()
}

var (
	// ErrShortFrame indicates fewer bytes than the header declares.
	ErrShortFrame = errors.New("short frame")
	// ErrBadChecksum indicates the trailing CRC doesn't match.
	ErrBadChecksum = errors.New("bad checksum")
	// ErrOverflow indicates the receive buffer is full.
	ErrOverflow = errors.New("frame buffer overflow")
)
