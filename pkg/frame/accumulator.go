package frame

// State is the result of accumulating one byte.
type State int

const (
	// Processing means more bytes are needed.
	Processing State = iota
	// Complete means a whole frame or line is in the buffer.
	Complete
	// Error means the buffer overflowed and must be reset.
	Error
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Processing:
		return "processing"
	case Complete:
		return "complete"
	}
	return "error"
}

// Accumulator collects bytes of one channel into a frame.
// It is owned by a single worker.
type Accumulator struct {
	// ASCII switches completion to CR LF terminated lines.
	ASCII bool

	buf [BufferSize]byte
	n   int
}

// Accumulate appends one byte and reports the completion state.
func (a *Accumulator) Accumulate(b byte) State {
	if a.n >= len(a.buf) {
		return Error
	}
	a.buf[a.n] = b
	a.n++
	return Completion(a.buf[:a.n], a.ASCII)
}

// Bytes returns the accumulated bytes.
// The slice is only valid until the next Accumulate or Reset.
func (a *Accumulator) Bytes() []byte {
	return a.buf[:a.n]
}

// Len returns the number of accumulated bytes.
func (a *Accumulator) Len() int {
	return a.n
}

// Reset drops all accumulated bytes.
func (a *Accumulator) Reset() {
	a.n = 0
}

// Completion tells whether b holds a whole frame.
func Completion(b []byte, ascii bool) State {
	if ascii {
		if LineComplete(b) {
			return Complete
		}
		return Processing
	}
	if len(b) < MinLen || len(b) < int(b[2])+MinLen {
		return Processing
	}
	return Complete
}

// LineComplete tells whether b is a text line ended by CR LF.
func LineComplete(b []byte) bool {
	n := len(b)
	return n >= 2 && b[n-2] == '\r' && b[n-1] == '\n'
}

// FrameLen returns the declared size of the frame in b including checksum,
// or 0 if the header isn't complete.
func FrameLen(b []byte) int {
	if len(b) < HeaderLen {
		return 0
	}
	return int(b[2]) + MinLen
}
