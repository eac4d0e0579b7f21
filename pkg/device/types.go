package device

import "fmt"

// Source identifies a load measurement source.
type Source uint8

// Sources.
const (
	SourceNone Source = iota
	SourcePrim
	SourceAux1
	SourceAux2
)

// NumSources is the number of real sources.
const NumSources = 3

// SourceFromOffset translates the wire offset (0, 1, 2) into a Source.
func SourceFromOffset(offset byte) Source {
	if offset < NumSources {
		return Source(offset + 1)
	}
	return SourceNone
}

// Offset returns the wire offset of the source.
func (s Source) Offset() byte {
	if s == SourceNone {
		return 0
	}
	return byte(s) - 1
}

// IsValid tells if s is a real source.
func (s Source) IsValid() bool {
	return s >= SourcePrim && s <= SourceAux2
}

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourcePrim:
		return "prim"
	case SourceAux1:
		return "aux1"
	case SourceAux2:
		return "aux2"
	}
	return fmt.Sprintf("src(%d)", byte(s))
}

// User is the access level of the current session.
type User uint8

// Users.
const (
	UserNormal User = iota
	UserAdmin
	UserSuper
)

// String implements fmt.Stringer.
func (u User) String() string {
	switch u {
	case UserNormal:
		return "normal"
	case UserAdmin:
		return "admin"
	case UserSuper:
		return "super"
	}
	return fmt.Sprintf("user(%d)", byte(u))
}

// ZeroOption selects what a zero command clears.
type ZeroOption uint8

// Zero options. The first eight are selectable on the test source.
const (
	ZeroLoad ZeroOption = iota + 1
	ZeroExtension
	ZeroResults
	ZeroAll
	ZeroReset
	ZeroLoadExtension
	ZeroLoadResults
	ZeroExtensionResults
	ZeroSourcePrim
	ZeroSourceAux1
	ZeroSourceAux2
)

// ZeroSource returns the option that zeros a single source.
func ZeroSource(s Source) ZeroOption {
	return ZeroSourcePrim + ZeroOption(s.Offset())
}

// ASCIIMode is the configured text protocol.
type ASCIIMode uint32

// ASCII modes.
const (
	ASCIIOff ASCIIMode = iota
	ASCIIDF3
	ASCIIDF2W
	ASCIIDF2O
)

// String implements fmt.Stringer.
func (m ASCIIMode) String() string {
	switch m {
	case ASCIIOff:
		return "off"
	case ASCIIDF3:
		return "df3"
	case ASCIIDF2W:
		return "df2w"
	case ASCIIDF2O:
		return "df2o"
	}
	return fmt.Sprintf("ascii(%d)", uint32(m))
}

// ParseASCIIMode parses the names printed by String.
func ParseASCIIMode(s string) (ASCIIMode, error) {
	for m := ASCIIOff; m <= ASCIIDF2O; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return ASCIIOff, fmt.Errorf("unknown ascii mode %q", s)
}

// FormatTarget selects what a recovery request formats or restores.
type FormatTarget uint8

// Recovery targets.
const (
	FormatSensor FormatTarget = iota + 1
	FormatDevice
	RestoreSensor
)

// Sample is one reading pushed to the data fan-out.
type Sample struct {
	Source  Source
	Reading float32
}

// OverloadRecord is one recorded overload.
type OverloadRecord struct {
	Value     float32
	Timestamp uint32
}
