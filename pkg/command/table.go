package command

import (
	"fmt"

	"github.com/robotalks/gauge.go/pkg/device"
)

// Permission is the access level required by a command.
type Permission int

// Permissions.
const (
	PermAll Permission = iota
	PermAdmin
	PermSuper
)

// String implements fmt.Stringer.
func (p Permission) String() string {
	switch p {
	case PermAll:
		return "all"
	case PermAdmin:
		return "admin"
	case PermSuper:
		return "super"
	}
	return fmt.Sprintf("perm(%d)", int(p))
}

// Allows checks whether a user may run commands requiring p.
func (p Permission) Allows(u device.User) bool {
	switch p {
	case PermSuper:
		return u == device.UserSuper
	case PermAdmin:
		return u == device.UserAdmin || u == device.UserSuper
	}
	return true
}

// Handler validates the request and fills in the response.
// It must not perform I/O on the channel.
type Handler func(req *Request, rsp *Response)

// Entry maps a function code to its handler.
type Entry struct {
	Code    byte
	Perm    Permission
	Handler Handler
}

// Table is an immutable command table sorted by function code.
type Table struct {
	entries []Entry
}

// NewTable builds a table. Entries must be in strictly ascending order
// and must not use CodeMax, which is appended as the terminator.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{entries: make([]Entry, 0, len(entries)+1)}
	for i, e := range entries {
		if e.Code == CodeMax {
			return nil, fmt.Errorf("entry %d uses reserved code 0x%02x", i, e.Code)
		}
		if i > 0 && e.Code <= entries[i-1].Code {
			return nil, fmt.Errorf("entry %d code 0x%02x not ascending", i, e.Code)
		}
		if e.Handler == nil {
			return nil, fmt.Errorf("entry %d code 0x%02x has no handler", i, e.Code)
		}
		t.entries = append(t.entries, e)
	}
	t.entries = append(t.entries, Entry{Code: CodeMax})
	return t, nil
}

// MustNewTable is NewTable which panics on error.
func MustNewTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup scans ascending and stops at the first code not less than the
// requested one. Only an exact match with a handler is found.
func (t *Table) Lookup(code byte) (*Entry, bool) {
	idx := 0
	for idx < len(t.entries) && code > t.entries[idx].Code {
		idx++
	}
	if idx >= len(t.entries) || code < t.entries[idx].Code {
		return nil, false
	}
	e := &t.entries[idx]
	if e.Handler == nil {
		return nil, false
	}
	return e, true
}

// Len returns the number of commands, excluding the terminator.
func (t *Table) Len() int {
	return len(t.entries) - 1
}

// Codes lists the function codes in table order.
func (t *Table) Codes() []byte {
	codes := make([]byte, 0, t.Len())
	for _, e := range t.entries[:t.Len()] {
		codes = append(codes, e.Code)
	}
	return codes
}
