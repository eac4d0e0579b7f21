// Package fault implements the shared error sink.
package fault

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Code identifies a reported error.
type Code uint8

// Error codes.
const (
	CodeNone Code = iota
	CodeClockInit
	CodeSDC
	CodeUSB
	CodeTaskCreate
	CodeTaskStack
	CodePowerInit1
	CodePowerInit2
	CodeUSBDevice
	CodeWatchdogInit
	CodeModuleLink

	numCodes
)

// Level is the severity of a code.
type Level int

// Levels.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelFatal
)

// LogSize is the capacity of the error log.
const LogSize = 100

type codeInfo struct {
	level Level
	desc  string
}

var codes = [numCodes]codeInfo{
	CodeNone:         {LevelInfo, "NONE"},
	CodeClockInit:    {LevelFatal, "CLK INIT"},
	CodeSDC:          {LevelError, "SDC INIT"},
	CodeUSB:          {LevelFatal, "USB INIT"},
	CodeTaskCreate:   {LevelFatal, "TASK CREATION"},
	CodeTaskStack:    {LevelFatal, "TASK STACK"},
	CodePowerInit1:   {LevelError, "POWER INIT 1"},
	CodePowerInit2:   {LevelError, "POWER INIT 2"},
	CodeUSBDevice:    {LevelError, "USBD SETUP"},
	CodeWatchdogInit: {LevelFatal, "WDOG INIT"},
	CodeModuleLink:   {LevelError, "TCM COMSTART"},
}

// Level returns the severity of the code.
func (c Code) Level() Level {
	if c < numCodes {
		return codes[c].level
	}
	return LevelError
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if c < numCodes {
		return codes[c].desc
	}
	return fmt.Sprintf("ERR(%d)", byte(c))
}

// Reporter accepts error reports.
type Reporter interface {
	Report(Code)
}

// Sink logs reported codes and stops the process on fatal ones.
type Sink struct {
	// Halt stops the process on fatal codes, otherwise Restart is called.
	Halt bool
	// Restart is invoked for fatal codes when Halt is false.
	Restart func(Code)

	fatalf func(format string, args ...interface{})

	lock   sync.Mutex
	log    []Code
	counts [numCodes]uint32
}

// NewSink creates a Sink.
func NewSink(halt bool) *Sink {
	return &Sink{Halt: halt, fatalf: glog.Fatalf}
}

// Report implements Reporter.
func (s *Sink) Report(code Code) {
	s.lock.Lock()
	if len(s.log) < LogSize {
		s.log = append(s.log, code)
	}
	if code < numCodes {
		s.counts[code]++
	}
	s.lock.Unlock()

	switch code.Level() {
	case LevelInfo:
		glog.Infof("error %s reported", code)
	case LevelWarn:
		glog.Warningf("error %s reported", code)
	case LevelError:
		glog.Errorf("error %s reported", code)
	case LevelFatal:
		if s.Halt {
			fatalf := s.fatalf
			if fatalf == nil {
				fatalf = glog.Fatalf
			}
			fatalf("fatal error %s, halted", code)
			return
		}
		glog.Errorf("fatal error %s, restarting", code)
		if r := s.Restart; r != nil {
			r(code)
		}
	}
}

// Count returns how many times code was reported.
func (s *Sink) Count(code Code) uint32 {
	if code >= numCodes {
		return 0
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.counts[code]
}

// Clear resets the counter of code.
func (s *Sink) Clear(code Code) {
	if code >= numCodes {
		return
	}
	s.lock.Lock()
	s.counts[code] = 0
	s.lock.Unlock()
}

// Codes returns the logged codes in reporting order.
func (s *Sink) Codes() []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]byte, len(s.log))
	for i, c := range s.log {
		out[i] = byte(c)
	}
	return out
}
