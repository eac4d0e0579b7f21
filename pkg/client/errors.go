package client

import (
	"errors"
	"fmt"

	"github.com/robotalks/gauge.go/pkg/command"
	"github.com/robotalks/gauge.go/pkg/frame"
)

var (
	// ErrNoReply indicates no reply received from the gauge.
	// This happens when a reply is received for a latter command with the
	// same code, and all previous commands fail with this error.
	ErrNoReply = errors.New("no reply")
	// ErrClosed indicates the client stopped running.
	ErrClosed = errors.New("client closed")
)

// CommandError wraps the exception of a NACK.
type CommandError struct {
	Code      byte
	Exception frame.ExceptionCode
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", command.CodeName(e.Code), e.Exception.String())
}
