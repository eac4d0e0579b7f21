package framework

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrForcedExit is returned by Runner.Wait after a second stop signal.
var ErrForcedExit = errors.New("forced exit")

// IsStopped tells if err only reports a finished context.
func IsStopped(err error) bool {
	return err == context.Canceled || err == context.DeadlineExceeded
}

// NamedError tags an error with the Runnable that returned it.
type NamedError struct {
	Name string
	Err  error
}

// Error implements error.
func (e *NamedError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

// Unwrap returns the tagged error.
func (e *NamedError) Unwrap() error {
	return e.Err
}

// AggregatedError collects the errors of a group of Runnables.
type AggregatedError struct {
	Errors []error
}

// Error implements error.
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for n, err := range e.Errors {
		msgs[n] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Add collects errs, skipping nil.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns nil when nothing was collected, the only error when
// one was, and e otherwise.
func (e *AggregatedError) Aggregate() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}
