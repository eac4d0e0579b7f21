package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitCtx(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerCancelIsNotError(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(waitCtx), RunFunc(waitCtx))
	time.AfterFunc(10*time.Millisecond, r.Cancel)
	assert.NoError(t, r.Wait())
}

func TestRunnerStopsOnFailure(t *testing.T) {
	failure := errors.New("link lost")
	r := NewRunner()
	r.Go(
		NamedRun("waiter", RunFunc(waitCtx)),
		NamedRun("usb", RunFunc(func(context.Context) error { return failure })),
	)
	err := r.Wait()
	require.Error(t, err)
	named, ok := err.(*NamedError)
	require.True(t, ok)
	assert.Equal(t, "usb", named.Name)
	assert.Equal(t, failure, named.Unwrap())
	assert.Equal(t, "usb: link lost", err.Error())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	assert.NoError(t, errs.Add(nil).Aggregate())
	a, b := errors.New("a"), errors.New("b")
	assert.Equal(t, a, errs.Add(a).Aggregate())
	err := errs.Add(b).Aggregate()
	assert.Equal(t, "2 errors: a; b", err.Error())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	closed := make(chan struct{})
	var calls int
	closer := closerFunc(func() error {
		calls++
		close(closed)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	err := RunWithContextCloser(ctx, closer, func() error {
		<-closed
		return errors.New("closed")
	})
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 1, calls)

	calls = 0
	closed = make(chan struct{})
	err = RunWithContextCloser(context.Background(), closer, func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
