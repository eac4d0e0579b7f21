package watchdog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gauge.go/pkg/fault"
)

type countingHW struct {
	refreshes int
	startErr  error
	timeout   time.Duration
}

func (h *countingHW) Start(timeout time.Duration) error {
	h.timeout = timeout
	return h.startErr
}

func (h *countingHW) Refresh() {
	h.refreshes++
}

type recordingReporter struct {
	codes []fault.Code
}

func (r *recordingReporter) Report(c fault.Code) {
	r.codes = append(r.codes, c)
}

func reportAll(m *Monitor, s State) {
	for w := Worker(0); w < NumWorkers; w++ {
		m.Report(w, s)
	}
}

func TestMonitorRefresh(t *testing.T) {
	hw := &countingHW{}
	m := New(hw)

	assert.False(t, m.Check())
	assert.Equal(t, 0, hw.refreshes)
	assert.Len(t, m.Stalled(), int(NumWorkers))

	reportAll(m, StateAlive)
	m.Report(WorkerUpdateAxM, StateUnknown)
	assert.False(t, m.Check())
	assert.Equal(t, []Worker{WorkerUpdateAxM}, m.Stalled())
	assert.Equal(t, 0, hw.refreshes)

	m.Report(WorkerUpdateAxM, StateAlive)
	require.True(t, m.Check())
	assert.Equal(t, 1, hw.refreshes)
	assert.Len(t, m.Stalled(), int(NumWorkers))

	assert.False(t, m.Check())
	assert.Equal(t, 1, hw.refreshes)
	assert.Equal(t, uint64(1), m.Refreshes())
	assert.Equal(t, uint64(3), m.Skipped())
}

func TestMonitorAsleepSticky(t *testing.T) {
	hw := &countingHW{}
	m := New(hw)
	reportAll(m, StateAsleep)
	m.Report(WorkerCmdUSB, StateAlive)

	require.True(t, m.Check())
	assert.Equal(t, StateUnknown, m.State(WorkerCmdUSB))
	assert.Equal(t, StateAsleep, m.State(WorkerEvtTCM))

	assert.False(t, m.Check())
	m.Report(WorkerCmdUSB, StateAsleep)
	for i := 0; i < 3; i++ {
		require.True(t, m.Check())
	}
	assert.Equal(t, 4, hw.refreshes)
	snap := m.Snapshot()
	for _, s := range snap {
		assert.Equal(t, StateAsleep, s)
	}
}

func TestMonitorStart(t *testing.T) {
	hw := &countingHW{}
	faults := &recordingReporter{}
	m := New(hw)
	require.NoError(t, m.Start(faults))
	assert.Equal(t, Timeout, hw.timeout)
	assert.Empty(t, faults.codes)

	hw.startErr = errors.New("no iwdg")
	assert.Error(t, m.Start(faults))
	assert.Equal(t, []fault.Code{fault.CodeWatchdogInit}, faults.codes)
}

func TestWorkerNames(t *testing.T) {
	assert.Equal(t, "cmd-usb", WorkerCmdUSB.String())
	assert.Equal(t, "update-axm", WorkerUpdateAxM.String())
	assert.Equal(t, "worker(99)", Worker(99).String())
	assert.Equal(t, "alive", StateAlive.String())
}

func TestSoftDog(t *testing.T) {
	expired := make(chan struct{}, 1)
	d := &SoftDog{Expired: func() { expired <- struct{}{} }}
	assert.Error(t, d.Start(0))
	require.NoError(t, d.Start(20*time.Millisecond))
	assert.Error(t, d.Start(time.Second))
	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("watchdog didn't expire")
	}
	d.Stop()
}
