package watchdog

import (
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"
)

// SoftDog is a timer based Hardware for hosts without a watchdog peripheral.
type SoftDog struct {
	// Expired is called when the timer fires. It defaults to a fatal log.
	Expired func()

	lock    sync.Mutex
	timer   *time.Timer
	timeout time.Duration
}

// Start implements Hardware.
func (d *SoftDog) Start(timeout time.Duration) error {
	if timeout <= 0 {
		return errors.New("invalid watchdog timeout")
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.timer != nil {
		return errors.New("watchdog already started")
	}
	d.timeout = timeout
	d.timer = time.AfterFunc(timeout, d.expire)
	return nil
}

// Refresh implements Hardware.
func (d *SoftDog) Refresh() {
	d.lock.Lock()
	if d.timer != nil {
		d.timer.Reset(d.timeout)
	}
	d.lock.Unlock()
}

// Stop disarms the timer.
func (d *SoftDog) Stop() {
	d.lock.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.lock.Unlock()
}

func (d *SoftDog) expire() {
	if d.Expired != nil {
		d.Expired()
		return
	}
	glog.Fatalf("watchdog expired after %s", d.timeout)
}
