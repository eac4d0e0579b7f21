package com

import (
	"time"

	"github.com/golang/glog"
)

// TxLock is a binary semaphore guarding a transmitter. It starts taken.
type TxLock struct {
	ch chan struct{}
}

// NewTxLock creates a taken TxLock.
func NewTxLock() *TxLock {
	return &TxLock{ch: make(chan struct{}, 1)}
}

// Give releases the lock. Giving a free lock has no effect.
func (l *TxLock) Give() {
	select {
	case l.ch <- struct{}{}:
	default:
	}
}

// Take acquires the lock, waiting up to timeout.
func (l *TxLock) Take(timeout time.Duration) bool {
	if timeout <= 0 {
		select {
		case <-l.ch:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-l.ch:
		return true
	case <-timer.C:
		return false
	}
}

// lockCounter counts consecutive busy observations of a module link.
// Each worker owns its own counter.
type lockCounter struct {
	name string
	n    int
}

// send transmits when the link is ready. After TxLockThreshold busy
// observations the ready flag is cleared and counting restarts.
func (c *lockCounter) send(port ModulePort, b []byte) error {
	if port.TxReady() {
		c.n = 0
		err := port.Transmit(b)
		if err != nil {
			glog.Errorf("%s: module transmit error: %v", c.name, err)
		}
		return err
	}
	c.n++
	if c.n >= TxLockThreshold {
		glog.V(2).Infof("%s: module link busy, reset tx ready", c.name)
		port.ResetTxReady()
		c.n = 0
	}
	return ErrNotReady
}
