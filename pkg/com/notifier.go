package com

import (
	"context"
	"sync/atomic"
)

// Notifier merges event bits posted by producers and wakes one waiter.
type Notifier struct {
	bits   uint32
	signal chan struct{}
}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{signal: make(chan struct{}, 1)}
}

// Post ORs bits into the pending set. It never blocks.
func (n *Notifier) Post(bits uint32) {
	if bits == 0 {
		return
	}
	for {
		old := atomic.LoadUint32(&n.bits)
		if atomic.CompareAndSwapUint32(&n.bits, old, old|bits) {
			break
		}
	}
	select {
	case n.signal <- struct{}{}:
	default:
	}
}

// Pending returns the bits not yet taken.
func (n *Notifier) Pending() uint32 {
	return atomic.LoadUint32(&n.bits)
}

// Wait blocks until bits are pending and takes all of them.
func (n *Notifier) Wait(ctx context.Context) (uint32, error) {
	for {
		if bits := atomic.SwapUint32(&n.bits, 0); bits != 0 {
			return bits, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-n.signal:
		}
	}
}
