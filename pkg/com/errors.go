package com

import "errors"

var (
	// ErrTxTimeout indicates the host transmit lock stayed taken.
	ErrTxTimeout = errors.New("transmit lock timeout")
	// ErrNotReady indicates the module link is not draining.
	ErrNotReady = errors.New("module link not ready")
)
