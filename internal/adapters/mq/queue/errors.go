package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrClosed = errors.New("reload queue closed")
	ErrFull   = errors.New("reload queue full")
)
