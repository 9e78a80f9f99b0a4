package analytics

import "errors"

// Sentinel errors returned by analytics functions.
var (
	ErrInsufficientData  = errors.New("insufficient data")
	ErrLengthMismatch    = errors.New("xs and ys differ in length")
	ErrDegenerateInput   = errors.New("degenerate input")
	ErrHorizonOutOfRange = errors.New("horizon out of range")
	ErrTeamNotFound      = errors.New("team not found")
	ErrRiderNotFound     = errors.New("rider not found")
)
