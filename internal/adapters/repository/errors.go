package repository

import "errors"

// Sentinel kinds for dataset store errors.
var (
	ErrNotLoaded   = errors.New("no snapshot loaded")
	ErrNilSnapshot = errors.New("snapshot is nil")
)
