package snapshot

import "errors"

// Sentinel kinds for snapshot loading errors.
var (
	// ErrMalformedSnapshot means the document lacks cyclists or league_scores
	// or is not valid JSON. It is never retried.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrSourceUnavailable means the document could not be fetched.
	ErrSourceUnavailable = errors.New("snapshot source unavailable")
	// ErrNoSource means no source was configured.
	ErrNoSource = errors.New("snapshot source not configured")
)
