package snapshot

import (
	"time"

	"github.com/okian/peloton/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithTimeout bounds each fetch attempt.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithRetries sets how many times a failed fetch is retried. Zero makes a
// single attempt; negative values are ignored.
func WithRetries(retries int) Option {
	return func(l *Loader) {
		if retries >= 0 {
			l.attempts = retries + 1
		}
	}
}

// WithBackoff sets the base delay; attempt n waits n times this long.
func WithBackoff(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.backoff = d
		}
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c HTTPDoer) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}
