package worker

import (
	"time"

	"github.com/okian/peloton/pkg/logger"
)

// Option applies a configuration option to the ReloadWorker.
type Option func(*ReloadWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ReloadWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(log logger.Logger) Option {
	return func(w *ReloadWorker) {
		if log != nil {
			w.logger = log
		}
	}
}

// WithReloadTimeout bounds a single reload.
func WithReloadTimeout(d time.Duration) Option {
	return func(w *ReloadWorker) {
		if d > 0 {
			w.timeout = d
		}
	}
}
