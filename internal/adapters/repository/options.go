package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithHistoryLimit sets how many publication records are retained.
func WithHistoryLimit(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithMetricsEnabled toggles publication metrics.
func WithMetricsEnabled(enabled bool) Option {
	return func(s *MemoryStore) {
		s.metricsEnabled = enabled
	}
}
