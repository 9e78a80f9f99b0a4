// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PELOTON_ env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/common/model"
)

// maxTrendHorizonDays bounds trend_horizon_days.
const maxTrendHorizonDays = 365

// variableLabels are the per-series label names used by the collectors.
var variableLabels = map[string]struct{}{
	"outcome":     {},
	"endpoint":    {},
	"method":      {},
	"status_code": {},
	"component":   {},
	"error_type":  {},
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SnapshotSource is a file path or http(s) URL of the season snapshot.
	SnapshotSource string `koanf:"snapshot_source"`

	// FetchTimeoutMS bounds each fetch attempt. FetchRetries is how many
	// times a failed fetch is retried; 0 makes a single attempt.
	// FetchBackoffMS is the base delay between attempts.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`
	FetchRetries   int `koanf:"fetch_retries"`
	FetchBackoffMS int `koanf:"fetch_backoff_ms"`

	// ReloadIntervalS schedules periodic reloads; 0 disables them.
	ReloadIntervalS int `koanf:"reload_interval_s"`

	// ReloadQueueSize bounds pending reload requests.
	ReloadQueueSize int `koanf:"reload_queue_size"`

	// TopN is the length of the top efficiency list.
	TopN int `koanf:"top_n"`

	// MaxListLimit caps the limit query parameter of list endpoints.
	MaxListLimit int `koanf:"max_list_limit"`

	// TrendWindow is how many trailing history days feed a projection.
	TrendWindow int `koanf:"trend_window"`

	// TrendHorizonDays is the default projection horizon.
	TrendHorizonDays float64 `koanf:"trend_horizon_days"`

	// RiskWeights maps risk factor names to their weights.
	RiskWeights map[string]float64 `koanf:"risk_weights"`

	// RiskLowMax and RiskHighMin bound the medium risk band.
	RiskLowMax  float64 `koanf:"risk_low_max"`
	RiskHighMin float64 `koanf:"risk_high_min"`

	// MetricsEnabled turns the Prometheus recorders on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBucketsMS overrides the latency histogram buckets.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		SnapshotSource:   "data/season.json",
		FetchTimeoutMS:   10_000,
		FetchRetries:     2,
		FetchBackoffMS:   200,
		ReloadIntervalS:  300,
		ReloadQueueSize:  4,
		TopN:             50,
		MaxListLimit:     500,
		TrendWindow:      5,
		TrendHorizonDays: 5,
		RiskWeights: map[string]float64{
			"cost_efficiency": 0.3,
			"ownership":       0.1,
			"consistency":     0.2,
			"trend":           0.2,
			"role":            0.2,
		},
		RiskLowMax:     0.8,
		RiskHighMin:    1.2,
		MetricsEnabled: true,
		MetricsLabels:  map[string]string{},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SnapshotSource == "":
		return fmt.Errorf("%w: snapshot_source must not be empty", ErrInvalidConfig)
	case c.TopN < 1:
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	case c.MaxListLimit < 1:
		return fmt.Errorf("%w: max_list_limit must be positive", ErrInvalidConfig)
	case c.TrendWindow < 2:
		return fmt.Errorf("%w: trend_window must be at least 2", ErrInvalidConfig)
	case c.TrendHorizonDays < 0 || c.TrendHorizonDays > maxTrendHorizonDays:
		return fmt.Errorf("%w: trend_horizon_days must be within [0, %d]", ErrInvalidConfig, maxTrendHorizonDays)
	case c.FetchRetries < 0:
		return fmt.Errorf("%w: fetch_retries must not be negative", ErrInvalidConfig)
	case c.ReloadIntervalS < 0:
		return fmt.Errorf("%w: reload_interval_s must not be negative", ErrInvalidConfig)
	case c.RiskLowMax > c.RiskHighMin:
		return fmt.Errorf("%w: risk_low_max must not exceed risk_high_min", ErrInvalidConfig)
	}
	for k, w := range c.RiskWeights {
		if w < 0 {
			return fmt.Errorf("%w: risk weight %q must not be negative", ErrInvalidConfig, k)
		}
	}
	for k := range c.MetricsLabels {
		if !model.LabelName(k).IsValidLegacy() || strings.HasPrefix(k, "__") {
			return fmt.Errorf("%w: metrics label %q is not a valid label name", ErrInvalidConfig, k)
		}
		if _, taken := variableLabels[k]; taken {
			return fmt.Errorf("%w: metrics label %q collides with a per-series label", ErrInvalidConfig, k)
		}
	}
	for i, b := range c.MetricsBucketsMS {
		if b <= 0 || (i > 0 && b <= c.MetricsBucketsMS[i-1]) {
			return fmt.Errorf("%w: metrics_buckets_ms must be positive and increasing", ErrInvalidConfig)
		}
	}
	return nil
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// FetchBackoff returns FetchBackoffMS as a duration.
func (c *Config) FetchBackoff() time.Duration {
	return time.Duration(c.FetchBackoffMS) * time.Millisecond
}

// ReloadInterval returns ReloadIntervalS as a duration.
func (c *Config) ReloadInterval() time.Duration {
	return time.Duration(c.ReloadIntervalS) * time.Second
}
