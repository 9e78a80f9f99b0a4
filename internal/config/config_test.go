package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/peloton/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.SnapshotSource, convey.ShouldEqual, "data/season.json")
			convey.So(cfg.TopN, convey.ShouldEqual, 50)
			convey.So(cfg.TrendWindow, convey.ShouldEqual, 5)
			convey.So(cfg.TrendHorizonDays, convey.ShouldEqual, 5)
			convey.So(cfg.RiskWeights["cost_efficiency"], convey.ShouldEqual, 0.3)
			convey.So(cfg.RiskWeights["ownership"], convey.ShouldEqual, 0.1)
			convey.So(cfg.FetchRetries, convey.ShouldEqual, 2)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsLabels, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then durations are derived from the millisecond fields", func() {
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.FetchBackoff(), convey.ShouldEqual, 200*time.Millisecond)
			convey.So(cfg.ReloadInterval(), convey.ShouldEqual, 5*time.Minute)
		})
	})

	convey.Convey("Given invalid settings", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"empty source", func(c *config.Config) { c.SnapshotSource = "" }},
			{"zero top_n", func(c *config.Config) { c.TopN = 0 }},
			{"zero list limit", func(c *config.Config) { c.MaxListLimit = 0 }},
			{"short window", func(c *config.Config) { c.TrendWindow = 1 }},
			{"negative horizon", func(c *config.Config) { c.TrendHorizonDays = -1 }},
			{"negative interval", func(c *config.Config) { c.ReloadIntervalS = -1 }},
			{"inverted bands", func(c *config.Config) { c.RiskLowMax = 2 }},
			{"negative weight", func(c *config.Config) { c.RiskWeights["trend"] = -0.1 }},
			{"horizon above a year", func(c *config.Config) { c.TrendHorizonDays = 366 }},
			{"negative retries", func(c *config.Config) { c.FetchRetries = -1 }},
			{"invalid metrics label", func(c *config.Config) { c.MetricsLabels["9lives"] = "x" }},
			{"reserved metrics label", func(c *config.Config) { c.MetricsLabels["__name__"] = "x" }},
			{"colliding metrics label", func(c *config.Config) { c.MetricsLabels["endpoint"] = "x" }},
			{"unordered buckets", func(c *config.Config) { c.MetricsBucketsMS = []float64{10, 5} }},
			{"non-positive bucket", func(c *config.Config) { c.MetricsBucketsMS = []float64{0, 5} }},
		}
		for _, tc := range cases {
			convey.Convey("Then "+tc.name+" is rejected", func() {
				cfg := config.New()
				tc.mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given boundary settings", t, func() {
		cfg := config.New()
		cfg.TrendHorizonDays = 365
		cfg.FetchRetries = 0
		cfg.MetricsLabels["region"] = "eu"
		cfg.MetricsBucketsMS = []float64{1, 10, 100}

		convey.Convey("Then they are accepted", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
