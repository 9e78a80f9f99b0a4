package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/adapters/http/api"
	"github.com/okian/peloton/internal/adapters/http/site"
	"github.com/okian/peloton/internal/adapters/http/swagger"
	"github.com/okian/peloton/internal/adapters/repository"
	"github.com/okian/peloton/internal/adapters/snapshot"
	app "github.com/okian/peloton/internal/app"
	"github.com/okian/peloton/internal/config"
	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/internal/domain/scoring"
	"github.com/okian/peloton/pkg/logger"
	"github.com/okian/peloton/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Credits and points are served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance = logger.Get()

	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBucketsMS),
	)

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		// The service never serves without a valid snapshot.
		loggerInstance.Fatal(ctx, "failed to start service",
			logger.String("snapshot_source", cfg.SnapshotSource),
			logger.Error(err),
		)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, cfg.MaxListLimit),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService assembles the loader, analytics engine and store from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	loader := snapshot.NewLoader(cfg.SnapshotSource,
		snapshot.WithTimeout(cfg.FetchTimeout()),
		snapshot.WithRetries(cfg.FetchRetries),
		snapshot.WithBackoff(cfg.FetchBackoff()),
		snapshot.WithLogger(log.Named("snapshot")),
	)
	scorer := scoring.NewRiskScorer(
		scoring.WithWeightsFromConfig(cfg.RiskWeights),
		scoring.WithBands(cfg.RiskLowMax, cfg.RiskHighMin),
	)
	engine := analytics.NewEngine(
		analytics.WithTopN(cfg.TopN),
		analytics.WithTrendWindow(cfg.TrendWindow),
		analytics.WithHorizonDays(cfg.TrendHorizonDays),
		analytics.WithScorer(scorer),
	)
	return app.New(
		app.WithLogger(log),
		app.WithSource(loader),
		app.WithEngine(engine),
		app.WithStore(repository.NewMemoryStore()),
		app.WithQueueSize(cfg.ReloadQueueSize),
		app.WithReloadInterval(cfg.ReloadInterval()),
	)
}

// newMux registers docs, API and dashboard routes.
func newMux(ctx context.Context, svc *app.Service, maxListLimit int) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, maxListLimit).Register(ctx, mux)
	site.Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// updateServiceMetrics mirrors the reload queue length into its gauge.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateReloadQueueSize(queueLen)
	}
}
