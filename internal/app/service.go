// Package service wires the snapshot loader, analytics engine, dataset store
// and reload worker into the service behind the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/peloton/internal/adapters/mq/queue"
	"github.com/okian/peloton/internal/adapters/mq/worker"
	"github.com/okian/peloton/internal/adapters/repository"
	"github.com/okian/peloton/internal/adapters/snapshot"
	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/pkg/logger"
	"github.com/okian/peloton/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize     = 4
	defaultReloadTimeout = time.Minute
)

// Service implements the API dependencies for the analytics dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	source snapshot.Source
	engine *analytics.Engine
	store  repository.Store
	queue  queue.Queue
	worker *worker.ReloadWorker

	// Configuration
	queueSize      int
	reloadInterval time.Duration
	reloadTimeout  time.Duration

	// State
	started bool
	stopCh  chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// Reload failures, guarded separately so Reload can run under mu.
	failMu   sync.Mutex
	failures int
	lastErr  string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where snapshots are loaded from.
func WithSource(src snapshot.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithEngine sets the analytics engine.
func WithEngine(e *analytics.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithStore sets the dataset store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithQueueSize sets how many reload requests may wait for the worker.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithReloadInterval enables periodic reloads. Zero disables them.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.reloadInterval = d
		}
	}
}

// WithReloadTimeout bounds a single reload.
func WithReloadTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reloadTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:     defaultQueueSize,
		reloadTimeout: defaultReloadTimeout,
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = analytics.NewEngine()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s
}

// Start loads the initial snapshot and starts the reload worker. A failed
// initial load is returned and the service stays stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return snapshot.ErrNoSource
	}

	s.logger.Info(ctx, "starting analytics service...", logger.String("source", s.source.Location()))

	if err := s.Reload(ctx, model.NewReloadRequest(model.ReasonStartup)); err != nil {
		return err
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.NewReloadWorker(s.queue, s,
		worker.WithReloadTimeout(s.reloadTimeout),
		worker.WithLogger(s.logger.Named("reload-worker")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker.Run(runCtx)
	}()

	if s.reloadInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.schedule(runCtx, s.reloadInterval)
		}()
	}

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("queueSize", s.queueSize),
		logger.Duration("reloadInterval", s.reloadInterval),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping analytics service...")

	close(s.stopCh)
	_ = s.queue.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.reloadTimeout)
	defer cancel()
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "reload worker did not stop in time", logger.Error(err))
	}
	s.cancel()
	s.wg.Wait()

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// schedule enqueues a periodic reload on every tick.
func (s *Service) schedule(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			req := model.NewReloadRequest(model.ReasonPeriodic)
			if err := s.queue.Enqueue(ctx, req); err != nil {
				s.logger.Debug(ctx, "periodic reload skipped", logger.Error(err))
			}
		}
	}
}

// Reload fetches, analyses and publishes one snapshot. On failure the
// previously published dataset stays in place.
func (s *Service) Reload(ctx context.Context, req model.ReloadRequest) error {
	start := time.Now()

	snap, err := s.source.Load(ctx)
	if err != nil {
		s.recordFailure(err)
		metrics.RecordSnapshotLoad("failure", float64(time.Since(start).Milliseconds()))
		metrics.RecordErrorByComponent("service", loadErrorType(err))
		return err
	}

	report := s.engine.Analyse(snap)
	d, err := s.store.Publish(ctx, snap, report, req.ID)
	if err != nil {
		s.recordFailure(err)
		metrics.RecordSnapshotLoad("failure", float64(time.Since(start).Milliseconds()))
		return err
	}
	metrics.RecordSnapshotLoad("success", float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "snapshot published",
		logger.String("request_id", req.ID),
		logger.String("reason", req.Reason),
		logger.Int("generation", int(d.Generation)),
		logger.Int("riders", len(snap.Riders)),
		logger.Int("league_teams", len(snap.League)),
		logger.Int("join_misses", report.JoinMisses),
	)
	return nil
}

func loadErrorType(err error) string {
	if snapshot.IsMalformed(err) {
		return "malformed_snapshot"
	}
	return "source_unavailable"
}

func (s *Service) recordFailure(err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures++
	s.lastErr = err.Error()
}

// RequestReload queues a manual reload. Returns false on backpressure or
// when the service is not running.
func (s *Service) RequestReload(ctx context.Context) (model.ReloadRequest, bool) {
	s.mu.RLock()
	q := s.queue
	started := s.started
	s.mu.RUnlock()

	req := model.NewReloadRequest(model.ReasonManual)
	if !started || q == nil {
		return req, false
	}
	if err := q.Enqueue(ctx, req); err != nil {
		s.logger.Warn(ctx, "reload request rejected",
			logger.String("request_id", req.ID),
			logger.Error(err),
		)
		return req, false
	}
	return req, true
}

// Current returns the dataset being served.
func (s *Service) Current(ctx context.Context) (*repository.Dataset, error) {
	return s.store.Current(ctx)
}

// Trends projects the current league horizonDays ahead.
func (s *Service) Trends(ctx context.Context, horizonDays float64) ([]analytics.TeamTrend, error) {
	d, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	if horizonDays == s.engine.HorizonDays() {
		return d.Report.Trends, nil
	}
	return s.engine.Trends(d.Snapshot, horizonDays), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"queueSize":       s.queueSize,
		"reloadIntervalS": s.reloadInterval.Seconds(),
		"publications":    s.store.History(ctx),
		"horizonDays":     s.engine.HorizonDays(),
		"riskWeights":     s.engine.Scorer().Weights(),
	}

	s.failMu.Lock()
	stats["reloadFailures"] = s.failures
	stats["lastReloadError"] = s.lastErr
	s.failMu.Unlock()

	if s.source != nil {
		stats["source"] = s.source.Location()
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len(ctx)
	}
	if d, err := s.store.Current(ctx); err == nil {
		stats["generation"] = d.Generation
		stats["loadedAt"] = d.Snapshot.LoadedAt
		stats["riders"] = len(d.Snapshot.Riders)
		stats["leagueTeams"] = len(d.Snapshot.League)
		stats["joinMisses"] = d.Report.JoinMisses
	}
	return stats
}
