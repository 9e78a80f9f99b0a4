// Package worker consumes reload requests and rebuilds the served dataset.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/pkg/logger"
	"github.com/okian/peloton/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultReloadTimeout = time.Minute
)

// Reloader fetches, analyses and publishes one snapshot.
type Reloader interface {
	Reload(ctx context.Context, req model.ReloadRequest) error
}

// Queue defines how the worker receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.ReloadRequest
}

// Worker processes reload requests one at a time.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the reload in progress, if any.
	Shutdown(ctx context.Context) error
}

// ReloadWorker implements Worker. Reloads are serialized so publications
// happen in request order.
type ReloadWorker struct {
	queue    Queue
	reloader Reloader
	name     string
	timeout  time.Duration

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewReloadWorker creates a new worker with configuration options.
func NewReloadWorker(queue Queue, reloader Reloader, opts ...Option) *ReloadWorker {
	w := &ReloadWorker{
		queue:    queue,
		reloader: reloader,
		name:     "reload-worker",
		timeout:  defaultReloadTimeout,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *ReloadWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, req); err != nil {
				w.logger.Error(ctx, "reload failed, keeping previous snapshot",
					logger.String("request_id", req.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ReloadWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *ReloadWorker) process(ctx context.Context, req model.ReloadRequest) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	err := w.reloader.Reload(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "reload_failed")
		return fmt.Errorf("reload %s: %w", req.ID, err)
	}
	w.logger.Info(ctx, "reload completed",
		logger.String("request_id", req.ID),
		logger.String("reason", req.Reason),
		logger.Duration("took", elapsed),
	)
	return nil
}
