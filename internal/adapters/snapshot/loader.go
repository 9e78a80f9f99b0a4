// Package snapshot fetches and decodes season snapshot documents from a
// local file or an http(s) URL.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/pkg/logger"
)

// Default loader configuration constants.
const (
	defaultTimeout = 10 * time.Second
	defaultRetries = 2
	defaultBackoff = 200 * time.Millisecond

	// maxDocumentBytes caps the size of a fetched document.
	maxDocumentBytes = 64 << 20
)

// HTTPDoer is the subset of *http.Client the loader needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source loads complete snapshots.
type Source interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Location() string
}

// Loader reads a snapshot from a file path or URL, retrying fetch failures
// with linear backoff. Malformed documents are not retried.
type Loader struct {
	location string
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	client   HTTPDoer
	logger   logger.Logger
}

// NewLoader creates a loader for location.
func NewLoader(location string, opts ...Option) *Loader {
	l := &Loader{
		location: strings.TrimSpace(location),
		timeout:  defaultTimeout,
		attempts: defaultRetries + 1,
		backoff:  defaultBackoff,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = &http.Client{Timeout: l.timeout}
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("snapshot")
	}
	return l
}

// Location returns the configured file path or URL.
func (l *Loader) Location() string { return l.location }

// Load fetches, decodes and validates the snapshot.
func (l *Loader) Load(ctx context.Context) (*model.Snapshot, error) {
	if l.location == "" {
		return nil, ErrNoSource
	}
	b, err := l.fetchWithRetry(ctx)
	if err != nil {
		return nil, err
	}
	s, rep, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if rep.Dropped() {
		l.logger.Warn(ctx, "snapshot entries dropped",
			logger.Int("skipped_riders", rep.SkippedRiders),
			logger.Int("skipped_teams", rep.SkippedTeams),
			logger.Int("skipped_history_points", rep.SkippedHistoryPoints),
			logger.Int("skipped_history_entries", rep.SkippedHistoryEntries),
			logger.Int("skipped_withdrawals", rep.SkippedWithdrawals),
			logger.Int("skipped_selections", rep.SkippedSelections),
			logger.Int("skipped_highlights", rep.SkippedHighlights),
			logger.Any("skipped_sections", rep.SkippedSections),
			logger.Any("duplicate_riders", rep.DuplicateRiders),
		)
	}
	s.Source = l.location
	s.LoadedAt = time.Now().UTC()
	return s, nil
}

func (l *Loader) fetchWithRetry(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= l.attempts; attempt++ {
		b, err := l.fetch(ctx)
		if err == nil {
			return b, nil
		}
		lastErr = err
		if attempt == l.attempts {
			break
		}
		l.logger.Warn(ctx, "snapshot fetch retry",
			logger.Int("attempt", attempt),
			logger.Int("max_attempts", l.attempts),
			logger.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, ctx.Err())
		case <-time.After(time.Duration(attempt) * l.backoff):
		}
	}
	return nil, lastErr
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if isURL(l.location) {
		return l.fetchHTTP(ctx)
	}
	b, err := os.ReadFile(l.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return b, nil
}

func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			l.logger.Debug(ctx, "failed to close response body", logger.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrSourceUnavailable, l.location, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return b, nil
}

func isURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsMalformed reports whether err means the document itself is invalid.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedSnapshot)
}
