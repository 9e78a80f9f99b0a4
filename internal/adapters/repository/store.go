// Package repository holds the analysed dataset currently being served.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/pkg/metrics"
)

const defaultHistoryLimit = 20

// Dataset is one immutable published snapshot with its report.
type Dataset struct {
	Snapshot    *model.Snapshot
	Report      *analytics.Report
	Generation  uint64
	PublishedAt time.Time
	RequestID   string
}

// Record describes one publication for the stats endpoint.
type Record struct {
	Generation  uint64    `json:"generation"`
	RequestID   string    `json:"request_id,omitempty"`
	Source      string    `json:"source"`
	Riders      int       `json:"riders"`
	Teams       int       `json:"league_teams"`
	JoinMisses  int       `json:"join_misses"`
	PublishedAt time.Time `json:"published_at"`
}

// Store provides read access to the current dataset and atomic replacement.
type Store interface {
	// Current returns the dataset being served, or ErrNotLoaded.
	Current(ctx context.Context) (*Dataset, error)
	// Publish replaces the current dataset and returns it with its generation.
	Publish(ctx context.Context, s *model.Snapshot, r *analytics.Report, requestID string) (*Dataset, error)
	// History returns the most recent publications, newest first.
	History(ctx context.Context) []Record
}

// MemoryStore swaps datasets through an atomic pointer so readers never
// block and never observe a partially built dataset.
type MemoryStore struct {
	current        atomic.Pointer[Dataset]
	generation     atomic.Uint64
	historyLimit   int
	metricsEnabled bool

	mu      sync.Mutex
	history []Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{historyLimit: defaultHistoryLimit, metricsEnabled: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the dataset being served.
func (s *MemoryStore) Current(_ context.Context) (*Dataset, error) {
	d := s.current.Load()
	if d == nil {
		return nil, ErrNotLoaded
	}
	return d, nil
}

// Publish makes s and r the served dataset.
func (s *MemoryStore) Publish(_ context.Context, snap *model.Snapshot, r *analytics.Report, requestID string) (*Dataset, error) {
	if snap == nil || r == nil {
		return nil, ErrNilSnapshot
	}
	d := &Dataset{
		Snapshot:    snap,
		Report:      r,
		Generation:  s.generation.Add(1),
		PublishedAt: time.Now().UTC(),
		RequestID:   requestID,
	}
	s.current.Store(d)

	rec := Record{
		Generation:  d.Generation,
		RequestID:   requestID,
		Source:      snap.Source,
		Riders:      len(snap.Riders),
		Teams:       len(snap.League),
		JoinMisses:  r.JoinMisses,
		PublishedAt: d.PublishedAt,
	}
	s.mu.Lock()
	s.history = append([]Record{rec}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
	s.mu.Unlock()

	if s.metricsEnabled {
		metrics.RecordSnapshotPublished(d.Generation, rec.Riders, rec.Teams, rec.JoinMisses, d.PublishedAt)
	}
	return d, nil
}

// History returns the most recent publications, newest first.
func (s *MemoryStore) History(_ context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.history...)
}

// Generation returns the generation of the last publication.
func (s *MemoryStore) Generation() uint64 {
	return s.generation.Load()
}
