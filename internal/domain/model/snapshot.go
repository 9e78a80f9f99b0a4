package model

import (
	"sort"
	"time"
)

// Snapshot is the immutable season dataset produced by one load. Build it
// with New so the rider index and orderings are in place.
type Snapshot struct {
	Riders      []Rider
	League      []LeagueTeam
	History     []HistoryEntry
	Withdrawals []Withdrawal
	DreamTeam   *CuratedTeam
	AllStarTeam *CuratedTeam
	MVPHistory  []Highlight
	MIPHistory  []Highlight

	// Source describes where the snapshot came from; LoadedAt when.
	Source   string
	LoadedAt time.Time

	index *RiderIndex
}

// New finalizes a snapshot: histories are ordered chronologically and the
// rider index is built.
func New(s Snapshot) *Snapshot {
	out := s
	out.Riders = make([]Rider, len(s.Riders))
	for i, r := range s.Riders {
		hist := append([]HistoryPoint(nil), r.PointHistory...)
		sort.SliceStable(hist, func(a, b int) bool { return hist[a].Date.Before(hist[b].Date.Time) })
		r.PointHistory = hist
		out.Riders[i] = r
	}
	out.History = append([]HistoryEntry(nil), s.History...)
	sort.SliceStable(out.History, func(a, b int) bool {
		return out.History[a].Date.Before(out.History[b].Date.Time)
	})
	out.index = NewRiderIndex(out.Riders)
	return &out
}

// Index returns the normalized rider index.
func (s *Snapshot) Index() *RiderIndex {
	if s.index == nil {
		s.index = NewRiderIndex(s.Riders)
	}
	return s.index
}

// WithdrawalFor returns the withdrawal matching the rider name, if any.
func (s *Snapshot) WithdrawalFor(name string) (Withdrawal, bool) {
	key := Rider{Name: name}.Key()
	for _, w := range s.Withdrawals {
		if (Rider{Name: w.Name}).Key() == key {
			return w, true
		}
	}
	return Withdrawal{}, false
}
