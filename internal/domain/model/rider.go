// Package model contains the typed season snapshot shared by every layer.
package model

import (
	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/names"
)

// HistoryPoint is one cumulative points observation.
type HistoryPoint struct {
	Date   Date            `json:"date"`
	Points decimal.Decimal `json:"points"`
}

// Rider is a professional rider available in the fantasy game.
type Rider struct {
	Name         string          `json:"name"`
	Team         string          `json:"team"`
	Role         Role            `json:"role"`
	Cost         decimal.Decimal `json:"cost"`
	Points       decimal.Decimal `json:"points"`
	Ownership    float64         `json:"ownership"`
	PointHistory []HistoryPoint  `json:"pointHistory"`

	// Placeholder marks a record synthesised for a name with no matching rider.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Placeholder returns the zero-point stand-in used when a join misses.
func Placeholder(name string) Rider {
	return Rider{Name: name, Role: RoleUnknown, Placeholder: true}
}

// Key returns the normalized join key of the rider.
func (r Rider) Key() string {
	return names.Normalize(r.Name)
}

// CostFloat returns the cost as float64 for ratio arithmetic.
func (r Rider) CostFloat() float64 {
	return r.Cost.InexactFloat64()
}

// PointsFloat returns the points as float64 for ratio arithmetic.
func (r Rider) PointsFloat() float64 {
	return r.Points.InexactFloat64()
}

// HistoryValues returns the cumulative points of the history in order.
func (r Rider) HistoryValues() []float64 {
	out := make([]float64, len(r.PointHistory))
	for i, h := range r.PointHistory {
		out[i] = h.Points.InexactFloat64()
	}
	return out
}

// RiderIndex resolves rider names through the normalizer.
type RiderIndex struct {
	byKey      map[string]int
	riders     []Rider
	duplicates []string
}

// NewRiderIndex indexes riders by normalized name. When two riders share a
// key the first one wins and the later name is reported by Duplicates.
func NewRiderIndex(riders []Rider) *RiderIndex {
	idx := &RiderIndex{byKey: make(map[string]int, len(riders)), riders: riders}
	for i, r := range riders {
		key := r.Key()
		if _, seen := idx.byKey[key]; seen {
			idx.duplicates = append(idx.duplicates, r.Name)
			continue
		}
		idx.byKey[key] = i
	}
	return idx
}

// Lookup returns the rider whose normalized name matches name.
func (x *RiderIndex) Lookup(name string) (Rider, bool) {
	if x == nil {
		return Rider{}, false
	}
	i, ok := x.byKey[names.Normalize(name)]
	if !ok {
		return Rider{}, false
	}
	return x.riders[i], true
}

// Resolve returns the matching rider or a placeholder for name.
func (x *RiderIndex) Resolve(name string) Rider {
	if r, ok := x.Lookup(name); ok {
		return r
	}
	return Placeholder(name)
}

// Duplicates lists rider names that collided with an earlier rider.
func (x *RiderIndex) Duplicates() []string {
	if x == nil {
		return nil
	}
	return x.duplicates
}
