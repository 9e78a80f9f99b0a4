// Package analytics derives every season metric from an immutable snapshot:
// cost efficiency, role and team aggregates, roster balance, rider risk and
// league trend projections. All functions are pure and safe to call
// concurrently on the same snapshot.
package analytics

import (
	"sort"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/scoring"
	"github.com/okian/peloton/internal/domain/types"
)

// Default engine configuration constants.
const (
	defaultTopN        = 50
	defaultTrendWindow = 5
	defaultHorizonDays = 5
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTopN sets the length of the top efficiency list.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithTrendWindow sets how many trailing history days feed a projection.
func WithTrendWindow(window int) Option {
	return func(e *Engine) {
		if window >= 2 {
			e.window = window
		}
	}
}

// WithHorizonDays sets the default projection horizon. Values outside
// [0, MaxHorizonDays] are ignored.
func WithHorizonDays(days float64) Option {
	return func(e *Engine) {
		if ValidHorizon(days) {
			e.horizon = days
		}
	}
}

// WithScorer sets the risk scorer.
func WithScorer(s *scoring.RiskScorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// Engine computes reports from snapshots.
type Engine struct {
	topN    int
	window  int
	horizon float64
	scorer  *scoring.RiskScorer
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		topN:    defaultTopN,
		window:  defaultTrendWindow,
		horizon: defaultHorizonDays,
		scorer:  scoring.NewRiskScorer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the risk scorer in use.
func (e *Engine) Scorer() *scoring.RiskScorer { return e.scorer }

// HorizonDays returns the default projection horizon.
func (e *Engine) HorizonDays() float64 { return e.horizon }

// Report is every derived structure of one snapshot, computed once per load.
type Report struct {
	Summary       Summary           `json:"summary"`
	Efficiency    []RiderEfficiency `json:"efficiency"`
	TopEfficiency []RiderEfficiency `json:"top_efficiency"`
	Roles         []RoleShare       `json:"roles"`
	NameLength    []NameLengthScore `json:"name_length"`
	Teams         []TeamTotals      `json:"teams"`
	Standings     []types.Entry     `json:"standings"`
	Relative      []RelativeEntry   `json:"relative"`
	Balance       []TeamBalance     `json:"balance"`
	MostBalanced  *TeamBalance      `json:"most_balanced,omitempty"`
	LeastBalanced *TeamBalance      `json:"least_balanced,omitempty"`
	Trends        []TeamTrend       `json:"trends"`
	Risk          []scoring.Result  `json:"risk"`
	Highlights    Highlights        `json:"highlights"`
	DreamTeam     LineupView        `json:"dream_team"`
	AllStarTeam   LineupView        `json:"all_star_team"`
	Withdrawals   []WithdrawalView  `json:"withdrawals"`
	JoinMisses    int               `json:"join_misses"`
}

// Analyse builds the report of s.
func (e *Engine) Analyse(s *model.Snapshot) *Report {
	idx := s.Index()
	efficiency := RankByEfficiency(s.Riders)
	top := efficiency
	if len(top) > e.topN {
		top = top[:e.topN]
	}
	balance := LeagueBalance(s.League, idx)

	r := &Report{
		Summary:       Summarize(s),
		Efficiency:    efficiency,
		TopEfficiency: top,
		Roles:         nonNil(RoleDistribution(s.Riders)),
		NameLength:    PointsPerNameLength(s.Riders),
		Teams:         nonNil(TeamAggregate(s.Riders)),
		Standings:     Standings(s.League),
		Relative:      RelativePerformance(s.League),
		Balance:       balance,
		Trends:        e.Trends(s, e.horizon),
		Risk:          e.Risk(s),
		Highlights:    BuildHighlights(s),
		DreamTeam:     Lineup(s.DreamTeam),
		AllStarTeam:   Lineup(s.AllStarTeam),
		Withdrawals:   Withdrawals(s),
		JoinMisses:    JoinMisses(s),
	}
	if b, ok := MostBalanced(balance); ok {
		r.MostBalanced = &b
	}
	if b, ok := LeastBalanced(balance); ok {
		r.LeastBalanced = &b
	}
	return r
}

// Trends projects every league team horizonDays ahead.
func (e *Engine) Trends(s *model.Snapshot, horizonDays float64) []TeamTrend {
	return ProjectLeague(s.League, s.History, horizonDays, e.window)
}

// Risk scores every rider and orders the table by descending score; equal
// scores keep rider order.
func (e *Engine) Risk(s *model.Snapshot) []scoring.Result {
	results := e.scorer.Assess(s.Riders)
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// RiskFor returns the risk entry of the rider matching name.
func (r *Report) RiskFor(name string) (scoring.Result, bool) {
	for _, res := range r.Risk {
		if sameName(res.Name, name) {
			return res, true
		}
	}
	return scoring.Result{}, false
}

// RiskInBand filters the risk table by band, keeping order.
func (r *Report) RiskInBand(b scoring.Band) []scoring.Result {
	out := []scoring.Result{}
	for _, res := range r.Risk {
		if res.Band == b {
			out = append(out, res)
		}
	}
	return out
}
