package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
)

// document is the wire shape of a season snapshot. Sections other than
// cyclists and league_scores are decoded entry by entry so one bad entry is
// dropped instead of failing the load.
type document struct {
	Cyclists     *[]json.RawMessage `json:"cyclists"`
	LeagueScores json.RawMessage    `json:"league_scores"`
	Withdrawals  json.RawMessage    `json:"withdrawals"`
	DreamTeam    json.RawMessage    `json:"dream_team"`
	AllStarTeam  json.RawMessage    `json:"league_all_star_team"`
	MVPHistory   json.RawMessage    `json:"mvp_history"`
	MIPHistory   json.RawMessage    `json:"mip_history"`
}

type rawRider struct {
	Name         string            `json:"name"`
	Team         string            `json:"team"`
	Role         model.Role        `json:"role"`
	Cost         decimal.Decimal   `json:"cost"`
	Points       decimal.Decimal   `json:"points"`
	Ownership    *float64          `json:"ownership"`
	PointHistory []json.RawMessage `json:"pointHistory"`
}

type rawPoint struct {
	Date   model.Date      `json:"date"`
	Points decimal.Decimal `json:"points"`
}

type leagueScores struct {
	Current *[]json.RawMessage `json:"current"`
	History json.RawMessage    `json:"history"`
}

type rawTeam struct {
	Name   string          `json:"name"`
	Points decimal.Decimal `json:"points"`
	Roster []rosterName    `json:"roster"`
}

// rosterName accepts a bare string or an object carrying a name.
type rosterName string

func (n *rosterName) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = rosterName(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("roster entry: %w", err)
	}
	*n = rosterName(obj.Name)
	return nil
}

type rawHistory struct {
	Date   model.Date `json:"date"`
	Scores teamScores `json:"scores"`
}

// teamScores accepts [{name, points}] or {"team": points}. The map form is
// ordered by team name.
type teamScores []model.TeamScore

func (s *teamScores) UnmarshalJSON(b []byte) error {
	var list []struct {
		Name   string          `json:"name"`
		Points decimal.Decimal `json:"points"`
	}
	if err := json.Unmarshal(b, &list); err == nil {
		out := make(teamScores, len(list))
		for i, e := range list {
			out[i] = model.TeamScore{Name: e.Name, Points: e.Points}
		}
		*s = out
		return nil
	}
	var byName map[string]decimal.Decimal
	if err := json.Unmarshal(b, &byName); err != nil {
		return fmt.Errorf("history scores: %w", err)
	}
	out := make(teamScores, 0, len(byName))
	for name, pts := range byName {
		out = append(out, model.TeamScore{Name: name, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	*s = out
	return nil
}

type rawWithdrawal struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Stage int    `json:"stage"`
}

type rawCurated struct {
	Riders      []json.RawMessage `json:"riders"`
	TotalPoints decimal.Decimal   `json:"total_points"`
	TotalCost   decimal.Decimal   `json:"total_cost"`
}

type rawSelected struct {
	Name   string          `json:"name"`
	Role   model.Role      `json:"role"`
	Cost   decimal.Decimal `json:"cost"`
	Points decimal.Decimal `json:"points"`
}

type rawHighlight struct {
	Date               model.Date `json:"date"`
	Name               string     `json:"name"`
	PointsAdded        *float64   `json:"pointsAdded"`
	PercentageIncrease *float64   `json:"percentageIncrease"`
	Value              *float64   `json:"value"`
	FromZero           bool       `json:"fromZero"`
}

// Report lists what the decoder dropped or defaulted.
type Report struct {
	SkippedRiders         int
	SkippedTeams          int
	SkippedHistoryPoints  int
	SkippedHistoryEntries int
	SkippedWithdrawals    int
	SkippedSelections     int
	SkippedHighlights     int
	// SkippedSections names optional sections dropped whole because they
	// had the wrong shape.
	SkippedSections []string
	DuplicateRiders []string
}

// Dropped reports whether anything was skipped or duplicated.
func (r Report) Dropped() bool {
	return r.SkippedRiders+r.SkippedTeams+r.SkippedHistoryPoints+r.SkippedHistoryEntries+
		r.SkippedWithdrawals+r.SkippedSelections+r.SkippedHighlights > 0 ||
		len(r.SkippedSections) > 0 || len(r.DuplicateRiders) > 0
}

// Decode validates a snapshot document and builds the typed model. Missing
// optional sections become empty and undecodable entries are dropped and
// counted in the Report; only missing or mistyped cyclists or league_scores
// fail with ErrMalformedSnapshot.
func Decode(b []byte) (*model.Snapshot, Report, error) {
	var rep Report
	var doc document
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&doc); err != nil {
		return nil, rep, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if doc.Cyclists == nil {
		return nil, rep, fmt.Errorf("%w: missing cyclists", ErrMalformedSnapshot)
	}
	league, err := decodeLeague(doc.LeagueScores)
	if err != nil {
		return nil, rep, err
	}

	s := model.Snapshot{}
	for _, r := range decodeEach[rawRider](*doc.Cyclists, &rep.SkippedRiders) {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			rep.SkippedRiders++
			continue
		}
		rider := model.Rider{
			Name:   name,
			Team:   strings.TrimSpace(r.Team),
			Role:   r.Role,
			Cost:   r.Cost,
			Points: r.Points,
		}
		if r.Ownership != nil {
			rider.Ownership = *r.Ownership
		}
		for _, p := range decodeEach[rawPoint](r.PointHistory, &rep.SkippedHistoryPoints) {
			rider.PointHistory = append(rider.PointHistory, model.HistoryPoint{Date: p.Date, Points: p.Points})
		}
		s.Riders = append(s.Riders, rider)
	}

	if league.Current != nil {
		for _, t := range decodeEach[rawTeam](*league.Current, &rep.SkippedTeams) {
			name := strings.TrimSpace(t.Name)
			if name == "" {
				rep.SkippedTeams++
				continue
			}
			team := model.LeagueTeam{Name: name, Points: t.Points, Roster: make([]string, 0, len(t.Roster))}
			for _, m := range t.Roster {
				if n := strings.TrimSpace(string(m)); n != "" {
					team.Roster = append(team.Roster, n)
				}
			}
			s.League = append(s.League, team)
		}
	}
	for _, h := range decodeEach[rawHistory](section(league.History, "league_scores.history", &rep), &rep.SkippedHistoryEntries) {
		s.History = append(s.History, model.HistoryEntry{Date: h.Date, Scores: h.Scores})
	}
	for _, w := range decodeEach[rawWithdrawal](section(doc.Withdrawals, "withdrawals", &rep), &rep.SkippedWithdrawals) {
		s.Withdrawals = append(s.Withdrawals, model.Withdrawal(w))
	}
	s.DreamTeam = curated(doc.DreamTeam, "dream_team", &rep)
	s.AllStarTeam = curated(doc.AllStarTeam, "league_all_star_team", &rep)
	s.MVPHistory = highlights(decodeEach[rawHighlight](section(doc.MVPHistory, "mvp_history", &rep), &rep.SkippedHighlights))
	s.MIPHistory = highlights(decodeEach[rawHighlight](section(doc.MIPHistory, "mip_history", &rep), &rep.SkippedHighlights))

	out := model.New(s)
	rep.DuplicateRiders = out.Index().Duplicates()
	return out, rep, nil
}

// decodeLeague accepts {current, history} or a bare array of current teams.
func decodeLeague(raw json.RawMessage) (leagueScores, error) {
	if absent(raw) {
		return leagueScores{}, fmt.Errorf("%w: missing league_scores", ErrMalformedSnapshot)
	}
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '[' {
		var teams []json.RawMessage
		if err := json.Unmarshal(trimmed, &teams); err != nil {
			return leagueScores{}, fmt.Errorf("%w: league_scores: %v", ErrMalformedSnapshot, err)
		}
		return leagueScores{Current: &teams}, nil
	}
	var ls leagueScores
	if err := json.Unmarshal(trimmed, &ls); err != nil {
		return leagueScores{}, fmt.Errorf("%w: league_scores: %v", ErrMalformedSnapshot, err)
	}
	return ls, nil
}

// absent reports whether a section is missing or null.
func absent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// section splits an optional array section into its entries. A section that
// is not an array is recorded under name and treated as empty.
func section(raw json.RawMessage, name string, rep *Report) []json.RawMessage {
	if absent(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		rep.SkippedSections = append(rep.SkippedSections, name)
		return nil
	}
	return items
}

// decodeEach decodes every entry into T, counting entries that fail.
func decodeEach[T any](items []json.RawMessage, skipped *int) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			*skipped++
			continue
		}
		out = append(out, v)
	}
	return out
}

func curated(raw json.RawMessage, name string, rep *Report) *model.CuratedTeam {
	if absent(raw) {
		return nil
	}
	var c rawCurated
	if err := json.Unmarshal(raw, &c); err != nil {
		rep.SkippedSections = append(rep.SkippedSections, name)
		return nil
	}
	out := &model.CuratedTeam{TotalCost: c.TotalCost, TotalPoints: c.TotalPoints}
	for _, r := range decodeEach[rawSelected](c.Riders, &rep.SkippedSelections) {
		out.Riders = append(out.Riders, model.SelectedRider{Name: r.Name, Role: r.Role, Cost: r.Cost, Points: r.Points})
	}
	return out
}

func highlights(in []rawHighlight) []model.Highlight {
	out := make([]model.Highlight, 0, len(in))
	for _, h := range in {
		v := model.Highlight{Date: h.Date, Name: h.Name, FromZero: h.FromZero}
		switch {
		case h.Value != nil:
			v.Value = *h.Value
		case h.PointsAdded != nil:
			v.Value = *h.PointsAdded
		case h.PercentageIncrease != nil:
			v.Value = *h.PercentageIncrease
		}
		out = append(out, v)
	}
	return out
}
