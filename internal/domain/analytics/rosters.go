package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/names"
)

// Trajectory selections besides a single rider name.
const (
	SelectTop10 = "top10"
	SelectAll   = "all"

	topTrajectories = 10
)

func sameName(a, b string) bool { return names.Equal(a, b) }

// Trajectory is one rider's cumulative points over time.
type Trajectory struct {
	Name    string               `json:"name"`
	Role    model.Role           `json:"role"`
	Color   string               `json:"color"`
	Points  decimal.Decimal      `json:"points"`
	History []model.HistoryPoint `json:"history"`
}

// Trajectories selects riders for the trajectory chart: the ten highest
// scorers, every rider, or the single rider matching selection.
func Trajectories(riders []model.Rider, selection string) ([]Trajectory, error) {
	var picked []model.Rider
	switch strings.ToLower(strings.TrimSpace(selection)) {
	case "", SelectTop10:
		picked = append(picked, riders...)
		sort.SliceStable(picked, func(i, j int) bool { return picked[i].Points.GreaterThan(picked[j].Points) })
		if len(picked) > topTrajectories {
			picked = picked[:topTrajectories]
		}
	case SelectAll:
		picked = riders
	default:
		r, ok := model.NewRiderIndex(riders).Lookup(selection)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRiderNotFound, selection)
		}
		picked = []model.Rider{r}
	}
	out := make([]Trajectory, len(picked))
	for i, r := range picked {
		out[i] = Trajectory{
			Name:    r.Name,
			Role:    r.Role,
			Color:   r.Role.Color(),
			Points:  r.Points,
			History: nonNil(r.PointHistory),
		}
	}
	return out, nil
}

// RosterMember is one roster slot resolved against the rider list.
type RosterMember struct {
	Name      string          `json:"name"`
	Team      string          `json:"team"`
	Role      model.Role      `json:"role"`
	Cost      decimal.Decimal `json:"cost"`
	Points    decimal.Decimal `json:"points"`
	Matched   bool            `json:"matched"`
	Withdrawn bool            `json:"withdrawn"`
	Stage     int             `json:"withdrawn_stage,omitempty"`
}

// RosterView is a league team with its members resolved.
type RosterView struct {
	Team    string          `json:"team"`
	Points  decimal.Decimal `json:"points"`
	Members []RosterMember  `json:"members"`
	Missing int             `json:"missing"`
}

// Roster resolves a league team's members. Names without a rider become
// zero-point placeholders; withdrawals are flagged with their stage.
func Roster(s *model.Snapshot, team model.LeagueTeam) RosterView {
	v := RosterView{Team: team.Name, Points: team.Points, Members: make([]RosterMember, len(team.Roster))}
	idx := s.Index()
	for i, name := range team.Roster {
		r := idx.Resolve(name)
		m := RosterMember{
			Name:    name,
			Team:    r.Team,
			Role:    r.Role,
			Cost:    r.Cost,
			Points:  r.Points,
			Matched: !r.Placeholder,
		}
		if m.Matched {
			m.Name = r.Name
		} else {
			v.Missing++
		}
		if w, ok := s.WithdrawalFor(name); ok {
			m.Withdrawn = true
			m.Stage = w.Stage
		}
		v.Members[i] = m
	}
	return v
}

// JoinMisses counts roster and withdrawal names with no matching rider.
func JoinMisses(s *model.Snapshot) int {
	idx := s.Index()
	misses := 0
	for _, t := range s.League {
		for _, name := range t.Roster {
			if _, ok := idx.Lookup(name); !ok {
				misses++
			}
		}
	}
	for _, w := range s.Withdrawals {
		if _, ok := idx.Lookup(w.Name); !ok {
			misses++
		}
	}
	return misses
}

// WithdrawalView is a withdrawal joined with the rider record.
type WithdrawalView struct {
	Name    string     `json:"name"`
	Team    string     `json:"team"`
	Stage   int        `json:"stage"`
	Role    model.Role `json:"role"`
	Matched bool       `json:"matched"`
}

// Withdrawals lists withdrawals by stage, keeping snapshot order within a
// stage. Display names come from the rider record when one matches.
func Withdrawals(s *model.Snapshot) []WithdrawalView {
	idx := s.Index()
	out := make([]WithdrawalView, len(s.Withdrawals))
	for i, w := range s.Withdrawals {
		r := idx.Resolve(w.Name)
		out[i] = WithdrawalView{Name: w.Name, Team: w.Team, Stage: w.Stage, Role: r.Role, Matched: !r.Placeholder}
		if !r.Placeholder {
			out[i].Name = r.Name
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out
}
