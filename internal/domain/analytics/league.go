package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/types"
)

// Standings ranks league teams by points, descending. Equal points keep
// league order and share a rank.
func Standings(teams []model.LeagueTeam) []types.Entry {
	sorted := append([]model.LeagueTeam(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points.GreaterThan(sorted[j].Points)
	})
	entries := make([]types.Entry, len(sorted))
	for i, t := range sorted {
		entries[i] = types.Entry{Name: t.Name, Score: t.Points.InexactFloat64()}
	}
	return types.Ranked(entries)
}

// RelativeEntry is a team's points relative to the league mean.
type RelativeEntry struct {
	Team     string          `json:"team"`
	Points   decimal.Decimal `json:"points"`
	Relative Measure         `json:"relative_percent"`
}

// RelativePerformance returns (points - mean)/mean * 100 per team in league
// order. Every value is undefined when the mean is zero.
func RelativePerformance(teams []model.LeagueTeam) []RelativeEntry {
	out := make([]RelativeEntry, len(teams))
	if len(teams) == 0 {
		return out
	}
	total := decimal.Zero
	for _, t := range teams {
		total = total.Add(t.Points)
	}
	mean := total.Div(decimal.NewFromInt(int64(len(teams))))
	hundred := decimal.NewFromInt(100)
	for i, t := range teams {
		out[i] = RelativeEntry{Team: t.Name, Points: t.Points}
		if mean.IsZero() {
			continue
		}
		out[i].Relative = Defined(t.Points.Sub(mean).Div(mean).Mul(hundred).InexactFloat64())
	}
	return out
}

// FindTeam returns the league team whose name normalizes to name.
func FindTeam(teams []model.LeagueTeam, name string) (model.LeagueTeam, error) {
	for _, t := range teams {
		if sameName(t.Name, name) {
			return t, nil
		}
	}
	return model.LeagueTeam{}, ErrTeamNotFound
}
