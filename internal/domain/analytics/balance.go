package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
)

// Resolver finds the rider behind a roster name. Misses resolve to a
// zero-point placeholder.
type Resolver interface {
	Resolve(name string) model.Rider
}

// CalculateBalance is the mean gap between consecutive member points once
// sorted descending. Lower is more balanced. Rosters with fewer than two
// members have no gaps and yield Undefined.
func CalculateBalance(roster []string, lookup Resolver) Measure {
	if len(roster) < 2 {
		return Undefined()
	}
	points := memberPoints(roster, lookup)
	sum := decimal.Zero
	for i := 1; i < len(points); i++ {
		sum = sum.Add(points[i-1].Sub(points[i]))
	}
	return Defined(sum.Div(decimal.NewFromInt(int64(len(points) - 1))).InexactFloat64())
}

func memberPoints(roster []string, lookup Resolver) []decimal.Decimal {
	points := make([]decimal.Decimal, len(roster))
	for i, name := range roster {
		points[i] = lookup.Resolve(name).Points
	}
	sort.Slice(points, func(i, j int) bool { return points[i].GreaterThan(points[j]) })
	return points
}

// TeamBalance is the balance of one league team.
type TeamBalance struct {
	Team    string    `json:"team"`
	Members int       `json:"members"`
	Points  []float64 `json:"points"`
	Balance Measure   `json:"balance"`
}

// LeagueBalance computes the balance of every league team in league order.
func LeagueBalance(teams []model.LeagueTeam, lookup Resolver) []TeamBalance {
	out := make([]TeamBalance, len(teams))
	for i, t := range teams {
		pts := memberPoints(t.Roster, lookup)
		values := make([]float64, len(pts))
		for j, p := range pts {
			values[j] = p.InexactFloat64()
		}
		out[i] = TeamBalance{
			Team:    t.Name,
			Members: len(t.Roster),
			Points:  values,
			Balance: CalculateBalance(t.Roster, lookup),
		}
	}
	return out
}

// MostBalanced returns the team with the lowest defined balance. Ties keep
// the earlier team.
func MostBalanced(balances []TeamBalance) (TeamBalance, bool) {
	return pickBalance(balances, func(a, b float64) bool { return a < b })
}

// LeastBalanced returns the team with the highest defined balance. Ties keep
// the earlier team.
func LeastBalanced(balances []TeamBalance) (TeamBalance, bool) {
	return pickBalance(balances, func(a, b float64) bool { return a > b })
}

func pickBalance(balances []TeamBalance, better func(a, b float64) bool) (TeamBalance, bool) {
	var best TeamBalance
	found := false
	for _, b := range balances {
		if !b.Balance.Valid {
			continue
		}
		if !found || better(b.Balance.Value, best.Balance.Value) {
			best = b
			found = true
		}
	}
	return best, found
}
