package analytics

import (
	"sort"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
)

// RoleShare is the rider count of one role.
type RoleShare struct {
	Role  model.Role `json:"role"`
	Count int        `json:"count"`
	Color string     `json:"color"`
}

// RoleDistribution counts riders per role, ordered by first appearance.
func RoleDistribution(riders []model.Rider) []RoleShare {
	pos := make(map[model.Role]int)
	var out []RoleShare
	for _, r := range riders {
		i, seen := pos[r.Role]
		if !seen {
			i = len(out)
			pos[r.Role] = i
			out = append(out, RoleShare{Role: r.Role, Color: r.Role.Color()})
		}
		out[i].Count++
	}
	return out
}

// NameLengthScore relates a rider's points to the letters in their name.
type NameLengthScore struct {
	Name            string          `json:"name"`
	Letters         int             `json:"letters"`
	Points          decimal.Decimal `json:"points"`
	PointsPerLetter float64         `json:"points_per_letter"`
}

// PointsPerNameLength ranks riders by points per non-space letter,
// descending and stable. Riders whose name has no letters are skipped.
func PointsPerNameLength(riders []model.Rider) []NameLengthScore {
	out := make([]NameLengthScore, 0, len(riders))
	for _, r := range riders {
		letters := 0
		for _, c := range r.Name {
			if !unicode.IsSpace(c) {
				letters++
			}
		}
		if letters == 0 {
			continue
		}
		out = append(out, NameLengthScore{
			Name:            r.Name,
			Letters:         letters,
			Points:          r.Points,
			PointsPerLetter: r.PointsFloat() / float64(letters),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PointsPerLetter > out[j].PointsPerLetter
	})
	return out
}

// TeamTotals is the aggregate of every rider of one professional team.
type TeamTotals struct {
	Team       string          `json:"team"`
	Riders     int             `json:"riders"`
	Cost       decimal.Decimal `json:"cost"`
	Points     decimal.Decimal `json:"points"`
	Efficiency Measure         `json:"efficiency"`
}

// TeamAggregate groups riders by team, in first-seen order, summing cost and
// points exactly. Efficiency is points/cost and undefined for a zero cost.
func TeamAggregate(riders []model.Rider) []TeamTotals {
	pos := make(map[string]int)
	var out []TeamTotals
	for _, r := range riders {
		i, seen := pos[r.Team]
		if !seen {
			i = len(out)
			pos[r.Team] = i
			out = append(out, TeamTotals{Team: r.Team})
		}
		out[i].Riders++
		out[i].Cost = out[i].Cost.Add(r.Cost)
		out[i].Points = out[i].Points.Add(r.Points)
	}
	for i := range out {
		out[i].Efficiency = ratio(out[i].Points, out[i].Cost)
	}
	return out
}

// ratio returns num/den, undefined when den is zero.
func ratio(num, den decimal.Decimal) Measure {
	if den.IsZero() {
		return Undefined()
	}
	return Defined(num.Div(den).InexactFloat64())
}

// Summary holds season-wide headline figures.
type Summary struct {
	Riders        int             `json:"riders"`
	Teams         int             `json:"teams"`
	LeagueTeams   int             `json:"league_teams"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalPoints   decimal.Decimal `json:"total_points"`
	AverageCost   Measure         `json:"average_cost"`
	AveragePoints Measure         `json:"average_points"`
	Withdrawals   int             `json:"withdrawals"`
}

// Summarize computes the season summary. Averages are undefined when there
// are no riders.
func Summarize(s *model.Snapshot) Summary {
	sum := Summary{
		Riders:      len(s.Riders),
		LeagueTeams: len(s.League),
		Withdrawals: len(s.Withdrawals),
	}
	teams := make(map[string]struct{})
	for _, r := range s.Riders {
		sum.TotalCost = sum.TotalCost.Add(r.Cost)
		sum.TotalPoints = sum.TotalPoints.Add(r.Points)
		teams[r.Team] = struct{}{}
	}
	sum.Teams = len(teams)
	n := decimal.NewFromInt(int64(len(s.Riders)))
	sum.AverageCost = ratio(sum.TotalCost, n)
	sum.AveragePoints = ratio(sum.TotalPoints, n)
	return sum
}
