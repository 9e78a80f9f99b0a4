package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
)

// slotPlan is how many riders of each role open the dream team lineup.
var slotPlan = []struct {
	role  model.Role
	count int
}{
	{model.RoleAllRounder, 2},
	{model.RoleClimber, 2},
	{model.RoleSprinter, 1},
	{model.RoleUnclassed, 3},
}

// Slot is one position of a curated lineup.
type Slot struct {
	Position int                 `json:"position"`
	Rider    model.SelectedRider `json:"rider"`
	Color    string              `json:"color"`
}

// RolePoints is the points a lineup collects from one role.
type RolePoints struct {
	Role   model.Role      `json:"role"`
	Points decimal.Decimal `json:"points"`
	Color  string          `json:"color"`
}

// LineupView is a curated team laid out for display.
type LineupView struct {
	Available   bool            `json:"available"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalPoints decimal.Decimal `json:"total_points"`
	Slots       []Slot          `json:"slots"`
	ByRole      []RolePoints    `json:"points_by_role"`
}

// Lineup orders a curated team into role slots (two all-rounders, two
// climbers, one sprinter, three unclassed, best first) followed by any
// remaining riders in snapshot order. Totals are passed through as
// supplied. A nil team yields an unavailable, empty view.
func Lineup(team *model.CuratedTeam) LineupView {
	v := LineupView{Slots: []Slot{}, ByRole: []RolePoints{}}
	if team == nil {
		return v
	}
	v.Available = true
	v.TotalCost = team.TotalCost
	v.TotalPoints = team.TotalPoints

	used := make([]bool, len(team.Riders))
	var ordered []model.SelectedRider
	for _, plan := range slotPlan {
		var idx []int
		for i, r := range team.Riders {
			if r.Role == plan.role {
				idx = append(idx, i)
			}
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return team.Riders[idx[a]].Points.GreaterThan(team.Riders[idx[b]].Points)
		})
		if len(idx) > plan.count {
			idx = idx[:plan.count]
		}
		for _, i := range idx {
			used[i] = true
			ordered = append(ordered, team.Riders[i])
		}
	}
	for i, r := range team.Riders {
		if !used[i] {
			ordered = append(ordered, r)
		}
	}

	pos := make(map[model.Role]int)
	for i, r := range ordered {
		v.Slots = append(v.Slots, Slot{Position: i + 1, Rider: r, Color: r.Role.Color()})
		j, seen := pos[r.Role]
		if !seen {
			j = len(v.ByRole)
			pos[r.Role] = j
			v.ByRole = append(v.ByRole, RolePoints{Role: r.Role, Color: r.Role.Color()})
		}
		v.ByRole[j].Points = v.ByRole[j].Points.Add(r.Points)
	}
	return v
}
