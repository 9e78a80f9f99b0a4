package analytics_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
)

const tolerance = 1e-9

var seasonStart = time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func date(offset int) model.Date {
	return model.Date{Time: seasonStart.AddDate(0, 0, offset)}
}

func rider(name, team string, role model.Role, cost, points float64) model.Rider {
	return model.Rider{Name: name, Team: team, Role: role, Cost: dec(cost), Points: dec(points)}
}

func withHistory(r model.Rider, values ...float64) model.Rider {
	for i, v := range values {
		r.PointHistory = append(r.PointHistory, model.HistoryPoint{Date: date(i), Points: dec(v)})
	}
	return r
}

// season is a small but complete snapshot used across tests.
func season() *model.Snapshot {
	return model.New(model.Snapshot{
		Riders: []model.Rider{
			withHistory(rider("Primož Roglič", "Red Bull", model.RoleAllRounder, 24, 300), 100, 200, 300),
			withHistory(rider("Enric Mas", "Movistar", model.RoleClimber, 16, 120), 40, 80, 120),
			withHistory(rider("Kaden Groves", "Alpecin", model.RoleSprinter, 10, 200), 0, 50, 200),
			withHistory(rider("Jhonatan Narváez", "Ineos", model.RoleUnclassed, 6, 0), 0, 0, 0),
			withHistory(rider("Pablo Castrillo", "Kern Pharma", model.RoleUnclassed, 4, 80), 0, 0, 80),
		},
		League: []model.LeagueTeam{
			{Name: "Los Gregarios", Points: dec(600), Roster: []string{"PRIMOZ ROGLIC", "enric mas", "Kaden Groves"}},
			{Name: "Pavé Pirates", Points: dec(200), Roster: []string{"Jhonatan Narvaez", "Pablo Castrillo", "Ghost Rider"}},
			{Name: "Solo Break", Points: dec(100), Roster: []string{"Kaden Groves"}},
		},
		History: []model.HistoryEntry{
			{Date: date(0), Scores: []model.TeamScore{{Name: "Los Gregarios", Points: dec(140)}, {Name: "Pavé Pirates", Points: dec(0)}}},
			{Date: date(1), Scores: []model.TeamScore{{Name: "Los Gregarios", Points: dec(330)}, {Name: "Pavé Pirates", Points: dec(0)}}},
			{Date: date(2), Scores: []model.TeamScore{{Name: "Los Gregarios", Points: dec(620)}, {Name: "Pave Pirates", Points: dec(80)}}},
		},
		Withdrawals: []model.Withdrawal{
			{Name: "JHONATAN NARVAEZ", Team: "Ineos", Stage: 9},
			{Name: "Unknown Rouleur", Team: "Nobody", Stage: 3},
		},
		DreamTeam: &model.CuratedTeam{
			Riders: []model.SelectedRider{
				{Name: "Pablo Castrillo", Role: model.RoleUnclassed, Cost: dec(4), Points: dec(80)},
				{Name: "Primož Roglič", Role: model.RoleAllRounder, Cost: dec(24), Points: dec(300)},
				{Name: "Kaden Groves", Role: model.RoleSprinter, Cost: dec(10), Points: dec(200)},
				{Name: "Enric Mas", Role: model.RoleClimber, Cost: dec(16), Points: dec(120)},
				{Name: "Second Sprinter", Role: model.RoleSprinter, Cost: dec(5), Points: dec(10)},
			},
			TotalCost:   dec(59),
			TotalPoints: dec(710),
		},
		MVPHistory: []model.Highlight{{Date: date(1), Name: "Primož Roglič", Value: 100}},
	})
}
