package model

import "github.com/shopspring/decimal"

// LeagueTeam is one fantasy team in the private league.
type LeagueTeam struct {
	Name   string          `json:"name"`
	Points decimal.Decimal `json:"points"`
	Roster []string        `json:"roster"`
}

// TeamScore is a team's points at one history snapshot.
type TeamScore struct {
	Name   string          `json:"name"`
	Points decimal.Decimal `json:"points"`
}

// HistoryEntry is one daily league snapshot.
type HistoryEntry struct {
	Date   Date        `json:"date"`
	Scores []TeamScore `json:"scores"`
}

// Withdrawal records a rider abandoning the race.
type Withdrawal struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Stage int    `json:"stage"`
}

// SelectedRider is a rider reference inside a curated team.
type SelectedRider struct {
	Name   string          `json:"name"`
	Role   Role            `json:"role"`
	Cost   decimal.Decimal `json:"cost"`
	Points decimal.Decimal `json:"points"`
}

// CuratedTeam is a fixed roster supplied by the snapshot (dream team,
// all-star team). Totals are taken as supplied.
type CuratedTeam struct {
	Riders      []SelectedRider `json:"riders"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalPoints decimal.Decimal `json:"total_points"`
}

// Highlight is a stored MVP or MIP award.
type Highlight struct {
	Date     Date    `json:"date"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	FromZero bool    `json:"from_zero,omitempty"`
}
