// Package types contains common types used across the application
package types

// Entry represents a ranked row in a standings or leaderboard table.
type Entry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Ranked assigns 1-based ranks to entries already in display order.
// Equal scores share the rank of the first entry holding that score.
func Ranked(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Rank = i + 1
		if i > 0 && e.Score == entries[i-1].Score {
			e.Rank = out[i-1].Rank
		}
		out[i] = e
	}
	return out
}
