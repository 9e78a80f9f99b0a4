package analytics

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/peloton/internal/domain/model"
)

const day = 24 * time.Hour

// MaxHorizonDays is the furthest a projection may look ahead.
const MaxHorizonDays = 365

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// LinearRegression fits ordinary least squares over xs and ys, accumulating
// Σx, Σy, Σxy and Σx² in a single pass. At least two points are required and
// the xs must not all be equal.
func LinearRegression(xs, ys []float64) (Line, error) {
	if len(xs) != len(ys) {
		return Line{}, fmt.Errorf("%w: %d xs, %d ys", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return Line{}, fmt.Errorf("%w: %d points", ErrInsufficientData, len(xs))
	}
	var sx, sy, sxy, sxx float64
	for i, x := range xs {
		y := ys[i]
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
	}
	n := float64(len(xs))
	den := n*sxx - sx*sx
	if den == 0 {
		return Line{}, fmt.Errorf("%w: all x values equal", ErrDegenerateInput)
	}
	slope := (n*sxy - sx*sy) / den
	return Line{Slope: slope, Intercept: (sy - slope*sx) / n}, nil
}

// Projection is a naive linear extrapolation of a team's points.
type Projection struct {
	Team         string     `json:"team"`
	Observations int        `json:"observations"`
	FirstDate    model.Date `json:"first_date"`
	LastDate     model.Date `json:"last_date"`
	LastPoints   float64    `json:"last_points"`
	Line         Line       `json:"line"`
	RSquared     Measure    `json:"r_squared"`
	HorizonDays  float64    `json:"horizon_days"`
	// Projected is anchored on the last observation: LastPoints plus the
	// slope times the horizon.
	Projected float64 `json:"projected"`
	// Fitted is the regression line itself evaluated at the horizon.
	Fitted float64 `json:"fitted"`
}

// TeamSeries extracts the chronological points of team from the league
// history. Days where the team is absent are skipped.
func TeamSeries(history []model.HistoryEntry, team string) []model.HistoryPoint {
	var out []model.HistoryPoint
	for _, h := range history {
		for _, s := range h.Scores {
			if sameName(s.Name, team) {
				out = append(out, model.HistoryPoint{Date: h.Date, Points: s.Points})
				break
			}
		}
	}
	return out
}

// ProjectPoints fits the last window observations of series, with x measured
// in days since the first observation of the window, and extrapolates
// horizonDays past the last one. The result is unbounded and may decrease,
// but a projection that overflows float64 fails with ErrDegenerateInput.
func ProjectPoints(series []model.HistoryPoint, horizonDays float64, window int) (Projection, error) {
	if !ValidHorizon(horizonDays) {
		return Projection{}, fmt.Errorf("%w: %v days", ErrHorizonOutOfRange, horizonDays)
	}
	if window >= 2 && len(series) > window {
		series = series[len(series)-window:]
	}
	if len(series) < 2 {
		return Projection{}, fmt.Errorf("%w: %d observations", ErrInsufficientData, len(series))
	}
	origin := series[0].Date.Time
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(p.Date.Sub(origin)) / float64(day)
		ys[i] = p.Points.InexactFloat64()
	}
	line, err := LinearRegression(xs, ys)
	if err != nil {
		return Projection{}, err
	}
	last := len(series) - 1
	projected := ys[last] + line.Slope*horizonDays
	fitted := line.At(xs[last] + horizonDays)
	if !finite(line.Slope) || !finite(line.Intercept) || !finite(projected) || !finite(fitted) {
		return Projection{}, fmt.Errorf("%w: projection overflows", ErrDegenerateInput)
	}
	return Projection{
		Observations: len(series),
		FirstDate:    series[0].Date,
		LastDate:     series[last].Date,
		LastPoints:   ys[last],
		Line:         line,
		RSquared:     Defined(stat.RSquared(xs, ys, nil, line.Intercept, line.Slope)),
		HorizonDays:  horizonDays,
		Projected:    projected,
		Fitted:       fitted,
	}, nil
}

// ValidHorizon reports whether days is a usable projection horizon.
func ValidHorizon(days float64) bool {
	return days >= 0 && days <= MaxHorizonDays
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// TeamTrend is the projection of one league team, or why none exists.
type TeamTrend struct {
	Team       string      `json:"team"`
	Projection *Projection `json:"projection,omitempty"`
	Reason     string      `json:"reason,omitempty"`
}

// ProjectLeague projects every league team in league order. Teams without
// enough history carry a reason instead of a projection.
func ProjectLeague(teams []model.LeagueTeam, history []model.HistoryEntry, horizonDays float64, window int) []TeamTrend {
	out := make([]TeamTrend, len(teams))
	for i, t := range teams {
		out[i].Team = t.Name
		p, err := ProjectPoints(TeamSeries(history, t.Name), horizonDays, window)
		if err != nil {
			out[i].Reason = err.Error()
			continue
		}
		p.Team = t.Name
		out[i].Projection = &p
	}
	return out
}
