package analytics_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/internal/domain/model"
)

func TestLinearRegression(t *testing.T) {
	Convey("Given two points", t, func() {
		line, err := analytics.LinearRegression([]float64{0, 2}, []float64{10, 30})

		Convey("Then the line passes through both", func() {
			So(err, ShouldBeNil)
			So(line.Slope, ShouldEqual, 10)
			So(line.Intercept, ShouldEqual, 10)
			So(line.At(0), ShouldEqual, 10)
			So(line.At(2), ShouldEqual, 30)
		})
	})

	Convey("Given noisy observations", t, func() {
		xs := []float64{0, 1, 2, 3, 4, 5, 6}
		ys := []float64{12, 40, 41, 90, 88, 130, 160}

		Convey("Then the fit agrees with gonum", func() {
			line, err := analytics.LinearRegression(xs, ys)
			So(err, ShouldBeNil)
			alpha, beta := stat.LinearRegression(xs, ys, nil, false)
			So(line.Slope, ShouldAlmostEqual, beta, 1e-9)
			So(line.Intercept, ShouldAlmostEqual, alpha, 1e-9)
		})
	})

	Convey("Given invalid input", t, func() {
		_, err := analytics.LinearRegression([]float64{1, 2}, []float64{1})
		So(errors.Is(err, analytics.ErrLengthMismatch), ShouldBeTrue)

		_, err = analytics.LinearRegression([]float64{1}, []float64{1})
		So(errors.Is(err, analytics.ErrInsufficientData), ShouldBeTrue)

		_, err = analytics.LinearRegression([]float64{3, 3, 3}, []float64{1, 2, 3})
		So(errors.Is(err, analytics.ErrDegenerateInput), ShouldBeTrue)
	})
}

func series(values ...float64) []model.HistoryPoint {
	out := make([]model.HistoryPoint, len(values))
	for i, v := range values {
		out[i] = model.HistoryPoint{Date: date(i), Points: dec(v)}
	}
	return out
}

func TestProjectPoints(t *testing.T) {
	Convey("Given a two-day series", t, func() {
		s := series(100, 160)

		Convey("When the horizon is zero", func() {
			p, err := analytics.ProjectPoints(s, 0, 5)

			Convey("Then the projection is the last value", func() {
				So(err, ShouldBeNil)
				So(p.Projected, ShouldEqual, 160)
				So(p.Fitted, ShouldEqual, 160)
			})
		})

		Convey("When projecting three days ahead", func() {
			p, err := analytics.ProjectPoints(s, 3, 5)
			So(err, ShouldBeNil)
			So(p.Line.Slope, ShouldEqual, 60)
			So(p.Projected, ShouldEqual, 340)
		})
	})

	Convey("Given a declining series", t, func() {
		p, err := analytics.ProjectPoints(series(50, 30, 10), 2, 5)

		Convey("Then the projection may go negative", func() {
			So(err, ShouldBeNil)
			So(p.Line.Slope, ShouldEqual, -20)
			So(p.Projected, ShouldEqual, -30)
		})
	})

	Convey("Given a long series", t, func() {
		p, err := analytics.ProjectPoints(series(0, 0, 0, 10, 20, 30, 40), 1, 5)

		Convey("Then only the trailing window is fitted", func() {
			So(err, ShouldBeNil)
			So(p.Observations, ShouldEqual, 5)
			So(p.FirstDate.Day(), ShouldEqual, date(2).Day())
			So(p.LastPoints, ShouldEqual, 40)
			So(p.RSquared.Valid, ShouldBeTrue)
		})
	})

	Convey("Given a flat series", t, func() {
		p, err := analytics.ProjectPoints(series(5, 5, 5), 4, 5)
		So(err, ShouldBeNil)
		So(p.Projected, ShouldEqual, 5)
		So(p.RSquared.Valid, ShouldBeFalse)
	})

	Convey("Given too little history", t, func() {
		_, err := analytics.ProjectPoints(series(5), 1, 5)
		So(errors.Is(err, analytics.ErrInsufficientData), ShouldBeTrue)

		same := []model.HistoryPoint{{Date: date(0), Points: dec(1)}, {Date: date(0), Points: dec(2)}}
		_, err = analytics.ProjectPoints(same, 1, 5)
		So(errors.Is(err, analytics.ErrDegenerateInput), ShouldBeTrue)
	})

	Convey("Given a horizon outside one year", t, func() {
		s := series(0, 10, 20)

		Convey("Then it is rejected before fitting", func() {
			for _, h := range []float64{1e308, 366, -1, math.Inf(1), math.NaN()} {
				_, err := analytics.ProjectPoints(s, h, 5)
				So(errors.Is(err, analytics.ErrHorizonOutOfRange), ShouldBeTrue)
			}
		})

		Convey("Then the full year is still accepted", func() {
			p, err := analytics.ProjectPoints(s, analytics.MaxHorizonDays, 5)
			So(err, ShouldBeNil)
			So(p.Projected, ShouldEqual, 20+10*365)
		})
	})

	Convey("Given points too large to extrapolate", t, func() {
		Convey("When the slope times the horizon overflows", func() {
			_, err := analytics.ProjectPoints(series(0, 1e306), 365, 5)
			So(errors.Is(err, analytics.ErrDegenerateInput), ShouldBeTrue)
		})

		Convey("When the slope itself overflows", func() {
			_, err := analytics.ProjectPoints(series(-1.7e308, 1.7e308), 1, 5)
			So(errors.Is(err, analytics.ErrDegenerateInput), ShouldBeTrue)
		})
	})
}

func TestValidHorizon(t *testing.T) {
	Convey("Given candidate horizons", t, func() {
		So(analytics.ValidHorizon(0), ShouldBeTrue)
		So(analytics.ValidHorizon(2.5), ShouldBeTrue)
		So(analytics.ValidHorizon(365), ShouldBeTrue)
		So(analytics.ValidHorizon(365.5), ShouldBeFalse)
		So(analytics.ValidHorizon(-0.1), ShouldBeFalse)
		So(analytics.ValidHorizon(math.NaN()), ShouldBeFalse)
		So(analytics.ValidHorizon(math.Inf(1)), ShouldBeFalse)
	})
}

func TestProjectLeague(t *testing.T) {
	Convey("Given the season league history", t, func() {
		s := season()
		trends := analytics.ProjectLeague(s.League, s.History, 5, 5)
		So(trends, ShouldHaveLength, 3)

		Convey("Then a growing team projects upward", func() {
			p := trends[0].Projection
			So(p, ShouldNotBeNil)
			So(p.Team, ShouldEqual, "Los Gregarios")
			So(p.Line.Slope, ShouldAlmostEqual, 240, tolerance)
			So(p.Projected, ShouldAlmostEqual, 1820, tolerance)
			So(p.Fitted, ShouldAlmostEqual, 240*7+370.0/3, 1e-6)
		})

		Convey("Then team names in history are matched through the normalizer", func() {
			p := trends[1].Projection
			So(p, ShouldNotBeNil)
			So(p.Observations, ShouldEqual, 3)
			So(p.Projected, ShouldAlmostEqual, 280, tolerance)
		})

		Convey("Then a team without history has a reason", func() {
			So(trends[2].Projection, ShouldBeNil)
			So(trends[2].Reason, ShouldContainSubstring, "insufficient data")
		})
	})
}
