package analytics_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/scoring"
)

func TestMostValuable(t *testing.T) {
	Convey("Given the season riders", t, func() {
		mvp, mip := analytics.MostValuable(season().Riders)

		Convey("Then the MVP added the most points on the latest day", func() {
			So(mvp, ShouldNotBeNil)
			So(mvp.Name, ShouldEqual, "Kaden Groves")
			So(mvp.Value, ShouldEqual, 150)
			So(mvp.Date.Day(), ShouldEqual, date(2).Day())
		})

		Convey("Then a jump from zero wins the MIP", func() {
			So(mip, ShouldNotBeNil)
			So(mip.Name, ShouldEqual, "Pablo Castrillo")
			So(mip.FromZero, ShouldBeTrue)
			So(mip.Value, ShouldEqual, 80)
		})
	})

	Convey("Given only percentage gains", t, func() {
		riders := []model.Rider{
			withHistory(rider("Slow", "T", model.RoleClimber, 1, 110), 100, 110),
			withHistory(rider("Fast", "T", model.RoleClimber, 1, 20), 10, 20),
		}
		_, mip := analytics.MostValuable(riders)
		So(mip.Name, ShouldEqual, "Fast")
		So(mip.Value, ShouldAlmostEqual, 100, tolerance)
		So(mip.FromZero, ShouldBeFalse)
	})

	Convey("Given riders without history or gains", t, func() {
		mvp, mip := analytics.MostValuable([]model.Rider{rider("Quiet", "T", model.RoleClimber, 1, 0)})
		So(mvp, ShouldBeNil)
		So(mip, ShouldBeNil)

		flat := []model.Rider{withHistory(rider("Flat", "T", model.RoleClimber, 1, 5), 5, 5)}
		mvp, mip = analytics.MostValuable(flat)
		So(mvp, ShouldBeNil)
		So(mip, ShouldBeNil)
	})

	Convey("Given the snapshot award histories", t, func() {
		h := analytics.BuildHighlights(season())
		So(h.MVPHistory, ShouldHaveLength, 1)
		So(h.MIPHistory, ShouldNotBeNil)
		So(h.MIPHistory, ShouldBeEmpty)
		So(h.LatestDate.Day(), ShouldEqual, date(2).Day())
	})
}

func TestLineup(t *testing.T) {
	Convey("Given the season dream team", t, func() {
		v := analytics.Lineup(season().DreamTeam)

		Convey("Then riders fill role slots first", func() {
			So(v.Available, ShouldBeTrue)
			got := make([]string, len(v.Slots))
			for i, s := range v.Slots {
				got[i] = s.Rider.Name
			}
			So(got, ShouldResemble, []string{
				"Primož Roglič", "Enric Mas", "Kaden Groves", "Pablo Castrillo", "Second Sprinter",
			})
			So(v.Slots[0].Position, ShouldEqual, 1)
			So(v.Slots[0].Color, ShouldEqual, model.RoleAllRounder.Color())
		})

		Convey("Then totals pass through and points group by role", func() {
			So(v.TotalPoints.Equal(dec(710)), ShouldBeTrue)
			So(v.ByRole, ShouldHaveLength, 4)
			So(v.ByRole[2].Role, ShouldEqual, model.RoleSprinter)
			So(v.ByRole[2].Points.Equal(dec(210)), ShouldBeTrue)
		})
	})

	Convey("Given no curated team", t, func() {
		v := analytics.Lineup(nil)
		So(v.Available, ShouldBeFalse)
		So(v.Slots, ShouldBeEmpty)
	})
}

func TestTrajectories(t *testing.T) {
	Convey("Given the season riders", t, func() {
		riders := season().Riders

		Convey("Then top10 orders by points", func() {
			tr, err := analytics.Trajectories(riders, analytics.SelectTop10)
			So(err, ShouldBeNil)
			So(tr, ShouldHaveLength, 5)
			So(tr[0].Name, ShouldEqual, "Primož Roglič")
			So(tr[1].Name, ShouldEqual, "Kaden Groves")
			So(tr[0].History, ShouldHaveLength, 3)
		})

		Convey("Then all keeps snapshot order", func() {
			tr, err := analytics.Trajectories(riders, "ALL")
			So(err, ShouldBeNil)
			So(tr[1].Name, ShouldEqual, "Enric Mas")
		})

		Convey("Then a single rider is matched by normalized name", func() {
			tr, err := analytics.Trajectories(riders, "jhonatan narvaez")
			So(err, ShouldBeNil)
			So(tr, ShouldHaveLength, 1)
			So(tr[0].Name, ShouldEqual, "Jhonatan Narváez")

			_, err = analytics.Trajectories(riders, "Eddy Merckx")
			So(errors.Is(err, analytics.ErrRiderNotFound), ShouldBeTrue)
		})
	})
}

func TestRosterAndWithdrawals(t *testing.T) {
	Convey("Given the season snapshot", t, func() {
		s := season()

		Convey("Then a roster resolves members and flags withdrawals", func() {
			v := analytics.Roster(s, s.League[1])
			So(v.Team, ShouldEqual, "Pavé Pirates")
			So(v.Missing, ShouldEqual, 1)
			So(v.Members[0].Name, ShouldEqual, "Jhonatan Narváez")
			So(v.Members[0].Withdrawn, ShouldBeTrue)
			So(v.Members[0].Stage, ShouldEqual, 9)
			So(v.Members[2].Matched, ShouldBeFalse)
			So(v.Members[2].Name, ShouldEqual, "Ghost Rider")
			So(v.Members[2].Role, ShouldEqual, model.RoleUnknown)
			So(v.Members[2].Points.IsZero(), ShouldBeTrue)
		})

		Convey("Then withdrawals are listed by stage", func() {
			w := analytics.Withdrawals(s)
			So(w[0].Name, ShouldEqual, "Unknown Rouleur")
			So(w[0].Matched, ShouldBeFalse)
			So(w[1].Name, ShouldEqual, "Jhonatan Narváez")
			So(w[1].Role, ShouldEqual, model.RoleUnclassed)
		})

		Convey("Then join misses are counted", func() {
			So(analytics.JoinMisses(s), ShouldEqual, 2)
		})
	})
}

func TestEngineAnalyse(t *testing.T) {
	Convey("Given an engine with a short top list", t, func() {
		engine := analytics.NewEngine(
			analytics.WithTopN(2),
			analytics.WithTrendWindow(3),
			analytics.WithHorizonDays(1),
			analytics.WithScorer(scoring.NewRiskScorer(scoring.WithBands(0.5, 3))),
		)
		report := engine.Analyse(season())

		Convey("Then every section is populated", func() {
			So(report.Summary.Riders, ShouldEqual, 5)
			So(report.Efficiency, ShouldHaveLength, 5)
			So(report.TopEfficiency, ShouldHaveLength, 2)
			So(report.Roles, ShouldHaveLength, 4)
			So(report.Teams, ShouldHaveLength, 5)
			So(report.Standings, ShouldHaveLength, 3)
			So(report.Balance, ShouldHaveLength, 3)
			So(report.MostBalanced.Team, ShouldEqual, "Pavé Pirates")
			So(report.LeastBalanced.Team, ShouldEqual, "Los Gregarios")
			So(report.Trends[0].Projection.HorizonDays, ShouldEqual, 1)
			So(report.DreamTeam.Available, ShouldBeTrue)
			So(report.AllStarTeam.Available, ShouldBeFalse)
			So(report.JoinMisses, ShouldEqual, 2)
			So(engine.HorizonDays(), ShouldEqual, 1)
		})

		Convey("Then the risk table is ordered by score", func() {
			So(report.Risk, ShouldHaveLength, 5)
			for i := 1; i < len(report.Risk); i++ {
				So(report.Risk[i-1].Score, ShouldBeGreaterThanOrEqualTo, report.Risk[i].Score)
			}
			So(report.Risk[0].Name, ShouldEqual, "Jhonatan Narváez")

			r, ok := report.RiskFor("JHONATAN NARVAEZ")
			So(ok, ShouldBeTrue)
			So(r.Band, ShouldEqual, scoring.BandHigh)
			_, ok = report.RiskFor("nobody")
			So(ok, ShouldBeFalse)
			So(report.RiskInBand(scoring.BandHigh), ShouldNotBeEmpty)
		})
	})

	Convey("Given an empty snapshot", t, func() {
		report := analytics.NewEngine().Analyse(model.New(model.Snapshot{}))
		So(report.Efficiency, ShouldBeEmpty)
		So(report.Roles, ShouldNotBeNil)
		So(report.MostBalanced, ShouldBeNil)
		So(report.Highlights.MVP, ShouldBeNil)
		So(report.Summary.AverageCost.Valid, ShouldBeFalse)
	})

	Convey("Given out of range horizons", t, func() {
		engine := analytics.NewEngine(analytics.WithHorizonDays(1e308), analytics.WithHorizonDays(-2))

		Convey("Then the default horizon is kept", func() {
			So(engine.HorizonDays(), ShouldEqual, 5)
			for _, tr := range engine.Analyse(season()).Trends {
				if tr.Projection != nil {
					So(tr.Projection.HorizonDays, ShouldEqual, 5)
				}
			}
		})
	})
}
