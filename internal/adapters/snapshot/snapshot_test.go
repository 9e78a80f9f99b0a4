package snapshot_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/peloton/internal/adapters/snapshot"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/pkg/logger"
)

func fixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "season.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return b
}

func TestDecode(t *testing.T) {
	Convey("Given the season fixture", t, func() {
		s, rep, err := snapshot.Decode(fixture(t))
		So(err, ShouldBeNil)

		Convey("Then riders are typed and blank names dropped", func() {
			So(s.Riders, ShouldHaveLength, 3)
			So(rep.SkippedRiders, ShouldEqual, 1)
			So(s.Riders[0].Role, ShouldEqual, model.RoleAllRounder)
			So(s.Riders[0].Ownership, ShouldEqual, 61.5)
			So(s.Riders[1].Cost.String(), ShouldEqual, "10.5")
			So(s.Riders[2].PointHistory, ShouldBeEmpty)
		})

		Convey("Then point histories are chronological", func() {
			So(s.Riders[0].HistoryValues(), ShouldResemble, []float64{100, 200, 300})
		})

		Convey("Then roster entries accept strings and objects", func() {
			So(s.League, ShouldHaveLength, 2)
			So(s.League[0].Roster, ShouldResemble, []string{"PRIMOZ ROGLIC", "kaden groves"})
		})

		Convey("Then league history accepts list and map scores", func() {
			So(s.History, ShouldHaveLength, 2)
			So(s.History[0].Date.Day(), ShouldEqual, "2024-08-17")
			So(s.History[0].Scores, ShouldHaveLength, 2)
			So(s.History[0].Scores[0].Name, ShouldEqual, "Los Gregarios")
			So(s.History[0].Scores[0].Points.IntPart(), ShouldEqual, 100)
		})

		Convey("Then optional sections are decoded", func() {
			So(s.Withdrawals, ShouldHaveLength, 1)
			So(s.Withdrawals[0].Stage, ShouldEqual, 9)
			So(s.DreamTeam, ShouldNotBeNil)
			So(s.DreamTeam.TotalCost.String(), ShouldEqual, "34.5")
			So(s.AllStarTeam, ShouldBeNil)
			So(s.MVPHistory[0].Value, ShouldEqual, 100)
			So(s.MIPHistory[0].Value, ShouldEqual, 50)
			So(s.MIPHistory[0].FromZero, ShouldBeTrue)
		})

		Convey("Then the rider index is ready", func() {
			_, ok := s.Index().Lookup("jhonatan narvaez")
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Given a bare league array and no optional sections", t, func() {
		s, _, err := snapshot.Decode([]byte(`{"cyclists": [], "league_scores": [{"name": "Solo", "points": 3, "roster": []}]}`))
		So(err, ShouldBeNil)
		So(s.Riders, ShouldBeEmpty)
		So(s.League, ShouldHaveLength, 1)
		So(s.History, ShouldBeEmpty)
		So(s.DreamTeam, ShouldBeNil)
	})

	Convey("Given badly typed entries in optional places", t, func() {
		doc := `{
			"cyclists": [
				{"name": "Primož Roglič", "team": "Red Bull", "cost": 24, "points": 300,
				 "pointHistory": [{"date": "2024-08-17", "points": 100}, {"date": "17/08/2024", "points": 150}, {"date": "2024-08-18", "points": 300}]},
				{"name": "Enric Mas", "cost": "cheap"},
				{"name": "Kaden Groves", "cost": 10, "points": 200}
			],
			"league_scores": {
				"current": [{"name": "Los Gregarios", "points": 500, "roster": ["Primož Roglič"]}, {"name": "Broken", "roster": 9}],
				"history": [{"date": "2024-08-17", "scores": {"Los Gregarios": 100}}, {"date": "yesterday", "scores": []}]
			},
			"withdrawals": [{"name": "Kaden Groves", "team": "Alpecin", "stage": "12"}, {"name": "Enric Mas", "team": "Movistar", "stage": 14}],
			"dream_team": [{"name": "Kaden Groves"}],
			"league_all_star_team": {"riders": [{"name": "Kaden Groves", "cost": 10, "points": 200}, {"name": 5}], "total_cost": 10, "total_points": 200},
			"mvp_history": [{"date": "2024-08-17", "name": "Primož Roglič", "pointsAdded": 100}, {"date": "2024-08-17", "name": "Kaden Groves", "pointsAdded": "lots"}],
			"mip_history": "none"
		}`
		s, rep, err := snapshot.Decode([]byte(doc))

		Convey("Then the load still succeeds", func() {
			So(err, ShouldBeNil)
			So(rep.Dropped(), ShouldBeTrue)
		})

		Convey("Then only the bad entries are dropped and counted", func() {
			So(s.Riders, ShouldHaveLength, 2)
			So(rep.SkippedRiders, ShouldEqual, 1)
			So(s.Riders[0].PointHistory, ShouldHaveLength, 2)
			So(rep.SkippedHistoryPoints, ShouldEqual, 1)
			So(s.League, ShouldHaveLength, 1)
			So(rep.SkippedTeams, ShouldEqual, 1)
			So(s.History, ShouldHaveLength, 1)
			So(rep.SkippedHistoryEntries, ShouldEqual, 1)
			So(s.Withdrawals, ShouldHaveLength, 1)
			So(s.Withdrawals[0].Stage, ShouldEqual, 14)
			So(rep.SkippedWithdrawals, ShouldEqual, 1)
			So(s.AllStarTeam.Riders, ShouldHaveLength, 1)
			So(rep.SkippedSelections, ShouldEqual, 1)
			So(s.MVPHistory, ShouldHaveLength, 1)
			So(rep.SkippedHighlights, ShouldEqual, 1)
		})

		Convey("Then mistyped sections are dropped whole", func() {
			So(s.DreamTeam, ShouldBeNil)
			So(s.MIPHistory, ShouldBeEmpty)
			So(rep.SkippedSections, ShouldResemble, []string{"dream_team", "mip_history"})
		})
	})

	Convey("Given a clean document", t, func() {
		_, rep, err := snapshot.Decode([]byte(`{"cyclists": [{"name": "A"}], "league_scores": []}`))
		So(err, ShouldBeNil)
		So(rep.Dropped(), ShouldBeFalse)
	})

	Convey("Given malformed documents", t, func() {
		cases := []struct{ name, doc string }{
			{"missing cyclists", `{"league_scores": []}`},
			{"null cyclists", `{"cyclists": null, "league_scores": []}`},
			{"missing league", `{"cyclists": []}`},
			{"null league", `{"cyclists": [], "league_scores": null}`},
			{"bad league", `{"cyclists": [], "league_scores": 7}`},
			{"not json", `<html>`},
			{"cyclists object", `{"cyclists": {"name": "A"}, "league_scores": []}`},
			{"mistyped current teams", `{"cyclists": [], "league_scores": {"current": 7}}`},
		}
		for _, c := range cases {
			Convey("When the document has "+c.name, func() {
				_, _, err := snapshot.Decode([]byte(c.doc))
				So(errors.Is(err, snapshot.ErrMalformedSnapshot), ShouldBeTrue)
				So(snapshot.IsMalformed(err), ShouldBeTrue)
			})
		}
	})
}

func TestLoader(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a file source", t, func() {
		l := snapshot.NewLoader(filepath.Join("testdata", "season.json"))

		Convey("Then the snapshot loads with its source recorded", func() {
			s, err := l.Load(ctx)
			So(err, ShouldBeNil)
			So(s.Source, ShouldEqual, l.Location())
			So(s.LoadedAt.IsZero(), ShouldBeFalse)
		})
	})

	Convey("Given a missing file", t, func() {
		l := snapshot.NewLoader("testdata/missing.json", snapshot.WithRetries(2), snapshot.WithBackoff(time.Millisecond))
		_, err := l.Load(ctx)
		So(errors.Is(err, snapshot.ErrSourceUnavailable), ShouldBeTrue)
	})

	Convey("Given no source", t, func() {
		_, err := snapshot.NewLoader("  ").Load(ctx)
		So(errors.Is(err, snapshot.ErrNoSource), ShouldBeTrue)
	})

	Convey("Given an HTTP source that fails once", t, func() {
		body := fixture(t)
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write(body)
		}))
		defer srv.Close()

		l := snapshot.NewLoader(srv.URL, snapshot.WithRetries(3), snapshot.WithBackoff(time.Millisecond))

		Convey("Then the retry succeeds", func() {
			s, err := l.Load(ctx)
			So(err, ShouldBeNil)
			So(s.Riders, ShouldHaveLength, 3)
			So(calls.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given an HTTP source serving a malformed document", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"cyclists": []}`))
		}))
		defer srv.Close()

		_, err := snapshot.NewLoader(srv.URL, snapshot.WithBackoff(time.Millisecond)).Load(ctx)

		Convey("Then it fails without retrying", func() {
			So(errors.Is(err, snapshot.ErrMalformedSnapshot), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given an HTTP source that always fails", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		Convey("When retries are disabled", func() {
			_, err := snapshot.NewLoader(srv.URL, snapshot.WithRetries(0), snapshot.WithBackoff(time.Millisecond)).Load(ctx)

			Convey("Then a single attempt is made", func() {
				So(errors.Is(err, snapshot.ErrSourceUnavailable), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When two retries are allowed", func() {
			_, err := snapshot.NewLoader(srv.URL, snapshot.WithRetries(2), snapshot.WithBackoff(time.Millisecond)).Load(ctx)

			Convey("Then the source is tried three times", func() {
				So(err, ShouldNotBeNil)
				So(calls.Load(), ShouldEqual, 3)
			})
		})

		Convey("When the retry count is negative", func() {
			_, _ = snapshot.NewLoader(srv.URL, snapshot.WithRetries(-1), snapshot.WithBackoff(time.Millisecond)).Load(ctx)

			Convey("Then the default of two retries applies", func() {
				So(calls.Load(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a cancelled context during backoff", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := snapshot.NewLoader(srv.URL, snapshot.WithRetries(5), snapshot.WithBackoff(time.Hour)).Load(cctx)
		So(errors.Is(err, snapshot.ErrSourceUnavailable), ShouldBeTrue)
	})
}
