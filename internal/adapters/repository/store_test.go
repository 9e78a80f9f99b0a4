package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/peloton/internal/adapters/repository"
	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/internal/domain/model"
)

func dataset(source string, riders int) (*model.Snapshot, *analytics.Report) {
	s := model.Snapshot{Source: source}
	for i := 0; i < riders; i++ {
		s.Riders = append(s.Riders, model.Rider{Name: string(rune('A' + i))})
	}
	snap := model.New(s)
	return snap, analytics.NewEngine().Analyse(snap)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemoryStore(repository.WithHistoryLimit(2), repository.WithMetricsEnabled(false))

		Convey("Then nothing is served yet", func() {
			_, err := store.Current(ctx)
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
			So(store.History(ctx), ShouldBeEmpty)
		})

		Convey("Then nil snapshots are rejected", func() {
			_, err := store.Publish(ctx, nil, nil, "")
			So(errors.Is(err, repository.ErrNilSnapshot), ShouldBeTrue)
			So(store.Generation(), ShouldEqual, 0)
		})

		Convey("When datasets are published", func() {
			for i, src := range []string{"a.json", "b.json", "c.json"} {
				snap, rep := dataset(src, i+1)
				d, err := store.Publish(ctx, snap, rep, "req-"+src)
				So(err, ShouldBeNil)
				So(d.Generation, ShouldEqual, uint64(i+1))
			}

			Convey("Then the latest one is served", func() {
				d, err := store.Current(ctx)
				So(err, ShouldBeNil)
				So(d.Snapshot.Source, ShouldEqual, "c.json")
				So(d.Generation, ShouldEqual, 3)
				So(d.RequestID, ShouldEqual, "req-c.json")
			})

			Convey("Then history is bounded and newest first", func() {
				h := store.History(ctx)
				So(h, ShouldHaveLength, 2)
				So(h[0].Source, ShouldEqual, "c.json")
				So(h[0].Riders, ShouldEqual, 3)
				So(h[1].Generation, ShouldEqual, 2)
			})
		})
	})

	Convey("Given concurrent readers and a publisher", t, func() {
		store := repository.NewMemoryStore()
		snap, rep := dataset("seed.json", 1)
		_, err := store.Publish(ctx, snap, rep, "")
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					if d, err := store.Current(ctx); err != nil || d.Snapshot == nil {
						panic("reader observed an incomplete dataset")
					}
				}
			}()
		}
		for i := 0; i < 10; i++ {
			s, r := dataset("next.json", 2)
			_, _ = store.Publish(ctx, s, r, "")
		}
		wg.Wait()

		So(store.Generation(), ShouldEqual, 11)
	})
}
