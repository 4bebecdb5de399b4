package repository

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func seeded() *TreapStore {
	return NewTreapStore(WithRand(rand.New(rand.NewPCG(1, 2))))
}

func TestTreapStoreBasics(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := seeded()

		Convey("Then it has no entries", func() {
			So(s.Count(ctx, "2025"), ShouldEqual, 0)
			top, err := s.TopN(ctx, "2025", 10)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
			_, err = s.Rank(ctx, "2025", "p1")
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("When a player is upserted", func() {
			changed, err := s.Upsert(ctx, "2025", "p1", 4.2)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)

			Convey("Then the player ranks first", func() {
				e, err := s.Rank(ctx, "2025", "p1")
				So(err, ShouldBeNil)
				So(e, ShouldResemble, Entry{Rank: 1, PlayerID: "p1", SeasonID: "2025", WAR: 4.2})
				So(s.Count(ctx, "2025"), ShouldEqual, 1)
			})

			Convey("Then the same value again is not a change", func() {
				changed, err := s.Upsert(ctx, "2025", "p1", 4.2)
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
			})

			Convey("Then other seasons are unaffected", func() {
				So(s.Count(ctx, "2024"), ShouldEqual, 0)
				_, err := s.Rank(ctx, "2024", "p1")
				So(err, ShouldEqual, ErrNotFound)
			})
		})

		Convey("When WAR is not finite", func() {
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				_, err := s.Upsert(ctx, "2025", "p1", v)
				So(err, ShouldEqual, ErrInvalidWAR)
			}
			So(s.Count(ctx, "2025"), ShouldEqual, 0)
		})

		Convey("When the limit is not positive", func() {
			_, err := s.TopN(ctx, "2025", 0)
			So(err, ShouldEqual, ErrInvalidLimit)
		})
	})
}

func TestTreapStoreOrdering(t *testing.T) {
	ctx := context.Background()

	Convey("Given a season leaderboard", t, func() {
		s := seeded()
		for id, war := range map[string]float64{
			"judge":   10.8,
			"ohtani":  9.2,
			"betts":   6.1,
			"soto":    6.1,
			"rookie":  -0.4,
			"veteran": 0,
		} {
			_, err := s.Upsert(ctx, "2025", id, war)
			So(err, ShouldBeNil)
		}

		Convey("Then TopN is ordered by WAR then player id", func() {
			top, err := s.TopN(ctx, "2025", 10)
			So(err, ShouldBeNil)
			ids := make([]string, len(top))
			for i, e := range top {
				ids[i] = e.PlayerID
			}
			So(ids, ShouldResemble, []string{"judge", "ohtani", "betts", "soto", "veteran", "rookie"})
		})

		Convey("Then tied players share a rank and the next rank is skipped", func() {
			top, _ := s.TopN(ctx, "2025", 5)
			So(top[2].Rank, ShouldEqual, 3)
			So(top[3].Rank, ShouldEqual, 3)
			So(top[4].Rank, ShouldEqual, 5)

			e, err := s.Rank(ctx, "2025", "soto")
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 3)
			e, _ = s.Rank(ctx, "2025", "rookie")
			So(e.Rank, ShouldEqual, 6)
		})

		Convey("Then a limit smaller than the board truncates", func() {
			top, err := s.TopN(ctx, "2025", 2)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 2)
		})

		Convey("When a player's WAR drops", func() {
			changed, err := s.Upsert(ctx, "2025", "judge", 1.0)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)

			Convey("Then the board reorders without duplicating the player", func() {
				e, _ := s.Rank(ctx, "2025", "judge")
				So(e.Rank, ShouldEqual, 4)
				So(e.WAR, ShouldEqual, 1.0)
				So(s.Count(ctx, "2025"), ShouldEqual, 6)
				top, _ := s.TopN(ctx, "2025", 1)
				So(top[0].PlayerID, ShouldEqual, "ohtani")
			})
		})
	})
}

func TestTreapStoreRankMatchesSort(t *testing.T) {
	ctx := context.Background()

	Convey("Given many randomized updates", t, func() {
		s := seeded()
		r := rand.New(rand.NewPCG(7, 7))
		want := make(map[string]float64)
		for i := 0; i < 2000; i++ {
			id := fmt.Sprintf("p%03d", r.IntN(300))
			war := float64(r.IntN(200)-50) / 10
			want[id] = war
			_, err := s.Upsert(ctx, "2025", id, war)
			So(err, ShouldBeNil)
		}

		Convey("Then every rank equals one plus the count of strictly better players", func() {
			wars := make([]float64, 0, len(want))
			for _, w := range want {
				wars = append(wars, w)
			}
			sort.Float64s(wars)
			ok := true
			for id, w := range want {
				above := len(wars) - sort.SearchFloat64s(wars, math.Nextafter(w, math.Inf(1)))
				e, err := s.Rank(ctx, "2025", id)
				if err != nil || e.Rank != above+1 {
					ok = false
				}
			}
			So(ok, ShouldBeTrue)
			So(s.Count(ctx, "2025"), ShouldEqual, len(want))
		})

		Convey("Then the full board is sorted", func() {
			top, err := s.TopN(ctx, "2025", len(want))
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, len(want))
			sorted := sort.SliceIsSorted(top, func(i, j int) bool {
				if top[i].WAR != top[j].WAR {
					return top[i].WAR > top[j].WAR
				}
				return top[i].PlayerID < top[j].PlayerID
			})
			So(sorted, ShouldBeTrue)
		})
	})
}

func TestTreapStoreConcurrency(t *testing.T) {
	ctx := context.Background()

	Convey("Given concurrent writers and readers", t, func() {
		s := NewTreapStore()
		const writers, perWriter = 8, 200

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(2)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					_, _ = s.Upsert(ctx, "2025", fmt.Sprintf("p-%d-%d", w, i%50), float64(i)/10)
				}
			}(w)
			go func() {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					_, _ = s.TopN(ctx, "2025", 10)
				}
			}()
		}
		wg.Wait()

		Convey("Then each player holds exactly one entry with its last value", func() {
			So(s.Count(ctx, "2025"), ShouldEqual, writers*50)
			e, err := s.Rank(ctx, "2025", "p-0-49")
			So(err, ShouldBeNil)
			So(e.WAR, ShouldAlmostEqual, 19.9, 1e-9)
		})
	})
}
