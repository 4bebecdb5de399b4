package calibration_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/internal/domain/league"
	. "github.com/smartystreets/goconvey/convey"
)

// season builds a complete aggregate of pa plate appearances whose run
// environment is scale times the default.
func season(id string, pa int, scale float64) calibration.SeasonAggregate {
	f := float64(pa) / 20_000
	return calibration.SeasonAggregate{
		SeasonID:           id,
		Complete:           true,
		Games:              400,
		PA:                 pa,
		AB:                 int(17_800 * f),
		Hits:               int(4_500 * f),
		Singles:            int(3_000 * f),
		Doubles:            int(900 * f),
		Triples:            int(100 * f),
		HomeRuns:           int(500 * f),
		Walks:              int(1_700 * f),
		IntentionalWalks:   int(100 * f),
		HitByPitch:         int(200 * f),
		Strikeouts:         int(4_000 * f),
		SacFlies:           int(150 * f),
		Runs:               int(float64(pa) * league.DefaultRunsPerPA * scale),
		IP:                 4_500 * f,
		EarnedRuns:         int(2_000 * f),
		PitchingHomeRuns:   int(500 * f),
		PitchingWalks:      int(1_700 * f),
		PitchingHBP:        int(200 * f),
		PitchingStrikeouts: int(4_000 * f),
	}
}

type failingStore struct{}

func (failingStore) Load(context.Context) (*calibration.State, error) {
	return nil, calibration.ErrNoState
}

func (failingStore) Save(context.Context, *calibration.State) error {
	return errors.New("disk full")
}

func TestShouldCalibrate(t *testing.T) {
	Convey("A season is calibrated at most once", t, func() {
		So(calibration.ShouldCalibrate("2025", ""), ShouldBeTrue)
		So(calibration.ShouldCalibrate("2026", "2025"), ShouldBeTrue)
		So(calibration.ShouldCalibrate("2025", "2025"), ShouldBeFalse)
		So(calibration.ShouldCalibrate("", "2025"), ShouldBeFalse)
	})
}

func TestTransitions(t *testing.T) {
	Convey("The lifecycle only moves along legal edges", t, func() {
		So(calibration.IsValidTransition(calibration.StatusUncalibrated, calibration.StatusCalibrating), ShouldBeTrue)
		So(calibration.IsValidTransition(calibration.StatusCalibrating, calibration.StatusCalibrated), ShouldBeTrue)
		So(calibration.IsValidTransition(calibration.StatusCalibrated, calibration.StatusCalibrating), ShouldBeTrue)
		So(calibration.IsValidTransition(calibration.StatusUncalibrated, calibration.StatusCalibrated), ShouldBeFalse)
		So(calibration.IsValidTransition(calibration.StatusCalibrated, calibration.StatusUncalibrated), ShouldBeFalse)
		So(calibration.IsValidTransition("BROKEN", calibration.StatusCalibrating), ShouldBeFalse)
	})
}

func TestRecalibrate(t *testing.T) {
	Convey("Given a season scoring 10% above the default environment", t, func() {
		agg := season("2025", 20_000, 1.1)

		Convey("Then linear weights scale with runs per PA", func() {
			w := calibration.RecalibrateLinearWeights(agg)
			So(w.Validate(), ShouldBeNil)
			So(w[league.HomeRun], ShouldAlmostEqual, 1.40*1.1, 1e-3)
		})

		Convey("Then wOBA weights are the linear weights on the wOBA scale", func() {
			lw := calibration.RecalibrateLinearWeights(agg)
			ww := calibration.RecalibrateWOBAWeights(agg, league.DefaultWOBAScale)
			So(ww[league.Single], ShouldAlmostEqual, lw[league.Single]*league.DefaultWOBAScale, 1e-4)
		})

		Convey("Then the replacement level deepens", func() {
			r := calibration.RecalibrateReplacementLevel(agg)
			So(r, ShouldAlmostEqual, -13.2, 1e-2)
			So(r, ShouldBeLessThanOrEqualTo, 0)
		})

		Convey("Then the observed context recomputes the FIP constant", func() {
			obs := calibration.Observe(agg, league.Default())
			So(obs.Validate(), ShouldBeNil)
			So(obs.LeagueFIP, ShouldAlmostEqual, 4.0, 1e-9)
			So(obs.Confidence, ShouldEqual, league.ConfidenceHigh)
			So(obs.LeagueWOBA, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given an empty aggregate", t, func() {
		agg := calibration.SeasonAggregate{SeasonID: "x"}

		Convey("Then the defaults come back unchanged", func() {
			So(calibration.RecalibrateLinearWeights(agg), ShouldResemble, league.Default().LinearWeights)
			So(calibration.RecalibrateReplacementLevel(agg), ShouldEqual, league.DefaultReplacementPer600PA)
		})
	})
}

func TestCalibrateLeagueContext(t *testing.T) {
	Convey("Given a prior league wOBA of .320 and an observed .340", t, func() {
		prev := league.Default()
		prev.LeagueWOBA = 0.320
		next := prev.Clone()
		next.LeagueWOBA = 0.340

		Convey("When blended 70/30", func() {
			out := calibration.CalibrateLeagueContext(prev, next, 0.7)

			Convey("Then the result is .334 and inputs are untouched", func() {
				So(out.LeagueWOBA, ShouldAlmostEqual, 0.334, 1e-12)
				So(prev.LeagueWOBA, ShouldEqual, 0.320)
				So(next.LeagueWOBA, ShouldEqual, 0.340)
				So(out.Validate(), ShouldBeNil)
			})
		})
	})
}

func TestEngine(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given a fresh engine", t, func() {
		store := calibration.NewMemoryStore()
		ids := 0
		eng, err := calibration.New(
			calibration.WithStore(store),
			calibration.WithClock(func() time.Time { return fixed }),
			calibration.WithIDGenerator(func() string {
				ids++
				return fmt.Sprintf("rec-%d", ids)
			}),
			calibration.WithSeasonGames(50),
		)
		So(err, ShouldBeNil)
		So(eng.Load(ctx), ShouldBeNil)

		initial := eng.Current()
		So(eng.State().Status, ShouldEqual, calibration.StatusUncalibrated)
		So(initial.LeagueWOBA, ShouldEqual, league.DefaultLeagueWOBA)

		Convey("When a full season is recorded", func() {
			report, err := eng.RecordSeason(ctx, season("2025", 20_000, 1.1))
			So(err, ShouldBeNil)

			Convey("Then a new snapshot is published whole", func() {
				So(report.Skipped, ShouldBeFalse)
				So(report.Status, ShouldEqual, calibration.StatusCalibrated)
				cur := eng.Current()
				So(cur, ShouldNotPointTo, initial)
				So(cur, ShouldPointTo, report.Next)
				So(cur.SeasonID, ShouldEqual, "2025")
				So(cur.SeasonGames, ShouldEqual, 50)
				So(cur.CalibratedAt, ShouldEqual, fixed)
				So(cur.Validate(), ShouldBeNil)
			})

			Convey("Then the old snapshot is unchanged", func() {
				So(initial.LeagueWOBA, ShouldEqual, league.DefaultLeagueWOBA)
				So(initial.LinearWeights, ShouldResemble, league.Default().LinearWeights)
			})

			Convey("Then the blend keeps 30% of the prior", func() {
				hr := calibration.RecalibrateLinearWeights(season("2025", 20_000, 1.1))[league.HomeRun]
				So(eng.Current().LinearWeights[league.HomeRun], ShouldAlmostEqual, hr*0.7+1.40*0.3, 1e-9)
			})

			Convey("Then history and the store carry the run", func() {
				st := eng.State()
				So(st.LastCalibratedSeason, ShouldEqual, "2025")
				So(st.History, ShouldHaveLength, 1)
				So(st.History[0].ID, ShouldEqual, "rec-1")
				So(st.History[0].Previous, ShouldPointTo, initial)

				saved, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(saved.Status, ShouldEqual, calibration.StatusCalibrated)
				So(saved.Context.LeagueWOBA, ShouldEqual, eng.Current().LeagueWOBA)
			})

			Convey("Then retrying the same season is a reported no-op", func() {
				before := eng.Current()
				again, err := eng.RecordSeason(ctx, season("2025", 20_000, 1.3))
				So(err, ShouldBeNil)
				So(again.Skipped, ShouldBeTrue)
				So(again.Err, ShouldEqual, calibration.ErrAlreadyCalibrated)
				So(eng.Current(), ShouldPointTo, before)
			})

			Convey("Then a restarted engine restores the calibrated context", func() {
				restarted, err := calibration.New(calibration.WithStore(store))
				So(err, ShouldBeNil)
				So(restarted.Load(ctx), ShouldBeNil)
				So(restarted.State().Status, ShouldEqual, calibration.StatusCalibrated)
				So(restarted.Current().LeagueWOBA, ShouldEqual, eng.Current().LeagueWOBA)
			})
		})

		Convey("When the season is too small", func() {
			report, err := eng.RecordSeason(ctx, season("2025", 5_000, 1.5))

			Convey("Then calibration is skipped and reported without error", func() {
				So(err, ShouldBeNil)
				So(report.Skipped, ShouldBeTrue)
				So(report.Err, ShouldEqual, calibration.ErrInsufficientSample)
				So(report.Reason, ShouldContainSubstring, "5000 PA")
				So(eng.Current(), ShouldPointTo, initial)
				So(eng.State().Status, ShouldEqual, calibration.StatusUncalibrated)
				So(eng.State().History[0].Skipped, ShouldBeTrue)
			})

			Convey("Then the season can still be calibrated once complete", func() {
				report, err := eng.RecordSeason(ctx, season("2025", 20_000, 1.0))
				So(err, ShouldBeNil)
				So(report.Skipped, ShouldBeFalse)
			})
		})

		Convey("When the aggregate is partial", func() {
			agg := season("2025", 20_000, 1.0)
			agg.Complete = false
			_, err := eng.RecordSeason(ctx, agg)

			Convey("Then it is rejected and nothing changes", func() {
				So(err, ShouldWrap, calibration.ErrIncompleteSeason)
				So(eng.Current(), ShouldPointTo, initial)
				So(eng.State().Status, ShouldEqual, calibration.StatusUncalibrated)
			})
		})

		Convey("When the aggregate has no season id", func() {
			_, err := eng.RecordSeason(ctx, calibration.SeasonAggregate{Complete: true})
			So(err, ShouldEqual, calibration.ErrMissingSeason)
		})
	})

	Convey("Given an engine whose store cannot save", t, func() {
		eng, err := calibration.New(calibration.WithStore(failingStore{}))
		So(err, ShouldBeNil)
		initial := eng.Current()

		Convey("Then a failed save publishes nothing", func() {
			_, err := eng.RecordSeason(ctx, season("2025", 20_000, 1.1))
			So(err, ShouldNotBeNil)
			So(eng.Current(), ShouldPointTo, initial)
			So(eng.State().Status, ShouldEqual, calibration.StatusUncalibrated)
		})
	})

	Convey("Given an out of range blend weight", t, func() {
		_, err := calibration.New(calibration.WithBlendWeight(1.5))
		So(err, ShouldNotBeNil)
	})

	Convey("Given a short history limit", t, func() {
		eng, err := calibration.New(calibration.WithHistoryLimit(2))
		So(err, ShouldBeNil)
		for i := 0; i < 4; i++ {
			_, err := eng.RecordSeason(ctx, season(fmt.Sprintf("s%d", i), 20_000, 1.0))
			So(err, ShouldBeNil)
		}

		Convey("Then only the newest records are kept", func() {
			h := eng.State().History
			So(h, ShouldHaveLength, 2)
			So(h[0].SeasonID, ShouldEqual, "s2")
			So(h[1].SeasonID, ShouldEqual, "s3")
		})
	})
}
