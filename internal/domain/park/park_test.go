package park_test

import (
	"math"
	"testing"

	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/park"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClampFactor(t *testing.T) {
	Convey("Given a spread of raw factor values", t, func() {
		inputs := []float64{-3, 0, 0.5, 0.69999, 0.7, 0.95, 1, 1.2999, 1.3, 1.31, 7, math.Inf(1), math.Inf(-1), math.NaN()}

		Convey("Then clamping is range preserving and idempotent", func() {
			for _, x := range inputs {
				once := park.ClampFactor(x)
				So(once, ShouldBeBetweenOrEqual, park.MinFactor, park.MaxFactor)
				So(park.ClampFactor(once), ShouldEqual, once)
			}
		})

		Convey("Then values already in range pass through", func() {
			So(park.ClampFactor(0.95), ShouldEqual, 0.95)
			So(park.ClampFactor(1.3), ShouldEqual, 1.3)
		})
	})
}

func TestDeriveFromStadium(t *testing.T) {
	Convey("Given a park with short fences and medium walls", t, func() {
		f := park.DeriveFromStadium("Sakura Hills")

		Convey("Then it plays as hitter friendly within bounds", func() {
			So(f.Overall, ShouldBeGreaterThan, 1.0)
			So(f.Overall, ShouldBeLessThanOrEqualTo, park.MaxFactor)
			So(f.Overall, ShouldAlmostEqual, (1.1+400.0/380+1.1)/3, 1e-9)
		})

		Convey("Then the aggregate factor is reused for every home-run split", func() {
			So(f.Runs, ShouldEqual, f.Overall)
			So(f.HomeRuns, ShouldEqual, f.Overall)
			So(f.LeftHandedHR, ShouldEqual, f.Overall)
			So(f.RightHandedHR, ShouldEqual, f.Overall)
		})

		Convey("Then batting-average splits stay neutral", func() {
			So(f.LeftHandedAVG, ShouldEqual, 1.0)
			So(f.RightHandedAVG, ShouldEqual, 1.0)
			So(f.Confidence, ShouldEqual, league.ConfidenceHigh)
		})
	})

	Convey("Given a deep park with high walls", t, func() {
		f := park.DeriveFromStadium("Golden Egg")

		Convey("Then it suppresses offense", func() {
			So(f.Overall, ShouldBeLessThan, 1.0)
			So(f.Overall, ShouldBeGreaterThanOrEqualTo, park.MinFactor)
		})
	})

	Convey("Given a stadium name in a different case", t, func() {
		f := park.DeriveFromStadium("  sakura HILLS ")

		Convey("Then the lookup still matches", func() {
			So(f.Overall, ShouldBeGreaterThan, 1.0)
		})
	})

	Convey("Given an unknown stadium", t, func() {
		f := park.DeriveFromStadium("Backyard Lot")

		Convey("Then the neutral default is returned", func() {
			So(f, ShouldResemble, park.Neutral())
		})
	})

	Convey("Given pathological geometry", t, func() {
		d := park.NewDeriver(park.WithStadiums([]park.Stadium{
			{Name: "Bandbox", Left: 100, Center: 120, Right: 100, Walls: [3]park.WallHeight{park.WallLow, park.WallLow, park.WallLow}, Games: 100},
			{Name: "Canyon", Left: 900, Center: 900, Right: 900, Walls: [3]park.WallHeight{park.WallHigh, park.WallHigh, park.WallHigh}, Games: 100},
		}))

		Convey("Then every factor is clamped", func() {
			So(d.Derive("Bandbox").Overall, ShouldEqual, park.MaxFactor)
			So(d.Derive("Canyon").Overall, ShouldEqual, park.MinFactor)
		})

		Convey("Then the default table is no longer consulted", func() {
			So(d.Derive("Sakura Hills"), ShouldResemble, park.Neutral())
		})
	})
}

func TestValidateStadiums(t *testing.T) {
	Convey("The default stadium table is valid", t, func() {
		So(park.ValidateStadiums(park.DefaultStadiums), ShouldBeNil)
	})

	Convey("Broken rows are reported", t, func() {
		walls := [3]park.WallHeight{park.WallMedium, park.WallMedium, park.WallMedium}
		So(park.ValidateStadiums([]park.Stadium{{Name: "", Left: 1, Center: 1, Right: 1, Walls: walls}}), ShouldWrap, park.ErrInvalidStadium)
		So(park.ValidateStadiums([]park.Stadium{{Name: "A", Left: 0, Center: 1, Right: 1, Walls: walls}}), ShouldWrap, park.ErrInvalidStadium)
		So(park.ValidateStadiums([]park.Stadium{
			{Name: "A", Left: 1, Center: 1, Right: 1, Walls: walls},
			{Name: "a", Left: 1, Center: 1, Right: 1, Walls: walls},
		}), ShouldWrap, park.ErrInvalidStadium)
		So(park.ValidateStadiums([]park.Stadium{{Name: "A", Left: 1, Center: 1, Right: 1, Walls: [3]park.WallHeight{"tall", "", ""}}}), ShouldWrap, park.ErrInvalidStadium)
	})
}

func TestEffectiveBattingFactor(t *testing.T) {
	Convey("Given a hitter friendly park", t, func() {
		f := park.DeriveFromStadium("Sakura Hills")
		left := (f.LeftHandedHR + f.LeftHandedAVG) / 2

		Convey("Then a left-handed batter blends the split with the run factor", func() {
			So(park.EffectiveBattingFactor(f, park.BatsLeft), ShouldAlmostEqual, 0.6*left+0.4*f.Runs, 1e-9)
		})

		Convey("Then a switch hitter averages both sides", func() {
			So(park.EffectiveBattingFactor(f, park.BatsSwitch), ShouldAlmostEqual, left, 1e-9)
		})

		Convey("Then an unknown side uses the run factor", func() {
			So(park.EffectiveBattingFactor(f, ""), ShouldEqual, f.Runs)
		})
	})
}
