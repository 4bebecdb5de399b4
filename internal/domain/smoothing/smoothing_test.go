package smoothing_test

import (
	"testing"

	"github.com/okian/sabr/internal/domain/smoothing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBlend(t *testing.T) {
	Convey("Given a prior league wOBA of .320 and a new observation of .340", t, func() {
		Convey("When blending 70/30 toward the new value", func() {
			got := smoothing.Blend(0.320, 0.340, smoothing.DefaultWeight)

			Convey("Then the result is .334", func() {
				So(got, ShouldAlmostEqual, 0.334, 1e-12)
			})
		})

		Convey("When the weight is 1", func() {
			Convey("Then the new value replaces the old", func() {
				So(smoothing.Blend(0.320, 0.340, 1), ShouldEqual, 0.340)
			})
		})

		Convey("When the weight is 0", func() {
			Convey("Then the old value is kept", func() {
				So(smoothing.Blend(0.320, 0.340, 0), ShouldEqual, 0.320)
			})
		})

		Convey("When the weight is out of range", func() {
			Convey("Then it is clamped", func() {
				So(smoothing.Blend(0.320, 0.340, 3), ShouldEqual, 0.340)
				So(smoothing.Blend(0.320, 0.340, -1), ShouldEqual, 0.320)
			})
		})
	})
}

func TestBlendMaps(t *testing.T) {
	Convey("Given positioning weights from two seasons", t, func() {
		prev := map[string]float64{"CF": 0.5, "RF": 0.5}
		next := map[string]float64{"CF": 0.8, "LF": 0.2}

		Convey("When blending without normalization", func() {
			out := smoothing.BlendMap(prev, next, 0.7)

			Convey("Then keys missing on one side are treated as zero", func() {
				So(out["CF"], ShouldAlmostEqual, 0.71, 1e-9)
				So(out["LF"], ShouldAlmostEqual, 0.14, 1e-9)
				So(out["RF"], ShouldAlmostEqual, 0.15, 1e-9)
			})
		})
	})
}

func TestValidateWeight(t *testing.T) {
	Convey("Weights outside [0,1] are rejected", t, func() {
		So(smoothing.ValidateWeight(0.7), ShouldBeNil)
		So(smoothing.ValidateWeight(1.2), ShouldEqual, smoothing.ErrInvalidWeight)
		So(smoothing.ValidateWeight(-0.1), ShouldEqual, smoothing.ErrInvalidWeight)
	})
}
