package position_test

import (
	"testing"

	"github.com/okian/sabr/internal/domain/position"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given position codes", t, func() {
		Convey("Then every scorecard code parses in any case", func() {
			for _, p := range position.All {
				got, err := position.Parse(" " + string(p) + " ")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, p)
			}
			got, err := position.Parse("ss")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, position.Shortstop)
		})

		Convey("Then unknown codes are rejected", func() {
			for _, s := range []string{"", "XX", "4", "short"} {
				_, err := position.Parse(s)
				So(err, ShouldEqual, position.ErrUnknown)
			}
		})
	})
}

func TestSets(t *testing.T) {
	Convey("Given the position sets", t, func() {
		Convey("Then fielders exclude pitcher and designated hitter", func() {
			So(position.Fielders, ShouldHaveLength, 8)
			So(position.Fielders, ShouldNotContain, position.Pitcher)
			So(position.Fielders, ShouldNotContain, position.Designated)
		})

		Convey("Then only LF, CF and RF are outfield", func() {
			var outfield []position.Position
			for _, p := range position.All {
				if p.Outfield() {
					outfield = append(outfield, p)
				}
			}
			So(outfield, ShouldResemble, []position.Position{position.Left, position.Center, position.Right})
			So(position.Position("XX").Valid(), ShouldBeFalse)
			So(position.Shortstop.String(), ShouldEqual, "SS")
		})
	})
}
