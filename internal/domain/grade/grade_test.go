package grade_test

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/okian/sabr/internal/domain/grade"
	"github.com/okian/sabr/internal/domain/position"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTables(t *testing.T) {
	Convey("The constant tables are complete and ordered", t, func() {
		So(grade.ValidateTables(), ShouldBeNil)

		table := grade.PositionPlayerThresholds
		So(table[0].Grade, ShouldEqual, grade.S)
		So(table[len(table)-1].Min, ShouldEqual, 0)
		for i := 1; i < len(table); i++ {
			So(table[i].Min, ShouldBeLessThan, table[i-1].Min)
		}
	})
}

func TestGradeOrder(t *testing.T) {
	Convey("Given grade labels", t, func() {
		Convey("Then they parse and order", func() {
			g, err := grade.Parse("B+")
			So(err, ShouldBeNil)
			So(g, ShouldEqual, grade.BPlus)
			So(grade.A.Better(grade.BPlus), ShouldBeTrue)
			So(grade.D.Better(grade.DPlus), ShouldBeFalse)
		})

		Convey("Then unknown labels are rejected", func() {
			_, err := grade.Parse("E")
			So(err, ShouldWrap, grade.ErrUnknownGrade)
		})

		Convey("Then JSON uses the label", func() {
			b, err := json.Marshal(map[string]grade.Grade{"g": grade.AMinus})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"g":"A-"}`)

			var out map[string]grade.Grade
			So(json.Unmarshal(b, &out), ShouldBeNil)
			So(out["g"], ShouldEqual, grade.AMinus)
		})
	})
}

func TestPlayerGrades(t *testing.T) {
	Convey("Given a balanced position player rated 60 everywhere", t, func() {
		r := grade.BatterRatings{Power: 60, Contact: 60, Speed: 60, Fielding: 60, Arm: 60}

		Convey("Then the weighted rating is 60 and grades B+", func() {
			So(r.Weighted(), ShouldAlmostEqual, 60, 1e-9)
			So(grade.PositionPlayerGrade(r), ShouldEqual, grade.BPlus)
		})
	})

	Convey("Given a slugger with no glove", t, func() {
		r := grade.BatterRatings{Power: 95, Contact: 95, Speed: 50, Fielding: 10, Arm: 10}

		Convey("Then power and contact dominate", func() {
			So(r.Weighted(), ShouldAlmostEqual, 69, 1e-9)
			So(grade.PositionPlayerGrade(r), ShouldEqual, grade.AMinus)
		})
	})

	Convey("Given a pitcher", t, func() {
		So(grade.PitcherGrade(grade.PitcherRatings{Velocity: 80, Junk: 80, Accuracy: 80}), ShouldEqual, grade.S)
		So(grade.PitcherGrade(grade.PitcherRatings{Velocity: 30, Junk: 30, Accuracy: 30}), ShouldEqual, grade.DPlus)
	})
}

func TestTwoWayPlayerGrade(t *testing.T) {
	Convey("Given a strong hitter who pitches poorly", t, func() {
		b := grade.BatterRatings{Power: 85, Contact: 85, Speed: 85, Fielding: 85, Arm: 85}
		p := grade.PitcherRatings{Velocity: 10, Junk: 10, Accuracy: 10}

		Convey("Then the grade is floored at the better individual grade", func() {
			So(grade.TwoWayPlayerGrade(b, p), ShouldEqual, grade.S)
		})
	})

	Convey("Given two solid halves", t, func() {
		b := grade.BatterRatings{Power: 56, Contact: 56, Speed: 56, Fielding: 56, Arm: 56}
		p := grade.PitcherRatings{Velocity: 56, Junk: 56, Accuracy: 56}

		Convey("Then the premium lifts the combined grade", func() {
			So(grade.PositionPlayerGrade(b), ShouldEqual, grade.B)
			So(grade.TwoWayPlayerGrade(b, p), ShouldEqual, grade.AMinus)
		})
	})

	Convey("Over a grid of tools the two-way grade is never worse than either half", t, func() {
		for bv := 0; bv <= 99; bv += 9 {
			for pv := 0; pv <= 99; pv += 11 {
				b := grade.BatterRatings{Power: bv, Contact: bv, Speed: pv, Fielding: bv, Arm: pv}
				p := grade.PitcherRatings{Velocity: pv, Junk: bv, Accuracy: pv}
				tw := grade.TwoWayPlayerGrade(b, p)
				best := min(grade.PositionPlayerGrade(b), grade.PitcherGrade(p))
				So(tw, ShouldBeLessThanOrEqualTo, best)
			}
		}
	})
}

func TestProspects(t *testing.T) {
	const draws = 20000

	Convey("Given a seeded generator", t, func() {
		gen := grade.NewGenerator(rand.New(rand.NewPCG(7, 11)))

		Convey("Then earlier rounds draw better grades", func() {
			share := func(round int) float64 {
				n := 0
				for i := 0; i < draws; i++ {
					if g := gen.ProspectGrade(round); g == grade.B || g == grade.BMinus {
						n++
					}
				}
				return float64(n) / draws
			}
			first, second, late := share(1), share(2), share(9)
			So(first, ShouldAlmostEqual, 0.60, 0.03)
			So(second, ShouldAlmostEqual, 0.30, 0.03)
			So(late, ShouldAlmostEqual, 0.20, 0.03)
		})

		Convey("Then only draft grades are drawn", func() {
			for i := 0; i < 1000; i++ {
				g := gen.ProspectGrade(1)
				So(g, ShouldBeBetweenOrEqual, grade.B, grade.CMinus)
			}
		})

		Convey("Then ceilings sit at or above the current grade", func() {
			for _, g := range []grade.Grade{grade.B, grade.BMinus, grade.CPlus, grade.C, grade.CMinus} {
				for i := 0; i < 200; i++ {
					So(gen.Ceiling(g), ShouldBeLessThanOrEqualTo, grade.BMinus)
				}
			}
			So(gen.Ceiling(grade.S), ShouldEqual, grade.BMinus)
		})

		Convey("Then position biases shape the tools", func() {
			var catcherArm, centerArm, catcherSpeed, centerSpeed int
			for i := 0; i < 2000; i++ {
				c := gen.ProspectRatings(grade.C, position.Catcher)
				f := gen.ProspectRatings(grade.C, position.Center)
				catcherArm += c.Arm
				centerArm += f.Arm
				catcherSpeed += c.Speed
				centerSpeed += f.Speed
			}
			So(catcherArm, ShouldBeGreaterThan, centerArm)
			So(centerSpeed, ShouldBeGreaterThan, catcherSpeed)
		})

		Convey("Then generated tools stay in bounds", func() {
			for i := 0; i < 1000; i++ {
				r := gen.ProspectRatings(grade.B, position.First)
				for _, v := range []int{r.Power, r.Contact, r.Speed, r.Fielding, r.Arm} {
					So(v, ShouldBeBetweenOrEqual, 15, 85)
				}
				p := gen.PitcherProspectRatings(grade.CMinus, grade.RoleCloser)
				for _, v := range []int{p.Velocity, p.Junk, p.Accuracy} {
					So(v, ShouldBeBetweenOrEqual, 15, 85)
				}
			}
		})

		Convey("Then closers throw harder than they locate", func() {
			var vel, acc int
			for i := 0; i < 2000; i++ {
				p := gen.PitcherProspectRatings(grade.B, grade.RoleCloser)
				vel += p.Velocity
				acc += p.Accuracy
			}
			So(vel, ShouldBeGreaterThan, acc)
		})

		Convey("Then junk buys a deeper arsenal", func() {
			So(gen.Arsenal(20), ShouldHaveLength, 3)
			deep := gen.Arsenal(80)
			So(len(deep), ShouldBeBetweenOrEqual, 5, 6)
			So(deep[0], ShouldEqual, grade.FourSeam)
			So(deep[1], ShouldEqual, grade.TwoSeam)
		})

		Convey("Then a full pitcher prospect carries an arsenal", func() {
			p := gen.Prospect(1, position.Pitcher, grade.RoleStarter)
			So(p.Pitcher, ShouldNotBeNil)
			So(p.Batter, ShouldBeNil)
			So(len(p.Arsenal), ShouldBeGreaterThanOrEqualTo, 3)
			So(p.Ceiling, ShouldBeLessThanOrEqualTo, grade.BMinus)
		})

		Convey("Then a full position prospect carries tools", func() {
			p := gen.Prospect(4, position.Shortstop, "")
			So(p.Batter, ShouldNotBeNil)
			So(p.Pitcher, ShouldBeNil)
			So(p.Arsenal, ShouldBeEmpty)
		})

		Convey("Then traits come from the pool", func() {
			seen := 0
			for i := 0; i < 1000; i++ {
				if tr := gen.Trait(grade.B); tr != "" {
					So(grade.Traits, ShouldContain, tr)
					seen++
				}
			}
			So(float64(seen)/1000, ShouldAlmostEqual, 0.40, 0.06)
		})
	})
}
