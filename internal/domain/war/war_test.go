package war_test

import (
	"math"
	"testing"

	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/leverage"
	"github.com/okian/sabr/internal/domain/park"
	"github.com/okian/sabr/internal/domain/position"
	"github.com/okian/sabr/internal/domain/war"
	. "github.com/smartystreets/goconvey/convey"
)

func solidLine() war.BattingStats {
	return war.BattingStats{
		PA:               600,
		AB:               530,
		Singles:          90,
		Doubles:          30,
		Triples:          3,
		HomeRuns:         20,
		Walks:            55,
		IntentionalWalks: 5,
		HitByPitch:       10,
		SacFlies:         5,
	}
}

func TestRunsPerWinIsSharedByEveryEngine(t *testing.T) {
	Convey("Given a 48 game season", t, func() {
		ctx := league.Default()
		want := league.RunsPerWin(48)

		Convey("Then every engine converts runs at the same rate", func() {
			So(want, ShouldAlmostEqual, 2.96, 0.01)
			So(war.BattingWAR(war.BattingInput{Stats: solidLine()}, ctx, 48).RunsPerWin, ShouldEqual, want)
			So(war.PitchingWAR(war.PitchingStats{IP: 50}, ctx, 48).RunsPerWin, ShouldEqual, want)
			So(war.FieldingWAR(war.FieldingInput{}, ctx, 48).RunsPerWin, ShouldEqual, want)
			So(war.ManagerWAR(war.ManagerInput{}, ctx, 48).RunsPerWin, ShouldEqual, want)
		})
	})

	Convey("Given a full season", t, func() {
		So(league.RunsPerWin(162), ShouldEqual, 10.0)
	})
}

func TestZeroVolume(t *testing.T) {
	Convey("Given players with no volume", t, func() {
		ctx := league.Default()

		Convey("Then every engine returns exactly zero WAR", func() {
			So(war.BattingWAR(war.BattingInput{}, ctx, 50).WAR, ShouldEqual, 0)
			So(war.PitchingWAR(war.PitchingStats{GamesAppeared: 3}, ctx, 50).WAR, ShouldEqual, 0)
			So(war.FieldingWAR(war.FieldingInput{Position: position.Catcher, GamesPlayed: 10}, ctx, 50).WAR, ShouldEqual, 0)
			So(war.ManagerWAR(war.ManagerInput{}, ctx, 50).WAR, ShouldEqual, 0)
		})
	})
}

func TestBattingWAR(t *testing.T) {
	Convey("Given a hitter whose wOBA equals the league's", t, func() {
		ctx := league.Default()
		line := solidLine()
		ctx.LeagueWOBA = war.WOBA(line, ctx.WOBAWeights)

		res := war.BattingWAR(war.BattingInput{Stats: line}, ctx, 162)

		Convey("Then the hitter is average and worth only the replacement gap", func() {
			So(res.WRAA, ShouldAlmostEqual, 0, 1e-9)
			So(res.ReplacementRuns, ShouldAlmostEqual, 12, 1e-9)
			So(res.WAR, ShouldAlmostEqual, -ctx.ReplacementRunsPer600PA/10, 1e-9)
		})
	})

	Convey("Given the same hitter in a shorter season", t, func() {
		ctx := league.Default()
		full := war.BattingWAR(war.BattingInput{Stats: solidLine()}, ctx, 162)
		short := war.BattingWAR(war.BattingInput{Stats: solidLine()}, ctx, 50)

		Convey("Then the same runs are worth more wins", func() {
			So(short.RunsAboveReplacement, ShouldAlmostEqual, full.RunsAboveReplacement, 1e-9)
			So(short.WAR, ShouldBeGreaterThan, full.WAR)
		})
	})

	Convey("Given a hitter who never reaches base", t, func() {
		res := war.BattingWAR(war.BattingInput{Stats: war.BattingStats{PA: 300, AB: 300}}, league.Default(), 50)

		Convey("Then negative WAR is reported unclamped", func() {
			So(res.WOBA, ShouldEqual, 0)
			So(res.WAR, ShouldBeLessThan, 0)
			So(res.Quality, ShouldEqual, "Awful")
		})
	})

	Convey("Given a hitter in a launching pad", t, func() {
		ctx := league.Default()
		hitter := park.DeriveFromStadium("Sakura Hills")
		So(hitter.Confidence, ShouldNotEqual, league.ConfidenceLow)

		neutral := war.BattingWAR(war.BattingInput{Stats: solidLine()}, ctx, 50)
		adjusted := war.BattingWAR(war.BattingInput{Stats: solidLine(), Park: &hitter, Bats: park.BatsRight}, ctx, 50)

		Convey("Then the park adjustment takes runs away", func() {
			So(adjusted.ParkAdjustment, ShouldBeLessThan, 0)
			So(adjusted.WAR, ShouldBeLessThan, neutral.WAR)
		})

		Convey("Then tracked home PA replace the half-season assumption", func() {
			line := solidLine()
			line.HomePA = 150
			partial := war.BattingWAR(war.BattingInput{Stats: line, Park: &hitter, Bats: park.BatsRight}, ctx, 50)
			So(partial.ParkAdjustment, ShouldAlmostEqual, adjusted.ParkAdjustment/2, 1e-9)
		})
	})

	Convey("Given park factors with low confidence", t, func() {
		pf := park.Neutral()
		pf.Runs = 1.3
		res := war.BattingWAR(war.BattingInput{Stats: solidLine(), Park: &pf}, league.Default(), 50)

		Convey("Then no park adjustment is made", func() {
			So(res.ParkAdjustment, ShouldEqual, 0)
		})
	})
}

func TestPitchingWAR(t *testing.T) {
	Convey("Given a workhorse starter", t, func() {
		s := war.PitchingStats{
			IP:           180, Strikeouts: 180, Walks: 50, HitByPitch: 5, HomeRunsAllowed: 20,
			GamesStarted: 30, GamesAppeared: 30,
		}
		res := war.PitchingWAR(s, league.Default(), 162)

		Convey("Then FIP and WAR follow the run environment", func() {
			So(res.Role, ShouldEqual, war.RoleStarter)
			So(res.FIP, ShouldAlmostEqual, 65.0/180+3.28, 1e-9)
			So(res.LeverageMultiplier, ShouldEqual, 1)
			want := (4.04-res.FIP)*20/10 + 0.12*20
			So(res.WAR, ShouldAlmostEqual, want, 1e-9)
			So(war.FIPTier(res.FIP), ShouldEqual, "Above Average")
		})
	})

	Convey("Given a closer", t, func() {
		s := war.PitchingStats{IP: 60, Strikeouts: 70, Walks: 15, HomeRunsAllowed: 4, GamesAppeared: 60, Saves: 40}

		Convey("When entry leverage is not tracked", func() {
			res := war.PitchingWAR(s, league.Default(), 162)

			Convey("Then it is estimated from the closer role the save rate implies", func() {
				So(res.Role, ShouldEqual, war.RoleReliever)
				So(war.EstimateLeverage(s), ShouldEqual, 1.95)
				So(res.LeverageMultiplier, ShouldAlmostEqual, 1.475, 1e-9)
				So(res.FIPTier, ShouldEqual, war.FIPTier(res.FIP))
			})
		})

		Convey("When entry leverage is tracked", func() {
			s.AverageLI = 2.0
			res := war.PitchingWAR(s, league.Default(), 162)

			Convey("Then the tracked value is used", func() {
				So(res.LeverageMultiplier, ShouldAlmostEqual, 1.5, 1e-9)
			})
		})
	})

	Convey("Given a reliever whose early outings carry no leverage", t, func() {
		var s war.PitchingStats
		s.Add(war.PitchingStats{IP: 10, GamesAppeared: 10, Saves: 8})

		Convey("When one outing with a tracked leverage is merged", func() {
			s.Add(war.PitchingStats{IP: 1, GamesAppeared: 1, Saves: 1, AverageLI: 2.0})

			Convey("Then the average covers only the tracked outing", func() {
				So(s.AverageLI, ShouldAlmostEqual, 2.0, 1e-9)
				So(s.GamesAppeared, ShouldEqual, 11)
				res := war.PitchingWAR(s, league.Default(), 162)
				So(res.LeverageMultiplier, ShouldAlmostEqual, 1.5, 1e-9)
			})

			Convey("Then later untracked outings leave it alone", func() {
				s.Add(war.PitchingStats{IP: 1, GamesAppeared: 1})
				So(s.AverageLI, ShouldAlmostEqual, 2.0, 1e-9)
			})

			Convey("Then further tracked outings are weighted by appearances", func() {
				s.Add(war.PitchingStats{IP: 3, GamesAppeared: 3, AverageLI: 1.0})
				So(s.AverageLI, ShouldAlmostEqual, 1.25, 1e-9)
			})
		})

		Convey("When nothing is tracked", func() {
			s.Add(war.PitchingStats{IP: 1, GamesAppeared: 1})

			Convey("Then the save rate estimate applies", func() {
				So(s.AverageLI, ShouldEqual, 0)
				res := war.PitchingWAR(s, league.Default(), 162)
				So(res.LeverageMultiplier, ShouldAlmostEqual, (war.EstimateLeverage(s)+1)/2, 1e-9)
			})
		})
	})

	Convey("Given a swingman", t, func() {
		role, share := war.Role(10, 20)
		So(role, ShouldEqual, war.RoleSwingman)
		So(share, ShouldEqual, 0.5)
		So(war.ReplacementLevel(league.Default(), share), ShouldAlmostEqual, 0.075, 1e-9)
	})
}

func TestFieldingEventValue(t *testing.T) {
	chance := func(pt war.PlayType, d war.Difficulty, made bool) war.FieldingEvent {
		return war.FieldingEvent{
			ID:         "e",
			Position:   position.Shortstop,
			PlayType:   pt,
			Difficulty: d,
			Success:    made,
		}
	}

	Convey("Given putouts of different difficulty", t, func() {
		routine, err := chance(war.PlayPutout, war.DifficultyRoutine, true).Value()
		So(err, ShouldBeNil)
		spectacular, err := chance(war.PlayPutout, war.DifficultySpectacular, true).Value()
		So(err, ShouldBeNil)

		Convey("Then the spectacular play is worth strictly more", func() {
			So(routine, ShouldBeGreaterThan, 0)
			So(spectacular, ShouldBeGreaterThan, routine)
		})
	})

	Convey("Given errors of different difficulty", t, func() {
		routine, err := chance(war.PlayError, war.DifficultyRoutine, false).Value()
		So(err, ShouldBeNil)
		coinFlip, err := chance(war.PlayError, war.DifficultyFiftyFifty, false).Value()
		So(err, ShouldBeNil)

		Convey("Then the routine miss costs strictly more", func() {
			So(routine, ShouldBeLessThan, coinFlip)
			So(coinFlip, ShouldBeLessThan, 0)
		})

		Convey("Then an error that let a run score costs more", func() {
			e := chance(war.PlayError, war.DifficultyRoutine, false)
			e.RunsPrevented = -1
			scored, err := e.Value()
			So(err, ShouldBeNil)
			So(scored, ShouldAlmostEqual, routine*1.5, 1e-9)
		})
	})

	Convey("Given a fielder converting exactly at league rates", t, func() {
		var events []war.FieldingEvent
		for i := 0; i < 100; i++ {
			events = append(events, chance(war.PlayPutout, war.DifficultyRoutine, i < 97))
		}
		for i := 0; i < 4; i++ {
			events = append(events, chance(war.PlayAssist, war.DifficultyFiftyFifty, i < 2))
		}
		res := war.FieldingWAR(war.FieldingInput{Position: position.Shortstop, Events: events}, league.Default(), 50)

		Convey("Then play runs sum to zero", func() {
			So(res.PlayRuns, ShouldAlmostEqual, 0, 1e-9)
			So(res.Chances, ShouldEqual, 104)
		})
	})

	Convey("Given tags outside the closed sets", t, func() {
		So(chance("bobble", war.DifficultyRoutine, true).Validate(), ShouldWrap, war.ErrInvalidPlayType)
		So(chance(war.PlayPutout, "impossible", true).Validate(), ShouldWrap, war.ErrInvalidDifficulty)
		e := chance(war.PlayPutout, war.DifficultyRoutine, true)
		e.Position = position.Designated
		So(e.Validate(), ShouldWrap, war.ErrInvalidPosition)

		_, err := war.ParseDifficulty("50-50")
		So(err, ShouldBeNil)
		_, err = war.ParsePlayType("double_play_pivot")
		So(err, ShouldBeNil)
		_, err = war.ParsePlayType("starPlay")
		So(err, ShouldWrap, war.ErrInvalidPlayType)
	})
}

func TestFieldingWAR(t *testing.T) {
	Convey("Given a catcher's season with one corrupt event", t, func() {
		events := []war.FieldingEvent{
			{ID: "1", Position: position.Catcher, PlayType: war.PlayPutout, Difficulty: war.DifficultyUnlikely, Success: true},
			{ID: "2", Position: position.Catcher, PlayType: war.PlayError, Difficulty: war.DifficultyLikely},
			{ID: "3", Position: position.Catcher, PlayType: war.PlayAssist, Difficulty: "heroic", Success: true},
			{ID: "4", Position: position.Catcher, PlayType: war.PlayOutfieldAssist, Difficulty: war.DifficultyRoutine, RunsPrevented: 0.5, Success: true},
		}
		res := war.FieldingWAR(war.FieldingInput{Position: position.Catcher, GamesPlayed: 81, Events: events}, league.Default(), 162)

		Convey("Then the corrupt event is skipped and counted", func() {
			So(res.Rejected, ShouldEqual, 1)
			So(res.Chances, ShouldEqual, 3)
			So(res.Errors, ShouldEqual, 1)
		})

		Convey("Then runs prevented add directly", func() {
			So(res.RunsPrevented, ShouldEqual, 0.5)
		})

		Convey("Then the positional adjustment is scaled to games played", func() {
			So(res.PositionalAdjustment, ShouldAlmostEqual, 12.5/2, 1e-9)
			So(res.WAR, ShouldAlmostEqual, res.TotalRuns/10, 1e-9)
			So(res.TotalRuns, ShouldAlmostEqual, res.PlayRuns+0.5+6.25, 1e-9)
		})
	})

	Convey("Given only corrupt events", t, func() {
		events := []war.FieldingEvent{{ID: "x", Position: position.Left, PlayType: "dive", Difficulty: war.DifficultyRoutine}}
		res := war.FieldingWAR(war.FieldingInput{Position: position.Left, GamesPlayed: 40, Events: events}, league.Default(), 50)

		Convey("Then there is no volume and WAR is zero", func() {
			So(res.Rejected, ShouldEqual, 1)
			So(res.WAR, ShouldEqual, 0)
			So(res.PositionalAdjustment, ShouldEqual, 0)
		})
	})
}

func TestManagerWAR(t *testing.T) {
	Convey("Given a manager's season", t, func() {
		in := war.ManagerInput{
			Decisions: []war.Decision{
				{ID: "a", Type: war.DecisionSqueeze, Outcome: war.OutcomeSuccess, LI: 2.0},
				{ID: "b", Type: war.DecisionSteal, Outcome: war.OutcomeFailure, LI: 1.0},
				{ID: "c", Type: war.DecisionPinchHitter, Outcome: war.OutcomeNeutral, LI: 3.0},
				{ID: "d", Type: "challenge", Outcome: war.OutcomeSuccess, LI: 1.0},
			},
			Wins:        30,
			Losses:      20,
			SalaryScore: 0.5,
		}
		res := war.ManagerWAR(in, league.Default(), 50)

		Convey("Then decision impact is value times LI", func() {
			So(res.DecisionRuns, ShouldAlmostEqual, 0.6*2.0-0.4, 1e-9)
			So(res.Decisions, ShouldEqual, 3)
			So(res.Rejected, ShouldEqual, 1)
			So(res.HighLeverage, ShouldEqual, 2)
			So(res.SuccessRate(), ShouldEqual, 0.5)
		})

		Convey("Then the record is judged against payroll", func() {
			So(res.ExpectedWinPct, ShouldAlmostEqual, 0.5, 1e-9)
			So(res.OverperformanceWins, ShouldAlmostEqual, 5, 1e-9)
			So(res.OverperformanceWAR, ShouldAlmostEqual, 1.5, 1e-9)
		})

		Convey("Then mWAR blends the two 60/40", func() {
			want := 0.8/league.RunsPerWin(50)*0.6 + 1.5*0.4
			So(res.WAR, ShouldAlmostEqual, want, 1e-9)
			So(res.Rating, ShouldEqual, "Average")
		})
	})

	Convey("Given a decision with an out-of-range LI override", t, func() {
		d := war.Decision{Type: war.DecisionSteal, Outcome: war.OutcomeSuccess, LI: 1e300}

		Convey("Then the override is held to the index bounds", func() {
			So(d.Leverage(), ShouldEqual, leverage.MaxIndex)
			res := war.ManagerWAR(war.ManagerInput{Decisions: []war.Decision{d}}, league.Default(), 162)
			So(res.HighLeverage, ShouldEqual, 1)
			So(math.IsInf(res.DecisionRuns, 0), ShouldBeFalse)
			So(res.DecisionRuns, ShouldBeLessThan, 10)
		})
	})

	Convey("Given decisions with an invalid outcome", t, func() {
		d := war.Decision{Type: war.DecisionBunt, Outcome: "maybe"}
		_, err := d.Impact()
		So(err, ShouldWrap, war.ErrInvalidOutcome)
	})
}
