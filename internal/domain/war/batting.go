package war

import (
	"math"

	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/park"
)

// standardPA is the plate-appearance volume replacement level is quoted against.
const standardPA = 600

// BattingStats is a batter's counting line for a season.
type BattingStats struct {
	PA               int `json:"pa"`
	AB               int `json:"ab"`
	Hits             int `json:"hits"`
	Singles          int `json:"singles"`
	Doubles          int `json:"doubles"`
	Triples          int `json:"triples"`
	HomeRuns         int `json:"home_runs"`
	Walks            int `json:"walks"`
	IntentionalWalks int `json:"intentional_walks"`
	HitByPitch       int `json:"hit_by_pitch"`
	SacFlies         int `json:"sac_flies"`
	Strikeouts       int `json:"strikeouts"`
	Runs             int `json:"runs"`
	// HomePA is zero when home and road splits are not tracked; half of PA is assumed.
	HomePA int `json:"home_pa,omitempty"`
}

// Add accumulates o into s.
func (s *BattingStats) Add(o BattingStats) {
	s.PA += o.PA
	s.AB += o.AB
	s.Hits += o.Hits
	s.Singles += o.Singles
	s.Doubles += o.Doubles
	s.Triples += o.Triples
	s.HomeRuns += o.HomeRuns
	s.Walks += o.Walks
	s.IntentionalWalks += o.IntentionalWalks
	s.HitByPitch += o.HitByPitch
	s.SacFlies += o.SacFlies
	s.Strikeouts += o.Strikeouts
	s.Runs += o.Runs
	s.HomePA += o.HomePA
}

// BattingInput is a batting line plus the park it was produced in.
// A nil Park skips the park adjustment.
type BattingInput struct {
	Stats BattingStats    `json:"stats"`
	Park  *park.Factors   `json:"park,omitempty"`
	Bats  park.Handedness `json:"bats,omitempty"`
}

// BattingResult breaks bWAR into its components.
type BattingResult struct {
	WOBA                 float64 `json:"woba"`
	WRAA                 float64 `json:"wraa"`
	ParkAdjustment       float64 `json:"park_adjustment"`
	BattingRuns          float64 `json:"batting_runs"`
	ReplacementRuns      float64 `json:"replacement_runs"`
	RunsAboveReplacement float64 `json:"runs_above_replacement"`
	RunsPerWin           float64 `json:"runs_per_win"`
	WAR                  float64 `json:"war"`
	PA                   int     `json:"pa"`
	SeasonGames          int     `json:"season_games"`
	Quality              string  `json:"quality"`
}

// WOBA computes weighted on-base average. Intentional walks are excluded.
func WOBA(s BattingStats, w league.Weights) float64 {
	ubb := s.Walks - s.IntentionalWalks
	denom := s.AB + ubb + s.SacFlies + s.HitByPitch
	if denom <= 0 {
		return 0
	}
	num := w[league.Walk]*float64(ubb) +
		w[league.HitByPitch]*float64(s.HitByPitch) +
		w[league.Single]*float64(s.Singles) +
		w[league.Double]*float64(s.Doubles) +
		w[league.Triple]*float64(s.Triples) +
		w[league.HomeRun]*float64(s.HomeRuns)
	return num / float64(denom)
}

// BattingWAR computes bWAR for a season line.
func BattingWAR(in BattingInput, ctx *league.Context, seasonGames int) BattingResult {
	ctx, seasonGames = resolve(ctx, seasonGames)
	rpw := league.RunsPerWin(seasonGames)
	res := BattingResult{RunsPerWin: rpw, SeasonGames: seasonGames, PA: in.Stats.PA}
	if in.Stats.PA <= 0 {
		res.Quality = WOBAQuality(0)
		return res
	}

	res.WOBA = WOBA(in.Stats, ctx.WOBAWeights)
	res.WRAA = (res.WOBA - ctx.LeagueWOBA) / ctx.WOBAScale * float64(in.Stats.PA)
	res.BattingRuns = res.WRAA

	if in.Park != nil && in.Park.Confidence != league.ConfidenceLow {
		pf := park.EffectiveBattingFactor(*in.Park, in.Bats)
		homePA := in.Stats.PA / 2
		if in.Stats.HomePA > 0 {
			homePA = in.Stats.HomePA
		}
		res.ParkAdjustment = (ctx.RunsPerPA - pf*ctx.RunsPerPA) * float64(homePA)
		res.BattingRuns += res.ParkAdjustment
	}

	res.ReplacementRuns = float64(in.Stats.PA) / standardPA * math.Abs(ctx.ReplacementRunsPer600PA)
	res.RunsAboveReplacement = res.BattingRuns + res.ReplacementRuns
	res.WAR = res.RunsAboveReplacement / rpw
	res.Quality = WOBAQuality(res.WOBA)
	return res
}

// WOBAQuality labels a wOBA.
func WOBAQuality(woba float64) string {
	switch {
	case woba >= 0.400:
		return "Excellent"
	case woba >= 0.370:
		return "Great"
	case woba >= 0.340:
		return "Above Average"
	case woba >= 0.320:
		return "Average"
	case woba >= 0.300:
		return "Below Average"
	case woba >= 0.280:
		return "Poor"
	}
	return "Awful"
}
