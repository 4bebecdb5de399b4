package calibration

import (
	"math"

	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/smoothing"
	"github.com/okian/sabr/internal/domain/war"
)

// Calibration defaults.
const (
	DefaultMinPA        = 10_000
	DefaultHistoryLimit = 20
	// minFIPInnings is the league IP below which the FIP constant is not recomputed.
	minFIPInnings = 100
)

// ShouldCalibrate reports whether seasonID still needs calibrating. It guards
// against calibrating the same season twice when season close is retried.
func ShouldCalibrate(seasonID, lastCalibratedSeasonID string) bool {
	return seasonID != "" && seasonID != lastCalibratedSeasonID
}

// runEnvironment is the season's runs per PA relative to the default environment.
func runEnvironment(agg SeasonAggregate) float64 {
	if agg.PA <= 0 || agg.Runs <= 0 {
		return 1
	}
	return float64(agg.Runs) / float64(agg.PA) / league.DefaultRunsPerPA
}

// RecalibrateLinearWeights scales the default run values by the season's run environment.
func RecalibrateLinearWeights(agg SeasonAggregate) league.Weights {
	scale := runEnvironment(agg)
	out := league.Default().LinearWeights
	for e, v := range out {
		out[e] = v * scale
	}
	return out
}

// RecalibrateWOBAWeights derives wOBA weights from the season's linear weights, rounded to four places.
func RecalibrateWOBAWeights(agg SeasonAggregate, wobaScale float64) league.Weights {
	if wobaScale <= 0 {
		wobaScale = league.DefaultWOBAScale
	}
	out := RecalibrateLinearWeights(agg)
	for e, v := range out {
		out[e] = math.Round(v*wobaScale*10_000) / 10_000
	}
	return out
}

// RecalibrateReplacementLevel scales replacement runs per 600 PA by the run environment.
// The result is never positive.
func RecalibrateReplacementLevel(agg SeasonAggregate) float64 {
	return math.Min(0, league.DefaultReplacementPer600PA*runEnvironment(agg))
}

// Observe computes the context the season alone implies, starting from prev for
// anything a season aggregate cannot measure.
func Observe(agg SeasonAggregate, prev *league.Context) *league.Context {
	if prev == nil {
		prev = league.Default()
	}
	next := prev.Clone()
	next.SeasonID = agg.SeasonID
	next.LinearWeights = RecalibrateLinearWeights(agg)
	next.WOBAWeights = RecalibrateWOBAWeights(agg, prev.WOBAScale)
	next.ReplacementRunsPer600PA = RecalibrateReplacementLevel(agg)
	if agg.PA > 0 {
		next.RunsPerPA = float64(agg.Runs) / float64(agg.PA)
		if woba := war.WOBA(agg.Batting(), next.WOBAWeights); woba > 0 {
			next.LeagueWOBA = woba
		}
	}
	if agg.IP >= minFIPInnings {
		era := float64(agg.EarnedRuns) / agg.IP * 9
		core := float64(13*agg.PitchingHomeRuns+3*(agg.PitchingWalks+agg.PitchingHBP)-2*agg.PitchingStrikeouts) / agg.IP
		next.FIPConstant = era - core
		next.LeagueFIP = era
	}
	next.SampleSize = agg.PA
	next.Confidence = league.ConfidenceForPA(agg.PA)
	return next
}

// CalibrateLeagueContext blends a newly observed context into the previous one.
// weight is the share given to the new observation; 0.7 keeps 30% of the old.
// Fields a season cannot observe, such as positional adjustments, carry over from prev.
func CalibrateLeagueContext(prev, next *league.Context, weight float64) *league.Context {
	if prev == nil {
		return next.Clone()
	}
	out := prev.Clone()
	out.SeasonID = next.SeasonID
	if next.SeasonGames > 0 {
		out.SeasonGames = next.SeasonGames
	}
	out.LeagueWOBA = smoothing.Blend(prev.LeagueWOBA, next.LeagueWOBA, weight)
	out.ReplacementRunsPer600PA = math.Min(0, smoothing.Blend(prev.ReplacementRunsPer600PA, next.ReplacementRunsPer600PA, weight))
	out.RunsPerPA = smoothing.Blend(prev.RunsPerPA, next.RunsPerPA, weight)
	out.LinearWeights = smoothing.BlendMap(prev.LinearWeights, next.LinearWeights, weight)
	out.WOBAWeights = smoothing.BlendMap(prev.WOBAWeights, next.WOBAWeights, weight)
	out.FIPConstant = smoothing.Blend(prev.FIPConstant, next.FIPConstant, weight)
	out.LeagueFIP = smoothing.Blend(prev.LeagueFIP, next.LeagueFIP, weight)
	out.CalibratedAt = next.CalibratedAt
	out.SampleSize = next.SampleSize
	out.Confidence = next.Confidence
	return out
}
