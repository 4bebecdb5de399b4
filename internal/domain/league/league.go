// Package league holds the calibration snapshot every value calculator reads.
//
// A Context is treated as immutable once published: calculators receive a
// pointer to a snapshot and never write to it, and calibration produces a
// fresh Context instead of mutating an existing one.
package league

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/sabr/internal/domain/position"
)

// Games in a full major-league schedule; runs-per-win is scaled against it.
const FullSeasonGames = 162

// baseRunsPerWin is the runs-per-win exchange rate for a full season.
const baseRunsPerWin = 10.0

// Default run environment.
const (
	DefaultLeagueWOBA          = 0.329
	DefaultWOBAScale           = 1.7821
	DefaultReplacementPer600PA = -12.0
	DefaultRunsPerGame         = 3.19
	DefaultPAPerGame           = 27.5
	DefaultRunsPerPA           = DefaultRunsPerGame / DefaultPAPerGame
	DefaultFIPConstant         = 3.28
	DefaultLeagueFIP           = 4.04
	DefaultStarterReplacement  = 0.12
	DefaultRelieverReplacement = 0.03
	DefaultSeasonGames         = 50
)

// Event is one of the six offensive outcomes that carry a run value.
type Event string

// Offensive events with a linear weight.
const (
	Walk       Event = "BB"
	HitByPitch Event = "HBP"
	Single     Event = "1B"
	Double     Event = "2B"
	Triple     Event = "3B"
	HomeRun    Event = "HR"
)

// Events lists the closed set of weighted offensive events.
var Events = []Event{Walk, HitByPitch, Single, Double, Triple, HomeRun}

// Weights maps each offensive event to a run (or wOBA) value.
type Weights map[Event]float64

// Validate reports ErrWeightKeys unless w holds exactly the six offensive events.
func (w Weights) Validate() error {
	if len(w) != len(Events) {
		return fmt.Errorf("%w: have %d keys", ErrWeightKeys, len(w))
	}
	for _, e := range Events {
		v, ok := w[e]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrWeightKeys, e)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrWeightKeys, e)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Confidence grades how much data backs a number.
type Confidence string

// Confidence levels, ordered.
const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Context is the league baseline consumed by every WAR engine.
type Context struct {
	SeasonID    string `json:"season_id"`
	SeasonGames int    `json:"season_games"`

	LeagueWOBA              float64 `json:"league_woba"`
	WOBAScale               float64 `json:"woba_scale"`
	ReplacementRunsPer600PA float64 `json:"replacement_runs_per_600pa"`
	RunsPerPA               float64 `json:"runs_per_pa"`
	LinearWeights           Weights `json:"linear_weights"`
	WOBAWeights             Weights `json:"woba_weights"`

	FIPConstant         float64 `json:"fip_constant"`
	LeagueFIP           float64 `json:"league_fip"`
	StarterReplacement  float64 `json:"starter_replacement"`
	RelieverReplacement float64 `json:"reliever_replacement"`

	// PositionalAdjustments are runs per full season relative to an average fielder.
	PositionalAdjustments map[position.Position]float64 `json:"positional_adjustments"`

	CalibratedAt time.Time  `json:"calibrated_at"`
	SampleSize   int        `json:"sample_size"`
	Confidence   Confidence `json:"confidence"`
}

// Default returns the hardcoded baseline used before any season is calibrated.
func Default() *Context {
	return &Context{
		SeasonGames:             DefaultSeasonGames,
		LeagueWOBA:              DefaultLeagueWOBA,
		WOBAScale:               DefaultWOBAScale,
		ReplacementRunsPer600PA: DefaultReplacementPer600PA,
		RunsPerPA:               DefaultRunsPerPA,
		LinearWeights: Weights{
			Walk:       0.2925,
			HitByPitch: 0.3175,
			Single:     0.4475,
			Double:     0.7475,
			Triple:     1.0175,
			HomeRun:    1.40,
		},
		WOBAWeights: Weights{
			Walk:       0.521,
			HitByPitch: 0.566,
			Single:     0.797,
			Double:     1.332,
			Triple:     1.813,
			HomeRun:    2.495,
		},
		FIPConstant:           DefaultFIPConstant,
		LeagueFIP:             DefaultLeagueFIP,
		StarterReplacement:    DefaultStarterReplacement,
		RelieverReplacement:   DefaultRelieverReplacement,
		PositionalAdjustments: DefaultPositionalAdjustments(),
		Confidence:            ConfidenceLow,
	}
}

// DefaultPositionalAdjustments returns runs per 162 games by position.
func DefaultPositionalAdjustments() map[position.Position]float64 {
	return map[position.Position]float64{
		position.Catcher:    12.5,
		position.Shortstop:  7.5,
		position.Center:     2.5,
		position.Second:     2.5,
		position.Third:      2.5,
		position.Right:      -7.5,
		position.Left:       -7.5,
		position.First:      -12.5,
		position.Designated: -17.5,
		position.Pitcher:    0,
	}
}

// RunsPerWin scales the full-season exchange rate to the schedule length:
// 10 × seasonGames/162. Non-positive schedules fall back to the full season.
func RunsPerWin(seasonGames int) float64 {
	if seasonGames <= 0 {
		seasonGames = FullSeasonGames
	}
	return baseRunsPerWin * float64(seasonGames) / FullSeasonGames
}

// Validate checks the invariants every published snapshot must satisfy.
func (c *Context) Validate() error {
	if c == nil {
		return ErrNilContext
	}
	if err := c.LinearWeights.Validate(); err != nil {
		return fmt.Errorf("linear weights: %w", err)
	}
	if err := c.WOBAWeights.Validate(); err != nil {
		return fmt.Errorf("woba weights: %w", err)
	}
	if c.ReplacementRunsPer600PA > 0 {
		return ErrPositiveReplacement
	}
	if c.WOBAScale <= 0 {
		return ErrInvalidScale
	}
	for _, p := range position.All {
		if _, ok := c.PositionalAdjustments[p]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingPosition, p)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can build a successor snapshot.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	out := *c
	out.LinearWeights = c.LinearWeights.Clone()
	out.WOBAWeights = c.WOBAWeights.Clone()
	out.PositionalAdjustments = make(map[position.Position]float64, len(c.PositionalAdjustments))
	for k, v := range c.PositionalAdjustments {
		out.PositionalAdjustments[k] = v
	}
	return &out
}

// ConfidenceForPA grades a league sample by plate appearances.
func ConfidenceForPA(pa int) Confidence {
	switch {
	case pa >= 20_000:
		return ConfidenceHigh
	case pa >= 10_000:
		return ConfidenceMedium
	}
	return ConfidenceLow
}
