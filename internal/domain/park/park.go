// Package park derives per-stadium scoring multipliers from fence geometry.
package park

import (
	"math"
	"strings"

	"github.com/okian/sabr/internal/domain/league"
)

// Bounds for every derived factor.
const (
	MinFactor = 0.70
	MaxFactor = 1.30
)

// League-average fence distances in feet.
const (
	AverageLeftField   = 330.0
	AverageCenterField = 400.0
	AverageRightField  = 330.0
)

// Games hosted before the derived factors are trusted.
const (
	highConfidenceGames   = 81
	mediumConfidenceGames = 30
)

// WallHeight is the height class of an outfield wall.
type WallHeight string

// Wall height classes.
const (
	WallLow    WallHeight = "low"
	WallMedium WallHeight = "medium"
	WallHigh   WallHeight = "high"
)

// adjustment is the home-run factor contribution of a single wall.
func (w WallHeight) adjustment() (float64, bool) {
	switch w {
	case WallLow:
		return 0.03, true
	case WallMedium:
		return 0, true
	case WallHigh:
		return -0.03, true
	}
	return 0, false
}

// Stadium is the static geometry of a ballpark.
type Stadium struct {
	Name   string
	Left   float64
	Center float64
	Right  float64
	// Walls are ordered left, center, right.
	Walls [3]WallHeight
	// Games is how many games the park has hosted in the reference data.
	Games int
}

// Factors is the multiplier bundle for one park. 1.0 is neutral.
type Factors struct {
	Overall        float64           `json:"overall"`
	Runs           float64           `json:"runs"`
	HomeRuns       float64           `json:"home_runs"`
	LeftHandedHR   float64           `json:"left_handed_hr"`
	RightHandedHR  float64           `json:"right_handed_hr"`
	LeftHandedAVG  float64           `json:"left_handed_avg"`
	RightHandedAVG float64           `json:"right_handed_avg"`
	Confidence     league.Confidence `json:"confidence"`
}

// Neutral returns the factors used when a stadium is unknown.
func Neutral() Factors {
	return Factors{
		Overall:        1,
		Runs:           1,
		HomeRuns:       1,
		LeftHandedHR:   1,
		RightHandedHR:  1,
		LeftHandedAVG:  1,
		RightHandedAVG: 1,
		Confidence:     league.ConfidenceLow,
	}
}

// ClampFactor bounds x to [MinFactor, MaxFactor]. NaN maps to neutral.
func ClampFactor(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 1
	case x < MinFactor:
		return MinFactor
	case x > MaxFactor:
		return MaxFactor
	}
	return x
}

// Deriver resolves stadium names against a reference table.
type Deriver struct {
	stadiums map[string]Stadium
}

// NewDeriver builds a deriver over the default stadium table unless overridden.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{}
	for _, opt := range opts {
		opt(d)
	}
	if d.stadiums == nil {
		d.stadiums = index(DefaultStadiums)
	}
	return d
}

var defaultDeriver = NewDeriver()

// DeriveFromStadium derives factors for name using the default stadium table.
func DeriveFromStadium(name string) Factors {
	return defaultDeriver.Derive(name)
}

// Lookup finds a stadium by case-insensitive exact name.
func (d *Deriver) Lookup(name string) (Stadium, bool) {
	s, ok := d.stadiums[key(name)]
	return s, ok
}

// Derive returns the factors for name, or Neutral when the stadium is unknown.
func (d *Deriver) Derive(name string) Factors {
	s, ok := d.Lookup(name)
	if !ok {
		return Neutral()
	}
	return FromStadium(s)
}

// FromStadium converts geometry into factors.
// Shorter fences raise the home-run factor; wall heights nudge it by ±0.03 each.
// Handedness splits reuse the aggregate factor and batting-average factors stay neutral.
func FromStadium(s Stadium) Factors {
	if s.Left <= 0 || s.Center <= 0 || s.Right <= 0 {
		return Neutral()
	}
	ratio := (AverageLeftField/s.Left + AverageCenterField/s.Center + AverageRightField/s.Right) / 3

	var wall float64
	for _, w := range s.Walls {
		adj, _ := w.adjustment()
		wall += adj
	}
	wall /= float64(len(s.Walls))

	hr := ClampFactor(ratio + wall)
	return Factors{
		Overall:        hr,
		Runs:           hr,
		HomeRuns:       hr,
		LeftHandedHR:   hr,
		RightHandedHR:  hr,
		LeftHandedAVG:  1,
		RightHandedAVG: 1,
		Confidence:     confidenceForGames(s.Games),
	}
}

// Handedness is the side a batter hits from.
type Handedness string

// Batting sides.
const (
	BatsLeft   Handedness = "L"
	BatsRight  Handedness = "R"
	BatsSwitch Handedness = "S"
)

// EffectiveBattingFactor blends the handed split with the run factor (60/40).
// Switch hitters use the mean of both sides; an unknown side uses the run factor.
func EffectiveBattingFactor(f Factors, bats Handedness) float64 {
	left := (f.LeftHandedHR + f.LeftHandedAVG) / 2
	right := (f.RightHandedHR + f.RightHandedAVG) / 2
	var handed float64
	switch bats {
	case BatsLeft:
		handed = left
	case BatsRight:
		handed = right
	case BatsSwitch:
		return ClampFactor((left + right) / 2)
	default:
		return ClampFactor(f.Runs)
	}
	return ClampFactor(0.6*handed + 0.4*f.Runs)
}

func confidenceForGames(games int) league.Confidence {
	switch {
	case games >= highConfidenceGames:
		return league.ConfidenceHigh
	case games >= mediumConfidenceGames:
		return league.ConfidenceMedium
	}
	return league.ConfidenceLow
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func index(stadiums []Stadium) map[string]Stadium {
	out := make(map[string]Stadium, len(stadiums))
	for _, s := range stadiums {
		out[key(s.Name)] = s
	}
	return out
}
