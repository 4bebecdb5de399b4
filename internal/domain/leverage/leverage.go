// Package leverage computes the Leverage Index (LI) of a game situation.
//
// LI = base-out value × inning multiplier × walk-off boost × score dampener,
// clamped to [MinIndex, MaxIndex]. 1.0 is an average plate appearance.
package leverage

import "math"

// Index bounds.
const (
	MinIndex = 0.1
	MaxIndex = 10.0
)

// DefaultInnings is the regulation game length.
const DefaultInnings = 9

// Thresholds above which a situation counts as clutch, high or extreme.
const (
	ClutchThreshold  = 1.5
	HighThreshold    = 2.0
	ExtremeThreshold = 5.0
)

// walkoffBoost applies in the home half of the last regulation inning or later
// when the home side is tied or trailing.
const walkoffBoost = 1.4

// Bases is a bitmask of occupied bases.
type Bases uint8

// Base occupancy bits.
const (
	OnFirst Bases = 1 << iota
	OnSecond
	OnThird
)

// Loaded has every base occupied.
const Loaded = OnFirst | OnSecond | OnThird

// Half is the half of an inning.
type Half string

// Inning halves.
const (
	Top    Half = "top"
	Bottom Half = "bottom"
)

// State is a snapshot of the game at the start of a plate appearance.
type State struct {
	Inning int   `json:"inning"`
	Half   Half  `json:"half"`
	Outs   int   `json:"outs"`
	Bases  Bases `json:"bases"`
	// ScoreDiff is the batting team's score minus the fielding team's.
	ScoreDiff int `json:"score_diff"`
	// TotalInnings defaults to DefaultInnings when zero.
	TotalInnings int `json:"total_innings,omitempty"`
}

// baseOut holds the base-out leverage for every base state (rows, indexed by
// the bitmask) and out count (columns).
var baseOut = [8][3]float64{
	{0.86, 0.90, 0.93}, // empty
	{1.07, 1.10, 1.24}, // first
	{1.15, 1.40, 1.56}, // second
	{1.35, 1.55, 1.93}, // first and second
	{1.08, 1.65, 1.88}, // third
	{1.32, 1.85, 2.25}, // first and third
	{1.45, 2.10, 2.50}, // second and third
	{1.60, 2.25, 2.67}, // loaded
}

// BaseOutValue returns the base-out leverage, normalizing out-of-range input.
func BaseOutValue(bases Bases, outs int) float64 {
	return baseOut[bases&Loaded][clampOuts(outs)]
}

// InningMultiplier scales leverage by how late the game is.
// Progress buckets are closed on the lower edge so a boundary inning takes the
// later, higher-leverage bucket.
func InningMultiplier(inning, totalInnings int) float64 {
	if totalInnings <= 0 {
		totalInnings = DefaultInnings
	}
	if inning < 1 {
		inning = 1
	}
	if inning > totalInnings {
		extra := inning - totalInnings
		return math.Min(2.5, 1.8+0.15*float64(extra))
	}
	progress := float64(inning) / float64(totalInnings)
	switch {
	case progress >= 0.85:
		return 1.8
	case progress >= 0.66:
		return 1.3
	case progress >= 0.33:
		return 1.0
	}
	return 0.75
}

// ScoreDampener shrinks leverage as the margin grows.
func ScoreDampener(scoreDiff, inning int) float64 {
	d := scoreDiff
	if d < 0 {
		d = -d
	}
	switch {
	case d >= 7:
		return 0.10
	case d >= 5:
		return 0.25
	case d == 4:
		return 0.40
	case d == 3:
		return 0.60 + 0.12*float64(min(inning, DefaultInnings))/DefaultInnings
	case d == 2:
		return 0.85
	case d == 1:
		return 0.95
	}
	return 1.0
}

// Index computes the Leverage Index for s.
func Index(s State) float64 {
	total := s.TotalInnings
	if total <= 0 {
		total = DefaultInnings
	}
	li := BaseOutValue(s.Bases, s.Outs) *
		InningMultiplier(s.Inning, total) *
		ScoreDampener(s.ScoreDiff, s.Inning)
	if s.Half == Bottom && s.Inning >= total && s.ScoreDiff <= 0 {
		li *= walkoffBoost
	}
	return Clamp(li)
}

// Clamp bounds li to [MinIndex, MaxIndex].
func Clamp(li float64) float64 {
	return math.Max(MinIndex, math.Min(MaxIndex, li))
}

// Category buckets an LI value.
type Category string

// LI categories.
const (
	CategoryLow     Category = "LOW"
	CategoryMedium  Category = "MEDIUM"
	CategoryHigh    Category = "HIGH"
	CategoryExtreme Category = "EXTREME"
)

// Categorize buckets li; a value on a boundary takes the higher category.
func Categorize(li float64) Category {
	switch {
	case li >= ExtremeThreshold:
		return CategoryExtreme
	case li >= HighThreshold:
		return CategoryHigh
	case li >= 0.85:
		return CategoryMedium
	}
	return CategoryLow
}

// IsClutch reports whether li meets the clutch threshold.
func IsClutch(li float64) bool { return li >= ClutchThreshold }

func clampOuts(outs int) int {
	switch {
	case outs < 0:
		return 0
	case outs > 2:
		return 2
	}
	return outs
}
