package grade

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/sabr/internal/domain/position"
)

// ErrInvalidTable is returned by ValidateTables when a constant table is incomplete or unordered.
var ErrInvalidTable = errors.New("invalid grade table")

// Threshold is the minimum weighted rating for a grade.
type Threshold struct {
	Grade Grade
	Min   float64
}

// PositionPlayerThresholds are empirical; they are not evenly spaced.
var PositionPlayerThresholds = []Threshold{
	{S, 80}, {APlus, 78}, {A, 73}, {AMinus, 66}, {BPlus, 58}, {B, 55},
	{BMinus, 48}, {CPlus, 45}, {C, 38}, {CMinus, 35}, {DPlus, 30}, {D, 0},
}

// PitcherThresholds share the position-player scale.
var PitcherThresholds = PositionPlayerThresholds

// Bias shifts a prospect's tools by position.
type Bias struct {
	Power    int
	Contact  int
	Speed    int
	Fielding int
	Arm      int
}

// PositionBiases holds the stat bias of every fielding position.
var PositionBiases = map[position.Position]Bias{
	position.Catcher:   {Speed: -10, Fielding: 10, Arm: 10},
	position.First:     {Power: 15, Speed: -10, Fielding: -5},
	position.Second:    {Power: -10, Contact: 5, Speed: 5},
	position.Shortstop: {Power: -10, Speed: 5, Fielding: 10, Arm: 5},
	position.Third:     {Power: 10, Speed: -10, Arm: 5},
	position.Left:      {Power: 10, Fielding: -5, Arm: -5},
	position.Center:    {Power: -10, Speed: 15, Fielding: 5},
	position.Right:     {Power: 5, Speed: -5, Arm: 10},
}

type weighted[T any] struct {
	value T
	p     float64
}

type span struct{ min, max float64 }

// draftTargets are the weighted-rating bands a drafted grade is generated within.
var draftTargets = map[Grade]span{
	B:      {55, 62},
	BMinus: {48, 54},
	CPlus:  {45, 47},
	C:      {38, 44},
	CMinus: {35, 37},
}

var (
	firstRound = []weighted[Grade]{{B, 0.25}, {BMinus, 0.35}, {CPlus, 0.25}, {C, 0.10}, {CMinus, 0.05}}
	earlyRound = []weighted[Grade]{{B, 0.10}, {BMinus, 0.20}, {CPlus, 0.35}, {C, 0.25}, {CMinus, 0.10}}
	lateRound  = []weighted[Grade]{{B, 0.05}, {BMinus, 0.15}, {CPlus, 0.30}, {C, 0.30}, {CMinus, 0.20}}
)

var ceilings = map[Grade][]weighted[Grade]{
	B:      {{A, 0.20}, {AMinus, 0.40}, {BPlus, 0.30}, {B, 0.10}},
	BMinus: {{A, 0.05}, {AMinus, 0.25}, {BPlus, 0.40}, {B, 0.30}},
	CPlus:  {{AMinus, 0.05}, {BPlus, 0.25}, {B, 0.45}, {BMinus, 0.25}},
	C:      {{BPlus, 0.10}, {B, 0.30}, {BMinus, 0.60}},
	CMinus: {{B, 0.15}, {BMinus, 0.85}},
}

// Traits is the pool a prospect's trait is drawn from.
var Traits = []string{
	"Fastball Hitter", "Off-Speed Hitter", "Mind Gamer", "Tough Out",
	"First Pitch Slayer", "Consistent", "Clutch", "Sprinter",
	"RBI Hero", "Durable", "Sign Stealer", "Pinch Perfect",
}

var traitOdds = map[Grade]float64{B: 0.40, BMinus: 0.30}

const defaultTraitOdds = 0.20

// ValidateTables checks the constant tables once at startup: thresholds sorted
// descending down to zero with every grade present, a bias for every fielder,
// and every distribution summing to one.
func ValidateTables() error {
	for name, table := range map[string][]Threshold{
		"position player": PositionPlayerThresholds,
		"pitcher":         PitcherThresholds,
	} {
		if err := validateThresholds(table); err != nil {
			return fmt.Errorf("%s thresholds: %w", name, err)
		}
	}
	for _, p := range position.Fielders {
		if _, ok := PositionBiases[p]; !ok {
			return fmt.Errorf("%w: no bias for %s", ErrInvalidTable, p)
		}
	}
	for i, dist := range [][]weighted[Grade]{firstRound, earlyRound, lateRound} {
		if err := validateDistribution(dist); err != nil {
			return fmt.Errorf("round table %d: %w", i, err)
		}
		for _, w := range dist {
			if _, ok := draftTargets[w.value]; !ok {
				return fmt.Errorf("%w: no draft target for %s", ErrInvalidTable, w.value)
			}
			if _, ok := ceilings[w.value]; !ok {
				return fmt.Errorf("%w: no ceiling for %s", ErrInvalidTable, w.value)
			}
		}
	}
	for g, dist := range ceilings {
		if err := validateDistribution(dist); err != nil {
			return fmt.Errorf("ceiling %s: %w", g, err)
		}
	}
	return nil
}

func validateThresholds(table []Threshold) error {
	if len(table) != len(All) {
		return fmt.Errorf("%w: have %d grades, want %d", ErrInvalidTable, len(table), len(All))
	}
	for i, t := range table {
		if t.Grade != All[i] {
			return fmt.Errorf("%w: position %d holds %s", ErrInvalidTable, i, t.Grade)
		}
		if i > 0 && t.Min >= table[i-1].Min {
			return fmt.Errorf("%w: %s is not below %s", ErrInvalidTable, t.Grade, table[i-1].Grade)
		}
	}
	if table[len(table)-1].Min != 0 {
		return fmt.Errorf("%w: lowest grade must start at 0", ErrInvalidTable)
	}
	return nil
}

func validateDistribution[T any](dist []weighted[T]) error {
	var sum float64
	for _, w := range dist {
		sum += w.p
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: probabilities sum to %v", ErrInvalidTable, sum)
	}
	return nil
}
