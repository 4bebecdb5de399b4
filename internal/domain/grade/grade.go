// Package grade maps 0–99 tool ratings to letter grades and generates draft prospects.
package grade

import (
	"errors"
	"fmt"
)

// ErrUnknownGrade is returned when a grade label is not part of the scale.
var ErrUnknownGrade = errors.New("unknown grade")

// Grade is an ordered letter grade. Lower values are better; S is the best.
type Grade uint8

// Grades from best to worst.
const (
	S Grade = iota
	APlus
	A
	AMinus
	BPlus
	B
	BMinus
	CPlus
	C
	CMinus
	DPlus
	D
)

// All lists every grade, best first.
var All = []Grade{S, APlus, A, AMinus, BPlus, B, BMinus, CPlus, C, CMinus, DPlus, D}

var labels = [...]string{"S", "A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D"}

func (g Grade) String() string {
	if int(g) < len(labels) {
		return labels[g]
	}
	return fmt.Sprintf("Grade(%d)", uint8(g))
}

// Parse resolves a grade label such as "B+".
func Parse(s string) (Grade, error) {
	for i, l := range labels {
		if l == s {
			return Grade(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGrade, s)
}

// Better reports whether g ranks strictly above o.
func (g Grade) Better(o Grade) bool { return g < o }

// MarshalText encodes the grade as its label.
func (g Grade) MarshalText() ([]byte, error) {
	if int(g) >= len(labels) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGrade, uint8(g))
	}
	return []byte(labels[g]), nil
}

// UnmarshalText decodes a grade label.
func (g *Grade) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// BatterRatings are a position player's five tools, each 0–99.
type BatterRatings struct {
	Power    int `json:"power"`
	Contact  int `json:"contact"`
	Speed    int `json:"speed"`
	Fielding int `json:"fielding"`
	Arm      int `json:"arm"`
}

// Weighted combines the tools 3:3:2:1:1.
func (r BatterRatings) Weighted() float64 {
	return float64(r.Power)*batterWeights.power +
		float64(r.Contact)*batterWeights.contact +
		float64(r.Speed)*batterWeights.speed +
		float64(r.Fielding)*batterWeights.fielding +
		float64(r.Arm)*batterWeights.arm
}

// PitcherRatings are a pitcher's three tools, each 0–99.
type PitcherRatings struct {
	Velocity int `json:"velocity"`
	Junk     int `json:"junk"`
	Accuracy int `json:"accuracy"`
}

// Weighted averages the three tools.
func (r PitcherRatings) Weighted() float64 {
	return float64(r.Velocity+r.Junk+r.Accuracy) / 3
}

var batterWeights = struct {
	power, contact, speed, fielding, arm float64
}{0.30, 0.30, 0.20, 0.10, 0.10}

// twoWayPremium is applied to the summed weighted ratings of a two-way player.
const twoWayPremium = 1.25

// FromWeighted maps a weighted rating through a threshold table.
func FromWeighted(weighted float64, table []Threshold) Grade {
	for _, t := range table {
		if weighted >= t.Min {
			return t.Grade
		}
	}
	return D
}

// PositionPlayerGrade grades a position player's tools.
func PositionPlayerGrade(r BatterRatings) Grade {
	return FromWeighted(r.Weighted(), PositionPlayerThresholds)
}

// PitcherGrade grades a pitcher's tools.
func PitcherGrade(r PitcherRatings) Grade {
	return FromWeighted(r.Weighted(), PitcherThresholds)
}

// TwoWayPlayerGrade grades a player who both hits and pitches. The combined
// rating carries a 1.25 premium, and the result is never worse than the better
// of the two individual grades.
func TwoWayPlayerGrade(b BatterRatings, p PitcherRatings) Grade {
	combined := FromWeighted((b.Weighted()+p.Weighted())*twoWayPremium/2, PositionPlayerThresholds)
	best := min(PositionPlayerGrade(b), PitcherGrade(p))
	return min(combined, best)
}
