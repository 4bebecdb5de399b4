// Package position defines the closed set of defensive positions.
package position

import (
	"errors"
	"strings"
)

// ErrUnknown is returned when a position code is not part of the closed set.
var ErrUnknown = errors.New("unknown position")

// Position is a defensive position code.
type Position string

// Positions in scorecard order.
const (
	Pitcher    Position = "P"
	Catcher    Position = "C"
	First      Position = "1B"
	Second     Position = "2B"
	Third      Position = "3B"
	Shortstop  Position = "SS"
	Left       Position = "LF"
	Center     Position = "CF"
	Right      Position = "RF"
	Designated Position = "DH"
)

// All lists every position; tables keyed by position are validated against it.
var All = []Position{Pitcher, Catcher, First, Second, Third, Shortstop, Left, Center, Right, Designated}

// Fielders lists the eight non-pitcher fielding positions.
var Fielders = []Position{Catcher, First, Second, Third, Shortstop, Left, Center, Right}

// Parse normalizes a position code. It accepts any letter case and surrounding spaces.
func Parse(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrUnknown
	}
	return p, nil
}

// Valid reports whether p is part of the closed set.
func (p Position) Valid() bool {
	switch p {
	case Pitcher, Catcher, First, Second, Third, Shortstop, Left, Center, Right, Designated:
		return true
	}
	return false
}

// Outfield reports whether p is an outfield position.
func (p Position) Outfield() bool {
	return p == Left || p == Center || p == Right
}

func (p Position) String() string { return string(p) }
