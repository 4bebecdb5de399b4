// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"

	"github.com/okian/sabr/internal/domain/clutch"
	"github.com/okian/sabr/internal/domain/park"
	"github.com/okian/sabr/internal/domain/war"
)

// Kind says which payload an Event carries.
type Kind string

// Event kinds.
const (
	KindBatting  Kind = "batting"
	KindPitching Kind = "pitching"
	KindFielding Kind = "fielding"
	KindDecision Kind = "decision"
	KindPlay     Kind = "play"
	KindResult   Kind = "result"
)

// Kinds lists every accepted kind.
var Kinds = []Kind{KindBatting, KindPitching, KindFielding, KindDecision, KindPlay, KindResult}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// GameResult is one finished game from a manager's point of view.
type GameResult struct {
	Won bool `json:"won"`
	// SalaryScore is the team payroll normalized to [0, 1]; zero leaves the last value in place.
	SalaryScore float64 `json:"salary_score,omitempty"`
}

// Event is a single game fact submitted by clients. Exactly one payload is set,
// matching Kind.
type Event struct {
	EventID  string    `json:"event_id"`
	SeasonID string    `json:"season_id"`
	GameID   string    `json:"game_id"`
	PlayerID string    `json:"player_id"`
	Kind     Kind      `json:"kind"`
	TS       time.Time `json:"ts"`

	// HomePark names the stadium of the batter's home team.
	HomePark string          `json:"home_park,omitempty"`
	Bats     park.Handedness `json:"bats,omitempty"`

	Batting  *war.BattingStats  `json:"batting,omitempty"`
	Pitching *war.PitchingStats `json:"pitching,omitempty"`
	Fielding *war.FieldingEvent `json:"fielding,omitempty"`
	Decision *war.Decision      `json:"decision,omitempty"`
	Play     *clutch.Play       `json:"play,omitempty"`
	Result   *GameResult        `json:"result,omitempty"`
}

// Normalize copies envelope identifiers into payloads that left them blank.
func (e *Event) Normalize() {
	if f := e.Fielding; f != nil {
		if f.ID == "" {
			f.ID = e.EventID
		}
		if f.GameID == "" {
			f.GameID = e.GameID
		}
		if f.PlayerID == "" {
			f.PlayerID = e.PlayerID
		}
	}
	if d := e.Decision; d != nil {
		if d.ID == "" {
			d.ID = e.EventID
		}
		if d.GameID == "" {
			d.GameID = e.GameID
		}
		if d.ManagerID == "" {
			d.ManagerID = e.PlayerID
		}
	}
	if p := e.Play; p != nil {
		if p.ID == "" {
			p.ID = e.EventID
		}
		if p.GameID == "" {
			p.GameID = e.GameID
		}
	}
}

// Validate checks the envelope and the payload selected by Kind.
func (e *Event) Validate() error {
	if e.EventID == "" {
		return ErrMissingEventID
	}
	if e.SeasonID == "" {
		return ErrMissingSeasonID
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(e.Kind))
	}
	if e.Kind != KindPlay && e.PlayerID == "" {
		return ErrMissingPlayerID
	}
	if n := e.payloads(); n != 1 {
		return fmt.Errorf("%w: %d payloads set", ErrPayloadMismatch, n)
	}

	switch e.Kind {
	case KindBatting:
		if e.Batting == nil {
			return fmt.Errorf("%w: batting", ErrPayloadMismatch)
		}
		return validateBatting(e.Batting)
	case KindPitching:
		if e.Pitching == nil {
			return fmt.Errorf("%w: pitching", ErrPayloadMismatch)
		}
		return validatePitching(e.Pitching)
	case KindFielding:
		if e.Fielding == nil {
			return fmt.Errorf("%w: fielding", ErrPayloadMismatch)
		}
		return e.Fielding.Validate()
	case KindDecision:
		if e.Decision == nil {
			return fmt.Errorf("%w: decision", ErrPayloadMismatch)
		}
		return e.Decision.Validate()
	case KindPlay:
		if e.Play == nil {
			return fmt.Errorf("%w: play", ErrPayloadMismatch)
		}
		_, err := clutch.Attribute(*e.Play)
		return err
	case KindResult:
		if e.Result == nil {
			return fmt.Errorf("%w: result", ErrPayloadMismatch)
		}
		if s := e.Result.SalaryScore; s < 0 || s > 1 {
			return fmt.Errorf("%w: salary score %v", ErrOutOfRange, s)
		}
	}
	return nil
}

func (e *Event) payloads() int {
	n := 0
	for _, set := range []bool{
		e.Batting != nil, e.Pitching != nil, e.Fielding != nil,
		e.Decision != nil, e.Play != nil, e.Result != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func validateBatting(s *war.BattingStats) error {
	for _, v := range []int{
		s.PA, s.AB, s.Hits, s.Singles, s.Doubles, s.Triples, s.HomeRuns, s.Walks,
		s.IntentionalWalks, s.HitByPitch, s.SacFlies, s.Strikeouts, s.Runs, s.HomePA,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative batting count", ErrOutOfRange)
		}
	}
	if s.HomePA > s.PA {
		return fmt.Errorf("%w: home PA exceeds PA", ErrOutOfRange)
	}
	return nil
}

func validatePitching(s *war.PitchingStats) error {
	if s.IP < 0 || s.AverageLI < 0 {
		return fmt.Errorf("%w: negative innings or leverage", ErrOutOfRange)
	}
	for _, v := range []int{
		s.Strikeouts, s.Walks, s.HitByPitch, s.HomeRunsAllowed, s.EarnedRuns,
		s.GamesStarted, s.GamesAppeared, s.Saves, s.Holds,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative pitching count", ErrOutOfRange)
		}
	}
	return nil
}
