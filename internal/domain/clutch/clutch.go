// Package clutch attributes leverage-weighted credit to the participants of a play.
//
// Every credited participant receives the full situational leverage but only
// their own event value: a fielder turning a double play is credited for the
// turn, never for the batter's out.
package clutch

import (
	"errors"
	"fmt"

	"github.com/okian/sabr/internal/domain/leverage"
)

// Sentinel errors for malformed plays.
var (
	ErrUnknownRole    = errors.New("unknown participant role")
	ErrUnknownResult  = errors.New("unknown play result")
	ErrUnknownContact = errors.New("unknown contact quality")
	ErrUnknownRound   = errors.New("unknown playoff round")
	ErrNoParticipants = errors.New("play has no participants")
)

// Role is what a participant did on the play.
type Role string

// Participant roles.
const (
	RoleBatter  Role = "batter"
	RolePitcher Role = "pitcher"
	RoleFielder Role = "fielder"
	RoleCatcher Role = "catcher"
	RoleRunner  Role = "runner"
)

// Result is the outcome of a play.
type Result string

// Play results.
const (
	Single         Result = "single"
	Double         Result = "double"
	Triple         Result = "triple"
	HomeRun        Result = "home_run"
	Walk           Result = "walk"
	HitByPitch     Result = "hit_by_pitch"
	Strikeout      Result = "strikeout"
	GroundOut      Result = "ground_out"
	FlyOut         Result = "fly_out"
	LineOut        Result = "line_out"
	DoublePlay     Result = "double_play"
	SacrificeFly   Result = "sac_fly"
	ReachedOnError Result = "reached_on_error"
	StolenBase     Result = "stolen_base"
	CaughtStealing Result = "caught_stealing"
)

// Contact is the batted-ball quality of a play.
type Contact string

// Contact qualities. An empty value means not recorded.
const (
	ContactNone   Contact = ""
	ContactWeak   Contact = "weak"
	ContactMedium Contact = "medium"
	ContactHard   Contact = "hard"
)

// Round is the postseason round a game belongs to.
type Round string

// Postseason rounds. The empty round is the regular season.
const (
	RegularSeason Round = ""
	WildCard      Round = "wild_card"
	Division      Round = "division"
	Championship  Round = "championship"
	WorldSeries   Round = "world_series"
)

// Playoff describes postseason stakes.
type Playoff struct {
	Round       Round `json:"round,omitempty"`
	Elimination bool  `json:"elimination,omitempty"`
	Clinch      bool  `json:"clinch,omitempty"`
}

// Multiplier returns the stakes multiplier; elimination and clinching games add to the round's base.
func (p Playoff) Multiplier() (float64, error) {
	var m float64
	switch p.Round {
	case RegularSeason:
		m = 1.0
	case WildCard:
		m = 1.25
	case Division:
		m = 1.5
	case Championship:
		m = 1.75
	case WorldSeries:
		m = 2.0
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRound, p.Round)
	}
	if p.Elimination {
		m += 0.5
	}
	if p.Clinch {
		m += 0.25
	}
	return m, nil
}

// Participant is a player credited on a play.
type Participant struct {
	PlayerID string `json:"player_id"`
	Role     Role   `json:"role"`
}

// Play is a single situational event with its credited participants.
type Play struct {
	ID     string         `json:"id"`
	GameID string         `json:"game_id"`
	State  leverage.State `json:"state"`
	// LI overrides the index computed from State when positive. It is clamped
	// to the index bounds.
	LI           float64       `json:"li,omitempty"`
	Result       Result        `json:"result"`
	Contact      Contact       `json:"contact,omitempty"`
	Playoff      Playoff       `json:"playoff,omitempty"`
	Participants []Participant `json:"participants"`
}

// Leverage returns the play's LI.
func (p Play) Leverage() float64 {
	if p.LI > 0 {
		return leverage.Clamp(p.LI)
	}
	return leverage.Index(p.State)
}

// Contribution is one participant's leverage-weighted credit on a play.
type Contribution struct {
	PlayerID   string  `json:"player_id"`
	Role       Role    `json:"role"`
	BaseValue  float64 `json:"base_value"`
	LI         float64 `json:"li"`
	Multiplier float64 `json:"multiplier"`
	Value      float64 `json:"value"`
}

// Attribute splits a play into per-participant contributions of value × LI × stakes.
// A play with an unknown role, result, contact or round is rejected whole.
func Attribute(p Play) ([]Contribution, error) {
	if len(p.Participants) == 0 {
		return nil, ErrNoParticipants
	}
	if !p.Result.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResult, p.Result)
	}
	if !p.Contact.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContact, p.Contact)
	}
	stakes, err := p.Playoff.Multiplier()
	if err != nil {
		return nil, err
	}
	li := p.Leverage()

	out := make([]Contribution, 0, len(p.Participants))
	for _, part := range p.Participants {
		base, err := EventValue(part.Role, p.Result, p.Contact)
		if err != nil {
			return nil, err
		}
		out = append(out, Contribution{
			PlayerID:   part.PlayerID,
			Role:       part.Role,
			BaseValue:  base,
			LI:         li,
			Multiplier: stakes,
			Value:      base * li * stakes,
		})
	}
	return out, nil
}

func (r Result) valid() bool {
	switch r {
	case Single, Double, Triple, HomeRun, Walk, HitByPitch, Strikeout, GroundOut, FlyOut,
		LineOut, DoublePlay, SacrificeFly, ReachedOnError, StolenBase, CaughtStealing:
		return true
	}
	return false
}

func (r Result) hit() bool {
	switch r {
	case Single, Double, Triple, HomeRun:
		return true
	}
	return false
}

func (r Result) battedOut() bool {
	switch r {
	case GroundOut, FlyOut, LineOut, DoublePlay, SacrificeFly:
		return true
	}
	return false
}

func (c Contact) valid() bool {
	switch c {
	case ContactNone, ContactWeak, ContactMedium, ContactHard:
		return true
	}
	return false
}
