package war

import (
	"fmt"

	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/position"
)

// PlayType is the kind of defensive chance.
type PlayType string

// Fielding play types.
const (
	PlayPutout          PlayType = "putout"
	PlayAssist          PlayType = "assist"
	PlayError           PlayType = "error"
	PlayDoublePlayPivot PlayType = "double_play_pivot"
	PlayOutfieldAssist  PlayType = "outfield_assist"
)

// PlayTypes lists the closed set of play types.
var PlayTypes = []PlayType{PlayPutout, PlayAssist, PlayError, PlayDoublePlayPivot, PlayOutfieldAssist}

// ParsePlayType validates a play-type tag.
func ParsePlayType(s string) (PlayType, error) {
	t := PlayType(s)
	if _, err := t.baseValue(); err != nil {
		return "", err
	}
	return t, nil
}

// baseValue is the run swing between converting the chance and missing it.
func (t PlayType) baseValue() (float64, error) {
	switch t {
	case PlayPutout:
		return 0.75, nil
	case PlayAssist:
		return 0.75, nil
	case PlayError:
		return 0.75, nil
	case PlayDoublePlayPivot:
		return 0.90, nil
	case PlayOutfieldAssist:
		return 1.00, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPlayType, string(t))
}

// Difficulty is how hard a chance was to convert.
type Difficulty string

// Difficulty classes, easiest first.
const (
	DifficultyRoutine     Difficulty = "routine"
	DifficultyLikely      Difficulty = "likely"
	DifficultyFiftyFifty  Difficulty = "50-50"
	DifficultyUnlikely    Difficulty = "unlikely"
	DifficultySpectacular Difficulty = "spectacular"
)

// Difficulties lists the closed set of difficulty classes.
var Difficulties = []Difficulty{
	DifficultyRoutine, DifficultyLikely, DifficultyFiftyFifty, DifficultyUnlikely, DifficultySpectacular,
}

// ParseDifficulty validates a difficulty tag.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if _, err := d.ConversionRate(); err != nil {
		return "", err
	}
	return d, nil
}

// ConversionRate is the league-average probability a chance of this class is made.
// A fielder converting chances at exactly these rates is worth zero play runs.
func (d Difficulty) ConversionRate() (float64, error) {
	switch d {
	case DifficultyRoutine:
		return 0.97, nil
	case DifficultyLikely:
		return 0.75, nil
	case DifficultyFiftyFifty:
		return 0.50, nil
	case DifficultyUnlikely:
		return 0.25, nil
	case DifficultySpectacular:
		return 0.10, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(d))
}

// Position modifiers by play family. Errors weigh more at the easier positions.
var (
	putoutModifiers = map[position.Position]float64{
		position.Catcher: 1.3, position.Shortstop: 1.2, position.Center: 1.15,
		position.Second:  1.1, position.Third: 1.1, position.Right: 1.0,
		position.Left:    0.9, position.First: 0.7, position.Pitcher: 0.5,
	}
	assistModifiers = map[position.Position]float64{
		position.Catcher: 1.4, position.Shortstop: 1.2, position.Third: 1.15,
		position.Center:  1.2, position.Right: 1.1, position.Second: 1.0,
		position.Left:    0.9, position.First: 0.7, position.Pitcher: 0.6,
	}
	errorModifiers = map[position.Position]float64{
		position.Catcher: 0.8, position.Shortstop: 1.0, position.Third: 1.0,
		position.Second:  1.0, position.Center: 1.1, position.Right: 1.1,
		position.Left:    1.1, position.First: 1.2, position.Pitcher: 1.3,
	}
)

// Error context multipliers.
const (
	runScoredMultiplier = 1.5
	clutchMultiplier    = 1.3
)

// FieldingEvent is one discrete defensive chance.
type FieldingEvent struct {
	ID         string            `json:"id"`
	GameID     string            `json:"game_id"`
	PlayerID   string            `json:"player_id"`
	Position   position.Position `json:"position"`
	PlayType   PlayType          `json:"play_type"`
	Difficulty Difficulty        `json:"difficulty"`
	Success    bool              `json:"success"`
	// RunsPrevented is positive for runs saved and negative for runs allowed.
	RunsPrevented float64 `json:"runs_prevented"`
	Clutch        bool    `json:"clutch,omitempty"`
}

// Validate rejects tags outside the closed enumerations.
func (e FieldingEvent) Validate() error {
	if _, err := e.PlayType.baseValue(); err != nil {
		return err
	}
	if _, err := e.Difficulty.ConversionRate(); err != nil {
		return err
	}
	if _, ok := putoutModifiers[e.Position]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPosition, string(e.Position))
	}
	return nil
}

// Value returns the play runs of the chance, excluding RunsPrevented.
// An error is always a missed chance regardless of Success.
func (e FieldingEvent) Value() (float64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	base, _ := e.PlayType.baseValue()
	rate, _ := e.Difficulty.ConversionRate()

	made := 0.0
	if e.Success && e.PlayType != PlayError {
		made = 1
	}

	var mod float64
	switch e.PlayType {
	case PlayPutout, PlayDoublePlayPivot:
		mod = putoutModifiers[e.Position]
	case PlayAssist, PlayOutfieldAssist:
		mod = assistModifiers[e.Position]
	case PlayError:
		mod = errorModifiers[e.Position]
		if e.RunsPrevented < 0 {
			mod *= runScoredMultiplier
		}
		if e.Clutch {
			mod *= clutchMultiplier
		}
	}
	return (made - rate) * base * mod, nil
}

// FieldingInput is a fielder's season of chances.
type FieldingInput struct {
	// Position is the primary position the positional adjustment is taken from.
	Position    position.Position `json:"position"`
	GamesPlayed int               `json:"games_played"`
	Events      []FieldingEvent   `json:"events"`
}

// FieldingResult breaks fWAR into its components.
type FieldingResult struct {
	PlayRuns             float64              `json:"play_runs"`
	RunsPrevented        float64              `json:"runs_prevented"`
	PositionalAdjustment float64              `json:"positional_adjustment"`
	TotalRuns            float64              `json:"total_runs"`
	RunsPerWin           float64              `json:"runs_per_win"`
	WAR                  float64              `json:"war"`
	Chances              int                  `json:"chances"`
	Errors               int                  `json:"errors"`
	Rejected             int                  `json:"rejected"`
	ByPlayType           map[PlayType]float64 `json:"by_play_type,omitempty"`
	Position             position.Position    `json:"position"`
	GamesPlayed          int                  `json:"games_played"`
	SeasonGames          int                  `json:"season_games"`
}

// FieldingWAR computes fWAR from a batch of chances. Events with tags outside
// the closed enumerations are skipped and counted in Rejected. The positional
// adjustment is quoted per full season and scaled to games played; it only
// applies once the fielder has at least one valid chance.
func FieldingWAR(in FieldingInput, ctx *league.Context, seasonGames int) FieldingResult {
	ctx, seasonGames = resolve(ctx, seasonGames)
	rpw := league.RunsPerWin(seasonGames)
	res := FieldingResult{
		RunsPerWin:  rpw,
		Position:    in.Position,
		GamesPlayed: in.GamesPlayed,
		SeasonGames: seasonGames,
	}

	for _, e := range in.Events {
		v, err := e.Value()
		if err != nil {
			res.Rejected++
			continue
		}
		if res.ByPlayType == nil {
			res.ByPlayType = make(map[PlayType]float64, len(PlayTypes))
		}
		res.Chances++
		if e.PlayType == PlayError {
			res.Errors++
		}
		res.PlayRuns += v
		res.RunsPrevented += e.RunsPrevented
		res.ByPlayType[e.PlayType] += v
	}
	if res.Chances == 0 {
		return res
	}

	if adj, ok := ctx.PositionalAdjustments[in.Position]; ok && in.GamesPlayed > 0 {
		res.PositionalAdjustment = adj * float64(in.GamesPlayed) / league.FullSeasonGames
	}
	res.TotalRuns = res.PlayRuns + res.RunsPrevented + res.PositionalAdjustment
	res.WAR = res.TotalRuns / rpw
	return res
}
