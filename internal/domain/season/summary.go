package season

import (
	"github.com/okian/sabr/internal/domain/clutch"
	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/war"
)

// Summary is a player's season across every engine with data. WAR sums the
// batting, pitching, fielding and manager components; Tier labels it on a
// full-season scale.
type Summary struct {
	PlayerID string              `json:"player_id"`
	SeasonID string              `json:"season_id"`
	WAR      float64             `json:"war"`
	Tier     league.Tier         `json:"tier"`
	Batting  *war.BattingResult  `json:"batting,omitempty"`
	Pitching *war.PitchingResult `json:"pitching,omitempty"`
	Fielding *war.FieldingResult `json:"fielding,omitempty"`
	Manager  *war.ManagerResult  `json:"manager,omitempty"`
	Clutch   *ClutchSummary      `json:"clutch,omitempty"`
}

// ClutchSummary is a clutch rating with its derived labels.
type ClutchSummary struct {
	clutch.Rating
	Tier       clutch.Tier       `json:"tier"`
	Confidence clutch.Confidence `json:"confidence"`
	MeanLI     float64           `json:"mean_li"`
}

// scheduleLength resolves the season length the engines evaluate against.
func scheduleLength(ctx *league.Context, seasonGames int) int {
	if seasonGames > 0 {
		return seasonGames
	}
	if ctx != nil && ctx.SeasonGames > 0 {
		return ctx.SeasonGames
	}
	return league.DefaultSeasonGames
}
