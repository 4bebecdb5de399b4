// Package war converts season stat lines into Wins Above Replacement.
//
// Every engine follows the same shape: a rate stat, runs above average for the
// player's volume, a replacement-level adjustment, then a conversion to wins
// with the season-length scaled runs-per-win from league.RunsPerWin. Zero
// volume yields a zero result and negative WAR is never clamped.
package war

import "github.com/okian/sabr/internal/domain/league"

// resolve picks the snapshot and schedule an engine computes against.
// A nil context falls back to the defaults; a non-positive schedule falls back
// to the snapshot's, then to a full season.
func resolve(ctx *league.Context, seasonGames int) (*league.Context, int) {
	if ctx == nil {
		ctx = league.Default()
	}
	if seasonGames <= 0 {
		seasonGames = ctx.SeasonGames
	}
	if seasonGames <= 0 {
		seasonGames = league.FullSeasonGames
	}
	return ctx, seasonGames
}
