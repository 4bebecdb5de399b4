// Package repository keeps per-season WAR leaderboards.
package repository

import "context"

// Entry is a leaderboard row.
type Entry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	SeasonID string  `json:"season_id"`
	WAR      float64 `json:"war"`
}

// Store provides read/write access to the leaderboards.
type Store interface {
	// Upsert sets the player's season WAR. WAR can move in either direction.
	// It reports whether the stored value changed.
	Upsert(ctx context.Context, seasonID, playerID string, war float64) (bool, error)

	// Rank returns ErrNotFound if the player has no entry for the season.
	Rank(ctx context.Context, seasonID, playerID string) (Entry, error)

	// TopN returns up to n entries ordered by WAR desc, then player id asc.
	TopN(ctx context.Context, seasonID string, n int) ([]Entry, error)

	Count(ctx context.Context, seasonID string) int
}
