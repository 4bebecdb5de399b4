package season

import "errors"

// Sentinel errors for ledger lookups.
var (
	ErrUnknownSeason = errors.New("unknown season")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrSeasonClosed  = errors.New("season is closed")
)
