package model

import "errors"

// Sentinel errors returned by Event.Validate.
var (
	ErrMissingEventID  = errors.New("event_id is required")
	ErrMissingSeasonID = errors.New("season_id is required")
	ErrMissingPlayerID = errors.New("player_id is required")
	ErrUnknownKind     = errors.New("unknown event kind")
	ErrPayloadMismatch = errors.New("event payload does not match kind")
	ErrOutOfRange      = errors.New("event value out of range")
)
