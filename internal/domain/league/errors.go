package league

import "errors"

// Sentinel errors for snapshot validation.
var (
	ErrNilContext          = errors.New("league context is nil")
	ErrWeightKeys          = errors.New("weights must hold exactly the six offensive events")
	ErrPositiveReplacement = errors.New("replacement runs per 600 PA must not be positive")
	ErrInvalidScale        = errors.New("woba scale must be positive")
	ErrMissingPosition     = errors.New("positional adjustment missing")
)
