package war

import "errors"

// Sentinel errors for events outside the closed enumerations.
var (
	ErrInvalidPlayType   = errors.New("invalid fielding play type")
	ErrInvalidDifficulty = errors.New("invalid fielding difficulty")
	ErrInvalidPosition   = errors.New("invalid fielding position")
	ErrInvalidDecision   = errors.New("invalid manager decision type")
	ErrInvalidOutcome    = errors.New("invalid manager decision outcome")
)
