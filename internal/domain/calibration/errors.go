package calibration

import "errors"

// Sentinel errors.
var (
	ErrInsufficientSample = errors.New("season sample below calibration minimum")
	ErrIncompleteSeason   = errors.New("season aggregate is incomplete")
	ErrAlreadyCalibrated  = errors.New("season already calibrated")
	ErrInvalidTransition  = errors.New("invalid calibration transition")
	ErrNoState            = errors.New("no calibration state stored")
	ErrMissingSeason      = errors.New("season id is required")
)
