package calibration

import (
	"fmt"
	"time"

	"github.com/okian/sabr/internal/domain/league"
)

// Status is the calibration lifecycle state.
type Status string

// Calibration states.
const (
	StatusUncalibrated Status = "UNCALIBRATED"
	StatusCalibrating  Status = "CALIBRATING"
	StatusCalibrated   Status = "CALIBRATED"
)

// validTransitions lists the legal status changes. A skipped or failed run
// returns CALIBRATING to whatever status preceded it.
var validTransitions = map[Status]map[Status]bool{
	StatusUncalibrated: {StatusCalibrating: true},
	StatusCalibrating:  {StatusCalibrated: true, StatusUncalibrated: true},
	StatusCalibrated:   {StatusCalibrating: true},
}

// IsValidTransition checks whether from → to is legal.
func IsValidTransition(from, to Status) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Record is one entry of calibration history.
type Record struct {
	ID         string          `json:"id"`
	SeasonID   string          `json:"season_id"`
	At         time.Time       `json:"at"`
	SampleSize int             `json:"sample_size"`
	Skipped    bool            `json:"skipped"`
	Reason     string          `json:"reason,omitempty"`
	Previous   *league.Context `json:"previous,omitempty"`
	Next       *league.Context `json:"next,omitempty"`
}

// State is the persisted calibration object: the context in effect plus history.
type State struct {
	Status               Status          `json:"status"`
	Context              *league.Context `json:"context"`
	LastCalibratedSeason string          `json:"last_calibrated_season,omitempty"`
	History              []Record        `json:"history,omitempty"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// NewInitialState returns the cold-start state: uncalibrated, default context, no history.
func NewInitialState() *State {
	return &State{
		Status:  StatusUncalibrated,
		Context: league.Default(),
	}
}

// Clone returns a deep copy. Contexts inside history are shared; they are never mutated.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Context = s.Context.Clone()
	out.History = append([]Record(nil), s.History...)
	return &out
}

func (s *State) transition(to Status) error {
	if !IsValidTransition(s.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, to)
	}
	s.Status = to
	return nil
}
