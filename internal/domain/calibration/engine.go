// Package calibration owns the league context in effect and recalibrates it at
// season boundaries.
//
// Readers take a whole snapshot through Current; a calibration run builds a new
// context and publishes it atomically, so no calculation ever sees a mix of old
// and new constants.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/smoothing"
)

// Report describes the outcome of one RecordSeason call.
type Report struct {
	SeasonID   string          `json:"season_id"`
	Status     Status          `json:"status"`
	Skipped    bool            `json:"skipped"`
	Reason     string          `json:"reason,omitempty"`
	SampleSize int             `json:"sample_size"`
	Previous   *league.Context `json:"previous,omitempty"`
	Next       *league.Context `json:"next,omitempty"`
	// Err is the sentinel behind a skip; nil when the season was calibrated.
	Err error `json:"-"`
}

// Engine is the stateful calibration component.
type Engine struct {
	mu       sync.Mutex
	state    *State
	snapshot atomic.Pointer[league.Context]

	store        Store
	blendWeight  float64
	minPA        int
	historyLimit int
	seasonGames  int
	now          func() time.Time
	newID        func() string
}

// New returns an engine in the cold-start state. Call Load to restore persisted state.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		store:        NewMemoryStore(),
		blendWeight:  smoothing.DefaultWeight,
		minPA:        DefaultMinPA,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := smoothing.ValidateWeight(e.blendWeight); err != nil {
		return nil, err
	}
	e.install(NewInitialState())
	return e, nil
}

// Load restores state from the store. An empty store keeps the cold-start state.
func (e *Engine) Load(ctx context.Context) error {
	s, err := e.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoState):
		return nil
	case err != nil:
		return fmt.Errorf("load calibration state: %w", err)
	}
	if s.Context == nil {
		s.Context = league.Default()
	}
	if err := s.Context.Validate(); err != nil {
		return fmt.Errorf("stored calibration context: %w", err)
	}
	if s.Status == StatusCalibrating {
		s.Status = StatusUncalibrated
		if s.LastCalibratedSeason != "" {
			s.Status = StatusCalibrated
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.install(s)
	return nil
}

// Current returns the published snapshot. Callers must treat it as read-only.
func (e *Engine) Current() *league.Context {
	return e.snapshot.Load()
}

// State returns a copy of the calibration state.
func (e *Engine) State() *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// RecordSeason calibrates against a finished season. A season already
// calibrated or with too small a sample is skipped: the report says why and the
// error is nil. An incomplete aggregate or a store failure returns an error and
// leaves the published context untouched.
func (e *Engine) RecordSeason(ctx context.Context, agg SeasonAggregate) (Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Context
	report := Report{SeasonID: agg.SeasonID, SampleSize: agg.PA, Previous: prev, Status: e.state.Status}

	if !ShouldCalibrate(agg.SeasonID, e.state.LastCalibratedSeason) {
		if agg.SeasonID == "" {
			return report, ErrMissingSeason
		}
		report.Skipped = true
		report.Err = ErrAlreadyCalibrated
		report.Reason = ErrAlreadyCalibrated.Error()
		return report, nil
	}

	next := e.state.Clone()
	from := next.Status
	if err := next.transition(StatusCalibrating); err != nil {
		return report, err
	}

	err := agg.Validate(e.minPA)
	switch {
	case errors.Is(err, ErrInsufficientSample):
		report.Skipped = true
		report.Err = ErrInsufficientSample
		report.Reason = err.Error()
		if err := next.transition(from); err != nil {
			return report, err
		}
		report.Status = next.Status
		next.History = e.appendHistory(next.History, Record{
			ID:         e.newID(),
			SeasonID:   agg.SeasonID,
			At:         e.now(),
			SampleSize: agg.PA,
			Skipped:    true,
			Reason:     report.Reason,
		})
		next.UpdatedAt = e.now()
		if err := e.store.Save(ctx, next); err != nil {
			return report, fmt.Errorf("save calibration state: %w", err)
		}
		e.state = next
		return report, nil
	case err != nil:
		return report, err
	}

	observed := Observe(agg, prev)
	observed.CalibratedAt = e.now()
	if e.seasonGames > 0 {
		observed.SeasonGames = e.seasonGames
	}
	blended := CalibrateLeagueContext(prev, observed, e.blendWeight)
	if err := blended.Validate(); err != nil {
		return report, fmt.Errorf("calibrated context: %w", err)
	}

	if err := next.transition(StatusCalibrated); err != nil {
		return report, err
	}
	next.Context = blended
	next.LastCalibratedSeason = agg.SeasonID
	next.UpdatedAt = blended.CalibratedAt
	next.History = e.appendHistory(next.History, Record{
		ID:         e.newID(),
		SeasonID:   agg.SeasonID,
		At:         blended.CalibratedAt,
		SampleSize: agg.PA,
		Previous:   prev,
		Next:       blended,
	})

	if err := e.store.Save(ctx, next); err != nil {
		return report, fmt.Errorf("save calibration state: %w", err)
	}
	e.install(next)

	report.Status = next.Status
	report.Next = blended
	return report, nil
}

// install swaps in s and publishes its context. Callers hold mu, except New.
func (e *Engine) install(s *State) {
	e.state = s
	e.snapshot.Store(s.Context)
}

func (e *Engine) appendHistory(h []Record, r Record) []Record {
	h = append(h, r)
	if over := len(h) - e.historyLimit; over > 0 {
		h = append([]Record(nil), h[over:]...)
	}
	return h
}
