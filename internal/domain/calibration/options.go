package calibration

import "time"

// Option configures an Engine.
type Option func(*Engine)

// WithStore persists state through s after every calibration.
func WithStore(s Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithBlendWeight sets the share given to a newly observed season.
// Weights outside [0, 1] are rejected by New.
func WithBlendWeight(w float64) Option {
	return func(e *Engine) {
		e.blendWeight = w
	}
}

// WithMinPA sets the league PA below which a season is not calibrated.
func WithMinPA(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.minPA = n
		}
	}
}

// WithHistoryLimit caps how many history records are kept.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// WithSeasonGames sets the schedule length stamped on calibrated contexts.
func WithSeasonGames(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.seasonGames = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides how history record ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}
