package service

import (
	"math/rand/v2"

	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/internal/domain/park"
	"github.com/okian/sabr/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the event id set. Zero keeps every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithSeasonGames sets the schedule length WAR is scaled to.
func WithSeasonGames(games int) Option {
	return func(s *Service) {
		if games > 0 {
			s.seasonGames = games
		}
	}
}

// WithStores sets where calibration state and season results are persisted.
func WithStores(st Stores) Option {
	return func(s *Service) {
		if st.Calibration != nil {
			s.stores = st
		}
	}
}

// WithCalibrationOptions passes extra options to the calibration engine.
func WithCalibrationOptions(opts ...calibration.Option) Option {
	return func(s *Service) {
		s.calibrationOpts = append(s.calibrationOpts, opts...)
	}
}

// WithParks sets the stadium table.
func WithParks(d *park.Deriver) Option {
	return func(s *Service) {
		if d != nil {
			s.parks = d
		}
	}
}

// WithRand seeds the prospect generator.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
