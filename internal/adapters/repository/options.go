package repository

import "math/rand/v2"

// Option configures a TreapStore.
type Option func(*TreapStore)

// WithRand sets the source of node priorities. Tests use a seeded source.
func WithRand(r *rand.Rand) Option {
	return func(s *TreapStore) {
		if r != nil {
			s.rng = r
		}
	}
}
