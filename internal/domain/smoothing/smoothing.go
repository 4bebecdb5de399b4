// Package smoothing provides the exponential blend used wherever a new
// observation replaces a prior estimate (league calibration, positioning weights).
package smoothing

import (
	"errors"
	"math"
)

// DefaultWeight is the share given to the newest observation.
const DefaultWeight = 0.7

// ErrInvalidWeight is returned when a blend weight lies outside [0, 1].
var ErrInvalidWeight = errors.New("blend weight must be within [0, 1]")

// Blend returns next*weight + prev*(1-weight).
// A weight of 1 replaces the prior value, 0 keeps it unchanged.
func Blend(prev, next, weight float64) float64 {
	w := clampWeight(weight)
	return next*w + prev*(1-w)
}

// BlendMap blends every key present in either map; a key missing from one side
// is treated as zero on that side.
func BlendMap[K comparable](prev, next map[K]float64, weight float64) map[K]float64 {
	out := make(map[K]float64, len(next))
	for k, v := range next {
		out[k] = Blend(prev[k], v, weight)
	}
	for k, v := range prev {
		if _, ok := next[k]; !ok {
			out[k] = Blend(v, 0, weight)
		}
	}
	return out
}

// ValidateWeight reports whether weight is usable as a blend weight.
func ValidateWeight(weight float64) error {
	if weight < 0 || weight > 1 || math.IsNaN(weight) {
		return ErrInvalidWeight
	}
	return nil
}

func clampWeight(w float64) float64 {
	switch {
	case math.IsNaN(w):
		return DefaultWeight
	case w < 0:
		return 0
	case w > 1:
		return 1
	}
	return w
}
