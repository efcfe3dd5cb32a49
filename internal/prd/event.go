package prd

import "math"

// Event is one independent pseudo-random-distribution stream: a proc whose
// chance starts at the solved constant, climbs by that constant after every
// miss, and snaps back after every hit. Compared to a flat Bernoulli roll at
// the same percentage it keeps the long-run rate while cutting the variance
// and the worst-case dry streaks.
//
// An Event is not safe for concurrent Run calls; give each goroutine its
// own instance or synchronize externally. Distinct instances share nothing
// mutable.
type Event struct {
	percentage  float64 // nominal rate, immutable
	coefficient float64 // solved constant, percent scale, immutable
	chance      float64 // success chance of the next trial, percent scale
	rng         RandomSource
}

// NewEvent solves the growth constant for percentage p and returns a fresh
// event whose first trial succeeds with exactly that constant. A nil rng
// selects the crypto-backed default. Errors from validation or the solver
// (ErrInvalidPercent, ErrNonConvergence) surface here; Run never fails.
func NewEvent(p float64, rng RandomSource) (*Event, error) {
	c, err := Solve(p)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Event{
		percentage:  p,
		coefficient: c,
		chance:      c,
		rng:         rng,
	}, nil
}

// Run performs one trial. On success the chance resets to the coefficient;
// on failure it grows by the coefficient, capped at 100.
func (e *Event) Run() bool {
	if e.percentage <= 0 {
		return false
	}
	if e.percentage >= 100 {
		return true
	}
	roll := e.rng.Float64() * 100
	if roll <= e.chance {
		e.chance = e.coefficient
		return true
	}
	e.chance = math.Min(100, e.chance+e.coefficient)
	return false
}

// Percentage returns the nominal rate the event was constructed with.
func (e *Event) Percentage() float64 { return e.percentage }

// Coefficient returns the solved growth constant, percent scale.
func (e *Event) Coefficient() float64 { return e.coefficient }
