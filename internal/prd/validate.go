package prd

import (
	"errors"
	"math"
)

var ErrInvalidPercent = errors.New("invalid percentage; must be 0..100")

func validatePercent(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidPercent
	}
	if p < 0 || p > 100 {
		return ErrInvalidPercent
	}
	return nil
}
