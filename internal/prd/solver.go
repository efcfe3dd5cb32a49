package prd

import (
	"errors"
	"math"
	"sync"
)

// The growth constant C has no closed form: Solve bisects over candidate
// constants, and each probe evaluates the expected success rate of a PRD
// process driven by that candidate (a finite series with ceil(1/c) terms).
// Both loops are bounded so pathological inputs fail instead of hanging.

var ErrNonConvergence = errors.New("coefficient search did not converge")

const (
	// maximum bisection steps before giving up
	maxSolveIterations = 128
	// maximum series terms per expectedRate call; a candidate constant
	// below ~1e-7 blows past this, which in practice means the requested
	// percentage is under roughly 0.04 and cannot be solved in budget
	maxExpectationTerms = 10_000_000
	// two successive implied-rate probes closer than this are treated as
	// converged; exact float equality would be flaky
	rateEpsilon = 1e-12
)

// expectedRate returns the implied long-run success rate of a PRD process
// with growth constant c in (0, 1]: the reciprocal of the expected trial
// index of the first success.
//
// P(first success on trial i) = min(1, i*c) * P(no success before i).
// The series is finite: past i = ceil(1/c) the per-trial probability is
// saturated at 1 and every later term is zero.
func expectedRate(c float64) (float64, error) {
	if c <= 0 || 1/c > float64(maxExpectationTerms) {
		return 0, ErrNonConvergence
	}
	if c >= 1 {
		return 1, nil
	}
	terms := int(math.Ceil(1 / c))
	var cumFail float64 // probability the first success already happened
	var sum float64     // expected trial index accumulator
	for i := 1; i <= terms; i++ {
		onN := math.Min(1, float64(i)*c) * (1 - cumFail)
		cumFail += onN
		sum += float64(i) * onN
	}
	return 1 / sum, nil
}

// search bisects c within (lo, hi] until two successive implied rates agree
// within rateEpsilon. expectedRate is continuous and monotone in c, so the
// fixed point is unique; the iteration cap converts float noise or an
// out-of-budget series into ErrNonConvergence instead of an endless loop.
func search(target, lo, hi float64) (float64, error) {
	var lastRate float64
	haveLast := false
	for i := 0; i < maxSolveIterations; i++ {
		mid := (lo + hi) / 2
		rate, err := expectedRate(mid)
		if err != nil {
			return 0, err
		}
		if haveLast && math.Abs(rate-lastRate) <= rateEpsilon {
			return mid, nil
		}
		lastRate, haveLast = rate, true
		if rate > target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, ErrNonConvergence
}

// Integer-percentage lookup table, built once on first use and read-only
// afterwards. Solving 1..99 up front makes integer lookups free and gives
// fractional inputs a much tighter starting bracket.
var (
	tableOnce sync.Once
	tableVals [101]float64 // percent scale, index = integer percentage
	tableErr  error
)

func integerTable() (*[101]float64, error) {
	tableOnce.Do(func() {
		tableVals[0] = 0
		tableVals[100] = 100
		for p := 1; p <= 99; p++ {
			c, err := search(float64(p)/100, 0, float64(p)/100)
			if err != nil {
				tableErr = err
				return
			}
			tableVals[p] = c * 100
		}
	})
	if tableErr != nil {
		return nil, tableErr
	}
	return &tableVals, nil
}

// searchBounds picks the starting bisection bracket for a fractional
// percentage: the solved constants of the neighboring integer percentages
// when the table is available, (0, p/100] otherwise.
func searchBounds(p float64) (lo, hi float64) {
	lo, hi = 0, p/100
	tbl, err := integerTable()
	if err != nil {
		return lo, hi
	}
	lower := int(math.Floor(p))
	upper := int(math.Ceil(p))
	lo = tbl[lower] / 100
	if upper != lower {
		hi = math.Min(tbl[upper]/100, p/100)
	}
	return lo, hi
}

// Solve computes the PRD growth constant for a nominal percentage p in
// [0, 100] and returns it on the same percent scale as the input
// (e.g. Solve(25) ≈ 8.47). The constant is both the first-trial success
// chance and the per-failure increment; a sequence driven by it has a
// long-run success rate of exactly p.
//
// Percentages below roughly 0.04 need a constant too small to evaluate
// within the series budget and fail with ErrNonConvergence.
func Solve(p float64) (float64, error) {
	if err := validatePercent(p); err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, nil
	}
	if p == 100 {
		return 100, nil
	}
	if i := int(p); float64(i) == p {
		if tbl, err := integerTable(); err == nil {
			return tbl[i], nil
		}
		// table build failed; fall through to a direct search
	}
	lo, hi := searchBounds(p)
	c, err := search(p/100, lo, hi)
	if err != nil {
		return 0, err
	}
	return c * 100, nil
}
