package prd

import (
	"math"
	"sort"
)

// SimParams describes one Monte Carlo run against a single event stream.
type SimParams struct {
	Percentage float64 // nominal rate handed to NewEvent
	Trials     int     // number of Run calls
	Seed       uint64  // 0 => crypto default source; otherwise seeded PCG
}

// Stats summarizes a simulation: the observed rate against the nominal one,
// and the distribution of gaps (trials needed per success, the successful
// trial included).
type Stats struct {
	Trials       int
	Hits         int
	NominalRate  float64 // percent
	ObservedRate float64 // percent
	Coefficient  float64 // percent

	GapMean   float64
	GapVar    float64
	GapStdDev float64
	GapP50    float64
	GapP90    float64
	GapP99    float64
	MaxGap    int

	// Optional: raw gap samples if caller needs histograms/exports
	Gaps []int `json:"-"`
}

// calcGapStats computes mean/variance/percentiles for integer gap samples.
func calcGapStats(xs []int) (mean, variance, stddev, p50, p90, p99 float64, maxGap int) {
	n := len(xs)
	if n == 0 {
		return
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
		if v > maxGap {
			maxGap = v
		}
	}
	mean = sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance = acc / float64(n)
	stddev = math.Sqrt(variance)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(cp[0])
		}
		if p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}
	p50 = percentile(0.50)
	p90 = percentile(0.90)
	p99 = percentile(0.99)
	return
}

// RunMonteCarlo drives a fresh event for the requested number of trials and
// returns summary stats. Gaps are only recorded for completed successes; a
// trailing dry streak at the end of the run is dropped rather than counted
// as a truncated gap.
func RunMonteCarlo(p SimParams) (Stats, error) {
	var rng RandomSource
	if p.Seed != 0 {
		rng = NewSeededRNG(p.Seed)
	}
	ev, err := NewEvent(p.Percentage, rng)
	if err != nil {
		return Stats{}, err
	}
	if p.Trials <= 0 {
		return Stats{
			NominalRate: ev.Percentage(),
			Coefficient: ev.Coefficient(),
		}, nil
	}

	var gaps []int
	hits := 0
	streak := 0
	for i := 0; i < p.Trials; i++ {
		streak++
		if ev.Run() {
			hits++
			gaps = append(gaps, streak)
			streak = 0
		}
	}

	mean, variance, stddev, p50, p90, p99, maxGap := calcGapStats(gaps)
	return Stats{
		Trials:       p.Trials,
		Hits:         hits,
		NominalRate:  ev.Percentage(),
		ObservedRate: 100 * float64(hits) / float64(p.Trials),
		Coefficient:  ev.Coefficient(),
		GapMean:      mean,
		GapVar:       variance,
		GapStdDev:    stddev,
		GapP50:       p50,
		GapP90:       p90,
		GapP99:       p99,
		MaxGap:       maxGap,
		Gaps:         gaps,
	}, nil
}
