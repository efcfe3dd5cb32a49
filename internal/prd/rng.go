package prd

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstracts the uniform sampler so callers can inject a
// deterministic source for tests and replayable simulations.

type RandomSource interface {
	Float64() float64 // uniform in [0, 1)
}

// crypto random: default source for production rolls
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// Read 53 bit random => [0, 1)
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}

	// max 53
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (e.g. Monte Carlo, statistical tests)
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }
