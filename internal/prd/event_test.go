package prd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRNG returns a settable fixed value, so a test can force misses or hits.
type stubRNG struct{ v float64 }

func (s *stubRNG) Float64() float64 { return s.v }

func TestNewEventInvalid(t *testing.T) {
	for _, p := range []float64{-1, 101, math.NaN(), math.Inf(1)} {
		_, err := NewEvent(p, nil)
		assert.ErrorIs(t, err, ErrInvalidPercent, "p=%v", p)
	}
}

func TestNewEventNonConvergence(t *testing.T) {
	_, err := NewEvent(1e-6, nil)
	assert.ErrorIs(t, err, ErrNonConvergence)
}

func TestFirstTrialChanceIsCoefficient(t *testing.T) {
	ev, err := NewEvent(50, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, ev.Coefficient(), ev.chance)
	assert.InDelta(t, 30.210303, ev.Coefficient(), 1e-3)
}

func TestAccessors(t *testing.T) {
	ev, err := NewEvent(25, nil)
	require.NoError(t, err)
	assert.Equal(t, 25.0, ev.Percentage())
	assert.InDelta(t, 8.474409, ev.Coefficient(), 1e-3)
}

func TestRunBoundaries(t *testing.T) {
	never, err := NewEvent(0, NewSeededRNG(3))
	require.NoError(t, err)
	always, err := NewEvent(100, NewSeededRNG(3))
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		if never.Run() {
			t.Fatalf("p=0 procced at trial %d", i)
		}
		if !always.Run() {
			t.Fatalf("p=100 missed at trial %d", i)
		}
	}
}

// Every miss must raise the chance by exactly the coefficient until it
// saturates at 100; a hit must snap it back to the coefficient.
func TestRunRampAndReset(t *testing.T) {
	rng := &stubRNG{v: 0.9999999} // roll just under 100, misses anything unsaturated
	ev, err := NewEvent(25, rng)
	require.NoError(t, err)
	c := ev.Coefficient()

	prev := ev.chance
	misses := 0
	for ev.chance < 100 {
		proc := ev.Run()
		if ev.chance >= 100 {
			break
		}
		require.False(t, proc, "miss %d", misses)
		assert.Greater(t, ev.chance, prev)
		assert.InDelta(t, prev+c, ev.chance, 1e-9)
		prev = ev.chance
		misses++
		require.Less(t, misses, 200, "chance never saturated")
	}
	assert.LessOrEqual(t, ev.chance, 100.0)

	// saturated chance means the next roll cannot miss
	require.True(t, ev.Run())
	assert.Equal(t, c, ev.chance)

	// a hit from any state resets exactly to the coefficient
	rng.v = 0
	ev.chance = 5 * c
	require.True(t, ev.Run())
	assert.Equal(t, c, ev.chance)
}

func TestRunChanceStaysClamped(t *testing.T) {
	rng := &stubRNG{v: 0.9999999}
	ev, err := NewEvent(60, rng)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		ev.Run()
		assert.LessOrEqual(t, ev.chance, 100.0)
		assert.GreaterOrEqual(t, ev.chance, 0.0)
	}
}

func TestIndependentEventsShareNothing(t *testing.T) {
	a, err := NewEvent(25, NewSeededRNG(1))
	require.NoError(t, err)
	b, err := NewEvent(25, NewSeededRNG(1))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		a.Run()
	}
	// b's state is untouched by a's rolls
	assert.Equal(t, b.Coefficient(), b.chance)
}
