package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-5, 0, 1))
	assert.Equal(t, 1.0, Clamp(5, 0, 1))
}

func TestClampFreq(t *testing.T) {
	assert.Equal(t, 0.05, ClampFreq(0))
	assert.Equal(t, 0.05, ClampFreq(-3))
	assert.Equal(t, 4.0, ClampFreq(4))
}

func TestLinspaceEndpoints(t *testing.T) {
	xs := Linspace(0.5, 18, 10)
	require.Len(t, xs, 10)
	assert.InDelta(t, 0.5, xs[0], 1e-9)
	assert.InDelta(t, 18.0, xs[len(xs)-1], 1e-9)
}

func TestLinspaceMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-100, 100).Draw(t, "lo")
		span := rapid.Float64Range(0.001, 200).Draw(t, "span")
		n := rapid.IntRange(2, 64).Draw(t, "n")
		xs := Linspace(lo, lo+span, n)
		for i := 1; i < len(xs); i++ {
			assert.GreaterOrEqual(t, xs[i], xs[i-1])
		}
	})
}

func TestLogspaceEndpoints(t *testing.T) {
	xs := Logspace(-1, 1, 5)
	assert.InDelta(t, 0.1, xs[0], 1e-9)
	assert.InDelta(t, 10.0, xs[len(xs)-1], 1e-9)
}

func TestLog2SafeNonPositive(t *testing.T) {
	assert.Less(t, Log2Safe(0), -1e100)
	assert.Less(t, Log2Safe(-1), -1e100)
	assert.InDelta(t, 1.0, Log2Safe(2), 1e-9)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1.0))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
}
