package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMaskDCIsZero(t *testing.T) {
	mask, err := BuildMask(64, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mask[0])
}

func TestBuildMaskRejectsNonPowerOfTwo(t *testing.T) {
	_, err := BuildMask(10, 4, 1)
	assert.Error(t, err)
}

// TestApplyKnownSinusoid is end-to-end scenario 4 of spec.md §8: an
// N=64 horizontal cosine at k=4 cycles/image, filtered at fc=4, bwOct=1,
// should come back peak-normalized to 1.0 and within 1e-6 of a scaled
// cosine at the same frequency.
func TestApplyKnownSinusoid(t *testing.T) {
	const n = 64
	const k = 4.0

	x := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for col := 0; col < n; col++ {
			x[y*n+col] = math.Cos(2 * math.Pi * k * float64(col) / float64(n))
		}
	}

	out, err := Apply(x, n, 4, 1)
	require.NoError(t, err)

	peak := 0.0
	for _, v := range out {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	assert.InDelta(t, 1.0, peak, 1e-6)

	scale := out[0] / x[0]
	for i := range out {
		expected := x[i] * scale
		assert.InDelta(t, expected, out[i], 1e-6)
	}
}

func TestApplyMeanZero(t *testing.T) {
	const n = 32
	x := make([]float64, n*n)
	for i := range x {
		x[i] = math.Sin(float64(i)) * 0.3
	}
	out, err := Apply(x, n, 4, 1)
	require.NoError(t, err)

	sum := 0.0
	for _, v := range out {
		sum += v
	}
	assert.LessOrEqual(t, math.Abs(sum)/float64(n*n), 1e-9)
}

func TestApplyAmplitudeWithinUnitRange(t *testing.T) {
	const n = 32
	x := make([]float64, n*n)
	for i := range x {
		x[i] = float64(i%7) - 3
	}
	out, err := Apply(x, n, 4, 1)
	require.NoError(t, err)

	peak := 0.0
	for _, v := range out {
		a := math.Abs(v)
		assert.LessOrEqual(t, a, 1.0+1e-9)
		if a > peak {
			peak = a
		}
	}
	assert.InDelta(t, 1.0, peak, 1e-9)
}

func TestApplyRejectsLengthMismatch(t *testing.T) {
	_, err := Apply(make([]float64, 10), 4, 4, 1)
	assert.Error(t, err)
}
