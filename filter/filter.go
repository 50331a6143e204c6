// Package filter builds and applies the raised-cosine annular bandpass
// used to turn a rasterized optotype into a contrast-normalized
// spatial-frequency-limited template (spec.md §4.2).
package filter

import (
	"fmt"
	"math"

	"github.com/drburke-droid/neuro-gaze-v3/fft"
)

// maskCacheKey identifies a (resolution, centerFreq, bandwidthOctaves)
// mask configuration so repeated calls for the same bandwidth setup
// reuse the mask instead of rebuilding it (spec.md §5: "bandpass setup
// allocates the mask once per bandwidth/resolution configuration").
type maskCacheKey struct {
	n        int
	centerFc float64
	bwOct    float64
}

var maskCache = map[maskCacheKey][]float64{}

// BuildMask constructs the N*N raised-cosine annular mask H[u,v] in DFT
// frequency-bin order described in spec.md §4.2 step 1. fc is the
// center frequency in cycles per object (the N x N image), bwOct is the
// full bandwidth in octaves.
func BuildMask(n int, fc, bwOct float64) ([]float64, error) {
	if !fft.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("filter: n=%d is not a power of two", n)
	}
	if fc <= 0 {
		return nil, fmt.Errorf("filter: center frequency must be > 0, got %v", fc)
	}
	if bwOct <= 0 {
		return nil, fmt.Errorf("filter: bandwidth octaves must be > 0, got %v", bwOct)
	}

	key := maskCacheKey{n: n, centerFc: fc, bwOct: bwOct}
	if cached, ok := maskCache[key]; ok {
		return cached, nil
	}

	halfWidth := bwOct / 2
	mask := make([]float64, n*n)
	for v := 0; v < n; v++ {
		fy := foldFreq(v, n)
		for u := 0; u < n; u++ {
			fx := foldFreq(u, n)
			rho := math.Hypot(fx, fy)
			if rho == 0 {
				mask[v*n+u] = 0
				continue
			}
			delta := math.Abs(math.Log2(rho / fc))
			if delta <= halfWidth {
				mask[v*n+u] = 0.5 * (1 + math.Cos(math.Pi*delta/halfWidth))
			}
		}
	}

	maskCache[key] = mask
	return mask, nil
}

func foldFreq(idx, n int) float64 {
	if idx <= n/2 {
		return float64(idx)
	}
	return float64(idx - n)
}

// Apply runs the full bandpass pipeline of spec.md §4.2 on a signed,
// approximately mean-zero N*N image: forward FFT, bin-wise multiply by
// the raised-cosine mask, inverse FFT, then peak-normalize so the
// result lies in [-1, 1]. The imaginary part is discarded (the input is
// assumed real; FFT round-off leaves a negligible imaginary residual).
func Apply(x []float64, n int, fc, bwOct float64) ([]float64, error) {
	if len(x) != n*n {
		return nil, fmt.Errorf("filter: input length must be %d, got %d", n*n, len(x))
	}

	mask, err := BuildMask(n, fc, bwOct)
	if err != nil {
		return nil, err
	}

	re := make([]float64, n*n)
	im := make([]float64, n*n)
	copy(re, x)

	if err := fft.FFT2D(re, im, n, false); err != nil {
		return nil, err
	}
	for i := range re {
		re[i] *= mask[i]
		im[i] *= mask[i]
	}
	if err := fft.FFT2D(re, im, n, true); err != nil {
		return nil, err
	}

	peak := 0.0
	for _, v := range re {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	out := make([]float64, n*n)
	if peak > 0 {
		invPeak := 1.0 / peak
		for i, v := range re {
			out[i] = v * invPeak
		}
	} else {
		copy(out, re)
	}
	return out, nil
}
