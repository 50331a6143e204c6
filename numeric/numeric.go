// Package numeric provides the small set of scalar and vector helpers
// shared by the CSF grids, the FFT, and the result-derivation stage.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Clamp restricts v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFreq clamps a spatial frequency to the floor required before any
// log10(freq) evaluation (spec.md §3: "clamp freq to >= 0.05").
func ClampFreq(freq float64) float64 {
	if freq < 0.05 {
		return 0.05
	}
	return freq
}

// Linspace returns n linearly spaced values covering [lo, hi] inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	floats.Span(out, lo, hi)
	return out
}

// Logspace returns n values log10-spaced between 10^lo and 10^hi inclusive.
func Logspace(logLo, logHi float64, n int) []float64 {
	exps := Linspace(logLo, logHi, n)
	out := make([]float64, len(exps))
	for i, e := range exps {
		out[i] = math.Pow(10, e)
	}
	return out
}

// Sum adds up xs in a fixed left-to-right order, matching the
// determinism requirement of spec.md §9 (no parallel reductions).
func Sum(xs []float64) float64 {
	return floats.Sum(xs)
}

// Log2Safe returns log2(x), guarding x <= 0 by returning a very negative
// sentinel instead of -Inf/NaN so downstream entropy sums stay finite-safe.
func Log2Safe(x float64) float64 {
	if x <= 0 {
		return -1e300
	}
	return math.Log2(x)
}

// IsFinite reports whether x is neither NaN nor +/-Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
