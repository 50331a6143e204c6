// Package model implements the CSF parametric form, AULCSF, and
// CSF-curve sampling (spec.md §3, §4.7). This implementation uses
// Variant A, the truncated log-parabola of Lesmes et al.; see
// DESIGN.md for why Variant B was not also implemented.
package model

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/drburke-droid/neuro-gaze-v3/numeric"
)

// kappa is the log-parabola's curvature normalization. b is treated
// as a half-power (sqrt(2)-sensitivity-drop, -3dB-style) bandwidth
// rather than a half-amplitude one, so at beta'/2 (log10 units) off
// peak logS sits log10(sqrt(2)) below g, not log10(2) below it; that
// is kappa = log10(2)/2, not log10(2).
var kappa = math.Log10(2) / 2

// Params is a CSF parameter point Theta = (g, f, b, d).
type Params struct {
	G float64 // peak log10 sensitivity, ~[0.5, 2.8]
	F float64 // peak/knee spatial frequency in cpd, ~[0.5, 18]
	B float64 // bandwidth/curvature control, ~[0.8, 6]
	D float64 // low-frequency truncation: logS is floored at G-D for freq <= F, ~[0, 2.6]
}

// LogSensitivity evaluates logS(freq; Theta) using the truncated
// log-parabola (Variant A, spec.md §3):
//
//	logS(freq) = g - kappa * ((log10(freq) - log10(f)) / (beta'/2))^2
//
// with beta' = log10(2^b), floored at g-d for freq <= f. freq is
// clamped to >= 0.05 before any logarithm, per spec.md §3.
func LogSensitivity(freq float64, p Params) float64 {
	freq = numeric.ClampFreq(freq)
	betaPrime := math.Log10(math.Pow(2, p.B))
	if betaPrime == 0 {
		betaPrime = 1e-9
	}
	delta := (math.Log10(freq) - math.Log10(numeric.ClampFreq(p.F))) / (betaPrime / 2)
	logS := p.G - kappa*delta*delta

	if freq <= p.F {
		floor := p.G - p.D
		if logS < floor {
			logS = floor
		}
	}
	return logS
}

// PeakFreq returns the parameter point's peak (knee) spatial frequency,
// used by the monotonicity invariant (spec.md §8: "logS is
// non-increasing for f >= f_peak").
func PeakFreq(p Params) float64 {
	return numeric.ClampFreq(p.F)
}

// ComputeAULCSF integrates max(0, logS(f)) over log10(f) in
// [log10(0.5), log10(36)] with N=500 trapezoidal panels (spec.md
// §4.7), using gonum's trapezoidal integration routine.
func ComputeAULCSF(p Params) float64 {
	const panels = 500
	const loLog, hiLog = -0.3010299956639812, 1.5563025007672873 // log10(0.5), log10(36)

	logFreqs := numeric.Linspace(loLog, hiLog, panels+1)
	values := make([]float64, len(logFreqs))
	for i, lf := range logFreqs {
		freq := math.Pow(10, lf)
		v := LogSensitivity(freq, p)
		if v < 0 {
			v = 0
		}
		values[i] = v
	}
	area := integrate.Trapezoidal(logFreqs, values)
	if area < 0 {
		return 0
	}
	return area
}

// CurvePoint is one sampled (freq, logS) pair of a CSF curve.
type CurvePoint struct {
	Freq  float64
	LogS  float64
}

// GetCSFCurve samples >=100 (freq, logS) pairs log-spaced over
// f in [10^-0.3, 10^1.7] cpd (spec.md §4.7), for downstream plotting by
// an external collaborator.
func GetCSFCurve(p Params) []CurvePoint {
	const n = 120
	freqs := numeric.Logspace(-0.3, 1.7, n)
	out := make([]CurvePoint, n)
	for i, f := range freqs {
		out[i] = CurvePoint{Freq: f, LogS: LogSensitivity(f, p)}
	}
	return out
}
