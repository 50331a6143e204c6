// Package grid builds the qCSF parameter grid, stimulus grid, and the
// precomputed psychometric likelihood matrix that ties them together
// (spec.md §3).
package grid

import (
	"fmt"
	"math"

	approx "github.com/cwbudde/algo-approx"

	"github.com/drburke-droid/neuro-gaze-v3/csf/model"
	"github.com/drburke-droid/neuro-gaze-v3/numeric"
)

// DefaultPeakGainValues is the default g enumeration (~10 points over
// [0.5, 2.8]).
func DefaultPeakGainValues() []float64 { return numeric.Linspace(0.5, 2.8, 10) }

// DefaultPeakFreqValues is the default f enumeration (~10 points over
// [0.5, 18] cpd), log-spaced since f is a frequency.
func DefaultPeakFreqValues() []float64 { return numeric.Logspace(math.Log10(0.5), math.Log10(18), 10) }

// DefaultBandwidthValues is the default b enumeration (5 points over
// [0.8, 6]).
func DefaultBandwidthValues() []float64 { return numeric.Linspace(0.8, 6, 5) }

// DefaultTruncationValues is the default d enumeration (5 points over
// [0, 2.6]).
func DefaultTruncationValues() []float64 { return numeric.Linspace(0, 2.6, 5) }

// DefaultStimFreqs is the default stimulus spatial-frequency list (14
// values spanning 0.5-24 cpd, log-spaced).
func DefaultStimFreqs() []float64 { return numeric.Logspace(math.Log10(0.5), math.Log10(24), 14) }

// DefaultStimLogContrasts is the default log10-contrast list: 30
// linearly spaced values in [-3, 0].
func DefaultStimLogContrasts() []float64 { return numeric.Linspace(-3, 0, 30) }

// ParamGrid is the Cartesian product of the four enumerated parameter
// value lists, G_Theta in spec.md §3.
type ParamGrid struct {
	Points []model.Params
}

// NewParamGrid builds the Cartesian product of the four value lists.
// Returns an error if any list is empty or the resulting grid would
// exceed 5000 points (spec.md §3: "<= 5000").
func NewParamGrid(gVals, fVals, bVals, dVals []float64) (*ParamGrid, error) {
	if len(gVals) == 0 || len(fVals) == 0 || len(bVals) == 0 || len(dVals) == 0 {
		return nil, fmt.Errorf("grid: parameter value lists must be non-empty")
	}
	total := len(gVals) * len(fVals) * len(bVals) * len(dVals)
	if total > 5000 {
		return nil, fmt.Errorf("grid: parameter grid would have %d points, exceeds 5000", total)
	}

	points := make([]model.Params, 0, total)
	for _, g := range gVals {
		for _, f := range fVals {
			for _, b := range bVals {
				for _, d := range dVals {
					points = append(points, model.Params{G: g, F: f, B: b, D: d})
				}
			}
		}
	}
	return &ParamGrid{Points: points}, nil
}

// StimulusPoint is one (frequency, contrast) candidate stimulus, G_S's
// element type in spec.md §3.
type StimulusPoint struct {
	FreqCPD     float64
	LogContrast float64
	Contrast    float64
}

// StimulusGrid is the Cartesian product of the spatial-frequency list
// and the log10-contrast list.
type StimulusGrid struct {
	Points []StimulusPoint
}

// NewStimulusGrid builds the Cartesian product of freqs and
// logContrasts.
func NewStimulusGrid(freqs, logContrasts []float64) (*StimulusGrid, error) {
	if len(freqs) == 0 || len(logContrasts) == 0 {
		return nil, fmt.Errorf("grid: stimulus value lists must be non-empty")
	}
	points := make([]StimulusPoint, 0, len(freqs)*len(logContrasts))
	for _, f := range freqs {
		for _, lc := range logContrasts {
			points = append(points, StimulusPoint{
				FreqCPD:     f,
				LogContrast: lc,
				Contrast:    math.Pow(10, lc),
			})
		}
	}
	return &StimulusGrid{Points: points}, nil
}

// LikelihoodParams configures the psychometric function backing the
// likelihood matrix (spec.md §3): slope alpha, guess rate gamma, lapse
// rate lambda.
type LikelihoodParams struct {
	Alpha float64
	Gamma float64
	Lambda float64
}

// BuildLikelihoodMatrix precomputes M[h][s] = Pr(correct | Theta_h, s)
// for every (parameter, stimulus) pair, row-major over h then s. The
// matrix is immutable once built (spec.md §3: "never mutated").
func BuildLikelihoodMatrix(params *ParamGrid, stim *StimulusGrid, lp LikelihoodParams) [][]float64 {
	m := make([][]float64, len(params.Points))
	for h, theta := range params.Points {
		row := make([]float64, len(stim.Points))
		for s, st := range stim.Points {
			logS := model.LogSensitivity(st.FreqCPD, theta)
			x := logS - (-st.LogContrast)
			psi := logisticPsi(x, lp.Alpha)
			p := lp.Gamma + (1-lp.Gamma-lp.Lambda)*psi
			row[s] = numeric.Clamp(p, 0.001, 0.999)
		}
		m[h] = row
	}
	return m
}

// logisticPsi evaluates psi(x) = 1 / (1 + exp(-alpha*x)), using the
// fast exponential approximation for the hot per-pair likelihood loop.
func logisticPsi(x, alpha float64) float64 {
	e := float64(approx.FastExp(float32(-alpha * x)))
	return 1.0 / (1.0 + e)
}

// GuessRate returns gamma per spec.md §4.7: 1/numAFC for numAFC >= 2,
// else falseAlarmRate for 1-AFC (yes/no) designs.
func GuessRate(numAFC int, falseAlarmRate float64) float64 {
	if numAFC >= 2 {
		return 1.0 / float64(numAFC)
	}
	return falseAlarmRate
}
