package engine

import (
	"fmt"

	"github.com/drburke-droid/neuro-gaze-v3/csf/grid"
)

// Config holds the construction-time options of spec.md §4.7/§6, with
// the defaults spec.md documents.
type Config struct {
	NumAFC            int     // {1, 4, 10}
	PsychometricSlope float64 // alpha; 3.5 for Gabor/E, ~4.05 for Sloan
	Lapse             float64 // lambda, default 0.04
	FalseAlarmRate    float64 // used when NumAFC == 1, default 0.01

	PeakGainValues   []float64
	PeakFreqValues   []float64
	BandwidthValues  []float64
	TruncationValues []float64
	StimFreqs        []float64
	StimLogContrasts []float64

	RobustLikelihoodMix float64 // rho, default 0.03

	// RandSeed makes top-k tie-break selection deterministic given a
	// seed (spec.md §9).
	RandSeed int64

	// Optional ranking refinements (spec.md §4.7); both default off and
	// must be explicitly enabled.
	BoundaryWeightEnabled  bool
	BoundarySigmaLogC      float64
	LowMidFreqBoostEnabled bool
	LowMidFreqBoost        float64

	// HighCutoffPrune rejects parameter grid points whose logS(60 cpd) > 0
	// (spec.md §6).
	HighCutoffPrune bool
}

// DefaultConfig returns a Config populated with spec.md's documented
// defaults and default grids for a 4-AFC stimulus family.
func DefaultConfig() Config {
	return Config{
		NumAFC:                 4,
		PsychometricSlope:      3.5,
		Lapse:                  0.04,
		FalseAlarmRate:         0.01,
		PeakGainValues:         grid.DefaultPeakGainValues(),
		PeakFreqValues:         grid.DefaultPeakFreqValues(),
		BandwidthValues:        grid.DefaultBandwidthValues(),
		TruncationValues:       grid.DefaultTruncationValues(),
		StimFreqs:              grid.DefaultStimFreqs(),
		StimLogContrasts:       grid.DefaultStimLogContrasts(),
		RobustLikelihoodMix:    0.03,
		RandSeed:               1,
		BoundarySigmaLogC:      0.5,
		LowMidFreqBoost:        1.35,
	}
}

func (c Config) validate() error {
	if c.NumAFC != 1 && c.NumAFC != 4 && c.NumAFC != 10 {
		return fmt.Errorf("engine: numAFC must be one of {1,4,10}, got %d", c.NumAFC)
	}
	if c.PsychometricSlope <= 0 {
		return fmt.Errorf("engine: psychometricSlope must be > 0")
	}
	if c.Lapse < 0 || c.Lapse >= 1 {
		return fmt.Errorf("engine: lapse must be in [0,1)")
	}
	if c.RobustLikelihoodMix < 0 || c.RobustLikelihoodMix > 0.1 {
		return fmt.Errorf("engine: robustLikelihoodMix must be in [0,0.1]")
	}
	if len(c.PeakGainValues) == 0 || len(c.PeakFreqValues) == 0 || len(c.BandwidthValues) == 0 || len(c.TruncationValues) == 0 {
		return fmt.Errorf("engine: parameter grid value lists must be non-empty")
	}
	if len(c.StimFreqs) == 0 || len(c.StimLogContrasts) == 0 {
		return fmt.Errorf("engine: stimulus grid value lists must be non-empty")
	}
	return nil
}

func (c Config) gamma() float64 {
	return grid.GuessRate(c.NumAFC, c.FalseAlarmRate)
}
