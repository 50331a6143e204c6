package result

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/drburke-droid/neuro-gaze-v3/csf/engine"
	"github.com/drburke-droid/neuro-gaze-v3/csf/model"
)

func noHistory(int) float64 { return 0 }

func TestRankBucketing(t *testing.T) {
	cases := []struct {
		aulcsf float64
		want   string
	}{
		{2.5, "SUPERIOR"},
		{1.8, "ABOVE AVERAGE"},
		{1.4, "NORMAL"},
		{1.0, "BELOW AVERAGE"},
		{0.3, "IMPAIRED"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rankFor(c.aulcsf))
	}
}

func TestComputeReturnsErrorFormOnNonFiniteAULCSF(t *testing.T) {
	theta := model.Params{G: math.NaN(), F: 4, B: 1.3, D: 1.8}
	r := Compute(theta, nil, noHistory, false, DefaultLandmarks())
	assert.Equal(t, "ERROR", r.Rank)
	assert.Equal(t, 0.0, r.AULCSF)
}

func TestSnellenCutoffAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		theta := model.Params{
			G: rapid.Float64Range(0.5, 2.8).Draw(t, "g"),
			F: rapid.Float64Range(0.5, 18).Draw(t, "f"),
			B: rapid.Float64Range(0.8, 6).Draw(t, "b"),
			D: rapid.Float64Range(0, 2.6).Draw(t, "d"),
		}
		c := cutoffFreq(theta)
		if c <= 0 || c > 60 {
			t.Fatalf("cutoff out of (0,60]: %v", c)
		}
	})
}

func TestSnellenFractionFormat(t *testing.T) {
	frac := snellenFraction(30)
	assert.True(t, strings.HasPrefix(frac, "20/"))
}

func TestPlausibilityGuardBiasesOnLowCoverage(t *testing.T) {
	theta := model.Params{G: 2.0, F: 9.0, B: 1.0, D: 1.0}
	adjusted, applied := applyPlausibilityGuard(theta, 0)
	assert.LessOrEqual(t, adjusted.F, 4.5)
	assert.GreaterOrEqual(t, adjusted.B, 1.35)
	assert.GreaterOrEqual(t, adjusted.D, 1.8)
	assert.NotEmpty(t, applied)
}

func TestPlausibilityGuardClampsAlways(t *testing.T) {
	theta := model.Params{G: 2.0, F: 20.0, B: 0.5, D: 0.5}
	adjusted, applied := applyPlausibilityGuard(theta, 10)
	assert.LessOrEqual(t, adjusted.F, 10.0)
	assert.GreaterOrEqual(t, adjusted.B, 1.15)
	assert.GreaterOrEqual(t, adjusted.D, 1.4)
	assert.NotEmpty(t, applied)
}

func TestPlausibilityGuardNoOpWhenAlreadyPlausible(t *testing.T) {
	theta := model.Params{G: 2.0, F: 4.0, B: 1.5, D: 2.0}
	_, applied := applyPlausibilityGuard(theta, 10)
	assert.Empty(t, applied)
}

func TestLandmarkEvaluationPassFailConsistentWithSensitivity(t *testing.T) {
	theta := model.Params{G: 2.0, F: 4.0, B: 1.3, D: 1.8}
	results := evaluateLandmarks(theta, DefaultLandmarks())
	for _, r := range results {
		want := r.Yours >= r.Landmark.RequiredSensitivity
		assert.Equal(t, want, r.Pass)
	}
}

func TestComputeWithoutGuardLeavesThetaUnchanged(t *testing.T) {
	theta := model.Params{G: 2.0, F: 20.0, B: 0.5, D: 0.5}
	r := Compute(theta, nil, noHistory, false, DefaultLandmarks())
	assert.Equal(t, theta, r.Theta)
	assert.Empty(t, r.GuardsApplied)
}

func TestLowFreqTrialCount(t *testing.T) {
	hist := []engine.TrialRecord{
		{Trial: 1, StimIndex: 0, Correct: true},
		{Trial: 2, StimIndex: 1, Correct: false},
	}
	freqs := []float64{2.0, 8.0}
	n := lowFreqTrialCount(hist, func(i int) float64 { return freqs[i] })
	assert.Equal(t, 1, n)
}
