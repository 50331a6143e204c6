package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/drburke-droid/neuro-gaze-v3/csf/model"
)

func TestNewParamGridCartesianSize(t *testing.T) {
	pg, err := NewParamGrid([]float64{1, 2}, []float64{1, 2, 3}, []float64{1}, []float64{1, 2})
	require.NoError(t, err)
	assert.Len(t, pg.Points, 2*3*1*2)
}

func TestNewParamGridRejectsEmptyList(t *testing.T) {
	_, err := NewParamGrid(nil, []float64{1}, []float64{1}, []float64{1})
	assert.Error(t, err)
}

func TestNewParamGridRejectsOverBudget(t *testing.T) {
	big := make([]float64, 10)
	for i := range big {
		big[i] = float64(i)
	}
	_, err := NewParamGrid(big, big, big, big) // 10^4 = 10000 > 5000
	assert.Error(t, err)
}

func TestNewStimulusGridContrastMatchesLogContrast(t *testing.T) {
	sg, err := NewStimulusGrid([]float64{1, 2}, []float64{-1, 0})
	require.NoError(t, err)
	for _, p := range sg.Points {
		assert.InDelta(t, p.Contrast, math.Pow(10, p.LogContrast), 1e-12)
	}
}

func TestLikelihoodMatrixBounds(t *testing.T) {
	pg, err := NewParamGrid(DefaultPeakGainValues(), DefaultPeakFreqValues(), DefaultBandwidthValues(), DefaultTruncationValues())
	require.NoError(t, err)
	sg, err := NewStimulusGrid(DefaultStimFreqs(), DefaultStimLogContrasts())
	require.NoError(t, err)

	m := BuildLikelihoodMatrix(pg, sg, LikelihoodParams{Alpha: 3.5, Gamma: 0.25, Lambda: 0.04})
	require.Len(t, m, len(pg.Points))
	for _, row := range m {
		require.Len(t, row, len(sg.Points))
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.001)
			assert.LessOrEqual(t, v, 0.999)
		}
	}
}

func TestLikelihoodMatrixBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		theta := model.Params{
			G: rapid.Float64Range(0.5, 2.8).Draw(t, "g"),
			F: rapid.Float64Range(0.5, 18).Draw(t, "f"),
			B: rapid.Float64Range(0.8, 6).Draw(t, "b"),
			D: rapid.Float64Range(0, 2.6).Draw(t, "d"),
		}
		pg := &ParamGrid{Points: []model.Params{theta}}
		sg, err := NewStimulusGrid([]float64{rapid.Float64Range(0.5, 24).Draw(t, "freq")}, []float64{rapid.Float64Range(-3, 0).Draw(t, "logc")})
		require.NoError(t, err)

		m := BuildLikelihoodMatrix(pg, sg, LikelihoodParams{Alpha: 3.5, Gamma: 0.25, Lambda: 0.04})
		v := m[0][0]
		assert.GreaterOrEqual(t, v, 0.001)
		assert.LessOrEqual(t, v, 0.999)
	})
}

func TestGuessRate(t *testing.T) {
	assert.InDelta(t, 0.25, GuessRate(4, 0.01), 1e-12)
	assert.InDelta(t, 0.1, GuessRate(10, 0.01), 1e-12)
	assert.InDelta(t, 0.01, GuessRate(1, 0.01), 1e-12)
}
