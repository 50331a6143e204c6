package sessionconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drburke-droid/neuro-gaze-v3/csf/engine"
)

func TestLoadJSONAppliesOverridesOnDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	content := `{
  "num_afc": 10,
  "psychometric_slope": 4.05,
  "lapse": 0.02,
  "robust_likelihood_mix": 0.05,
  "rand_seed": 99,
  "boundary_weight_enabled": true,
  "low_mid_freq_boost_enabled": true
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.NumAFC)
	assert.InDelta(t, 4.05, cfg.PsychometricSlope, 1e-12)
	assert.InDelta(t, 0.02, cfg.Lapse, 1e-12)
	assert.InDelta(t, 0.05, cfg.RobustLikelihoodMix, 1e-12)
	assert.Equal(t, int64(99), cfg.RandSeed)
	assert.True(t, cfg.BoundaryWeightEnabled)
	assert.True(t, cfg.LowMidFreqBoostEnabled)

	// Untouched fields keep their defaults.
	def := engine.DefaultConfig()
	assert.Equal(t, def.PeakGainValues, cfg.PeakGainValues)
}

func TestLoadJSONRejectsInvalidNumAFC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"num_afc": 3}`), 0o644))

	_, err := LoadJSON(path)
	assert.Error(t, err)
}

func TestLoadJSONRejectsMissingFile(t *testing.T) {
	_, err := LoadJSON("/nonexistent/session.json")
	assert.Error(t, err)
}

func TestApplyFileNilIsNoOp(t *testing.T) {
	cfg := engine.DefaultConfig()
	before := cfg
	require.NoError(t, ApplyFile(&cfg, nil))
	assert.Equal(t, before, cfg)
}

func TestApplyFileOverridesGrids(t *testing.T) {
	cfg := engine.DefaultConfig()
	f := &File{StimFreqs: []float64{1, 2, 3}}
	require.NoError(t, ApplyFile(&cfg, f))
	assert.Equal(t, []float64{1, 2, 3}, cfg.StimFreqs)
}

func TestApplyFileRejectsBadRobustMix(t *testing.T) {
	cfg := engine.DefaultConfig()
	bad := 0.5
	f := &File{RobustLikelihoodMix: &bad}
	assert.Error(t, ApplyFile(&cfg, f))
}
