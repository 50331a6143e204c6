// Package sessionconfig loads qCSF engine tuning from JSON, mirroring
// the teacher's preset loader: optional-pointer fields applied on top
// of defaults, validated field-by-field (spec.md §6 expansion). It
// carries no observer data, only engine configuration, so it does not
// violate the "no persistence of observer data" non-goal.
package sessionconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/drburke-droid/neuro-gaze-v3/csf/engine"
)

// File is the JSON schema for a session configuration document.
type File struct {
	NumAFC            *int     `json:"num_afc"`
	PsychometricSlope *float64 `json:"psychometric_slope"`
	Lapse             *float64 `json:"lapse"`
	FalseAlarmRate    *float64 `json:"false_alarm_rate"`

	PeakGainValues   []float64 `json:"peak_gain_values"`
	PeakFreqValues   []float64 `json:"peak_freq_values"`
	BandwidthValues  []float64 `json:"bandwidth_values"`
	TruncationValues []float64 `json:"truncation_values"`
	StimFreqs        []float64 `json:"stim_freqs"`
	StimLogContrasts []float64 `json:"stim_log_contrasts"`

	RobustLikelihoodMix *float64 `json:"robust_likelihood_mix"`
	RandSeed            *int64   `json:"rand_seed"`

	BoundaryWeightEnabled  *bool    `json:"boundary_weight_enabled"`
	BoundarySigmaLogC      *float64 `json:"boundary_sigma_log_c"`
	LowMidFreqBoostEnabled *bool    `json:"low_mid_freq_boost_enabled"`
	LowMidFreqBoost        *float64 `json:"low_mid_freq_boost"`

	HighCutoffPrune *bool `json:"high_cutoff_prune"`
}

// LoadJSON reads path and applies it on top of engine.DefaultConfig().
func LoadJSON(path string) (engine.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return engine.Config{}, err
	}

	cfg := engine.DefaultConfig()
	if err := ApplyFile(&cfg, &f); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// ApplyFile applies a parsed session config file onto an existing
// engine.Config, validating each field as it is applied.
func ApplyFile(dst *engine.Config, f *File) error {
	if dst == nil {
		return fmt.Errorf("sessionconfig: nil destination config")
	}
	if f == nil {
		return nil
	}

	if f.NumAFC != nil {
		if *f.NumAFC != 1 && *f.NumAFC != 4 && *f.NumAFC != 10 {
			return fmt.Errorf("sessionconfig: num_afc must be one of 1, 4, 10")
		}
		dst.NumAFC = *f.NumAFC
	}
	if f.PsychometricSlope != nil {
		if *f.PsychometricSlope <= 0 {
			return fmt.Errorf("sessionconfig: psychometric_slope must be > 0")
		}
		dst.PsychometricSlope = *f.PsychometricSlope
	}
	if f.Lapse != nil {
		if *f.Lapse < 0 || *f.Lapse >= 1 {
			return fmt.Errorf("sessionconfig: lapse must be in [0,1)")
		}
		dst.Lapse = *f.Lapse
	}
	if f.FalseAlarmRate != nil {
		if *f.FalseAlarmRate < 0 || *f.FalseAlarmRate >= 1 {
			return fmt.Errorf("sessionconfig: false_alarm_rate must be in [0,1)")
		}
		dst.FalseAlarmRate = *f.FalseAlarmRate
	}

	if len(f.PeakGainValues) > 0 {
		dst.PeakGainValues = f.PeakGainValues
	}
	if len(f.PeakFreqValues) > 0 {
		dst.PeakFreqValues = f.PeakFreqValues
	}
	if len(f.BandwidthValues) > 0 {
		dst.BandwidthValues = f.BandwidthValues
	}
	if len(f.TruncationValues) > 0 {
		dst.TruncationValues = f.TruncationValues
	}
	if len(f.StimFreqs) > 0 {
		dst.StimFreqs = f.StimFreqs
	}
	if len(f.StimLogContrasts) > 0 {
		dst.StimLogContrasts = f.StimLogContrasts
	}

	if f.RobustLikelihoodMix != nil {
		if *f.RobustLikelihoodMix < 0 || *f.RobustLikelihoodMix > 0.1 {
			return fmt.Errorf("sessionconfig: robust_likelihood_mix must be in [0,0.1]")
		}
		dst.RobustLikelihoodMix = *f.RobustLikelihoodMix
	}
	if f.RandSeed != nil {
		dst.RandSeed = *f.RandSeed
	}

	if f.BoundaryWeightEnabled != nil {
		dst.BoundaryWeightEnabled = *f.BoundaryWeightEnabled
	}
	if f.BoundarySigmaLogC != nil {
		if *f.BoundarySigmaLogC <= 0 {
			return fmt.Errorf("sessionconfig: boundary_sigma_log_c must be > 0")
		}
		dst.BoundarySigmaLogC = *f.BoundarySigmaLogC
	}
	if f.LowMidFreqBoostEnabled != nil {
		dst.LowMidFreqBoostEnabled = *f.LowMidFreqBoostEnabled
	}
	if f.LowMidFreqBoost != nil {
		if *f.LowMidFreqBoost <= 0 {
			return fmt.Errorf("sessionconfig: low_mid_freq_boost must be > 0")
		}
		dst.LowMidFreqBoost = *f.LowMidFreqBoost
	}

	if f.HighCutoffPrune != nil {
		dst.HighCutoffPrune = *f.HighCutoffPrune
	}

	return nil
}
