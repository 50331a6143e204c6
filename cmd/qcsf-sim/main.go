// Command qcsf-sim drives the qCSF engine with a simulated observer
// (ideal or lapse-prone) and prints a final report, the engine's
// analogue of the teacher's piano-fit-fast optimizer loop.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/drburke-droid/neuro-gaze-v3/csf/engine"
	"github.com/drburke-droid/neuro-gaze-v3/csf/model"
	"github.com/drburke-droid/neuro-gaze-v3/result"
	"github.com/drburke-droid/neuro-gaze-v3/sessionconfig"
)

type trialLog struct {
	Trial    int     `json:"trial"`
	FreqCPD  float64 `json:"freq_cpd"`
	Contrast float64 `json:"contrast"`
	Correct  bool    `json:"correct"`
}

type simReport struct {
	Trials        int              `json:"trials"`
	TrueTheta     model.Params     `json:"true_theta"`
	EstimateMAP   model.Params     `json:"estimate_map"`
	EstimateMean  model.Params     `json:"estimate_mean"`
	AULCSF        float64          `json:"aulcsf"`
	Rank          string           `json:"rank"`
	Snellen       string           `json:"snellen"`
	GuardsApplied []string         `json:"guards_applied,omitempty"`
	Warnings      []engine.Warning `json:"warnings,omitempty"`
	Log           []trialLog       `json:"log,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Optional session config JSON path (default: engine.DefaultConfig)")
	trials := flag.Int("trials", 50, "Number of simulated trials")
	seed := flag.Int64("seed", 1, "Random seed for the simulated observer and engine tie-breaks")
	lapseRate := flag.Float64("observer-lapse", 0.0, "Probability the simulated observer answers randomly regardless of visibility")
	trueG := flag.Float64("true-g", 2.0, "Simulated observer's true peak gain")
	trueF := flag.Float64("true-f", 4.0, "Simulated observer's true peak frequency (cpd)")
	trueB := flag.Float64("true-b", 1.3, "Simulated observer's true bandwidth")
	trueD := flag.Float64("true-d", 1.8, "Simulated observer's true low-frequency truncation")
	applyGuard := flag.Bool("plausibility-guard", false, "Apply the plausibility guard before reporting")
	verbose := flag.Bool("verbose", false, "Include per-trial log in the report")
	flag.Parse()

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := sessionconfig.LoadJSON(*configPath)
		if err != nil {
			die("failed to load session config: %v", err)
		}
		cfg = loaded
	}
	cfg.RandSeed = *seed

	e, err := engine.New(cfg)
	if err != nil {
		die("failed to construct engine: %v", err)
	}

	trueTheta := model.Params{G: *trueG, F: *trueF, B: *trueB, D: *trueD}
	observer := rand.New(rand.NewSource(*seed + 1))

	var log []trialLog
	for i := 0; i < *trials; i++ {
		sel := e.SelectStimulus()
		correct := simulateResponse(observer, trueTheta, sel.FreqCPD, sel.LogContrast, *lapseRate)
		if err := e.Update(sel.StimIndex, correct); err != nil {
			die("update failed at trial %d: %v", i, err)
		}
		if *verbose {
			log = append(log, trialLog{Trial: i + 1, FreqCPD: sel.FreqCPD, Contrast: sel.Contrast, Correct: correct})
		}
	}

	est := e.GetEstimate()
	expected := e.GetExpectedEstimate()
	hist := e.History()

	r := result.Compute(expected, hist, func(idx int) float64 {
		// Stimulus grid points are laid out freq-major, logContrast-minor
		// (csf/grid.NewStimulusGrid), so the frequency index is the
		// stimulus index divided by the log-contrast list length.
		freqIdx := idx / len(cfg.StimLogContrasts)
		return cfg.StimFreqs[freqIdx]
	}, *applyGuard, result.DefaultLandmarks())

	report := simReport{
		Trials:        e.TrialCount(),
		TrueTheta:     trueTheta,
		EstimateMAP:   est,
		EstimateMean:  expected,
		AULCSF:        r.AULCSF,
		Rank:          r.Rank,
		Snellen:       r.SnellenFrac,
		GuardsApplied: r.GuardsApplied,
		Warnings:      e.Warnings(),
		Log:           log,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		die("failed to encode report: %v", err)
	}
}

// simulateResponse draws a correct/incorrect outcome for an observer
// whose true CSF is trueTheta: correct with probability
// psi = 1/(1+exp(-3.5*x)), x = logS - (-logContrast), the logistic core
// of the engine's likelihood matrix. It applies no guess rate, no lapse
// rate and no clamping, and its slope stays 3.5 whatever the session
// config sets; lapses come only from lapseRate, answered 50/50.
func simulateResponse(rng *rand.Rand, trueTheta model.Params, freq, logContrast, lapseRate float64) bool {
	if lapseRate > 0 && rng.Float64() < lapseRate {
		return rng.Float64() < 0.5
	}
	logS := model.LogSensitivity(freq, trueTheta)
	x := logS - (-logContrast)
	psi := 1.0 / (1.0 + math.Exp(-3.5*x))
	return rng.Float64() < psi
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
