// Package result derives the human-facing summary from a completed
// qCSF engine: the plausibility guard, AULCSF rank bucketing, Snellen
// prediction, and landmark evaluation of spec.md §4.8.
package result

import (
	"fmt"
	"math"

	"github.com/drburke-droid/neuro-gaze-v3/csf/engine"
	"github.com/drburke-droid/neuro-gaze-v3/csf/model"
)

// Landmark is one entry of the static (name, frequency, required
// sensitivity) evaluation table of spec.md §4.8.
type Landmark struct {
	Name                string
	FreqCPD             float64
	RequiredSensitivity float64
}

// DefaultLandmarks is a representative clinical/functional landmark
// table: everyday tasks paired with the spatial frequency and
// sensitivity typically required to perform them.
func DefaultLandmarks() []Landmark {
	return []Landmark{
		{Name: "reading newsprint", FreqCPD: 2.0, RequiredSensitivity: 30},
		{Name: "recognizing faces across a room", FreqCPD: 4.0, RequiredSensitivity: 40},
		{Name: "driving, reading road signs", FreqCPD: 6.0, RequiredSensitivity: 25},
		{Name: "threading a needle", FreqCPD: 12.0, RequiredSensitivity: 8},
		{Name: "20/20 acuity chart detail", FreqCPD: 30.0, RequiredSensitivity: 2},
	}
}

// LandmarkResult is one evaluated landmark.
type LandmarkResult struct {
	Landmark Landmark
	Yours    float64
	Pass     bool
}

// Result is the full derived summary of a completed session.
type Result struct {
	Theta         model.Params
	AULCSF        float64
	Rank          string
	SnellenFrac   string
	Curve         []model.CurvePoint
	Landmarks     []LandmarkResult
	GuardsApplied []string
	History       []engine.TrialRecord
}

// ranksByThreshold is ordered highest-to-lowest so the first match
// wins (spec.md §4.8).
var ranksByThreshold = []struct {
	min  float64
	rank string
}{
	{2.0, "SUPERIOR"},
	{1.6, "ABOVE AVERAGE"},
	{1.2, "NORMAL"},
	{0.8, "BELOW AVERAGE"},
}

func rankFor(aulcsf float64) string {
	for _, r := range ranksByThreshold {
		if aulcsf > r.min {
			return r.rank
		}
	}
	return "IMPAIRED"
}

// lowFreqTrialCount counts history entries whose stimulus frequency
// fell in [0.5, 5] cpd, the plausibility guard's coverage check.
func lowFreqTrialCount(hist []engine.TrialRecord, stimFreqOf func(idx int) float64) int {
	n := 0
	for _, h := range hist {
		f := stimFreqOf(int(h.StimIndex))
		if f >= 0.5 && f <= 5 {
			n++
		}
	}
	return n
}

// applyPlausibilityGuard implements spec.md §4.8's heuristic bias and
// cutoff-frequency shrink loop, returning the (possibly adjusted)
// parameters and the list of guard names applied.
func applyPlausibilityGuard(theta model.Params, lowFreqTrials int) (model.Params, []string) {
	var applied []string

	if lowFreqTrials < 2 {
		if theta.F > 4.5 {
			theta.F = 4.5
			applied = append(applied, "low-coverage f bias")
		}
		if theta.B < 1.35 {
			theta.B = 1.35
			applied = append(applied, "low-coverage b bias")
		}
		if theta.D < 1.8 {
			theta.D = 1.8
			applied = append(applied, "low-coverage d bias")
		}
	}

	if theta.F > 10.0 {
		theta.F = 10.0
		applied = append(applied, "f clamp")
	}
	if theta.B < 1.15 {
		theta.B = 1.15
		applied = append(applied, "b clamp")
	}
	if theta.D < 1.4 {
		theta.D = 1.4
		applied = append(applied, "d clamp")
	}

	for i := 0; i < 5; i++ {
		cutoff := cutoffFreq(theta)
		if cutoff <= 42 {
			break
		}
		theta.F = math.Max(2.2, 0.9*theta.F)
		theta.B = math.Min(2.8, theta.B+0.12)
		theta.D = math.Min(3.2, theta.D+0.15)
		applied = append(applied, "cutoff shrink")
	}

	return theta, applied
}

// cutoffFreq finds the frequency where logS(f; theta) crosses 0,
// linearly interpolated in log10-frequency, clamped to 60 cpd (spec.md
// §4.8). Returns 60 if the curve never crosses within the sampled
// range (no plausible cutoff).
func cutoffFreq(theta model.Params) float64 {
	curve := model.GetCSFCurve(theta)
	for i := 1; i < len(curve); i++ {
		prev, cur := curve[i-1], curve[i]
		if prev.LogS > 0 && cur.LogS <= 0 {
			lf0 := math.Log10(prev.Freq)
			lf1 := math.Log10(cur.Freq)
			t := prev.LogS / (prev.LogS - cur.LogS)
			lf := lf0 + t*(lf1-lf0)
			f := math.Pow(10, lf)
			if f > 60 {
				return 60
			}
			return f
		}
	}
	return 60
}

// snellenFraction implements spec.md §4.8's Snellen prediction:
// 20/round(20*30/f_c).
func snellenFraction(cutoff float64) string {
	denom := math.Round(20 * 30 / cutoff)
	if denom < 1 {
		denom = 1
	}
	return fmt.Sprintf("20/%d", int(denom))
}

func evaluateLandmarks(theta model.Params, table []Landmark) []LandmarkResult {
	out := make([]LandmarkResult, len(table))
	for i, lm := range table {
		yours := math.Pow(10, model.LogSensitivity(lm.FreqCPD, theta))
		out[i] = LandmarkResult{Landmark: lm, Yours: yours, Pass: yours >= lm.RequiredSensitivity}
	}
	return out
}

// Compute derives the full Result from a completed engine. applyGuard
// toggles the plausibility guard of spec.md §4.8 (an explicit product
// decision, off by default to keep raw estimates available). stimFreqOf
// maps a history entry's stimulus index back to its frequency, letting
// the guard's coverage check work without the result package depending
// on csf/grid.
//
// If AULCSF is not finite, Compute returns the user-visible failure
// form of spec.md §4.8: {AULCSF: 0, Rank: "ERROR"} plus the raw theta so
// diagnostics remain available.
func Compute(theta model.Params, hist []engine.TrialRecord, stimFreqOf func(idx int) float64, applyGuard bool, landmarks []Landmark) Result {
	var guardsApplied []string
	effective := theta
	if applyGuard {
		lowFreqTrials := lowFreqTrialCount(hist, stimFreqOf)
		effective, guardsApplied = applyPlausibilityGuard(theta, lowFreqTrials)
	}

	aulcsf := model.ComputeAULCSF(effective)
	if !numericFinite(aulcsf) {
		return Result{
			Theta:         effective,
			AULCSF:        0,
			Rank:          "ERROR",
			GuardsApplied: guardsApplied,
			History:       hist,
		}
	}

	cutoff := cutoffFreq(effective)
	return Result{
		Theta:         effective,
		AULCSF:        aulcsf,
		Rank:          rankFor(aulcsf),
		SnellenFrac:   snellenFraction(cutoff),
		Curve:         model.GetCSFCurve(effective),
		Landmarks:     evaluateLandmarks(effective, landmarks),
		GuardsApplied: guardsApplied,
		History:       hist,
	}
}

func numericFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
