// Package engine implements the qCSF Bayesian adaptive procedure of
// Lesmes et al. (2010): stimulus selection by one-step-ahead expected
// entropy minimization, posterior update, and posterior summaries
// (spec.md §4.7).
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/drburke-droid/neuro-gaze-v3/csf/grid"
	"github.com/drburke-droid/neuro-gaze-v3/csf/model"
	"github.com/drburke-droid/neuro-gaze-v3/numeric"
)

// TrialRecord is one observed trial in the append-only history
// (spec.md §3).
type TrialRecord struct {
	Trial     uint32
	StimIndex uint32
	Correct   bool
}

// Warning is a non-fatal structured diagnostic surfaced alongside
// results (spec.md §7).
type Warning struct {
	Trial   int
	Kind    string
	Message string
}

// Selection is what selectStimulus hands back to the embedder
// (spec.md §6).
type Selection struct {
	FreqCPD     float64
	Contrast    float64
	LogContrast float64
	StimIndex   int
}

// Engine is the single-threaded qCSF adaptive state machine. It owns
// G_Theta, G_S, M, the posterior pi, and the trial history exclusively;
// two instances never share mutable state (spec.md §5, §9).
type Engine struct {
	cfg Config

	paramGrid *grid.ParamGrid
	stimGrid  *grid.StimulusGrid
	m         [][]float64 // m[h][s], immutable after construction

	pi      []float64
	history []TrialRecord
	trialCount int
	warnings   []Warning

	rng *rand.Rand

	// Reused per-trial scratch (spec.md §5: "should be reused across
	// trials").
	entropyScratch []float64
	rankScratch    []int

	lastSelection  *Selection
	lastSelectTrial int
}

// New constructs an Engine from cfg, building G_Theta, G_S, and the
// likelihood matrix M, and initializing pi to a uniform distribution.
// Configuration errors (empty grids, invalid rates) are fatal for the
// session (spec.md §7).
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	paramGrid, err := grid.NewParamGrid(cfg.PeakGainValues, cfg.PeakFreqValues, cfg.BandwidthValues, cfg.TruncationValues)
	if err != nil {
		return nil, err
	}
	if cfg.HighCutoffPrune {
		paramGrid = pruneHighCutoff(paramGrid)
		if len(paramGrid.Points) == 0 {
			return nil, fmt.Errorf("engine: highCutoffPrune removed every parameter grid point")
		}
	}

	stimGrid, err := grid.NewStimulusGrid(cfg.StimFreqs, cfg.StimLogContrasts)
	if err != nil {
		return nil, err
	}

	lp := grid.LikelihoodParams{
		Alpha:  cfg.PsychometricSlope,
		Gamma:  cfg.gamma(),
		Lambda: cfg.Lapse,
	}
	m := grid.BuildLikelihoodMatrix(paramGrid, stimGrid, lp)

	pi := make([]float64, len(paramGrid.Points))
	uniform := 1.0 / float64(len(pi))
	for i := range pi {
		pi[i] = uniform
	}

	return &Engine{
		cfg:             cfg,
		paramGrid:       paramGrid,
		stimGrid:        stimGrid,
		m:               m,
		pi:              pi,
		history:         make([]TrialRecord, 0, 64),
		rng:             rand.New(rand.NewSource(cfg.RandSeed)),
		entropyScratch:  make([]float64, len(stimGrid.Points)),
		rankScratch:     make([]int, len(stimGrid.Points)),
		lastSelectTrial: -1,
	}, nil
}

func pruneHighCutoff(g *grid.ParamGrid) *grid.ParamGrid {
	kept := make([]model.Params, 0, len(g.Points))
	for _, p := range g.Points {
		if model.LogSensitivity(60, p) <= 0 {
			kept = append(kept, p)
		}
	}
	return &grid.ParamGrid{Points: kept}
}

// NumParamPoints returns |G_Theta|.
func (e *Engine) NumParamPoints() int { return len(e.paramGrid.Points) }

// NumStimPoints returns |G_S|.
func (e *Engine) NumStimPoints() int { return len(e.stimGrid.Points) }

// TrialCount returns the number of update() calls completed so far.
func (e *Engine) TrialCount() int { return e.trialCount }

// Posterior returns a defensive copy of the current posterior mass
// over G_Theta.
func (e *Engine) Posterior() []float64 {
	out := make([]float64, len(e.pi))
	copy(out, e.pi)
	return out
}

// History returns a defensive copy of the trial history so the
// embedder cannot mutate engine-owned state.
func (e *Engine) History() []TrialRecord {
	out := make([]TrialRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Warnings returns a defensive copy of the accumulated non-fatal
// warnings.
func (e *Engine) Warnings() []Warning {
	out := make([]Warning, len(e.warnings))
	copy(out, e.warnings)
	return out
}

// SelectStimulus picks the stimulus expected to maximally reduce
// posterior entropy (spec.md §4.7). It must be called before each
// Update, with Update receiving the StimIndex from the most recent
// SelectStimulus (spec.md §5); this ordering is not enforced.
func (e *Engine) SelectStimulus() Selection {
	pbar := make([]float64, len(e.stimGrid.Points))
	allNonFinite := true

	for s := range e.stimGrid.Points {
		p := e.expectedPCorrect(s)
		pbar[s] = p
		h := e.expectedEntropy(s, p)
		if e.cfg.BoundaryWeightEnabled || e.cfg.LowMidFreqBoostEnabled {
			h = e.applyRankingWeights(h, e.stimGrid.Points[s])
		}
		e.entropyScratch[s] = h
		if numeric.IsFinite(h) {
			allNonFinite = false
		}
	}

	var idx int
	if allNonFinite {
		idx = argmax(pbar)
		e.warnings = append(e.warnings, Warning{
			Trial:   e.trialCount,
			Kind:    "degenerate-posterior",
			Message: "all candidate stimuli had non-finite expected entropy; selected max p-correct instead",
		})
	} else {
		idx = e.pickFromTopK()
	}

	st := e.stimGrid.Points[idx]
	sel := Selection{
		FreqCPD:     st.FreqCPD,
		Contrast:    st.Contrast,
		LogContrast: st.LogContrast,
		StimIndex:   idx,
	}
	e.lastSelection = &sel
	e.lastSelectTrial = e.trialCount
	return sel
}

// expectedPCorrect computes p-bar = sum_h pi_h * M[h,s].
func (e *Engine) expectedPCorrect(s int) float64 {
	var pbar float64
	for h := range e.pi {
		pbar += e.pi[h] * e.m[h][s]
	}
	return pbar
}

// expectedEntropy computes E[s] = pbar*Hc + (1-pbar)*Hi per spec.md
// §4.7, guarding tiny numerators per spec.md §4.7's "skip terms where
// numerator < 1e-30".
func (e *Engine) expectedEntropy(s int, pbar float64) float64 {
	var hc, hi float64
	for h := range e.pi {
		pm := e.pi[h] * e.m[h][s]
		if pm >= 1e-30 && pbar > 0 {
			q := pm / pbar
			hc -= q * numeric.Log2Safe(q)
		}
		pim := e.pi[h] * (1 - e.m[h][s])
		if pim >= 1e-30 && (1-pbar) > 0 {
			q := pim / (1 - pbar)
			hi -= q * numeric.Log2Safe(q)
		}
	}
	return pbar*hc + (1-pbar)*hi
}

// applyRankingWeights applies the optional boundary-weight and
// low/mid-frequency-emphasis multipliers documented in spec.md §4.7.
func (e *Engine) applyRankingWeights(entropy float64, st grid.StimulusPoint) float64 {
	weighted := entropy
	if e.cfg.BoundaryWeightEnabled {
		logSHat := model.LogSensitivity(st.FreqCPD, e.GetExpectedEstimate())
		sigma := e.cfg.BoundarySigmaLogC
		if sigma <= 0 {
			sigma = 0.5
		}
		diff := (st.LogContrast - (-logSHat)) / sigma
		wb := math.Exp(-0.5 * diff * diff)
		weighted *= 1 + wb
	}
	if e.cfg.LowMidFreqBoostEnabled && st.FreqCPD >= 1 && st.FreqCPD <= 5 {
		boost := e.cfg.LowMidFreqBoost
		if boost <= 0 {
			boost = 1.35
		}
		weighted *= boost
	}
	return weighted
}

// pickFromTopK breaks ties among the k lowest-entropy stimuli by
// uniform random choice, k=5 while trialCount < 8, else the top decile
// (spec.md §4.7).
func (e *Engine) pickFromTopK() int {
	n := len(e.entropyScratch)
	for i := range e.rankScratch {
		e.rankScratch[i] = i
	}
	sort.Slice(e.rankScratch, func(i, j int) bool {
		return e.entropyScratch[e.rankScratch[i]] < e.entropyScratch[e.rankScratch[j]]
	})

	k := 5
	if e.trialCount >= 8 {
		k = int(math.Ceil(0.1 * float64(n)))
		if k < 1 {
			k = 1
		}
	}
	if k > n {
		k = n
	}
	pick := e.rankScratch[e.rng.Intn(k)]
	return pick
}

func argmax(xs []float64) int {
	best := 0
	for i, v := range xs {
		if v > xs[best] {
			best = i
		}
	}
	return best
}

// Update applies an observed trial outcome to the posterior (spec.md
// §4.7). stimIndex must be the index returned by the most recent
// SelectStimulus; an out-of-range index is a precondition violation.
func (e *Engine) Update(stimIndex int, correct bool) error {
	if stimIndex < 0 || stimIndex >= len(e.stimGrid.Points) {
		return fmt.Errorf("engine: stimIndex %d out of range [0,%d)", stimIndex, len(e.stimGrid.Points))
	}

	prev := make([]float64, len(e.pi))
	copy(prev, e.pi)

	rho := e.cfg.RobustLikelihoodMix
	for h := range e.pi {
		raw := e.m[h][stimIndex]
		if !correct {
			raw = 1 - raw
		}
		obs := (1-rho)*raw + rho*0.5
		e.pi[h] *= obs
	}
	total := numeric.Sum(e.pi)

	if total > 0 {
		for h := range e.pi {
			e.pi[h] /= total
		}
	} else {
		copy(e.pi, prev)
		e.warnings = append(e.warnings, Warning{
			Trial:   e.trialCount,
			Kind:    "zero-posterior-mass",
			Message: "posterior mass summed to 0 after update; previous posterior retained",
		})
	}

	e.trialCount++
	e.history = append(e.history, TrialRecord{
		Trial:     uint32(e.trialCount),
		StimIndex: uint32(stimIndex),
		Correct:   correct,
	})
	return nil
}

// GetEstimate returns the posterior mode (MAP): the grid point with
// maximum posterior mass.
func (e *Engine) GetEstimate() model.Params {
	idx := argmax(e.pi)
	return e.paramGrid.Points[idx]
}

// GetExpectedEstimate returns the posterior mean, with f averaged in
// log10 space (spec.md §4.7).
func (e *Engine) GetExpectedEstimate() model.Params {
	var gM, logFM, bM, dM float64
	for h, p := range e.paramGrid.Points {
		w := e.pi[h]
		gM += w * p.G
		logFM += w * math.Log10(numeric.ClampFreq(p.F))
		bM += w * p.B
		dM += w * p.D
	}
	return model.Params{
		G: gM,
		F: math.Pow(10, logFM),
		B: bM,
		D: dM,
	}
}

// EvaluateCSF returns logS(freq; Theta) per spec.md §3.
func (e *Engine) EvaluateCSF(freq float64, theta model.Params) float64 {
	return model.LogSensitivity(freq, theta)
}

// ComputeAULCSF returns the area under the log-CSF for theta.
func (e *Engine) ComputeAULCSF(theta model.Params) float64 {
	return model.ComputeAULCSF(theta)
}

// GetCSFCurve returns sampled (freq, logS) pairs for theta.
func (e *Engine) GetCSFCurve(theta model.Params) []model.CurvePoint {
	return model.GetCSFCurve(theta)
}

// Entropy returns the Shannon entropy (bits) of the current posterior,
// used by tests to verify the "stimulus selection reduces entropy"
// end-to-end scenario of spec.md §8.
func Entropy(pi []float64) float64 {
	var h float64
	for _, p := range pi {
		if p > 0 {
			h -= p * numeric.Log2Safe(p)
		}
	}
	return h
}
