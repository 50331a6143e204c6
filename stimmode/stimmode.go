// Package stimmode binds a stimulus family (Gabor orientation
// discrimination, Gabor detection, tumbling E, Sloan letters) to
// rendering and answer checking, the polymorphic collaborator of
// spec.md §4.6.
package stimmode

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/drburke-droid/neuro-gaze-v3/csf/grid"
	"github.com/drburke-droid/neuro-gaze-v3/internal/calib"
	"github.com/drburke-droid/neuro-gaze-v3/optotype"
	"github.com/drburke-droid/neuro-gaze-v3/render"
)

// Mode is the capability set every stimulus family implements (spec.md
// §4.6): prepare templates once, render the next stimulus and remember
// its ground-truth label, and check a response against that label.
type Mode interface {
	// Prepare generates any templates the mode needs, once, before the
	// first trial. A no-op for Gabor-based modes.
	Prepare() error
	// Render draws stim onto canvas under calibration c and returns the
	// key string of the correct response, which Check compares against.
	Render(canvas *image.RGBA, stim grid.StimulusPoint, c calib.Calibration) (groundTruth string, err error)
	// Check compares the observer's response against the label recorded
	// by the most recent Render call.
	Check(response string) bool
	// NumAFC is the alternative-forced-choice arity: 1, 4, or 10.
	NumAFC() int
	// PsychometricSlope is alpha, the likelihood's slope parameter.
	PsychometricSlope() float64
	// Keys lists every valid response key, in a stable order.
	Keys() []string
}

const (
	gaborSlope = 3.5
	sloanSlope = 4.05
)

// orientations are the four Gabor4AFC / GaborYesNo carrier angles.
var orientations = []float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4}

var orientationKeys = []string{"0", "45", "90", "135"}

// Gabor4AFC discriminates the orientation of a single Gabor patch among
// four equally likely alternatives (spec.md §4.6).
type Gabor4AFC struct {
	rng     *rand.Rand
	lastKey string
}

// NewGabor4AFC constructs a Gabor4AFC mode seeded for deterministic
// orientation draws.
func NewGabor4AFC(seed int64) *Gabor4AFC {
	return &Gabor4AFC{rng: rand.New(rand.NewSource(seed))}
}

func (m *Gabor4AFC) Prepare() error { return nil }

func (m *Gabor4AFC) Render(canvas *image.RGBA, stim grid.StimulusPoint, c calib.Calibration) (string, error) {
	idx := m.rng.Intn(len(orientations))
	p := render.GaborParams{CPD: stim.FreqCPD, Contrast: stim.Contrast, AngleRad: orientations[idx]}
	if err := render.DrawGabor(canvas, p, c); err != nil {
		return "", err
	}
	m.lastKey = orientationKeys[idx]
	return m.lastKey, nil
}

func (m *Gabor4AFC) Check(response string) bool { return response == m.lastKey }
func (m *Gabor4AFC) NumAFC() int                 { return 4 }
func (m *Gabor4AFC) PsychometricSlope() float64  { return gaborSlope }
func (m *Gabor4AFC) Keys() []string              { return append([]string(nil), orientationKeys...) }

// GaborYesNo is a 1-AFC detection task: a Gabor at one of four
// orientations is always present, plus a "no target" key that is
// always an incorrect response (spec.md §4.6).
type GaborYesNo struct {
	rng     *rand.Rand
	lastKey string
}

// NoTargetKey is the always-incorrect "I saw nothing" response key.
const NoTargetKey = "none"

// NewGaborYesNo constructs a GaborYesNo mode seeded for deterministic
// orientation draws.
func NewGaborYesNo(seed int64) *GaborYesNo {
	return &GaborYesNo{rng: rand.New(rand.NewSource(seed))}
}

func (m *GaborYesNo) Prepare() error { return nil }

func (m *GaborYesNo) Render(canvas *image.RGBA, stim grid.StimulusPoint, c calib.Calibration) (string, error) {
	idx := m.rng.Intn(len(orientations))
	p := render.GaborParams{CPD: stim.FreqCPD, Contrast: stim.Contrast, AngleRad: orientations[idx]}
	if err := render.DrawGabor(canvas, p, c); err != nil {
		return "", err
	}
	m.lastKey = orientationKeys[idx]
	return m.lastKey, nil
}

func (m *GaborYesNo) Check(response string) bool {
	if response == NoTargetKey {
		return false
	}
	return response == m.lastKey
}
func (m *GaborYesNo) NumAFC() int                { return 1 }
func (m *GaborYesNo) PsychometricSlope() float64 { return gaborSlope }
func (m *GaborYesNo) Keys() []string {
	return append(append([]string(nil), orientationKeys...), NoTargetKey)
}

var tumblingEDirections = []optotype.Direction{optotype.DirRight, optotype.DirDown, optotype.DirLeft, optotype.DirUp}

// TumblingE discriminates the opening direction of a tumbling-E
// optotype among four alternatives (spec.md §4.6).
type TumblingE struct {
	rng       *rand.Rand
	templates map[optotype.Direction]*optotype.Template
	lastKey   string
}

// NewTumblingE constructs a TumblingE mode seeded for deterministic
// direction draws.
func NewTumblingE(seed int64) *TumblingE {
	return &TumblingE{rng: rand.New(rand.NewSource(seed))}
}

func (m *TumblingE) Prepare() error {
	n := 256
	set, err := optotype.BuildTumblingESet(n, optotype.DefaultCenterFreq, optotype.DefaultBandwidthOct)
	if err != nil {
		return fmt.Errorf("stimmode: tumbling-e prepare: %w", err)
	}
	m.templates = set
	return nil
}

func (m *TumblingE) Render(canvas *image.RGBA, stim grid.StimulusPoint, c calib.Calibration) (string, error) {
	if m.templates == nil {
		return "", fmt.Errorf("stimmode: tumbling-e Prepare was not called")
	}
	dir := tumblingEDirections[m.rng.Intn(len(tumblingEDirections))]
	tpl := m.templates[dir]
	if err := render.DrawFilteredLetter(canvas, tpl, optotype.DefaultCenterFreq, stim.FreqCPD, stim.Contrast, c); err != nil {
		return "", err
	}
	m.lastKey = dir.String()
	return m.lastKey, nil
}

func (m *TumblingE) Check(response string) bool { return response == m.lastKey }
func (m *TumblingE) NumAFC() int                 { return 4 }
func (m *TumblingE) PsychometricSlope() float64  { return gaborSlope }
func (m *TumblingE) Keys() []string {
	keys := make([]string, len(tumblingEDirections))
	for i, d := range tumblingEDirections {
		keys[i] = d.String()
	}
	return keys
}

// Sloan discriminates one of ten Sloan letters, a 10-AFC task (spec.md
// §4.6).
type Sloan struct {
	rng       *rand.Rand
	templates map[rune]*optotype.Template
	letters   []rune
	lastKey   string
}

// NewSloan constructs a Sloan mode seeded for deterministic letter
// draws.
func NewSloan(seed int64) *Sloan {
	letters := make([]rune, len(optotype.SloanLetters))
	copy(letters, optotype.SloanLetters[:])
	return &Sloan{rng: rand.New(rand.NewSource(seed)), letters: letters}
}

func (m *Sloan) Prepare() error {
	n := 256
	set, err := optotype.BuildSloanSet(n, optotype.DefaultCenterFreq, optotype.DefaultBandwidthOct)
	if err != nil {
		return fmt.Errorf("stimmode: sloan prepare: %w", err)
	}
	m.templates = set
	return nil
}

func (m *Sloan) Render(canvas *image.RGBA, stim grid.StimulusPoint, c calib.Calibration) (string, error) {
	if m.templates == nil {
		return "", fmt.Errorf("stimmode: sloan Prepare was not called")
	}
	ch := m.letters[m.rng.Intn(len(m.letters))]
	tpl := m.templates[ch]
	if err := render.DrawFilteredLetter(canvas, tpl, optotype.DefaultCenterFreq, stim.FreqCPD, stim.Contrast, c); err != nil {
		return "", err
	}
	m.lastKey = string(ch)
	return m.lastKey, nil
}

func (m *Sloan) Check(response string) bool { return response == m.lastKey }
func (m *Sloan) NumAFC() int                 { return 10 }
func (m *Sloan) PsychometricSlope() float64  { return sloanSlope }
func (m *Sloan) Keys() []string {
	keys := make([]string, len(m.letters))
	for i, r := range m.letters {
		keys[i] = string(r)
	}
	return keys
}

// New constructs a Mode by its configuration key: "gabor4afc",
// "gaboryesno", "tumblinge", or "sloan" (spec.md §6).
func New(key string, seed int64) (Mode, error) {
	switch key {
	case "gabor4afc":
		return NewGabor4AFC(seed), nil
	case "gaboryesno":
		return NewGaborYesNo(seed), nil
	case "tumblinge":
		return NewTumblingE(seed), nil
	case "sloan":
		return NewSloan(seed), nil
	default:
		return nil, fmt.Errorf("stimmode: unknown mode key %q", key)
	}
}
