package render

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drburke-droid/neuro-gaze-v3/internal/calib"
	"github.com/drburke-droid/neuro-gaze-v3/optotype"
)

// TestDrawGaborDeterminism is end-to-end scenario 3 of spec.md §8.
func TestDrawGaborDeterminism(t *testing.T) {
	const w, h = 512, 512
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	c := calib.Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128}

	// At CPD=4 the carrier's first peak lies about 5 px from the center.
	// The canvas is wide enough (sigma = W/7, about 73 px) that the
	// envelope there is still about 0.998, so the peak deviation rounds
	// to 63; on a 128 px canvas (sigma about 18 px) the envelope would
	// shave it to about 61.
	err := DrawGabor(canvas, GaborParams{CPD: 4, Contrast: 0.5, AngleRad: 0}, c)
	require.NoError(t, err)

	centerOff := canvas.PixOffset(w/2, h/2)
	centerVal := canvas.Pix[centerOff]
	assert.InDelta(t, 128, int(centerVal), 1)

	maxDev := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := canvas.PixOffset(x, y)
			dev := int(canvas.Pix[off]) - 128
			if dev < 0 {
				dev = -dev
			}
			if dev > maxDev {
				maxDev = dev
			}
		}
	}
	assert.InDelta(t, 64, maxDev, 1)
}

func TestDrawGaborRejectsInvalidInputs(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 32, 32))
	c := calib.Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128}
	assert.Error(t, DrawGabor(canvas, GaborParams{CPD: 0, Contrast: 0.5}, c))
	assert.Error(t, DrawGabor(nil, GaborParams{CPD: 4, Contrast: 0.5}, c))
}

func TestDrawGaborAllChannelsMatch(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 16, 16))
	c := calib.Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128}
	require.NoError(t, DrawGabor(canvas, GaborParams{CPD: 2, Contrast: 0.8, AngleRad: math.Pi / 4}, c))
	off := canvas.PixOffset(3, 3)
	assert.Equal(t, canvas.Pix[off], canvas.Pix[off+1])
	assert.Equal(t, canvas.Pix[off+1], canvas.Pix[off+2])
	assert.Equal(t, uint8(255), canvas.Pix[off+3])
}

func TestDrawFilteredLetterFillsMidGreyBackground(t *testing.T) {
	set, err := optotype.BuildSloanSet(32, optotype.DefaultCenterFreq, optotype.DefaultBandwidthOct)
	require.NoError(t, err)
	tpl := set['O']

	canvas := image.NewRGBA(image.Rect(0, 0, 64, 64))
	c := calib.Calibration{PxPerMm: 20, DistMm: 1000, MidPoint: 128}

	err = DrawFilteredLetter(canvas, tpl, optotype.DefaultCenterFreq, 1.0, 0.5, c)
	require.NoError(t, err)

	corner := canvas.PixOffset(1, 1)
	assert.InDelta(t, 128, int(canvas.Pix[corner]), 2)
}

func TestDrawFilteredLetterClampsToCanvas(t *testing.T) {
	set, err := optotype.BuildTumblingESet(16, optotype.DefaultCenterFreq, optotype.DefaultBandwidthOct)
	require.NoError(t, err)
	tpl := set[optotype.DirRight]

	canvas := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c := calib.Calibration{PxPerMm: 200, DistMm: 1000, MidPoint: 128}

	// Extremely high pixPerDeg forces letterPx to hit the 0.9*min(W,H) clamp.
	err = DrawFilteredLetter(canvas, tpl, optotype.DefaultCenterFreq, 0.1, 1.0, c)
	require.NoError(t, err)
	// No panic and canvas stays within bounds implies clamp worked.
	assert.Equal(t, 20*20*4, len(canvas.Pix))
}

func TestDrawFilteredLetterRejectsInvalid(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 16, 16))
	c := calib.Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128}
	assert.Error(t, DrawFilteredLetter(canvas, nil, 4, 1, 0.5, c))
	assert.Error(t, DrawFilteredLetter(nil, &optotype.Template{N: 4, Pixels: make([]float64, 16)}, 4, 1, 0.5, c))
}
