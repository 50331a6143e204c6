// Package render draws the two pixel-level stimulus kinds the engine
// drives: raw calibrated Gabor patches (spec.md §4.4) and bandpass-
// filtered optotype templates rescaled onto a calibrated canvas
// (spec.md §4.5).
package render

import (
	"fmt"
	"image"
	"math"

	approx "github.com/cwbudde/algo-approx"
	"github.com/drburke-droid/neuro-gaze-v3/internal/calib"
)

// GaborParams describes one Gabor patch stimulus to draw.
type GaborParams struct {
	CPD      float64 // cycles per degree, must be > 0
	Contrast float64 // Michelson contrast, must be in (0, 1]
	AngleRad float64 // grating orientation in radians
}

// DrawGabor renders a calibrated Gabor patch onto an existing W x H
// RGBA canvas, per spec.md §4.4. The caller-supplied canvas is cleared
// and fully repainted.
func DrawGabor(canvas *image.RGBA, p GaborParams, c calib.Calibration) error {
	if canvas == nil {
		return fmt.Errorf("render: canvas must not be nil")
	}
	if p.CPD <= 0 {
		return fmt.Errorf("render: cpd must be > 0, got %v", p.CPD)
	}
	contrast := p.Contrast
	if contrast <= 0 {
		contrast = 1e-6
	}
	if contrast > 1 {
		contrast = 1
	}

	bounds := canvas.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("render: canvas has zero extent")
	}

	pixPerDeg := c.PixPerDeg()
	cpp := 2 * math.Pi * p.CPD / pixPerDeg
	sigma := float64(w) / 7.0
	if sigma <= 0 {
		sigma = 1
	}
	cosT := math.Cos(p.AngleRad)
	sinT := math.Sin(p.AngleRad)
	cx := float64(w) / 2.0
	cy := float64(h) / 2.0
	mid := float64(c.MidPoint)

	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			carrier := math.Sin((dx*cosT + dy*sinT) * cpp)
			envelopeExp := float32(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			envelope := float64(approx.FastExp(envelopeExp))
			lum := mid + mid*contrast*carrier*envelope
			setGray(canvas, bounds.Min.X+x, bounds.Min.Y+y, lum)
		}
	}
	return nil
}

func setGray(canvas *image.RGBA, x, y int, lum float64) {
	v := uint8(clampByte(lum))
	off := canvas.PixOffset(x, y)
	canvas.Pix[off+0] = v
	canvas.Pix[off+1] = v
	canvas.Pix[off+2] = v
	canvas.Pix[off+3] = 255
}

func clampByte(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return math.Round(v)
}
