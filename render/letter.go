package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/drburke-droid/neuro-gaze-v3/internal/calib"
	"github.com/drburke-droid/neuro-gaze-v3/optotype"
)

// templateImage adapts an optotype.Template's [-1, 1] samples to the
// image.Image interface (via a 16-bit grayscale encoding) so it can be
// fed through golang.org/x/image/draw's bilinear scaler without first
// truncating it to 8-bit precision.
type templateImage struct {
	tpl *optotype.Template
}

func (t templateImage) ColorModel() color.Model { return color.Gray16Model }
func (t templateImage) Bounds() image.Rectangle { return image.Rect(0, 0, t.tpl.N, t.tpl.N) }
func (t templateImage) At(x, y int) color.Color {
	v := t.tpl.Pixels[y*t.tpl.N+x]
	return color.Gray16{Y: encodeSigned16(v)}
}

func encodeSigned16(v float64) uint16 {
	clamped := v
	if clamped < -1 {
		clamped = -1
	}
	if clamped > 1 {
		clamped = 1
	}
	return uint16(math.Round((clamped + 1) / 2 * 65535))
}

func decodeSigned16(y uint16) float64 {
	return float64(y)/65535*2 - 1
}

// DrawFilteredLetter rasterizes template T at the calibrated letter
// size onto the given canvas, following spec.md §4.5: the letter
// spans letter_px = (fc/cpd)*pixPerDeg pixels, clamped to
// 0.9*min(W,H), bilinearly resampled from T, and recolored by
// midPoint + midPoint*contrast*T_sampled.
func DrawFilteredLetter(canvas *image.RGBA, tpl *optotype.Template, fc, cpd, contrast float64, c calib.Calibration) error {
	if canvas == nil || tpl == nil {
		return fmt.Errorf("render: canvas and template must not be nil")
	}
	if cpd <= 0 {
		return fmt.Errorf("render: cpd must be > 0, got %v", cpd)
	}
	if fc <= 0 {
		return fmt.Errorf("render: fc must be > 0, got %v", fc)
	}

	bounds := canvas.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("render: canvas has zero extent")
	}
	mid := float64(c.MidPoint)

	// Clear to mid-grey.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setGray(canvas, bounds.Min.X+x, bounds.Min.Y+y, mid)
		}
	}

	letterDeg := fc / cpd
	letterPx := letterDeg * c.PixPerDeg()
	maxPx := 0.9 * math.Min(float64(w), float64(h))
	if letterPx > maxPx {
		letterPx = maxPx
	}
	sizePx := int(math.Round(letterPx))
	if sizePx < 1 {
		return nil
	}

	scaled := image.NewGray16(image.Rect(0, 0, sizePx, sizePx))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), templateImage{tpl: tpl}, templateImage{tpl: tpl}.Bounds(), draw.Src, nil)

	originX := bounds.Min.X + w/2 - sizePx/2
	originY := bounds.Min.Y + h/2 - sizePx/2
	for y := 0; y < sizePx; y++ {
		cy := originY + y
		if cy < bounds.Min.Y || cy >= bounds.Max.Y {
			continue
		}
		for x := 0; x < sizePx; x++ {
			cx := originX + x
			if cx < bounds.Min.X || cx >= bounds.Max.X {
				continue
			}
			tVal := decodeSigned16(scaled.Gray16At(x, y).Y)
			lum := mid + mid*contrast*tVal
			setGray(canvas, cx, cy, lum)
		}
	}
	return nil
}
