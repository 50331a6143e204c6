// Package calib holds the per-session display Calibration record and
// the derived quantities the renderers need (spec.md §3).
package calib

import (
	"fmt"
	"math"
)

// tanOneDegree converts 1 degree of visual angle to pixels, following
// the small-angle approximation spec.md §3 gives: pixPerDeg =
// distMm * tan(1 deg) * pxPerMm.
const tanOneDegree = 0.017455

// Calibration is the immutable-per-session display/viewing record.
type Calibration struct {
	PxPerMm float64
	DistMm  float64
	// MidPoint is the gamma-corrected mid-grey luminance code (0-255).
	MidPoint uint8
	Mirror   bool
}

// Validate checks the invariants of spec.md §3: pxPerMm > 0 and
// 200 <= distMm <= 30000.
func (c Calibration) Validate() error {
	if c.PxPerMm <= 0 {
		return fmt.Errorf("calibration: pxPerMm must be > 0, got %v", c.PxPerMm)
	}
	if c.DistMm < 200 || c.DistMm > 30000 {
		return fmt.Errorf("calibration: distMm must be in [200, 30000], got %v", c.DistMm)
	}
	return nil
}

// PixPerDeg returns the derived pixels-per-degree-of-visual-angle value.
func (c Calibration) PixPerDeg() float64 {
	return c.DistMm * tanOneDegree * c.PxPerMm
}

// OutOfBoundsWarning reports a human-readable reason the calibration is
// implausible even though it passed Validate, or "" when plausible.
// Surfaced to the embedder per spec.md §7 ("degrades result validity
// and must be recorded alongside results") without being fatal.
func (c Calibration) OutOfBoundsWarning() string {
	ppd := c.PixPerDeg()
	if math.IsNaN(ppd) || ppd <= 0 {
		return "pixPerDeg is non-positive or NaN"
	}
	if ppd < 5 {
		return fmt.Sprintf("pixPerDeg implausibly low (%.2f); check viewing distance and pixel pitch", ppd)
	}
	if c.DistMm < 250 {
		return fmt.Sprintf("viewing distance implausibly close (%.0f mm)", c.DistMm)
	}
	return ""
}
