package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsNonPositivePxPerMm(t *testing.T) {
	c := Calibration{PxPerMm: 0, DistMm: 600, MidPoint: 128}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsOutOfRangeDistance(t *testing.T) {
	assert.Error(t, Calibration{PxPerMm: 4, DistMm: 100, MidPoint: 128}.Validate())
	assert.Error(t, Calibration{PxPerMm: 4, DistMm: 40000, MidPoint: 128}.Validate())
	assert.NoError(t, Calibration{PxPerMm: 4, DistMm: 600, MidPoint: 128}.Validate())
}

func TestPixPerDeg(t *testing.T) {
	c := Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128}
	assert.InDelta(t, 1000*0.017455*5, c.PixPerDeg(), 1e-9)
}

func TestOutOfBoundsWarning(t *testing.T) {
	plausible := Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128}
	assert.Equal(t, "", plausible.OutOfBoundsWarning())

	tooClose := Calibration{PxPerMm: 5, DistMm: 210, MidPoint: 128}
	assert.NotEqual(t, "", tooClose.OutOfBoundsWarning())
}
