// Package optotype rasterizes Sloan letters and tumbling-E optotypes
// onto an N x N signed grid and bandpass-filters them into the final
// templates the stimulus modes sample from (spec.md §4.3).
package optotype

import (
	"fmt"

	"github.com/drburke-droid/neuro-gaze-v3/filter"
)

// DefaultCenterFreq is the default template filter center frequency in
// cycles per letter (spec.md §4.3).
const DefaultCenterFreq = 4.0

// DefaultBandwidthOct is the default template filter bandwidth in octaves.
const DefaultBandwidthOct = 1.0

// SloanLetters is the fixed set of ten high-legibility optotype letters.
var SloanLetters = [10]rune{'C', 'D', 'H', 'K', 'N', 'O', 'R', 'S', 'V', 'Z'}

// Direction names the four tumbling-E opening directions.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	default:
		return "unknown"
	}
}

// Template is a filtered, contrast-normalized N*N optotype image whose
// values lie in [-1, 1], ready to be bilinearly sampled by the
// filtered-letter renderer.
type Template struct {
	N      int
	Pixels []float64 // row-major, length N*N
}

// Set groups the precomputed templates of the optotype families with the
// filter settings they were built with. The stimulus modes' Prepare
// methods keep the maps returned by BuildSloanSet and BuildTumblingESet
// directly; nothing in this module builds a Set.
type Set struct {
	N         int
	FC        float64
	BWOct     float64
	Sloan     map[rune]*Template
	TumblingE map[Direction]*Template
}

// BuildSloanSet rasterizes and filters all ten Sloan letters at
// resolution n with the given filter center frequency (cycles/letter)
// and bandwidth (octaves).
func BuildSloanSet(n int, fc, bwOct float64) (map[rune]*Template, error) {
	out := make(map[rune]*Template, len(SloanLetters))
	for _, ch := range SloanLetters {
		raster := rasterSloanLetter(ch, n)
		filtered, err := filterRaster(raster, n, fc, bwOct)
		if err != nil {
			return nil, fmt.Errorf("optotype: sloan %q: %w", ch, err)
		}
		out[ch] = filtered
	}
	return out, nil
}

// BuildTumblingESet rasterizes and filters the tumbling E in all four
// orientations.
func BuildTumblingESet(n int, fc, bwOct float64) (map[Direction]*Template, error) {
	out := make(map[Direction]*Template, 4)
	for _, dir := range []Direction{DirRight, DirDown, DirLeft, DirUp} {
		raster := rasterTumblingE(dir, n)
		filtered, err := filterRaster(raster, n, fc, bwOct)
		if err != nil {
			return nil, fmt.Errorf("optotype: tumbling-e %s: %w", dir, err)
		}
		out[dir] = filtered
	}
	return out, nil
}

func filterRaster(signed []float64, n int, fc, bwOct float64) (*Template, error) {
	filtered, err := filter.Apply(signed, n, fc, bwOct)
	if err != nil {
		return nil, err
	}
	return &Template{N: n, Pixels: filtered}, nil
}

// strokeWidthPx returns the stroke width for an N x N raster so the
// optotype spans 75% of the image (spec.md §4.3).
func strokeWidthPx(n int) float64 {
	return float64(n) * 0.75 / 5.0
}

// rasterSloanLetter draws letter ch on a 5x5 unit stroke grid scaled to
// n x n, then converts to signed space: ink ~ -0.5, background ~ +0.5
// (re[i] = pixel/255 - 0.5).
func rasterSloanLetter(ch rune, n int) []float64 {
	grid := sloanStrokeGrid(ch)
	return rasterStrokeGridSigned(grid, n)
}

// rasterTumblingE draws a canonical right-opening E then rotates it by
// 0/90/180/270 degrees for the four directions.
func rasterTumblingE(dir Direction, n int) []float64 {
	grid := rotateStrokeGrid(tumblingEBaseGrid(), int(dir))
	return rasterStrokeGridSigned(grid, n)
}
