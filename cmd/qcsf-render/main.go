// Command qcsf-render writes one stimulus frame (Gabor patch or
// bandpass-filtered optotype) to a PNG file for visual inspection,
// mirroring the teacher's piano-render CLI conventions.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/drburke-droid/neuro-gaze-v3/internal/calib"
	"github.com/drburke-droid/neuro-gaze-v3/optotype"
	"github.com/drburke-droid/neuro-gaze-v3/render"
)

func main() {
	mode := flag.String("mode", "gabor", "Stimulus kind: gabor | sloan | tumblinge")
	width := flag.Int("width", 512, "Canvas width in pixels")
	height := flag.Int("height", 512, "Canvas height in pixels")
	cpd := flag.Float64("cpd", 4.0, "Target cycles per degree")
	contrast := flag.Float64("contrast", 0.5, "Michelson contrast in (0,1]")
	angleDeg := flag.Float64("angle-deg", 0.0, "Gabor carrier orientation in degrees (mode=gabor only)")
	letter := flag.String("letter", "R", "Sloan letter to render (mode=sloan only)")
	direction := flag.String("direction", "right", "Tumbling-E opening direction: right|down|left|up (mode=tumblinge only)")
	pxPerMm := flag.Float64("px-per-mm", 4.0, "Display pixel density")
	distMm := flag.Float64("dist-mm", 600, "Viewing distance in millimeters")
	midPoint := flag.Int("mid-point", 128, "Mid-grey luminance code (0-255)")
	output := flag.String("output", "stimulus.png", "Output PNG file path")
	flag.Parse()

	c := calib.Calibration{PxPerMm: *pxPerMm, DistMm: *distMm, MidPoint: uint8(*midPoint)}
	if err := c.Validate(); err != nil {
		die("invalid calibration: %v", err)
	}
	if w := c.OutOfBoundsWarning(); w != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, *width, *height))

	switch *mode {
	case "gabor":
		p := render.GaborParams{CPD: *cpd, Contrast: *contrast, AngleRad: *angleDeg * math.Pi / 180}
		if err := render.DrawGabor(canvas, p, c); err != nil {
			die("failed to render gabor: %v", err)
		}
	case "sloan":
		n := 256
		set, err := optotype.BuildSloanSet(n, optotype.DefaultCenterFreq, optotype.DefaultBandwidthOct)
		if err != nil {
			die("failed to build sloan templates: %v", err)
		}
		ch := []rune(*letter)
		if len(ch) != 1 {
			die("letter must be a single character")
		}
		tpl, ok := set[ch[0]]
		if !ok {
			die("unsupported sloan letter %q", *letter)
		}
		if err := render.DrawFilteredLetter(canvas, tpl, optotype.DefaultCenterFreq, *cpd, *contrast, c); err != nil {
			die("failed to render letter: %v", err)
		}
	case "tumblinge":
		n := 256
		set, err := optotype.BuildTumblingESet(n, optotype.DefaultCenterFreq, optotype.DefaultBandwidthOct)
		if err != nil {
			die("failed to build tumbling-e templates: %v", err)
		}
		dir, err := parseDirection(*direction)
		if err != nil {
			die("%v", err)
		}
		tpl := set[dir]
		if err := render.DrawFilteredLetter(canvas, tpl, optotype.DefaultCenterFreq, *cpd, *contrast, c); err != nil {
			die("failed to render letter: %v", err)
		}
	default:
		die("unknown mode %q", *mode)
	}

	file, err := os.Create(*output)
	if err != nil {
		die("failed to create output file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, canvas); err != nil {
		die("failed to encode png: %v", err)
	}

	fmt.Printf("wrote %s (%dx%d, mode=%s)\n", *output, *width, *height, *mode)
}

func parseDirection(s string) (optotype.Direction, error) {
	switch s {
	case "right":
		return optotype.DirRight, nil
	case "down":
		return optotype.DirDown, nil
	case "left":
		return optotype.DirLeft, nil
	case "up":
		return optotype.DirUp, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
