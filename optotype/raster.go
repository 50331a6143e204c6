package optotype

import "math"

// segment is a stroke centerline in the 5x5 unit letter-design space
// spec.md §4.3 references ("5x5 unit stroke convention").
type segment struct {
	x1, y1, x2, y2 float64
}

// strokeGrid is a letterform expressed as a list of straight-line
// strokes in [0,5] x [0,5] unit space, y increasing downward.
type strokeGrid struct {
	segments []segment
}

func seg(x1, y1, x2, y2 float64) segment { return segment{x1, y1, x2, y2} }

// sloanStrokeGrid returns a blocky single-stroke-width approximation of
// the ten Sloan optotypes on a 5x5 grid. These are not typographic
// reproductions of the Sloan font; they are schematic letterforms built
// from straight strokes, which is sufficient once bandpass-filtered
// into a template (the filter destroys fine typographic detail anyway).
func sloanStrokeGrid(ch rune) strokeGrid {
	switch ch {
	case 'C':
		return strokeGrid{[]segment{
			seg(4, 1, 1, 1),
			seg(1, 1, 1, 4),
			seg(1, 4, 4, 4),
		}}
	case 'D':
		return strokeGrid{[]segment{
			seg(1, 0.5, 1, 4.5),
			seg(1, 0.5, 3, 0.5),
			seg(3, 0.5, 4, 2.5),
			seg(4, 2.5, 3, 4.5),
			seg(3, 4.5, 1, 4.5),
		}}
	case 'H':
		return strokeGrid{[]segment{
			seg(1, 0.5, 1, 4.5),
			seg(4, 0.5, 4, 4.5),
			seg(1, 2.5, 4, 2.5),
		}}
	case 'K':
		return strokeGrid{[]segment{
			seg(1, 0.5, 1, 4.5),
			seg(1, 2.5, 4, 0.5),
			seg(1, 2.5, 4, 4.5),
		}}
	case 'N':
		return strokeGrid{[]segment{
			seg(1, 0.5, 1, 4.5),
			seg(1, 0.5, 4, 4.5),
			seg(4, 0.5, 4, 4.5),
		}}
	case 'O':
		return strokeGrid{[]segment{
			seg(1, 0.5, 4, 0.5),
			seg(4, 0.5, 4, 4.5),
			seg(4, 4.5, 1, 4.5),
			seg(1, 4.5, 1, 0.5),
		}}
	case 'R':
		return strokeGrid{[]segment{
			seg(1, 0.5, 1, 4.5),
			seg(1, 0.5, 3, 0.5),
			seg(3, 0.5, 3.5, 1.5),
			seg(3.5, 1.5, 3, 2.5),
			seg(3, 2.5, 1, 2.5),
			seg(2, 2.5, 4, 4.5),
		}}
	case 'S':
		return strokeGrid{[]segment{
			seg(4, 1, 1, 1),
			seg(1, 1, 1, 2.5),
			seg(1, 2.5, 4, 2.5),
			seg(4, 2.5, 4, 4),
			seg(4, 4, 1, 4),
		}}
	case 'V':
		return strokeGrid{[]segment{
			seg(1, 0.5, 2.5, 4.5),
			seg(2.5, 4.5, 4, 0.5),
		}}
	case 'Z':
		return strokeGrid{[]segment{
			seg(1, 0.5, 4, 0.5),
			seg(4, 0.5, 1, 4.5),
			seg(1, 4.5, 4, 4.5),
		}}
	default:
		return strokeGrid{}
	}
}

// tumblingEBaseGrid returns the canonical right-opening E: a left
// vertical bar and three horizontal prongs on a 5x5 grid.
func tumblingEBaseGrid() strokeGrid {
	return strokeGrid{[]segment{
		seg(1, 0.5, 1, 4.5),
		seg(1, 0.5, 4, 0.5),
		seg(1, 2.5, 3.3, 2.5),
		seg(1, 4.5, 4, 4.5),
	}}
}

// rotateStrokeGrid rotates g by steps*90 degrees about the grid center
// (2.5, 2.5). Direction enumerates right(0)/down(1)/left(2)/up(3), and
// a positive step count rotates the opening clockwise to match.
func rotateStrokeGrid(g strokeGrid, steps int) strokeGrid {
	const cx, cy = 2.5, 2.5
	out := strokeGrid{segments: make([]segment, len(g.segments))}
	for i, s := range g.segments {
		x1, y1 := rotatePoint(s.x1, s.y1, cx, cy, steps)
		x2, y2 := rotatePoint(s.x2, s.y2, cx, cy, steps)
		out.segments[i] = seg(x1, y1, x2, y2)
	}
	return out
}

func rotatePoint(x, y, cx, cy float64, steps int) (float64, float64) {
	dx, dy := x-cx, y-cy
	for i := 0; i < ((steps % 4) + 4) % 4; i++ {
		dx, dy = -dy, dx
	}
	return cx + dx, cy + dy
}

// rasterStrokeGridSigned rasterizes g onto an n x n grid at the stroke
// width spec.md §4.3 specifies (n*0.75/5), returning a signed image
// where ink pixels are ~-0.5 and background pixels are ~+0.5.
func rasterStrokeGridSigned(g strokeGrid, n int) []float64 {
	out := make([]float64, n*n)
	half := strokeWidthPx(n) / 2.0
	scale := float64(n) / 5.0

	for py := 0; py < n; py++ {
		y := (float64(py) + 0.5) / scale
		for px := 0; px < n; px++ {
			x := (float64(px) + 0.5) / scale
			ink := false
			for _, s := range g.segments {
				if distToSegment(x, y, s) <= half/scale {
					ink = true
					break
				}
			}
			pixel := 255.0
			if ink {
				pixel = 0.0
			}
			out[py*n+px] = pixel/255.0 - 0.5
		}
	}
	return out
}

// distToSegment returns the Euclidean distance from (px,py) to the
// segment s.
func distToSegment(px, py float64, s segment) float64 {
	dx, dy := s.x2-s.x1, s.y2-s.y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-s.x1, py-s.y1)
	}
	t := ((px-s.x1)*dx + (py-s.y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	projX := s.x1 + t*dx
	projY := s.y1 + t*dy
	return math.Hypot(px-projX, py-projY)
}
