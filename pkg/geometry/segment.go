package geometry

import "math"

// DistanceToSegment returns the shortest distance from p to the segment a-b.
// A zero-length segment degenerates to the distance from p to a.
func DistanceToSegment(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamped to [0,1].
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	proj := Point2D{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(proj)
}

// SnapAngle snaps the segment a-b to the nearest multiple of step degrees,
// preserving a and the segment length, and returns the adjusted b.
func SnapAngle(a, b Point2D, step float64) Point2D {
	length := a.Distance(b)
	if length < 1e-9 || step <= 0 {
		return b
	}
	angle := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	snapped := math.Round(angle/step) * step
	rad := snapped * math.Pi / 180
	return Point2D{X: a.X + length*math.Cos(rad), Y: a.Y + length*math.Sin(rad)}
}
