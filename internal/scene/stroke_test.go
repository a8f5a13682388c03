package scene

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"canvas-composer/pkg/geometry"
)

func TestResampleStrokeSpacing(t *testing.T) {
	// Dense noisy samples along a horizontal line.
	var pts []geometry.Point2D
	for i := 0; i <= 200; i++ {
		pts = append(pts, geometry.Point2D{X: float64(i) * 0.5, Y: math.Sin(float64(i)) * 0.01})
	}

	out := ResampleStroke(pts, 2.0)
	if len(out) < 2 {
		t.Fatalf("resample returned %d points", len(out))
	}

	// Interior points are spaced close to the requested interval; the
	// final point is the original endpoint.
	for i := 0; i+2 < len(out); i++ {
		d := out[i].Distance(out[i+1])
		if d < 1.0 || d > 3.0 {
			t.Errorf("spacing %v at %d, want about 2", d, i)
		}
	}
	last := out[len(out)-1]
	if !scalar.EqualWithinAbs(last.X, 100, 1e-6) {
		t.Errorf("last point %+v, want endpoint x=100", last)
	}
}

func TestResampleStrokeShortInputsUntouched(t *testing.T) {
	pts := []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}}
	out := ResampleStroke(pts, 2.0)
	if len(out) != 2 || out[0] != pts[0] || out[1] != pts[1] {
		t.Errorf("short stroke changed: %v", out)
	}

	// The copy must not alias the input.
	out[0].X = 99
	if pts[0].X == 99 {
		t.Error("resample aliases its input")
	}
}

func TestStraightenStrokeRecoversLine(t *testing.T) {
	// Points near y = 2x + 1 with slight perpendicular jitter.
	var pts []geometry.Point2D
	for i := 0; i <= 50; i++ {
		x := float64(i)
		jitter := 0.05 * math.Sin(float64(i)*1.3)
		pts = append(pts, geometry.Point2D{X: x + jitter, Y: 2*x + 1 - jitter})
	}

	start, end := StraightenStroke(pts)
	slope := (end.Y - start.Y) / (end.X - start.X)
	if !scalar.EqualWithinAbs(slope, 2, 0.05) {
		t.Errorf("slope = %v, want about 2", slope)
	}
	if start.Distance(end) < 50 {
		t.Errorf("segment length %v does not cover the stroke extent", start.Distance(end))
	}
}

func TestStraightenStrokeTwoPoints(t *testing.T) {
	a := geometry.Point2D{X: 3, Y: 4}
	b := geometry.Point2D{X: 10, Y: -2}
	start, end := StraightenStroke([]geometry.Point2D{a, b})
	d1 := start.Distance(a) + end.Distance(b)
	d2 := start.Distance(b) + end.Distance(a)
	if math.Min(d1, d2) > 1e-6 {
		t.Errorf("two-point straighten moved the endpoints: %+v %+v", start, end)
	}
}
