package transform

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"canvas-composer/internal/scene"
	"canvas-composer/pkg/geometry"
)

const tol = 1e-9

func pointsEqual(a, b geometry.Point2D, eps float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, eps) && scalar.EqualWithinAbs(a.Y, b.Y, eps)
}

func testImage(x, y, s, rot float64) *scene.Image {
	im := scene.NewImage("img", x, y, 400, 300)
	im.Scale = s
	im.Rotation = rot
	return im
}

func TestSafeScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, MinScale},
		{1e-9, MinScale},
		{-1e-9, MinScale},
		{0.5, 0.5},
		{-2, -2},
	}
	for _, tt := range tests {
		if got := SafeScale(tt.in); got != tt.want {
			t.Errorf("SafeScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToGlobalIdentityPlacement(t *testing.T) {
	// Unit scale, no rotation: local (0,0) lands at the image origin.
	im := testImage(50, 80, 1, 0)
	got := ToGlobal(geometry.Point2D{}, im)
	want := geometry.Point2D{X: 50, Y: 80}
	if !pointsEqual(got, want, tol) {
		t.Errorf("ToGlobal(origin) = %+v, want %+v", got, want)
	}
}

func TestToGlobalNilImageIsIdentity(t *testing.T) {
	p := geometry.Point2D{X: 12, Y: -7}
	if got := ToGlobal(p, nil); got != p {
		t.Errorf("ToGlobal(p, nil) = %+v, want %+v", got, p)
	}
	if got := ToLocal(p, nil); got != p {
		t.Errorf("ToLocal(p, nil) = %+v, want %+v", got, p)
	}
}

func TestLocalGlobalRoundTrip(t *testing.T) {
	scales := []float64{0.1, 1, 5}
	rotations := []float64{0, 37, 90, 180, 271}
	points := []geometry.Point2D{{}, {X: 400, Y: 300}, {X: 123.4, Y: 56.7}, {X: -20, Y: 500}}

	for _, s := range scales {
		for _, rot := range rotations {
			im := testImage(-35, 90, s, rot)
			for _, p := range points {
				g := ToGlobal(p, im)
				back := ToLocal(g, im)
				if !pointsEqual(back, p, 1e-6) {
					t.Errorf("scale=%v rot=%v: round trip of %+v = %+v", s, rot, p, back)
				}
			}
		}
	}
}

func TestPivotIsFixedPoint(t *testing.T) {
	// The displayed-box center maps to itself regardless of rotation.
	im := testImage(100, 100, 2, 63)
	c := im.Center()
	local := ToLocal(c, im)
	w, h := im.EffectiveSize()
	if !pointsEqual(local, geometry.Point2D{X: w / 2, Y: h / 2}, 1e-6) {
		t.Errorf("pivot maps to %+v, want box center (%v, %v)", local, w/2, h/2)
	}
}

func TestCropChangesPivot(t *testing.T) {
	im := testImage(0, 0, 1, 0)
	uncropped := im.Center()
	crop := geometry.NewRect(100, 50, 200, 100)
	im.CropRect = &crop
	cropped := im.Center()
	if uncropped == cropped {
		t.Error("cropping should move the displayed-box center")
	}
	want := geometry.Point2D{X: 100, Y: 50}
	if !pointsEqual(cropped, want, tol) {
		t.Errorf("cropped center = %+v, want %+v", cropped, want)
	}
}

func TestImageMatrixMatchesToGlobal(t *testing.T) {
	im := testImage(40, -60, 1.7, 212)
	m := ImageMatrix(im)
	for _, p := range []geometry.Point2D{{}, {X: 400, Y: 300}, {X: 17, Y: 230}} {
		got := m.Apply(p)
		want := ToGlobal(p, im)
		if !pointsEqual(got, want, 1e-6) {
			t.Errorf("ImageMatrix.Apply(%+v) = %+v, ToGlobal = %+v", p, got, want)
		}
	}
}

func TestAnnotationRoundTrip(t *testing.T) {
	im := testImage(10, 20, 0.5, 45)
	line := &scene.Line{
		Attrs: scene.NewAttrs("#1e88e5", 3),
		Start: geometry.Point2D{X: 30, Y: 40},
		End:   geometry.Point2D{X: 200, Y: 90},
	}
	line.Scale = 2.5
	line.Rotation = -30

	for _, p := range []geometry.Point2D{line.Start, line.End, {X: 115, Y: 65}} {
		g := AnnotationToGlobal(p, line, im)
		back := GlobalToAnnotation(g, line, im)
		if !pointsEqual(back, p, 1e-6) {
			t.Errorf("annotation round trip of %+v = %+v", p, back)
		}
	}
}

func TestAnnotationMatrixMatchesPointPath(t *testing.T) {
	im := testImage(-5, 12, 3, 10)
	c := &scene.Circle{Attrs: scene.NewAttrs("#000000", 2), CX: 80, CY: 60, Radius: 25}
	c.Scale = 0.4
	c.Rotation = 77

	m := AnnotationMatrix(c, im)
	for _, p := range []geometry.Point2D{{X: 80, Y: 60}, {X: 105, Y: 60}, {}} {
		got := m.Apply(p)
		want := AnnotationToGlobal(p, c, im)
		if !pointsEqual(got, want, 1e-6) {
			t.Errorf("AnnotationMatrix.Apply(%+v) = %+v, want %+v", p, got, want)
		}
	}
}

func TestCombinedScale(t *testing.T) {
	im := testImage(0, 0, 2, 0)
	s := &scene.Stroke{Attrs: scene.NewAttrs("#fff", 1)}
	s.Scale = 3
	if got := CombinedScale(s, im); !scalar.EqualWithinAbs(got, 6, tol) {
		t.Errorf("CombinedScale = %v, want 6", got)
	}
	if got := CombinedScale(s, nil); !scalar.EqualWithinAbs(got, 3, tol) {
		t.Errorf("CombinedScale canvas = %v, want 3", got)
	}
}
