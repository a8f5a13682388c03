package transform

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"canvas-composer/internal/scene"
	"canvas-composer/pkg/geometry"
)

func TestImageGlobalBoundsUnrotated(t *testing.T) {
	im := testImage(10, 20, 2, 0)
	got := ImageGlobalBounds(im)
	want := geometry.Rect{X: 10, Y: 20, Width: 800, Height: 600}
	if !rectsEqual(got, want, 1e-6) {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}
}

func TestImageGlobalBoundsRotated90(t *testing.T) {
	// A 400x300 box rotated a quarter turn occupies a 300x400 AABB
	// around the same center.
	im := testImage(0, 0, 1, 90)
	got := ImageGlobalBounds(im)
	if !scalar.EqualWithinAbs(got.Width, 300, 1e-6) || !scalar.EqualWithinAbs(got.Height, 400, 1e-6) {
		t.Errorf("rotated bounds %vx%v, want 300x400", got.Width, got.Height)
	}
	c := got.Center()
	if !pointsEqual(c, im.Center(), 1e-6) {
		t.Errorf("rotation moved the center: %+v vs %+v", c, im.Center())
	}
}

func TestImageGlobalBoundsRotated45GrowsAABB(t *testing.T) {
	im := testImage(0, 0, 1, 45)
	got := ImageGlobalBounds(im)
	want := (400 + 300) / math.Sqrt2
	if !scalar.EqualWithinAbs(got.Width, want, 1e-6) || !scalar.EqualWithinAbs(got.Height, want, 1e-6) {
		t.Errorf("45-degree bounds %vx%v, want %vx%v", got.Width, got.Height, want, want)
	}
}

func TestGlobalBoundsPadsByStrokeWidth(t *testing.T) {
	line := &scene.Line{
		Attrs: scene.NewAttrs("#000", 8),
		Start: geometry.Point2D{X: 0, Y: 0},
		End:   geometry.Point2D{X: 100, Y: 0},
	}
	got := GlobalBounds(line, nil)
	if got.Height <= 0 {
		t.Errorf("zero-height line should still have padded bounds, got %+v", got)
	}
	if got.X > 0 || got.X+got.Width < 100 {
		t.Errorf("bounds %+v do not cover the segment", got)
	}
}

func TestGroupGlobalBounds(t *testing.T) {
	sc := scene.New()
	a := testImage(0, 0, 1, 0)
	b := testImage(1000, 1000, 1, 0)
	sc.AddImage(a)
	sc.AddImage(b)
	g := sc.CreateGroup("pair", []string{a.ID, b.ID})
	if g == nil {
		t.Fatal("CreateGroup failed")
	}

	bounds, ok := GroupGlobalBounds(sc, g.ID)
	if !ok {
		t.Fatal("GroupGlobalBounds ok=false")
	}
	want := ImageGlobalBounds(a).Union(ImageGlobalBounds(b))
	if !rectsEqual(bounds, want, 1e-6) {
		t.Errorf("group bounds = %+v, want %+v", bounds, want)
	}

	if _, ok := GroupGlobalBounds(sc, "missing"); ok {
		t.Error("unknown group should report ok=false")
	}
}

func TestSelectionBoundsSkipsStaleRefs(t *testing.T) {
	sc := scene.New()
	im := testImage(0, 0, 1, 0)
	rect := &scene.RectShape{Attrs: scene.NewAttrs("#000", 2), X: 10, Y: 10, Width: 50, Height: 40}
	im.Annotations = append(im.Annotations, rect)
	sc.AddImage(im)

	refs := []scene.AnnotationRef{
		{ImageID: im.ID, AnnotationID: rect.ID},
		{ImageID: im.ID, AnnotationID: "gone"},
	}
	bounds, ok := SelectionBounds(sc, refs)
	if !ok {
		t.Fatal("SelectionBounds ok=false")
	}
	if !bounds.Contains(geometry.Point2D{X: 30, Y: 30}) {
		t.Errorf("bounds %+v should contain the rect interior", bounds)
	}

	if _, ok := SelectionBounds(sc, refs[1:]); ok {
		t.Error("all-stale selection should report ok=false")
	}
}

func rectsEqual(a, b geometry.Rect, eps float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, eps) &&
		scalar.EqualWithinAbs(a.Y, b.Y, eps) &&
		scalar.EqualWithinAbs(a.Width, b.Width, eps) &&
		scalar.EqualWithinAbs(a.Height, b.Height, eps)
}
