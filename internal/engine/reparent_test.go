package engine

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

func reparentFixture(t *testing.T) (*Editor, *scene.Image, *scene.Line) {
	t.Helper()
	sc := scene.New()
	im := scene.NewImage("img", 120, 80, 400, 300)
	im.Scale = 2
	im.Rotation = 30
	sc.AddImage(im)

	ln := &scene.Line{
		Attrs: scene.NewAttrs("#1e88e5", 3),
		Start: geometry.Point2D{X: 200, Y: 150},
		End:   geometry.Point2D{X: 260, Y: 210},
	}
	ln.Rotation = -15
	sc.AddCanvasAnnotation(ln)
	return New(sc), im, ln
}

// globalEndpoints maps a line's endpoints through its full owner chain.
func globalEndpoints(sc *scene.Scene, ref scene.AnnotationRef) (geometry.Point2D, geometry.Point2D) {
	a := sc.FindAnnotation(ref).(*scene.Line)
	im := sc.ImageByID(ref.ImageID)
	return transform.AnnotationToGlobal(a.Start, a, im),
		transform.AnnotationToGlobal(a.End, a, im)
}

func TestReparentCanvasToImagePreservesRendering(t *testing.T) {
	e, im, ln := reparentFixture(t)
	ref := scene.AnnotationRef{AnnotationID: ln.ID}
	wantStart, wantEnd := globalEndpoints(e.Scene(), ref)

	if !e.Reparent(ref, im.ID) {
		t.Fatal("Reparent failed")
	}
	sc := e.Scene()
	if sc.CanvasAnnotationByID(ln.ID) != nil {
		t.Error("annotation still canvas-owned")
	}
	newRef := scene.AnnotationRef{ImageID: im.ID, AnnotationID: ln.ID}
	if sc.FindAnnotation(newRef) == nil {
		t.Fatal("annotation missing from new owner")
	}

	gotStart, gotEnd := globalEndpoints(sc, newRef)
	if !pointsEqualAbs(gotStart, wantStart, 1e-6) || !pointsEqualAbs(gotEnd, wantEnd, 1e-6) {
		t.Errorf("endpoints moved: got %v %v, want %v %v", gotStart, gotEnd, wantStart, wantEnd)
	}
	if e.UndoLabel() != "Reparent" {
		t.Errorf("UndoLabel = %q", e.UndoLabel())
	}
}

func TestReparentImageToCanvasPreservesRendering(t *testing.T) {
	e, im, ln := reparentFixture(t)
	ref := scene.AnnotationRef{AnnotationID: ln.ID}
	if !e.Reparent(ref, im.ID) {
		t.Fatal("setup reparent failed")
	}
	onImage := scene.AnnotationRef{ImageID: im.ID, AnnotationID: ln.ID}
	wantStart, wantEnd := globalEndpoints(e.Scene(), onImage)

	if !e.Reparent(onImage, "") {
		t.Fatal("Reparent back to canvas failed")
	}
	back := scene.AnnotationRef{AnnotationID: ln.ID}
	gotStart, gotEnd := globalEndpoints(e.Scene(), back)
	if !pointsEqualAbs(gotStart, wantStart, 1e-6) || !pointsEqualAbs(gotEnd, wantEnd, 1e-6) {
		t.Errorf("endpoints moved: got %v %v, want %v %v", gotStart, gotEnd, wantStart, wantEnd)
	}

	// Two owner swaps through a scaled, rotated image land back on the
	// original local geometry.
	got := e.Scene().FindAnnotation(back).(*scene.Line)
	if !pointsEqualAbs(got.Start, geometry.Point2D{X: 200, Y: 150}, 1e-6) {
		t.Errorf("round-trip start = %v", got.Start)
	}
	if !scalar.EqualWithinAbs(got.Scale, 1, 1e-9) {
		t.Errorf("round-trip scale = %v", got.Scale)
	}
	if !scalar.EqualWithinAbs(got.Rotation, -15, 1e-9) {
		t.Errorf("round-trip rotation = %v", got.Rotation)
	}
}

func TestReparentCancelsOwnerTransform(t *testing.T) {
	e, im, ln := reparentFixture(t)
	ref := scene.AnnotationRef{AnnotationID: ln.ID}
	if !e.Reparent(ref, im.ID) {
		t.Fatal("Reparent failed")
	}

	a := e.Scene().FindAnnotation(scene.AnnotationRef{ImageID: im.ID, AnnotationID: ln.ID})
	if !scalar.EqualWithinAbs(a.Base().Scale, 0.5, 1e-9) {
		t.Errorf("scale = %v, want 1/owner scale", a.Base().Scale)
	}
	if !scalar.EqualWithinAbs(a.Base().Rotation, -45, 1e-9) {
		t.Errorf("rotation = %v, want -15 - 30", a.Base().Rotation)
	}
}

func TestReparentSameOwnerIsNoOp(t *testing.T) {
	e, _, ln := reparentFixture(t)
	ref := scene.AnnotationRef{AnnotationID: ln.ID}

	if !e.Reparent(ref, "") {
		t.Error("same-owner reparent of an existing annotation reported failure")
	}
	if e.CanUndo() {
		t.Error("same-owner reparent touched history")
	}
}

func TestReparentMissingTarget(t *testing.T) {
	e, _, ln := reparentFixture(t)
	ref := scene.AnnotationRef{AnnotationID: ln.ID}

	if e.Reparent(ref, "no-such-image") {
		t.Error("reparent onto a missing image succeeded")
	}
	if e.Reparent(scene.AnnotationRef{AnnotationID: "ghost"}, "") {
		t.Error("reparent of a missing annotation succeeded")
	}
	if e.CanUndo() {
		t.Error("failed reparents touched history")
	}
}

func TestReparentFollowsSelection(t *testing.T) {
	e, im, ln := reparentFixture(t)
	ref := scene.AnnotationRef{AnnotationID: ln.ID}
	e.committed.Selection.AddAnnotation(ref)

	if !e.Reparent(ref, im.ID) {
		t.Fatal("Reparent failed")
	}
	sel := e.Scene().Selection
	newRef := scene.AnnotationRef{ImageID: im.ID, AnnotationID: ln.ID}
	if !sel.HasAnnotation(newRef) || sel.HasAnnotation(ref) {
		t.Errorf("selection = %+v, want rewritten ref", sel.Annotations)
	}
}

func pointsEqualAbs(a, b geometry.Point2D, eps float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, eps) && scalar.EqualWithinAbs(a.Y, b.Y, eps)
}
