package engine

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

const tol = 1e-9

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func editorWithImage(t *testing.T) (*Editor, *scene.Image) {
	t.Helper()
	sc := scene.New()
	im := scene.NewImage("img", 0, 0, 100, 100)
	sc.AddImage(im)
	return New(sc), im
}

func TestMoveGestureDoesNotCompound(t *testing.T) {
	e, im := editorWithImage(t)

	e.PointerDown(pt(50, 50), Modifiers{})
	if e.Gesture() != GestureMoveObjects {
		t.Fatalf("gesture = %v, want move", e.Gesture())
	}

	// Each update re-derives from the frozen base, so two moves to the
	// same point land at the same place as one.
	e.PointerMove(pt(60, 70), Modifiers{})
	e.PointerMove(pt(60, 70), Modifiers{})
	live := e.Scene().ImageByID(im.ID)
	if !scalar.EqualWithinAbs(live.X, 10, tol) || !scalar.EqualWithinAbs(live.Y, 20, tol) {
		t.Errorf("live position = (%v, %v), want (10, 20)", live.X, live.Y)
	}

	e.PointerMove(pt(80, 90), Modifiers{})
	e.PointerUp(pt(80, 90), Modifiers{})

	got := e.Scene().ImageByID(im.ID)
	if !scalar.EqualWithinAbs(got.X, 30, tol) || !scalar.EqualWithinAbs(got.Y, 40, tol) {
		t.Errorf("committed position = (%v, %v), want (30, 40)", got.X, got.Y)
	}
	if e.UndoLabel() != "Move" {
		t.Errorf("UndoLabel = %q, want Move", e.UndoLabel())
	}
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	back := e.Scene().ImageByID(im.ID)
	if back.X != 0 || back.Y != 0 {
		t.Errorf("undo position = (%v, %v), want origin", back.X, back.Y)
	}
}

func TestClickSelectsWithoutHistory(t *testing.T) {
	e, im := editorWithImage(t)

	e.PointerDown(pt(50, 50), Modifiers{})
	e.PointerUp(pt(50, 50), Modifiers{})

	sel := e.Scene().Selection
	if !sel.HasImage(im.ID) || sel.ActiveLayer != im.ID {
		t.Errorf("selection after click = %+v", sel)
	}
	if e.CanUndo() {
		t.Error("a stationary click produced a history entry")
	}
}

func TestClickEmptySpaceClearsSelection(t *testing.T) {
	e, im := editorWithImage(t)
	e.committed.Selection.AddImage(im.ID)

	e.PointerDown(pt(500, 500), Modifiers{})
	if e.Gesture() != GestureMarquee {
		t.Fatalf("gesture = %v, want marquee", e.Gesture())
	}
	e.PointerUp(pt(500, 500), Modifiers{})

	if !e.Scene().Selection.IsEmpty() {
		t.Error("selection survived a click on empty space")
	}
}

func TestAdditiveClickTogglesSelection(t *testing.T) {
	e, _ := editorWithImage(t)
	other := scene.NewImage("other", 200, 0, 100, 100)
	e.committed.AddImage(other)

	e.PointerDown(pt(50, 50), Modifiers{})
	e.PointerUp(pt(50, 50), Modifiers{})
	e.PointerDown(pt(250, 50), Modifiers{Additive: true})
	e.PointerUp(pt(250, 50), Modifiers{Additive: true})

	sel := e.Scene().Selection
	if len(sel.ImageIDs) != 2 {
		t.Errorf("additive click selection = %v, want both images", sel.ImageIDs)
	}
}

func TestMarqueeSelectsWithoutHistory(t *testing.T) {
	e, im := editorWithImage(t)
	far := scene.NewImage("far", 400, 400, 50, 50)
	e.committed.AddImage(far)

	e.PointerDown(pt(-20, -20), Modifiers{})
	e.PointerMove(pt(150, 150), Modifiers{})

	r, ok := e.MarqueeRect()
	if !ok {
		t.Fatal("MarqueeRect inactive during drag")
	}
	if !scalar.EqualWithinAbs(r.Width, 170, tol) {
		t.Errorf("marquee width = %v", r.Width)
	}

	e.PointerUp(pt(150, 150), Modifiers{})
	sel := e.Scene().Selection
	if !sel.HasImage(im.ID) || sel.HasImage(far.ID) {
		t.Errorf("marquee selection = %v", sel.ImageIDs)
	}
	if e.CanUndo() {
		t.Error("marquee produced a history entry")
	}
	if _, ok := e.MarqueeRect(); ok {
		t.Error("MarqueeRect still active after up")
	}
}

func TestPanGestureAndCancel(t *testing.T) {
	e, _ := editorWithImage(t)

	e.PointerDown(pt(100, 100), Modifiers{Pan: true})
	e.PointerMove(pt(140, 130), Modifiers{Pan: true})
	v := e.View()
	if v.OffsetX != 40 || v.OffsetY != 30 {
		t.Errorf("pan offset = (%v, %v), want (40, 30)", v.OffsetX, v.OffsetY)
	}

	// Cancel restores the viewport the pan started from.
	e.CancelGesture()
	v = e.View()
	if v.OffsetX != 0 || v.OffsetY != 0 {
		t.Errorf("offset after cancel = (%v, %v), want origin", v.OffsetX, v.OffsetY)
	}
	if e.Gesture() != GestureNone {
		t.Error("gesture survived cancel")
	}
}

func TestCancelDiscardsLiveEdit(t *testing.T) {
	e, im := editorWithImage(t)

	e.PointerDown(pt(50, 50), Modifiers{})
	e.PointerMove(pt(90, 90), Modifiers{})
	e.CancelGesture()

	got := e.Scene().ImageByID(im.ID)
	if got.X != 0 || got.Y != 0 {
		t.Errorf("cancelled move leaked: (%v, %v)", got.X, got.Y)
	}
	if e.CanUndo() {
		t.Error("cancelled gesture produced a history entry")
	}
}

func TestDrawRectangle(t *testing.T) {
	e, _ := editorWithImage(t)
	e.SetTool(ToolRect)

	// Start on empty canvas so the rectangle is canvas-owned.
	e.PointerDown(pt(200, 200), Modifiers{})
	e.PointerMove(pt(260, 240), Modifiers{})
	e.PointerUp(pt(260, 240), Modifiers{})

	sel := e.Scene().Selection
	if len(sel.Annotations) != 1 || sel.Annotations[0].ImageID != "" {
		t.Fatalf("selection after draw = %+v", sel.Annotations)
	}
	r, ok := e.Scene().FindAnnotation(sel.Annotations[0]).(*scene.RectShape)
	if !ok {
		t.Fatal("drawn annotation is not a rectangle")
	}
	if r.X != 200 || r.Y != 200 || r.Width != 60 || r.Height != 40 {
		t.Errorf("rect = (%v, %v, %v, %v)", r.X, r.Y, r.Width, r.Height)
	}
	if e.UndoLabel() != "Draw rectangle" {
		t.Errorf("UndoLabel = %q", e.UndoLabel())
	}
}

func TestDrawClickIsDiscarded(t *testing.T) {
	e, _ := editorWithImage(t)
	e.SetTool(ToolCircle)

	e.PointerDown(pt(200, 200), Modifiers{})
	e.PointerUp(pt(200, 200), Modifiers{})

	if n := len(e.Scene().CanvasAnnotations); n != 0 {
		t.Errorf("stray click left %d annotations", n)
	}
	if e.CanUndo() {
		t.Error("stray click produced a history entry")
	}
}

func TestDrawStrokeOnImageUsesLocalCoordinates(t *testing.T) {
	e, im := editorWithImage(t)
	im.X, im.Y = 300, 300
	e.SetTool(ToolStroke)

	e.PointerDown(pt(310, 320), Modifiers{})
	e.PointerMove(pt(330, 320), Modifiers{})
	e.PointerUp(pt(330, 320), Modifiers{})

	sel := e.Scene().Selection
	if len(sel.Annotations) != 1 || sel.Annotations[0].ImageID != im.ID {
		t.Fatalf("stroke owner = %+v, want image", sel.Annotations)
	}
	s, ok := e.Scene().FindAnnotation(sel.Annotations[0]).(*scene.Stroke)
	if !ok || len(s.Points) < 2 {
		t.Fatalf("stroke = %+v", s)
	}
	first := s.Points[0]
	if !scalar.EqualWithinAbs(first.X, 10, 1e-6) || !scalar.EqualWithinAbs(first.Y, 20, 1e-6) {
		t.Errorf("first stroke point = %+v, want image-local (10, 20)", first)
	}
}

func TestScaleMultiBroadcastsRatio(t *testing.T) {
	e, _ := editorWithImage(t)
	c1 := &scene.Circle{Attrs: scene.NewAttrs("#000", 2), CX: 200, CY: 200, Radius: 20}
	c2 := &scene.Circle{Attrs: scene.NewAttrs("#000", 2), CX: 300, CY: 200, Radius: 20}
	c2.Scale = 2
	c3 := &scene.Circle{Attrs: scene.NewAttrs("#000", 2), CX: 250, CY: 300, Radius: 20}
	c3.Scale = 0.5
	e.committed.AddCanvasAnnotation(c1)
	e.committed.AddCanvasAnnotation(c2)
	e.committed.AddCanvasAnnotation(c3)
	refs := []scene.AnnotationRef{{AnnotationID: c1.ID}, {AnnotationID: c2.ID}, {AnnotationID: c3.ID}}
	for _, ref := range refs {
		e.committed.Selection.AddAnnotation(ref)
	}

	bounds, ok := transform.SelectionBounds(e.committed, refs)
	if !ok {
		t.Fatal("no selection bounds")
	}
	pivot := bounds.Center()
	grab := bounds.BottomRight()

	e.PointerDown(grab, Modifiers{})
	if e.Gesture() != GestureScaleMulti {
		t.Fatalf("gesture = %v, want multi scale", e.Gesture())
	}
	target := pivot.Add(grab.Sub(pivot).Scale(2))
	e.PointerMove(target, Modifiers{})
	e.PointerUp(target, Modifiers{})

	got1 := e.Scene().FindAnnotation(refs[0]).Base().Scale
	got2 := e.Scene().FindAnnotation(refs[1]).Base().Scale
	got3 := e.Scene().FindAnnotation(refs[2]).Base().Scale
	if !scalar.EqualWithinAbs(got1, 2, 1e-6) || !scalar.EqualWithinAbs(got2, 4, 1e-6) || !scalar.EqualWithinAbs(got3, 1, 1e-6) {
		t.Errorf("scales = %v, %v, %v, want 2, 4, 1", got1, got2, got3)
	}
	if e.UndoLabel() != "Scale" {
		t.Errorf("UndoLabel = %q", e.UndoLabel())
	}
}

func TestRotateMultiBroadcastsDelta(t *testing.T) {
	e, _ := editorWithImage(t)
	c1 := &scene.Circle{Attrs: scene.NewAttrs("#000", 2), CX: 200, CY: 200, Radius: 20}
	c2 := &scene.Circle{Attrs: scene.NewAttrs("#000", 2), CX: 300, CY: 200, Radius: 20}
	c2.Rotation = 15
	e.committed.AddCanvasAnnotation(c1)
	e.committed.AddCanvasAnnotation(c2)
	refs := []scene.AnnotationRef{{AnnotationID: c1.ID}, {AnnotationID: c2.ID}}
	for _, ref := range refs {
		e.committed.Selection.AddAnnotation(ref)
	}

	handles := e.SelectionHandles()
	var rotate geometry.Point2D
	found := false
	for _, h := range handles {
		if h.ID == HandleRotate {
			rotate = h.Pos
			found = true
		}
	}
	if !found {
		t.Fatal("no rotate handle")
	}

	bounds, _ := transform.SelectionBounds(e.committed, refs)
	pivot := bounds.Center()

	e.PointerDown(rotate, Modifiers{})
	if e.Gesture() != GestureRotateMulti {
		t.Fatalf("gesture = %v, want multi rotate", e.Gesture())
	}

	// Swing the pointer a quarter turn clockwise around the pivot.
	arm := rotate.Sub(pivot)
	target := pivot.Add(pt(-arm.Y, arm.X))
	e.PointerMove(target, Modifiers{})
	e.PointerUp(target, Modifiers{})

	got1 := e.Scene().FindAnnotation(refs[0]).Base().Rotation
	got2 := e.Scene().FindAnnotation(refs[1]).Base().Rotation
	if !scalar.EqualWithinAbs(got1, 90, 1e-6) || !scalar.EqualWithinAbs(got2, 105, 1e-6) {
		t.Errorf("rotations = %v, %v, want 90, 105", got1, got2)
	}
}

func TestScaleSingleAboutOwnPivot(t *testing.T) {
	e, _ := editorWithImage(t)
	c := &scene.Circle{Attrs: scene.NewAttrs("#000", 2), CX: 200, CY: 200, Radius: 20}
	e.committed.AddCanvasAnnotation(c)
	ref := scene.AnnotationRef{AnnotationID: c.ID}
	e.committed.Selection.AddAnnotation(ref)

	bounds, _ := transform.SelectionBounds(e.committed, []scene.AnnotationRef{ref})
	grab := bounds.BottomRight()
	pivot := c.Pivot()

	e.PointerDown(grab, Modifiers{})
	if e.Gesture() != GestureScaleAnnotation {
		t.Fatalf("gesture = %v, want single scale", e.Gesture())
	}
	target := pivot.Add(grab.Sub(pivot).Scale(3))
	e.PointerMove(target, Modifiers{})
	e.PointerUp(target, Modifiers{})

	got := e.Scene().FindAnnotation(ref).Base().Scale
	if !scalar.EqualWithinAbs(got, 3, 1e-6) {
		t.Errorf("scale = %v, want 3", got)
	}
}

func TestEndpointDragMovesOneEnd(t *testing.T) {
	e, _ := editorWithImage(t)
	ln := &scene.Line{
		Attrs: scene.NewAttrs("#000", 2),
		Start: pt(200, 200),
		End:   pt(300, 200),
	}
	e.committed.AddCanvasAnnotation(ln)
	ref := scene.AnnotationRef{AnnotationID: ln.ID}
	e.committed.Selection.AddAnnotation(ref)

	e.PointerDown(pt(300, 200), Modifiers{})
	if e.Gesture() != GestureDragEndpointEnd {
		t.Fatalf("gesture = %v, want endpoint drag", e.Gesture())
	}
	e.PointerMove(pt(340, 260), Modifiers{})
	e.PointerUp(pt(340, 260), Modifiers{})

	got := e.Scene().FindAnnotation(ref).(*scene.Line)
	if got.Start != pt(200, 200) {
		t.Errorf("start moved to %+v", got.Start)
	}
	if !scalar.EqualWithinAbs(got.End.X, 340, 1e-6) || !scalar.EqualWithinAbs(got.End.Y, 260, 1e-6) {
		t.Errorf("end = %+v, want (340, 260)", got.End)
	}
}

func TestCropDrawClampsToImage(t *testing.T) {
	e, im := editorWithImage(t)
	e.SetTool(ToolCrop)

	e.PointerDown(pt(20, 30), Modifiers{})
	if e.Gesture() != GestureDrawCrop {
		t.Fatalf("gesture = %v, want draw crop", e.Gesture())
	}
	// Drag past the raster edge; the crop clamps to the image extent.
	e.PointerMove(pt(150, 90), Modifiers{})
	e.PointerUp(pt(150, 90), Modifiers{})

	got := e.Scene().ImageByID(im.ID)
	if got.CropRect == nil {
		t.Fatal("no crop applied")
	}
	r := *got.CropRect
	if r.X != 20 || r.Y != 30 || r.Width != 80 || r.Height != 60 {
		t.Errorf("crop = %+v, want (20, 30, 80, 60)", r)
	}
	if e.UndoLabel() != "Crop" {
		t.Errorf("UndoLabel = %q", e.UndoLabel())
	}
}

func TestPointerDownIgnoredDuringGesture(t *testing.T) {
	e, _ := editorWithImage(t)

	e.PointerDown(pt(50, 50), Modifiers{})
	first := e.Gesture()
	e.PointerDown(pt(500, 500), Modifiers{})
	if e.Gesture() != first {
		t.Error("second PointerDown replaced the gesture in flight")
	}
}
