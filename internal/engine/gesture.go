package engine

import (
	"math"

	"github.com/google/uuid"

	"canvas-composer/internal/hittest"
	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

// GestureKind is the single mutually-exclusive interaction state.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GesturePan
	GestureMoveObjects
	GestureDrawCrop
	GestureResizeCrop
	GestureMoveCrop
	GestureDrawAnnotation
	GestureMarquee
	GestureScaleAnnotation
	GestureRotateAnnotation
	GestureDragEndpointStart
	GestureDragEndpointEnd
	GestureScaleMulti
	GestureRotateMulti
)

// Modifiers report the keyboard state accompanying a pointer event.
type Modifiers struct {
	// Pan forces the pan gesture (space held or middle button).
	Pan bool
	// Constrain forces equal-ratio rectangles and 45-degree line angles.
	Constrain bool
	// Additive toggles clicked objects in and out of the selection.
	Additive bool
}

// minGestureDist guards ratio and angle math against a degenerate pivot
// distance, and is the drag threshold below which a draw is discarded as a
// stray click.
const minGestureDist = 1e-3

type gestureState struct {
	kind        GestureKind
	startScreen geometry.Point2D
	start       geometry.Point2D // canvas space
	viewStart   View

	// base is the frozen committed scene at gesture start; every update
	// re-derives absolute geometry from it so move deltas never compound.
	base *scene.Scene

	images      []string
	annotations []scene.AnnotationRef
	handle      HandleID
	cropImage   string

	pivot     geometry.Point2D
	initDist  float64
	initAngle float64

	draftID     string
	draftOwner  string // "" = canvas
	draftPoints []geometry.Point2D

	marquee geometry.Rect
	moved   bool
}

// Gesture returns the kind of the gesture in flight, or GestureNone.
func (e *Editor) Gesture() GestureKind {
	if e.gesture == nil {
		return GestureNone
	}
	return e.gesture.kind
}

// MarqueeRect returns the in-progress marquee rectangle in canvas space.
func (e *Editor) MarqueeRect() (geometry.Rect, bool) {
	if e.gesture == nil || e.gesture.kind != GestureMarquee || !e.gesture.moved {
		return geometry.Rect{}, false
	}
	return e.gesture.marquee.Normalize(), true
}

// PointerDown starts a gesture. The screen point is converted through the
// view; what the gesture becomes follows a fixed priority: pan modifier,
// crop handles and body, multi-selection handles, single-selection handles,
// the active draw tool, annotation pick, image pick, and finally marquee.
func (e *Editor) PointerDown(screen geometry.Point2D, mods Modifiers) {
	if e.gesture != nil {
		return
	}
	p := e.view.ScreenToCanvas(screen)
	g := &gestureState{startScreen: screen, start: p, viewStart: e.view}

	if mods.Pan || e.tool == ToolPan {
		g.kind = GesturePan
		e.gesture = g
		return
	}

	if e.tool == ToolCrop && e.beginCropGesture(g, p) {
		return
	}

	if e.beginHandleGesture(g, p) {
		return
	}

	if isDrawTool(e.tool) {
		e.beginDrawGesture(g, p)
		return
	}

	hit := hittest.Pick(e.committed, p)
	switch {
	case hit.Annotation != nil:
		ref := *hit.Annotation
		sel := &e.committed.Selection
		if mods.Additive {
			if sel.HasAnnotation(ref) {
				sel.RemoveAnnotation(ref)
			} else {
				sel.AddAnnotation(ref)
			}
		} else if !sel.HasAnnotation(ref) {
			sel.Clear()
			sel.AddAnnotation(ref)
		}
		e.beginMoveGesture(g)
	case hit.ImageID != "":
		sel := &e.committed.Selection
		if mods.Additive {
			if sel.HasImage(hit.ImageID) {
				// Keep it; additive clicks never start a move on images.
			} else {
				sel.AddImage(hit.ImageID)
			}
		} else if !sel.HasImage(hit.ImageID) {
			sel.Clear()
			sel.AddImage(hit.ImageID)
		}
		e.committed.Selection.ActiveLayer = hit.ImageID
		e.beginMoveGesture(g)
	default:
		if !mods.Additive {
			e.committed.Selection.Clear()
		}
		g.kind = GestureMarquee
		g.marquee = geometry.NewRect(p.X, p.Y, 0, 0)
		e.gesture = g
	}
}

// PointerMove advances the gesture with a new pointer position. Mutating
// gestures rebuild a fresh working scene from the frozen base and stage it
// as the live snapshot, replacing the whole collection atomically.
func (e *Editor) PointerMove(screen geometry.Point2D, mods Modifiers) {
	g := e.gesture
	if g == nil {
		return
	}

	if g.kind == GesturePan {
		e.view = g.viewStart.Pan(screen.X-g.startScreen.X, screen.Y-g.startScreen.Y)
		g.moved = true
		return
	}

	p := e.view.ScreenToCanvas(screen)
	if g.kind == GestureMarquee {
		g.marquee = geometry.NewRect(g.start.X, g.start.Y, p.X-g.start.X, p.Y-g.start.Y)
		g.moved = true
		return
	}

	work := g.base.Clone()
	applied := false
	switch g.kind {
	case GestureMoveObjects:
		applied = e.applyMove(work, g, p)
	case GestureDrawCrop:
		applied = e.applyDrawCrop(work, g, p)
	case GestureResizeCrop:
		applied = e.applyResizeCrop(work, g, p)
	case GestureMoveCrop:
		applied = e.applyMoveCrop(work, g, p)
	case GestureDrawAnnotation:
		applied = e.applyDraw(work, g, p, mods)
	case GestureScaleAnnotation:
		applied = e.applyScaleSingle(work, g, p)
	case GestureRotateAnnotation:
		applied = e.applyRotateSingle(work, g, p)
	case GestureDragEndpointStart, GestureDragEndpointEnd:
		applied = e.applyEndpointDrag(work, g, p, mods)
	case GestureScaleMulti:
		applied = e.applyScaleMulti(work, g, p)
	case GestureRotateMulti:
		applied = e.applyRotateMulti(work, g, p)
	}
	if applied {
		g.moved = true
		e.log.UpdateLive(work)
	}
}

// PointerUp ends the gesture: mutating gestures fold their live snapshot
// into history, draw gestures finalize the new annotation, and the marquee
// resolves to a selection. A gesture whose target vanished mid-flight, or
// that never moved, is discarded without touching history.
func (e *Editor) PointerUp(screen geometry.Point2D, mods Modifiers) {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil

	switch g.kind {
	case GesturePan:
		return
	case GestureMarquee:
		r := g.marquee.Normalize()
		if g.moved && (r.Width > minGestureDist || r.Height > minGestureDist) {
			images, refs := hittest.PickRect(e.committed, r)
			sel := &e.committed.Selection
			if !mods.Additive {
				sel.Clear()
			}
			for _, id := range images {
				sel.AddImage(id)
			}
			for _, ref := range refs {
				sel.AddAnnotation(ref)
			}
		}
		return
	case GestureDrawAnnotation:
		e.finishDraw(g)
		return
	}

	if !g.moved || e.log.Live() == nil {
		e.log.EndLive(false, "")
		return
	}
	if sc := e.log.EndLive(true, gestureLabel(g.kind)); sc != nil {
		sc.PruneSelection()
		e.committed = sc
	}
}

// CancelGesture abandons the gesture in flight, discarding any staged live
// snapshot. Used when the pointer leaves the surface.
func (e *Editor) CancelGesture() {
	if e.gesture == nil {
		return
	}
	if e.gesture.kind == GesturePan {
		e.view = e.gesture.viewStart
	}
	e.cancelGesture()
}

func (e *Editor) cancelGesture() {
	e.log.EndLive(false, "")
	e.gesture = nil
}

// beginLive freezes the committed scene as the gesture base and stages an
// identical live copy for rendering.
func (e *Editor) beginLive(g *gestureState) {
	g.base = e.committed.Clone()
	e.log.BeginLive(e.committed.Clone())
	e.gesture = g
}

func (e *Editor) beginMoveGesture(g *gestureState) {
	g.kind = GestureMoveObjects
	sel := e.committed.Selection
	g.images = append(g.images, sel.ImageIDs...)
	g.annotations = append(g.annotations, sel.Annotations...)
	e.beginLive(g)
}

// beginHandleGesture starts a scale/rotate/endpoint gesture when the point
// lands on a selection handle. Multi-selection handles take priority over
// single-selection handles and require at least two selected annotations.
func (e *Editor) beginHandleGesture(g *gestureState, p geometry.Point2D) bool {
	refs := e.committed.Selection.Annotations
	if len(refs) == 0 {
		return false
	}
	h := e.hitHandle(p, e.SelectionHandles())
	if h == HandleNone {
		return false
	}
	g.handle = h
	g.annotations = append(g.annotations, refs...)

	if len(refs) >= 2 {
		bounds, ok := transform.SelectionBounds(e.committed, refs)
		if !ok {
			return false
		}
		g.pivot = bounds.Center()
		g.initDist = math.Max(g.pivot.Distance(p), minGestureDist)
		g.initAngle = g.pivot.AngleTo(p)
		switch h {
		case HandleRotate:
			g.kind = GestureRotateMulti
		default:
			g.kind = GestureScaleMulti
		}
		e.beginLive(g)
		return true
	}

	ref := refs[0]
	a := e.committed.FindAnnotation(ref)
	if a == nil {
		return false
	}
	im := e.committed.ImageByID(ref.ImageID)

	switch h {
	case HandleEndpointStart:
		g.kind = GestureDragEndpointStart
	case HandleEndpointEnd:
		g.kind = GestureDragEndpointEnd
	case HandleRotate:
		g.kind = GestureRotateAnnotation
		g.pivot = a.Pivot()
		local := transform.ToLocal(p, im)
		g.initAngle = g.pivot.AngleTo(local)
	default:
		g.kind = GestureScaleAnnotation
		g.pivot = a.Pivot()
		local := transform.ToLocal(p, im)
		g.initDist = math.Max(g.pivot.Distance(local), minGestureDist)
	}
	e.beginLive(g)
	return true
}

func (e *Editor) beginCropGesture(g *gestureState, p geometry.Point2D) bool {
	if im := e.cropTarget(); im != nil {
		if h := e.hitHandle(p, e.CropHandles()); h != HandleNone {
			g.kind = GestureResizeCrop
			g.handle = h
			g.cropImage = im.ID
			e.beginLive(g)
			return true
		}
		if pointInImage(p, im) {
			g.kind = GestureMoveCrop
			g.cropImage = im.ID
			e.beginLive(g)
			return true
		}
	}
	if im := e.imageUnder(p); im != nil {
		g.kind = GestureDrawCrop
		g.cropImage = im.ID
		e.committed.Selection.Clear()
		e.committed.Selection.AddImage(im.ID)
		e.beginLive(g)
		return true
	}
	return false
}

func (e *Editor) beginDrawGesture(g *gestureState, p geometry.Point2D) {
	g.kind = GestureDrawAnnotation
	g.draftID = uuid.NewString()
	if im := e.imageUnder(p); im != nil {
		g.draftOwner = im.ID
	}
	e.beginLive(g)
	var owner *scene.Image
	if g.draftOwner != "" {
		owner = g.base.ImageByID(g.draftOwner)
	}
	local := transform.ToLocal(p, owner)
	g.draftPoints = append(g.draftPoints, local)

	// Stage the initial draft so a bare click already renders something.
	work := g.base.Clone()
	if e.addDraft(work, g, local, Modifiers{}) {
		e.log.UpdateLive(work)
	}
}

// imageUnder returns the topmost visible image whose body contains the
// global point, ignoring annotations.
func (e *Editor) imageUnder(p geometry.Point2D) *scene.Image {
	order := e.committed.FlattenOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if im := e.committed.ImageByID(order[i]); im != nil && im.Visible && pointInImage(p, im) {
			return im
		}
	}
	return nil
}

func pointInImage(p geometry.Point2D, im *scene.Image) bool {
	lp := transform.ToLocal(p, im)
	w, h := im.EffectiveSize()
	return lp.X >= 0 && lp.X <= w && lp.Y >= 0 && lp.Y <= h
}

func isDrawTool(t Tool) bool {
	switch t {
	case ToolStroke, ToolRect, ToolCircle, ToolText, ToolLine, ToolArrow:
		return true
	}
	return false
}

func gestureLabel(k GestureKind) string {
	switch k {
	case GestureMoveObjects:
		return "Move"
	case GestureDrawCrop, GestureResizeCrop, GestureMoveCrop:
		return "Crop"
	case GestureScaleAnnotation, GestureScaleMulti:
		return "Scale"
	case GestureRotateAnnotation, GestureRotateMulti:
		return "Rotate"
	case GestureDragEndpointStart, GestureDragEndpointEnd:
		return "Adjust endpoint"
	default:
		return "Edit"
	}
}
