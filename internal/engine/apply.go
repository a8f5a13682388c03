package engine

import (
	"math"

	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

// strokeResampleSpacing is the spline resample interval for finished
// freehand strokes, in owner-local units.
const strokeResampleSpacing = 2.0

// applyMove translates every captured image and annotation by the pointer
// delta in one update. Annotations owned by a moved image ride along with
// it and are skipped; the rest get the delta rewritten into their owner's
// local space. Targets deleted since gesture start are silently skipped.
func (e *Editor) applyMove(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	delta := p.Sub(g.start)
	moved := map[string]bool{}
	applied := false

	for _, id := range g.images {
		bi := g.base.ImageByID(id)
		wi := work.ImageByID(id)
		if bi == nil || wi == nil {
			continue
		}
		wi.X = bi.X + delta.X
		wi.Y = bi.Y + delta.Y
		moved[id] = true
		applied = true
	}

	for _, ref := range g.annotations {
		if moved[ref.ImageID] {
			continue
		}
		aw := work.FindAnnotation(ref)
		if aw == nil {
			continue
		}
		ld := delta
		if ref.ImageID != "" {
			im := g.base.ImageByID(ref.ImageID)
			if im == nil {
				continue
			}
			ld = geometry.RotationDegrees(-im.Rotation).Apply(delta).Scale(1 / transform.SafeScale(im.Scale))
		}
		// work is a fresh clone of base, so translating once applies the
		// absolute delta.
		aw.Translate(ld.X, ld.Y)
		applied = true
	}
	return applied
}

func (e *Editor) applyScaleSingle(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	ref := g.annotations[0]
	ab := g.base.FindAnnotation(ref)
	aw := work.FindAnnotation(ref)
	if ab == nil || aw == nil {
		return false
	}
	im := g.base.ImageByID(ref.ImageID)
	local := transform.ToLocal(p, im)
	dist := math.Max(g.pivot.Distance(local), minGestureDist)
	aw.Base().Scale = ab.Base().Scale * (dist / g.initDist)
	return true
}

func (e *Editor) applyRotateSingle(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	ref := g.annotations[0]
	ab := g.base.FindAnnotation(ref)
	aw := work.FindAnnotation(ref)
	if ab == nil || aw == nil {
		return false
	}
	im := g.base.ImageByID(ref.ImageID)
	local := transform.ToLocal(p, im)
	aw.Base().Rotation = ab.Base().Rotation + (g.pivot.AngleTo(local) - g.initAngle)
	return true
}

func (e *Editor) applyEndpointDrag(work *scene.Scene, g *gestureState, p geometry.Point2D, mods Modifiers) bool {
	ref := g.annotations[0]
	ab := g.base.FindAnnotation(ref)
	aw := work.FindAnnotation(ref)
	if ab == nil || aw == nil {
		return false
	}
	im := g.base.ImageByID(ref.ImageID)
	// The base annotation's pivot keeps the inverse mapping stable while
	// the endpoint moves.
	raw := transform.GlobalToAnnotation(p, ab, im)

	start, end, ok := endpoints(aw)
	if !ok {
		return false
	}
	if g.kind == GestureDragEndpointStart {
		if mods.Constrain {
			raw = geometry.SnapAngle(end, raw, 45)
		}
		setEndpoints(aw, raw, end)
	} else {
		if mods.Constrain {
			raw = geometry.SnapAngle(start, raw, 45)
		}
		setEndpoints(aw, start, raw)
	}
	return true
}

// applyScaleMulti broadcasts one scale ratio to every selected member's own
// scale field. Members are not repositioned relative to the shared pivot;
// each base value comes from the per-gesture frozen scene so repeated
// updates never compound.
func (e *Editor) applyScaleMulti(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	dist := math.Max(g.pivot.Distance(p), minGestureDist)
	ratio := dist / g.initDist
	applied := false
	for _, ref := range g.annotations {
		ab := g.base.FindAnnotation(ref)
		aw := work.FindAnnotation(ref)
		if ab == nil || aw == nil {
			continue
		}
		aw.Base().Scale = ab.Base().Scale * ratio
		applied = true
	}
	return applied
}

// applyRotateMulti broadcasts one rotation delta to every selected member's
// own rotation field, with the same no-repositioning semantics as
// applyScaleMulti.
func (e *Editor) applyRotateMulti(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	delta := g.pivot.AngleTo(p) - g.initAngle
	applied := false
	for _, ref := range g.annotations {
		ab := g.base.FindAnnotation(ref)
		aw := work.FindAnnotation(ref)
		if ab == nil || aw == nil {
			continue
		}
		aw.Base().Rotation = ab.Base().Rotation + delta
		applied = true
	}
	return applied
}

func (e *Editor) applyDrawCrop(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	bi := g.base.ImageByID(g.cropImage)
	wi := work.ImageByID(g.cropImage)
	if bi == nil || wi == nil {
		return false
	}
	ls := transform.ToLocal(g.start, bi)
	lc := transform.ToLocal(p, bi)
	w := lc.X - ls.X
	h := lc.Y - ls.Y
	if e.cropAspect > 0 {
		h = math.Copysign(math.Abs(w)/e.cropAspect, h)
	}

	// Local units equal raster units, offset by any existing crop origin.
	var off geometry.Point2D
	if bi.CropRect != nil {
		off = bi.CropRect.Normalize().TopLeft()
	}
	r := clampRect(geometry.NewRect(off.X+ls.X, off.Y+ls.Y, w, h).Normalize(), bi.Width, bi.Height)
	if r.Width < 1 || r.Height < 1 {
		return false
	}
	wi.CropRect = &r
	return true
}

func (e *Editor) applyResizeCrop(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	bi := g.base.ImageByID(g.cropImage)
	wi := work.ImageByID(g.cropImage)
	if bi == nil || wi == nil {
		return false
	}
	cb := geometry.NewRect(0, 0, bi.Width, bi.Height)
	if bi.CropRect != nil {
		cb = bi.CropRect.Normalize()
	}
	ls := transform.ToLocal(g.start, bi)
	lc := transform.ToLocal(p, bi)
	dx := lc.X - ls.X
	dy := lc.Y - ls.Y

	r := cb
	switch g.handle {
	case HandleCropNW:
		r.X += dx
		r.Y += dy
		r.Width -= dx
		r.Height -= dy
	case HandleCropN:
		r.Y += dy
		r.Height -= dy
	case HandleCropNE:
		r.Width += dx
		r.Y += dy
		r.Height -= dy
	case HandleCropE:
		r.Width += dx
	case HandleCropSE:
		r.Width += dx
		r.Height += dy
	case HandleCropS:
		r.Height += dy
	case HandleCropSW:
		r.X += dx
		r.Width -= dx
		r.Height += dy
	case HandleCropW:
		r.X += dx
		r.Width -= dx
	default:
		return false
	}

	// A fixed aspect adjusts the dimension the handle did not drag.
	if e.cropAspect > 0 {
		switch g.handle {
		case HandleCropN, HandleCropS:
			r.Width = math.Copysign(math.Abs(r.Height)*e.cropAspect, r.Width)
		default:
			r.Height = math.Copysign(math.Abs(r.Width)/e.cropAspect, r.Height)
		}
	}

	r = clampRect(r.Normalize(), bi.Width, bi.Height)
	if r.Width < 1 || r.Height < 1 {
		return false
	}
	wi.CropRect = &r
	return true
}

func (e *Editor) applyMoveCrop(work *scene.Scene, g *gestureState, p geometry.Point2D) bool {
	bi := g.base.ImageByID(g.cropImage)
	wi := work.ImageByID(g.cropImage)
	if bi == nil || wi == nil || bi.CropRect == nil {
		return false
	}
	cb := bi.CropRect.Normalize()
	ls := transform.ToLocal(g.start, bi)
	lc := transform.ToLocal(p, bi)

	r := cb
	r.X = clamp(cb.X+lc.X-ls.X, 0, bi.Width-cb.Width)
	r.Y = clamp(cb.Y+lc.Y-ls.Y, 0, bi.Height-cb.Height)
	wi.CropRect = &r
	return true
}

func (e *Editor) applyDraw(work *scene.Scene, g *gestureState, p geometry.Point2D, mods Modifiers) bool {
	var owner *scene.Image
	if g.draftOwner != "" {
		owner = g.base.ImageByID(g.draftOwner)
		if owner == nil {
			return false
		}
	}
	local := transform.ToLocal(p, owner)
	if e.tool == ToolStroke {
		g.draftPoints = append(g.draftPoints, local)
	}
	return e.addDraft(work, g, local, mods)
}

// addDraft rebuilds the draft annotation from the gesture's source samples
// and inserts it into the working scene.
func (e *Editor) addDraft(work *scene.Scene, g *gestureState, cur geometry.Point2D, mods Modifiers) bool {
	if len(g.draftPoints) == 0 {
		return false
	}
	start := g.draftPoints[0]
	base := scene.Attrs{
		ID:          g.draftID,
		Scale:       1,
		Color:       e.style.Color,
		StrokeWidth: e.style.StrokeWidth,
	}

	var a scene.Annotation
	switch e.tool {
	case ToolStroke:
		pts := make([]geometry.Point2D, len(g.draftPoints))
		copy(pts, g.draftPoints)
		a = &scene.Stroke{Attrs: base, Points: pts}
	case ToolRect:
		w := cur.X - start.X
		h := cur.Y - start.Y
		if mods.Constrain {
			h = math.Copysign(math.Abs(w), h)
		}
		a = &scene.RectShape{Attrs: base, X: start.X, Y: start.Y, Width: w, Height: h}
	case ToolCircle:
		a = &scene.Circle{Attrs: base, CX: start.X, CY: start.Y, Radius: start.Distance(cur)}
	case ToolText:
		a = &scene.Text{Attrs: base, X: start.X, Y: start.Y, Text: "Text", FontSize: e.style.FontSize}
	case ToolLine:
		end := cur
		if mods.Constrain {
			end = geometry.SnapAngle(start, end, 45)
		}
		a = &scene.Line{Attrs: base, Start: start, End: end}
	case ToolArrow:
		end := cur
		if mods.Constrain {
			end = geometry.SnapAngle(start, end, 45)
		}
		a = &scene.Arrow{Attrs: base, Start: start, End: end}
	default:
		return false
	}

	if g.draftOwner == "" {
		work.AddCanvasAnnotation(a)
		return true
	}
	im := work.ImageByID(g.draftOwner)
	if im == nil {
		return false
	}
	im.Annotations = append(im.Annotations, a)
	return true
}

// finishDraw finalizes the draft at pointer-up: drag-shaped tools discard a
// stray click, strokes are spline-resampled, and the new annotation ends up
// committed and selected.
func (e *Editor) finishDraw(g *gestureState) {
	live := e.log.Live()
	if live == nil {
		e.log.EndLive(false, "")
		return
	}
	switch e.tool {
	case ToolRect, ToolCircle, ToolLine, ToolArrow:
		if !g.moved {
			e.log.EndLive(false, "")
			return
		}
	}

	ref := scene.AnnotationRef{ImageID: g.draftOwner, AnnotationID: g.draftID}
	if s, ok := live.FindAnnotation(ref).(*scene.Stroke); ok {
		s.Points = scene.ResampleStroke(s.Points, strokeResampleSpacing)
	}

	if sc := e.log.EndLive(true, "Draw "+toolName(e.tool)); sc != nil {
		sc.Selection.Clear()
		sc.Selection.AddAnnotation(ref)
		e.committed = sc
	}
}

func endpoints(a scene.Annotation) (start, end geometry.Point2D, ok bool) {
	switch s := a.(type) {
	case *scene.Line:
		return s.Start, s.End, true
	case *scene.Arrow:
		return s.Start, s.End, true
	}
	return start, end, false
}

func setEndpoints(a scene.Annotation, start, end geometry.Point2D) {
	switch s := a.(type) {
	case *scene.Line:
		s.Start, s.End = start, end
	case *scene.Arrow:
		s.Start, s.End = start, end
	}
}

func toolName(t Tool) string {
	switch t {
	case ToolStroke:
		return "stroke"
	case ToolRect:
		return "rectangle"
	case ToolCircle:
		return "circle"
	case ToolText:
		return "text"
	case ToolLine:
		return "line"
	case ToolArrow:
		return "arrow"
	}
	return "annotation"
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampRect(r geometry.Rect, w, h float64) geometry.Rect {
	x2 := clamp(r.X+r.Width, 0, w)
	y2 := clamp(r.Y+r.Height, 0, h)
	x := clamp(r.X, 0, w)
	y := clamp(r.Y, 0, h)
	return geometry.NewRect(x, y, x2-x, y2-y)
}
