package canvas

import (
	"image"

	"canvas-composer/internal/engine"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

const (
	handleHalf   = 4 // px, square handle half-extent
	handleRadius = 6 // px, round handle radius
)

// drawOverlay paints the interaction chrome on top of the composited
// scene: selected image outlines, annotation selection bounds, handles,
// the crop frame, and the marquee. Everything is drawn in screen space.
func (ec *EditorCanvas) drawOverlay(out *image.RGBA, v engine.View) {
	ed := ec.state.Editor
	sc := ed.Scene()

	// Selected images get their rotated quad outlined, so the outline
	// tracks the displayed box rather than the axis-aligned bounds.
	for _, id := range sc.Selection.ImageIDs {
		im := sc.ImageByID(id)
		if im == nil {
			continue
		}
		w, h := im.EffectiveSize()
		corners := geometry.NewRect(0, 0, w, h).Corners()
		var pts [4]geometry.Point2D
		for i, c := range corners {
			pts[i] = v.CanvasToScreen(transform.ToGlobal(c, im))
		}
		for i := range pts {
			q := pts[(i+1)%4]
			drawLine(out, int(pts[i].X), int(pts[i].Y), int(q.X), int(q.Y), accentColor, 2)
		}
	}

	if bounds, ok := transform.SelectionBounds(sc, sc.Selection.Annotations); ok {
		tl := v.CanvasToScreen(bounds.TopLeft())
		br := v.CanvasToScreen(bounds.BottomRight())
		drawDashedRect(out, int(tl.X), int(tl.Y), int(br.X), int(br.Y), accentColor)
	}

	for _, h := range ed.SelectionHandles() {
		p := v.CanvasToScreen(h.Pos)
		switch h.ID {
		case engine.HandleRotate, engine.HandleEndpointStart, engine.HandleEndpointEnd:
			drawHandleCircle(out, int(p.X), int(p.Y), handleRadius)
		default:
			drawHandleSquare(out, int(p.X), int(p.Y), handleHalf)
		}
	}

	if crops := ed.CropHandles(); len(crops) > 0 {
		ec.drawCropFrame(out, v, crops)
	}

	if r, ok := ed.MarqueeRect(); ok {
		tl := v.CanvasToScreen(r.TopLeft())
		br := v.CanvasToScreen(r.BottomRight())
		drawDashedRect(out, int(tl.X), int(tl.Y), int(br.X), int(br.Y), marqueeColor)
	}
}

// drawCropFrame outlines the crop target through its corner handles and
// draws the eight resize handles.
func (ec *EditorCanvas) drawCropFrame(out *image.RGBA, v engine.View, handles []engine.Handle) {
	corner := func(id engine.HandleID) (geometry.Point2D, bool) {
		for _, h := range handles {
			if h.ID == id {
				return v.CanvasToScreen(h.Pos), true
			}
		}
		return geometry.Point2D{}, false
	}
	order := []engine.HandleID{engine.HandleCropNW, engine.HandleCropNE, engine.HandleCropSE, engine.HandleCropSW}
	var pts []geometry.Point2D
	for _, id := range order {
		if p, ok := corner(id); ok {
			pts = append(pts, p)
		}
	}
	if len(pts) == 4 {
		for i := range pts {
			q := pts[(i+1)%4]
			drawLine(out, int(pts[i].X), int(pts[i].Y), int(q.X), int(q.Y), cropColor, 1)
		}
	}
	for _, h := range handles {
		p := v.CanvasToScreen(h.Pos)
		drawHandleSquare(out, int(p.X), int(p.Y), handleHalf)
	}
}
