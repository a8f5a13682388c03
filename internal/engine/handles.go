package engine

import (
	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

// HandleID identifies a manipulation handle on the current selection or
// crop rectangle.
type HandleID int

const (
	HandleNone HandleID = iota

	// Corner scale handles of a selection box.
	HandleScaleNW
	HandleScaleNE
	HandleScaleSE
	HandleScaleSW

	// Rotate handle above the selection box.
	HandleRotate

	// Endpoint handles of a selected line or arrow.
	HandleEndpointStart
	HandleEndpointEnd

	// Crop rectangle handles, clockwise from the top-left corner.
	HandleCropNW
	HandleCropN
	HandleCropNE
	HandleCropE
	HandleCropSE
	HandleCropS
	HandleCropSW
	HandleCropW
)

// Handle is a manipulation handle at a global canvas position.
type Handle struct {
	ID  HandleID
	Pos geometry.Point2D
}

const (
	handleHitRadius  = 8.0  // screen px
	rotateHandleRise = 24.0 // screen px above the selection box
)

// SelectionHandles returns the handles for the current annotation
// selection, in global canvas coordinates: corner scale handles plus a
// rotate handle for one or more selected annotations, and endpoint handles
// when the single selected annotation is a line or arrow.
func (e *Editor) SelectionHandles() []Handle {
	sc := e.Scene()
	refs := sc.Selection.Annotations
	if len(refs) == 0 {
		return nil
	}

	bounds, ok := transform.SelectionBounds(sc, refs)
	if !ok {
		return nil
	}
	handles := boxHandles(bounds, e.view.Zoom)

	if len(refs) == 1 {
		a := sc.FindAnnotation(refs[0])
		if a == nil {
			return handles
		}
		im := sc.ImageByID(refs[0].ImageID)
		switch s := a.(type) {
		case *scene.Line:
			handles = append(handles,
				Handle{HandleEndpointStart, transform.AnnotationToGlobal(s.Start, a, im)},
				Handle{HandleEndpointEnd, transform.AnnotationToGlobal(s.End, a, im)})
		case *scene.Arrow:
			handles = append(handles,
				Handle{HandleEndpointStart, transform.AnnotationToGlobal(s.Start, a, im)},
				Handle{HandleEndpointEnd, transform.AnnotationToGlobal(s.End, a, im)})
		}
	}
	return handles
}

// CropHandles returns the eight handles on the crop target's displayed box,
// or nil when the crop tool is inactive or nothing croppable is selected.
func (e *Editor) CropHandles() []Handle {
	if e.tool != ToolCrop {
		return nil
	}
	im := e.cropTarget()
	if im == nil {
		return nil
	}
	w, h := im.EffectiveSize()
	at := func(x, y float64) geometry.Point2D {
		return transform.ToGlobal(geometry.Point2D{X: x, Y: y}, im)
	}
	return []Handle{
		{HandleCropNW, at(0, 0)},
		{HandleCropN, at(w/2, 0)},
		{HandleCropNE, at(w, 0)},
		{HandleCropE, at(w, h/2)},
		{HandleCropSE, at(w, h)},
		{HandleCropS, at(w/2, h)},
		{HandleCropSW, at(0, h)},
		{HandleCropW, at(0, h/2)},
	}
}

// cropTarget returns the image crop gestures act on: the first selected
// image, or nil.
func (e *Editor) cropTarget() *scene.Image {
	sc := e.Scene()
	if len(sc.Selection.ImageIDs) == 0 {
		return nil
	}
	return sc.ImageByID(sc.Selection.ImageIDs[0])
}

// hitHandle returns the handle under the global point, if any. The hit
// radius is constant on screen, so it shrinks in canvas units under zoom.
func (e *Editor) hitHandle(p geometry.Point2D, handles []Handle) HandleID {
	z := e.view.Zoom
	if z <= 0 {
		z = 1
	}
	radius := handleHitRadius / z
	best := HandleNone
	bestDist := radius
	for _, h := range handles {
		if d := p.Distance(h.Pos); d <= bestDist {
			best = h.ID
			bestDist = d
		}
	}
	return best
}

func boxHandles(b geometry.Rect, zoom float64) []Handle {
	if zoom <= 0 {
		zoom = 1
	}
	return []Handle{
		{HandleScaleNW, b.TopLeft()},
		{HandleScaleNE, geometry.Point2D{X: b.X + b.Width, Y: b.Y}},
		{HandleScaleSE, b.BottomRight()},
		{HandleScaleSW, geometry.Point2D{X: b.X, Y: b.Y + b.Height}},
		{HandleRotate, geometry.Point2D{X: b.X + b.Width/2, Y: b.Y - rotateHandleRise/zoom}},
	}
}
