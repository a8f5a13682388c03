package engine

import (
	"canvas-composer/pkg/geometry"
)

// Zoom limits mirror what the canvas widget allows.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// View maps between screen (drawing-surface) coordinates and global canvas
// coordinates: screen = canvas*Zoom + Offset.
type View struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64

	// Surface is the drawing-surface size in screen pixels, provided by
	// the rendering layer for zoom-about-center calculations.
	Surface geometry.Size
}

// ScreenToCanvas converts a screen point to global canvas coordinates.
func (v View) ScreenToCanvas(p geometry.Point2D) geometry.Point2D {
	z := v.Zoom
	if z <= 0 {
		z = 1
	}
	return geometry.Point2D{X: (p.X - v.OffsetX) / z, Y: (p.Y - v.OffsetY) / z}
}

// CanvasToScreen converts a global canvas point to screen coordinates.
func (v View) CanvasToScreen(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: p.X*v.Zoom + v.OffsetX, Y: p.Y*v.Zoom + v.OffsetY}
}

// ZoomAt zooms by the given factor keeping the screen point anchor fixed.
func (v View) ZoomAt(factor float64, anchor geometry.Point2D) View {
	z := v.Zoom * factor
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	// Keep the canvas point under the anchor stationary on screen.
	c := v.ScreenToCanvas(anchor)
	v.Zoom = z
	v.OffsetX = anchor.X - c.X*z
	v.OffsetY = anchor.Y - c.Y*z
	return v
}

// Pan shifts the viewport by a screen-space delta.
func (v View) Pan(dx, dy float64) View {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// SetSurfaceSize records the drawing-surface size, consumed from the
// rendering layer.
func (e *Editor) SetSurfaceSize(w, h float64) {
	e.view.Surface = geometry.NewSize(w, h)
}
