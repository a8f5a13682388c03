// Package canvas provides the composition surface widget with pan, zoom,
// and direct-manipulation editing.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"canvas-composer/internal/app"
	"canvas-composer/internal/compose"
	"canvas-composer/internal/engine"
	"canvas-composer/pkg/geometry"
)

const zoomStep = 1.25

// EditorCanvas renders the scene through the compositor and forwards
// pointer events into the editor's gesture state machine.
type EditorCanvas struct {
	widget.BaseWidget

	state    *app.State
	renderer *compose.Renderer
	raster   *fynecanvas.Raster

	// onChanged fires after any interaction that may have modified the
	// scene, the selection, or the view.
	onChanged func()
}

var _ desktop.Mouseable = (*EditorCanvas)(nil)
var _ desktop.Hoverable = (*EditorCanvas)(nil)
var _ fyne.Scrollable = (*EditorCanvas)(nil)

// NewEditorCanvas creates the composition surface for the given state.
func NewEditorCanvas(state *app.State) *EditorCanvas {
	ec := &EditorCanvas{
		state:    state,
		renderer: compose.NewRenderer(state.Sources),
	}
	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScalePixels
	ec.ExtendBaseWidget(ec)
	return ec
}

// OnChanged sets a callback invoked after interactions.
func (ec *EditorCanvas) OnChanged(callback func()) {
	ec.onChanged = callback
}

func (ec *EditorCanvas) notify() {
	if ec.onChanged != nil {
		ec.onChanged()
	}
}

// Refresh redraws the scene.
func (ec *EditorCanvas) Refresh() {
	ec.raster.Refresh()
	ec.BaseWidget.Refresh()
}

// MouseDown starts a gesture at the pressed position.
func (ec *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	ec.state.Editor.PointerDown(pointOf(ev.Position), modsOf(ev))
	ec.Refresh()
}

// MouseUp finishes the gesture in flight.
func (ec *EditorCanvas) MouseUp(ev *desktop.MouseEvent) {
	ed := ec.state.Editor
	active := ed.Gesture()
	ed.PointerUp(pointOf(ev.Position), modsOf(ev))
	if active != engine.GestureNone {
		ec.state.SetModified(true)
		ec.state.Emit(app.EventSceneChanged, nil)
	}
	ec.Refresh()
	ec.notify()
}

// MouseMoved advances the gesture in flight; it is a no-op otherwise.
func (ec *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	ed := ec.state.Editor
	if ed.Gesture() == engine.GestureNone {
		return
	}
	ed.PointerMove(pointOf(ev.Position), modsOf(ev))
	ec.Refresh()
}

func (ec *EditorCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseOut cancels any gesture so a drag that leaves the surface never
// commits half-applied geometry.
func (ec *EditorCanvas) MouseOut() {
	ed := ec.state.Editor
	if ed.Gesture() != engine.GestureNone {
		ed.CancelGesture()
		ec.Refresh()
	}
}

// Scrolled zooms about the cursor.
func (ec *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	ed := ec.state.Editor
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	ed.SetView(ed.View().ZoomAt(factor, pointOf(ev.Position)))
	ec.Refresh()
	ec.notify()
}

// CancelActiveGesture aborts the gesture in flight, restoring the
// pre-gesture scene and view. Bound to Escape by the main window.
func (ec *EditorCanvas) CancelActiveGesture() {
	ec.state.Editor.CancelGesture()
	ec.Refresh()
}

// Zoom returns the current zoom factor for status display.
func (ec *EditorCanvas) Zoom() float64 {
	return ec.state.Editor.View().Zoom
}

// ZoomIn zooms about the surface center.
func (ec *EditorCanvas) ZoomIn() { ec.zoomCenter(zoomStep) }

// ZoomOut zooms about the surface center.
func (ec *EditorCanvas) ZoomOut() { ec.zoomCenter(1 / zoomStep) }

func (ec *EditorCanvas) zoomCenter(factor float64) {
	ed := ec.state.Editor
	v := ed.View()
	center := geometry.Point2D{X: v.Surface.Width / 2, Y: v.Surface.Height / 2}
	ed.SetView(v.ZoomAt(factor, center))
	ec.Refresh()
	ec.notify()
}

// FitScene adjusts the view so every visible image fits the surface.
func (ec *EditorCanvas) FitScene() {
	ed := ec.state.Editor
	region, ok := compose.SceneBounds(ed.Scene())
	if !ok || region.Width <= 0 || region.Height <= 0 {
		return
	}
	v := ed.View()
	if v.Surface.Width <= 0 || v.Surface.Height <= 0 {
		return
	}
	zoom := v.Surface.Width / region.Width
	if zy := v.Surface.Height / region.Height; zy < zoom {
		zoom = zy
	}
	zoom *= 0.95 // leave a small margin
	if zoom < 0.1 {
		zoom = 0.1
	}
	if zoom > 10 {
		zoom = 10
	}
	v.Zoom = zoom
	v.OffsetX = v.Surface.Width/2 - (region.X+region.Width/2)*zoom
	v.OffsetY = v.Surface.Height/2 - (region.Y+region.Height/2)*zoom
	ed.SetView(v)
	ec.Refresh()
	ec.notify()
}

// draw renders the composited scene for the current view, then the
// interaction overlay on top.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	if w < 1 || h < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	ed := ec.state.Editor
	ed.SetSurfaceSize(float64(w), float64(h))
	v := ed.View()

	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	origin := v.ScreenToCanvas(geometry.Point2D{})
	region := geometry.NewRect(origin.X, origin.Y, float64(w)/zoom, float64(h)/zoom)

	out := ec.renderer.Render(ed.Scene(), region, zoom)
	if !out.Bounds().Eq(image.Rect(0, 0, w, h)) {
		out = out.SubImage(image.Rect(0, 0, w, h)).(*image.RGBA)
	}

	ec.drawOverlay(out, v)
	return out
}

func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ec.raster)
}

func (ec *EditorCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func pointOf(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}

// modsOf maps the desktop event state onto gesture modifiers: middle
// button or Alt pans, Shift constrains shapes, Ctrl (Cmd) toggles
// selection membership.
func modsOf(ev *desktop.MouseEvent) engine.Modifiers {
	return engine.Modifiers{
		Pan:       ev.Button == desktop.MouseButtonTertiary || ev.Modifier&fyne.KeyModifierAlt != 0,
		Constrain: ev.Modifier&fyne.KeyModifierShift != 0,
		Additive:  ev.Modifier&fyne.KeyModifierControl != 0 || ev.Modifier&fyne.KeyModifierSuper != 0,
	}
}
