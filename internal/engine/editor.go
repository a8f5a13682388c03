// Package engine drives the interactive composition editor: it owns the
// scene and its history, resolves pointer events through one mutually
// exclusive gesture state, and exposes the operations the UI layer calls.
// It is fully headless; the UI feeds it pointer positions and reads back
// geometry.
package engine

import (
	"canvas-composer/internal/hittest"
	"canvas-composer/internal/history"
	"canvas-composer/internal/scene"
	"canvas-composer/pkg/geometry"
)

// Tool selects what a primary drag on empty space or an image does.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolCrop
	ToolStroke
	ToolRect
	ToolCircle
	ToolText
	ToolLine
	ToolArrow
)

// Style holds the attributes applied to newly drawn annotations.
type Style struct {
	Color       string
	StrokeWidth float64
	FontSize    float64
}

// DefaultStyle is used until the UI overrides it.
var DefaultStyle = Style{Color: "#e53935", StrokeWidth: 3, FontSize: 18}

// Editor is the interaction engine. All methods must be called from a
// single event-handling goroutine; the engine itself never spawns work.
type Editor struct {
	committed *scene.Scene
	log       *history.Log
	view      View

	tool       Tool
	style      Style
	cropAspect float64 // width/height; 0 = unconstrained

	gesture *gestureState
}

// New creates an editor around an initial scene. The initial scene becomes
// the first history snapshot.
func New(sc *scene.Scene) *Editor {
	if sc == nil {
		sc = scene.New()
	}
	return &Editor{
		committed: sc,
		log:       history.NewLog(sc),
		view:      View{Zoom: 1},
		tool:      ToolSelect,
		style:     DefaultStyle,
	}
}

// Scene returns the scene a renderer should draw: the live gesture snapshot
// when one is active, the committed scene otherwise. Callers must treat it
// as read-only.
func (e *Editor) Scene() *scene.Scene {
	if live := e.log.Live(); live != nil {
		return live
	}
	return e.committed
}

// View returns the current pan/zoom viewport.
func (e *Editor) View() View {
	return e.view
}

// SetView replaces the viewport.
func (e *Editor) SetView(v View) {
	if v.Zoom <= 0 {
		v.Zoom = 1
	}
	e.view = v
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// SetTool switches the active tool. Switching cancels any gesture in flight.
func (e *Editor) SetTool(t Tool) {
	if e.gesture != nil {
		e.cancelGesture()
	}
	e.tool = t
}

// Style returns the style for newly drawn annotations.
func (e *Editor) Style() Style {
	return e.style
}

// SetStyle replaces the style for newly drawn annotations.
func (e *Editor) SetStyle(s Style) {
	e.style = s
}

// SetCropAspect fixes the crop aspect ratio (width/height); 0 frees it.
func (e *Editor) SetCropAspect(ratio float64) {
	e.cropAspect = ratio
}

// Pick returns the topmost object under a global-space point.
func (e *Editor) Pick(p geometry.Point2D) hittest.Result {
	return hittest.Pick(e.Scene(), p)
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool { return e.log.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool { return e.log.CanRedo() }

// UndoLabel names the operation Undo would revert, for menu text.
func (e *Editor) UndoLabel() string { return e.log.UndoLabel() }

// RedoLabel names the operation Redo would reapply, for menu text.
func (e *Editor) RedoLabel() string { return e.log.RedoLabel() }

// Undo restores the previous snapshot. Returns false at the bottom of the
// stack or while a gesture is active.
func (e *Editor) Undo() bool {
	sc, ok := e.log.Undo()
	if !ok {
		return false
	}
	e.committed = sc
	return true
}

// Redo restores the next snapshot. Returns false at the top of the stack
// or while a gesture is active.
func (e *Editor) Redo() bool {
	sc, ok := e.log.Redo()
	if !ok {
		return false
	}
	e.committed = sc
	return true
}

// Commit records the current committed scene as a history snapshot under
// the given label. For callers that mutate the scene outside a gesture
// (e.g. the UI after adding an imported image).
func (e *Editor) Commit(label string) {
	e.log.Commit(e.committed, label)
}

// mutate applies fn to the committed scene and commits the result. Returns
// false, leaving scene and history untouched, when fn reports nothing to
// do or a gesture is in flight.
func (e *Editor) mutate(label string, fn func(sc *scene.Scene) bool) bool {
	if e.gesture != nil {
		return false
	}
	work := e.committed.Clone()
	if !fn(work) {
		return false
	}
	e.committed = work
	e.log.Commit(work, label)
	return true
}
