package engine

import (
	"github.com/google/uuid"

	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

const duplicateOffset = 16.0

// PlaceImage adds an image centered in the current viewport, selects it,
// and returns its ID. Returns "" when a gesture is in progress.
func (e *Editor) PlaceImage(name, path string, width, height float64) string {
	var id string
	ok := e.mutate("Add image", func(sc *scene.Scene) bool {
		center := e.view.ScreenToCanvas(geometry.Point2D{
			X: e.view.Surface.Width / 2,
			Y: e.view.Surface.Height / 2,
		})
		im := scene.NewImage(name, center.X-width/2, center.Y-height/2, width, height)
		im.Path = path
		sc.AddImage(im)
		sc.Selection.Clear()
		sc.Selection.AddImage(im.ID)
		sc.Selection.ActiveLayer = im.ID
		id = im.ID
		return true
	})
	if !ok {
		return ""
	}
	return id
}

// DeleteSelection removes every selected image and annotation.
func (e *Editor) DeleteSelection() bool {
	return e.mutate("Delete", func(sc *scene.Scene) bool {
		sel := sc.Selection.Clone()
		if sel.IsEmpty() {
			return false
		}
		for _, ref := range sel.Annotations {
			sc.RemoveAnnotation(ref)
		}
		for _, id := range sel.ImageIDs {
			sc.RemoveImage(id)
		}
		sc.Selection.Clear()
		return true
	})
}

// DuplicateSelection deep-copies the selected images and annotations with
// fresh IDs, nudged down-right so the copies are visible, and moves the
// selection onto the copies.
func (e *Editor) DuplicateSelection() bool {
	return e.mutate("Duplicate", func(sc *scene.Scene) bool {
		sel := sc.Selection.Clone()
		if sel.IsEmpty() {
			return false
		}
		sc.Selection.Clear()

		for _, id := range sel.ImageIDs {
			im := sc.ImageByID(id)
			if im == nil {
				continue
			}
			c := im.Clone()
			c.ID = uuid.NewString()
			c.X += duplicateOffset
			c.Y += duplicateOffset
			for _, a := range c.Annotations {
				a.Base().ID = uuid.NewString()
			}
			sc.AddImage(c)
			sc.Selection.AddImage(c.ID)
		}

		for _, ref := range sel.Annotations {
			if sel.HasImage(ref.ImageID) {
				continue // already copied with its owner
			}
			a := sc.FindAnnotation(ref)
			if a == nil {
				continue
			}
			c := a.Clone()
			c.Base().ID = uuid.NewString()
			off := geometry.Point2D{X: duplicateOffset, Y: duplicateOffset}
			owner := sc.ImageByID(ref.ImageID)
			if owner != nil {
				off = geometry.RotationDegrees(-owner.Rotation).Apply(off).Scale(1 / transform.SafeScale(owner.Scale))
			}
			c.Translate(off.X, off.Y)
			if owner != nil {
				owner.Annotations = append(owner.Annotations, c)
			} else {
				sc.AddCanvasAnnotation(c)
			}
			sc.Selection.AddAnnotation(scene.AnnotationRef{ImageID: ref.ImageID, AnnotationID: c.AnnotationID()})
		}
		return !sc.Selection.IsEmpty()
	})
}

// GroupSelection collects the selected top-level layer entries into a new
// group. Needs at least two distinct entries.
func (e *Editor) GroupSelection(name string) bool {
	return e.mutate("Group", func(sc *scene.Scene) bool {
		var members []string
		seen := map[string]bool{}
		for _, id := range sc.Selection.ImageIDs {
			entry := topEntry(sc, id)
			if entry != "" && !seen[entry] {
				seen[entry] = true
				members = append(members, entry)
			}
		}
		if len(members) < 2 {
			return false
		}
		g := sc.CreateGroup(name, members)
		if g == nil {
			return false
		}
		sc.Selection.ActiveLayer = g.ID
		return true
	})
}

// UngroupSelection dissolves the groups enclosing the selection, splicing
// their members back into the layer order in place.
func (e *Editor) UngroupSelection() bool {
	return e.mutate("Ungroup", func(sc *scene.Scene) bool {
		seen := map[string]bool{}
		done := false
		ids := append([]string{sc.Selection.ActiveLayer}, sc.Selection.ImageIDs...)
		for _, id := range ids {
			if id == "" {
				continue
			}
			entry := topEntry(sc, id)
			if entry == "" || seen[entry] {
				continue
			}
			seen[entry] = true
			if sc.Ungroup(entry) {
				done = true
			}
		}
		return done
	})
}

// RaiseSelection moves the active layer entry one step toward the front.
func (e *Editor) RaiseSelection() bool {
	return e.reorder("Raise layer", (*scene.Scene).RaiseLayer)
}

// LowerSelection moves the active layer entry one step toward the back.
func (e *Editor) LowerSelection() bool {
	return e.reorder("Lower layer", (*scene.Scene).LowerLayer)
}

// SelectionToFront moves the active layer entry to the top of the stack.
func (e *Editor) SelectionToFront() bool {
	return e.reorder("Bring to front", (*scene.Scene).LayerToFront)
}

// SelectionToBack moves the active layer entry to the bottom of the stack.
func (e *Editor) SelectionToBack() bool {
	return e.reorder("Send to back", (*scene.Scene).LayerToBack)
}

func (e *Editor) reorder(label string, op func(*scene.Scene, string) bool) bool {
	return e.mutate(label, func(sc *scene.Scene) bool {
		entry := activeEntry(sc)
		if entry == "" {
			return false
		}
		return op(sc, entry)
	})
}

// SetLayerVisible shows or hides an image layer.
func (e *Editor) SetLayerVisible(imageID string, visible bool) bool {
	label := "Hide layer"
	if visible {
		label = "Show layer"
	}
	return e.mutate(label, func(sc *scene.Scene) bool {
		im := sc.ImageByID(imageID)
		if im == nil || im.Visible == visible {
			return false
		}
		im.Visible = visible
		return true
	})
}

// SetLayerOpacity sets an image layer's opacity, clamped to [0, 1].
func (e *Editor) SetLayerOpacity(imageID string, opacity float64) bool {
	return e.mutate("Set opacity", func(sc *scene.Scene) bool {
		im := sc.ImageByID(imageID)
		if im == nil {
			return false
		}
		im.Opacity = clamp(opacity, 0, 1)
		return true
	})
}

// RenameLayer renames an image or group layer.
func (e *Editor) RenameLayer(id, name string) bool {
	return e.mutate("Rename layer", func(sc *scene.Scene) bool {
		if im := sc.ImageByID(id); im != nil {
			im.Name = name
			return true
		}
		if g := sc.GroupByID(id); g != nil {
			g.Name = name
			return true
		}
		return false
	})
}

// SetImagePlacement sets an image's position, scale and rotation directly,
// for numeric edits from the property sheet. Scale is clamped to the same
// floor the gesture engine enforces.
func (e *Editor) SetImagePlacement(imageID string, x, y, scale, rotation float64) bool {
	return e.mutate("Edit placement", func(sc *scene.Scene) bool {
		im := sc.ImageByID(imageID)
		if im == nil {
			return false
		}
		if scale < transform.MinScale {
			scale = transform.MinScale
		}
		if im.X == x && im.Y == y && im.Scale == scale && im.Rotation == rotation {
			return false
		}
		im.X, im.Y = x, y
		im.Scale = scale
		im.Rotation = rotation
		return true
	})
}

// ClearCrop restores the selected images to their full raster extent.
func (e *Editor) ClearCrop() bool {
	return e.mutate("Remove crop", func(sc *scene.Scene) bool {
		done := false
		for _, id := range sc.Selection.ImageIDs {
			im := sc.ImageByID(id)
			if im != nil && im.CropRect != nil {
				im.CropRect = nil
				done = true
			}
		}
		return done
	})
}

// RestyleSelection applies the style to every selected annotation.
func (e *Editor) RestyleSelection(style Style) bool {
	return e.mutate("Restyle", func(sc *scene.Scene) bool {
		done := false
		for _, ref := range sc.Selection.Annotations {
			a := sc.FindAnnotation(ref)
			if a == nil {
				continue
			}
			b := a.Base()
			b.Color = style.Color
			b.StrokeWidth = style.StrokeWidth
			if t, ok := a.(*scene.Text); ok {
				t.FontSize = style.FontSize
			}
			done = true
		}
		return done
	})
}

// StraightenSelection collapses each selected freehand stroke onto its
// dominant axis, keeping the original extent.
func (e *Editor) StraightenSelection() bool {
	return e.mutate("Straighten stroke", func(sc *scene.Scene) bool {
		done := false
		for _, ref := range sc.Selection.Annotations {
			s, ok := sc.FindAnnotation(ref).(*scene.Stroke)
			if !ok || len(s.Points) < 2 {
				continue
			}
			start, end := scene.StraightenStroke(s.Points)
			s.Points = []geometry.Point2D{start, end}
			done = true
		}
		return done
	})
}

// SetText replaces a text annotation's content.
func (e *Editor) SetText(ref scene.AnnotationRef, text string) bool {
	return e.mutate("Edit text", func(sc *scene.Scene) bool {
		t, ok := sc.FindAnnotation(ref).(*scene.Text)
		if !ok || t.Text == text {
			return false
		}
		t.Text = text
		return true
	})
}

// topEntry resolves an ID to the top-level layer-order entry containing
// it: itself when directly in the order, or its outermost enclosing group.
func topEntry(sc *scene.Scene, id string) string {
	for {
		parent := ""
		for _, g := range sc.Groups {
			if g.Contains(id) {
				parent = g.ID
				break
			}
		}
		if parent == "" {
			break
		}
		id = parent
	}
	for _, entry := range sc.LayerOrder {
		if entry == id {
			return id
		}
	}
	return ""
}

func activeEntry(sc *scene.Scene) string {
	if sc.Selection.ActiveLayer != "" {
		if entry := topEntry(sc, sc.Selection.ActiveLayer); entry != "" {
			return entry
		}
	}
	if len(sc.Selection.ImageIDs) > 0 {
		return topEntry(sc, sc.Selection.ImageIDs[0])
	}
	if len(sc.Selection.Annotations) > 0 {
		ref := sc.Selection.Annotations[0]
		if ref.ImageID == "" {
			return topEntry(sc, ref.AnnotationID)
		}
		return topEntry(sc, ref.ImageID)
	}
	return ""
}
