package engine

import (
	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
)

// Reparent moves an annotation to a different owner (an image, or the
// canvas when targetImageID is empty) without changing how it renders.
// The owner swap rewrites the annotation's scale and rotation to cancel
// the change in the owner chain and shifts its geometry so the pivot
// keeps its global position. Reparenting onto the current owner is a
// no-op and records nothing.
func (e *Editor) Reparent(ref scene.AnnotationRef, targetImageID string) bool {
	if ref.ImageID == targetImageID {
		return e.committed.FindAnnotation(ref) != nil
	}
	return e.mutate("Reparent", func(sc *scene.Scene) bool {
		a := sc.FindAnnotation(ref)
		if a == nil {
			return false
		}
		oldIm := sc.ImageByID(ref.ImageID)
		if ref.ImageID != "" && oldIm == nil {
			return false
		}
		newIm := sc.ImageByID(targetImageID)
		if targetImageID != "" && newIm == nil {
			return false
		}

		pivot := a.Pivot()
		globalPivot := transform.ToGlobal(pivot, oldIm)

		oldScale, newScale := 1.0, 1.0
		oldRot, newRot := 0.0, 0.0
		if oldIm != nil {
			oldScale, oldRot = oldIm.Scale, oldIm.Rotation
		}
		if newIm != nil {
			newScale, newRot = newIm.Scale, newIm.Rotation
		}

		b := a.Base()
		b.Scale = b.Scale * oldScale / transform.SafeScale(newScale)
		b.Rotation = b.Rotation + oldRot - newRot

		// The annotation-to-global map is a similarity fixed by scale,
		// rotation, and the pivot; matching all three preserves every
		// point of the shape.
		newPivot := transform.ToLocal(globalPivot, newIm)
		a.Translate(newPivot.X-pivot.X, newPivot.Y-pivot.Y)

		sc.RemoveAnnotation(ref)
		if newIm != nil {
			newIm.Annotations = append(newIm.Annotations, a)
		} else {
			sc.AddCanvasAnnotation(a)
		}

		newRef := scene.AnnotationRef{ImageID: targetImageID, AnnotationID: ref.AnnotationID}
		if sc.Selection.HasAnnotation(ref) {
			sc.Selection.RemoveAnnotation(ref)
			sc.Selection.AddAnnotation(newRef)
		}
		return true
	})
}
