package transform

import (
	"canvas-composer/internal/scene"
	"canvas-composer/pkg/geometry"
)

// GlobalBounds returns the axis-aligned global-space box of an annotation:
// the four corners of its padded local bounds pushed through the composed
// transform, then re-boxed. For rotated shapes this is the AABB of the
// rotated box, deliberately larger than the tight rotated outline.
func GlobalBounds(a scene.Annotation, im *scene.Image) geometry.Rect {
	corners := a.LocalBounds().Corners()
	pts := make([]geometry.Point2D, 4)
	for i, c := range corners {
		pts[i] = AnnotationToGlobal(c, a, im)
	}
	return geometry.BoundingBox(pts)
}

// ImageGlobalBounds returns the axis-aligned global-space box of an
// image's displayed extent, accounting for crop, scale, and rotation.
func ImageGlobalBounds(im *scene.Image) geometry.Rect {
	w, h := im.EffectiveSize()
	corners := geometry.NewRect(0, 0, w, h).Corners()
	pts := make([]geometry.Point2D, 4)
	for i, c := range corners {
		pts[i] = ToGlobal(c, im)
	}
	return geometry.BoundingBox(pts)
}

// GroupGlobalBounds unions the global bounds of every image in the group,
// descending into nested groups. ok is false for an empty or unknown group.
func GroupGlobalBounds(sc *scene.Scene, groupID string) (bounds geometry.Rect, ok bool) {
	for _, id := range sc.GroupImages(groupID) {
		im := sc.ImageByID(id)
		if im == nil {
			continue
		}
		b := ImageGlobalBounds(im)
		if !ok {
			bounds = b
			ok = true
		} else {
			bounds = bounds.Union(b)
		}
	}
	return bounds, ok
}

// SelectionBounds unions the global bounds of every selected annotation.
// ok is false when the selection resolves to nothing.
func SelectionBounds(sc *scene.Scene, refs []scene.AnnotationRef) (bounds geometry.Rect, ok bool) {
	for _, ref := range refs {
		a := sc.FindAnnotation(ref)
		if a == nil {
			continue
		}
		var im *scene.Image
		if ref.ImageID != "" {
			im = sc.ImageByID(ref.ImageID)
		}
		b := GlobalBounds(a, im)
		if !ok {
			bounds = b
			ok = true
		} else {
			bounds = bounds.Union(b)
		}
	}
	return bounds, ok
}
