// Package transform is the single source of truth for the nested affine
// mapping between global canvas space, image-local space, and annotation
// space. Every component that needs rotation/scale math calls through here
// so hit-testing, gestures, and rendering can never drift apart.
//
// Forward direction (local to global): translate to the owner's local
// center, rotate, scale, translate to the owner's global center. Angles
// are degrees everywhere; radians exist only inside the trig call sites.
package transform

import (
	"canvas-composer/internal/scene"
	"canvas-composer/pkg/geometry"
)

// MinScale guards every division by a scale factor. A zero scale would
// otherwise propagate NaNs through the whole transform chain.
const MinScale = 1e-6

// SafeScale clamps s away from zero.
func SafeScale(s float64) float64 {
	if s < MinScale && s > -MinScale {
		return MinScale
	}
	return s
}

// ToGlobal maps a point in the image's local space to global space.
// A nil image is the canvas itself: the identity mapping.
func ToGlobal(p geometry.Point2D, im *scene.Image) geometry.Point2D {
	if im == nil {
		return p
	}
	w, h := im.EffectiveSize()
	c := im.Center()
	s := SafeScale(im.Scale)
	d := geometry.RotationDegrees(im.Rotation).Apply(geometry.Point2D{X: p.X - w/2, Y: p.Y - h/2})
	return geometry.Point2D{X: c.X + d.X*s, Y: c.Y + d.Y*s}
}

// ToLocal maps a global-space point into the image's local space. It is
// the exact inverse of ToGlobal. A nil image is the identity mapping.
func ToLocal(p geometry.Point2D, im *scene.Image) geometry.Point2D {
	if im == nil {
		return p
	}
	w, h := im.EffectiveSize()
	c := im.Center()
	s := SafeScale(im.Scale)
	d := geometry.Point2D{X: (p.X - c.X) / s, Y: (p.Y - c.Y) / s}
	d = geometry.RotationDegrees(-im.Rotation).Apply(d)
	return geometry.Point2D{X: d.X + w/2, Y: d.Y + h/2}
}

// AnnotationToOwner applies an annotation's own scale and rotation about
// its pivot, mapping raw geometry space into the owner's space.
func AnnotationToOwner(p geometry.Point2D, a scene.Annotation) geometry.Point2D {
	b := a.Base()
	if b.Rotation == 0 && b.Scale == 1 {
		return p
	}
	pivot := a.Pivot()
	s := SafeScale(b.Scale)
	d := geometry.RotationDegrees(b.Rotation).Apply(geometry.Point2D{X: p.X - pivot.X, Y: p.Y - pivot.Y})
	return geometry.Point2D{X: pivot.X + d.X*s, Y: pivot.Y + d.Y*s}
}

// OwnerToAnnotation is the inverse of AnnotationToOwner: owner-space point
// into the annotation's raw geometry space.
func OwnerToAnnotation(p geometry.Point2D, a scene.Annotation) geometry.Point2D {
	b := a.Base()
	if b.Rotation == 0 && b.Scale == 1 {
		return p
	}
	pivot := a.Pivot()
	s := SafeScale(b.Scale)
	d := geometry.Point2D{X: (p.X - pivot.X) / s, Y: (p.Y - pivot.Y) / s}
	d = geometry.RotationDegrees(-b.Rotation).Apply(d)
	return geometry.Point2D{X: d.X + pivot.X, Y: d.Y + pivot.Y}
}

// AnnotationToGlobal composes the annotation pivot transform with the
// owner transform. im is nil for canvas-owned annotations.
func AnnotationToGlobal(p geometry.Point2D, a scene.Annotation, im *scene.Image) geometry.Point2D {
	return ToGlobal(AnnotationToOwner(p, a), im)
}

// GlobalToAnnotation is the inverse of AnnotationToGlobal.
func GlobalToAnnotation(p geometry.Point2D, a scene.Annotation, im *scene.Image) geometry.Point2D {
	return OwnerToAnnotation(ToLocal(p, im), a)
}

// CombinedScale returns the scale chain from annotation space to global
// space: the annotation's own scale times the owner's (1 for the canvas).
func CombinedScale(a scene.Annotation, im *scene.Image) float64 {
	s := SafeScale(a.Base().Scale)
	if im != nil {
		s *= SafeScale(im.Scale)
	}
	return SafeScale(s)
}

// ImageMatrix returns the image's local-to-global transform as a matrix,
// for consumers that batch-transform geometry (e.g. the compositor).
func ImageMatrix(im *scene.Image) geometry.AffineTransform {
	if im == nil {
		return geometry.Identity()
	}
	w, h := im.EffectiveSize()
	c := im.Center()
	s := SafeScale(im.Scale)
	return geometry.Translation(c.X, c.Y).
		Compose(geometry.Scale(s, s)).
		Compose(geometry.RotationDegrees(im.Rotation)).
		Compose(geometry.Translation(-w/2, -h/2))
}

// AnnotationMatrix returns the full annotation-to-global transform as a
// matrix. im is nil for canvas-owned annotations.
func AnnotationMatrix(a scene.Annotation, im *scene.Image) geometry.AffineTransform {
	b := a.Base()
	pivot := a.Pivot()
	s := SafeScale(b.Scale)
	own := geometry.Translation(pivot.X, pivot.Y).
		Compose(geometry.Scale(s, s)).
		Compose(geometry.RotationDegrees(b.Rotation)).
		Compose(geometry.Translation(-pivot.X, -pivot.Y))
	return ImageMatrix(im).Compose(own)
}
