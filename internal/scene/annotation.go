// Package scene provides the document model for the composition editor:
// images placed on an infinite canvas, vector annotations owned either by
// an image or by the canvas itself, groups, layer order, and selection.
package scene

import (
	"github.com/google/uuid"

	"canvas-composer/pkg/geometry"
)

// Kind identifies an annotation shape variant.
type Kind string

const (
	KindStroke Kind = "stroke"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindText   Kind = "text"
	KindLine   Kind = "line"
	KindArrow  Kind = "arrow"
)

// Interaction padding added to local bounds so small or thin shapes stay
// clickable. Line-like shapes get a wider margin, arrows additionally one
// for the arrowhead wings.
const (
	PickPadding      = 6.0
	LinePickPadding  = 10.0
	ArrowheadPadding = 12.0
)

// Annotation is the common interface for all annotation shape variants.
// Geometry is expressed in the owner's local space (image-local for
// image-owned annotations, global canvas space for canvas-owned ones);
// the annotation's own Scale and Rotation apply about Pivot on top of that.
type Annotation interface {
	// AnnotationID returns the unique identifier for this annotation.
	AnnotationID() string

	// Kind returns the shape variant tag.
	Kind() Kind

	// Base returns the shared transform and style fields.
	Base() *Attrs

	// Pivot returns the point the annotation's own rotation and scale are
	// applied about: the segment midpoint for lines and arrows, the
	// geometric center otherwise.
	Pivot() geometry.Point2D

	// LocalBounds returns the un-rotated, un-scaled axis-aligned box that
	// bounds the raw geometry plus interaction padding.
	LocalBounds() geometry.Rect

	// HitTest reports whether p, expressed in the annotation's un-rotated,
	// un-scaled geometry space, hits the shape. The tolerance has already
	// been divided by the combined scale chain by the caller.
	HitTest(p geometry.Point2D, tolerance float64) bool

	// Translate moves the raw geometry by (dx, dy) in the owner's space.
	Translate(dx, dy float64)

	// Clone returns a deep copy.
	Clone() Annotation
}

// Attrs holds the fields every annotation variant carries.
type Attrs struct {
	ID          string  `json:"id"`
	Scale       float64 `json:"scale"`
	Rotation    float64 `json:"rotation"` // degrees, about Pivot
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// NewAttrs creates an Attrs with a fresh ID and identity transform.
func NewAttrs(color string, strokeWidth float64) Attrs {
	return Attrs{
		ID:          uuid.NewString(),
		Scale:       1,
		Rotation:    0,
		Color:       color,
		StrokeWidth: strokeWidth,
	}
}

// pad returns the interaction padding for stroke-like geometry.
func (b *Attrs) pad(extra float64) float64 {
	return b.StrokeWidth/2 + extra
}
