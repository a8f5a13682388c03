package scene

import (
	"github.com/google/uuid"

	"canvas-composer/pkg/geometry"
)

// Image is a raster placed on the canvas. X and Y locate its un-rotated
// top-left in global space; Scale is uniform and Rotation is in degrees,
// both applied about the center of the displayed (crop-effective, scaled)
// box. Annotations owned by the image are expressed in its local space,
// whose origin is that top-left before scale and rotation.
type Image struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Path     string  `json:"path,omitempty"` // source file, kept for project persistence
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`  // intrinsic raster width
	Height   float64 `json:"height"` // intrinsic raster height
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"` // degrees

	// CropRect is an optional sub-rectangle of the original raster, in
	// raster coordinates. When set, the displayed box and local space use
	// the crop extent instead of the intrinsic one.
	CropRect *geometry.Rect `json:"cropRect,omitempty"`

	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`

	Annotations []Annotation `json:"-"`
}

// NewImage creates an image with a fresh ID, unit scale, and full opacity.
func NewImage(name string, x, y, width, height float64) *Image {
	return &Image{
		ID:      uuid.NewString(),
		Name:    name,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Scale:   1,
		Opacity: 1,
		Visible: true,
	}
}

// EffectiveSize returns the displayed extent before scale and rotation:
// the crop size when cropped, the intrinsic size otherwise.
func (im *Image) EffectiveSize() (w, h float64) {
	if im.CropRect != nil {
		r := im.CropRect.Normalize()
		return r.Width, r.Height
	}
	return im.Width, im.Height
}

// Center returns the global-space center of the displayed box, the pivot
// for the image's rotation and scale.
func (im *Image) Center() geometry.Point2D {
	w, h := im.EffectiveSize()
	return geometry.Point2D{X: im.X + w*im.Scale/2, Y: im.Y + h*im.Scale/2}
}

// AnnotationByID returns the owned annotation with the given ID, or nil.
func (im *Image) AnnotationByID(id string) Annotation {
	for _, a := range im.Annotations {
		if a.AnnotationID() == id {
			return a
		}
	}
	return nil
}

// RemoveAnnotation removes the owned annotation with the given ID and
// reports whether it was present.
func (im *Image) RemoveAnnotation(id string) bool {
	for i, a := range im.Annotations {
		if a.AnnotationID() == id {
			im.Annotations = append(im.Annotations[:i], im.Annotations[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the image and its annotations.
func (im *Image) Clone() *Image {
	c := *im
	if im.CropRect != nil {
		cr := *im.CropRect
		c.CropRect = &cr
	}
	c.Annotations = make([]Annotation, len(im.Annotations))
	for i, a := range im.Annotations {
		c.Annotations[i] = a.Clone()
	}
	return &c
}
