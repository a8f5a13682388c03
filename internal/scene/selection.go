package scene

// AnnotationRef identifies an annotation together with its current owner.
// An empty ImageID means the annotation is owned by the canvas.
type AnnotationRef struct {
	ImageID      string `json:"imageId,omitempty"`
	AnnotationID string `json:"annotationId"`
}

// Selection holds the currently selected images and annotations, plus at
// most one active layer ID used for layer-panel focus and reordering.
type Selection struct {
	ImageIDs    []string        `json:"imageIds,omitempty"`
	Annotations []AnnotationRef `json:"annotations,omitempty"`
	ActiveLayer string          `json:"activeLayer,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.ImageIDs) == 0 && len(s.Annotations) == 0
}

// HasImage reports whether the image is selected.
func (s *Selection) HasImage(id string) bool {
	for _, i := range s.ImageIDs {
		if i == id {
			return true
		}
	}
	return false
}

// HasAnnotation reports whether the annotation reference is selected.
func (s *Selection) HasAnnotation(ref AnnotationRef) bool {
	for _, r := range s.Annotations {
		if r == ref {
			return true
		}
	}
	return false
}

// AddImage selects an image if not already selected.
func (s *Selection) AddImage(id string) {
	if !s.HasImage(id) {
		s.ImageIDs = append(s.ImageIDs, id)
	}
}

// AddAnnotation selects an annotation reference if not already selected.
func (s *Selection) AddAnnotation(ref AnnotationRef) {
	if !s.HasAnnotation(ref) {
		s.Annotations = append(s.Annotations, ref)
	}
}

// RemoveAnnotation deselects an annotation reference.
func (s *Selection) RemoveAnnotation(ref AnnotationRef) {
	for i, r := range s.Annotations {
		if r == ref {
			s.Annotations = append(s.Annotations[:i], s.Annotations[i+1:]...)
			return
		}
	}
}

// Clear empties the selection, keeping the active layer.
func (s *Selection) Clear() {
	s.ImageIDs = nil
	s.Annotations = nil
}

// Clone returns a deep copy of the selection.
func (s *Selection) Clone() Selection {
	c := Selection{ActiveLayer: s.ActiveLayer}
	c.ImageIDs = append(c.ImageIDs, s.ImageIDs...)
	c.Annotations = append(c.Annotations, s.Annotations...)
	return c
}
