package scene

// Scene is the complete document: images and groups keyed by ID, canvas-owned
// annotations, the back-to-front layer order of top-level object IDs, and the
// current selection. Scenes are cloned wholesale for history snapshots and
// for the live staging copy during gestures, so mutation helpers never share
// slices with a clone.
type Scene struct {
	Images            map[string]*Image
	Groups            map[string]*Group
	CanvasAnnotations []Annotation

	// LayerOrder lists top-level object IDs (images, canvas annotations,
	// groups) back-to-front. Objects inside a group are not listed; they
	// follow the group's member order.
	LayerOrder []string

	Selection Selection
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		Images: make(map[string]*Image),
		Groups: make(map[string]*Group),
	}
}

// Clone returns a deep copy of the scene.
func (sc *Scene) Clone() *Scene {
	c := New()
	for id, im := range sc.Images {
		c.Images[id] = im.Clone()
	}
	for id, g := range sc.Groups {
		c.Groups[id] = g.Clone()
	}
	c.CanvasAnnotations = make([]Annotation, len(sc.CanvasAnnotations))
	for i, a := range sc.CanvasAnnotations {
		c.CanvasAnnotations[i] = a.Clone()
	}
	c.LayerOrder = append(c.LayerOrder, sc.LayerOrder...)
	c.Selection = sc.Selection.Clone()
	return c
}

// ImageByID returns the image with the given ID, or nil.
func (sc *Scene) ImageByID(id string) *Image {
	return sc.Images[id]
}

// CanvasAnnotationByID returns the canvas-owned annotation with the given
// ID, or nil.
func (sc *Scene) CanvasAnnotationByID(id string) Annotation {
	for _, a := range sc.CanvasAnnotations {
		if a.AnnotationID() == id {
			return a
		}
	}
	return nil
}

// FindAnnotation resolves an annotation reference against its current
// owner. Returns nil if the owner or the annotation no longer exists.
func (sc *Scene) FindAnnotation(ref AnnotationRef) Annotation {
	if ref.ImageID == "" {
		return sc.CanvasAnnotationByID(ref.AnnotationID)
	}
	im := sc.Images[ref.ImageID]
	if im == nil {
		return nil
	}
	return im.AnnotationByID(ref.AnnotationID)
}

// AddImage adds an image and places it on top of the layer order.
func (sc *Scene) AddImage(im *Image) {
	sc.Images[im.ID] = im
	sc.LayerOrder = append(sc.LayerOrder, im.ID)
}

// RemoveImage deletes an image, its annotations, its layer-order entry,
// and any group membership. Reports whether the image existed.
func (sc *Scene) RemoveImage(id string) bool {
	if _, ok := sc.Images[id]; !ok {
		return false
	}
	delete(sc.Images, id)
	sc.removeFromOrder(id)
	for _, g := range sc.Groups {
		for i, m := range g.Members {
			if m == id {
				g.Members = append(g.Members[:i], g.Members[i+1:]...)
				break
			}
		}
	}
	sc.PruneSelection()
	return true
}

// AddCanvasAnnotation adds a canvas-owned annotation on top of the layer order.
func (sc *Scene) AddCanvasAnnotation(a Annotation) {
	sc.CanvasAnnotations = append(sc.CanvasAnnotations, a)
	sc.LayerOrder = append(sc.LayerOrder, a.AnnotationID())
}

// RemoveCanvasAnnotation deletes a canvas-owned annotation and its
// layer-order entry. Reports whether it existed.
func (sc *Scene) RemoveCanvasAnnotation(id string) bool {
	for i, a := range sc.CanvasAnnotations {
		if a.AnnotationID() == id {
			sc.CanvasAnnotations = append(sc.CanvasAnnotations[:i], sc.CanvasAnnotations[i+1:]...)
			sc.removeFromOrder(id)
			return true
		}
	}
	return false
}

// RemoveAnnotation deletes the annotation identified by ref from its
// current owner. Reports whether it existed.
func (sc *Scene) RemoveAnnotation(ref AnnotationRef) bool {
	if ref.ImageID == "" {
		return sc.RemoveCanvasAnnotation(ref.AnnotationID)
	}
	im := sc.Images[ref.ImageID]
	if im == nil {
		return false
	}
	return im.RemoveAnnotation(ref.AnnotationID)
}

// GroupByID returns the group with the given ID, or nil.
func (sc *Scene) GroupByID(id string) *Group {
	return sc.Groups[id]
}

// CreateGroup groups the given top-level IDs: members leave the layer order
// and the group takes the topmost member's place.
func (sc *Scene) CreateGroup(name string, memberIDs []string) *Group {
	g := NewGroup(name, memberIDs)
	sc.Groups[g.ID] = g

	// The group slots in where its topmost member was.
	topIdx := -1
	for _, id := range memberIDs {
		for i, o := range sc.LayerOrder {
			if o == id && i > topIdx {
				topIdx = i
			}
		}
	}
	for _, id := range memberIDs {
		sc.removeFromOrder(id)
	}
	if topIdx < 0 || topIdx > len(sc.LayerOrder) {
		sc.LayerOrder = append(sc.LayerOrder, g.ID)
	} else {
		idx := topIdx - (len(memberIDs) - 1)
		if idx < 0 {
			idx = 0
		}
		if idx > len(sc.LayerOrder) {
			idx = len(sc.LayerOrder)
		}
		sc.LayerOrder = append(sc.LayerOrder[:idx], append([]string{g.ID}, sc.LayerOrder[idx:]...)...)
	}
	return g
}

// Ungroup dissolves a group, splicing its members back into the layer order
// at the group's position. Reports whether the group existed.
func (sc *Scene) Ungroup(id string) bool {
	g := sc.Groups[id]
	if g == nil {
		return false
	}
	delete(sc.Groups, id)
	for i, o := range sc.LayerOrder {
		if o == id {
			rest := append([]string{}, sc.LayerOrder[i+1:]...)
			sc.LayerOrder = append(sc.LayerOrder[:i], g.Members...)
			sc.LayerOrder = append(sc.LayerOrder, rest...)
			return true
		}
	}
	sc.LayerOrder = append(sc.LayerOrder, g.Members...)
	return true
}

// GroupImages resolves a group's members to image IDs, descending into
// nested groups.
func (sc *Scene) GroupImages(id string) []string {
	g := sc.Groups[id]
	if g == nil {
		return nil
	}
	var out []string
	for _, m := range g.Members {
		if _, ok := sc.Images[m]; ok {
			out = append(out, m)
		} else if _, ok := sc.Groups[m]; ok {
			out = append(out, sc.GroupImages(m)...)
		}
	}
	return out
}

// FlattenOrder returns all image and canvas-annotation IDs back-to-front,
// descending into groups in member order.
func (sc *Scene) FlattenOrder() []string {
	var out []string
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			if g, ok := sc.Groups[id]; ok {
				walk(g.Members)
				continue
			}
			out = append(out, id)
		}
	}
	walk(sc.LayerOrder)
	return out
}

// RaiseLayer moves a top-level object one step toward the front.
func (sc *Scene) RaiseLayer(id string) bool {
	for i, o := range sc.LayerOrder {
		if o == id {
			if i == len(sc.LayerOrder)-1 {
				return false
			}
			sc.LayerOrder[i], sc.LayerOrder[i+1] = sc.LayerOrder[i+1], sc.LayerOrder[i]
			return true
		}
	}
	return false
}

// LowerLayer moves a top-level object one step toward the back.
func (sc *Scene) LowerLayer(id string) bool {
	for i, o := range sc.LayerOrder {
		if o == id {
			if i == 0 {
				return false
			}
			sc.LayerOrder[i], sc.LayerOrder[i-1] = sc.LayerOrder[i-1], sc.LayerOrder[i]
			return true
		}
	}
	return false
}

// LayerToFront moves a top-level object to the front of the order.
func (sc *Scene) LayerToFront(id string) bool {
	if !sc.removeFromOrder(id) {
		return false
	}
	sc.LayerOrder = append(sc.LayerOrder, id)
	return true
}

// LayerToBack moves a top-level object to the back of the order.
func (sc *Scene) LayerToBack(id string) bool {
	if !sc.removeFromOrder(id) {
		return false
	}
	sc.LayerOrder = append([]string{id}, sc.LayerOrder...)
	return true
}

// PruneSelection drops selection entries whose object no longer exists or
// whose recorded owner no longer matches the annotation's actual owner.
func (sc *Scene) PruneSelection() {
	var images []string
	for _, id := range sc.Selection.ImageIDs {
		if _, ok := sc.Images[id]; ok {
			images = append(images, id)
		}
	}
	sc.Selection.ImageIDs = images

	var annotations []AnnotationRef
	for _, ref := range sc.Selection.Annotations {
		if sc.FindAnnotation(ref) != nil {
			annotations = append(annotations, ref)
		}
	}
	sc.Selection.Annotations = annotations

	if sc.Selection.ActiveLayer != "" {
		if _, ok := sc.Images[sc.Selection.ActiveLayer]; !ok {
			if _, ok := sc.Groups[sc.Selection.ActiveLayer]; !ok {
				if sc.CanvasAnnotationByID(sc.Selection.ActiveLayer) == nil {
					sc.Selection.ActiveLayer = ""
				}
			}
		}
	}
}

func (sc *Scene) removeFromOrder(id string) bool {
	for i, o := range sc.LayerOrder {
		if o == id {
			sc.LayerOrder = append(sc.LayerOrder[:i], sc.LayerOrder[i+1:]...)
			return true
		}
	}
	return false
}
