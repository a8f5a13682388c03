package scene

import (
	"canvas-composer/pkg/geometry"
)

// Stroke is a freehand polyline annotation.
type Stroke struct {
	Attrs
	Points []geometry.Point2D `json:"points"`
}

func (s *Stroke) AnnotationID() string { return s.ID }
func (s *Stroke) Kind() Kind           { return KindStroke }
func (s *Stroke) Base() *Attrs         { return &s.Attrs }

func (s *Stroke) Pivot() geometry.Point2D {
	return geometry.BoundingBox(s.Points).Center()
}

func (s *Stroke) LocalBounds() geometry.Rect {
	return geometry.BoundingBox(s.Points).Inset(-s.pad(LinePickPadding))
}

func (s *Stroke) HitTest(p geometry.Point2D, tolerance float64) bool {
	threshold := s.StrokeWidth/2 + tolerance
	if len(s.Points) == 1 {
		return p.Distance(s.Points[0]) <= threshold
	}
	for i := 0; i+1 < len(s.Points); i++ {
		if geometry.DistanceToSegment(p, s.Points[i], s.Points[i+1]) <= threshold {
			return true
		}
	}
	return false
}

func (s *Stroke) Translate(dx, dy float64) {
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
}

func (s *Stroke) Clone() Annotation {
	c := *s
	c.Points = make([]geometry.Point2D, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}

// RectShape is an axis-aligned (before its own rotation) rectangle annotation.
// Width and height may be negative mid-drag.
type RectShape struct {
	Attrs
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r *RectShape) AnnotationID() string { return r.ID }
func (r *RectShape) Kind() Kind           { return KindRect }
func (r *RectShape) Base() *Attrs         { return &r.Attrs }

func (r *RectShape) rect() geometry.Rect {
	return geometry.NewRect(r.X, r.Y, r.Width, r.Height).Normalize()
}

func (r *RectShape) Pivot() geometry.Point2D {
	return r.rect().Center()
}

func (r *RectShape) LocalBounds() geometry.Rect {
	return r.rect().Inset(-r.pad(PickPadding))
}

func (r *RectShape) HitTest(p geometry.Point2D, tolerance float64) bool {
	return r.rect().Inset(-(r.StrokeWidth/2 + tolerance)).Contains(p)
}

func (r *RectShape) Translate(dx, dy float64) {
	r.X += dx
	r.Y += dy
}

func (r *RectShape) Clone() Annotation {
	c := *r
	return &c
}

// Circle is a circle annotation defined by center and radius.
type Circle struct {
	Attrs
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Radius float64 `json:"radius"`
}

func (c *Circle) AnnotationID() string { return c.ID }
func (c *Circle) Kind() Kind           { return KindCircle }
func (c *Circle) Base() *Attrs         { return &c.Attrs }

func (c *Circle) Pivot() geometry.Point2D {
	return geometry.Point2D{X: c.CX, Y: c.CY}
}

func (c *Circle) LocalBounds() geometry.Rect {
	r := c.Radius + c.pad(PickPadding)
	return geometry.NewRect(c.CX-r, c.CY-r, 2*r, 2*r)
}

func (c *Circle) HitTest(p geometry.Point2D, tolerance float64) bool {
	return p.Distance(geometry.Point2D{X: c.CX, Y: c.CY}) <= c.Radius+c.StrokeWidth/2+tolerance
}

func (c *Circle) Translate(dx, dy float64) {
	c.CX += dx
	c.CY += dy
}

func (c *Circle) Clone() Annotation {
	d := *c
	return &d
}

// Text is a text annotation anchored at its top-left corner. The rendered
// extent depends on the font; the model approximates it from the glyph count
// so bounds and hit-testing stay renderer-independent.
type Text struct {
	Attrs
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
}

func (t *Text) AnnotationID() string { return t.ID }
func (t *Text) Kind() Kind           { return KindText }
func (t *Text) Base() *Attrs         { return &t.Attrs }

// textRect approximates the rendered extent: average glyph advance of
// 0.6em and a 1.2em line height.
func (t *Text) textRect() geometry.Rect {
	w := float64(len([]rune(t.Text))) * t.FontSize * 0.6
	if w < t.FontSize {
		w = t.FontSize
	}
	return geometry.NewRect(t.X, t.Y, w, t.FontSize*1.2)
}

func (t *Text) Pivot() geometry.Point2D {
	return t.textRect().Center()
}

func (t *Text) LocalBounds() geometry.Rect {
	return t.textRect().Inset(-PickPadding)
}

func (t *Text) HitTest(p geometry.Point2D, tolerance float64) bool {
	return t.textRect().Inset(-tolerance).Contains(p)
}

func (t *Text) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

func (t *Text) Clone() Annotation {
	c := *t
	return &c
}

// Line is a straight segment annotation.
type Line struct {
	Attrs
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
}

func (l *Line) AnnotationID() string { return l.ID }
func (l *Line) Kind() Kind           { return KindLine }
func (l *Line) Base() *Attrs         { return &l.Attrs }

func (l *Line) Pivot() geometry.Point2D {
	return geometry.Point2D{X: (l.Start.X + l.End.X) / 2, Y: (l.Start.Y + l.End.Y) / 2}
}

func (l *Line) LocalBounds() geometry.Rect {
	return geometry.BoundingBox([]geometry.Point2D{l.Start, l.End}).Inset(-l.pad(LinePickPadding))
}

func (l *Line) HitTest(p geometry.Point2D, tolerance float64) bool {
	return geometry.DistanceToSegment(p, l.Start, l.End) <= l.StrokeWidth/2+tolerance
}

func (l *Line) Translate(dx, dy float64) {
	l.Start.X += dx
	l.Start.Y += dy
	l.End.X += dx
	l.End.Y += dy
}

func (l *Line) Clone() Annotation {
	c := *l
	return &c
}

// Arrow is a straight segment annotation with an arrowhead at End.
type Arrow struct {
	Attrs
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
}

func (a *Arrow) AnnotationID() string { return a.ID }
func (a *Arrow) Kind() Kind           { return KindArrow }
func (a *Arrow) Base() *Attrs         { return &a.Attrs }

func (a *Arrow) Pivot() geometry.Point2D {
	return geometry.Point2D{X: (a.Start.X + a.End.X) / 2, Y: (a.Start.Y + a.End.Y) / 2}
}

func (a *Arrow) LocalBounds() geometry.Rect {
	box := geometry.BoundingBox([]geometry.Point2D{a.Start, a.End})
	return box.Inset(-a.pad(LinePickPadding + ArrowheadPadding))
}

func (a *Arrow) HitTest(p geometry.Point2D, tolerance float64) bool {
	return geometry.DistanceToSegment(p, a.Start, a.End) <= a.StrokeWidth/2+tolerance
}

func (a *Arrow) Translate(dx, dy float64) {
	a.Start.X += dx
	a.Start.Y += dy
	a.End.X += dx
	a.End.Y += dy
}

func (a *Arrow) Clone() Annotation {
	c := *a
	return &c
}
