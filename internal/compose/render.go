package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"canvas-composer/internal/scene"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/colorutil"
	"canvas-composer/pkg/geometry"
)

const circleSegments = 64

// Renderer flattens scenes into raster images.
type Renderer struct {
	Sources   *Store
	BackColor color.Color
}

func NewRenderer(sources *Store) *Renderer {
	return &Renderer{
		Sources:   sources,
		BackColor: color.NRGBA{0x28, 0x28, 0x28, 0xff},
	}
}

// Render rasterizes the given canvas-space region at pixelScale device
// pixels per canvas unit, honoring layer order, visibility, opacity,
// crops, and the full transform chain. Sources that fail to load are
// skipped; their annotations still render.
func (r *Renderer) Render(sc *scene.Scene, region geometry.Rect, pixelScale float64) *image.RGBA {
	region = region.Normalize()
	w := int(math.Ceil(region.Width * pixelScale))
	h := int(math.Ceil(region.Height * pixelScale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{r.BackColor}, image.Point{}, draw.Src)

	view := geometry.Scale(pixelScale, pixelScale).
		Compose(geometry.Translation(-region.X, -region.Y))

	for _, id := range sc.FlattenOrder() {
		if im := sc.ImageByID(id); im != nil {
			if !im.Visible {
				continue
			}
			r.renderImage(dst, im, view)
			for _, a := range im.Annotations {
				r.renderAnnotation(dst, a, im, view, pixelScale)
			}
			continue
		}
		if a := sc.CanvasAnnotationByID(id); a != nil {
			r.renderAnnotation(dst, a, nil, view, pixelScale)
		}
	}
	return dst
}

// SceneBounds returns the canvas region covered by the scene's visible
// images, for whole-scene exports. The second result is false for an
// empty scene.
func SceneBounds(sc *scene.Scene) (geometry.Rect, bool) {
	var out geometry.Rect
	found := false
	for _, id := range sc.FlattenOrder() {
		im := sc.ImageByID(id)
		if im == nil || !im.Visible {
			continue
		}
		b := transform.ImageGlobalBounds(im)
		if !found {
			out = b
			found = true
		} else {
			out = out.Union(b)
		}
	}
	return out, found
}

func (r *Renderer) renderImage(dst *image.RGBA, im *scene.Image, view geometry.AffineTransform) {
	src, err := r.Sources.Load(im.Path)
	if err != nil {
		return
	}
	sr := src.Bounds()
	var cropX, cropY float64
	if im.CropRect != nil {
		c := im.CropRect.Normalize()
		cropX, cropY = c.X, c.Y
		crop := image.Rect(
			sr.Min.X+int(c.X), sr.Min.Y+int(c.Y),
			sr.Min.X+int(c.X+c.Width), sr.Min.Y+int(c.Y+c.Height),
		)
		sr = sr.Intersect(crop)
		if sr.Empty() {
			return
		}
	}

	// Source pixel to device pixel: shift the crop origin to local (0,0),
	// then the image's local-to-global map, then the view map.
	m := view.
		Compose(transform.ImageMatrix(im)).
		Compose(geometry.Translation(-cropX, -cropY))
	aff := f64.Aff3{m.A, m.B, m.TX, m.C, m.D, m.TY}

	var opts *xdraw.Options
	if im.Opacity < 1 {
		alpha := uint16(clampF(im.Opacity, 0, 1) * 0xffff)
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha16{A: alpha})}
	}
	// Kernel transform, not ApproxBiLinear: the interpolator's
	// integer-translation fast path mislocates source rectangles that do
	// not start at the origin, which every crop produces.
	xdraw.CatmullRom.Transform(dst, aff, src, sr, xdraw.Over, opts)
}

func (r *Renderer) renderAnnotation(dst *image.RGBA, a scene.Annotation, im *scene.Image, view geometry.AffineTransform, pixelScale float64) {
	b := a.Base()
	col := colorutil.ParseHexDefault(b.Color, colorutil.Red)
	m := view.Compose(transform.AnnotationMatrix(a, im))
	width := b.StrokeWidth * transform.CombinedScale(a, im) * pixelScale

	switch s := a.(type) {
	case *scene.Stroke:
		for i := 1; i < len(s.Points); i++ {
			stampLine(dst, m.Apply(s.Points[i-1]), m.Apply(s.Points[i]), width, col)
		}
		if len(s.Points) == 1 {
			stampDisc(dst, m.Apply(s.Points[0]), width/2, col)
		}
	case *scene.Line:
		stampLine(dst, m.Apply(s.Start), m.Apply(s.End), width, col)
	case *scene.Arrow:
		p0 := m.Apply(s.Start)
		p1 := m.Apply(s.End)
		stampLine(dst, p0, p1, width, col)
		stampArrowhead(dst, p0, p1, width, col)
	case *scene.RectShape:
		// The raw rect, not LocalBounds: bounds carry pick padding that
		// must not show up in the rendered outline.
		corners := geometry.NewRect(s.X, s.Y, s.Width, s.Height).Normalize().Corners()
		for i := range corners {
			stampLine(dst, m.Apply(corners[i]), m.Apply(corners[(i+1)%4]), width, col)
		}
	case *scene.Circle:
		prev := m.Apply(circlePoint(s, 0))
		for i := 1; i <= circleSegments; i++ {
			cur := m.Apply(circlePoint(s, i))
			stampLine(dst, prev, cur, width, col)
			prev = cur
		}
	case *scene.Text:
		drawText(dst, m.Apply(geometry.Point2D{X: s.X, Y: s.Y}), s.Text, col)
	}
}

func circlePoint(c *scene.Circle, i int) geometry.Point2D {
	t := 2 * math.Pi * float64(i) / circleSegments
	return geometry.Point2D{X: c.CX + c.Radius*math.Cos(t), Y: c.CY + c.Radius*math.Sin(t)}
}

func stampArrowhead(dst *image.RGBA, start, end geometry.Point2D, width float64, col color.NRGBA) {
	length := end.Distance(start)
	if length < 1e-6 {
		return
	}
	size := math.Max(width*3, 6)
	dir := geometry.Point2D{X: (start.X - end.X) / length, Y: (start.Y - end.Y) / length}
	for _, deg := range []float64{30, -30} {
		barb := geometry.RotationDegrees(deg).Apply(dir).Scale(size)
		stampLine(dst, end, end.Add(barb), width, col)
	}
}

// stampLine draws a thick segment by stamping discs along it. Crude next
// to a proper scanline rasterizer, but exact enough for annotation export.
func stampLine(dst *image.RGBA, p0, p1 geometry.Point2D, width float64, col color.NRGBA) {
	radius := math.Max(width/2, 0.5)
	length := p0.Distance(p1)
	step := math.Max(radius/2, 0.5)
	n := int(length/step) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		stampDisc(dst, geometry.Point2D{
			X: p0.X + (p1.X-p0.X)*t,
			Y: p0.Y + (p1.Y-p0.Y)*t,
		}, radius, col)
	}
}

func stampDisc(dst *image.RGBA, c geometry.Point2D, radius float64, col color.NRGBA) {
	r2 := radius * radius
	x0 := int(math.Floor(c.X - radius))
	x1 := int(math.Ceil(c.X + radius))
	y0 := int(math.Floor(c.Y - radius))
	y1 := int(math.Ceil(c.Y + radius))
	bounds := dst.Bounds()
	for y := y0; y <= y1; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - c.X
			dy := float64(y) + 0.5 - c.Y
			if dx*dx+dy*dy <= r2 {
				blendPixel(dst, x, y, col)
			}
		}
	}
}

func blendPixel(dst *image.RGBA, x, y int, col color.NRGBA) {
	if col.A == 0xff {
		dst.SetRGBA(x, y, color.RGBA{col.R, col.G, col.B, 0xff})
		return
	}
	d := dst.RGBAAt(x, y)
	a := float64(col.A) / 255
	dst.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(col.R)*a + float64(d.R)*(1-a)),
		G: uint8(float64(col.G)*a + float64(d.G)*(1-a)),
		B: uint8(float64(col.B)*a + float64(d.B)*(1-a)),
		A: uint8(255*a + float64(d.A)*(1-a)),
	})
}

func drawText(dst *image.RGBA, anchor geometry.Point2D, text string, col color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	x := fixed.I(int(math.Round(anchor.X)))
	y := int(math.Round(anchor.Y)) + face.Ascent
	for _, line := range strings.Split(text, "\n") {
		d.Dot = fixed.Point26_6{X: x, Y: fixed.I(y)}
		d.DrawString(line)
		y += face.Height
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
