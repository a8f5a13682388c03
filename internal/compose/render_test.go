package compose

import (
	"image"
	"image/color"
	"testing"

	"canvas-composer/internal/scene"
	"canvas-composer/pkg/geometry"
)

func solidImage(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSceneBoundsUnionsVisibleImages(t *testing.T) {
	sc := scene.New()
	if _, ok := SceneBounds(sc); ok {
		t.Fatal("empty scene reported bounds")
	}

	a := scene.NewImage("a", 0, 0, 100, 50)
	b := scene.NewImage("b", 200, 100, 50, 50)
	hidden := scene.NewImage("hidden", -500, -500, 10, 10)
	hidden.Visible = false
	sc.AddImage(a)
	sc.AddImage(b)
	sc.AddImage(hidden)

	got, ok := SceneBounds(sc)
	if !ok {
		t.Fatal("SceneBounds found nothing")
	}
	want := geometry.NewRect(0, 0, 250, 150)
	if got != want {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}
}

func TestRenderOutputSizeAndBackground(t *testing.T) {
	r := NewRenderer(NewStore())
	sc := scene.New()

	out := r.Render(sc, geometry.NewRect(0, 0, 100, 60), 2)
	if got := out.Bounds(); got.Dx() != 200 || got.Dy() != 120 {
		t.Errorf("output = %dx%d, want 200x120", got.Dx(), got.Dy())
	}

	// An empty region still produces a 1x1 canvas.
	tiny := r.Render(sc, geometry.NewRect(0, 0, 0, 0), 1)
	if got := tiny.Bounds(); got.Dx() != 1 || got.Dy() != 1 {
		t.Errorf("degenerate output = %dx%d", got.Dx(), got.Dy())
	}

	// Fractional extents round up to cover the region.
	frac := r.Render(sc, geometry.NewRect(0, 0, 10.2, 10.2), 1)
	if got := frac.Bounds(); got.Dx() != 11 || got.Dy() != 11 {
		t.Errorf("fractional output = %dx%d, want 11x11", got.Dx(), got.Dy())
	}

	bg := out.RGBAAt(100, 60)
	if bg.R != 0x28 || bg.G != 0x28 || bg.B != 0x28 {
		t.Errorf("background pixel = %+v", bg)
	}
}

func TestRenderPlacesSourcePixels(t *testing.T) {
	store := NewStore()
	store.Put("mem://red", solidImage(10, 10, color.NRGBA{0xff, 0, 0, 0xff}))
	r := NewRenderer(store)

	sc := scene.New()
	im := scene.NewImage("red", 20, 20, 10, 10)
	im.Path = "mem://red"
	sc.AddImage(im)

	out := r.Render(sc, geometry.NewRect(0, 0, 50, 50), 1)

	inside := out.RGBAAt(25, 25)
	if inside.R < 0xf0 || inside.G > 0x10 {
		t.Errorf("pixel inside image = %+v, want red", inside)
	}
	outside := out.RGBAAt(5, 5)
	if outside.R != 0x28 {
		t.Errorf("pixel outside image = %+v, want background", outside)
	}
}

func TestRenderSkipsHiddenAndMissingSources(t *testing.T) {
	store := NewStore()
	store.Put("mem://red", solidImage(10, 10, color.NRGBA{0xff, 0, 0, 0xff}))
	r := NewRenderer(store)

	sc := scene.New()
	hidden := scene.NewImage("hidden", 0, 0, 10, 10)
	hidden.Path = "mem://red"
	hidden.Visible = false
	sc.AddImage(hidden)

	missing := scene.NewImage("missing", 20, 0, 10, 10)
	missing.Path = "/no/such/file.png"
	sc.AddImage(missing)

	out := r.Render(sc, geometry.NewRect(0, 0, 40, 20), 1)
	if got := out.RGBAAt(5, 5); got.R != 0x28 {
		t.Errorf("hidden image rendered: %+v", got)
	}
	if got := out.RGBAAt(25, 5); got.R != 0x28 {
		t.Errorf("missing source rendered: %+v", got)
	}
}

func TestRenderAppliesCrop(t *testing.T) {
	// Left half green, right half red; crop to the right half.
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.NRGBA{0, 0xff, 0, 0xff}
			if x >= 10 {
				c = color.NRGBA{0xff, 0, 0, 0xff}
			}
			src.SetNRGBA(x, y, c)
		}
	}
	store := NewStore()
	store.Put("mem://split", src)
	r := NewRenderer(store)

	sc := scene.New()
	im := scene.NewImage("split", 0, 0, 20, 10)
	im.Path = "mem://split"
	crop := geometry.NewRect(10, 0, 10, 10)
	im.CropRect = &crop
	sc.AddImage(im)

	// The cropped image occupies local (0,0)-(10,10) at its position.
	out := r.Render(sc, geometry.NewRect(0, 0, 10, 10), 1)
	got := out.RGBAAt(5, 5)
	if got.R < 0xf0 || got.G > 0x10 {
		t.Errorf("cropped pixel = %+v, want the red half", got)
	}
}

func TestRenderAppliesVerticalCrop(t *testing.T) {
	// Top half green, bottom half red; crop to the bottom half, so the
	// source rectangle is offset in y only.
	src := image.NewNRGBA(image.Rect(0, 0, 10, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{0, 0xff, 0, 0xff}
			if y >= 10 {
				c = color.NRGBA{0xff, 0, 0, 0xff}
			}
			src.SetNRGBA(x, y, c)
		}
	}
	store := NewStore()
	store.Put("mem://stack", src)
	r := NewRenderer(store)

	sc := scene.New()
	im := scene.NewImage("stack", 0, 0, 10, 20)
	im.Path = "mem://stack"
	crop := geometry.NewRect(0, 10, 10, 10)
	im.CropRect = &crop
	sc.AddImage(im)

	out := r.Render(sc, geometry.NewRect(0, 0, 10, 10), 1)
	got := out.RGBAAt(5, 5)
	if got.R < 0xf0 || got.G > 0x10 {
		t.Errorf("cropped pixel = %+v, want the red half", got)
	}
}

func TestRenderCanvasAnnotation(t *testing.T) {
	r := NewRenderer(NewStore())
	sc := scene.New()
	sc.AddCanvasAnnotation(&scene.Line{
		Attrs: scene.NewAttrs("#ff0000", 4),
		Start: geometry.Point2D{X: 10, Y: 25},
		End:   geometry.Point2D{X: 40, Y: 25},
	})

	out := r.Render(sc, geometry.NewRect(0, 0, 50, 50), 1)
	got := out.RGBAAt(25, 25)
	if got.R < 0xf0 || got.G > 0x10 {
		t.Errorf("pixel on line = %+v, want red", got)
	}
	if got := out.RGBAAt(25, 45); got.R != 0x28 {
		t.Errorf("pixel off line = %+v, want background", got)
	}
}

func TestRenderRectOutlineMatchesDrawnGeometry(t *testing.T) {
	r := NewRenderer(NewStore())
	sc := scene.New()
	sc.AddCanvasAnnotation(&scene.RectShape{
		Attrs: scene.NewAttrs("#ff0000", 2),
		X:     10, Y: 10, Width: 20, Height: 20,
	})

	out := r.Render(sc, geometry.NewRect(0, 0, 50, 50), 1)

	// The outline sits on the rect edges the user drew.
	onEdge := out.RGBAAt(10, 20)
	if onEdge.R < 0xf0 || onEdge.G > 0x10 {
		t.Errorf("pixel on rect edge = %+v, want red", onEdge)
	}

	// The pick bounds inflate the rect by StrokeWidth/2 plus padding; that
	// box must not be where the outline renders.
	offEdge := out.RGBAAt(3, 20)
	if offEdge.R != 0x28 {
		t.Errorf("pixel on padded pick bound = %+v, want background", offEdge)
	}
	inside := out.RGBAAt(20, 20)
	if inside.R != 0x28 {
		t.Errorf("pixel inside rect = %+v, want unfilled background", inside)
	}
}

func TestIsSupportedFormat(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"photo.png", true},
		{"photo.JPG", true},
		{"scan.tiff", true},
		{"doc.pdf", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := IsSupportedFormat(tc.path); got != tc.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestStoreCachesAndEvicts(t *testing.T) {
	store := NewStore()
	img := solidImage(2, 2, color.NRGBA{0, 0, 0xff, 0xff})
	store.Put("mem://blue", img)

	got, err := store.Load("mem://blue")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != img {
		t.Error("Load did not return the cached raster")
	}

	store.Evict("mem://blue")
	if _, err := store.Load("mem://blue"); err == nil {
		t.Error("Load succeeded after eviction of an in-memory source")
	}
}
