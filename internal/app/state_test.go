package app

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0x1e, 0x88, 0xe5, 0xff})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEventListeners(t *testing.T) {
	s := NewState()
	var got []interface{}
	s.On(EventSceneChanged, func(data interface{}) { got = append(got, data) })
	s.On(EventSceneChanged, func(data interface{}) { got = append(got, data) })

	s.Emit(EventSceneChanged, "payload")
	if len(got) != 2 || got[0] != "payload" {
		t.Errorf("listener calls = %v", got)
	}

	// Other event types do not fire.
	s.Emit(EventToolChanged, nil)
	if len(got) != 2 {
		t.Error("listener fired for the wrong event type")
	}
}

func TestSetModifiedEmitsOnChangeOnly(t *testing.T) {
	s := NewState()
	fired := 0
	s.On(EventModified, func(interface{}) { fired++ })

	s.SetModified(true)
	s.SetModified(true)
	s.SetModified(false)
	if fired != 2 {
		t.Errorf("EventModified fired %d times, want 2", fired)
	}
}

func TestName(t *testing.T) {
	s := NewState()
	if s.Name() != "Untitled" {
		t.Errorf("Name = %q", s.Name())
	}
	s.ProjectPath = "/projects/board-shot.ccproj"
	if s.Name() != "board-shot" {
		t.Errorf("Name = %q", s.Name())
	}
}

func TestAddImageRejectsUnsupportedFormat(t *testing.T) {
	s := NewState()
	if err := s.AddImage("/tmp/document.pdf"); err == nil {
		t.Fatal("AddImage accepted a pdf")
	}
}

func TestAddSaveLoadExport(t *testing.T) {
	dir := t.TempDir()
	src := writeTestPNG(t, dir, "blue.png", 40, 30)

	s := NewState()
	s.Editor.SetSurfaceSize(800, 600)
	added := ""
	s.On(EventImageAdded, func(data interface{}) { added, _ = data.(string) })

	if err := s.AddImage(src); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if added == "" {
		t.Fatal("EventImageAdded not emitted")
	}
	im := s.Editor.Scene().ImageByID(added)
	if im == nil || im.Width != 40 || im.Height != 30 {
		t.Fatalf("placed image = %+v", im)
	}
	if !s.Modified {
		t.Error("adding an image did not mark the project modified")
	}

	proj := filepath.Join(dir, "session.ccproj")
	if err := s.SaveProject(proj); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if s.Modified || s.ProjectPath != proj {
		t.Errorf("state after save: modified=%v path=%q", s.Modified, s.ProjectPath)
	}

	other := NewState()
	if err := other.LoadProject(proj); err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	loaded := other.Editor.Scene().ImageByID(added)
	if loaded == nil {
		t.Fatal("image missing after reload")
	}
	if loaded.Path != src {
		t.Errorf("reloaded path = %q, want %q", loaded.Path, src)
	}

	out := filepath.Join(dir, "export.png")
	if err := other.ExportPNG(out, 0); err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("export = %dx%d, want 40x30", cfg.Width, cfg.Height)
	}
}

func TestExportPNGEmptyScene(t *testing.T) {
	s := NewState()
	if err := s.ExportPNG(filepath.Join(t.TempDir(), "out.png"), 1); err == nil {
		t.Fatal("exported an empty scene")
	}
}

func TestReset(t *testing.T) {
	s := NewState()
	s.ProjectPath = "/tmp/x.ccproj"
	s.SetModified(true)
	fired := false
	s.On(EventSceneChanged, func(interface{}) { fired = true })

	s.Reset()
	if s.ProjectPath != "" || s.Modified {
		t.Errorf("state after reset: %q modified=%v", s.ProjectPath, s.Modified)
	}
	if !fired {
		t.Error("Reset did not announce the scene change")
	}
}
