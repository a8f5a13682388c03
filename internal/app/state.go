// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"canvas-composer/internal/compose"
	"canvas-composer/internal/engine"
	"canvas-composer/internal/project"
	"canvas-composer/internal/scene"
)

// ExportPixelScale is the device-pixels-per-canvas-unit ratio used for
// whole-scene PNG export.
const ExportPixelScale = 1.0

// State holds the application state: the editor, the loaded project, and
// the raster sources backing the scene's images.
type State struct {
	mu sync.RWMutex

	Editor  *engine.Editor
	Sources *compose.Store

	// Project
	ProjectPath string
	Modified    bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventImageAdded
	EventSceneChanged
	EventSelectionChanged
	EventToolChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with an empty scene.
func NewState() *State {
	return &State{
		Editor:    engine.New(scene.New()),
		Sources:   compose.NewStore(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, modified)
	}
}

// Name returns a display name for the current project.
func (s *State) Name() string {
	s.mu.RLock()
	path := s.ProjectPath
	s.mu.RUnlock()
	if path == "" {
		return "Untitled"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Reset discards the current project and starts over with an empty scene.
func (s *State) Reset() {
	s.mu.Lock()
	s.Editor = engine.New(scene.New())
	s.ProjectPath = ""
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSceneChanged, nil)
}

// LoadProject loads a project from the specified path and replaces the
// editor's scene with it.
func (s *State) LoadProject(path string) error {
	f, err := project.Load(path)
	if err != nil {
		return err
	}
	sc, err := f.Scene()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Editor = engine.New(sc)
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	s.Emit(EventSceneChanged, nil)
	return nil
}

// SaveProject saves the current scene to the specified path.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	sc := s.Editor.Scene()
	s.mu.RUnlock()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	f, err := project.FromScene(name, sc)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// AddImage loads a raster from disk and places it in the scene.
func (s *State) AddImage(path string) error {
	if !compose.IsSupportedFormat(path) {
		return fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}
	img, err := s.Sources.Load(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	id := s.Editor.PlaceImage(name, path, float64(b.Dx()), float64(b.Dy()))
	if id == "" {
		return fmt.Errorf("cannot add image during an active gesture")
	}

	s.SetModified(true)
	s.Emit(EventImageAdded, id)
	s.Emit(EventSceneChanged, nil)
	return nil
}

// ExportPNG flattens the whole scene at the given device-pixels-per-canvas-
// unit ratio and writes it as a PNG file. A non-positive scale falls back
// to ExportPixelScale.
func (s *State) ExportPNG(path string, pixelScale float64) error {
	if pixelScale <= 0 {
		pixelScale = ExportPixelScale
	}
	sc := s.Editor.Scene()
	region, ok := compose.SceneBounds(sc)
	if !ok {
		return fmt.Errorf("nothing to export: the scene has no visible images")
	}
	img := compose.NewRenderer(s.Sources).Render(sc, region, pixelScale)
	return writePNG(path, img)
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
