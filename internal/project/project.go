// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"canvas-composer/internal/scene"
)

// Version is the current project file format version.
const Version = 1

// File represents a composition project file (.ccproj). Annotations are
// stored as tagged wrappers so the polymorphic scene types survive the
// JSON round trip.
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Images            []imageRecord      `json:"images,omitempty"`
	Groups            []*scene.Group     `json:"groups,omitempty"`
	LayerOrder        []string           `json:"layerOrder,omitempty"`
	CanvasAnnotations []annotationRecord `json:"canvasAnnotations,omitempty"`
}

type imageRecord struct {
	scene.Image
	Annotations []annotationRecord `json:"annotations,omitempty"`
}

type annotationRecord struct {
	Kind scene.Kind      `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// New creates an empty project file.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  Version,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// FromScene captures a scene into a project file. The selection is
// transient state and is not persisted.
func FromScene(name string, sc *scene.Scene) (*File, error) {
	f := New(name)
	for _, id := range sc.LayerOrder {
		f.LayerOrder = append(f.LayerOrder, id)
	}
	for _, im := range sc.Images {
		rec := imageRecord{Image: *im}
		rec.Image.Annotations = nil
		for _, a := range im.Annotations {
			ar, err := encodeAnnotation(a)
			if err != nil {
				return nil, err
			}
			rec.Annotations = append(rec.Annotations, ar)
		}
		f.Images = append(f.Images, rec)
	}
	for _, g := range sc.Groups {
		f.Groups = append(f.Groups, g.Clone())
	}
	for _, a := range sc.CanvasAnnotations {
		ar, err := encodeAnnotation(a)
		if err != nil {
			return nil, err
		}
		f.CanvasAnnotations = append(f.CanvasAnnotations, ar)
	}
	return f, nil
}

// Scene rebuilds the scene captured in the file.
func (f *File) Scene() (*scene.Scene, error) {
	sc := scene.New()
	for i := range f.Images {
		im := f.Images[i].Image
		for _, ar := range f.Images[i].Annotations {
			a, err := decodeAnnotation(ar)
			if err != nil {
				return nil, err
			}
			im.Annotations = append(im.Annotations, a)
		}
		sc.Images[im.ID] = &im
	}
	for _, g := range f.Groups {
		sc.Groups[g.ID] = g.Clone()
	}
	for _, ar := range f.CanvasAnnotations {
		a, err := decodeAnnotation(ar)
		if err != nil {
			return nil, err
		}
		sc.CanvasAnnotations = append(sc.CanvasAnnotations, a)
	}
	sc.LayerOrder = append(sc.LayerOrder, f.LayerOrder...)
	return sc, nil
}

// Load loads a project from a .ccproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid project file: %w", err)
	}
	if f.Version > Version {
		return nil, fmt.Errorf("project version %d is newer than supported version %d", f.Version, Version)
	}
	f.ResolvePaths(path)
	return &f, nil
}

// Save saves the project to a file, storing image paths relative to it.
func (f *File) Save(path string) error {
	f.Modified = time.Now()
	f.makeRelative(path)
	defer f.ResolvePaths(path)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePaths rewrites relative image paths to absolute ones anchored at
// the project file's directory.
func (f *File) ResolvePaths(projectPath string) {
	dir := filepath.Dir(projectPath)
	for i := range f.Images {
		p := f.Images[i].Path
		if p != "" && !filepath.IsAbs(p) {
			f.Images[i].Path = filepath.Join(dir, p)
		}
	}
}

func (f *File) makeRelative(projectPath string) {
	dir := filepath.Dir(projectPath)
	for i := range f.Images {
		p := f.Images[i].Path
		if p == "" {
			continue
		}
		if rel, err := filepath.Rel(dir, p); err == nil {
			f.Images[i].Path = rel
		}
	}
}

func encodeAnnotation(a scene.Annotation) (annotationRecord, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return annotationRecord{}, err
	}
	return annotationRecord{Kind: a.Kind(), Data: data}, nil
}

func decodeAnnotation(ar annotationRecord) (scene.Annotation, error) {
	var a scene.Annotation
	switch ar.Kind {
	case scene.KindStroke:
		a = &scene.Stroke{}
	case scene.KindRect:
		a = &scene.RectShape{}
	case scene.KindCircle:
		a = &scene.Circle{}
	case scene.KindText:
		a = &scene.Text{}
	case scene.KindLine:
		a = &scene.Line{}
	case scene.KindArrow:
		a = &scene.Arrow{}
	default:
		return nil, fmt.Errorf("unknown annotation kind %q", ar.Kind)
	}
	if err := json.Unmarshal(ar.Data, a); err != nil {
		return nil, fmt.Errorf("invalid %s annotation: %w", ar.Kind, err)
	}
	return a, nil
}
