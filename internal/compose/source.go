// Package compose rasterizes scenes: it loads source images and flattens
// the layer stack, with every transform applied, into a single RGBA image.
package compose

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// Store caches decoded source rasters by path so repeated renders of the
// same scene do not re-read files.
type Store struct {
	cache map[string]image.Image
}

func NewStore() *Store {
	return &Store{cache: map[string]image.Image{}}
}

// Load returns the decoded raster for path, reading it on first use.
func (s *Store) Load(path string) (image.Image, error) {
	if img, ok := s.cache[path]; ok {
		return img, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	s.cache[path] = img
	return img, nil
}

// Put registers an already-decoded raster under a path key. Used for
// in-memory sources such as pasted images.
func (s *Store) Put(path string, img image.Image) {
	s.cache[path] = img
}

// Evict drops a cached raster.
func (s *Store) Evict(path string) {
	delete(s.cache, path)
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
