// Package prefs provides TOML-based application preferences.
package prefs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

const prefsFile = "preferences.toml"

const maxRecentProjects = 8

// Config holds the persisted preference values.
type Config struct {
	Theme              string   `toml:"theme"`
	DefaultColor       string   `toml:"default_color"`
	DefaultStrokeWidth float64  `toml:"default_stroke_width"`
	DefaultFontSize    float64  `toml:"default_font_size"`
	CropAspect         float64  `toml:"crop_aspect"`
	WindowWidth        float64  `toml:"window_width"`
	WindowHeight       float64  `toml:"window_height"`
	RecentProjects     []string `toml:"recent_projects"`
}

func defaults() Config {
	return Config{
		Theme:              "dark",
		DefaultColor:       "#e53935",
		DefaultStrokeWidth: 3,
		DefaultFontSize:    18,
		WindowWidth:        1400,
		WindowHeight:       900,
	}
}

// Prefs stores application preferences, safe for concurrent use.
type Prefs struct {
	mu   sync.RWMutex
	cfg  Config
	path string
}

// Load reads preferences from ~/.config/canvas-composer/preferences.toml.
// Returns a Prefs with defaults if the file doesn't exist or is invalid.
func Load() *Prefs {
	p := &Prefs{cfg: defaults()}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	dir := filepath.Join(configDir, "canvas-composer")
	p.path = filepath.Join(dir, prefsFile)

	if _, err := toml.DecodeFile(p.path, &p.cfg); err != nil {
		p.cfg = defaults()
	}
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	file, err := os.Create(p.path)
	if err != nil {
		return err
	}
	defer file.Close()

	p.mu.RLock()
	defer p.mu.RUnlock()
	return toml.NewEncoder(file).Encode(p.cfg)
}

// Snapshot returns a copy of the current values.
func (p *Prefs) Snapshot() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cfg := p.cfg
	cfg.RecentProjects = append([]string(nil), p.cfg.RecentProjects...)
	return cfg
}

// Update applies fn to the config under the write lock.
func (p *Prefs) Update(fn func(*Config)) {
	p.mu.Lock()
	fn(&p.cfg)
	p.mu.Unlock()
}

// AddRecentProject moves path to the front of the recent-projects list.
func (p *Prefs) AddRecentProject(path string) {
	p.Update(func(c *Config) {
		recent := []string{path}
		for _, r := range c.RecentProjects {
			if r != path && len(recent) < maxRecentProjects {
				recent = append(recent, r)
			}
		}
		c.RecentProjects = recent
	})
}
