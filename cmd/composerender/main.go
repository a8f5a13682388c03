// Command composerender renders a saved project to a PNG without opening
// the editor.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"canvas-composer/internal/compose"
	"canvas-composer/internal/project"
	"canvas-composer/internal/transform"
	"canvas-composer/pkg/geometry"
)

func main() {
	projectPath := flag.String("project", "", "Path to project file")
	outPath := flag.String("out", "", "Output PNG path (defaults to the project name)")
	scale := flag.Float64("scale", 1.0, "Device pixels per canvas unit")
	region := flag.String("region", "", "Canvas region to render as x,y,w,h (defaults to the scene bounds)")
	flag.Parse()

	if *projectPath == "" {
		fmt.Println("Usage: composerender -project <path> [-out render.png] [-scale 2] [-region x,y,w,h]")
		os.Exit(1)
	}
	if *scale <= 0 {
		fmt.Fprintln(os.Stderr, "Scale must be positive")
		os.Exit(1)
	}

	f, err := project.Load(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
		os.Exit(1)
	}
	sc, err := f.Scene()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build scene: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %s: %d images, %d groups, %d canvas annotations\n",
		f.Name, len(sc.Images), len(sc.Groups), len(sc.CanvasAnnotations))

	sources := compose.NewStore()
	for _, im := range sc.Images {
		if _, err := sources.Load(im.Path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", im.Path, err)
			os.Exit(1)
		}
		bounds := transform.ImageGlobalBounds(im)
		fmt.Printf("  %-24s %4.0fx%-4.0f at (%.0f, %.0f) scale %.2f rot %.1f\n",
			im.Name, im.Width, im.Height, bounds.X, bounds.Y, im.Scale, im.Rotation)
	}

	var area geometry.Rect
	if *region != "" {
		area, err = parseRegion(*region)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad region: %v\n", err)
			os.Exit(1)
		}
	} else {
		var ok bool
		area, ok = compose.SceneBounds(sc)
		if !ok {
			fmt.Fprintln(os.Stderr, "Nothing to render: the scene has no visible images")
			os.Exit(1)
		}
	}

	img := compose.NewRenderer(sources).Render(sc, area, *scale)

	out := *outPath
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(*projectPath), filepath.Ext(*projectPath))
		out = base + ".png"
	}
	file, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode PNG: %v\n", err)
		os.Exit(1)
	}

	b := img.Bounds()
	fmt.Printf("Wrote %s (%dx%d px, %.2g px/unit)\n", out, b.Dx(), b.Dy(), *scale)
}

// parseRegion parses "x,y,w,h" into a rect.
func parseRegion(s string) (geometry.Rect, error) {
	var r geometry.Rect
	n, err := fmt.Sscanf(s, "%g,%g,%g,%g", &r.X, &r.Y, &r.Width, &r.Height)
	if err != nil || n != 4 {
		return r, fmt.Errorf("expected x,y,w,h, got %q", s)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return r, fmt.Errorf("width and height must be positive")
	}
	return r, nil
}
