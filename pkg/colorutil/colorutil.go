// Package colorutil provides shared color utilities for the composer
// application.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Annotation palette offered by the style picker.
var (
	Red    = color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}
	Orange = color.NRGBA{R: 0xfb, G: 0x8c, B: 0x00, A: 0xff}
	Yellow = color.NRGBA{R: 0xfd, G: 0xd8, B: 0x35, A: 0xff}
	Green  = color.NRGBA{R: 0x43, G: 0xa0, B: 0x47, A: 0xff}
	Blue   = color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
	Purple = color.NRGBA{R: 0x8e, G: 0x24, B: 0xaa, A: 0xff}
	Black  = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	White  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Palette lists the picker colors in display order.
func Palette() []color.NRGBA {
	return []color.NRGBA{Red, Orange, Yellow, Green, Blue, Purple, Black, White}
}

// ParseHex parses a #rrggbb or #rrggbbaa color string.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c color.NRGBA
	c.A = 0xff
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	return c, nil
}

// ParseHexDefault parses a hex color, falling back to def when s is
// empty or malformed.
func ParseHexDefault(s string, def color.NRGBA) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		return def
	}
	return c
}

// FormatHex renders a color as #rrggbb, or #rrggbbaa when not opaque.
func FormatHex(c color.NRGBA) string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
