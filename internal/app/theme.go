package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ComposerTheme provides a custom theme for the application.
type ComposerTheme struct {
	// Variant forces light or dark regardless of the system setting.
	Variant fyne.ThemeVariant
}

var _ fyne.Theme = (*ComposerTheme)(nil)

// NewComposerTheme builds the theme from a preference name, "dark" or
// "light". Anything else falls back to dark.
func NewComposerTheme(name string) *ComposerTheme {
	variant := theme.VariantDark
	if name == "light" {
		variant = theme.VariantLight
	}
	return &ComposerTheme{Variant: variant}
}

func (t *ComposerTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0x60}
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF} // Visible gray scrollbar
	default:
		return theme.DefaultTheme().Color(name, t.Variant)
	}
}

func (t *ComposerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ComposerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ComposerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
