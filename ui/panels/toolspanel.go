// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"canvas-composer/internal/app"
	"canvas-composer/internal/engine"
	"canvas-composer/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// toolEntry pairs a display name with an editor tool.
type toolEntry struct {
	name string
	tool engine.Tool
}

var toolEntries = []toolEntry{
	{"Select", engine.ToolSelect},
	{"Pan", engine.ToolPan},
	{"Crop", engine.ToolCrop},
	{"Stroke", engine.ToolStroke},
	{"Rectangle", engine.ToolRect},
	{"Circle", engine.ToolCircle},
	{"Text", engine.ToolText},
	{"Line", engine.ToolLine},
	{"Arrow", engine.ToolArrow},
}

// cropAspects maps the aspect picker labels to width/height ratios.
// Zero means unconstrained.
var cropAspects = []struct {
	name  string
	ratio float64
}{
	{"Free", 0},
	{"1:1", 1},
	{"4:3", 4.0 / 3.0},
	{"3:2", 3.0 / 2.0},
	{"16:9", 16.0 / 9.0},
}

// ToolsPanel selects the active tool and the style for new annotations.
type ToolsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	toolGroup   *widget.RadioGroup
	swatch      *fynecanvas.Rectangle
	widthSlider *widget.Slider
	widthLabel  *widget.Label
	fontSlider  *widget.Slider
	fontLabel   *widget.Label
	aspectPick  *widget.Select
}

// NewToolsPanel creates the tool and style panel.
func NewToolsPanel(state *app.State) *ToolsPanel {
	tp := &ToolsPanel{state: state}
	ed := state.Editor

	names := make([]string, len(toolEntries))
	for i, e := range toolEntries {
		names[i] = e.name
	}
	tp.toolGroup = widget.NewRadioGroup(names, func(selected string) {
		for _, e := range toolEntries {
			if e.name == selected {
				ed.SetTool(e.tool)
				state.Emit(app.EventToolChanged, e.tool)
				return
			}
		}
	})
	tp.toolGroup.SetSelected("Select")

	// Current color swatch plus the fixed palette.
	style := ed.Style()
	tp.swatch = fynecanvas.NewRectangle(colorutil.ParseHexDefault(style.Color, colorutil.Red))
	tp.swatch.SetMinSize(fyne.NewSize(0, 24))

	paletteRow := container.NewGridWithColumns(4)
	for _, c := range colorutil.Palette() {
		c := c
		sw := fynecanvas.NewRectangle(c)
		sw.SetMinSize(fyne.NewSize(24, 24))
		btn := widget.NewButton("", func() {
			tp.setColor(colorutil.FormatHex(c))
		})
		paletteRow.Add(container.NewStack(sw, btn))
	}

	tp.widthLabel = widget.NewLabel(fmt.Sprintf("Width: %.0f", style.StrokeWidth))
	tp.widthSlider = widget.NewSlider(1, 20)
	tp.widthSlider.SetValue(style.StrokeWidth)
	tp.widthSlider.OnChanged = func(v float64) {
		s := ed.Style()
		s.StrokeWidth = v
		ed.SetStyle(s)
		tp.widthLabel.SetText(fmt.Sprintf("Width: %.0f", v))
	}
	// Restyle the selection only when the drag ends, so a slider drag
	// produces a single history entry.
	tp.widthSlider.OnChangeEnded = func(v float64) {
		if ed.RestyleSelection(ed.Style()) {
			state.SetModified(true)
			state.Emit(app.EventSceneChanged, nil)
		}
	}

	tp.fontLabel = widget.NewLabel(fmt.Sprintf("Font: %.0f", style.FontSize))
	tp.fontSlider = widget.NewSlider(8, 72)
	tp.fontSlider.SetValue(style.FontSize)
	tp.fontSlider.OnChanged = func(v float64) {
		s := ed.Style()
		s.FontSize = v
		ed.SetStyle(s)
		tp.fontLabel.SetText(fmt.Sprintf("Font: %.0f", v))
	}
	tp.fontSlider.OnChangeEnded = func(v float64) {
		if ed.RestyleSelection(ed.Style()) {
			state.SetModified(true)
			state.Emit(app.EventSceneChanged, nil)
		}
	}

	aspectNames := make([]string, len(cropAspects))
	for i, a := range cropAspects {
		aspectNames[i] = a.name
	}
	tp.aspectPick = widget.NewSelect(aspectNames, func(selected string) {
		for _, a := range cropAspects {
			if a.name == selected {
				ed.SetCropAspect(a.ratio)
				return
			}
		}
	})
	tp.aspectPick.SetSelected("Free")

	clearCropBtn := widget.NewButton("Clear Crop", func() {
		if ed.ClearCrop() {
			state.SetModified(true)
			state.Emit(app.EventSceneChanged, nil)
		}
	})

	tp.container = container.NewVScroll(container.NewVBox(
		widget.NewCard("Tool", "", tp.toolGroup),
		widget.NewCard("Style", "", container.NewVBox(
			tp.swatch,
			paletteRow,
			tp.widthLabel,
			tp.widthSlider,
			tp.fontLabel,
			tp.fontSlider,
		)),
		widget.NewCard("Crop", "", container.NewVBox(
			widget.NewLabel("Aspect:"),
			tp.aspectPick,
			clearCropBtn,
		)),
	))

	state.On(app.EventToolChanged, func(data interface{}) {
		tool, ok := data.(engine.Tool)
		if !ok {
			return
		}
		for _, e := range toolEntries {
			if e.tool == tool && tp.toolGroup.Selected != e.name {
				tp.toolGroup.SetSelected(e.name)
				return
			}
		}
	})

	return tp
}

func (tp *ToolsPanel) setColor(hex string) {
	ed := tp.state.Editor
	s := ed.Style()
	s.Color = hex
	ed.SetStyle(s)
	if ed.RestyleSelection(s) {
		tp.state.SetModified(true)
		tp.state.Emit(app.EventSceneChanged, nil)
	}
	tp.swatch.FillColor = colorutil.ParseHexDefault(hex, colorutil.Red)
	tp.swatch.Refresh()
}

// Container returns the panel container.
func (tp *ToolsPanel) Container() fyne.CanvasObject {
	return tp.container
}
