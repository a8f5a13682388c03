package panels

import (
	"fmt"

	"canvas-composer/internal/app"
	"canvas-composer/internal/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LayersPanel lists the top-level layer order front-to-back and exposes
// visibility, opacity, renaming, reordering and grouping.
type LayersPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list    *widget.List
	entries []string // front-to-back, mirrors reversed LayerOrder

	nameEntry *widget.Entry
	opacity   *widget.Slider
	visCheck  *widget.Check

	selected string
}

// NewLayersPanel creates the layers panel.
func NewLayersPanel(state *app.State) *LayersPanel {
	lp := &LayersPanel{state: state}
	ed := state.Editor

	lp.list = widget.NewList(
		func() int { return len(lp.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("layer") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(lp.entries) {
				return
			}
			obj.(*widget.Label).SetText(lp.entryLabel(lp.entries[id]))
		},
	)
	lp.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(lp.entries) {
			return
		}
		lp.selected = lp.entries[id]
		lp.selectEntry(lp.selected)
		lp.refreshDetail()
	}
	lp.list.OnUnselected = func(widget.ListItemID) {
		lp.selected = ""
		lp.refreshDetail()
	}

	lp.visCheck = widget.NewCheck("Visible", func(checked bool) {
		if lp.selected == "" {
			return
		}
		if ed.SetLayerVisible(lp.selected, checked) {
			lp.changed()
		}
	})

	lp.opacity = widget.NewSlider(0, 100)
	lp.opacity.SetValue(100)
	lp.opacity.OnChangeEnded = func(v float64) {
		if lp.selected == "" {
			return
		}
		if ed.SetLayerOpacity(lp.selected, v/100.0) {
			lp.changed()
		}
	}

	lp.nameEntry = widget.NewEntry()
	lp.nameEntry.OnSubmitted = func(name string) {
		if lp.selected == "" || name == "" {
			return
		}
		if ed.RenameLayer(lp.selected, name) {
			lp.changed()
		}
	}

	raiseBtn := widget.NewButton("Raise", func() { lp.apply(ed.RaiseSelection) })
	lowerBtn := widget.NewButton("Lower", func() { lp.apply(ed.LowerSelection) })
	frontBtn := widget.NewButton("Front", func() { lp.apply(ed.SelectionToFront) })
	backBtn := widget.NewButton("Back", func() { lp.apply(ed.SelectionToBack) })

	groupBtn := widget.NewButton("Group", func() {
		if ed.GroupSelection("Group") {
			lp.changed()
		}
	})
	ungroupBtn := widget.NewButton("Ungroup", func() {
		if ed.UngroupSelection() {
			lp.changed()
		}
	})

	detail := widget.NewCard("Layer", "", container.NewVBox(
		lp.nameEntry,
		lp.visCheck,
		widget.NewLabel("Opacity:"),
		lp.opacity,
		container.NewGridWithColumns(4, raiseBtn, lowerBtn, frontBtn, backBtn),
		container.NewGridWithColumns(2, groupBtn, ungroupBtn),
	))

	lp.container = container.NewBorder(nil, detail, nil, nil, lp.list)

	state.On(app.EventSceneChanged, func(interface{}) { lp.Reload() })
	state.On(app.EventProjectLoaded, func(interface{}) { lp.Reload() })
	state.On(app.EventImageAdded, func(interface{}) { lp.Reload() })
	state.On(app.EventSelectionChanged, func(interface{}) { lp.syncSelection() })

	lp.Reload()
	return lp
}

// Container returns the panel container.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}

// Reload rebuilds the list from the scene's layer order.
func (lp *LayersPanel) Reload() {
	sc := lp.state.Editor.Scene()
	lp.entries = lp.entries[:0]
	for i := len(sc.LayerOrder) - 1; i >= 0; i-- {
		lp.entries = append(lp.entries, sc.LayerOrder[i])
	}
	lp.list.Refresh()
	lp.syncSelection()
}

// apply runs a selection-based reorder op and refreshes on success.
func (lp *LayersPanel) apply(op func() bool) {
	if lp.selected == "" {
		return
	}
	if op() {
		lp.changed()
	}
}

func (lp *LayersPanel) changed() {
	lp.state.SetModified(true)
	lp.state.Emit(app.EventSceneChanged, nil)
}

// selectEntry makes the clicked layer the active selection in the scene.
func (lp *LayersPanel) selectEntry(id string) {
	sc := lp.state.Editor.Scene()
	sel := &sc.Selection
	sel.Clear()
	if g := sc.GroupByID(id); g != nil {
		for _, mid := range sc.GroupImages(id) {
			sel.AddImage(mid)
		}
		sel.ActiveLayer = id
	} else if sc.ImageByID(id) != nil {
		sel.AddImage(id)
		sel.ActiveLayer = id
	} else if sc.CanvasAnnotationByID(id) != nil {
		sel.AddAnnotation(scene.AnnotationRef{AnnotationID: id})
		sel.ActiveLayer = id
	}
	lp.state.Emit(app.EventSelectionChanged, nil)
}

// syncSelection highlights the scene's active layer in the list.
func (lp *LayersPanel) syncSelection() {
	active := lp.state.Editor.Scene().Selection.ActiveLayer
	if active == lp.selected {
		lp.refreshDetail()
		return
	}
	lp.selected = active
	for i, id := range lp.entries {
		if id == active {
			lp.list.Select(i)
			lp.refreshDetail()
			return
		}
	}
	lp.list.UnselectAll()
	lp.refreshDetail()
}

func (lp *LayersPanel) refreshDetail() {
	sc := lp.state.Editor.Scene()
	if im := sc.ImageByID(lp.selected); im != nil {
		lp.nameEntry.SetText(im.Name)
		lp.visCheck.SetChecked(im.Visible)
		lp.opacity.SetValue(im.Opacity * 100)
		return
	}
	if g := sc.GroupByID(lp.selected); g != nil {
		lp.nameEntry.SetText(g.Name)
		lp.visCheck.SetChecked(true)
		return
	}
	lp.nameEntry.SetText("")
}

func (lp *LayersPanel) entryLabel(id string) string {
	sc := lp.state.Editor.Scene()
	if im := sc.ImageByID(id); im != nil {
		mark := ""
		if !im.Visible {
			mark = " (hidden)"
		}
		return im.Name + mark
	}
	if g := sc.GroupByID(id); g != nil {
		return fmt.Sprintf("%s [group of %d]", g.Name, len(g.Members))
	}
	if a := sc.CanvasAnnotationByID(id); a != nil {
		return string(a.Kind())
	}
	return id
}
