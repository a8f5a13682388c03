package panels

import (
	"fmt"
	"strconv"

	"canvas-composer/internal/app"
	"canvas-composer/internal/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PropertySheet shows the numeric properties of the current selection and
// allows direct edits: image placement, annotation style, text content and
// the owning image of an annotation.
type PropertySheet struct {
	state     *app.State
	container fyne.CanvasObject

	header *widget.Label

	imageCard *widget.Card
	posXEntry *widget.Entry
	posYEntry *widget.Entry
	scaleEntry *widget.Entry
	rotEntry   *widget.Entry
	cropLabel  *widget.Label

	annCard     *widget.Card
	annKind     *widget.Label
	textEntry   *widget.Entry
	ownerSelect *widget.Select
	straightBtn *widget.Button

	ownerIDs []string // parallel to ownerSelect options after the first
}

// NewPropertySheet creates the properties panel.
func NewPropertySheet(state *app.State) *PropertySheet {
	ps := &PropertySheet{state: state}

	ps.header = widget.NewLabel("Nothing selected")
	ps.header.Wrapping = fyne.TextWrapWord

	ps.posXEntry = widget.NewEntry()
	ps.posYEntry = widget.NewEntry()
	ps.scaleEntry = widget.NewEntry()
	ps.rotEntry = widget.NewEntry()
	ps.cropLabel = widget.NewLabel("")
	ps.posXEntry.OnSubmitted = func(string) { ps.applyImageEdits() }
	ps.posYEntry.OnSubmitted = func(string) { ps.applyImageEdits() }
	ps.scaleEntry.OnSubmitted = func(string) { ps.applyImageEdits() }
	ps.rotEntry.OnSubmitted = func(string) { ps.applyImageEdits() }

	grid := container.NewGridWithColumns(2,
		widget.NewLabel("X:"), ps.posXEntry,
		widget.NewLabel("Y:"), ps.posYEntry,
		widget.NewLabel("Scale:"), ps.scaleEntry,
		widget.NewLabel("Rotation:"), ps.rotEntry,
	)
	ps.imageCard = widget.NewCard("Image", "", container.NewVBox(grid, ps.cropLabel))
	ps.imageCard.Hide()

	ps.annKind = widget.NewLabel("")
	ps.textEntry = widget.NewEntry()
	ps.textEntry.OnSubmitted = func(text string) {
		ref, ok := ps.selectedAnnotation()
		if !ok {
			return
		}
		if state.Editor.SetText(ref, text) {
			ps.changed()
		}
	}
	ps.ownerSelect = widget.NewSelect(nil, func(selected string) {
		ps.reparentTo(ps.ownerSelect.SelectedIndex())
	})
	ps.straightBtn = widget.NewButton("Straighten", func() {
		if state.Editor.StraightenSelection() {
			ps.changed()
		}
	})
	ps.annCard = widget.NewCard("Annotation", "", container.NewVBox(
		ps.annKind,
		widget.NewLabel("Text:"),
		ps.textEntry,
		widget.NewLabel("Attached to:"),
		ps.ownerSelect,
		ps.straightBtn,
	))
	ps.annCard.Hide()

	deleteBtn := widget.NewButton("Delete", func() {
		if state.Editor.DeleteSelection() {
			ps.changed()
		}
	})
	dupBtn := widget.NewButton("Duplicate", func() {
		if state.Editor.DuplicateSelection() {
			ps.changed()
		}
	})

	ps.container = container.NewVScroll(container.NewVBox(
		ps.header,
		ps.imageCard,
		ps.annCard,
		container.NewGridWithColumns(2, deleteBtn, dupBtn),
	))

	state.On(app.EventSelectionChanged, func(interface{}) { ps.Refresh() })
	state.On(app.EventSceneChanged, func(interface{}) { ps.Refresh() })
	state.On(app.EventProjectLoaded, func(interface{}) { ps.Refresh() })

	ps.Refresh()
	return ps
}

// Container returns the panel container.
func (ps *PropertySheet) Container() fyne.CanvasObject {
	return ps.container
}

// Refresh repopulates the sheet from the current selection.
func (ps *PropertySheet) Refresh() {
	sc := ps.state.Editor.Scene()
	sel := &sc.Selection

	ps.imageCard.Hide()
	ps.annCard.Hide()

	switch {
	case len(sel.Annotations) == 1:
		ref := sel.Annotations[0]
		a := sc.FindAnnotation(ref)
		if a == nil {
			ps.header.SetText("Nothing selected")
			return
		}
		ps.header.SetText(fmt.Sprintf("%s annotation", a.Kind()))
		ps.annKind.SetText(string(a.Kind()))
		if t, ok := a.(*scene.Text); ok {
			ps.textEntry.SetText(t.Text)
			ps.textEntry.Enable()
		} else {
			ps.textEntry.SetText("")
			ps.textEntry.Disable()
		}
		if a.Kind() == scene.KindStroke {
			ps.straightBtn.Enable()
		} else {
			ps.straightBtn.Disable()
		}
		ps.populateOwners(sc, ref)
		ps.annCard.Show()

	case len(sel.ImageIDs) == 1 && len(sel.Annotations) == 0:
		im := sc.ImageByID(sel.ImageIDs[0])
		if im == nil {
			ps.header.SetText("Nothing selected")
			return
		}
		ps.header.SetText(im.Name)
		ps.posXEntry.SetText(strconv.FormatFloat(im.X, 'f', 1, 64))
		ps.posYEntry.SetText(strconv.FormatFloat(im.Y, 'f', 1, 64))
		ps.scaleEntry.SetText(strconv.FormatFloat(im.Scale, 'f', 3, 64))
		ps.rotEntry.SetText(strconv.FormatFloat(im.Rotation, 'f', 1, 64))
		if im.CropRect != nil {
			c := *im.CropRect
			ps.cropLabel.SetText(fmt.Sprintf("Crop: %.0f,%.0f %.0fx%.0f", c.X, c.Y, c.Width, c.Height))
		} else {
			ps.cropLabel.SetText("Crop: none")
		}
		ps.imageCard.Show()

	case sel.IsEmpty():
		ps.header.SetText("Nothing selected")

	default:
		ps.header.SetText(fmt.Sprintf("%d objects selected",
			len(sel.ImageIDs)+len(sel.Annotations)))
	}
}

func (ps *PropertySheet) changed() {
	ps.state.SetModified(true)
	ps.state.Emit(app.EventSceneChanged, nil)
}

func (ps *PropertySheet) selectedAnnotation() (scene.AnnotationRef, bool) {
	sel := &ps.state.Editor.Scene().Selection
	if len(sel.Annotations) != 1 {
		return scene.AnnotationRef{}, false
	}
	return sel.Annotations[0], true
}

// populateOwners fills the reparent picker: the canvas plus every image,
// with the annotation's current owner selected.
func (ps *PropertySheet) populateOwners(sc *scene.Scene, ref scene.AnnotationRef) {
	options := []string{"Canvas"}
	ps.ownerIDs = ps.ownerIDs[:0]
	current := 0
	for _, id := range sc.LayerOrder {
		im := sc.ImageByID(id)
		if im == nil {
			continue
		}
		ps.ownerIDs = append(ps.ownerIDs, im.ID)
		options = append(options, im.Name)
		if im.ID == ref.ImageID {
			current = len(options) - 1
		}
	}
	// Grouped images are not in LayerOrder directly.
	for _, gid := range sc.LayerOrder {
		for _, mid := range sc.GroupImages(gid) {
			im := sc.ImageByID(mid)
			if im == nil {
				continue
			}
			ps.ownerIDs = append(ps.ownerIDs, im.ID)
			options = append(options, im.Name)
			if im.ID == ref.ImageID {
				current = len(options) - 1
			}
		}
	}
	// Rebuild without firing the change callback.
	cb := ps.ownerSelect.OnChanged
	ps.ownerSelect.OnChanged = nil
	ps.ownerSelect.Options = options
	ps.ownerSelect.SetSelectedIndex(current)
	ps.ownerSelect.OnChanged = cb
}

func (ps *PropertySheet) reparentTo(index int) {
	ref, ok := ps.selectedAnnotation()
	if !ok || index < 0 {
		return
	}
	target := "" // index 0 is the canvas
	if index > 0 {
		if index-1 >= len(ps.ownerIDs) {
			return
		}
		target = ps.ownerIDs[index-1]
	}
	if target == ref.ImageID {
		return
	}
	if ps.state.Editor.Reparent(ref, target) {
		ps.changed()
	}
}

// applyImageEdits pushes the numeric entries back onto the selected image.
func (ps *PropertySheet) applyImageEdits() {
	sc := ps.state.Editor.Scene()
	sel := &sc.Selection
	if len(sel.ImageIDs) != 1 {
		return
	}
	id := sel.ImageIDs[0]
	x, errX := strconv.ParseFloat(ps.posXEntry.Text, 64)
	y, errY := strconv.ParseFloat(ps.posYEntry.Text, 64)
	s, errS := strconv.ParseFloat(ps.scaleEntry.Text, 64)
	r, errR := strconv.ParseFloat(ps.rotEntry.Text, 64)
	if errX != nil || errY != nil || errS != nil || errR != nil {
		ps.Refresh()
		return
	}
	if ps.state.Editor.SetImagePlacement(id, x, y, s, r) {
		ps.changed()
	}
}
