// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ExportDialog asks for the pixel scale before a PNG export.
type ExportDialog struct {
	window fyne.Window

	scaleEntry *widget.Entry

	onExport func(pixelScale float64)
}

// NewExportDialog creates a new export dialog. onExport runs when the user
// confirms with a valid scale.
func NewExportDialog(window fyne.Window, onExport func(pixelScale float64)) *ExportDialog {
	return &ExportDialog{
		window:   window,
		onExport: onExport,
	}
}

// Show displays the dialog.
func (d *ExportDialog) Show() {
	d.scaleEntry = widget.NewEntry()
	d.scaleEntry.SetText("1.0")

	content := container.NewVBox(
		widget.NewLabel("Pixels per canvas unit:"),
		d.scaleEntry,
		widget.NewLabel("2.0 doubles the output resolution."),
	)

	dlg := dialog.NewCustomConfirm(
		"Export PNG",
		"Export",
		"Cancel",
		content,
		func(export bool) {
			if !export {
				return
			}
			scale, err := strconv.ParseFloat(d.scaleEntry.Text, 64)
			if err != nil || scale <= 0 {
				dialog.ShowError(errInvalidScale, d.window)
				return
			}
			if d.onExport != nil {
				d.onExport(scale)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(320, 180))
	dlg.Show()
}

var errInvalidScale = errors.New("pixel scale must be a positive number")
