// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"time"

	"canvas-composer/internal/app"
	"canvas-composer/internal/engine"
	"canvas-composer/internal/version"
	"canvas-composer/ui/canvas"
	"canvas-composer/ui/dialogs"
	"canvas-composer/ui/panels"
	"canvas-composer/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// ProjectExt is the file extension for saved projects.
const ProjectExt = ".ccproj"

const prefKeyLastDir = "lastDirectory"

// sourceCheckInterval is how often edited source images are re-checked
// on disk.
const sourceCheckInterval = 2 * time.Second

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.EditorCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	watcher   *app.SourceWatcher

	undoItem *fyne.MenuItem
	redoItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Canvas Composer")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.startWatcher()

	cfg := p.Snapshot()
	win.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	win.SetOnClosed(func() {
		mw.watcher.Stop()
		mw.savePrefs()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewEditorCanvas(mw.state)
	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil, nil, nil,
		mw.canvas,
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.canvas.FitScene)

	addBtn := widget.NewButton("Add Image...", mw.onAddImage)

	return container.NewHBox(
		addBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	recentItems := mw.recentProjectItems()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Image...", mw.onAddImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
	)
	if len(recentItems) > 0 {
		fileMenu.Items = append(fileMenu.Items, fyne.NewMenuItemSeparator())
		fileMenu.Items = append(fileMenu.Items, recentItems...)
	}
	fileMenu.Items = append(fileMenu.Items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.undoItem = fyne.NewMenuItem("Undo", mw.onUndo)
	mw.redoItem = fyne.NewMenuItem("Redo", mw.onRedo)

	editMenu := fyne.NewMenu("Edit",
		mw.undoItem,
		mw.redoItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete", mw.onDelete),
		fyne.NewMenuItem("Duplicate", mw.onDuplicate),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Group", mw.onGroup),
		fyne.NewMenuItem("Ungroup", mw.onUngroup),
	)

	layerMenu := fyne.NewMenu("Layer",
		fyne.NewMenuItem("Raise", func() { mw.layerOp(mw.state.Editor.RaiseSelection) }),
		fyne.NewMenuItem("Lower", func() { mw.layerOp(mw.state.Editor.LowerSelection) }),
		fyne.NewMenuItem("Bring to Front", func() { mw.layerOp(mw.state.Editor.SelectionToFront) }),
		fyne.NewMenuItem("Send to Back", func() { mw.layerOp(mw.state.Editor.SelectionToBack) }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit Scene", mw.canvas.FitScene),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, layerMenu, viewMenu, helpMenu))
}

// setupShortcuts wires the keyboard shortcuts.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()

	add := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	add(fyne.KeyZ, fyne.KeyModifierControl, mw.onUndo)
	add(fyne.KeyZ, fyne.KeyModifierControl|fyne.KeyModifierShift, mw.onRedo)
	add(fyne.KeyY, fyne.KeyModifierControl, mw.onRedo)
	add(fyne.KeyS, fyne.KeyModifierControl, mw.onSaveProject)
	add(fyne.KeyO, fyne.KeyModifierControl, mw.onOpenProject)
	add(fyne.KeyD, fyne.KeyModifierControl, mw.onDuplicate)
	add(fyne.KeyG, fyne.KeyModifierControl, mw.onGroup)
	add(fyne.KeyG, fyne.KeyModifierControl|fyne.KeyModifierShift, mw.onUngroup)
	add(fyne.Key0, fyne.KeyModifierControl, mw.canvas.FitScene)

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			mw.canvas.CancelActiveGesture()
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.onDelete()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.prefs.AddRecentProject(path)
			mw.updateStatus("Project loaded: " + path)
		}
		mw.refreshTitle()
		mw.canvas.FitScene()
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.prefs.AddRecentProject(path)
			mw.updateStatus("Saved " + filepath.Base(path))
		}
		mw.refreshTitle()
	})

	mw.state.On(app.EventImageAdded, func(interface{}) {
		mw.canvas.Refresh()
		mw.updateStatus("Image added")
	})

	mw.state.On(app.EventSceneChanged, func(interface{}) {
		mw.canvas.Refresh()
		mw.refreshUndoLabels()
		mw.refreshTitle()
	})

	mw.state.On(app.EventSelectionChanged, func(interface{}) {
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventModified, func(interface{}) {
		mw.refreshTitle()
	})

	mw.canvas.OnChanged(func() {
		mw.refreshUndoLabels()
	})
}

// startWatcher begins polling source images for on-disk edits.
func (mw *MainWindow) startWatcher() {
	mw.watcher = app.NewSourceWatcher(mw.state, sourceCheckInterval)
	mw.watcher.OnChanged(func(paths []string) {
		mw.canvas.Refresh()
		if len(paths) == 1 {
			mw.updateStatus("Reloaded " + filepath.Base(paths[0]))
		} else {
			mw.updateStatus(fmt.Sprintf("Reloaded %d source images", len(paths)))
		}
	})
	mw.watcher.Start()
}

func (mw *MainWindow) savePrefs() {
	sz := mw.Canvas().Size()
	style := mw.state.Editor.Style()
	mw.prefs.Update(func(c *prefs.Config) {
		c.WindowWidth = float64(sz.Width)
		c.WindowHeight = float64(sz.Height)
		c.DefaultColor = style.Color
		c.DefaultStrokeWidth = style.StrokeWidth
		c.DefaultFontSize = style.FontSize
	})
	if err := mw.prefs.Save(); err != nil {
		fmt.Printf("failed to save preferences: %v\n", err)
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) refreshTitle() {
	title := "Canvas Composer - " + mw.state.Name()
	if mw.state.Modified {
		title += " *"
	}
	mw.SetTitle(title)
}

func (mw *MainWindow) refreshUndoLabels() {
	ed := mw.state.Editor
	if label := ed.UndoLabel(); label != "" {
		mw.undoItem.Label = "Undo " + label
		mw.undoItem.Disabled = false
	} else {
		mw.undoItem.Label = "Undo"
		mw.undoItem.Disabled = true
	}
	if label := ed.RedoLabel(); label != "" {
		mw.redoItem.Label = "Redo " + label
		mw.redoItem.Disabled = false
	} else {
		mw.redoItem.Label = "Redo"
		mw.redoItem.Disabled = true
	}
}

func (mw *MainWindow) recentProjectItems() []*fyne.MenuItem {
	var items []*fyne.MenuItem
	for _, path := range mw.prefs.Snapshot().RecentProjects {
		path := path
		items = append(items, fyne.NewMenuItem(filepath.Base(path), func() {
			mw.openProject(path)
		}))
	}
	return items
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onNewProject() {
	mw.state.Reset()
	mw.canvas.Refresh()
	mw.refreshTitle()
	mw.refreshUndoLabels()
	mw.updateStatus("New project")
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.openProject(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{ProjectExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) openProject(path string) {
	mw.saveLastDir(path)
	if err := mw.state.LoadProject(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onAddImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.AddImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ProjectExt {
			path += ProjectExt
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("composition" + ProjectExt)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	dialogs.NewExportDialog(mw.Window, func(pixelScale float64) {
		fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			writer.Close()
			path := writer.URI().Path()
			if filepath.Ext(path) != ".png" {
				path += ".png"
			}
			mw.saveLastDir(path)
			if err := mw.state.ExportPNG(path, pixelScale); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.updateStatus("Exported " + filepath.Base(path))
		}, mw.Window)
		fd.SetFileName("composition.png")
		if loc := mw.getLastDir(); loc != nil {
			fd.SetLocation(loc)
		}
		fd.Show()
	}).Show()
}

func (mw *MainWindow) onUndo() {
	if mw.state.Editor.Undo() {
		mw.sceneChanged()
	}
}

func (mw *MainWindow) onRedo() {
	if mw.state.Editor.Redo() {
		mw.sceneChanged()
	}
}

func (mw *MainWindow) onDelete() {
	if mw.state.Editor.DeleteSelection() {
		mw.sceneChanged()
	}
}

func (mw *MainWindow) onDuplicate() {
	if mw.state.Editor.DuplicateSelection() {
		mw.sceneChanged()
	}
}

func (mw *MainWindow) onGroup() {
	if mw.state.Editor.GroupSelection("Group") {
		mw.sceneChanged()
	}
}

func (mw *MainWindow) onUngroup() {
	if mw.state.Editor.UngroupSelection() {
		mw.sceneChanged()
	}
}

func (mw *MainWindow) layerOp(op func() bool) {
	if op() {
		mw.sceneChanged()
	}
}

func (mw *MainWindow) sceneChanged() {
	mw.state.SetModified(true)
	mw.state.Emit(app.EventSceneChanged, nil)
}

// ApplyPrefs pushes preference defaults into the editor style.
func (mw *MainWindow) ApplyPrefs() {
	cfg := mw.prefs.Snapshot()
	mw.state.Editor.SetStyle(engine.Style{
		Color:       cfg.DefaultColor,
		StrokeWidth: cfg.DefaultStrokeWidth,
		FontSize:    cfg.DefaultFontSize,
	})
	mw.state.Editor.SetCropAspect(cfg.CropAspect)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Canvas Composer",
		fmt.Sprintf("Canvas Composer v%s\n\n"+
			"A layered image composition and annotation editor.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
