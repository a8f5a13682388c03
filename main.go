// Package main provides the entry point for the Canvas Composer application.
package main

import (
	"log"
	"os"

	"canvas-composer/internal/app"
	"canvas-composer/internal/version"
	"canvas-composer/ui/mainwindow"
	"canvas-composer/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Canvas Composer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.canvascomposer.app")

	appState := app.NewState()
	appPrefs := prefs.Load()
	fyneApp.Settings().SetTheme(app.NewComposerTheme(appPrefs.Snapshot().Theme))

	win := mainwindow.New(fyneApp, appState, appPrefs)
	win.ApplyPrefs()

	// A project path on the command line is opened at startup.
	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := appState.LoadProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	}

	win.ShowAndRun()
}
