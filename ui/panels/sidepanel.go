package panels

import (
	"canvas-composer/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel groups the tool, layer and property panels into tabs.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	toolsPanel  *ToolsPanel
	layersPanel *LayersPanel
	propSheet   *PropertySheet
}

// NewSidePanel creates the side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.toolsPanel = NewToolsPanel(state)
	sp.layersPanel = NewLayersPanel(state)
	sp.propSheet = NewPropertySheet(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Tools", sp.toolsPanel.Container()),
		container.NewTabItem("Layers", sp.layersPanel.Container()),
		container.NewTabItem("Properties", sp.propSheet.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}
