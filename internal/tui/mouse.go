package tui

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"
)

// handleMouse turns terminal mouse events into pointer gestures. Drag state
// is tracked here because terminals differ in whether a held button reports
// motion or repeated presses.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	cell := image.Pt(msg.X, msg.Y)
	p := m.cellToScene(cell)

	switch msg.Type {
	case tea.MouseLeft:
		if m.mouseDown {
			m.store.PointerMove(p)
			return
		}
		if !m.inCanvas(cell) {
			return
		}
		m.mouseDown = true
		m.cursor = cell
		m.store.PointerDown(p)
	case tea.MouseMotion:
		if m.mouseDown {
			m.store.PointerMove(p)
		}
	case tea.MouseRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.store.PointerUp()
		}
	}
}

func (m *Model) inCanvas(cell image.Point) bool {
	return cell.In(image.Rect(0, 0, m.canvasWidth(), m.canvasHeight()))
}
