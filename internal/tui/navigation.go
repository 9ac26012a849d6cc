package tui

import "image"

func (m *Model) handleNavigation(key string, speed int) {
	if m.panMode {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

func (m *Model) handlePan(key string, speed int) {
	m.pan = m.pan.Add(direction(key).Mul(speed))
}

func (m *Model) handleCursorMove(key string, speed int) {
	m.cursor = m.cursor.Add(direction(key).Mul(speed))
	m.ensureCursorInBounds()
}

func direction(key string) image.Point {
	switch key {
	case "h", "left", "H", "shift+left":
		return image.Pt(-1, 0)
	case "l", "right", "L", "shift+right":
		return image.Pt(1, 0)
	case "k", "up", "K", "shift+up":
		return image.Pt(0, -1)
	case "j", "down", "J", "shift+down":
		return image.Pt(0, 1)
	}
	return image.Point{}
}

func isNavigationKey(key string) bool {
	return direction(key) != image.Point{}
}

func getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
