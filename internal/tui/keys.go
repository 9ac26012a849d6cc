package tui

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"scenedit/internal/export"
	"scenedit/internal/scene"
)

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if isNavigationKey(key) {
		m.handleNavigation(key, getMoveSpeed(key))
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		if m.store.Dragging() {
			m.store.CancelDrag()
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case "z":
		m.panMode = !m.panMode
	case "a", " ":
		m.store.PointerDown(m.cursorScene())
		m.store.PointerUp()
	case "m":
		m.beginKeyboardMove()
	case "d", "delete", "backspace":
		if m.store.Selected() == scene.NoSelection {
			m.errorMessage = "Nothing selected"
			break
		}
		m.store.DeleteSelected()
	case "ctrl+d":
		if m.store.Selected() == scene.NoSelection {
			m.errorMessage = "Nothing selected"
			break
		}
		m.store.DuplicateSelected()
	case "u":
		if !m.stack.CanUndo() {
			m.errorMessage = "Nothing to undo"
			break
		}
		text := m.stack.UndoText()
		m.stack.Undo()
		m.successMessage = "Undo " + text
	case "U", "ctrl+r":
		if !m.stack.CanRedo() {
			m.errorMessage = "Nothing to redo"
			break
		}
		text := m.stack.RedoText()
		m.stack.Redo()
		m.successMessage = "Redo " + text
	case "g":
		m.store.SetGridVisible(!m.store.GridVisible())
	case "G":
		m.store.SetSnapToGrid(!m.store.SnapToGrid())
		if m.store.SnapToGrid() {
			m.successMessage = "Snap to grid on"
		} else {
			m.successMessage = "Snap to grid off"
		}
	case "+", "=":
		m.store.SetGridSize(min(m.store.GridSize()+gridStep, maxGridSize))
	case "-", "_":
		m.store.SetGridSize(max(m.store.GridSize()-gridStep, gridStep))
	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "r":
		if e, ok := m.store.Entity(m.store.Selected()); ok {
			m.startInput(inputRename, e.Name())
		} else {
			m.errorMessage = "Nothing selected"
		}
	case "W":
		if e, ok := m.store.Entity(m.store.Selected()); ok {
			m.startInput(inputResize, fmt.Sprintf("%dx%d", e.Width(), e.Height()))
		} else {
			m.errorMessage = "Nothing selected"
		}
	case "C":
		if e, ok := m.store.Entity(m.store.Selected()); ok {
			c := e.Color()
			m.startInput(inputRecolor, fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B))
		} else {
			m.errorMessage = "Nothing selected"
		}
	case "c":
		m.copySelected()
	case "p":
		m.pasteAtCursor()
	case "n":
		m.newScene()
	case "s":
		m.startInput(inputSave, m.filename)
	case "o":
		m.startInput(inputOpen, "")
	case "e":
		m.startInput(inputExport, strings.TrimSuffix(m.filename, ".json"))
	case "T":
		m.startInput(inputExportText, strings.TrimSuffix(m.filename, ".json"))
	}
	return m, nil
}

// newScene starts over with an empty, unnamed scene. History is dropped
// because its commands refer to entities that no longer exist.
func (m *Model) newScene() {
	if m.store.Dragging() {
		m.store.CancelDrag()
	}
	m.store.Clear()
	m.stack.Clear()
	m.filename = ""
	m.listTop = 0
	m.successMessage = "New scene"
}

func (m *Model) cycleSelection(step int) {
	n := m.store.Len()
	if n == 0 {
		return
	}
	next := m.store.Selected() + step
	if m.store.Selected() == scene.NoSelection && step < 0 {
		next = n - 1
	}
	m.store.SetSelected((next%n + n) % n)
}

func (m *Model) beginKeyboardMove() {
	e, ok := m.store.Entity(m.store.Selected())
	if !ok {
		m.errorMessage = "Nothing selected"
		return
	}
	m.movePress = e.Position()
	m.moveOffset = image.Point{}
	if m.store.GrabSelected(m.movePress) {
		m.mode = ModeMove
	}
}

func (m *Model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case isNavigationKey(key):
		m.moveOffset = m.moveOffset.Add(direction(key).Mul(getMoveSpeed(key)))
		step := image.Pt(m.moveOffset.X*m.cfg.View.CellWidth, m.moveOffset.Y*m.cfg.View.CellHeight)
		m.store.PointerMove(m.movePress.Add(step))
	case msg.Type == tea.KeyEnter:
		m.store.PointerUp()
		m.mode = ModeNormal
	case msg.Type == tea.KeyEscape:
		m.store.CancelDrag()
		m.mode = ModeNormal
		m.successMessage = "Move cancelled"
	}
	return m, nil
}

func (m *Model) startInput(kind inputKind, initial string) {
	m.mode = ModeInput
	m.input = kind
	m.inputText = initial
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.inputText = ""
	case tea.KeyEnter:
		text := strings.TrimSpace(m.inputText)
		m.mode = ModeNormal
		m.inputText = ""
		m.submitInput(text)
	case tea.KeyBackspace:
		if r := []rune(m.inputText); len(r) > 0 {
			m.inputText = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.inputText += " "
	case tea.KeyRunes:
		m.inputText += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) submitInput(text string) {
	selected := m.store.Selected()

	switch m.input {
	case inputRename:
		if text == "" {
			m.errorMessage = "Name cannot be empty"
			return
		}
		m.store.Rename(selected, text)
	case inputResize:
		w, h, err := parseSize(text)
		if err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.store.Resize(selected, clampSize(w), clampSize(h))
	case inputRecolor:
		c, err := parseColor(text)
		if err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.store.Recolor(selected, c)
	case inputSave:
		m.save(text)
	case inputOpen:
		m.open(text)
	case inputExport:
		m.exportPNG(text)
	case inputExportText:
		m.exportText(text)
	}
}

func (m *Model) save(name string) {
	if name == "" {
		m.errorMessage = "Filename cannot be empty"
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}
	path := m.cfg.GetSavePath(name)
	if err := m.store.SaveToFile(path); err != nil {
		m.errorMessage = fmt.Sprintf("Error saving: %v", err)
		return
	}
	m.stack.SetClean()
	m.filename = name
	m.successMessage = "Saved to " + path
}

func (m *Model) open(name string) {
	if name == "" {
		m.errorMessage = "Filename cannot be empty"
		return
	}
	path := m.cfg.GetSavePath(name)
	if err := m.store.LoadFromFile(path); err != nil {
		m.errorMessage = fmt.Sprintf("Error loading: %v", err)
		return
	}
	// Loading is not a command and leaves history alone; only the clean
	// marker moves.
	m.stack.SetClean()
	m.listTop = 0
	m.filename = filepath.Base(name)
	m.successMessage = fmt.Sprintf("Loaded %d entities from %s", m.store.Len(), path)
}

func (m *Model) exportPNG(name string) {
	if name == "" {
		m.errorMessage = "Filename cannot be empty"
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		name += ".png"
	}
	path := m.cfg.GetSavePath(name)
	if err := export.SavePNG(path, m.store); err != nil {
		m.log.Warn("png export failed", zap.String("path", path), zap.Error(err))
		m.errorMessage = fmt.Sprintf("Error exporting: %v", err)
		return
	}
	m.successMessage = "Exported to " + path
}

// exportText writes the canvas as it appears on screen, without the cursor.
func (m *Model) exportText(name string) {
	if name == "" {
		m.errorMessage = "Filename cannot be empty"
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), ".txt") {
		name += ".txt"
	}
	path := m.cfg.GetSavePath(name)
	if err := writeLines(path, m.plainCanvas(m.canvasWidth(), m.canvasHeight())); err != nil {
		m.errorMessage = fmt.Sprintf("Error exporting: %v", err)
		return
	}
	m.successMessage = "Exported to " + path
}

func writeLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			file.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// parseSize accepts "WxH", "W H" or "W,H".
func parseSize(text string) (int, int, error) {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == 'x' || r == ',' || r == ' '
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("size must look like WxH")
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", fields[0])
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", fields[1])
	}
	return w, h, nil
}

func clampSize(v int) int {
	return min(max(v, minEntitySize), maxEntitySize)
}

// parseColor accepts "r,g,b" with channels in 0..255 or "#rrggbb".
func parseColor(text string) (color.RGBA, error) {
	if hex, ok := strings.CutPrefix(text, "#"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("invalid color %q", text)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}

	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 3 {
		return color.RGBA{}, fmt.Errorf("color must look like r,g,b")
	}
	var ch [3]uint8
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("invalid color channel %q", f)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}
