package tui

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"scenedit/internal/scene"
)

var (
	writeClipboard = clipboard.WriteAll
	readClipboard  = readClipboardText
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// copySelected puts the selected entity's scene-file record on the clipboard.
func (m *Model) copySelected() {
	e, ok := m.store.Entity(m.store.Selected())
	if !ok {
		m.errorMessage = "Nothing selected"
		return
	}
	data, err := scene.MarshalEntity(e)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error copying: %v", err)
		return
	}
	if err := writeClipboard(string(data)); err != nil {
		m.errorMessage = fmt.Sprintf("Error copying: %v", err)
		return
	}
	m.successMessage = "Copied " + e.Name()
}

// pasteAtCursor adds the clipboard's entity record at the cursor as a new
// entity with a fresh id.
func (m *Model) pasteAtCursor() {
	text, err := readClipboard()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error reading clipboard: %v", err)
		return
	}
	e, err := scene.UnmarshalEntity([]byte(text))
	if err != nil {
		m.errorMessage = "Clipboard does not hold an entity"
		return
	}
	if m.store.Paste(e, m.store.Snap(m.cursorScene())) == scene.NoSelection {
		m.errorMessage = "Paste failed"
		return
	}
	m.successMessage = "Pasted " + e.Name()
}
