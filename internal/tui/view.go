package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

func (m *Model) View() string {
	if m.help {
		return m.helpView()
	}

	canvas := m.renderCanvas(m.canvasWidth(), m.canvasHeight())
	body := canvas
	if m.width > panelWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panelView())
	}
	return body + "\n" + m.statusLine()
}

func (m *Model) panelView() string {
	inner := panelWidth - 4
	var b strings.Builder

	b.WriteString(titleStyle.Render("Objects"))
	b.WriteString("\n")
	n := m.store.Len()
	if n == 0 {
		b.WriteString(dimStyle.Render("(empty)"))
		b.WriteString("\n")
	}
	for i := m.listTop; i < n && i < m.listTop+m.listRows; i++ {
		e, _ := m.store.Entity(i)
		line := truncate(e.Name(), inner-2)
		if i == m.store.Selected() {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Inspector"))
	b.WriteString("\n")
	if e, ok := m.store.Entity(m.store.Selected()); ok {
		c := e.Color()
		fmt.Fprintf(&b, "Name:  %s\n", truncate(e.Name(), inner-7))
		fmt.Fprintf(&b, "ID:    %d\n", e.ID())
		fmt.Fprintf(&b, "X:     %d\n", e.Position().X)
		fmt.Fprintf(&b, "Y:     %d\n", e.Position().Y)
		fmt.Fprintf(&b, "Size:  %dx%d\n", e.Width(), e.Height())
		fmt.Fprintf(&b, "Color: %d,%d,%d ", c.R, c.G, c.B)
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hexColor(c))).Render("  "))
		b.WriteString("\n")
	} else {
		b.WriteString(dimStyle.Render("No selection"))
		b.WriteString("\n")
	}

	g := m.store.Grid()
	grid := fmt.Sprintf("Grid %d", g.Size)
	if !g.Visible {
		grid += " hidden"
	}
	if g.Snap {
		grid += " snap"
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(grid))

	return panelStyle.
		Width(panelWidth - 2).
		Height(max(m.canvasHeight()-2, 1)).
		Render(b.String())
}

func (m *Model) statusLine() string {
	if m.mode == ModeInput {
		return fmt.Sprintf("%s: %s█", m.inputPrompt(), m.inputText)
	}

	var left string
	switch {
	case m.errorMessage != "":
		left = errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		left = successStyle.Render(m.successMessage)
	case m.mode == ModeMove:
		left = "-- MOVE -- arrows move, Enter drops, Esc cancels"
	default:
		left = "-- " + m.modeString() + " -- ? for help"
	}

	parts := []string{}
	if text := m.stack.UndoText(); text != "" {
		parts = append(parts, "undo: "+text)
	}
	if text := m.stack.RedoText(); text != "" {
		parts = append(parts, "redo: "+text)
	}
	name := m.filename
	if name == "" {
		name = "untitled"
	}
	if m.modified() {
		name += " [+]"
	}
	parts = append(parts, name)
	right := statusStyle.Render(strings.Join(parts, " | "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) inputPrompt() string {
	switch m.input {
	case inputRename:
		return "Rename"
	case inputResize:
		return "Size (WxH)"
	case inputRecolor:
		return "Color (r,g,b)"
	case inputSave:
		return "Save as"
	case inputOpen:
		return "Open"
	case inputExport:
		return "Export PNG"
	case inputExportText:
		return "Export text"
	}
	return ""
}

func (m *Model) helpView() string {
	lines := []string{
		titleStyle.Render("scenedit keys"),
		"",
		"  arrows, hjkl    move cursor (shift moves faster)",
		"  z               toggle pan mode",
		"  a, space        select entity at cursor, or add one",
		"  mouse           click to select or add, drag to move",
		"  m               move selection (Enter drops, Esc cancels)",
		"  tab, shift+tab  cycle selection",
		"  d, Delete       delete selection",
		"  ctrl+d          duplicate selection",
		"  u, U            undo, redo",
		"  r               rename selection",
		"  W               resize selection",
		"  C               recolor selection",
		"  c, p            copy, paste through the clipboard",
		"  g, G            toggle grid, toggle snapping",
		"  +, -            grow, shrink grid",
		"  n               new scene (clears history)",
		"  s, o            save, open",
		"  e, T            export PNG, export text snapshot",
		"  q               quit",
		"",
		dimStyle.Render("Press ? or Esc to close"),
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 1 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
