package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scenedit/internal/scene"
)

const (
	ownerNone   = -1
	ownerGrid   = -2
	ownerCursor = -3
)

type cell struct {
	r     rune
	owner int
	fill  bool
}

var (
	gridStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

func (m *Model) renderCanvas(width, height int) string {
	cells := m.rasterize(width, height, m.mode != ModeInput)
	styles := m.entityStyles()
	lines := make([]string, height)
	for y, row := range cells {
		lines[y] = renderRow(row, styles)
	}
	return strings.Join(lines, "\n")
}

// plainCanvas is the unstyled view without the cursor.
func (m *Model) plainCanvas(width, height int) []string {
	cells := m.rasterize(width, height, false)
	lines := make([]string, height)
	for y, row := range cells {
		runes := make([]rune, len(row))
		for x, c := range row {
			runes[x] = c.r
		}
		lines[y] = strings.TrimRight(string(runes), " ")
	}
	return lines
}

// rasterize draws the visible part of the scene into terminal cells.
// Entities are drawn in z-order so later ones cover earlier ones.
func (m *Model) rasterize(width, height int, showCursor bool) [][]cell {
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' ', owner: ownerNone}
		}
	}

	if m.store.GridVisible() {
		m.drawGrid(cells)
	}
	for i, e := range m.store.Entities() {
		m.drawEntity(cells, e, i, i == m.store.Selected())
	}
	if showCursor && m.cursor.In(image.Rect(0, 0, width, height)) {
		cells[m.cursor.Y][m.cursor.X] = cell{r: '█', owner: ownerCursor}
	}
	return cells
}

// drawGrid marks every cell that contains a grid intersection.
func (m *Model) drawGrid(cells [][]cell) {
	size := m.store.GridSize()
	cw, ch := m.cfg.View.CellWidth, m.cfg.View.CellHeight
	for y := range cells {
		sy := (y + m.pan.Y) * ch
		if !spansLine(sy, ch, size) {
			continue
		}
		for x := range cells[y] {
			sx := (x + m.pan.X) * cw
			if spansLine(sx, cw, size) {
				cells[y][x] = cell{r: '·', owner: ownerGrid}
			}
		}
	}
}

// spansLine reports whether [from, from+span) contains a multiple of size.
func spansLine(from, span, size int) bool {
	return floorDiv(from+span-1, size) > floorDiv(from-1, size)
}

func (m *Model) cellRect(b image.Rectangle) image.Rectangle {
	cw, ch := m.cfg.View.CellWidth, m.cfg.View.CellHeight
	r := image.Rect(
		floorDiv(b.Min.X, cw), floorDiv(b.Min.Y, ch),
		ceilDiv(b.Max.X, cw), ceilDiv(b.Max.Y, ch),
	)
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	return r.Sub(m.pan)
}

func (m *Model) drawEntity(cells [][]cell, e scene.Entity, index int, isSelected bool) {
	r := m.cellRect(e.Bounds())

	var corner, horizontal, vertical rune
	if isSelected {
		corner = '#'
		horizontal = '#'
		vertical = '#'
	} else {
		corner = '+'
		horizontal = '-'
		vertical = '|'
	}

	for y := max(r.Min.Y, 0); y < r.Max.Y && y < len(cells); y++ {
		for x := max(r.Min.X, 0); x < r.Max.X && x < len(cells[y]); x++ {
			c := cell{r: ' ', owner: index, fill: true}
			top, bottom := y == r.Min.Y, y == r.Max.Y-1
			left, right := x == r.Min.X, x == r.Max.X-1
			switch {
			case (top || bottom) && (left || right):
				c = cell{r: corner, owner: index}
			case top || bottom:
				c = cell{r: horizontal, owner: index}
			case left || right:
				c = cell{r: vertical, owner: index}
			}
			cells[y][x] = c
		}
	}

	textY := r.Min.Y + 1
	if textY >= r.Max.Y-1 || textY < 0 || textY >= len(cells) {
		return
	}
	maxWidth := r.Dx() - 2
	name := []rune(e.Name())
	if len(name) > maxWidth {
		name = name[:max(maxWidth, 0)]
	}
	for i, ch := range name {
		x := r.Min.X + 1 + i
		if x >= 0 && x < len(cells[textY]) {
			cells[textY][x] = cell{r: ch, owner: index, fill: true}
		}
	}
}

type entityStyle struct {
	border lipgloss.Style
	fill   lipgloss.Style
}

func (m *Model) entityStyles() []entityStyle {
	entities := m.store.Entities()
	styles := make([]entityStyle, len(entities))
	for i, e := range entities {
		c := lipgloss.Color(hexColor(e.Color()))
		styles[i] = entityStyle{
			border: lipgloss.NewStyle().Foreground(c).Bold(i == m.store.Selected()),
			fill:   lipgloss.NewStyle().Background(c).Foreground(lipgloss.Color("0")),
		}
	}
	return styles
}

// renderRow styles runs of cells that share an owner.
func renderRow(row []cell, styles []entityStyle) string {
	var b strings.Builder
	for start := 0; start < len(row); {
		end := start + 1
		for end < len(row) && row[end].owner == row[start].owner && row[end].fill == row[start].fill {
			end++
		}
		var run strings.Builder
		for _, c := range row[start:end] {
			run.WriteRune(c.r)
		}
		b.WriteString(styleFor(row[start], styles).Render(run.String()))
		start = end
	}
	return b.String()
}

func styleFor(c cell, styles []entityStyle) lipgloss.Style {
	switch {
	case c.owner == ownerGrid:
		return gridStyle
	case c.owner == ownerCursor:
		return cursorStyle
	case c.owner >= 0 && c.owner < len(styles):
		if c.fill {
			return styles[c.owner].fill
		}
		return styles[c.owner].border
	}
	return lipgloss.NewStyle()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
