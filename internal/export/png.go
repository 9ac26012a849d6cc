package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"scenedit/internal/scene"
)

var (
	ErrEmptyScene    = errors.New("nothing to export")
	ErrSceneTooLarge = errors.New("scene too large to export")
)

var (
	background = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	gridLine   = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	highlight  = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

const (
	padding = 20

	// An RGBA image of maxPixels takes 256 MiB.
	maxSide   = 16384
	maxPixels = 8192 * 8192
)

// Render draws the scene in z-order onto an image just large enough to hold
// every entity plus a margin. The selected entity gets a highlight frame.
func Render(s *scene.Store) (image.Image, error) {
	dc, err := draw(s)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func WritePNG(w io.Writer, s *scene.Store) error {
	dc, err := draw(s)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func SavePNG(path string, s *scene.Store) error {
	dc, err := draw(s)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

// Extent is the union of all entity bounds.
func Extent(s *scene.Store) image.Rectangle {
	var r image.Rectangle
	for i := 0; i < s.Len(); i++ {
		e, _ := s.Entity(i)
		r = r.Union(e.Bounds())
	}
	return r
}

func draw(s *scene.Store) (*gg.Context, error) {
	if s.Len() == 0 {
		return nil, ErrEmptyScene
	}
	area := Extent(s).Inset(-padding)
	if area.Dx() > maxSide || area.Dy() > maxSide || area.Dx()*area.Dy() > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrSceneTooLarge, area.Dx(), area.Dy())
	}

	dc := gg.NewContext(area.Dx(), area.Dy())
	dc.SetColor(background)
	dc.Clear()

	face, err := loadFace()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	if g := s.Grid(); g.Visible {
		drawGrid(dc, area, g.Size)
	}

	for i := 0; i < s.Len(); i++ {
		e, _ := s.Entity(i)
		drawEntity(dc, e, area.Min, i == s.Selected())
	}
	return dc, nil
}

// drawGrid draws grid lines at scene multiples of size so exported images
// line up with snapped positions.
func drawGrid(dc *gg.Context, area image.Rectangle, size int) {
	if size < 4 {
		return
	}
	dc.SetColor(gridLine)
	dc.SetLineWidth(1)
	for x := firstLine(area.Min.X, size); x < area.Max.X; x += size {
		px := float64(x - area.Min.X)
		dc.DrawLine(px, 0, px, float64(area.Dy()))
	}
	for y := firstLine(area.Min.Y, size); y < area.Max.Y; y += size {
		py := float64(y - area.Min.Y)
		dc.DrawLine(0, py, float64(area.Dx()), py)
	}
	dc.Stroke()
}

func firstLine(from, size int) int {
	line := (from / size) * size
	if line < from {
		line += size
	}
	return line
}

func drawEntity(dc *gg.Context, e scene.Entity, origin image.Point, selected bool) {
	b := e.Bounds().Sub(origin)
	x, y := float64(b.Min.X), float64(b.Min.Y)
	w, h := float64(b.Dx()), float64(b.Dy())

	dc.DrawRectangle(x, y, w, h)
	dc.SetColor(e.Color())
	dc.FillPreserve()
	dc.SetColor(Darker(e.Color(), 120))
	if selected {
		dc.SetLineWidth(4)
	} else {
		dc.SetLineWidth(2)
	}
	dc.Stroke()

	if selected {
		dc.SetColor(highlight)
		dc.SetLineWidth(3)
		dc.DrawRectangle(x-2, y-2, w+4, h+4)
		dc.Stroke()
	}

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(e.Name(), x+w/2, y+h/2, 0.5, 0.5)
}

// Darker scales each channel by 100/factor; factor 120 gives the border
// shade used for entity outlines.
func Darker(c color.RGBA, factor int) color.RGBA {
	if factor <= 0 {
		return c
	}
	scale := func(v uint8) uint8 { return uint8(int(v) * 100 / factor) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

func loadFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
