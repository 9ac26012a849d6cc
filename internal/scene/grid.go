package scene

import "image"

const DefaultGridSize = 20

type Grid struct {
	Visible bool
	Size    int
	Snap    bool
}

func DefaultGrid() Grid {
	return Grid{Visible: true, Size: DefaultGridSize}
}

// Snap truncates p toward zero onto the grid. It does not round to the
// nearest line, so negative coordinates move toward the origin.
func Snap(p image.Point, size int) image.Point {
	if size < 1 {
		return p
	}
	return image.Pt((p.X/size)*size, (p.Y/size)*size)
}

func (g Grid) Apply(p image.Point) image.Point {
	if !g.Snap {
		return p
	}
	return Snap(p, g.Size)
}

func clampGridSize(size int) int {
	if size < 1 {
		return 1
	}
	return size
}
