package scene

import (
	"fmt"
	"image"
	"image/color"
)

const (
	DefaultWidth  = 60
	DefaultHeight = 60
)

var DefaultColor = color.RGBA{R: 100, G: 150, B: 255, A: 255}

// Entity is a named, colored rectangle placed on the scene. Bounds are derived
// from position and size, so they always agree with both.
type Entity struct {
	id       int
	name     string
	position image.Point
	size     image.Point
	color    color.RGBA
}

func NewEntity(id int, name string, position image.Point) Entity {
	return Entity{
		id:       id,
		name:     name,
		position: position,
		size:     image.Pt(DefaultWidth, DefaultHeight),
		color:    DefaultColor,
	}
}

func (e Entity) ID() int               { return e.id }
func (e Entity) Name() string          { return e.name }
func (e Entity) Position() image.Point { return e.position }
func (e Entity) Width() int            { return e.size.X }
func (e Entity) Height() int           { return e.size.Y }
func (e Entity) Color() color.RGBA     { return e.color }

func (e Entity) Bounds() image.Rectangle {
	return image.Rectangle{Min: e.position, Max: e.position.Add(e.size)}
}

func (e Entity) Contains(p image.Point) bool {
	return p.In(e.Bounds())
}

func (e *Entity) SetName(name string) {
	e.name = name
}

func (e *Entity) SetPosition(p image.Point) {
	e.position = p
}

func (e *Entity) SetSize(width, height int) {
	e.size = image.Pt(max(width, 1), max(height, 1))
}

func (e *Entity) SetColor(c color.RGBA) {
	c.A = 255
	e.color = c
}

func (e Entity) String() string {
	return fmt.Sprintf("%d: %s", e.id, e.name)
}

func entityName(id int) string {
	return fmt.Sprintf("Entity_%d", id)
}

func copyName(name string) string {
	return fmt.Sprintf("%s (Copy)", name)
}
