package scene

import (
	"image"
	"image/color"

	"go.uber.org/zap"
)

// NoSelection marks an empty selection and is returned by lookups that miss.
const NoSelection = -1

// Store owns the ordered entity list. Order is z-order: later entities draw on
// top and win hit tests. The selection is an index that every structural
// mutation keeps valid.
type Store struct {
	entities []Entity
	nextID   int
	selected int
	grid     Grid

	stack *Stack
	drag  gesture

	listeners    []listener
	nextListener int

	log *zap.Logger
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func WithGrid(g Grid) Option {
	return func(s *Store) {
		g.Size = clampGridSize(g.Size)
		s.grid = g
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		entities: make([]Entity, 0),
		nextID:   1,
		selected: NoSelection,
		grid:     DefaultGrid(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Len() int {
	return len(s.entities)
}

func (s *Store) NextID() int {
	return s.nextID
}

// Entity returns a copy of the entity at index.
func (s *Store) Entity(index int) (Entity, bool) {
	if index < 0 || index >= len(s.entities) {
		return Entity{}, false
	}
	return s.entities[index], true
}

// MutableEntity returns a pointer into the store, or nil when index is out of
// range. The pointer must not be kept across a structural mutation.
func (s *Store) MutableEntity(index int) *Entity {
	if index < 0 || index >= len(s.entities) {
		return nil
	}
	return &s.entities[index]
}

// Entities returns a copy of the entity list in z-order.
func (s *Store) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *Store) Selected() int {
	return s.selected
}

func (s *Store) SetSelected(index int) {
	if index < NoSelection || index >= len(s.entities) {
		index = NoSelection
	}
	if s.selected != index {
		s.selected = index
		s.emit(SelectionChanged, index)
	}
}

func (s *Store) AddEntityAt(position image.Point) int {
	entity := NewEntity(s.nextID, entityName(s.nextID), position)
	s.nextID++

	index := len(s.entities)
	s.entities = append(s.entities, entity)
	s.selected = index

	s.emit(EntityAdded, index)
	s.emit(SelectionChanged, s.selected)
	return index
}

func (s *Store) RemoveEntityAt(index int) {
	if index < 0 || index >= len(s.entities) {
		return
	}
	s.entities = append(s.entities[:index], s.entities[index+1:]...)

	if s.selected == index {
		s.selected = NoSelection
	} else if s.selected > index {
		s.selected--
	}

	s.emit(EntityRemoved, index)
	s.emit(SelectionChanged, s.selected)
}

// InsertEntity places entity at index, clamped to [0, Len()], and returns the
// index actually used. A selection at or above that slot shifts up with it.
func (s *Store) InsertEntity(entity Entity, index int) int {
	index = min(max(index, 0), len(s.entities))

	s.entities = append(s.entities, Entity{})
	copy(s.entities[index+1:], s.entities[index:])
	s.entities[index] = entity

	if s.selected >= index {
		s.selected++
	}

	s.emit(EntityAdded, index)
	s.emit(SelectionChanged, s.selected)
	return index
}

// Clear empties the scene and restarts id allocation. Removals are reported
// from the last index down so every index stays valid when delivered.
func (s *Store) Clear() {
	s.drag = gesture{}
	hadSelection := s.selected != NoSelection
	s.selected = NoSelection
	for i := len(s.entities) - 1; i >= 0; i-- {
		s.entities = s.entities[:i]
		s.emit(EntityRemoved, i)
	}
	s.nextID = 1
	if hadSelection {
		s.emit(SelectionChanged, NoSelection)
	}
}

// FindEntityAt returns the topmost entity containing p.
func (s *Store) FindEntityAt(p image.Point) int {
	for i := len(s.entities) - 1; i >= 0; i-- {
		if s.entities[i].Contains(p) {
			return i
		}
	}
	return NoSelection
}

func (s *Store) DuplicateSelected() {
	source, ok := s.Entity(s.selected)
	if !ok {
		return
	}
	offset := source.Position().Add(image.Pt(source.Width()+10, 0))
	s.addCopy(source, s.Snap(offset), copyName(source.Name()))
}

// Paste adds a copy of entity at position, keeping its name, color and size
// but taking a fresh id.
func (s *Store) Paste(entity Entity, position image.Point) int {
	return s.addCopy(entity, position, entity.Name())
}

func (s *Store) addCopy(source Entity, position image.Point, name string) int {
	before := len(s.entities)
	if s.stack != nil {
		s.stack.Push(NewAddCommand(s, position))
	} else {
		s.AddEntityAt(position)
	}
	if len(s.entities) != before+1 {
		return NoSelection
	}

	index := len(s.entities) - 1
	entity := &s.entities[index]
	entity.SetName(name)
	entity.SetColor(source.Color())
	entity.SetSize(source.Width(), source.Height())

	s.SetSelected(index)
	s.emit(EntityChanged, index)
	return index
}

func (s *Store) DeleteSelected() {
	if s.selected < 0 || s.selected >= len(s.entities) {
		return
	}
	if s.stack != nil {
		s.stack.Push(NewRemoveCommand(s, s.selected))
		return
	}
	s.RemoveEntityAt(s.selected)
}

func (s *Store) Rename(index int, name string) {
	if e := s.MutableEntity(index); e != nil && e.Name() != name {
		e.SetName(name)
		s.emit(EntityChanged, index)
	}
}

func (s *Store) Recolor(index int, c color.RGBA) {
	c.A = 255
	if e := s.MutableEntity(index); e != nil && e.Color() != c {
		e.SetColor(c)
		s.emit(EntityChanged, index)
	}
}

func (s *Store) Resize(index, width, height int) {
	e := s.MutableEntity(index)
	if e == nil {
		return
	}
	before := e.size
	e.SetSize(width, height)
	if e.size != before {
		s.emit(EntityChanged, index)
	}
}

func (s *Store) Grid() Grid {
	return s.grid
}

func (s *Store) GridVisible() bool {
	return s.grid.Visible
}

func (s *Store) SetGridVisible(visible bool) {
	s.grid.Visible = visible
}

func (s *Store) GridSize() int {
	return s.grid.Size
}

func (s *Store) SetGridSize(size int) {
	s.grid.Size = clampGridSize(size)
}

func (s *Store) SnapToGrid() bool {
	return s.grid.Snap
}

func (s *Store) SetSnapToGrid(snap bool) {
	s.grid.Snap = snap
}

// Snap applies the grid policy: p is returned unchanged while snapping is off.
func (s *Store) Snap(p image.Point) image.Point {
	return s.grid.Apply(p)
}

// SetStack attaches the undo stack that gesture and edit helpers route
// through. A nil stack makes those helpers mutate the store directly.
func (s *Store) SetStack(stack *Stack) {
	s.stack = stack
}

func (s *Store) Stack() *Stack {
	return s.stack
}
