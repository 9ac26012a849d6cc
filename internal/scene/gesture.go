package scene

import "image"

// gesture tracks one pointer-down to pointer-up drag. It owns at most one
// pending move command, pushed on release only if the entity actually moved.
type gesture struct {
	active  bool
	index   int
	pressAt image.Point
	start   image.Point
	move    *Command
}

// PointerDown selects the topmost entity under p and starts dragging it, or
// creates a new entity at p when nothing is hit.
func (s *Store) PointerDown(p image.Point) {
	p = s.Snap(p)
	s.drag = gesture{}

	index := s.FindEntityAt(p)
	if index == NoSelection {
		if s.stack != nil {
			s.stack.Push(NewAddCommand(s, p))
		} else {
			s.AddEntityAt(p)
		}
		return
	}

	s.selected = index
	s.emit(SelectionChanged, index)
	s.beginDrag(index, p)
}

// GrabSelected starts a drag of the selected entity as if it had been pressed
// at p, regardless of what lies on top of it there. It reports false when
// nothing is selected.
func (s *Store) GrabSelected(p image.Point) bool {
	if s.selected < 0 || s.selected >= len(s.entities) {
		return false
	}
	s.beginDrag(s.selected, p)
	return true
}

func (s *Store) beginDrag(index int, p image.Point) {
	start := s.entities[index].Position()
	s.drag = gesture{active: true, index: index, pressAt: p, start: start}
	if s.stack != nil {
		s.drag.move = NewMoveCommand(s, index, start, start)
	}
}

func (s *Store) PointerMove(p image.Point) {
	entity := s.dragged()
	if entity == nil {
		return
	}
	pos := s.Snap(s.drag.start.Add(p.Sub(s.drag.pressAt)))
	entity.SetPosition(pos)
	if s.drag.move != nil {
		s.drag.move.SetNewPosition(pos)
	}
}

func (s *Store) PointerUp() {
	defer func() { s.drag = gesture{} }()

	entity := s.dragged()
	if entity == nil || s.drag.move == nil {
		return
	}
	if entity.Position() != s.drag.move.OldPosition() {
		s.stack.Push(s.drag.move)
	}
}

// CancelDrag puts the dragged entity back where the gesture started and
// drops the pending move.
func (s *Store) CancelDrag() {
	if entity := s.dragged(); entity != nil {
		entity.SetPosition(s.drag.start)
		s.emit(EntityChanged, s.drag.index)
	}
	s.drag = gesture{}
}

func (s *Store) Dragging() bool {
	return s.drag.active
}

func (s *Store) dragged() *Entity {
	if !s.drag.active || s.drag.index != s.selected {
		return nil
	}
	return s.MutableEntity(s.drag.index)
}
