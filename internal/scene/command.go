package scene

import "image"

type CommandKind int

const (
	AddEntity CommandKind = iota
	RemoveEntity
	MoveEntity
)

func (k CommandKind) String() string {
	switch k {
	case AddEntity:
		return "Add Entity"
	case RemoveEntity:
		return "Delete Entity"
	case MoveEntity:
		return "Move Entity"
	default:
		return "Unknown"
	}
}

// Command is one reversible edit of a Store. Only the fields for its Kind are
// used. A command borrows the store and must not outlive it.
type Command struct {
	Kind CommandKind

	store *Store
	index int

	// Snapshot of the entity, valid once captured is set by the first Redo.
	captured bool
	snapshot Entity

	target image.Point // AddEntity

	oldPos image.Point // MoveEntity
	newPos image.Point
}

func NewAddCommand(store *Store, position image.Point) *Command {
	return &Command{Kind: AddEntity, store: store, index: NoSelection, target: position}
}

func NewRemoveCommand(store *Store, index int) *Command {
	return &Command{Kind: RemoveEntity, store: store, index: index}
}

func NewMoveCommand(store *Store, index int, oldPos, newPos image.Point) *Command {
	return &Command{Kind: MoveEntity, store: store, index: index, oldPos: oldPos, newPos: newPos}
}

func (c *Command) Text() string {
	return c.Kind.String()
}

func (c *Command) Index() int {
	return c.index
}

func (c *Command) OldPosition() image.Point {
	return c.oldPos
}

func (c *Command) NewPosition() image.Point {
	return c.newPos
}

// SetNewPosition updates a live move while its drag gesture is in progress.
func (c *Command) SetNewPosition(p image.Point) {
	c.newPos = p
}

func (c *Command) Redo() {
	if c.store == nil {
		return
	}
	s := c.store

	switch c.Kind {
	case AddEntity:
		if !c.captured {
			c.index = s.AddEntityAt(c.target)
			c.snapshot, _ = s.Entity(c.index)
			c.captured = true
		} else {
			c.index = s.InsertEntity(c.snapshot, c.index)
		}
	case RemoveEntity:
		if !c.captured {
			entity, ok := s.Entity(c.index)
			if !ok {
				return
			}
			c.snapshot = entity
			c.captured = true
		}
		s.RemoveEntityAt(c.index)
	case MoveEntity:
		c.moveTo(c.newPos)
	}
}

func (c *Command) Undo() {
	if c.store == nil || c.index < 0 {
		return
	}
	s := c.store

	switch c.Kind {
	case AddEntity:
		// Pick up edits made since creation, e.g. a rename.
		if entity, ok := s.Entity(c.index); ok {
			c.snapshot = entity
		}
		s.RemoveEntityAt(c.index)
	case RemoveEntity:
		if !c.captured {
			return
		}
		c.index = s.InsertEntity(c.snapshot, c.index)
	case MoveEntity:
		c.moveTo(c.oldPos)
	}
}

func (c *Command) moveTo(p image.Point) {
	entity := c.store.MutableEntity(c.index)
	if entity == nil {
		return
	}
	entity.SetPosition(p)
	c.store.emit(EntityChanged, c.index)
}
