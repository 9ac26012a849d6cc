package scene

type EventKind int

const (
	EntityAdded EventKind = iota
	EntityRemoved
	SelectionChanged
	// EntityChanged reports an in-place edit: rename, recolor, resize or a
	// position change applied by a move command.
	EntityChanged
)

func (k EventKind) String() string {
	switch k {
	case EntityAdded:
		return "entity_added"
	case EntityRemoved:
		return "entity_removed"
	case SelectionChanged:
		return "selection_changed"
	case EntityChanged:
		return "entity_changed"
	default:
		return "unknown"
	}
}

// Event carries an index into the store. For SelectionChanged the index may be
// NoSelection.
type Event struct {
	Kind  EventKind
	Index int
}

type listener struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every notification the store emits. Handlers run
// synchronously, in registration order, before the mutating call returns.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(kind EventKind, index int) {
	// Handlers may subscribe or unsubscribe while being notified.
	listeners := s.listeners
	for _, l := range listeners {
		l.fn(Event{Kind: kind, Index: index})
	}
}
