package scene

import "testing"

type recorder struct {
	events []Event
}

func record(t *testing.T, s *Store) *recorder {
	t.Helper()
	r := &recorder{}
	s.Subscribe(func(e Event) { r.events = append(r.events, e) })
	return r
}

func (r *recorder) reset() {
	r.events = nil
}

func newStoreWithStack() (*Store, *Stack) {
	s := NewStore()
	st := NewStack()
	s.SetStack(st)
	return s, st
}
