package scene

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntityAtFreshStore(t *testing.T) {
	s := NewStore()
	r := record(t, s)

	index := s.AddEntityAt(image.Pt(10, 10))

	require.Equal(t, 0, index)
	e, ok := s.Entity(index)
	require.True(t, ok)
	assert.Equal(t, 1, e.ID())
	assert.Equal(t, "Entity_1", e.Name())
	assert.Equal(t, image.Pt(10, 10), e.Position())
	assert.Equal(t, 60, e.Width())
	assert.Equal(t, 60, e.Height())
	assert.Equal(t, color.RGBA{R: 100, G: 150, B: 255, A: 255}, e.Color())
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, 2, s.NextID())
	assert.Equal(t, []Event{{EntityAdded, 0}, {SelectionChanged, 0}}, r.events)
}

func TestAddEntityAtAppendsAndSelects(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))
	index := s.AddEntityAt(image.Pt(100, 0))

	assert.Equal(t, 1, index)
	assert.Equal(t, 1, s.Selected())
	e, _ := s.Entity(1)
	assert.Equal(t, "Entity_2", e.Name())
}

func TestEntityOutOfRange(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))

	for _, index := range []int{-1, 1, 100} {
		_, ok := s.Entity(index)
		assert.False(t, ok, "index %d", index)
		assert.Nil(t, s.MutableEntity(index), "index %d", index)
	}
}

func TestMutableEntityEditsInPlace(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))

	s.MutableEntity(0).SetName("renamed")
	e, _ := s.Entity(0)
	assert.Equal(t, "renamed", e.Name())
}

func TestRemoveEntityAt(t *testing.T) {
	tests := []struct {
		name         string
		selected     int
		remove       int
		wantSelected int
	}{
		{"removing selected clears selection", 1, 1, NoSelection},
		{"removing below selection shifts it down", 2, 0, 1},
		{"removing above selection keeps it", 0, 2, 0},
		{"no selection stays none", NoSelection, 1, NoSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for i := 0; i < 3; i++ {
				s.AddEntityAt(image.Pt(i*100, 0))
			}
			s.SetSelected(tt.selected)
			r := record(t, s)

			s.RemoveEntityAt(tt.remove)

			assert.Equal(t, 2, s.Len())
			assert.Equal(t, tt.wantSelected, s.Selected())
			assert.Equal(t, []Event{{EntityRemoved, tt.remove}, {SelectionChanged, tt.wantSelected}}, r.events)
		})
	}
}

func TestRemoveEntityAtOutOfRangeIsNoop(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))
	r := record(t, s)

	s.RemoveEntityAt(-1)
	s.RemoveEntityAt(1)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Selected())
	assert.Empty(t, r.events)
}

func TestInsertEntity(t *testing.T) {
	tests := []struct {
		name         string
		selected     int
		insert       int
		wantIndex    int
		wantSelected int
	}{
		{"insert at selection shifts it up", 1, 1, 1, 2},
		{"insert below selection shifts it up", 2, 0, 0, 3},
		{"insert above selection keeps it", 0, 2, 2, 0},
		{"index past end clamps to length", 0, 99, 3, 0},
		{"negative index clamps to zero", 0, -4, 0, 1},
		{"no selection stays none", NoSelection, 0, 0, NoSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for i := 0; i < 3; i++ {
				s.AddEntityAt(image.Pt(i*100, 0))
			}
			s.SetSelected(tt.selected)
			r := record(t, s)

			inserted := NewEntity(42, "inserted", image.Pt(5, 5))
			got := s.InsertEntity(inserted, tt.insert)

			assert.Equal(t, tt.wantIndex, got)
			assert.Equal(t, tt.wantSelected, s.Selected())
			e, ok := s.Entity(got)
			require.True(t, ok)
			assert.Equal(t, inserted, e)
			assert.Equal(t, 4, s.NextID(), "insert never allocates ids")
			assert.Equal(t, []Event{{EntityAdded, tt.wantIndex}, {SelectionChanged, tt.wantSelected}}, r.events)
		})
	}
}

func TestSetSelected(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))
	s.AddEntityAt(image.Pt(100, 0))
	r := record(t, s)

	s.SetSelected(1)
	assert.Empty(t, r.events, "unchanged selection emits nothing")

	s.SetSelected(0)
	s.SetSelected(5)
	assert.Equal(t, NoSelection, s.Selected())
	s.SetSelected(-7)
	assert.Equal(t, NoSelection, s.Selected())

	assert.Equal(t, []Event{{SelectionChanged, 0}, {SelectionChanged, NoSelection}}, r.events)
}

func TestFindEntityAtTopmostWins(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))
	s.AddEntityAt(image.Pt(30, 30))

	assert.Equal(t, 1, s.FindEntityAt(image.Pt(40, 40)), "overlap resolves to last added")
	assert.Equal(t, 0, s.FindEntityAt(image.Pt(5, 5)))
	assert.Equal(t, 1, s.FindEntityAt(image.Pt(85, 85)))
	assert.Equal(t, NoSelection, s.FindEntityAt(image.Pt(200, 200)))
}

func TestDuplicateSelectedWithoutStack(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(10, 10))
	s.Rename(0, "box")
	s.Recolor(0, color.RGBA{R: 1, G: 2, B: 3})
	s.Resize(0, 40, 50)

	s.DuplicateSelected()

	require.Equal(t, 2, s.Len())
	e, _ := s.Entity(1)
	assert.Equal(t, 2, e.ID())
	assert.Equal(t, "box (Copy)", e.Name())
	assert.Equal(t, image.Pt(60, 10), e.Position())
	assert.Equal(t, 40, e.Width())
	assert.Equal(t, 50, e.Height())
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, e.Color())
	assert.Equal(t, 1, s.Selected())
}

func TestDuplicateSelectedSnapsOffset(t *testing.T) {
	s := NewStore()
	s.SetSnapToGrid(true)
	s.AddEntityAt(image.Pt(15, 15))

	s.DuplicateSelected()

	e, _ := s.Entity(1)
	// 15+60+10 = 85 truncates to 80; 15 truncates to 0.
	assert.Equal(t, image.Pt(80, 0), e.Position())
}

func TestDuplicateSelectedThroughStackIsUndoable(t *testing.T) {
	s, st := newStoreWithStack()
	st.Push(NewAddCommand(s, image.Pt(0, 0)))
	s.Rename(0, "src")

	s.DuplicateSelected()
	require.Equal(t, 2, s.Len())
	require.Equal(t, 2, st.Len())

	st.Undo()
	assert.Equal(t, 1, s.Len())

	st.Redo()
	require.Equal(t, 2, s.Len())
	e, _ := s.Entity(1)
	assert.Equal(t, "src (Copy)", e.Name(), "redo restores the copied properties")
}

func TestDuplicateWithoutSelectionIsNoop(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))
	s.SetSelected(NoSelection)

	s.DuplicateSelected()
	assert.Equal(t, 1, s.Len())
}

func TestPasteKeepsNameTakesFreshID(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))
	src := NewEntity(99, "pasted", image.Pt(500, 500))
	src.SetSize(20, 30)

	index := s.Paste(src, image.Pt(200, 0))

	e, _ := s.Entity(index)
	assert.Equal(t, 2, e.ID())
	assert.Equal(t, "pasted", e.Name())
	assert.Equal(t, image.Pt(200, 0), e.Position())
	assert.Equal(t, 20, e.Width())
	assert.Equal(t, 30, e.Height())
}

func TestDeleteSelected(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		s := NewStore()
		s.AddEntityAt(image.Pt(0, 0))
		s.DeleteSelected()
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, NoSelection, s.Selected())
	})
	t.Run("through stack", func(t *testing.T) {
		s, st := newStoreWithStack()
		st.Push(NewAddCommand(s, image.Pt(0, 0)))
		s.DeleteSelected()
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, 2, st.Len())
		st.Undo()
		assert.Equal(t, 1, s.Len())
	})
	t.Run("nothing selected", func(t *testing.T) {
		s := NewStore()
		s.AddEntityAt(image.Pt(0, 0))
		s.SetSelected(NoSelection)
		s.DeleteSelected()
		assert.Equal(t, 1, s.Len())
	})
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.SetGridSize(40)
	s.AddEntityAt(image.Pt(0, 0))
	s.AddEntityAt(image.Pt(100, 0))
	s.AddEntityAt(image.Pt(200, 0))
	s.SetSelected(1)
	r := record(t, s)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, NoSelection, s.Selected())
	assert.False(t, s.Dragging())
	assert.Equal(t, 40, s.Grid().Size)
	assert.Equal(t, []Event{
		{EntityRemoved, 2}, {EntityRemoved, 1}, {EntityRemoved, 0},
		{SelectionChanged, NoSelection},
	}, r.events)

	r.reset()
	s.Clear()
	assert.Empty(t, r.events)

	s.AddEntityAt(image.Pt(0, 0))
	e, _ := s.Entity(0)
	assert.Equal(t, 1, e.ID())
}

func TestEditHelpersEmitChanged(t *testing.T) {
	s := NewStore()
	s.AddEntityAt(image.Pt(0, 0))
	r := record(t, s)

	s.Rename(0, "x")
	s.Rename(0, "x")
	s.Recolor(0, DefaultColor)
	s.Recolor(0, color.RGBA{R: 9})
	s.Resize(0, 60, 60)
	s.Resize(0, 10, 10)
	s.Rename(4, "missing")

	assert.Equal(t, []Event{{EntityChanged, 0}, {EntityChanged, 0}, {EntityChanged, 0}}, r.events)
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	calls := 0
	stop := s.Subscribe(func(Event) { calls++ })

	s.AddEntityAt(image.Pt(0, 0))
	stop()
	s.AddEntityAt(image.Pt(0, 0))

	assert.Equal(t, 2, calls)
}

func TestSubscriberMayReenterSelection(t *testing.T) {
	s := NewStore()
	r := record(t, s)
	s.Subscribe(func(e Event) {
		if e.Kind == EntityAdded {
			s.SetSelected(NoSelection)
		}
	})

	s.AddEntityAt(image.Pt(0, 0))

	assert.Equal(t, NoSelection, s.Selected())
	assert.Equal(t, []Event{
		{EntityAdded, 0},
		{SelectionChanged, NoSelection},
		{SelectionChanged, NoSelection},
	}, r.events)
}
