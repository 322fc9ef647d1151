package model

import "testing"

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory()
	s0, s1, s2 := snapshotAt(0), snapshotAt(1), snapshotAt(2)

	h.Record(s0)
	if h.CanUndo() {
		t.Fatalf("expected origin alone to be undoable")
	}
	if _, ok := h.Undo(s1); ok {
		t.Fatalf("expected undo past the origin to fail")
	}

	h.Record(s1)
	got, ok := h.Undo(s2)
	if !ok || !got.Equal(s1) {
		t.Fatalf("expected undo to return the last recorded snapshot")
	}
	if !h.CanRedo() {
		t.Fatalf("expected redo to be available after undo")
	}
	got, ok = h.Redo(s1)
	if !ok || !got.Equal(s2) {
		t.Fatalf("expected redo to return the undone state")
	}
	if undo, redo := h.Len(); undo != 2 || redo != 0 {
		t.Fatalf("expected stacks 2/0, got %d/%d", undo, redo)
	}
}

func TestHistoryRecordClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Record(snapshotAt(0))
	h.Record(snapshotAt(1))
	h.Undo(snapshotAt(2))

	h.Record(snapshotAt(3))
	if h.CanRedo() {
		t.Fatalf("expected a new record to clear redo")
	}
	if _, ok := h.Redo(snapshotAt(4)); ok {
		t.Fatalf("expected redo to fail")
	}
}

func TestHistoryDiscardLast(t *testing.T) {
	h := NewHistory()
	if h.DiscardLast() {
		t.Fatalf("expected discard on empty history to report false")
	}
	h.Record(snapshotAt(0))
	h.Record(snapshotAt(1))
	h.Undo(snapshotAt(2))
	h.Record(snapshotAt(3))
	if !h.DiscardLast() {
		t.Fatalf("expected discard to succeed")
	}
	if undo, _ := h.Len(); undo != 1 {
		t.Fatalf("expected one snapshot left, got %d", undo)
	}
}

func TestMementoIsAValue(t *testing.T) {
	b := NewBoard()
	m := b.Snapshot()
	b.Click(2, 1)
	b.Click(3, 2)
	if m.Equal(b.Snapshot()) {
		t.Fatalf("expected snapshot to be unaffected by later moves")
	}
	b.Restore(m)
	if !m.Equal(b.Snapshot()) {
		t.Fatalf("expected restore to bring back the snapshot")
	}
	if m.State().Turn != Red {
		t.Fatalf("expected snapshot turn red, got %s", m.State().Turn)
	}
}

// snapshotAt returns a distinct memento for each n.
func snapshotAt(n int) Memento {
	var s BoardState
	s.Counts[Red] = n
	return NewMemento(s)
}
