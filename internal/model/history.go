package model

// Memento is an immutable snapshot of a board.
type Memento struct {
	state BoardState
}

func NewMemento(state BoardState) Memento {
	return Memento{state: state}
}

func (m Memento) State() BoardState {
	return m.state
}

func (m Memento) Equal(other Memento) bool {
	return m.state == other.state
}

// History keeps the undo and redo stacks. The bottom undo entry is the
// origin of the game and is never handed out by Undo.
type History struct {
	undo []Memento
	redo []Memento
}

func NewHistory() *History {
	return &History{}
}

// Record pushes m and invalidates everything that could be redone.
func (h *History) Record(m Memento) {
	h.undo = append(h.undo, m)
	h.redo = h.redo[:0]
}

// DiscardLast drops the most recent undo entry without touching redo.
func (h *History) DiscardLast() bool {
	if len(h.undo) == 0 {
		return false
	}
	h.undo = h.undo[:len(h.undo)-1]
	return true
}

func (h *History) Undo(current Memento) (Memento, bool) {
	if len(h.undo) <= 1 {
		return Memento{}, false
	}
	h.redo = append(h.redo, current)
	return pop(&h.undo), true
}

func (h *History) Redo(current Memento) (Memento, bool) {
	if len(h.redo) == 0 {
		return Memento{}, false
	}
	m := pop(&h.redo)
	h.undo = append(h.undo, current)
	return m, true
}

func (h *History) CanUndo() bool {
	return len(h.undo) > 1
}

func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Len returns the depth of the undo and redo stacks.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

func (h *History) stacks() (undo, redo []BoardState) {
	undo = make([]BoardState, len(h.undo))
	for i, m := range h.undo {
		undo[i] = m.state
	}
	redo = make([]BoardState, len(h.redo))
	for i, m := range h.redo {
		redo[i] = m.state
	}
	return undo, redo
}

func historyFromStacks(undo, redo []BoardState) *History {
	h := &History{
		undo: make([]Memento, len(undo)),
		redo: make([]Memento, len(redo)),
	}
	for i, s := range undo {
		h.undo[i] = Memento{state: s}
	}
	for i, s := range redo {
		h.redo[i] = Memento{state: s}
	}
	return h
}

func pop(stack *[]Memento) Memento {
	s := *stack
	m := s[len(s)-1]
	*stack = s[:len(s)-1]
	return m
}
