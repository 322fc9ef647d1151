package model

const (
	Rows = 8
	Cols = 8

	// homeRows is how many rows each side fills at the start.
	homeRows = 3
)

// Cell is a single square. The zero value is an empty square.
type Cell struct {
	Occupied bool  `json:"occupied"`
	Piece    Piece `json:"piece"`
}

type Grid [Rows][Cols]Cell

func (g *Grid) at(p Position) Cell {
	return g[p.Row][p.Col]
}

func (g *Grid) put(p Piece) {
	g[p.Row][p.Col] = Cell{Occupied: true, Piece: p}
}

func (g *Grid) clear(p Position) {
	g[p.Row][p.Col] = Cell{}
}

// BoardState is the part of a board that history and saves care about. It is
// a plain value: copying it copies the whole grid.
type BoardState struct {
	Grid   Grid   `json:"grid"`
	Turn   Color  `json:"turn"`
	Counts [2]int `json:"counts"`
}

// Outcome classifies what a click on the board did.
type Outcome int

const (
	// Ignored means the click changed nothing.
	Ignored Outcome = iota
	// Selected means a piece of the side to move is now held.
	Selected
	// Moved means the held piece moved and the turn passed.
	Moved
	// Rejected means a held piece was sent to an illegal square and dropped.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Moved:
		return "moved"
	case Rejected:
		return "rejected"
	default:
		return "ignored"
	}
}

type Board struct {
	state    BoardState
	selected *Position
	moves    ValidMoves
}

func NewBoard() *Board {
	b := &Board{}
	b.state.Turn = Red
	for row := 0; row < Rows; row++ {
		var color Color
		switch {
		case row < homeRows:
			color = Red
		case row >= Rows-homeRows:
			color = White
		default:
			continue
		}
		for col := 0; col < Cols; col++ {
			pos := Position{Row: row, Col: col}
			if !pos.Dark() {
				continue
			}
			b.state.Grid.put(Piece{Color: color, Rank: Man, Row: row, Col: col})
			b.state.Counts[color]++
		}
	}
	return b
}

func newBoardFromState(state BoardState) *Board {
	return &Board{state: state}
}

// Select clicks (row, col) and reports whether a move was made.
func (b *Board) Select(row, col int) bool {
	return b.Click(row, col) == Moved
}

func (b *Board) Click(row, col int) Outcome {
	pos := Position{Row: row, Col: col}
	if !pos.InBounds() {
		return Ignored
	}
	cell := b.state.Grid.at(pos)
	if !cell.Occupied {
		if b.selected == nil {
			return Ignored
		}
		return b.moveTo(pos)
	}
	if cell.Piece.Color != b.state.Turn {
		return Ignored
	}
	return b.selectPiece(cell.Piece)
}

func (b *Board) selectPiece(p Piece) Outcome {
	moves := movesFor(&b.state.Grid, p)
	if len(moves) == 0 {
		b.deselect()
		return Ignored
	}
	from := p.Position()
	b.selected = &from
	b.moves = moves
	return Selected
}

func (b *Board) moveTo(to Position) Outcome {
	captured, ok := b.moves[to]
	from := *b.selected
	b.deselect()
	if !ok {
		return Rejected
	}

	piece := b.state.Grid.at(from).Piece
	b.state.Grid.clear(from)
	piece.Row, piece.Col = to.Row, to.Col
	if to.Row == piece.Color.crownRow() && !piece.IsKing() {
		piece.Rank = King
	}
	b.state.Grid.put(piece)

	for _, sq := range captured {
		victim := b.state.Grid.at(sq)
		if !victim.Occupied {
			continue
		}
		b.state.Grid.clear(sq)
		b.state.Counts[victim.Piece.Color]--
	}
	b.state.Turn = b.state.Turn.Opponent()
	return Moved
}

func (b *Board) deselect() {
	b.selected = nil
	b.moves = nil
}

// Winner returns the side whose opponent has no pieces left.
func (b *Board) Winner() (Color, bool) {
	switch {
	case b.state.Counts[Red] <= 0:
		return White, true
	case b.state.Counts[White] <= 0:
		return Red, true
	}
	return Red, false
}

// Field returns the cell at (row, col); squares off the board read as empty.
func (b *Board) Field(row, col int) Cell {
	pos := Position{Row: row, Col: col}
	if !pos.InBounds() {
		return Cell{}
	}
	return b.state.Grid.at(pos)
}

func (b *Board) Turn() Color {
	return b.state.Turn
}

func (b *Board) Count(c Color) int {
	if !c.valid() {
		return 0
	}
	return b.state.Counts[c]
}

// ValidMoves returns a copy of the moves of the held piece, or nil when idle.
func (b *Board) ValidMoves() ValidMoves {
	if b.moves == nil {
		return nil
	}
	return b.moves.Clone()
}

// Selected returns the held piece, if any.
func (b *Board) Selected() (Piece, bool) {
	if b.selected == nil {
		return Piece{}, false
	}
	return b.state.Grid.at(*b.selected).Piece, true
}

func (b *Board) State() BoardState {
	return b.state
}

func (b *Board) Snapshot() Memento {
	return Memento{state: b.state}
}

// Restore replaces the board with the snapshot and drops any selection.
func (b *Board) Restore(m Memento) {
	b.state = m.state
	b.deselect()
}
