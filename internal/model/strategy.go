package model

import "fmt"

// ValidMoves maps a destination square to the squares of the pieces captured
// on the way there, in jump order. An empty slice is a quiet move.
type ValidMoves map[Position][]Position

// reach is the number of ranks a single ray may cover.
const reach = 2

type direction struct {
	row int
	col int
}

// directions lists the rays a piece of rank r may start on. The order is
// significant: when two rays reach the same square the later one wins.
func (r Rank) directions(c Color) []direction {
	switch r {
	case Man:
		fwd := c.forward()
		return []direction{{fwd, -1}, {fwd, 1}}
	case King:
		return []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	}
	panic(fmt.Sprintf("model: no move strategy for %s", r))
}

// movesFor computes every destination reachable by p on g.
func movesFor(g *Grid, p Piece) ValidMoves {
	moves := ValidMoves{}
	for _, d := range p.Rank.directions(p.Color) {
		merge(moves, explore(g, p.Position(), d, p.Color, nil))
	}
	return moves
}

// explore walks one diagonal ray from origin. chain holds the captures made
// before this ray started; a ray with a non-empty chain only yields a move if
// it jumps another piece.
func explore(g *Grid, origin Position, d direction, color Color, chain []Position) ValidMoves {
	found := ValidMoves{}
	var jumped *Position
	pos := origin
	for i := 0; i < reach; i++ {
		pos = Position{Row: pos.Row + d.row, Col: pos.Col + d.col}
		if !pos.InBounds() {
			break
		}
		cell := g.at(pos)
		if !cell.Occupied {
			if jumped == nil {
				if len(chain) == 0 {
					found[pos] = []Position{}
				}
				break
			}
			captured := make([]Position, 0, len(chain)+1)
			captured = append(captured, chain...)
			captured = append(captured, *jumped)
			found[pos] = captured
			merge(found, explore(g, pos, direction{d.row, -1}, color, captured))
			merge(found, explore(g, pos, direction{d.row, 1}, color, captured))
			break
		}
		if cell.Piece.Color == color || jumped != nil {
			break
		}
		over := pos
		jumped = &over
	}
	return found
}

// merge copies src into dst, overwriting destinations already present.
func merge(dst, src ValidMoves) {
	for to, captured := range src {
		dst[to] = captured
	}
}

// Clone returns a deep copy of m.
func (m ValidMoves) Clone() ValidMoves {
	out := make(ValidMoves, len(m))
	for to, captured := range m {
		out[to] = append([]Position{}, captured...)
	}
	return out
}
