package model

import "fmt"

type Color uint8

const (
	// Red moves first and starts on rows 0-2.
	Red Color = iota
	// White starts on rows 5-7.
	White
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case White:
		return "white"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

func (c Color) Opponent() Color {
	if c == Red {
		return White
	}
	return Red
}

// forward is the row step a man of this color advances by.
func (c Color) forward() int {
	if c == Red {
		return 1
	}
	return -1
}

// crownRow is the back rank that promotes a man of this color.
func (c Color) crownRow() int {
	if c == Red {
		return Rows - 1
	}
	return 0
}

func (c Color) valid() bool {
	return c == Red || c == White
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "red":
		*c = Red
	case "white":
		*c = White
	default:
		return fmt.Errorf("invalid color %q", text)
	}
	return nil
}

type Rank uint8

const (
	Man Rank = iota
	King
)

func (r Rank) String() string {
	switch r {
	case Man:
		return "man"
	case King:
		return "king"
	}
	return fmt.Sprintf("Rank(%d)", uint8(r))
}

func (r Rank) valid() bool {
	return r == Man || r == King
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.valid() {
		return nil, fmt.Errorf("invalid rank %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	switch string(text) {
	case "man":
		*r = Man
	case "king":
		*r = King
	default:
		return fmt.Errorf("invalid rank %q", text)
	}
	return nil
}

type Piece struct {
	Color Color `json:"color"`
	Rank  Rank  `json:"rank"`
	Row   int   `json:"row"`
	Col   int   `json:"col"`
}

func (p Piece) Position() Position {
	return Position{Row: p.Row, Col: p.Col}
}

func (p Piece) IsKing() bool {
	return p.Rank == King
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < Cols
}

// Dark reports whether the square belongs to the playable parity.
func (p Position) Dark() bool {
	return (p.Row+p.Col)%2 == 1
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
