package model

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

const saveVersion = 1

type savedGame struct {
	Version int
	Board   BoardState
	Undo    []BoardState
	Redo    []BoardState
}

// Encode serializes the board together with both history stacks.
func Encode(b *Board, h *History) ([]byte, error) {
	undo, redo := h.stacks()
	save := savedGame{
		Version: saveVersion,
		Board:   b.State(),
		Undo:    undo,
		Redo:    redo,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&save); err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode rebuilds a board and its history from a blob produced by Encode.
// The restored board has no selection.
func Decode(blob []byte) (*Board, *History, error) {
	var save savedGame
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&save); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if save.Version != saveVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSave, save.Version)
	}
	if len(save.Undo) == 0 {
		return nil, nil, fmt.Errorf("%w: empty undo stack", ErrCorruptSave)
	}
	if err := save.Board.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: board: %v", ErrCorruptSave, err)
	}
	for i, s := range save.Undo {
		if err := s.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: undo[%d]: %v", ErrCorruptSave, i, err)
		}
	}
	for i, s := range save.Redo {
		if err := s.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: redo[%d]: %v", ErrCorruptSave, i, err)
		}
	}
	return newBoardFromState(save.Board), historyFromStacks(save.Undo, save.Redo), nil
}

// Validate checks the structural invariants of a board state.
func (s BoardState) Validate() error {
	if !s.Turn.valid() {
		return fmt.Errorf("invalid turn %d", s.Turn)
	}
	var counts [2]int
	for row := range s.Grid {
		for col, cell := range s.Grid[row] {
			if !cell.Occupied {
				if cell != (Cell{}) {
					return fmt.Errorf("empty cell (%d,%d) carries a piece", row, col)
				}
				continue
			}
			p := cell.Piece
			pos := Position{Row: row, Col: col}
			if p.Position() != pos {
				return fmt.Errorf("piece at %s claims %s", pos, p.Position())
			}
			if !pos.Dark() {
				return fmt.Errorf("piece on light square %s", pos)
			}
			if !p.Color.valid() || !p.Rank.valid() {
				return fmt.Errorf("malformed piece at %s", pos)
			}
			counts[p.Color]++
		}
	}
	if counts != s.Counts {
		return fmt.Errorf("counts %v do not match grid %v", s.Counts, counts)
	}
	return nil
}
