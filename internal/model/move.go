package model

import "sort"

// SelectRequest is a click on the board as sent by a client.
type SelectRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveOption is one entry of ValidMoves in a form clients can consume.
type MoveOption struct {
	To       Position   `json:"to"`
	Captures []Position `json:"captures"`
}

// Options lists the moves ordered by destination row, then column.
func (m ValidMoves) Options() []MoveOption {
	options := make([]MoveOption, 0, len(m))
	for to, captured := range m {
		options = append(options, MoveOption{
			To:       to,
			Captures: append([]Position{}, captured...),
		})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].To.Row != options[j].To.Row {
			return options[i].To.Row < options[j].To.Row
		}
		return options[i].To.Col < options[j].To.Col
	})
	return options
}
