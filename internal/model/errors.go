package model

import "errors"

var (
	ErrIllegalSelection   = errors.New("illegal selection")
	ErrIllegalDestination = errors.New("illegal destination")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
	ErrGameOver           = errors.New("game is over")
	ErrCorruptSave        = errors.New("corrupt save")

	ErrDuplicateConnection = errors.New("connection already exists")
)
