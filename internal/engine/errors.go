package engine

import (
	"errors"

	"github.com/dshills/snapedit/internal/engine/buffer"
	"github.com/dshills/snapedit/internal/engine/history"
)

// Errors returned by session operations.
var (
	// ErrOutOfRange indicates an edit outside the buffer bounds.
	ErrOutOfRange = buffer.ErrOutOfRange

	// ErrEmptyHistory indicates the undo stack is empty.
	// Session.Undo treats this as a no-op rather than returning it.
	ErrEmptyHistory = history.ErrEmptyHistory

	// ErrUnknownCommand indicates an input code bound to no command that
	// is not insertable text.
	ErrUnknownCommand = errors.New("unknown command")
)
