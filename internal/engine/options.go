package engine

import (
	"github.com/dshills/snapedit/internal/engine/cursor"
	"github.com/dshills/snapedit/internal/input/key"
)

// Option configures a Session during creation.
type Option func(*Session)

// WithKeymap sets the keymap used by Handle.
func WithKeymap(km *key.Keymap) Option {
	return func(s *Session) {
		if km != nil {
			s.keymap = km
		}
	}
}

// WithHistoryLimit bounds the undo history. Zero, the default, is unbounded.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		s.historyLimit = limit
	}
}

// WithCursor sets the initial cursor. It is clamped into the buffer.
func WithCursor(c cursor.Cursor) Option {
	return func(s *Session) {
		s.initCursor = c
	}
}
