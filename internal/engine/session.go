package engine

import (
	"errors"
	"fmt"
	"iter"

	"github.com/dshills/snapedit/internal/engine/buffer"
	"github.com/dshills/snapedit/internal/engine/cursor"
	"github.com/dshills/snapedit/internal/engine/history"
	"github.com/dshills/snapedit/internal/input/key"
)

// Re-export commonly used types for convenience.
type (
	// State is one (Buffer, Cursor) pair, the unit of undo.
	State = history.Snapshot

	// Command identifies what an input code does.
	Command = key.Command
)

// Result describes the outcome of one processed input.
type Result struct {
	// Command is the command the input was classified as.
	Command Command

	// Changed is true when the buffer or cursor changed.
	Changed bool

	// Quit is true when the input asks to end the session.
	Quit bool

	// Save is true when the input asks to write the buffer out.
	Save bool
}

// Session is the edit session: current state plus undo history.
type Session struct {
	buf     buffer.Buffer
	cur     cursor.Cursor
	history *history.Stack
	keymap  *key.Keymap

	// Initialization
	historyLimit int
	initCursor   cursor.Cursor
}

// New creates a session editing buf.
func New(buf buffer.Buffer, opts ...Option) *Session {
	s := &Session{
		keymap: key.DefaultKeymap(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if buf.LineCount() == 0 {
		buf = buffer.New(nil)
	}
	s.buf = buf
	s.cur = clampCursor(s.initCursor, buf)
	s.history = history.NewStack(s.historyLimit)

	return s
}

// clampCursor moves c onto a valid row and column of b.
func clampCursor(c cursor.Cursor, b buffer.Buffer) cursor.Cursor {
	row := min(max(c.Row, 0), b.LineCount()-1)
	col := min(max(c.Col, 0), b.LineLen(row))
	return cursor.New(row, col)
}

// Handle classifies an input code through the keymap and applies it.
func (s *Session) Handle(code rune) (Result, error) {
	return s.Apply(s.keymap.Lookup(code), code)
}

// Apply executes cmd. For CommandInsert, ch is the character inserted;
// other commands ignore it.
// On error the state is unchanged.
func (s *Session) Apply(cmd Command, ch rune) (Result, error) {
	res := Result{Command: cmd}

	switch cmd {
	case key.CommandQuit:
		res.Quit = true
		return res, nil

	case key.CommandSave:
		res.Save = true
		return res, nil

	case key.CommandMoveForward:
		return s.move(res, s.cur.Forward(s.buf)), nil
	case key.CommandMoveBackward:
		return s.move(res, s.cur.Backward(s.buf)), nil
	case key.CommandMoveUp:
		return s.move(res, s.cur.Up(s.buf)), nil
	case key.CommandMoveDown:
		return s.move(res, s.cur.Down(s.buf)), nil

	case key.CommandUndo:
		res.Changed = s.Undo()
		return res, nil

	case key.CommandDelete:
		// Delete removes the character before the cursor.
		next, err := s.buf.Delete(s.cur.Row, s.cur.Col-1)
		if err != nil {
			return res, fmt.Errorf("%s: %w", cmd, err)
		}
		s.commit(next, s.cur.Left(next))
		res.Changed = true
		return res, nil

	case key.CommandInsert:
		next, err := s.buf.Insert(ch, s.cur.Row, s.cur.Col)
		if err != nil {
			return res, fmt.Errorf("%s %q: %w", cmd, ch, err)
		}
		s.commit(next, s.cur.Right(next))
		res.Changed = true
		return res, nil

	case key.CommandUnknown:
		return res, fmt.Errorf("%w: code %s", ErrUnknownCommand, key.FormatCode(ch))

	default:
		return res, fmt.Errorf("%w: %v", ErrUnknownCommand, cmd)
	}
}

func (s *Session) move(res Result, next cursor.Cursor) Result {
	res.Changed = next != s.cur
	s.cur = next
	return res
}

// commit records the current state in history and installs the new one.
func (s *Session) commit(buf buffer.Buffer, cur cursor.Cursor) {
	s.history.Push(State{Buffer: s.buf, Cursor: s.cur})
	s.buf = buf
	s.cur = cur
}

// Undo restores the most recent state from history.
// It returns false, leaving the state unchanged, when there is nothing to undo.
func (s *Session) Undo() bool {
	prev, err := s.history.Pop()
	if errors.Is(err, ErrEmptyHistory) {
		return false
	}
	s.buf = prev.Buffer
	s.cur = prev.Cursor
	return true
}

// State returns the current (Buffer, Cursor) pair.
func (s *Session) State() State {
	return State{Buffer: s.buf, Cursor: s.cur}
}

// Buffer returns the current buffer.
func (s *Session) Buffer() buffer.Buffer {
	return s.buf
}

// Cursor returns the current cursor.
func (s *Session) Cursor() cursor.Cursor {
	return s.cur
}

// Lines returns the current lines for rendering.
func (s *Session) Lines() iter.Seq[string] {
	return s.buf.Lines()
}

// HistoryLen returns the number of states available to undo.
func (s *Session) HistoryLen() int {
	return s.history.Len()
}

// SetHistoryLimit changes the undo history bound. Zero is unbounded.
func (s *Session) SetHistoryLimit(limit int) {
	s.history.SetMaxEntries(limit)
}

// Keymap returns the keymap used by Handle.
func (s *Session) Keymap() *key.Keymap {
	return s.keymap
}

// SetKeymap replaces the keymap used by Handle.
func (s *Session) SetKeymap(km *key.Keymap) {
	if km != nil {
		s.keymap = km
	}
}
