package history

import (
	"errors"

	"github.com/dshills/snapedit/internal/engine/buffer"
	"github.com/dshills/snapedit/internal/engine/cursor"
)

// ErrEmptyHistory indicates there is no snapshot to restore.
var ErrEmptyHistory = errors.New("nothing to undo")

// Snapshot is one undoable editor state.
type Snapshot struct {
	Buffer buffer.Buffer
	Cursor cursor.Cursor
}

// Stack is a LIFO stack of snapshots.
// Stack is not safe for concurrent use.
type Stack struct {
	entries    []Snapshot
	maxEntries int // 0 means unbounded
}

// NewStack creates a stack holding at most maxEntries snapshots.
// A maxEntries of zero or less means the stack is unbounded.
func NewStack(maxEntries int) *Stack {
	return &Stack{maxEntries: max(maxEntries, 0)}
}

// Push adds a snapshot to the top of the stack.
// If the stack is bounded and full, the oldest snapshot is dropped.
func (s *Stack) Push(snap Snapshot) {
	s.entries = append(s.entries, snap)
	s.trim()
}

// Pop removes and returns the most recent snapshot.
// It returns ErrEmptyHistory if the stack is empty.
func (s *Stack) Pop() (Snapshot, error) {
	if len(s.entries) == 0 {
		return Snapshot{}, ErrEmptyHistory
	}
	last := len(s.entries) - 1
	snap := s.entries[last]
	s.entries[last] = Snapshot{}
	s.entries = s.entries[:last]
	return snap, nil
}

// Peek returns the most recent snapshot without removing it.
func (s *Stack) Peek() (Snapshot, bool) {
	if len(s.entries) == 0 {
		return Snapshot{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len returns the number of snapshots on the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear removes all snapshots.
func (s *Stack) Clear() {
	s.entries = nil
}

// MaxEntries returns the stack limit, 0 when unbounded.
func (s *Stack) MaxEntries() int {
	return s.maxEntries
}

// SetMaxEntries changes the limit. If the stack is larger than the new
// limit, the oldest snapshots are removed. Zero or less removes the limit.
func (s *Stack) SetMaxEntries(maxEntries int) {
	s.maxEntries = max(maxEntries, 0)
	s.trim()
}

func (s *Stack) trim() {
	if s.maxEntries == 0 || len(s.entries) <= s.maxEntries {
		return
	}
	excess := len(s.entries) - s.maxEntries
	s.entries = append([]Snapshot(nil), s.entries[excess:]...)
}
