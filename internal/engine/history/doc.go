// Package history provides the undo stack of the editor.
//
// Undo works on whole-state snapshots rather than inverse operations. A
// Snapshot is the (Buffer, Cursor) pair held before a mutating command; both
// halves are immutable values, so a snapshot shares all of its structure with
// the live state and costs almost nothing to keep.
//
//	stack := history.NewStack(0) // unbounded
//	stack.Push(history.Snapshot{Buffer: buf, Cursor: cur})
//	prev, err := stack.Pop()
//
// The stack is last-in-first-out. A limit, when set, discards the oldest
// snapshots first.
package history
