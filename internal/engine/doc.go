// Package engine provides the edit session at the core of snapedit.
//
// A Session owns the current editor state, a (Buffer, Cursor) pair, together
// with a stack of prior states for undo. It turns one input code at a time
// into a new state:
//
//	s := engine.New(buffer.FromString("ab\n"))
//	s.Handle('X')  // buffer "Xab\n", cursor (0,1)
//	s.Handle(0x12) // ^r: undo, back to "ab\n" and (0,0)
//
// # Commands
//
// Input codes are classified by a key.Keymap. Movement commands replace the
// cursor. Insert and Delete replace both halves of the state and push the
// previous state onto the history first. Undo pops the most recent state
// back; with nothing to undo it does nothing.
//
// Quit and Save do not change the state. They are reported in the Result so
// the caller can end the session or write the buffer out; a Session never
// touches the terminal or the file system.
//
// # Errors
//
// An edit aimed outside the buffer, such as Delete at column 0, returns an
// error wrapping ErrOutOfRange and leaves the state and history untouched.
// Unbound control codes return ErrUnknownCommand.
//
// # Thread Safety
//
// A Session is owned by a single goroutine and is not safe for concurrent
// use. The states it hands out are immutable values and may be shared freely.
package engine
