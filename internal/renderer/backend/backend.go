// Package backend provides the terminal abstraction used by the renderer.
//
// A Backend owns the display and the keyboard. Key events are reduced to
// the editor's input codes: printable characters and control codes arrive
// as KeyRune with the code in Rune, and only the arrow keys keep a
// separate identity.
package backend

// Style selects how a cell is drawn.
type Style int

const (
	StyleDefault Style = iota
	StyleReverse
)

// EventType identifies the type of terminal event.
type EventType int

const (
	// EventNone is an event the editor does not handle.
	EventNone EventType = iota
	// EventKey is a keystroke.
	EventKey
	// EventResize reports new terminal dimensions.
	EventResize
	// EventClosed means no further events will arrive.
	EventClosed
)

// Key identifies a keystroke.
type Key int

const (
	// KeyRune is an input code carried in Event.Rune.
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int
}

// KeyEvent returns a key event carrying an input code.
func KeyEvent(code rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: code}
}

// ArrowEvent returns a key event for an arrow key.
func ArrowEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// Backend defines the interface for terminal backends.
type Backend interface {
	// Init prepares the terminal for drawing and input.
	// Must be called before any other methods.
	Init() error

	// Shutdown restores the terminal. A blocked PollEvent returns
	// EventClosed once Shutdown has been called.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// Clear blanks the drawing surface.
	Clear()

	// SetCell sets a single cell. Positions outside the terminal are ignored.
	SetCell(x, y int, r rune, style Style)

	// Show flushes drawn cells to the display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent waits for and returns the next event.
	PollEvent() Event
}
