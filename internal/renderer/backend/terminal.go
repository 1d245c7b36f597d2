package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen creates a terminal backend on an existing screen,
// such as a tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Clear clears the screen.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// SetCell sets a single cell.
func (t *Terminal) SetCell(x, y int, r rune, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, r, nil, convertStyle(style))
}

// Show flushes changes to the display.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// ShowCursor positions and displays the cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

// HideCursor hides the cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent waits for the next event. It does not hold the lock, so
// drawing can proceed from another goroutine while it blocks.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventClosed}
	}
	return convertEvent(ev)
}

func convertStyle(s Style) tcell.Style {
	if s == StyleReverse {
		return tcell.StyleDefault.Reverse(true)
	}
	return tcell.StyleDefault
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKey(e)

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey reduces a tcell key to an input code or an arrow key.
// tcell reports control keys with Key values equal to their ASCII codes.
func convertKey(e *tcell.EventKey) Event {
	switch k := e.Key(); {
	case k == tcell.KeyRune && e.Modifiers()&tcell.ModCtrl != 0 && isLetter(e.Rune()):
		return KeyEvent(e.Rune() & 0x1f)
	case k == tcell.KeyRune:
		return KeyEvent(e.Rune())
	case k == tcell.KeyUp:
		return ArrowEvent(KeyUp)
	case k == tcell.KeyDown:
		return ArrowEvent(KeyDown)
	case k == tcell.KeyLeft:
		return ArrowEvent(KeyLeft)
	case k == tcell.KeyRight:
		return ArrowEvent(KeyRight)
	case k == tcell.KeyEnter:
		return KeyEvent('\n')
	case k == tcell.KeyTab:
		return KeyEvent('\t')
	case k == tcell.KeyBackspace, k == tcell.KeyBackspace2:
		return KeyEvent(0x7f)
	case k < 0x20:
		return KeyEvent(rune(k))
	default:
		return Event{Type: EventNone}
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
