package backend

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Escape sequences written by ANSI.
const (
	seqClear      = "\x1b[2J\x1b[H"
	seqShowCursor = "\x1b[?25h"
	seqHideCursor = "\x1b[?25l"
)

// ANSI implements Backend by writing escape sequences directly, with the
// terminal put in raw mode through golang.org/x/term. Each Show redraws the
// whole screen.
type ANSI struct {
	in  io.Reader
	out io.Writer
	fd  int

	mu            sync.Mutex
	grid          *Grid
	state         *term.State
	cursorX       int
	cursorY       int
	cursorVisible bool

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewANSI creates an ANSI backend on standard input and output.
func NewANSI() *ANSI {
	return NewANSIWithIO(os.Stdin, os.Stdout, 80, 24)
}

// NewANSIWithIO creates an ANSI backend on the given streams. Raw mode and
// size detection apply only when in is a terminal; otherwise width and
// height are used.
func NewANSIWithIO(in io.Reader, out io.Writer, width, height int) *ANSI {
	a := &ANSI{
		in:     in,
		out:    out,
		fd:     -1,
		grid:   NewGrid(width, height),
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.fd = int(f.Fd())
	}
	return a
}

// Init enters raw mode and starts reading input.
func (a *ANSI) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fd >= 0 {
		state, err := term.MakeRaw(a.fd)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		a.state = state
		if w, h, err := term.GetSize(a.fd); err == nil {
			a.grid.Resize(w, h)
		}
	}

	go a.readLoop()
	return nil
}

// Shutdown clears the screen and restores the terminal mode.
func (a *ANSI) Shutdown() {
	a.once.Do(func() {
		close(a.done)

		a.mu.Lock()
		defer a.mu.Unlock()

		_, _ = io.WriteString(a.out, seqClear+seqShowCursor)
		if a.state != nil {
			_ = term.Restore(a.fd, a.state)
		}
	})
}

// Size returns the current dimensions, following terminal resizes.
func (a *ANSI) Size() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fd >= 0 {
		if w, h, err := term.GetSize(a.fd); err == nil {
			if gw, gh := a.grid.Size(); gw != w || gh != h {
				a.grid.Resize(w, h)
			}
		}
	}
	return a.grid.Size()
}

// Clear blanks the grid.
func (a *ANSI) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.grid.Clear()
}

// SetCell sets a single cell.
func (a *ANSI) SetCell(x, y int, r rune, style Style) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.grid.Set(x, y, r, style)
}

// Show redraws the terminal from the grid.
func (a *ANSI) Show() {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, _ = io.WriteString(a.out, a.frame())
}

// frame renders the grid as one write: clear, rows, cursor placement.
func (a *ANSI) frame() string {
	var sb strings.Builder
	sb.WriteString(seqHideCursor)
	sb.WriteString(seqClear)

	_, height := a.grid.Size()
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteString("\r\n")
		}
		a.writeRow(&sb, y)
	}

	if a.cursorVisible {
		fmt.Fprintf(&sb, "\x1b[%d;%dH", a.cursorY+1, a.cursorX+1)
		sb.WriteString(seqShowCursor)
	}
	return sb.String()
}

func (a *ANSI) writeRow(sb *strings.Builder, y int) {
	width, _ := a.grid.Size()
	// Trailing default blanks are skipped; the screen was just cleared.
	end := width
	for end > 0 {
		r, style := a.grid.Get(end-1, y)
		if r != ' ' || style != StyleDefault {
			break
		}
		end--
	}

	current := StyleDefault
	for x := 0; x < end; x++ {
		r, style := a.grid.Get(x, y)
		if style != current {
			if style == StyleReverse {
				sb.WriteString("\x1b[7m")
			} else {
				sb.WriteString("\x1b[0m")
			}
			current = style
		}
		sb.WriteRune(r)
	}
	if current != StyleDefault {
		sb.WriteString("\x1b[0m")
	}
}

// ShowCursor positions and displays the cursor on the next Show.
func (a *ANSI) ShowCursor(x, y int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cursorX, a.cursorY, a.cursorVisible = x, y, true
}

// HideCursor hides the cursor on the next Show.
func (a *ANSI) HideCursor() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cursorVisible = false
}

// PollEvent waits for the next key or for Shutdown.
func (a *ANSI) PollEvent() Event {
	select {
	case ev, ok := <-a.events:
		if !ok {
			return Event{Type: EventClosed}
		}
		return ev
	case <-a.done:
		return Event{Type: EventClosed}
	}
}

// readLoop decodes input bytes into events until the input ends.
// A read blocked on the terminal outlives Shutdown; its result is dropped.
func (a *ANSI) readLoop() {
	defer close(a.events)

	r := bufio.NewReader(a.in)
	for {
		ev, err := decodeKey(r)
		if err != nil {
			return
		}
		if ev.Type == EventNone {
			continue
		}
		select {
		case a.events <- ev:
		case <-a.done:
			return
		}
	}
}

// decodeKey reads one keystroke. Raw terminals send Enter as CR and some
// send backspace as BS; both are mapped to the editor's codes. An escape
// followed immediately by "[A".."[D" is an arrow key.
func decodeKey(r *bufio.Reader) (Event, error) {
	ch, _, err := r.ReadRune()
	if err != nil {
		return Event{}, err
	}

	switch ch {
	case '\r':
		return KeyEvent('\n'), nil
	case 0x08:
		return KeyEvent(0x7f), nil
	case 0x1b:
		if r.Buffered() < 2 {
			return KeyEvent(ch), nil
		}
		if next, _ := r.Peek(1); next[0] != '[' {
			return KeyEvent(ch), nil
		}
		seq, _ := r.Peek(2)
		var k Key
		switch seq[1] {
		case 'A':
			k = KeyUp
		case 'B':
			k = KeyDown
		case 'C':
			k = KeyRight
		case 'D':
			k = KeyLeft
		default:
			return KeyEvent(ch), nil
		}
		_, _ = r.Discard(2)
		return ArrowEvent(k), nil
	}
	return KeyEvent(ch), nil
}
