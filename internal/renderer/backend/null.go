package backend

import "sync"

// Null is an in-memory backend for tests and headless runs. Events are
// queued with Post and drawn frames are kept in a Grid.
type Null struct {
	mu            sync.Mutex
	grid          *Grid
	shown         []string
	frames        int
	cursorX       int
	cursorY       int
	cursorVisible bool

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewNull creates a null backend with the given dimensions and queued events.
func NewNull(width, height int, events ...Event) *Null {
	n := &Null{
		grid:   NewGrid(width, height),
		events: make(chan Event, max(len(events), 64)),
		done:   make(chan struct{}),
	}
	for _, ev := range events {
		n.events <- ev
	}
	return n
}

// NewNullKeys creates a null backend with one key event per input code.
func NewNullKeys(width, height int, codes ...rune) *Null {
	events := make([]Event, len(codes))
	for i, c := range codes {
		events[i] = KeyEvent(c)
	}
	return NewNull(width, height, events...)
}

func (n *Null) Init() error { return nil }

// Shutdown releases a blocked PollEvent.
func (n *Null) Shutdown() {
	n.once.Do(func() { close(n.done) })
}

func (n *Null) Size() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.grid.Size()
}

// Resize changes the dimensions and queues a resize event.
func (n *Null) Resize(width, height int) {
	n.mu.Lock()
	n.grid.Resize(width, height)
	n.mu.Unlock()
	n.Post(Event{Type: EventResize, Width: width, Height: height})
}

func (n *Null) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.grid.Clear()
}

func (n *Null) SetCell(x, y int, r rune, style Style) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.grid.Set(x, y, r, style)
}

// Show snapshots the grid rows.
func (n *Null) Show() {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, h := n.grid.Size()
	n.shown = make([]string, h)
	for y := range n.shown {
		n.shown[y] = n.grid.Row(y)
	}
	n.frames++
}

func (n *Null) ShowCursor(x, y int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cursorX, n.cursorY, n.cursorVisible = x, y, true
}

func (n *Null) HideCursor() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cursorVisible = false
}

// PollEvent returns the next queued event, blocking until one is posted or
// Shutdown is called.
func (n *Null) PollEvent() Event {
	select {
	case ev := <-n.events:
		return ev
	case <-n.done:
		return Event{Type: EventClosed}
	}
}

// Post queues an event.
func (n *Null) Post(ev Event) {
	select {
	case n.events <- ev:
	case <-n.done:
	}
}

// Screen returns the rows as of the last Show, trailing blanks removed.
func (n *Null) Screen() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, len(n.shown))
	copy(out, n.shown)
	return out
}

// Frames returns how many times Show was called.
func (n *Null) Frames() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.frames
}

// Cursor returns the cursor position and visibility.
func (n *Null) Cursor() (x, y int, visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cursorX, n.cursorY, n.cursorVisible
}

// Style returns the style of a drawn cell.
func (n *Null) Style(x, y int) Style {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, s := n.grid.Get(x, y)
	return s
}
