package renderer

import (
	"strings"
	"unicode"

	"github.com/dshills/snapedit/internal/engine"
	"github.com/dshills/snapedit/internal/renderer/backend"
)

// Renderer draws frames onto a backend.
// It is not safe for concurrent use.
type Renderer struct {
	backend    backend.Backend
	viewport   *Viewport
	statusLine bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStatusLine reserves the bottom row for the status line.
func WithStatusLine(enabled bool) Option {
	return func(r *Renderer) {
		r.statusLine = enabled
	}
}

// WithScrollOff sets the viewport scroll margin.
func WithScrollOff(n int) Option {
	return func(r *Renderer) {
		r.viewport.SetScrollOff(n)
	}
}

// New creates a renderer for b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{
		backend:  b,
		viewport: NewViewport(b.Size()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Viewport returns the renderer's viewport.
func (r *Renderer) Viewport() *Viewport {
	return r.viewport
}

// SetScrollOff changes the viewport scroll margin.
func (r *Renderer) SetScrollOff(n int) {
	r.viewport.SetScrollOff(n)
}

// SetStatusLine toggles the status line.
func (r *Renderer) SetStatusLine(enabled bool) {
	r.statusLine = enabled
}

// Render draws one frame: the visible lines, the status line and the cursor.
func (r *Renderer) Render(state engine.State, status Status) {
	width, height := r.backend.Size()
	textHeight := height
	if r.statusLine && height > 1 {
		textHeight--
	}

	cur := state.Cursor
	r.viewport.Resize(width, textHeight)
	r.viewport.EnsureVisible(cur.Row, cur.Col)

	r.backend.Clear()

	top, left := r.viewport.Top(), r.viewport.Left()
	for y := 0; y < textHeight; y++ {
		line, err := state.Buffer.Line(top + y)
		if err != nil {
			break
		}
		r.drawLine(y, line, left, width)
	}

	if r.statusLine && height > 1 {
		r.drawStatus(height-1, status.Format(cur.Row, cur.Col, width))
	}

	if x, y, ok := r.viewport.ToScreen(cur.Row, cur.Col); ok {
		r.backend.ShowCursor(x, y)
	} else {
		r.backend.HideCursor()
	}

	r.backend.Show()
}

// drawLine draws text starting at column left. The trailing newline is not
// drawn and other control characters show as '?' so that columns stay
// aligned with the cursor.
func (r *Renderer) drawLine(y int, line string, left, width int) {
	line = strings.TrimSuffix(line, "\n")
	x, col := 0, 0
	for _, ch := range line {
		if col >= left {
			if x >= width {
				return
			}
			r.backend.SetCell(x, y, displayRune(ch), backend.StyleDefault)
			x++
		}
		col++
	}
}

func (r *Renderer) drawStatus(y int, text string) {
	x := 0
	for _, ch := range text {
		r.backend.SetCell(x, y, ch, backend.StyleReverse)
		x++
	}
}

func displayRune(ch rune) rune {
	switch {
	case ch == '\t':
		return ' '
	case !unicode.IsPrint(ch):
		return '?'
	default:
		return ch
	}
}
