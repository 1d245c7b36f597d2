package renderer

// Viewport tracks the visible window of the buffer.
type Viewport struct {
	top, left     int
	width, height int
	scrollOff     int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{}
	v.Resize(width, height)
	return v
}

// Resize changes the visible size.
func (v *Viewport) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// SetScrollOff sets how many rows are kept visible above and below the
// cursor when scrolling. It is reduced on viewports too short to honor it.
func (v *Viewport) SetScrollOff(n int) {
	v.scrollOff = max(n, 0)
}

// Top returns the first visible row.
func (v *Viewport) Top() int { return v.top }

// Left returns the first visible column.
func (v *Viewport) Left() int { return v.left }

// Width returns the visible width.
func (v *Viewport) Width() int { return v.width }

// Height returns the visible height.
func (v *Viewport) Height() int { return v.height }

// EnsureVisible scrolls the minimum amount that brings (row, col) on screen.
func (v *Viewport) EnsureVisible(row, col int) {
	off := min(v.scrollOff, (v.height-1)/2)

	if row-off < v.top {
		v.top = max(row-off, 0)
	}
	if row+off >= v.top+v.height {
		v.top = row + off - v.height + 1
	}

	if col < v.left {
		v.left = col
	}
	if col >= v.left+v.width {
		v.left = col - v.width + 1
	}
}

// ToScreen converts a buffer position to screen coordinates and reports
// whether it is visible.
func (v *Viewport) ToScreen(row, col int) (x, y int, visible bool) {
	x, y = col-v.left, row-v.top
	return x, y, x >= 0 && x < v.width && y >= 0 && y < v.height
}
