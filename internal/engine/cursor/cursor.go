package cursor

import "fmt"

// Bounds is the view of a buffer that cursor movement needs.
type Bounds interface {
	// LineCount returns the number of lines.
	LineCount() int
	// LineLen returns the number of characters in row, newline included.
	LineLen(row int) int
}

// Cursor represents an insertion point in the buffer.
// Cursor is an immutable value type.
type Cursor struct {
	Row int
	Col int
}

// New creates a cursor at (row, col). Negative values are clamped to 0.
func New(row, col int) Cursor {
	return Cursor{Row: max(row, 0), Col: max(col, 0)}
}

// Up moves to the previous row, staying on row 0 at the top.
// The column is clamped to the length of the new row.
func (c Cursor) Up(b Bounds) Cursor {
	row := max(c.Row-1, 0)
	return Cursor{Row: row, Col: clampCol(c.Col, b.LineLen(row))}
}

// Down moves to the next row, staying on the last row at the bottom.
// The column is clamped to the length of the new row.
func (c Cursor) Down(b Bounds) Cursor {
	if c.Row+1 > b.LineCount()-1 {
		return c
	}
	row := c.Row + 1
	return Cursor{Row: row, Col: clampCol(c.Col, b.LineLen(row))}
}

// Forward moves one character right, stopping at the end of the line.
func (c Cursor) Forward(b Bounds) Cursor {
	if c.Col+1 > b.LineLen(c.Row) {
		return c
	}
	return Cursor{Row: c.Row, Col: c.Col + 1}
}

// Backward moves one character left, stopping at column 0.
func (c Cursor) Backward(_ Bounds) Cursor {
	if c.Col-1 < 0 {
		return c
	}
	return Cursor{Row: c.Row, Col: c.Col - 1}
}

// Right advances past a character that was just inserted at the cursor.
// The column never exceeds the line length.
func (c Cursor) Right(b Bounds) Cursor {
	return Cursor{Row: c.Row, Col: clampCol(c.Col+1, b.LineLen(c.Row))}
}

// Left steps back over a character that was just deleted before the cursor.
// The column never goes below 0.
func (c Cursor) Left(_ Bounds) Cursor {
	return Cursor{Row: c.Row, Col: max(c.Col-1, 0)}
}

// Equal returns true if two cursors are at the same position.
func (c Cursor) Equal(other Cursor) bool {
	return c == other
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(%d,%d)", c.Row, c.Col)
}

func clampCol(col, lineLen int) int {
	return min(max(col, 0), lineLen)
}
