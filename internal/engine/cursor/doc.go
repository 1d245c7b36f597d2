// Package cursor provides the editor cursor.
//
// A Cursor is an immutable (row, column) value. Movement operations take the
// buffer the cursor lives in, through the Bounds interface, and return a new
// Cursor:
//
//	c := cursor.New(0, 0)
//	c = c.Forward(buf)
//	c = c.Down(buf)
//
// Movement keeps the row a valid buffer row and clamps the column to
// [0, LineLen(row)], where LineLen includes the line's trailing newline.
//
// Thread Safety:
//
// Cursor is a value type and safe for concurrent use.
package cursor
