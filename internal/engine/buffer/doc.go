// Package buffer provides the immutable line buffer of the editor.
//
// A Buffer is an ordered sequence of lines. Each line keeps its trailing
// newline, exactly as read from the file; only the last line may lack one.
// Columns are character (rune) offsets within a line and the newline counts
// as an ordinary trailing character.
//
// Buffers are values. Insert and Delete never modify the receiver; they return
// a new Buffer that shares every untouched line with the original:
//
//	b := buffer.New([]string{"ab\n"})
//	b2, _ := b.Insert('X', 0, 0)
//	b.Text()  // "ab\n"
//	b2.Text() // "Xab\n"
//
// Out-of-range positions are rejected with an error wrapping ErrOutOfRange;
// a Buffer is never read or written out of bounds.
package buffer
