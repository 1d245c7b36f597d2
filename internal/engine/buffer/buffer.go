package buffer

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/dshills/snapedit/internal/engine/linetree"
)

// Buffer is an immutable sequence of text lines.
// The zero value has no lines; use New or FromString.
type Buffer struct {
	lines linetree.Tree
}

// New creates a buffer holding a copy of lines.
// A buffer always has at least one line, so an empty input yields a single
// empty line.
func New(lines []string) Buffer {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return Buffer{lines: linetree.FromSlice(lines)}
}

// FromString creates a buffer by splitting s after every newline.
func FromString(s string) Buffer {
	return New(SplitLines(s))
}

// SplitLines splits s after every newline, keeping the newlines.
// A trailing segment without a newline becomes the last line.
func SplitLines(s string) []string {
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Read Operations

// LineCount returns the number of lines.
func (b Buffer) LineCount() int {
	return b.lines.Len()
}

// LineLen returns the number of characters in row, including its newline.
// It returns 0 for a row outside the buffer.
func (b Buffer) LineLen(row int) int {
	if !b.validRow(row) {
		return 0
	}
	return utf8.RuneCountInString(b.lines.At(row))
}

// Line returns the text of row, including its newline.
func (b Buffer) Line(row int) (string, error) {
	if !b.validRow(row) {
		return "", &RangeError{Op: "line", Row: row}
	}
	return b.lines.At(row), nil
}

// Lines returns a lazy sequence of the lines in order.
// The sequence is finite and may be ranged over repeatedly.
func (b Buffer) Lines() iter.Seq[string] {
	return b.lines.All()
}

// Text returns the full buffer content.
func (b Buffer) Text() string {
	return b.lines.String()
}

// Equal reports whether two buffers hold the same lines.
// Buffers that share a tree compare in constant time.
func (b Buffer) Equal(other Buffer) bool {
	if b.lines.Same(other.lines) {
		return true
	}
	if b.LineCount() != other.LineCount() {
		return false
	}
	next, stop := iter.Pull(other.Lines())
	defer stop()
	for line := range b.Lines() {
		o, _ := next()
		if line != o {
			return false
		}
	}
	return true
}

func (b Buffer) validRow(row int) bool {
	return row >= 0 && row < b.lines.Len()
}

// Write Operations

// Insert returns a buffer with ch inserted before character col of row.
// col may equal LineLen(row), which places ch after the line's newline.
func (b Buffer) Insert(ch rune, row, col int) (Buffer, error) {
	if !b.validRow(row) {
		return b, &RangeError{Op: "insert", Row: row, Col: col}
	}
	line := b.lines.At(row)
	off, ok := byteOffset(line, col)
	if !ok {
		return b, &RangeError{Op: "insert", Row: row, Col: col}
	}
	return Buffer{lines: b.lines.Set(row, line[:off]+string(ch)+line[off:])}, nil
}

// Delete returns a buffer with character col of row removed.
// col must be less than LineLen(row).
func (b Buffer) Delete(row, col int) (Buffer, error) {
	if !b.validRow(row) {
		return b, &RangeError{Op: "delete", Row: row, Col: col}
	}
	line := b.lines.At(row)
	off, ok := byteOffset(line, col)
	if !ok || off == len(line) {
		return b, &RangeError{Op: "delete", Row: row, Col: col}
	}
	_, size := utf8.DecodeRuneInString(line[off:])
	return Buffer{lines: b.lines.Set(row, line[:off]+line[off+size:])}, nil
}

// byteOffset returns the byte offset of character col in line. An invalid
// UTF-8 byte counts as one character, matching utf8.RuneCountInString, so
// bytes outside the edit are kept exactly.
func byteOffset(line string, col int) (int, bool) {
	if col < 0 {
		return 0, false
	}
	off := 0
	for range col {
		if off >= len(line) {
			return 0, false
		}
		_, size := utf8.DecodeRuneInString(line[off:])
		off += size
	}
	return off, true
}
