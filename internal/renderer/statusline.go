package renderer

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Status is the information shown on the status line.
type Status struct {
	// FileName is the edited file, empty for an unnamed buffer.
	FileName string
	// Modified marks unsaved changes.
	Modified bool
	// UndoDepth is the number of undoable states.
	UndoDepth int
	// Message is a transient notice, such as the last error.
	Message string
}

// Format lays out the status line for a cursor position within width
// cells. The message is right-aligned and dropped first when space runs out.
func (s Status) Format(row, col, width int) string {
	name := "[No Name]"
	if s.FileName != "" {
		name = filepath.Base(s.FileName)
	}
	if s.Modified {
		name += " [+]"
	}

	left := fmt.Sprintf(" %s  %d:%d  undo %d ", name, row+1, col+1, s.UndoDepth)
	if s.Message == "" {
		return fit(left, width)
	}

	right := s.Message + " "
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		return fit(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// fit pads or truncates s to exactly width runes.
func fit(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:max(width, 0)])
	}
	return s + strings.Repeat(" ", width-n)
}
