package buffer

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a row or column outside the valid bounds of an operation.
var ErrOutOfRange = errors.New("position out of range")

// RangeError describes a rejected position.
type RangeError struct {
	Op  string // "insert", "delete" or "line"
	Row int
	Col int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s at (%d,%d): %s", e.Op, e.Row, e.Col, ErrOutOfRange)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
