package cursor

import (
	"testing"

	"github.com/dshills/snapedit/internal/engine/buffer"
)

// lineBounds is a Bounds backed by a slice of line lengths.
type lineBounds []int

func (l lineBounds) LineCount() int { return len(l) }

func (l lineBounds) LineLen(row int) int {
	if row < 0 || row >= len(l) {
		return 0
	}
	return l[row]
}

func TestNew(t *testing.T) {
	if c := New(-1, -5); c != (Cursor{}) {
		t.Errorf("New(-1,-5) = %v, want (0,0)", c)
	}
	if c := New(2, 3); c.Row != 2 || c.Col != 3 {
		t.Errorf("New(2,3) = %v", c)
	}
}

func TestUp(t *testing.T) {
	b := lineBounds{3, 10}
	tests := []struct {
		name string
		in   Cursor
		want Cursor
	}{
		{"top stays", New(0, 2), New(0, 2)},
		{"moves up", New(1, 1), New(0, 1)},
		{"clamps col", New(1, 8), New(0, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Up(b); got != tt.want {
				t.Errorf("Up() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpIdempotentAtTop(t *testing.T) {
	b := lineBounds{4, 4}
	for _, c := range []Cursor{New(0, 0), New(0, 3), New(1, 2)} {
		once := c.Up(b)
		if once.Up(b).Up(b) != once.Up(b) {
			t.Errorf("Up not idempotent at top from %v", c)
		}
	}
	c := New(0, 1)
	if c.Up(b).Up(b) != c.Up(b) {
		t.Error("cursor.Up().Up() != cursor.Up() at row 0")
	}
}

func TestDown(t *testing.T) {
	b := buffer.New([]string{"a\n", "b\n"})

	c := New(0, 0).Down(b)
	if c.Row != 1 {
		t.Fatalf("Down() row = %d, want 1", c.Row)
	}
	c = c.Down(b)
	if c.Row != 1 {
		t.Errorf("Down() past last row gave row %d, want 1", c.Row)
	}
}

func TestDownClampsCol(t *testing.T) {
	b := lineBounds{10, 2}
	if got := New(0, 7).Down(b); got != New(1, 2) {
		t.Errorf("Down() = %v, want (1,2)", got)
	}
}

func TestDownSingleLine(t *testing.T) {
	b := lineBounds{5}
	if got := New(0, 3).Down(b); got != New(0, 3) {
		t.Errorf("Down() on single line = %v", got)
	}
}

func TestForward(t *testing.T) {
	b := buffer.New([]string{"ab\n"})
	c := New(0, 0)
	for i := 0; i < 10; i++ {
		c = c.Forward(b)
		if c.Col > b.LineLen(0) {
			t.Fatalf("Forward produced col %d > LineLen %d", c.Col, b.LineLen(0))
		}
	}
	if c.Col != 3 {
		t.Errorf("Forward stopped at col %d, want 3", c.Col)
	}
}

func TestBackward(t *testing.T) {
	b := lineBounds{5}
	if got := New(0, 2).Backward(b); got != New(0, 1) {
		t.Errorf("Backward() = %v, want (0,1)", got)
	}
	if got := New(0, 0).Backward(b); got != New(0, 0) {
		t.Errorf("Backward() at col 0 = %v, want (0,0)", got)
	}
}

func TestRight(t *testing.T) {
	b := lineBounds{4}
	if got := New(0, 2).Right(b); got != New(0, 3) {
		t.Errorf("Right() = %v, want (0,3)", got)
	}
	if got := New(0, 4).Right(b); got != New(0, 4) {
		t.Errorf("Right() at end = %v, want (0,4)", got)
	}
}

func TestLeft(t *testing.T) {
	b := lineBounds{4}
	if got := New(0, 2).Left(b); got != New(0, 1) {
		t.Errorf("Left() = %v, want (0,1)", got)
	}
	if got := New(0, 0).Left(b); got.Col != 0 {
		t.Errorf("Left() at col 0 gave col %d, want 0", got.Col)
	}
}

func TestMovesDoNotChangeLineCount(t *testing.T) {
	b := buffer.New([]string{"ab\n", "cde\n", "f"})
	moves := []func(Cursor) Cursor{
		func(c Cursor) Cursor { return c.Up(b) },
		func(c Cursor) Cursor { return c.Down(b) },
		func(c Cursor) Cursor { return c.Forward(b) },
		func(c Cursor) Cursor { return c.Backward(b) },
		func(c Cursor) Cursor { return c.Right(b) },
		func(c Cursor) Cursor { return c.Left(b) },
	}

	c := New(0, 0)
	for i := 0; i < 60; i++ {
		c = moves[(i*7)%len(moves)](c)
		if b.LineCount() != 3 {
			t.Fatalf("LineCount changed to %d", b.LineCount())
		}
		if c.Row < 0 || c.Row >= b.LineCount() {
			t.Fatalf("cursor row %d out of range", c.Row)
		}
		if c.Col < 0 || c.Col > b.LineLen(c.Row) {
			t.Fatalf("cursor col %d out of range for row %d", c.Col, c.Row)
		}
	}
}

func TestCursorString(t *testing.T) {
	if s := New(1, 2).String(); s != "Cursor(1,2)" {
		t.Errorf("String() = %q", s)
	}
}

func TestCursorIsValue(t *testing.T) {
	b := lineBounds{5, 5}
	c := New(0, 1)
	_ = c.Down(b)
	_ = c.Forward(b)
	if c != New(0, 1) {
		t.Error("movement modified the receiver")
	}
}
