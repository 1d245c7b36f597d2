package history

import (
	"errors"
	"testing"

	"github.com/dshills/snapedit/internal/engine/buffer"
	"github.com/dshills/snapedit/internal/engine/cursor"
)

func snap(text string, col int) Snapshot {
	return Snapshot{Buffer: buffer.FromString(text), Cursor: cursor.New(0, col)}
}

func TestPopEmpty(t *testing.T) {
	s := NewStack(0)
	_, err := s.Pop()
	if !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Pop() error = %v, want ErrEmptyHistory", err)
	}
	if _, ok := s.Peek(); ok {
		t.Error("Peek() on empty stack should return false")
	}
}

func TestPushPopOrder(t *testing.T) {
	s := NewStack(0)
	s.Push(snap("a", 0))
	s.Push(snap("b", 1))
	s.Push(snap("c", 2))

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	for _, want := range []string{"c", "b", "a"} {
		got, err := s.Pop()
		if err != nil {
			t.Fatalf("Pop() error = %v", err)
		}
		if got.Buffer.Text() != want {
			t.Errorf("Pop() = %q, want %q", got.Buffer.Text(), want)
		}
	}

	if s.Len() != 0 {
		t.Errorf("Len() = %d after popping everything", s.Len())
	}
}

func TestPeek(t *testing.T) {
	s := NewStack(0)
	s.Push(snap("a", 1))
	got, ok := s.Peek()
	if !ok || got.Cursor.Col != 1 {
		t.Errorf("Peek() = %v, %v", got, ok)
	}
	if s.Len() != 1 {
		t.Error("Peek() should not remove the snapshot")
	}
}

func TestUnboundedStack(t *testing.T) {
	s := NewStack(0)
	for i := 0; i < 5000; i++ {
		s.Push(snap("x", i))
	}
	if s.Len() != 5000 {
		t.Errorf("Len() = %d, want 5000", s.Len())
	}
}

func TestBoundedStackDropsOldest(t *testing.T) {
	s := NewStack(3)
	for i := 0; i < 5; i++ {
		s.Push(snap("x", i))
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	for _, want := range []int{4, 3, 2} {
		got, _ := s.Pop()
		if got.Cursor.Col != want {
			t.Errorf("Pop() col = %d, want %d", got.Cursor.Col, want)
		}
	}
}

func TestSetMaxEntries(t *testing.T) {
	s := NewStack(0)
	for i := 0; i < 10; i++ {
		s.Push(snap("x", i))
	}

	s.SetMaxEntries(4)
	if s.Len() != 4 || s.MaxEntries() != 4 {
		t.Errorf("Len() = %d, MaxEntries() = %d, want 4, 4", s.Len(), s.MaxEntries())
	}
	if top, _ := s.Peek(); top.Cursor.Col != 9 {
		t.Errorf("newest snapshot lost, top col = %d", top.Cursor.Col)
	}

	s.SetMaxEntries(-1)
	if s.MaxEntries() != 0 {
		t.Errorf("negative limit should mean unbounded, got %d", s.MaxEntries())
	}
}

func TestClear(t *testing.T) {
	s := NewStack(0)
	s.Push(snap("a", 0))
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Clear", s.Len())
	}
}
