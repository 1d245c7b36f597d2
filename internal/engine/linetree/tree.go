package linetree

import (
	"iter"
	"strings"
)

// Tree is an immutable sequence of lines.
// The zero value is an empty tree.
type Tree struct {
	root *node
}

// FromSlice builds a tree holding a copy of lines.
func FromSlice(lines []string) Tree {
	if len(lines) == 0 {
		return Tree{}
	}

	// Build leaves
	var nodes []*node
	for i := 0; i < len(lines); i += MaxLinesPerLeaf {
		end := min(i+MaxLinesPerLeaf, len(lines))
		leafLines := make([]string, end-i)
		copy(leafLines, lines[i:end])
		nodes = append(nodes, newLeaf(leafLines))
	}

	// Build tree bottom-up
	for len(nodes) > 1 {
		var parents []*node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := min(i+MaxChildren, len(nodes))
			children := make([]*node, end-i)
			copy(children, nodes[i:end])
			parents = append(parents, newInternal(children))
		}
		nodes = parents
	}

	return Tree{root: nodes[0]}
}

// Len returns the number of lines.
func (t Tree) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.count
}

// At returns line i. It panics if i is out of range, like a slice index.
func (t Tree) At(i int) string {
	if i < 0 || i >= t.Len() {
		panic("linetree: index out of range")
	}
	return t.root.at(i)
}

// Set returns a tree with line i replaced. The receiver is not modified.
// It panics if i is out of range.
func (t Tree) Set(i int, line string) Tree {
	if i < 0 || i >= t.Len() {
		panic("linetree: index out of range")
	}
	return Tree{root: t.root.set(i, line)}
}

// Same reports whether t and other share one root, which makes them equal
// without comparing lines. Trees built separately are never Same.
func (t Tree) Same(other Tree) bool {
	return t.root == other.root
}

// All returns an iterator over the lines in order.
// The iterator may be ranged over any number of times.
func (t Tree) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if t.root == nil {
			return
		}
		t.root.each(yield)
	}
}

// Slice returns the lines as a new slice.
func (t Tree) Slice() []string {
	out := make([]string, 0, t.Len())
	for line := range t.All() {
		out = append(out, line)
	}
	return out
}

// String returns all lines concatenated.
func (t Tree) String() string {
	var sb strings.Builder
	for line := range t.All() {
		sb.WriteString(line)
	}
	return sb.String()
}

// Height returns the height of the tree (0 for a single leaf).
func (t Tree) Height() int {
	if t.root == nil {
		return 0
	}
	return int(t.root.height)
}
