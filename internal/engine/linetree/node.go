package linetree

// Tree shape constants.
const (
	// MaxLinesPerLeaf is the maximum number of lines stored in a leaf.
	MaxLinesPerLeaf = 32

	// MaxChildren is the maximum number of children of an internal node.
	MaxChildren = 8
)

// node is a node in the line tree.
// Leaf nodes (height == 0) contain lines.
// Internal nodes (height > 0) contain child references.
type node struct {
	height uint8
	count  int // lines in this subtree

	// Internal node fields
	children    []*node
	childCounts []int

	// Leaf node fields
	lines []string
}

// newLeaf creates a leaf holding the given lines.
func newLeaf(lines []string) *node {
	return &node{
		count: len(lines),
		lines: lines,
	}
}

// newInternal creates an internal node over the given children.
func newInternal(children []*node) *node {
	counts := make([]int, len(children))
	total := 0
	for i, child := range children {
		counts[i] = child.count
		total += child.count
	}
	return &node{
		height:      children[0].height + 1,
		count:       total,
		children:    children,
		childCounts: counts,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// clone creates a shallow copy of the node.
func (n *node) clone() *node {
	if n.isLeaf() {
		lines := make([]string, len(n.lines))
		copy(lines, n.lines)
		return &node{count: n.count, lines: lines}
	}

	children := make([]*node, len(n.children))
	copy(children, n.children)
	counts := make([]int, len(n.childCounts))
	copy(counts, n.childCounts)
	return &node{
		height:      n.height,
		count:       n.count,
		children:    children,
		childCounts: counts,
	}
}

// locate returns the child index containing line i and i relative to that child.
func (n *node) locate(i int) (int, int) {
	for idx, c := range n.childCounts {
		if i < c {
			return idx, i
		}
		i -= c
	}
	last := len(n.childCounts) - 1
	return last, n.childCounts[last] - 1
}

// at returns line i of the subtree.
func (n *node) at(i int) string {
	for !n.isLeaf() {
		idx, rel := n.locate(i)
		n, i = n.children[idx], rel
	}
	return n.lines[i]
}

// set returns a copy of the subtree with line i replaced.
// Only the nodes on the path to line i are copied.
func (n *node) set(i int, line string) *node {
	c := n.clone()
	if c.isLeaf() {
		c.lines[i] = line
		return c
	}
	idx, rel := c.locate(i)
	c.children[idx] = c.children[idx].set(rel, line)
	return c
}

// each calls yield for every line of the subtree in order.
// It stops and returns false as soon as yield does.
func (n *node) each(yield func(string) bool) bool {
	if n.isLeaf() {
		for _, line := range n.lines {
			if !yield(line) {
				return false
			}
		}
		return true
	}
	for _, child := range n.children {
		if !child.each(yield) {
			return false
		}
	}
	return true
}
