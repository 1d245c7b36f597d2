// Package linetree provides a persistent B+ tree of text lines.
//
// A Tree is an immutable value. Leaf nodes hold runs of lines and internal
// nodes hold child references together with the number of lines beneath each
// child. Replacing a line copies only the leaf that contains it and the nodes
// on the path up to the root; every other node is shared with the original
// tree.
//
// Basic usage:
//
//	t := linetree.FromSlice([]string{"one\n", "two\n", "three"})
//	t2 := t.Set(1, "TWO\n")
//	t.At(1)  // "two\n"
//	t2.At(1) // "TWO\n"
//
// Because nothing is ever mutated in place, trees are safe to keep around as
// snapshots and safe for concurrent readers.
package linetree
