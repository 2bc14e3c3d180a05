package merge

import "testing"

func TestPrevPowerOfTwo(t *testing.T) {
	cases := map[int]int{
		1: 1, 2: 2, 3: 2, 4: 4, 5: 4, 7: 4, 8: 8, 9: 8, 255: 128, 256: 256,
	}
	for in, want := range cases {
		if got := prevPowerOfTwo(in); got != want {
			t.Errorf("prevPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{
		1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16, 255: 256, 256: 256,
	}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

// TestNodeForLeaf pins the slot assignment of every leaf for small complete
// trees. The expected arrays are index i -> implicit tree slot of leaf i.
func TestNodeForLeaf(t *testing.T) {
	expected := [][]int{
		{1, 2},
		{3, 4, 2},
		{3, 4, 5, 6},
		{7, 8, 4, 5, 6},
		{7, 8, 9, 10, 5, 6},
		{7, 8, 9, 10, 11, 12, 6},
		{7, 8, 9, 10, 11, 12, 13, 14},
		{15, 16, 8, 9, 10, 11, 12, 13, 14},
	}
	for _, want := range expected {
		treeSize := len(want)
		for leaf, slot := range want {
			got := nodeForLeaf(int32(leaf), treeSize)
			if got != node(slot) {
				t.Errorf("nodeForLeaf(%d, %d) = %d, want %d", leaf, treeSize, got, slot)
			}
		}
	}
}

func TestNodeNavigation(t *testing.T) {
	root := node(0)
	if !root.isRoot() {
		t.Fatal("node 0 should be the root")
	}
	if root.parent() != root {
		t.Errorf("parent of root = %d, want 0", root.parent())
	}
	if root.left() != 1 || root.right() != 2 {
		t.Errorf("children of root = (%d, %d), want (1, 2)", root.left(), root.right())
	}
	for _, n := range []node{1, 2, 5, 6, 13, 14} {
		if n.parent().left() != n && n.parent().right() != n {
			t.Errorf("node %d is not a child of its parent %d", n, n.parent())
		}
	}
}
