package merge

// treeBuilder constructs the complete tournament in its implicit array
// representation: every internal node stores the losing leaf of the match
// played there, and the overall winner is returned to the caller.
//
// The tree is complete rather than padded to a power of two, so leaf count
// equals source count exactly and the array holds k-1 internal slots.
type treeBuilder struct {
	compare func(a, b int32) int // compares the heads of two leaves
	losers  []int32
}

// buildTree plays the initial round over k leaves, filling losers (which
// must have length k-1) and returning the winning leaf. Costs exactly k-1
// comparisons.
func buildTree(k int, compare func(a, b int32) int, losers []int32) int32 {
	b := &treeBuilder{compare: compare, losers: losers}
	return b.complete(0, int32(k), 0)
}

// perfect handles a subtree whose leaf range [lo, hi) has power-of-two size.
func (b *treeBuilder) perfect(lo, hi int32, root node) int32 {
	if hi-lo == 1 {
		return lo
	}
	mid := lo + (hi-lo)/2
	left := b.perfect(lo, mid, root.left())
	right := b.perfect(mid, hi, root.right())
	return b.commit(left, right, root)
}

// complete handles an arbitrary leaf range, splitting it so that one child
// is a perfect tree and the other absorbs the overhang.
func (b *treeBuilder) complete(lo, hi int32, root node) int32 {
	total := int(hi - lo)
	if total&(total-1) == 0 {
		return b.perfect(lo, hi, root)
	}

	ifFull := nextPowerOfTwo(total)
	lowerLevel := (total - ifFull/2) * 2

	if lowerLevel >= ifFull/2 {
		// The left half fills completely; the overhang is on the right.
		mid := lo + int32(ifFull/2)
		left := b.perfect(lo, mid, root.left())
		right := b.complete(mid, hi, root.right())
		return b.commit(left, right, root)
	}
	// Not enough leaves to fill the left half, so the perfect subtree sits
	// on the right with half the upper level's width.
	rightSize := ifFull / 4
	mid := lo + int32(total-rightSize)
	left := b.complete(lo, mid, root.left())
	right := b.perfect(mid, hi, root.right())
	return b.commit(left, right, root)
}

// commit plays one match: the loser is recorded at the node, the winner
// ascends. Ties go left, which keeps the leaf order deterministic.
func (b *treeBuilder) commit(a, c int32, root node) int32 {
	if b.compare(a, c) <= 0 {
		b.losers[root] = c
		return a
	}
	b.losers[root] = a
	return c
}
