// Package merge selects the minimum element across many sorted sources
// using a loser-tree tournament.
//
// A loser tree performs at most ceil(log2(K)) comparisons per yielded
// element: after the winner is consumed, only the path from its leaf to the
// root is replayed, and each internal node on that path already stores the
// loser of its subtree. In the complete (non-padded) tree used here, leaves
// on the upper level sit one step closer to the root and cost one fewer. A binary heap would pay up to twice that for the
// equivalent pop+push. The replay path depends only on the winner's leaf
// index, never on the data, which keeps the access pattern predictable for
// the readers' readahead windows.
package merge

// Source is one sorted sequence entering the tournament. It matches the
// run package's Source shape; exhausted sources stay in the tree as
// "infinity" leaves that lose every match against a live source.
type Source[T any] interface {
	Peek() *T
	Next() (T, bool)
	Remaining() int
}

// LoserTree merges K sources into one ordered stream.
//
// The tree size is fixed at construction for the life of the merge: sources
// that drain are never removed, their leaves simply hold infinity from then
// on. With zero or one source the tree degenerates to direct pass-through.
type LoserTree[T any] struct {
	sources []Source[T]
	compare func(a, b T) int
	losers  []int32
	winner  int32
}

// New builds the tournament over the given sources. Construction plays one
// full initial round: O(K) comparisons.
func New[T any](sources []Source[T], compare func(a, b T) int) *LoserTree[T] {
	t := &LoserTree[T]{sources: sources, compare: compare}
	if len(sources) > 1 {
		t.losers = make([]int32, len(sources)-1)
		t.winner = buildTree(len(sources), t.compareLeaves, t.losers)
	}
	return t
}

// compareLeaves orders two leaves by their current heads. A live source
// beats an exhausted one; two exhausted sources compare equal.
func (t *LoserTree[T]) compareLeaves(a, b int32) int {
	pa := t.sources[a].Peek()
	pb := t.sources[b].Peek()
	switch {
	case pa != nil && pb != nil:
		return t.compare(*pa, *pb)
	case pa != nil:
		return -1
	case pb != nil:
		return 1
	default:
		return 0
	}
}

// Peek returns the overall minimum without consuming it, or nil when every
// source is exhausted.
func (t *LoserTree[T]) Peek() *T {
	switch len(t.sources) {
	case 0:
		return nil
	case 1:
		return t.sources[0].Peek()
	}
	return t.sources[t.winner].Peek()
}

// Next consumes and returns the overall minimum. Once it returns false it
// never yields again.
func (t *LoserTree[T]) Next() (T, bool) {
	switch len(t.sources) {
	case 0:
		var zero T
		return zero, false
	case 1:
		return t.sources[0].Next()
	}

	v, ok := t.sources[t.winner].Next()
	if !ok {
		// The winner is exhausted, so an infinity leaf won the last replay:
		// every source is drained.
		var zero T
		return zero, false
	}
	t.winner = t.replay(t.winner)
	return v, true
}

// replay walks from the previous winner's leaf to the root, playing each
// stored loser against the ascending winner. Exactly the depth of the leaf
// in comparisons.
func (t *LoserTree[T]) replay(prev int32) int32 {
	winner := prev
	n := nodeForLeaf(prev, len(t.sources)).parent()
	for {
		challenger := t.losers[n]
		if t.compareLeaves(challenger, winner) < 0 {
			t.losers[n] = winner
			winner = challenger
		}
		if n.isRoot() {
			return winner
		}
		n = n.parent()
	}
}

// Len reports the total number of elements the merge will still yield.
func (t *LoserTree[T]) Len() int {
	total := 0
	for _, s := range t.sources {
		total += s.Remaining()
	}
	return total
}
