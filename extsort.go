package extsort

import (
	"cmp"
	"context"
	"iter"

	exterrors "github.com/tamirms/extsort/errors"
)

// Sort sorts seq by the natural order on T. The input is consumed entirely
// before Sort returns; the result streams elements in ascending order.
//
// Elements cross to disk and back by raw byte reinterpretation, so T must
// not contain pointers in any position (see the package documentation).
// The sort is not stable.
func Sort[T cmp.Ordered](ctx context.Context, seq iter.Seq[T], opts ...Option) (*Iterator[T], error) {
	if seq == nil {
		return nil, exterrors.ErrNilInput
	}
	return sortSeq(ctx, seq, cmp.Compare[T], opts)
}

// SortFunc sorts seq by the given three-way comparator, which must define a
// total order: compare(a, b) < 0 when a sorts before b, 0 when they are
// equivalent, > 0 when a sorts after b. Behavior under a comparator that is
// not a total order is undefined, as with any comparison sort.
func SortFunc[T any](ctx context.Context, seq iter.Seq[T], compare func(a, b T) int, opts ...Option) (*Iterator[T], error) {
	if seq == nil {
		return nil, exterrors.ErrNilInput
	}
	if compare == nil {
		return nil, exterrors.ErrNilComparator
	}
	return sortSeq(ctx, seq, compare, opts)
}

// SortByKey sorts seq by the natural order on the keys the extractor
// produces. The key function is called on both sides of every comparison;
// extract cheap keys or precompute them into the element itself.
func SortByKey[T any, K cmp.Ordered](ctx context.Context, seq iter.Seq[T], key func(T) K, opts ...Option) (*Iterator[T], error) {
	if seq == nil {
		return nil, exterrors.ErrNilInput
	}
	if key == nil {
		return nil, exterrors.ErrNilKeyFunc
	}
	return sortSeq(ctx, seq, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}, opts)
}
