package extsort

import (
	"iter"

	exterrors "github.com/tamirms/extsort/errors"
	"github.com/tamirms/extsort/internal/merge"
	"github.com/tamirms/extsort/internal/run"
	"github.com/tamirms/extsort/internal/tape"
)

// Iterator streams the sorted output. It is pull-based and single-use:
// Next yields elements in ascending order until the sequence ends or a
// terminal error occurs, after which Err reports the cause.
//
// Dropping the iterator early is legal: Close releases the merge and
// removes every remaining sort file. Resources are also released
// automatically when the sequence drains. The iterator may be handed to
// another goroutine, but is not safe for concurrent use.
type Iterator[T any] struct {
	tree *merge.LoserTree[T]
	pool *tape.Pool // nil when the sort never spilled
	fail *run.Failure

	verify    bool
	digestIn  uint64
	digestOut uint64

	err      error
	closed   bool
	released bool
	closeErr error
}

// Next returns the next element in sorted order. Once it returns false the
// sequence is over; check Err to distinguish a clean drain from a terminal
// failure. The prefix delivered before a failure is valid output.
func (it *Iterator[T]) Next() (T, bool) {
	var zero T
	if it.closed || it.err != nil {
		return zero, false
	}
	if ferr := it.fail.Err(); ferr != nil {
		it.err = ferr
		it.release()
		return zero, false
	}
	if it.verify {
		// Digest the head in place before it is consumed, so the hashed
		// bytes are the ones reconstructed from disk, not a copy.
		if p := it.tree.Peek(); p != nil {
			it.digestOut += hashValue(p)
		}
	}
	v, ok := it.tree.Next()
	if !ok {
		if ferr := it.fail.Err(); ferr != nil {
			it.err = ferr
		} else if it.verify && it.digestOut != it.digestIn {
			it.err = exterrors.ErrIntegrity
		}
		it.release()
		return zero, false
	}
	return v, true
}

// Err returns the terminal failure, if any. Nil while the sequence is still
// yielding and after a clean drain.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Len reports how many elements remain to be yielded.
func (it *Iterator[T]) Len() int {
	if it.closed || it.err != nil {
		return 0
	}
	return it.tree.Len()
}

// Close ends the sequence and removes all remaining sort files. Safe to
// call at any point and more than once; returns any cleanup error.
func (it *Iterator[T]) Close() error {
	if !it.closed {
		it.closed = true
		it.release()
	}
	return it.closeErr
}

// release tears down the file pool. Runs drained during the merge have
// already retired their files one by one; this sweeps whatever is left.
func (it *Iterator[T]) release() {
	if it.released {
		return
	}
	it.released = true
	if it.pool != nil {
		it.closeErr = it.pool.Close()
	}
}

// All adapts the iterator for range-over-func consumption. Breaking out of
// the range closes the iterator; after a complete range, check Err.
func (it *Iterator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := it.Next()
			if !ok {
				return
			}
			if !yield(v) {
				it.Close()
				return
			}
		}
	}
}
