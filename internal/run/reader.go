package run

import (
	"fmt"
	"io"

	"github.com/tamirms/extsort/compress"
	"github.com/tamirms/extsort/internal/raw"
	"github.com/tamirms/extsort/internal/tape"
)

// Reader streams one file-backed run, reconstructing values from file bytes
// into a bounded readahead of live elements.
//
// Invariant: whenever remaining > 0, pos < n and buf[pos:n] holds elements
// reconstructed from the file, so Peek never performs I/O. The constructor
// primes the first window to establish this.
type Reader[T any] struct {
	pool      *tape.Pool
	file      int
	src       io.Reader // codec-wrapped sequential stream over the run's bytes
	buf       []T
	pos, n    int
	remaining int
	itemSize  int
	fail      *Failure
	retired   bool
}

// NewReader opens desc for streaming with a readahead of about
// readBufferBytes. A read failure while priming the first window is
// returned directly; later failures latch into fail.
func NewReader[T any](p *tape.Pool, desc tape.RunDesc, codec compress.Codec, readBufferBytes int, fail *Failure) (*Reader[T], error) {
	itemSize := raw.Sizeof[T]()
	capacity := 1
	if itemSize > 0 {
		capacity = max(1, readBufferBytes/itemSize)
		capacity = max(1, min(capacity, desc.Count))
	}

	r := &Reader[T]{
		pool:      p,
		file:      desc.File,
		buf:       make([]T, capacity),
		remaining: desc.Count,
		itemSize:  itemSize,
		fail:      fail,
	}
	if itemSize > 0 && desc.Count > 0 {
		src, err := codec.NewReader(p.OpenRun(desc))
		if err != nil {
			return nil, fmt.Errorf("open run: %w", err)
		}
		r.src = src
	}
	if err := r.refill(); err != nil {
		return nil, err
	}
	return r, nil
}

// refill reads the next window of elements into the readahead. For
// zero-sized element types there is nothing on disk; only the window
// bookkeeping advances.
func (r *Reader[T]) refill() error {
	if r.remaining == 0 {
		return nil
	}
	want := min(len(r.buf), r.remaining)
	r.pos, r.n = 0, want
	if r.itemSize == 0 {
		return nil
	}
	b := raw.Bytes(r.buf[:want])
	if _, err := io.ReadFull(r.src, b); err != nil {
		return fmt.Errorf("read run: %w", err)
	}
	return nil
}

func (r *Reader[T]) Peek() *T {
	if r.remaining == 0 {
		return nil
	}
	return &r.buf[r.pos]
}

func (r *Reader[T]) Next() (T, bool) {
	if r.remaining == 0 {
		var zero T
		return zero, false
	}
	v := r.buf[r.pos]
	r.pos++
	r.remaining--
	switch {
	case r.remaining == 0:
		r.retire()
	case r.pos == r.n:
		if err := r.refill(); err != nil {
			// The element already in hand is valid; everything after it is
			// lost. Latch the failure and release the file slot.
			r.fail.Set(err)
			r.remaining = 0
			r.retire()
		}
	}
	return v, true
}

func (r *Reader[T]) Remaining() int {
	return r.remaining
}

// retire releases the reader's claim on its backing file.
func (r *Reader[T]) retire() {
	if r.retired {
		return
	}
	r.retired = true
	if err := r.pool.Retire(r.file); err != nil {
		r.fail.Set(err)
	}
}
