package extsort

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/tamirms/extsort/compress"
	"github.com/tamirms/extsort/internal/run"
	"github.com/tamirms/extsort/internal/tape"
)

// errFlushWorkerExited is returned from a handoff that found the worker gone
// without a recorded write error. Not normally reachable.
var errFlushWorkerExited = errors.New("extsort: flush worker exited unexpectedly")

// flusher runs the single background goroutine that materializes sorted
// buffers as runs. Buffer ownership moves over two rendezvous channels:
// the foreground pushes a full sorted buffer on full and takes the emptied
// spare from empty. The spare is handed back before the write starts, so
// ingest of the next buffer overlaps the write of the previous one. With
// two buffers total, the foreground blocks only when it has filled its
// buffer while the flusher still owns the other.
type flusher[T any] struct {
	pool     *tape.Pool
	codec    compress.Codec
	capacity int

	full  chan []T
	empty chan []T
	done  chan struct{}
	g     errgroup.Group

	// Owned by the worker goroutine; read by the foreground only after done
	// is closed.
	descs    []tape.RunDesc
	writeErr error

	finished bool
}

func newFlusher[T any](pool *tape.Pool, codec compress.Codec, capacity int) *flusher[T] {
	f := &flusher[T]{
		pool:     pool,
		codec:    codec,
		capacity: capacity,
		full:     make(chan []T, 1),
		empty:    make(chan []T, 1),
		done:     make(chan struct{}),
	}
	f.g.Go(f.loop)
	return f
}

// loop receives full sorted buffers and writes each as one logical run.
// On a write error the worker records it and exits; the foreground observes
// the failure at its next interaction.
func (f *flusher[T]) loop() error {
	defer close(f.done)
	var spare []T
	for buf := range f.full {
		if spare == nil {
			// The second of the two ingest buffers, allocated on first use
			// so fully in-memory sorts never pay for it.
			spare = make([]T, 0, f.capacity)
		}
		f.empty <- spare
		spare = nil

		desc, err := run.Write(f.pool, f.codec, buf)
		if err != nil {
			f.writeErr = err
			return err
		}
		f.descs = append(f.descs, desc)
		// The file owns the bit patterns now; recycle the buffer empty.
		spare = buf[:0]
	}
	return nil
}

// handoff moves a full sorted buffer to the worker and returns an empty
// buffer to refill. Blocks while the worker still owns the other buffer.
func (f *flusher[T]) handoff(buf []T) ([]T, error) {
	select {
	case f.full <- buf:
	case <-f.done:
		return nil, f.exitErr()
	}
	select {
	case next := <-f.empty:
		return next, nil
	case <-f.done:
		return nil, f.exitErr()
	}
}

// failed reports a write error that surfaced between handoffs.
func (f *flusher[T]) failed() error {
	select {
	case <-f.done:
		return f.exitErr()
	default:
		return nil
	}
}

func (f *flusher[T]) exitErr() error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return errFlushWorkerExited
}

// finish stops accepting buffers, drains in-flight work, and returns the
// run descriptors in flush-completion order. Idempotent; also serves the
// cancellation path, where the caller discards the descriptors and tears
// down the pool.
func (f *flusher[T]) finish() ([]tape.RunDesc, error) {
	if !f.finished {
		f.finished = true
		close(f.full)
		_ = f.g.Wait()
	}
	return f.descs, f.writeErr
}
