package extsort

import (
	"context"
	"errors"
	"iter"

	"github.com/tamirms/extsort/internal/merge"
	"github.com/tamirms/extsort/internal/psort"
	"github.com/tamirms/extsort/internal/raw"
	"github.com/tamirms/extsort/internal/run"
	"github.com/tamirms/extsort/internal/tape"
)

// sortSeq drives the whole sort: validate, ingest into bounded buffers,
// spill sorted runs through the flusher, then assemble the merge over all
// spilled runs plus the final unflushed buffer.
func sortSeq[T any](ctx context.Context, source iter.Seq[T], compare func(a, b T) int, opts []Option) (*Iterator[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := raw.Check[T](); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := &sorter[T]{
		cfg:      cfg,
		compare:  compare,
		itemSize: raw.Sizeof[T](),
	}
	s.capacity = max(1, cfg.memoryBudget/max(1, s.itemSize))
	return s.run(ctx, source)
}

type sorter[T any] struct {
	cfg      *config
	compare  func(a, b T) int
	itemSize int
	capacity int

	pool *tape.Pool
	fl   *flusher[T]

	digestIn uint64
}

func (s *sorter[T]) run(ctx context.Context, source iter.Seq[T]) (*Iterator[T], error) {
	buf := make([]T, 0, s.capacity)
	counter := 0
	var ingestErr error
	for v := range source {
		buf = append(buf, v)
		if len(buf) == s.capacity {
			s.sortBuffer(buf)
			s.addDigest(buf)
			next, err := s.dispatch(buf)
			if err != nil {
				ingestErr = err
				break
			}
			buf = next
		}
		counter++
		if counter >= contextCheckInterval {
			counter = 0
			if err := ctx.Err(); err != nil {
				ingestErr = err
				break
			}
			if s.fl != nil {
				if err := s.fl.failed(); err != nil {
					ingestErr = err
					break
				}
			}
		}
	}
	if ingestErr != nil {
		return nil, errors.Join(ingestErr, s.abort())
	}

	// The residual buffer joins the merge directly from memory; it is the
	// only run for sorts that never overflowed a single buffer.
	s.sortBuffer(buf)

	var sources []merge.Source[T]
	fail := &run.Failure{}
	if s.fl != nil {
		descs, err := s.fl.finish()
		if err != nil {
			return nil, errors.Join(err, s.abort())
		}
		s.pool.Seal()
		for _, desc := range descs {
			rd, err := run.NewReader[T](s.pool, desc, s.cfg.codec, s.cfg.readBuffer, fail)
			if err != nil {
				return nil, errors.Join(err, s.abort())
			}
			sources = append(sources, rd)
		}
	}
	if len(buf) > 0 {
		s.addDigest(buf)
		sources = append(sources, run.NewBuffer(buf))
	}

	return &Iterator[T]{
		tree:     merge.New(sources, s.compare),
		pool:     s.pool,
		fail:     fail,
		verify:   s.cfg.verify,
		digestIn: s.digestIn,
	}, nil
}

// dispatch hands a full sorted buffer to the flusher, starting the pool and
// the flusher lazily on first overflow, and returns an empty buffer.
func (s *sorter[T]) dispatch(buf []T) ([]T, error) {
	if s.fl == nil {
		s.pool = tape.NewPool(s.cfg.tempDir, s.cfg.maxFiles, raw.Alignof[T]())
		s.fl = newFlusher[T](s.pool, s.cfg.codec, s.capacity)
	}
	return s.fl.handoff(buf)
}

func (s *sorter[T]) sortBuffer(buf []T) {
	psort.Sort(buf, s.compare, s.cfg.sortWorkers)
}

// addDigest folds the buffer's element bytes into the ingest digest. Called
// after the in-place sort so the digested bit patterns are exactly the ones
// written to disk.
func (s *sorter[T]) addDigest(buf []T) {
	if !s.cfg.verify || s.itemSize == 0 {
		return
	}
	for i := range buf {
		s.digestIn += hashValue(&buf[i])
	}
}

// abort drains the flusher and removes every sort file. Used on
// cancellation and on any ingest- or construction-phase error.
func (s *sorter[T]) abort() error {
	var errs []error
	if s.fl != nil {
		if _, err := s.fl.finish(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.pool != nil {
		if err := s.pool.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
