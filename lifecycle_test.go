// lifecycle_test.go covers teardown paths: dropping the output early,
// cancelling mid-ingest, and repeated Close calls. The common assertion is
// that no sort file survives, whichever way the sort ends.
package extsort

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestCloseAfterFirstElement(t *testing.T) {
	dir := t.TempDir()
	rng := newTestRNG(t)
	input := randomValues(rng, 20_000)

	it, err := Sort(context.Background(), slices.Values(input),
		WithTempDir(dir), WithMemoryBudget(2048))
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}

	v, ok := it.Next()
	if !ok {
		t.Fatal("expected at least one element")
	}
	if got := slices.Min(input); v != got {
		t.Errorf("first element = %d, want the minimum %d", v, got)
	}

	if err := it.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	checkDirEmpty(t, dir)

	if _, ok := it.Next(); ok {
		t.Error("Next after Close should report exhaustion")
	}
	if got := it.Len(); got != 0 {
		t.Errorf("Len after Close = %d, want 0", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	it, err := Sort(context.Background(), slices.Values([]uint64{3, 1, 2}),
		WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	for range 3 {
		if err := it.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
}

func TestCloseAfterDrain(t *testing.T) {
	dir := t.TempDir()
	rng := newTestRNG(t)
	it, err := Sort(context.Background(), slices.Values(randomValues(rng, 5000)),
		WithTempDir(dir), WithMemoryBudget(1024))
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	drain(t, it)
	// Files are already retired one by one as runs drained; Close is a
	// formality and must not fail.
	if err := it.Close(); err != nil {
		t.Fatalf("Close after drain: %v", err)
	}
	checkDirEmpty(t, dir)
}

func TestCancellationDuringIngest(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Enough elements to cross the periodic context check while spilling.
	seq := func(yield func(uint64) bool) {
		for i := range 30_000 {
			if !yield(uint64(i ^ 0x5DEECE66D)) {
				return
			}
		}
	}

	_, err := Sort(ctx, seq, WithTempDir(dir), WithMemoryBudget(2048))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Sort under a cancelled context: got %v, want context.Canceled", err)
	}
	checkDirEmpty(t, dir)
}

func TestSourceStopsEarly(t *testing.T) {
	// A source that stops yielding mid-way is simply a shorter source; the
	// caller's wrapper owns any error it swallowed.
	seq := func(yield func(uint64) bool) {
		for i := range 100 {
			if !yield(uint64(100 - i)) {
				return
			}
		}
	}
	it, err := Sort(context.Background(), seq, WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	defer it.Close()
	if got := drain(t, it); len(got) != 100 {
		t.Errorf("yielded %d values, want 100", len(got))
	}
}
