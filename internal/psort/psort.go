// Package psort provides the optional parallel in-place sort of an ingest
// buffer.
//
// The algorithm is partition-parallel quicksort: partitions happen
// sequentially, the two sides recurse concurrently while worker slots are
// available, and small ranges fall back to slices.SortFunc. Sorting is
// fully in place — the two-buffer spill pipeline leaves no headroom for a
// merge scratch buffer.
package psort

import (
	"slices"

	"golang.org/x/sync/errgroup"
)

// sequentialCutoff is the range size below which parallel splitting stops
// paying for itself.
const sequentialCutoff = 4096

// Sort sorts data in place using up to workers goroutines. workers <= 1
// degrades to slices.SortFunc. Sort returns only when data is fully sorted.
func Sort[T any](data []T, compare func(a, b T) int, workers int) {
	if workers <= 1 || len(data) <= sequentialCutoff {
		slices.SortFunc(data, compare)
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	quicksort(&g, data, compare)
	_ = g.Wait()
}

// quicksort partitions iteratively, offloading one side to the group when a
// worker slot is free and recursing inline otherwise. TryGo (rather than
// Go) keeps a saturated group from deadlocking on workers that spawn work
// while every slot is occupied.
func quicksort[T any](g *errgroup.Group, data []T, compare func(a, b T) int) {
	for len(data) > sequentialCutoff {
		p := partition(data, compare)
		side := data[:p]
		data = data[p+1:]
		if len(side) < len(data) {
			side, data = data, side
		}
		if !g.TryGo(func() error {
			quicksort(g, side, compare)
			return nil
		}) {
			quicksort(g, side, compare)
		}
	}
	slices.SortFunc(data, compare)
}

// partition performs a Lomuto partition around a median-of-three pivot and
// returns the pivot's final index.
func partition[T any](data []T, compare func(a, b T) int) int {
	mid := len(data) / 2
	hi := len(data) - 1
	if compare(data[mid], data[0]) < 0 {
		data[mid], data[0] = data[0], data[mid]
	}
	if compare(data[hi], data[0]) < 0 {
		data[hi], data[0] = data[0], data[hi]
	}
	if compare(data[hi], data[mid]) < 0 {
		data[hi], data[mid] = data[mid], data[hi]
	}
	data[mid], data[hi] = data[hi], data[mid]

	pivot := data[hi]
	i := 0
	for j := 0; j < hi; j++ {
		if compare(data[j], pivot) < 0 {
			data[i], data[j] = data[j], data[i]
			i++
		}
	}
	data[i], data[hi] = data[hi], data[i]
	return i
}
