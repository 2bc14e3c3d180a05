// Package extsort sorts sequences of any size within a bounded memory
// budget by spilling sorted runs to temporary files and merging them on
// demand with a loser-tree tournament.
//
// Elements move between memory and disk by raw byte reinterpretation: no
// encoder, decoder, or serialization hook is required (or accepted). The
// flip side is that the element type must be self-contained — a type
// containing a pointer, slice, string, map, channel, function, or interface
// in any position is rejected, because the garbage collector cannot see
// heap references whose only copy sits in a file.
//
// # Basic Usage
//
//	it, err := extsort.Sort(ctx, slices.Values(data),
//	    extsort.WithMemoryBudget(256<<20),
//	    extsort.WithTempDir(dir),
//	)
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//
//	for v := range it.All() {
//	    process(v)
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// SortFunc takes an explicit three-way comparator and SortByKey a key
// extractor; both accept the same options. Spilled runs can be compressed
// with extsort.WithCompression and a codec from the compress package.
//
// Sorting consumes the entire input before the first element is yielded.
// While runs are spilling, two ingest buffers are in flight (one filling,
// one being written), so peak buffer memory is twice the configured budget,
// plus one readahead per spilled run during the merge.
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Public API: extsort.go (Sort, SortFunc, SortByKey), iterator.go
//   - Configuration: config.go (Option, With* functions)
//   - Orchestration: sorter.go (ingest loop), flusher.go (background writer)
//   - Run storage: internal/tape (file pool), internal/run (readers/writers)
//   - Merging: internal/merge (loser tree)
//   - Byte reinterpretation: internal/raw
//   - Codecs: compress (LZ4, S2, Zstd, pass-through)
package extsort
