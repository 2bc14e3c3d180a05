// Bench is a benchmarking tool for measuring extsort throughput and memory
// usage across buffer budgets, codecs, and worker counts.
//
// Usage:
//
//	go run ./cmd/bench -items 10000000 -budget 67108864 -compress s2
//
// Flags:
//
//	-items     Number of 8-byte elements to sort (default: 10,000,000)
//	-budget    Ingest buffer budget in bytes (default: 64 MiB)
//	-readbuf   Per-run readahead in bytes (default: 256 KiB)
//	-compress  Codec: none, lz4, s2, or zstd (default: none)
//	-workers   Parallel buffer sort workers (default: 1)
//	-dir       Sort file directory (default: os.TempDir())
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"iter"
	"os"
	"runtime/metrics"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/tamirms/extsort"
	"github.com/tamirms/extsort/compress"
)

func main() {
	items := flag.Int("items", 10_000_000, "number of elements to sort")
	budget := flag.Int("budget", 64<<20, "ingest buffer budget in bytes")
	readBuf := flag.Int("readbuf", 256<<10, "per-run readahead in bytes")
	compressName := flag.String("compress", "none", "codec: none, lz4, s2, zstd")
	workers := flag.Int("workers", 1, "parallel buffer sort workers")
	dir := flag.String("dir", os.TempDir(), "sort file directory")
	flag.Parse()

	codec, err := codecByName(*compressName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	stopSampler, peakHeap := startHeapSampler()
	defer stopSampler()

	start := time.Now()
	it, err := extsort.Sort(context.Background(), randomElements(*items),
		extsort.WithMemoryBudget(*budget),
		extsort.WithReadBufferSize(*readBuf),
		extsort.WithTempDir(*dir),
		extsort.WithCompression(codec),
		extsort.WithSortWorkers(*workers),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer it.Close()
	ingestDur := time.Since(start)

	start = time.Now()
	var count int
	var prev uint64
	for v := range it.All() {
		if count > 0 && v < prev {
			fmt.Fprintf(os.Stderr, "output out of order at element %d\n", count)
			os.Exit(1)
		}
		prev = v
		count++
	}
	if err := it.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	mergeDur := time.Since(start)

	if count != *items {
		fmt.Fprintf(os.Stderr, "expected %d elements, got %d\n", *items, count)
		os.Exit(1)
	}

	bytesTotal := float64(*items) * 8
	fmt.Printf("items:      %d\n", *items)
	fmt.Printf("codec:      %s\n", codec.Type())
	fmt.Printf("ingest:     %v (%.1f MB/s)\n", ingestDur, bytesTotal/ingestDur.Seconds()/1e6)
	fmt.Printf("merge:      %v (%.1f MB/s)\n", mergeDur, bytesTotal/mergeDur.Seconds()/1e6)
	fmt.Printf("peak heap:  %.1f MiB\n", float64(peakHeap.Load())/(1<<20))
}

func codecByName(name string) (compress.Codec, error) {
	switch name {
	case "none":
		return compress.NewNone(), nil
	case "lz4":
		return compress.NewLZ4(), nil
	case "s2":
		return compress.NewS2(), nil
	case "zstd":
		return compress.NewZstd(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want none, lz4, s2, or zstd)", name)
	}
}

// randomElements yields n deterministic pseudo-random values: the xxhash of
// each index. Deterministic input makes runs comparable across flags.
func randomElements(n int) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		var b [8]byte
		for i := range n {
			binary.LittleEndian.PutUint64(b[:], uint64(i))
			if !yield(xxhash.Sum64(b[:])) {
				return
			}
		}
	}
}

// startHeapSampler samples live heap bytes on a 10ms ticker using
// runtime/metrics, which avoids the stop-the-world pause of ReadMemStats.
func startHeapSampler() (stop func(), peak *atomic.Uint64) {
	peak = new(atomic.Uint64)
	done := make(chan struct{})
	go func() {
		samples := []metrics.Sample{
			{Name: "/memory/classes/heap/objects:bytes"},
		}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				heap := samples[0].Value.Uint64()
				for {
					old := peak.Load()
					if heap <= old || peak.CompareAndSwap(old, heap) {
						break
					}
				}
			}
		}
	}()
	return func() { close(done) }, peak
}
