package extsort

import (
	"encoding/binary"
	"hash/fnv"
	randv2 "math/rand/v2"
	"os"
	"testing"

	"github.com/cespare/xxhash/v2"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// drain consumes the whole iterator and fails the test on a terminal error.
func drain[T any](t *testing.T, it *Iterator[T]) []T {
	t.Helper()
	var out []T
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("terminal iterator error: %v", err)
	}
	return out
}

// multisetHash folds each value into an order-independent digest, so two
// slices hash equal exactly when they are permutations of each other
// (modulo the vanishing chance of a sum collision).
func multisetHash(vals []uint64) uint64 {
	var b [8]byte
	var sum uint64
	for _, v := range vals {
		binary.LittleEndian.PutUint64(b[:], v)
		sum += xxhash.Sum64(b[:])
	}
	return sum
}

// checkSorted fails unless every consecutive pair is non-decreasing under
// the comparator.
func checkSorted[T any](t *testing.T, vals []T, compare func(a, b T) int) {
	t.Helper()
	for i := 1; i < len(vals); i++ {
		if compare(vals[i-1], vals[i]) > 0 {
			t.Fatalf("output out of order at index %d", i)
		}
	}
}

// checkDirEmpty fails if any entry is left in the sort directory.
func checkDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read sort dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left in sort dir", len(entries))
	}
}

// randomValues generates n deterministic pseudo-random values.
func randomValues(rng *randv2.Rand, n int) []uint64 {
	vals := make([]uint64, n)
	for i := range vals {
		vals[i] = rng.Uint64()
	}
	return vals
}
