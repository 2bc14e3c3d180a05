package merge

import (
	"cmp"
	"encoding/binary"
	"hash/fnv"
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/tamirms/extsort/internal/run"
)

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(s1, s2))
}

func mergeRuns(runs [][]uint32) []uint32 {
	sources := make([]Source[uint32], len(runs))
	for i, r := range runs {
		sources[i] = run.NewBuffer(slices.Clone(r))
	}
	tree := New(sources, cmp.Compare[uint32])

	var result []uint32
	for {
		v, ok := tree.Next()
		if !ok {
			return result
		}
		result = append(result, v)
	}
}

func runMergeTest(t *testing.T, runs [][]uint32) {
	t.Helper()
	var expected []uint32
	for _, r := range runs {
		expected = append(expected, r...)
	}
	slices.Sort(expected)

	result := mergeRuns(runs)
	if !slices.Equal(expected, result) {
		t.Errorf("merge of %v = %v, want %v", runs, result, expected)
	}
}

func TestMergeRuns(t *testing.T) {
	runMergeTest(t, [][]uint32{
		{1, 3, 5, 7},
		{9, 11, 13, 15},
		{8, 10, 12, 14},
		{0, 2, 4, 6},
	})
}

func TestMergeUnbalanced(t *testing.T) {
	runMergeTest(t, [][]uint32{
		{1, 4},
		{2, 3},
		{5, 6, 7},
	})
}

func TestMergeFive(t *testing.T) {
	runMergeTest(t, [][]uint32{
		{20, 73},
		{29, 73},
		{3, 84},
		{33, 70},
		{63, 95},
	})
}

func TestMergeWithEmptySources(t *testing.T) {
	// Immediately exhausted sources occupy infinity leaves for the whole
	// merge without disturbing the order.
	runMergeTest(t, [][]uint32{
		{},
		{5, 6},
		{},
		{1, 9},
		{},
	})
}

func TestMergeAllEmpty(t *testing.T) {
	tree := New([]Source[uint32]{
		run.NewBuffer([]uint32(nil)),
		run.NewBuffer([]uint32{}),
	}, cmp.Compare[uint32])
	if _, ok := tree.Next(); ok {
		t.Error("Next on all-empty sources should report exhaustion")
	}
	if p := tree.Peek(); p != nil {
		t.Errorf("Peek on all-empty sources = %v, want nil", *p)
	}
}

func TestMergeNoSources(t *testing.T) {
	tree := New(nil, cmp.Compare[uint32])
	if _, ok := tree.Next(); ok {
		t.Error("Next on zero sources should report exhaustion")
	}
	if tree.Len() != 0 {
		t.Errorf("Len on zero sources = %d, want 0", tree.Len())
	}
}

func TestMergeSingleSource(t *testing.T) {
	runMergeTest(t, [][]uint32{{2, 4, 8}})
}

func TestMergePeek(t *testing.T) {
	tree := New([]Source[uint32]{
		run.NewBuffer([]uint32{4, 5}),
		run.NewBuffer([]uint32{1, 9}),
	}, cmp.Compare[uint32])

	want := []uint32{1, 4, 5, 9}
	for _, expected := range want {
		p := tree.Peek()
		if p == nil || *p != expected {
			t.Fatalf("Peek = %v, want %d", p, expected)
		}
		v, ok := tree.Next()
		if !ok || v != expected {
			t.Fatalf("Next = (%d, %t), want (%d, true)", v, ok, expected)
		}
	}
	if _, ok := tree.Next(); ok {
		t.Error("expected exhaustion after draining both sources")
	}
}

func TestMergeLen(t *testing.T) {
	tree := New([]Source[uint32]{
		run.NewBuffer([]uint32{1, 2, 3}),
		run.NewBuffer([]uint32{4, 5}),
	}, cmp.Compare[uint32])

	for want := 5; want > 0; want-- {
		if got := tree.Len(); got != want {
			t.Fatalf("Len = %d, want %d", got, want)
		}
		tree.Next()
	}
	if got := tree.Len(); got != 0 {
		t.Errorf("Len after drain = %d, want 0", got)
	}
}

// TestMergeComparisonCount checks the defining property of the loser tree:
// at most ceil(log2(K)) comparisons per yielded element after construction.
func TestMergeComparisonCount(t *testing.T) {
	rng := newTestRNG(t)
	const numRuns = 11 // non-power-of-two exercises the complete-tree shape
	const perRun = 64

	runs := make([][]uint32, numRuns)
	for i := range runs {
		runs[i] = generateRun(rng, perRun)
	}
	sources := make([]Source[uint32], numRuns)
	for i, r := range runs {
		sources[i] = run.NewBuffer(r)
	}

	comparisons := 0
	counting := func(a, b uint32) int {
		comparisons++
		return cmp.Compare(a, b)
	}
	tree := New(sources, counting)

	construction := comparisons
	if construction != numRuns-1 {
		t.Errorf("construction used %d comparisons, want %d", construction, numRuns-1)
	}

	total := numRuns * perRun
	for {
		if _, ok := tree.Next(); !ok {
			break
		}
	}
	// ceil(log2(11)) = 4. Replays of infinity leaves keep the same bound.
	perElement := 4
	if maxAllowed := construction + total*perElement; comparisons > maxAllowed {
		t.Errorf("merge used %d comparisons for %d elements, want at most %d", comparisons, total, maxAllowed)
	}
}

func generateRun(rng *randv2.Rand, n int) []uint32 {
	r := make([]uint32, n)
	for i := range r {
		r[i] = rng.Uint32()
	}
	slices.Sort(r)
	return r
}

func TestMergeRunsRandom(t *testing.T) {
	rng := newTestRNG(t)
	for numRuns := 1; numRuns < 40; numRuns++ {
		for _, items := range []int{1, 2, 3, 7, 19} {
			runs := make([][]uint32, numRuns)
			for i := range runs {
				runs[i] = generateRun(rng, items)
			}
			runMergeTest(t, runs)
		}
	}
}
