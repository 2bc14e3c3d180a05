package extsort

import (
	"github.com/zeebo/xxh3"

	"github.com/tamirms/extsort/internal/raw"
)

// hashValue digests one element's bit pattern. Per-element digests are
// combined by addition, which is order-independent: the ingest-side and
// output-side sums match for any permutation of the same multiset, so a
// mismatch after the output drains indicates corruption on the disk
// round-trip. Zero-sized elements carry no bits and digest to zero.
func hashValue[T any](v *T) uint64 {
	b := raw.ValueBytes(v)
	if len(b) == 0 {
		return 0
	}
	return xxh3.Hash(b)
}
