package run

import (
	"io"

	"github.com/tamirms/extsort/compress"
	"github.com/tamirms/extsort/internal/raw"
	"github.com/tamirms/extsort/internal/tape"
)

// Write materializes the sorted values as one logical run, streaming their
// byte image through the codec into the pool. On success the bit patterns
// are owned by the file; the caller must truncate the buffer to length zero
// without touching the elements again.
//
// Zero-sized element types write no bytes; only the count is recorded.
func Write[T any](p *tape.Pool, codec compress.Codec, vals []T) (tape.RunDesc, error) {
	return p.AppendRun(len(vals), func(w io.Writer) error {
		cw := codec.NewWriter(w)
		if b := raw.Bytes(vals); len(b) > 0 {
			if _, err := cw.Write(b); err != nil {
				return err
			}
		}
		return cw.Close()
	})
}
