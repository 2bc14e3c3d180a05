package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2 compresses runs with the S2 stream format (a Snappy extension).
type S2 struct{}

var _ Codec = S2{}

// NewS2 returns the S2 codec.
func NewS2() S2 {
	return S2{}
}

func (S2) NewWriter(w io.Writer) io.WriteCloser {
	// Concurrency 1: the flusher is a single goroutine and run streams are
	// usually small; background block compression only adds scheduling cost.
	return s2.NewWriter(w, s2.WriterConcurrency(1))
}

func (S2) NewReader(r io.Reader) (io.Reader, error) {
	return s2.NewReader(r), nil
}

func (S2) Type() Type { return TypeS2 }
