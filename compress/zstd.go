package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses runs with Zstandard streams.
type Zstd struct{}

var _ Codec = Zstd{}

// NewZstd returns the Zstd codec.
func NewZstd() Zstd {
	return Zstd{}
}

func (Zstd) NewWriter(w io.Writer) io.WriteCloser {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(false),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		// Only reachable with invalid options, which are fixed above.
		panic(fmt.Sprintf("extsort: create zstd encoder: %v", err))
	}
	return enc
}

func (Zstd) NewReader(r io.Reader) (io.Reader, error) {
	// Concurrency 1 makes the decoder operate synchronously, so no
	// goroutines outlive an output iterator that is dropped early.
	dec, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return dec.IOReadCloser(), nil
}

func (Zstd) Type() Type { return TypeZstd }
