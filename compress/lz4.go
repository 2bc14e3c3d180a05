package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4 compresses runs with the LZ4 frame format. The frame format is
// self-delimiting, so streams of different runs sharing one file never need
// external length bookkeeping beyond the run descriptor.
type LZ4 struct{}

var _ Codec = LZ4{}

// NewLZ4 returns the LZ4 codec.
func NewLZ4() LZ4 {
	return LZ4{}
}

func (LZ4) NewWriter(w io.Writer) io.WriteCloser {
	return lz4.NewWriter(w)
}

func (LZ4) NewReader(r io.Reader) (io.Reader, error) {
	return lz4.NewReader(r), nil
}

func (LZ4) Type() Type { return TypeLZ4 }
