package compress

import "io"

// None is the pass-through codec: run bytes hit the file unchanged.
type None struct{}

var _ Codec = None{}

// NewNone returns the pass-through codec.
func NewNone() None {
	return None{}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (None) NewWriter(w io.Writer) io.WriteCloser {
	return nopWriteCloser{w}
}

func (None) NewReader(r io.Reader) (io.Reader, error) {
	return r, nil
}

func (None) Type() Type { return TypeNone }
