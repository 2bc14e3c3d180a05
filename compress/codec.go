package compress

import (
	"fmt"
	"io"
)

// Type identifies a built-in compression codec.
type Type uint8

const (
	TypeNone Type = iota
	TypeLZ4
	TypeS2
	TypeZstd
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeLZ4:
		return "lz4"
	case TypeS2:
		return "s2"
	case TypeZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Codec is a byte-stream transform applied to each spilled run.
//
// NewWriter wraps the run's file writer; Close on the returned writer must
// flush any buffered frame before returning. NewReader wraps the run's file
// reader and yields the decoded byte stream. Implementations must be usable
// for multiple concurrent streams: every NewWriter/NewReader call returns
// independent state.
type Codec interface {
	NewWriter(w io.Writer) io.WriteCloser
	NewReader(r io.Reader) (io.Reader, error)
	Type() Type
}

// New returns the built-in codec for the given type.
func New(t Type) (Codec, error) {
	switch t {
	case TypeNone:
		return NewNone(), nil
	case TypeLZ4:
		return NewLZ4(), nil
	case TypeS2:
		return NewS2(), nil
	case TypeZstd:
		return NewZstd(), nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}
