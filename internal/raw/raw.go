// Package raw provides the byte-level view of element memory that lets
// sorted values travel to disk and back without per-element encoding.
//
// The write side views a slice of values as the byte slice covering its
// backing array. The read side never needs an inverse: readers allocate a
// []T readahead and view it as bytes to read file contents into, so the
// destination region has the element type's alignment by construction.
//
// Only types whose bit pattern is self-contained may pass through here.
// A value that references heap memory (pointer, slice, string, map, ...)
// would leave that memory invisible to the garbage collector while its
// only copy sits in a file; Check rejects such types up front.
package raw

import (
	"fmt"
	"reflect"
	"unsafe"

	exterrors "github.com/tamirms/extsort/errors"
)

// Sizeof returns the in-memory size of T in bytes. May be zero.
func Sizeof[T any]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// Alignof returns the alignment requirement of T in bytes.
func Alignof[T any]() int {
	return reflect.TypeFor[T]().Align()
}

// Check reports whether T can be moved to disk by byte reinterpretation.
// Types containing pointers in any position are rejected.
func Check[T any]() error {
	t := reflect.TypeFor[T]()
	if bad := findPointer(t); bad != nil {
		return fmt.Errorf("%w: %s (via %s)", exterrors.ErrUnsupportedType, t, bad)
	}
	return nil
}

// findPointer walks t and returns the first pointer-bearing type found,
// or nil if the bit pattern of t is self-contained.
func findPointer(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return findPointer(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if bad := findPointer(t.Field(i).Type); bad != nil {
				return bad
			}
		}
		return nil
	default:
		// Pointer, UnsafePointer, Map, Chan, Func, Interface, Slice, String.
		return t
	}
}

// Bytes returns the byte view over the backing array of s. The view has the
// same lifetime as s; no bytes are copied. Returns nil for empty slices and
// zero-sized element types.
func Bytes[T any](s []T) []byte {
	size := Sizeof[T]()
	if len(s) == 0 || size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*size)
}

// ValueBytes returns the byte view of a single value. Nil for zero-sized
// types.
func ValueBytes[T any](v *T) []byte {
	size := Sizeof[T]()
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
}
