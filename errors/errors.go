// Package errors defines all exported error sentinels for the extsort library.
//
// This is the single source of truth for error values. Both the top-level
// extsort package and internal packages import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Configuration errors, surfaced at construction.
var (
	ErrInvalidBudget     = errors.New("extsort: memory budget must be positive")
	ErrInvalidReadBuffer = errors.New("extsort: read buffer size must be positive")
	ErrInvalidWorkers    = errors.New("extsort: sort worker count must be positive")
	ErrTempDirMissing    = errors.New("extsort: temp directory does not exist")
	ErrUnsupportedType   = errors.New("extsort: element type contains pointers and cannot round-trip through disk")
	ErrNilInput          = errors.New("extsort: input sequence is nil")
	ErrNilComparator     = errors.New("extsort: comparator is nil")
	ErrNilKeyFunc        = errors.New("extsort: key function is nil")
)

// Streaming errors, surfaced as the output iterator's terminal state.
var (
	ErrIntegrity = errors.New("extsort: output digest does not match input digest")
)
