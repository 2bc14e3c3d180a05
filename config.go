package extsort

import (
	"fmt"
	"os"

	"github.com/tamirms/extsort/compress"
	exterrors "github.com/tamirms/extsort/errors"
)

const (
	// defaultMemoryBudget bounds one ingest buffer. Two buffers exist while
	// runs are being spilled, so peak buffer memory is twice this.
	defaultMemoryBudget = 10 << 20

	// defaultReadBuffer is the per-run readahead during the merge.
	defaultReadBuffer = 256 << 10

	// maxSortFiles caps concurrently open sort files, comfortably below
	// common file-descriptor limits while leaving room for the caller's own
	// descriptors. Runs beyond the cap share files by appending.
	maxSortFiles = 256

	// contextCheckInterval is how often the ingest loop checks for context
	// cancellation and background flush failure.
	contextCheckInterval = 10000
)

// Option is a functional option for configuring a sort.
type Option func(*config)

type config struct {
	memoryBudget int
	readBuffer   int
	tempDir      string
	codec        compress.Codec
	sortWorkers  int
	maxFiles     int
	verify       bool
}

func defaultConfig() *config {
	return &config{
		memoryBudget: defaultMemoryBudget,
		readBuffer:   defaultReadBuffer,
		tempDir:      os.TempDir(),
		codec:        compress.NewNone(),
		sortWorkers:  1,
		maxFiles:     maxSortFiles,
	}
}

func (c *config) validate() error {
	if c.memoryBudget <= 0 {
		return fmt.Errorf("%w: %d", exterrors.ErrInvalidBudget, c.memoryBudget)
	}
	if c.readBuffer <= 0 {
		return fmt.Errorf("%w: %d", exterrors.ErrInvalidReadBuffer, c.readBuffer)
	}
	if c.sortWorkers <= 0 {
		return fmt.Errorf("%w: %d", exterrors.ErrInvalidWorkers, c.sortWorkers)
	}
	info, err := os.Stat(c.tempDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %q", exterrors.ErrTempDirMissing, c.tempDir)
	}
	return nil
}

// WithMemoryBudget sets the target byte ceiling for one ingest buffer.
// The buffer holds max(1, budget/elementSize) elements.
func WithMemoryBudget(bytes int) Option {
	return func(c *config) {
		c.memoryBudget = bytes
	}
}

// WithReadBufferSize sets the per-run readahead in bytes for the merge
// phase. Each spilled run holds max(1, bytes/elementSize) reconstructed
// elements in memory at a time.
func WithReadBufferSize(bytes int) Option {
	return func(c *config) {
		c.readBuffer = bytes
	}
}

// WithTempDir sets the directory sort files are created in. The directory
// must exist and should be on a local filesystem. Defaults to os.TempDir().
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// WithCompression compresses spilled runs with the given codec. Trades CPU
// for disk bandwidth; worthwhile when runs are large and values compress
// well. See the compress package for the built-in codecs.
func WithCompression(codec compress.Codec) Option {
	return func(c *config) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithSortWorkers parallelizes the in-place sort of each ingest buffer
// across n goroutines. The sort still completes before the buffer is handed
// to the flusher. Defaults to 1 (sequential).
func WithSortWorkers(n int) Option {
	return func(c *config) {
		c.sortWorkers = n
	}
}

// WithVerification enables an order-independent integrity digest over the
// element bytes: ingested values are digested after each buffer sort and
// again as they are yielded, and a mismatch when the output drains surfaces
// as ErrIntegrity. Nothing is written to disk; the cost is one hash per
// element per side.
func WithVerification() Option {
	return func(c *config) {
		c.verify = true
	}
}

// withMaxFiles lowers the sort file ceiling. Tests use it to exercise file
// sharing without creating hundreds of runs.
func withMaxFiles(n int) Option {
	return func(c *config) {
		c.maxFiles = n
	}
}
