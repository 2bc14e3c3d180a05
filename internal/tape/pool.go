// Package tape manages the temporary files backing spilled runs.
//
// A Pool multiplexes an unbounded number of logical runs onto a bounded
// number of physical files. The first maxFiles runs each open a fresh file;
// later runs append round-robin to the existing files, so a single file may
// carry the bytes of many runs at disjoint offsets. Each file tracks how
// many of its runs are still live and is closed and removed as soon as the
// last one drains, releasing disk continuously during the merge.
//
// The pool is not internally synchronized. It relies on the sort's phase
// discipline: all appends happen on the single flusher goroutine, Seal is
// called once after the flusher has been joined, and all reads and retires
// happen on the consuming goroutine afterwards.
package tape

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// RunDesc identifies one logical run inside a pool file.
type RunDesc struct {
	File   int   // index of the backing file within the pool
	Offset int64 // byte offset of the run's first byte
	Length int64 // on-disk byte length (compressed length when a codec is in play)
	Count  int   // number of elements in the run
}

type sortFile struct {
	f        *os.File
	path     string // empty for anonymous (O_TMPFILE) files
	size     int64  // current append offset
	liveRuns int
	mm       mmap.MMap // non-nil once sealed
}

// Pool owns the sort files of one external sort.
type Pool struct {
	dir      string
	maxFiles int
	align    int64
	files    []*sortFile
	nextRun  int // total runs allocated; drives round-robin file selection
	closed   bool
}

// NewPool creates a pool writing files under dir, holding at most maxFiles
// files open at once. Run offsets are aligned to align bytes.
func NewPool(dir string, maxFiles, align int) *Pool {
	if maxFiles < 1 {
		maxFiles = 1
	}
	if align < 1 {
		align = 1
	}
	return &Pool{dir: dir, maxFiles: maxFiles, align: int64(align)}
}

// OpenFiles returns the number of files the pool currently holds open.
func (p *Pool) OpenFiles() int {
	n := 0
	for _, sf := range p.files {
		if sf != nil {
			n++
		}
	}
	return n
}

// target picks the file the next run appends to, opening a new file while
// the pool is under its ceiling.
func (p *Pool) target() (*sortFile, int, error) {
	if len(p.files) < p.maxFiles {
		f, path, err := createTemp(p.dir)
		if err != nil {
			return nil, 0, fmt.Errorf("create sort file: %w", err)
		}
		sf := &sortFile{f: f, path: path}
		p.files = append(p.files, sf)
		return sf, len(p.files) - 1, nil
	}
	idx := p.nextRun % p.maxFiles
	return p.files[idx], idx, nil
}

// appendWriter appends to a file from a fixed start offset via positional
// writes, counting the bytes written.
type appendWriter struct {
	f   *os.File
	off int64
	n   int64
}

func (w *appendWriter) Write(b []byte) (int, error) {
	n, err := w.f.WriteAt(b, w.off+w.n)
	w.n += int64(n)
	return n, err
}

// AppendRun materializes one run of count elements. fill receives a writer
// positioned at the run's offset and must write the run's byte stream
// through it. The returned descriptor records where the bytes landed.
func (p *Pool) AppendRun(count int, fill func(io.Writer) error) (RunDesc, error) {
	sf, idx, err := p.target()
	if err != nil {
		return RunDesc{}, err
	}
	offset := alignUp(sf.size, p.align)
	w := &appendWriter{f: sf.f, off: offset}
	if err := fill(w); err != nil {
		return RunDesc{}, fmt.Errorf("write run: %w", err)
	}
	sf.size = offset + w.n
	sf.liveRuns++
	p.nextRun++
	return RunDesc{File: idx, Offset: offset, Length: w.n, Count: count}, nil
}

func alignUp(v, align int64) int64 {
	return (v + align - 1) / align * align
}

// Seal transitions the pool from the write phase to the read phase by
// memory-mapping every file read-only. Mapping is best-effort: a file that
// cannot be mapped (for example a zero-length file) falls back to positional
// reads.
func (p *Pool) Seal() {
	for _, sf := range p.files {
		if sf == nil || sf.size == 0 {
			continue
		}
		if mm, err := mmap.Map(sf.f, mmap.RDONLY, 0); err == nil {
			sf.mm = mm
		}
	}
}

// runReader streams the byte range of one run sequentially.
type runReader struct {
	p    *Pool
	desc RunDesc
	pos  int64
}

func (r *runReader) Read(b []byte) (int, error) {
	rem := r.desc.Length - r.pos
	if rem <= 0 {
		return 0, io.EOF
	}
	if int64(len(b)) > rem {
		b = b[:rem]
	}
	sf := r.p.files[r.desc.File]
	if sf == nil {
		return 0, fmt.Errorf("read run: file %d already retired", r.desc.File)
	}
	off := r.desc.Offset + r.pos
	var n int
	var err error
	if sf.mm != nil {
		n = copy(b, sf.mm[off:off+int64(len(b))])
	} else {
		n, err = sf.f.ReadAt(b, off)
	}
	r.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// OpenRun returns a sequential reader over the run's byte range.
func (p *Pool) OpenRun(desc RunDesc) io.Reader {
	return &runReader{p: p, desc: desc}
}

// Retire signals that one of the file's runs has drained. When the last run
// drains the file is unmapped, closed, and removed.
func (p *Pool) Retire(file int) error {
	if p.closed || file >= len(p.files) || p.files[file] == nil {
		return nil
	}
	sf := p.files[file]
	sf.liveRuns--
	if sf.liveRuns > 0 {
		return nil
	}
	p.files[file] = nil
	return closeFile(sf)
}

// Close tears down every file still open. Used by the cancellation and
// early-drop paths; safe to call after normal drain and safe to call twice.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	var errs []error
	for i, sf := range p.files {
		if sf == nil {
			continue
		}
		p.files[i] = nil
		if err := closeFile(sf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeFile(sf *sortFile) error {
	var errs []error
	if sf.mm != nil {
		if err := sf.mm.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap sort file: %w", err))
		}
		sf.mm = nil
	}
	if err := sf.f.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sort file: %w", err))
	}
	if sf.path != "" {
		if err := os.Remove(sf.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove sort file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// namedTemp creates a visible temp file whose path is recorded for removal
// at close time. Used directly on platforms without anonymous files and as
// the fallback when O_TMPFILE is unavailable.
func namedTemp(dir string) (*os.File, string, error) {
	f, err := os.CreateTemp(dir, "extsort-*.tmp")
	if err != nil {
		return nil, "", err
	}
	return f, f.Name(), nil
}
