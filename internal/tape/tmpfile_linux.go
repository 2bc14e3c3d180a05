//go:build linux

package tape

import (
	"os"

	"golang.org/x/sys/unix"
)

// createTemp creates a sort file. Tries O_TMPFILE (Linux 3.11+) first: the
// file is anonymous, never visible in the directory, and the kernel removes
// it when the last handle closes. Falls back to a named temp file.
func createTemp(dir string) (*os.File, string, error) {
	const oTmpFile = 0o20000000 //nolint:revive // Linux O_TMPFILE flag
	fd, err := unix.Open(dir, unix.O_RDWR|oTmpFile, 0o600)
	if err == nil {
		return os.NewFile(uintptr(fd), ""), "", nil
	}
	return namedTemp(dir)
}
