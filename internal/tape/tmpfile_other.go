//go:build !linux

package tape

import "os"

// createTemp creates a sort file. O_TMPFILE is Linux-specific, so other
// platforms always use a named temp file removed at close time.
func createTemp(dir string) (*os.File, string, error) {
	return namedTemp(dir)
}
