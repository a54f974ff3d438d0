package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"vendoretl/internal/datasource"
)

// Local is one file on the local disk.
type Local struct{ path string }

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a source for path. Nothing is touched until Open.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the file for reading. A cancelled context wins over the
// filesystem, and a directory is rejected rather than read as empty input.
// Errors keep os.ErrNotExist and friends reachable through errors.Is.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", l.path)
	}
	return f, nil
}

// Path returns the file path.
func (l *Local) Path() string { return l.path }
