// Package datasource abstracts where a raw CSV extract is read from. The
// ingestor only needs a byte stream per file.
package datasource

import (
	"context"
	"io"
)

// Source opens one raw extract. The caller closes the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
