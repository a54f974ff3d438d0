// Package csv reads delimited text files in bounded chunks. The first chunk
// fixes the column kinds of the destination table; every chunk is returned as
// typed rows ready for storage.LoadChunks.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"vendoretl/internal/errs"
	"vendoretl/internal/schema"
	"vendoretl/internal/storage"
)

// Options configures a ChunkReader. Zero values fall back to defaults.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune
	// Encoding names the source text encoding; see SupportedEncodings.
	Encoding string
	// ChunkSize is the number of data rows per chunk. Required.
	ChunkSize int
}

// ChunkReader yields a header-bearing CSV stream as storage chunks. It is not
// safe for concurrent use.
type ChunkReader struct {
	cr        *csv.Reader
	header    []string
	cols      []schema.Column
	chunkSize int
	strict    bool

	index int
	line  int
	rows  int64
	done  bool
	hash  *xxh3.Hasher
}

var _ storage.ChunkSource = (*ChunkReader)(nil)

// NewChunkReader reads and validates the header row. A source without a
// header row is a source-read error.
func NewChunkReader(r io.Reader, opt Options) (*ChunkReader, error) {
	if opt.ChunkSize <= 0 {
		return nil, errs.Newf(errs.KindConfig, "csv: chunk size must be positive, got %d", opt.ChunkSize)
	}
	dr, err := NewDecodingReader(skipBOM(r), opt.Encoding)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, err, "csv")
	}

	cr := csv.NewReader(dr)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	// Width is checked per row after read.
	cr.FieldsPerRecord = -1

	c := &ChunkReader{
		cr:        cr,
		chunkSize: opt.ChunkSize,
		strict:    decoderIsUTF8(opt.Encoding),
		hash:      xxh3.New(),
	}

	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.Newf(errs.KindSourceRead, "csv: no header row")
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindSourceRead, err, "csv: read header")
	}
	c.line = 1
	hdr, err = normalizeHeader(hdr, c.strict)
	if err != nil {
		return nil, errs.Wrap(errs.KindSourceRead, err, "csv: header")
	}
	c.header = hdr
	c.hashRow(hdr)
	return c, nil
}

// Header returns the normalized column names.
func (c *ChunkReader) Header() []string { return c.header }

// Columns returns the inferred columns; nil until the first chunk is read.
func (c *ChunkReader) Columns() []schema.Column { return c.cols }

// Rows returns the number of data rows read so far.
func (c *ChunkReader) Rows() int64 { return c.rows }

// Fingerprint returns the xxh3 digest of the header and every cell read so
// far, as 16 hex digits. It is stable across chunk sizes.
func (c *ChunkReader) Fingerprint() string { return fmt.Sprintf("%016x", c.hash.Sum64()) }

// Next returns the next chunk or io.EOF. The first call always yields chunk 0,
// even when the source has no data rows, so the destination table is replaced.
func (c *ChunkReader) Next(ctx context.Context) (*storage.Chunk, error) {
	if c.done {
		return nil, io.EOF
	}
	raw := make([][]string, 0, min(c.chunkSize, 4096))
	for len(raw) < c.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := c.cr.Read()
		if errors.Is(err, io.EOF) {
			c.done = true
			break
		}
		c.line++
		if err != nil {
			return nil, errs.Wrap(errs.KindSourceRead, err, "csv")
		}
		if len(rec) > len(c.header) {
			return nil, errs.Newf(errs.KindSourceRead,
				"csv: line %d: expected %d fields, saw %d", c.line, len(c.header), len(rec))
		}
		if c.strict {
			for _, v := range rec {
				if !utf8.ValidString(v) {
					return nil, errs.Newf(errs.KindSourceRead, "csv: line %d: invalid UTF-8", c.line)
				}
			}
		}
		c.hashRow(rec)
		raw = append(raw, rec)
	}

	if len(raw) == 0 && c.index > 0 {
		return nil, io.EOF
	}
	if c.cols == nil {
		c.cols = schema.Infer(c.header, raw)
	}

	rows := make([][]any, len(raw))
	for i, rec := range raw {
		row := make([]any, len(c.cols))
		for j, col := range c.cols {
			if j < len(rec) {
				row[j] = schema.Convert(col.Kind, rec[j])
			}
		}
		rows[i] = row
	}
	c.rows += int64(len(rows))

	chunk := &storage.Chunk{Index: c.index, Columns: c.cols, Rows: rows}
	c.index++
	return chunk, nil
}

// hashRow feeds one record into the fingerprint with unit/record separators
// so that field boundaries are part of the digest.
func (c *ChunkReader) hashRow(rec []string) {
	for i, v := range rec {
		if i > 0 {
			_, _ = c.hash.Write([]byte{0x1f})
		}
		_, _ = c.hash.WriteString(v)
	}
	_, _ = c.hash.Write([]byte{0x1e})
}

// normalizeHeader strips the BOM and surrounding spaces and rejects empty or
// duplicate names.
func normalizeHeader(h []string, strict bool) ([]string, error) {
	seen := make(map[string]struct{}, len(h))
	out := make([]string, len(h))
	for i, col := range h {
		if i == 0 {
			col = trimBOM(col)
		}
		name := strings.TrimSpace(col)
		if strict && !utf8.ValidString(name) {
			return nil, fmt.Errorf("column %d: invalid UTF-8", i+1)
		}
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out, nil
}

func decoderIsUTF8(encoding string) bool {
	cm, err := decoderFor(encoding)
	return err == nil && cm == nil
}
