// This file implements the chunked table loader. A table is written as a
// sequence of chunks: chunk 0 replaces the destination (drop + recreate from
// the chunk's columns) and every later chunk appends. Inside a chunk rows are
// flushed through Repository.CopyFrom in write batches, so how much is held in
// memory per read is decoupled from how much is sent per insert.
//
// A file is only idempotent when all its chunks land in one run: a failure
// mid-file leaves the table replaced and partially appended, with no rollback.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"vendoretl/internal/errs"
	"vendoretl/internal/schema"
)

// Mode is the write semantics applied to one chunk.
type Mode int

const (
	// ModeReplace drops and recreates the destination before writing.
	ModeReplace Mode = iota
	// ModeAppend adds rows to the existing destination.
	ModeAppend
)

func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "append"
}

// ModeFor returns the write mode for a 0-based chunk index.
func ModeFor(index int) Mode {
	if index == 0 {
		return ModeReplace
	}
	return ModeAppend
}

// Chunk is a rectangular batch of typed rows with a stable column set.
type Chunk struct {
	Index   int
	Columns []schema.Column
	Rows    [][]any
}

// ChunkSource yields chunks in order and returns io.EOF when exhausted.
type ChunkSource interface {
	Next(ctx context.Context) (*Chunk, error)
}

// Progress is emitted after each chunk has been written.
type Progress struct {
	Table string
	Chunk int
	Mode  Mode
	// Rows is the number of rows in this chunk.
	Rows int
	// ApproxTotal is (Chunk+1) × the nominal chunk size. It overstates the
	// total when the last chunk is short.
	ApproxTotal int64
	// ExactTotal is the number of rows actually written so far.
	ExactTotal int64
	Batches    int64
	Elapsed    time.Duration
}

// LoadOptions tunes LoadChunks.
type LoadOptions struct {
	// NominalChunkSize is the read chunk size used for approximate progress.
	NominalChunkSize int
	// WriteBatchSize bounds the rows sent per CopyFrom call.
	WriteBatchSize int
	// OnProgress, if set, receives one Progress per chunk.
	OnProgress func(Progress)
}

// LoadStats summarises a completed LoadChunks call.
type LoadStats struct {
	Table   string
	Chunks  int
	Rows    int64
	Batches int64
}

// WriteChunk writes one chunk to table with the mode implied by its index and
// returns the rows and write batches flushed.
func WriteChunk(ctx context.Context, repo Repository, table string, c *Chunk, writeBatch int) (int64, int64, error) {
	if writeBatch <= 0 {
		return 0, 0, fmt.Errorf("writeBatch must be > 0")
	}
	if ModeFor(c.Index) == ModeReplace {
		if err := ReplaceTable(ctx, repo, table, c.Columns); err != nil {
			return 0, 0, errs.Wrap(errs.KindDestinationWrite, err, "replace "+table)
		}
	}

	columns := schema.Names(c.Columns)
	var total, batches int64
	for start := 0; start < len(c.Rows); start += writeBatch {
		end := start + writeBatch
		if end > len(c.Rows) {
			end = len(c.Rows)
		}
		n, err := repo.CopyFrom(ctx, table, columns, c.Rows[start:end])
		total += n
		if err != nil {
			return total, batches, errs.Wrap(errs.KindDestinationWrite, err,
				fmt.Sprintf("%s chunk %d rows %d-%d", table, c.Index, start, end))
		}
		batches++
	}
	return total, batches, nil
}

// LoadChunks drains src into table. Chunk 0 replaces the table, later chunks
// append. Any write failure is returned immediately; nothing is retried.
func LoadChunks(ctx context.Context, repo Repository, table string, src ChunkSource, opt LoadOptions) (LoadStats, error) {
	stats := LoadStats{Table: table}
	if opt.NominalChunkSize <= 0 {
		return stats, fmt.Errorf("NominalChunkSize must be > 0")
	}
	if opt.WriteBatchSize <= 0 {
		return stats, fmt.Errorf("WriteBatchSize must be > 0")
	}

	var (
		start   = time.Now()
		columns []string
	)
	for {
		c, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		if c.Index != stats.Chunks {
			return stats, fmt.Errorf("%s: chunk index %d out of order, want %d", table, c.Index, stats.Chunks)
		}

		names := schema.Names(c.Columns)
		if c.Index == 0 {
			columns = names
		} else if !sameColumns(columns, names) {
			return stats, errs.Newf(errs.KindSourceRead, "%s: chunk %d columns %v differ from %v", table, c.Index, names, columns)
		}

		n, b, err := WriteChunk(ctx, repo, table, c, opt.WriteBatchSize)
		stats.Rows += n
		stats.Batches += b
		if err != nil {
			return stats, err
		}
		stats.Chunks++

		if opt.OnProgress != nil {
			opt.OnProgress(Progress{
				Table:       table,
				Chunk:       c.Index,
				Mode:        ModeFor(c.Index),
				Rows:        len(c.Rows),
				ApproxTotal: int64(c.Index+1) * int64(opt.NominalChunkSize),
				ExactTotal:  stats.Rows,
				Batches:     stats.Batches,
				Elapsed:     time.Since(start),
			})
		}
	}
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SliceSource serves pre-built chunks; it is handy for in-memory tables.
type SliceSource struct {
	chunks []*Chunk
	pos    int
}

// NewSliceSource splits rows into chunks of size chunkSize (at least one
// chunk, so an empty row set still replaces the table).
func NewSliceSource(cols []schema.Column, rows [][]any, chunkSize int) *SliceSource {
	if chunkSize <= 0 {
		chunkSize = len(rows)
	}
	s := &SliceSource{}
	for i := 0; i == 0 || i*chunkSize < len(rows); i++ {
		lo := i * chunkSize
		hi := lo + chunkSize
		if hi > len(rows) {
			hi = len(rows)
		}
		s.chunks = append(s.chunks, &Chunk{Index: i, Columns: cols, Rows: rows[lo:hi]})
		if chunkSize == 0 {
			break
		}
	}
	return s
}

// Next implements ChunkSource.
func (s *SliceSource) Next(ctx context.Context) (*Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}
