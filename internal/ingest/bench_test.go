package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"vendoretl/internal/datasource/file"
	"vendoretl/internal/storage/sqlite"
)

// BenchmarkIngestFile measures CSV read, type conversion and batched inserts
// into a file-backed SQLite store, one sales-shaped file per iteration.
// Run with:
//
//	go test -run=^$ -bench ^BenchmarkIngestFile$ -benchmem ./internal/ingest
func BenchmarkIngestFile(b *testing.B) {
	ctx := context.Background()
	dir := b.TempDir()
	writeBenchCSV(b, dir, "sales.csv", 20000)

	r, closeFn, err := sqlite.NewRepository(ctx, sqlite.Config{DSN: filepath.Join(dir, "bench.db")})
	if err != nil {
		b.Fatalf("NewRepository: %v", err)
	}
	defer closeFn()

	in := New(r, Options{
		DataDir:        dir,
		ReadChunkSize:  5000,
		WriteChunkSize: 1000,
		Encoding:       "utf-8",
		Delimiter:      ',',
	}, zerolog.Nop())
	entry := file.Entry{Path: filepath.Join(dir, "sales.csv"), Name: "sales.csv", Table: "sales"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fr, err := in.IngestFile(ctx, entry)
		if err != nil {
			b.Fatalf("IngestFile: %v", err)
		}
		if fr.Rows != 20000 {
			b.Fatalf("rows=%d, want 20000", fr.Rows)
		}
	}
}
