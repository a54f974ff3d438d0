// Package ingest loads every CSV file of a data directory into the destination
// store, one table per file. Files are processed one after another in sorted
// name order; each file is streamed in read chunks and written in smaller
// write batches through storage.LoadChunks.
package ingest

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"vendoretl/internal/datasource"
	"vendoretl/internal/datasource/file"
	"vendoretl/internal/errs"
	"vendoretl/internal/metrics"
	csvparser "vendoretl/internal/parser/csv"
	"vendoretl/internal/storage"
)

// Job is the metrics job label of the ingest pipeline.
const Job = "ingest"

// Options configures an Ingestor.
type Options struct {
	DataDir string
	// ReadChunkSize is the number of rows read per chunk and the nominal size
	// behind the approximate progress count.
	ReadChunkSize int
	// WriteChunkSize is the number of rows sent per insert batch.
	WriteChunkSize int
	Encoding       string
	Delimiter      rune
	// VerifyRowCount re-counts each table after loading and fails the run on
	// a mismatch.
	VerifyRowCount bool
}

// FileReport describes one loaded file.
type FileReport struct {
	Path        string
	Table       string
	Chunks      int
	Rows        int64
	ApproxRows  int64
	Batches     int64
	Fingerprint string
	Duration    time.Duration
}

// Report describes a whole run.
type Report struct {
	Files    []FileReport
	Rows     int64
	Duration time.Duration
}

// Ingestor drives the chunked loader over a data directory. The repository is
// owned by the caller.
type Ingestor struct {
	repo storage.Repository
	opt  Options
	log  zerolog.Logger
	open func(path string) datasource.Source
}

// New returns an Ingestor writing to repo.
func New(repo storage.Repository, opt Options, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		repo: repo,
		opt:  opt,
		log:  log,
		open: func(path string) datasource.Source { return file.NewLocal(path) },
	}
}

// Run ingests every eligible file. The first failure stops the run; tables
// loaded before it are left in place.
func (in *Ingestor) Run(ctx context.Context) (Report, error) {
	var rep Report
	start := time.Now()

	entries, err := file.ListCSV(in.opt.DataDir)
	if err != nil {
		return rep, errs.Wrap(errs.KindSourceRead, err, "discover sources")
	}
	if len(entries) == 0 {
		in.log.Warn().Str("dir", in.opt.DataDir).Msg("No CSV files found")
	}

	for _, e := range entries {
		fr, err := in.IngestFile(ctx, e)
		if err != nil {
			rep.Duration = time.Since(start)
			return rep, err
		}
		rep.Files = append(rep.Files, fr)
		rep.Rows += fr.Rows
	}

	rep.Duration = time.Since(start)
	in.log.Info().
		Int("files", len(rep.Files)).
		Int64("rows", rep.Rows).
		Msgf("Processing complete. Total time: %.2f minutes", rep.Duration.Minutes())
	return rep, nil
}

// IngestFile loads one file into the table named after it.
func (in *Ingestor) IngestFile(ctx context.Context, e file.Entry) (fr FileReport, err error) {
	fr = FileReport{Path: e.Path, Table: e.Table}
	start := time.Now()
	defer func() {
		fr.Duration = time.Since(start)
		metrics.RecordStep(Job, "load:"+e.Table, err, fr.Duration)
	}()

	in.log.Info().Str("path", e.Path).Msgf("Processing %s", e.Name)

	rc, err := in.open(e.Path).Open(ctx)
	if err != nil {
		return fr, errs.Wrap(errs.KindSourceRead, err, e.Name)
	}
	defer func() {
		err = multierr.Append(err, errs.Wrap(errs.KindSourceRead, rc.Close(), "close "+e.Name))
	}()

	reader, err := csvparser.NewChunkReader(rc, csvparser.Options{
		Comma:     in.opt.Delimiter,
		Encoding:  in.opt.Encoding,
		ChunkSize: in.opt.ReadChunkSize,
	})
	if err != nil {
		return fr, errs.Wrap(errs.KindSourceRead, err, e.Name)
	}

	stats, err := storage.LoadChunks(ctx, in.repo, e.Table, reader, storage.LoadOptions{
		NominalChunkSize: in.opt.ReadChunkSize,
		WriteBatchSize:   in.opt.WriteChunkSize,
		OnProgress: func(p storage.Progress) {
			fr.ApproxRows = p.ApproxTotal
			in.log.Info().
				Int("chunk", p.Chunk).
				Str("mode", p.Mode.String()).
				Int64("exact_rows", p.ExactTotal).
				Msgf("%s: inserted %s rows", p.Table, humanize.Comma(p.ApproxTotal))
		},
	})
	fr.Chunks, fr.Rows, fr.Batches = stats.Chunks, stats.Rows, stats.Batches
	metrics.RecordRows(Job, e.Table, "read", reader.Rows())
	metrics.RecordRows(Job, e.Table, "written", stats.Rows)
	metrics.RecordBatches(Job, e.Table, stats.Batches)
	if err != nil {
		return fr, errs.Wrap(errs.KindDestinationWrite, err, e.Name)
	}
	fr.Fingerprint = reader.Fingerprint()

	if in.opt.VerifyRowCount {
		n, err := storage.CountRows(ctx, in.repo, e.Table)
		if err != nil {
			return fr, errs.Wrap(errs.KindDestinationWrite, err, "verify "+e.Table)
		}
		if n != stats.Rows {
			return fr, errs.Newf(errs.KindDestinationWrite,
				"verify %s: table holds %d rows, wrote %d", e.Table, n, stats.Rows)
		}
	}

	in.log.Info().
		Int64("rows", fr.Rows).
		Int64("batches", fr.Batches).
		Str("fingerprint", fr.Fingerprint).
		Msgf("%s: loaded %s rows", e.Table, humanize.Comma(fr.Rows))
	return fr, nil
}
