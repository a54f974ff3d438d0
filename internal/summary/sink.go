package summary

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/multierr"

	"vendoretl/internal/errs"
	"vendoretl/internal/export/xlsx"
	"vendoretl/internal/storage"
)

// DefaultTable is the destination table of the summary.
const DefaultTable = "vendor_sales_summary"

// Sink persists enriched rows.
type Sink interface {
	Write(ctx context.Context, rows []Row) error
}

// CSVSink overwrites a delimited file with a header and all rows. The file is
// written next to its final path and renamed into place, so readers never see
// a partial export.
type CSVSink struct {
	Path string
}

// Write implements Sink.
func (s CSVSink) Write(ctx context.Context, rows []Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeCSV(s.Path, rows); err != nil {
		return errs.Wrap(errs.KindExport, err, "csv "+s.Path)
	}
	return nil
}

func writeCSV(path string, rows []Row) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp, closed := f.Name(), false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			err = multierr.Append(err, f.Close())
		}
		_ = os.Remove(tmp)
	}()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return err
	}
	rec := make([]string, len(Columns))
	for _, r := range rows {
		for i, v := range r.Values() {
			rec[i] = formatCell(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	closed = true
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// XLSXSink writes rows to a single-sheet workbook.
type XLSXSink struct {
	Path  string
	Sheet string
}

// Write implements Sink.
func (s XLSXSink) Write(ctx context.Context, rows []Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	vals := make([][]any, len(rows))
	for i, r := range rows {
		vals[i] = r.Values()
	}
	if err := xlsx.Write(s.Path, s.Sheet, Columns, vals); err != nil {
		return errs.Wrap(errs.KindExport, err, "xlsx "+s.Path)
	}
	return nil
}

// TableSink replaces a destination table with the rows, writing in batches of
// WriteChunkSize.
type TableSink struct {
	Repo           storage.Repository
	Table          string
	WriteChunkSize int
	// Stats is filled in by Write.
	Stats storage.LoadStats
}

// Write implements Sink.
func (s *TableSink) Write(ctx context.Context, rows []Row) error {
	vals := make([][]any, len(rows))
	for i, r := range rows {
		vals[i] = r.Values()
	}
	src := storage.NewSliceSource(Schema(), vals, s.WriteChunkSize)
	stats, err := storage.LoadChunks(ctx, s.Repo, s.Table, src, storage.LoadOptions{
		NominalChunkSize: s.WriteChunkSize,
		WriteBatchSize:   s.WriteChunkSize,
	})
	s.Stats = stats
	if err != nil {
		return errs.Wrap(errs.KindDestinationWrite, err, "write "+s.Table)
	}
	return nil
}

// MultiSink writes to each sink in order and stops at the first failure.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(ctx context.Context, rows []Row) error {
	for _, s := range m {
		if err := s.Write(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}
