package summary

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vendoretl/internal/metrics"
	"vendoretl/internal/storage"
)

// Job is the metrics job label of the summary pipeline.
const Job = "vendor_summary"

// headRows is how many rows are logged after each major step.
const headRows = 5

// Options configures a Pipeline.
type Options struct {
	CSVPath string
	// XLSXPath enables the spreadsheet export when set.
	XLSXPath       string
	Table          string
	WriteChunkSize int
}

// Result describes a completed run.
type Result struct {
	Rows     int
	Duration time.Duration
}

// Pipeline runs query, enrichment and sinks against one repository, which is
// owned by the caller.
type Pipeline struct {
	repo storage.Repository
	opt  Options
	log  zerolog.Logger
}

// New returns a Pipeline. An empty table name selects DefaultTable.
func New(repo storage.Repository, opt Options, log zerolog.Logger) *Pipeline {
	if opt.Table == "" {
		opt.Table = DefaultTable
	}
	return &Pipeline{repo: repo, opt: opt, log: log}
}

// Run recomputes the summary from the base tables and persists it. Any
// failure stops the run; the CSV export is written before the table, so a
// table failure can leave a fresh export next to a stale table.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	p.log.Info().Msg("Creating vendor summary")
	var raw []RawRow
	err := p.step("query", func() (err error) {
		raw, err = Query(ctx, p.repo)
		return err
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRows(Job, p.opt.Table, "queried", int64(len(raw)))
	p.logHeadRaw(raw)

	p.log.Info().Msg("Cleaning data")
	var rows []Row
	err = p.step("enrich", func() (err error) {
		rows, err = Enrich(raw)
		return err
	})
	if err != nil {
		return res, err
	}
	p.logHead(rows)
	res.Rows = len(rows)

	exports := MultiSink{CSVSink{Path: p.opt.CSVPath}}
	if p.opt.XLSXPath != "" {
		exports = append(exports, XLSXSink{Path: p.opt.XLSXPath})
	}
	if err := p.step("export", func() error { return exports.Write(ctx, rows) }); err != nil {
		return res, err
	}
	metrics.RecordRows(Job, p.opt.Table, "exported", int64(len(rows)))
	p.log.Info().Str("path", p.opt.CSVPath).Int("rows", len(rows)).Msg("Exported vendor summary")

	p.log.Info().Msgf("Ingesting %s table", p.opt.Table)
	table := &TableSink{Repo: p.repo, Table: p.opt.Table, WriteChunkSize: p.opt.WriteChunkSize}
	err = p.step("write_table", func() error { return table.Write(ctx, rows) })
	metrics.RecordRows(Job, p.opt.Table, "written", table.Stats.Rows)
	metrics.RecordBatches(Job, p.opt.Table, table.Stats.Batches)
	if err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	p.log.Info().
		Int("rows", res.Rows).
		Dur("elapsed", res.Duration).
		Msg("Vendor summary pipeline completed successfully")
	return res, nil
}

func (p *Pipeline) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(Job, name, err, time.Since(start))
	return err
}

func (p *Pipeline) logHeadRaw(rows []RawRow) {
	p.log.Info().Int("rows", len(rows)).Msg("Vendor summary query returned")
	for i := 0; i < len(rows) && i < headRows; i++ {
		r := rows[i]
		p.log.Info().
			Int("row", i).
			Interface("VendorNumber", r.VendorNumber).
			Interface("VendorName", r.VendorName).
			Interface("Brand", r.Brand).
			Interface("TotalPurchaseDollars", r.TotalPurchaseDollars).
			Interface("TotalSalesDollars", r.TotalSalesDollars).
			Interface("FreightCost", r.FreightCost).
			Msg("head")
	}
}

func (p *Pipeline) logHead(rows []Row) {
	p.log.Info().Int("rows", len(rows)).Msg("Vendor summary cleaned")
	for i := 0; i < len(rows) && i < headRows; i++ {
		r := rows[i]
		p.log.Info().
			Int("row", i).
			Int64("VendorNumber", r.VendorNumber).
			Str("VendorName", r.VendorName).
			Str("Brand", r.Brand).
			Float64("TotalPurchaseDollars", r.TotalPurchaseDollars).
			Float64("TotalSalesDollars", r.TotalSalesDollars).
			Float64("GrossProfit", r.GrossProfit).
			Float64("ProfitMargin", r.ProfitMargin).
			Float64("StockTurnover", r.StockTurnover).
			Float64("SalesToPurchaseRatio", r.SalesToPurchaseRatio).
			Msg("head")
	}
}
