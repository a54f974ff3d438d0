// Command vendorsummary aggregates the ingested tables into the vendor sales
// summary, exports it and replaces the summary table.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"vendoretl/internal/app"
	"vendoretl/internal/config"
	"vendoretl/internal/summary"

	// Register every backend; the configuration picks one.
	_ "vendoretl/internal/storage/all"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	return app.Command(app.Pipeline{
		Use:     "vendorsummary",
		Short:   "Build the vendor sales summary from the ingested tables",
		Job:     summary.Job,
		LogPath: func(c *config.Config) string { return c.SummaryLogPath },
		Run:     run,
	})
}

func run(ctx context.Context, rt *app.Runtime) error {
	cfg := rt.Config
	_, err := summary.New(rt.Repo, summary.Options{
		CSVPath:        cfg.SummaryCSVPath,
		XLSXPath:       cfg.SummaryXLSXPath,
		Table:          cfg.SummaryTable,
		WriteChunkSize: cfg.SummaryWriteChunkSize,
	}, rt.Log).Run(ctx)
	return err
}
