// Command ingest loads every CSV file of the data directory into the
// destination store, one table per file, replacing tables that already exist.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"vendoretl/internal/app"
	"vendoretl/internal/config"
	"vendoretl/internal/ingest"

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
		Use:     "ingest",
		Short:   "Load raw CSV extracts into the destination store",
		Job:     ingest.Job,
		LogPath: func(c *config.Config) string { return c.IngestLogPath },
		Run:     run,
	})
}

func run(ctx context.Context, rt *app.Runtime) error {
	cfg := rt.Config
	_, err := ingest.New(rt.Repo, ingest.Options{
		DataDir:        cfg.DataDir,
		ReadChunkSize:  cfg.ReadChunkSize,
		WriteChunkSize: cfg.WriteChunkSize,
		Encoding:       cfg.SourceEncoding,
		Delimiter:      cfg.Delimiter(),
		VerifyRowCount: cfg.VerifyRowCount,
	}, rt.Log).Run(ctx)
	return err
}
