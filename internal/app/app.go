// Package app holds the start-up sequence shared by the pipeline binaries:
// configuration, validation, logging, metrics and the destination store. The
// binaries stay thin and depend only on storage-agnostic interfaces.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"vendoretl/internal/config"
	"vendoretl/internal/errs"
	"vendoretl/internal/logging"
	"vendoretl/internal/metrics"
	"vendoretl/internal/metrics/setup"
	"vendoretl/internal/storage"
)

// Test seams.
var (
	newRepositoryFn  = storage.New
	installMetricsFn = setup.Install
)

// Pipeline describes one pipeline binary.
type Pipeline struct {
	Use   string
	Short string
	// Job labels metrics and names the Pushgateway group.
	Job string
	// LogPath picks the binary's log file from the configuration.
	LogPath func(*config.Config) string
	// Run executes the pipeline against an open runtime.
	Run func(ctx context.Context, rt *Runtime) error
}

// Runtime is what a pipeline run needs. Close releases it.
type Runtime struct {
	Config *config.Config
	Log    zerolog.Logger
	Repo   storage.Repository

	logCloser io.Closer
	flush     bool
}

// Start opens the log, installs metrics and connects to the store.
func Start(ctx context.Context, cfg *config.Config, p Pipeline) (*Runtime, error) {
	log, closer, err := logging.New(logging.Options{
		Path:   p.LogPath(cfg),
		Level:  cfg.LogLevel,
		Stderr: cfg.LogStderr,
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, err, "logging")
	}
	rt := &Runtime{Config: cfg, Log: log, logCloser: closer}

	err = installMetricsFn(setup.Options{
		Backend:        cfg.MetricsBackend,
		Job:            p.Job,
		PushgatewayURL: cfg.PushgatewayURL,
		DatadogAddr:    cfg.DatadogAddr,
	})
	switch {
	case err != nil:
		log.Warn().Err(err).Str("backend", cfg.MetricsBackend).Msg("metrics disabled")
	case cfg.MetricsBackend != "" && cfg.MetricsBackend != setup.None:
		rt.flush = true
		log.Debug().Str("backend", cfg.MetricsBackend).Str("job", p.Job).Msg("metrics enabled")
	}

	log.Debug().Str("kind", cfg.DBKind).Msg("connecting to destination store")
	repo, err := newRepositoryFn(ctx, storage.Config{Kind: cfg.DBKind, DSN: cfg.DBDSN})
	if err != nil {
		err = errs.Wrap(errs.KindDestinationWrite, err, "open "+cfg.DBKind)
		log.Error().Err(err).Str("kind", string(errs.KindOf(err))).Msg("startup failed")
		return nil, multierr.Append(err, closer.Close())
	}
	rt.Repo = repo
	return rt, nil
}

// Close releases the store, flushes metrics and closes the log.
func (rt *Runtime) Close() error {
	var err error
	if rt.Repo != nil {
		rt.Repo.Close()
	}
	if rt.flush {
		if ferr := metrics.Flush(); ferr != nil {
			rt.Log.Warn().Err(ferr).Msg("metrics flush failed")
		}
	}
	if rt.logCloser != nil {
		err = multierr.Append(err, rt.logCloser.Close())
	}
	return err
}

// Command builds the root command of a pipeline binary. Neither flag is
// required: by default the configuration comes from the environment, seeded
// from ./.env when that file exists.
func Command(p Pipeline) *cobra.Command {
	var (
		envFile  string
		validate bool
	)
	cmd := &cobra.Command{
		Use:          p.Use,
		Short:        p.Short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, envFile, cmd.Flags().Changed("env-file"))
			if err != nil {
				return err
			}
			if validate {
				fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
				return nil
			}
			return run(cmd.Context(), cfg, p)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file seeding the environment")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the configuration and exit")
	return cmd
}

func loadConfig(cmd *cobra.Command, envFile string, mustExist bool) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile, mustExist); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	issues := config.Validate(*cfg)
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return nil, errs.Newf(errs.KindConfig, "configuration is invalid")
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, p Pipeline) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := Start(ctx, cfg, p)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, rt.Close()) }()

	if err := p.Run(ctx, rt); err != nil {
		rt.Log.Error().Err(err).Str("kind", string(errs.KindOf(err))).Msg("pipeline failed")
		return err
	}
	return nil
}
