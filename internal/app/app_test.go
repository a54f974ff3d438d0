package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendoretl/internal/config"
	"vendoretl/internal/errs"
	"vendoretl/internal/metrics/setup"
	"vendoretl/internal/schema"
	"vendoretl/internal/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, old, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, config.EnvPrefix+"_") {
			continue
		}
		os.Unsetenv(key)
		t.Cleanup(func() { os.Setenv(key, old) })
	}
}

type fakeRepo struct{ closed bool }

func (f *fakeRepo) CopyFrom(context.Context, string, []string, [][]any) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) Exec(context.Context, string) error { return nil }
func (f *fakeRepo) Query(context.Context, string) (*storage.ResultSet, error) {
	return &storage.ResultSet{}, nil
}
func (f *fakeRepo) QuoteIdent(id string) string { return `"` + id + `"` }
func (f *fakeRepo) MapType(schema.Kind) string { return "TEXT" }
func (f *fakeRepo) Close() { f.closed = true }

func stubRepo(t *testing.T, repo storage.Repository, err error) {
	t.Helper()
	prev := newRepositoryFn
	newRepositoryFn = func(context.Context, storage.Config) (storage.Repository, error) { return repo, err }
	t.Cleanup(func() { newRepositoryFn = prev })
}

func testPipeline(t *testing.T, run func(context.Context, *Runtime) error) (Pipeline, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")
	return Pipeline{
		Use:     "test",
		Job:     "test",
		LogPath: func(*config.Config) string { return logPath },
		Run:     run,
	}, logPath
}

func execute(t *testing.T, p Pipeline, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := Command(p)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestValidateFlag(t *testing.T) {
	clearEnv(t)
	called := false
	p, _ := testPipeline(t, func(context.Context, *Runtime) error { called = true; return nil })

	out, _, err := execute(t, p, "--validate", "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration is valid")
	assert.False(t, called)
}

func TestInvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("VENDORETL_READ_CHUNK_SIZE", "0")
	p, _ := testPipeline(t, func(context.Context, *Runtime) error { return nil })

	_, stderr, err := execute(t, p, "--validate")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConfig))
	assert.Contains(t, stderr, "READ_CHUNK_SIZE")
}

func TestExplicitEnvFileMustExist(t *testing.T) {
	clearEnv(t)
	p, _ := testPipeline(t, func(context.Context, *Runtime) error { return nil })

	_, _, err := execute(t, p, "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConfig))
}

func TestEnvFileSeedsConfig(t *testing.T) {
	clearEnv(t)
	t.Cleanup(func() { os.Unsetenv("VENDORETL_DB_KIND") })
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("VENDORETL_DB_KIND=oracle\n"), 0o644))
	p, _ := testPipeline(t, func(context.Context, *Runtime) error { return nil })

	_, stderr, err := execute(t, p, "--env-file", envFile, "--validate")
	require.Error(t, err)
	assert.Contains(t, stderr, "oracle")
}

func TestRunPassesRuntimeAndCloses(t *testing.T) {
	clearEnv(t)
	repo := &fakeRepo{}
	stubRepo(t, repo, nil)

	var got *Runtime
	p, logPath := testPipeline(t, func(_ context.Context, rt *Runtime) error {
		got = rt
		rt.Log.Info().Msg("working")
		return nil
	})

	_, _, err := execute(t, p, "--env-file", "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Same(t, repo, got.Repo)
	assert.Equal(t, "sqlite", got.Config.DBKind)
	assert.True(t, repo.closed)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "- INFO - working")
}

func TestRunFailureIsLoggedWithKind(t *testing.T) {
	clearEnv(t)
	repo := &fakeRepo{}
	stubRepo(t, repo, nil)
	p, logPath := testPipeline(t, func(context.Context, *Runtime) error {
		return errs.Newf(errs.KindQuery, "no such table: purchases")
	})

	_, _, err := execute(t, p, "--env-file", "")
	require.Error(t, err)
	assert.True(t, repo.closed)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "pipeline failed")
	assert.Contains(t, string(b), "kind=query")
}

func TestStartStoreFailure(t *testing.T) {
	clearEnv(t)
	stubRepo(t, nil, errors.New("connection refused"))
	p, logPath := testPipeline(t, func(context.Context, *Runtime) error { return nil })

	cfg, err := config.Load()
	require.NoError(t, err)
	_, err = Start(context.Background(), cfg, p)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindDestinationWrite))

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "startup failed")
}

func TestStartMetricsFailureIsNotFatal(t *testing.T) {
	clearEnv(t)
	stubRepo(t, &fakeRepo{}, nil)
	prev := installMetricsFn
	installMetricsFn = func(setup.Options) error { return errors.New("boom") }
	t.Cleanup(func() { installMetricsFn = prev })

	p, logPath := testPipeline(t, func(context.Context, *Runtime) error { return nil })
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.MetricsBackend = "statsd"

	rt, err := Start(context.Background(), cfg, p)
	require.NoError(t, err)
	require.NoError(t, rt.Close())

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "metrics disabled")
}
