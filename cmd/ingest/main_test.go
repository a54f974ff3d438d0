package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendoretl/internal/storage"
	"vendoretl/internal/storage/sqlite"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, old, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, "VENDORETL_") {
			continue
		}
		os.Unsetenv(key)
		t.Cleanup(func() { os.Setenv(key, old) })
	}
}

func TestIngestCommand(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "vendor_invoice.csv"),
		[]byte("\uFEFFVendorNumber,Freight\n100,1.5\n100,0.5\n200,3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "README.md"), []byte("# data\n"), 0o644))

	dsn := filepath.Join(root, "inventory.db")
	logPath := filepath.Join(root, "logs", "ingestion_db.log")
	t.Setenv("VENDORETL_DATA_DIR", dataDir)
	t.Setenv("VENDORETL_DB_DSN", dsn)
	t.Setenv("VENDORETL_INGEST_LOG_PATH", logPath)
	t.Setenv("VENDORETL_READ_CHUNK_SIZE", "2")
	t.Setenv("VENDORETL_WRITE_CHUNK_SIZE", "1")

	cmd := newCommand()
	cmd.SetArgs([]string{"--env-file", ""})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	repo, closeFn, err := sqlite.NewRepository(context.Background(), sqlite.Config{DSN: dsn})
	require.NoError(t, err)
	defer closeFn()
	n, err := storage.CountRows(context.Background(), repo, "vendor_invoice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	log := string(b)
	assert.Contains(t, log, "- INFO - Processing vendor_invoice.csv")
	assert.Contains(t, log, "vendor_invoice: inserted 2 rows")
	assert.Contains(t, log, "vendor_invoice: inserted 4 rows")
	assert.Contains(t, log, "Processing complete. Total time:")
	assert.NotContains(t, log, "README")
}

func TestIngestCommandFailsOnMissingDataDir(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	t.Setenv("VENDORETL_DATA_DIR", filepath.Join(root, "nope"))
	t.Setenv("VENDORETL_DB_DSN", filepath.Join(root, "inventory.db"))
	t.Setenv("VENDORETL_INGEST_LOG_PATH", filepath.Join(root, "ingest.log"))

	cmd := newCommand()
	cmd.SetArgs([]string{"--env-file", ""})
	cmd.SetErr(&strings.Builder{})
	require.Error(t, cmd.ExecuteContext(context.Background()))

	b, err := os.ReadFile(filepath.Join(root, "ingest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "kind=source_read")
}
