// Package config loads the fixed configuration shared by the ingest and
// summary binaries. Values come from VENDORETL_* environment variables,
// optionally seeded from a dotenv file; every value has a default so neither
// binary needs arguments.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"vendoretl/internal/errs"
)

// EnvPrefix is prepended to every variable name, e.g. VENDORETL_DB_DSN.
const EnvPrefix = "VENDORETL"

// DefaultEnvFile is loaded when present; a missing default file is not an error.
const DefaultEnvFile = ".env"

// Config is the complete runtime configuration.
type Config struct {
	// DataDir is the directory scanned for *.csv source files.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// DBKind selects the destination backend: sqlite, postgres or mssql.
	DBKind string `envconfig:"DB_KIND" default:"sqlite"`
	// DBDSN is the destination connection string.
	DBDSN string `envconfig:"DB_DSN" default:"inventory.db"`

	// ReadChunkSize bounds the rows held in memory per source read and is the
	// nominal size used by approximate progress lines.
	ReadChunkSize int `envconfig:"READ_CHUNK_SIZE" default:"50000"`
	// WriteChunkSize bounds the rows sent to the store per insert batch.
	WriteChunkSize int `envconfig:"WRITE_CHUNK_SIZE" default:"10000"`

	SourceEncoding  string `envconfig:"SOURCE_ENCODING" default:"utf-8"`
	SourceDelimiter string `envconfig:"SOURCE_DELIMITER" default:","`

	// VerifyRowCount compares COUNT(*) with the rows written after each file.
	VerifyRowCount bool `envconfig:"VERIFY_ROW_COUNT" default:"true"`

	IngestLogPath  string `envconfig:"INGEST_LOG_PATH" default:"logs/ingestion_db.log"`
	SummaryLogPath string `envconfig:"SUMMARY_LOG_PATH" default:"logs/get_vendor_summary.log"`

	SummaryCSVPath        string `envconfig:"SUMMARY_CSV_PATH" default:"data/processed/vendor_sales_summary.csv"`
	SummaryXLSXPath       string `envconfig:"SUMMARY_XLSX_PATH"`
	SummaryTable          string `envconfig:"SUMMARY_TABLE" default:"vendor_sales_summary"`
	SummaryWriteChunkSize int    `envconfig:"SUMMARY_WRITE_CHUNK_SIZE" default:"10000"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogStderr bool   `envconfig:"LOG_STDERR" default:"false"`

	MetricsBackend string `envconfig:"METRICS_BACKEND" default:"none"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL" default:"http://localhost:9091"`
	DatadogAddr    string `envconfig:"DATADOG_ADDR" default:"127.0.0.1:8125"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errs.Wrap(errs.KindConfig, err, "parsing config")
	}
	return &cfg, nil
}

// LoadEnvFile seeds the environment from a dotenv file. Variables already set
// in the environment win. A missing file is ignored unless mustExist is set.
func LoadEnvFile(path string, mustExist bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !mustExist {
		return nil
	}
	return errs.Wrap(errs.KindConfig, err, fmt.Sprintf("load env file %s", path))
}

// Delimiter returns the configured field delimiter. Validate guarantees it
// is a single rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.SourceDelimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}
