package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	csvparser "vendoretl/internal/parser/csv"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path names the environment variable without its prefix (e.g. "DB_KIND").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// KnownDBKinds lists the destination backends shipped with the binaries.
var KnownDBKinds = []string{"sqlite", "postgres", "mssql"}

var knownMetricsBackends = map[string]struct{}{
	"none":        {},
	"pushgateway": {},
	"datadog":     {},
}

// Validate performs static checks over cfg and returns every issue found.
// Callers decide whether warnings are fatal.
func Validate(cfg Config) []Issue {
	var issues []Issue
	issues = append(issues, validateStore(cfg)...)
	issues = append(issues, validateIngest(cfg)...)
	issues = append(issues, validateSummary(cfg)...)
	issues = append(issues, validateObservability(cfg)...)
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateStore(cfg Config) []Issue {
	var issues []Issue

	kind := strings.TrimSpace(cfg.DBKind)
	known := false
	for _, k := range KnownDBKinds {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "DB_KIND",
			Message:  fmt.Sprintf("unknown destination kind %q; want one of %s", cfg.DBKind, strings.Join(KnownDBKinds, ", ")),
		})
	}
	if strings.TrimSpace(cfg.DBDSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "DB_DSN",
			Message:  "DB_DSN must not be empty",
		})
	}
	return issues
}

func validateIngest(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.DataDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "DATA_DIR",
			Message:  "DATA_DIR must not be empty",
		})
	}
	if cfg.ReadChunkSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "READ_CHUNK_SIZE",
			Message:  fmt.Sprintf("READ_CHUNK_SIZE=%d; must be positive", cfg.ReadChunkSize),
		})
	}
	if cfg.WriteChunkSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "WRITE_CHUNK_SIZE",
			Message:  fmt.Sprintf("WRITE_CHUNK_SIZE=%d; must be positive", cfg.WriteChunkSize),
		})
	}
	if cfg.ReadChunkSize > 0 && cfg.WriteChunkSize > cfg.ReadChunkSize {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "WRITE_CHUNK_SIZE",
			Message: fmt.Sprintf("WRITE_CHUNK_SIZE=%d exceeds READ_CHUNK_SIZE=%d; write batches are bounded by the read chunk",
				cfg.WriteChunkSize, cfg.ReadChunkSize),
		})
	}
	if !csvparser.IsSupportedEncoding(cfg.SourceEncoding) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "SOURCE_ENCODING",
			Message: fmt.Sprintf("unsupported encoding %q; want one of %s",
				cfg.SourceEncoding, strings.Join(csvparser.SupportedEncodings, ", ")),
		})
	}
	if utf8.RuneCountInString(cfg.SourceDelimiter) != 1 || cfg.SourceDelimiter == "\n" || cfg.SourceDelimiter == "\r" || cfg.SourceDelimiter == `"` {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "SOURCE_DELIMITER",
			Message:  fmt.Sprintf("SOURCE_DELIMITER=%q; must be a single character other than quote or newline", cfg.SourceDelimiter),
		})
	}
	if strings.TrimSpace(cfg.IngestLogPath) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "INGEST_LOG_PATH",
			Message:  "INGEST_LOG_PATH must not be empty",
		})
	}
	return issues
}

func validateSummary(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.SummaryTable) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "SUMMARY_TABLE",
			Message:  "SUMMARY_TABLE must not be empty",
		})
	}
	if strings.TrimSpace(cfg.SummaryCSVPath) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "SUMMARY_CSV_PATH",
			Message:  "SUMMARY_CSV_PATH must not be empty",
		})
	}
	if cfg.SummaryWriteChunkSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "SUMMARY_WRITE_CHUNK_SIZE",
			Message:  fmt.Sprintf("SUMMARY_WRITE_CHUNK_SIZE=%d; must be positive", cfg.SummaryWriteChunkSize),
		})
	}
	if strings.TrimSpace(cfg.SummaryLogPath) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "SUMMARY_LOG_PATH",
			Message:  "SUMMARY_LOG_PATH must not be empty",
		})
	}
	return issues
}

func validateObservability(cfg Config) []Issue {
	var issues []Issue

	backend := strings.ToLower(strings.TrimSpace(cfg.MetricsBackend))
	if backend == "" {
		return issues
	}
	if _, ok := knownMetricsBackends[backend]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "METRICS_BACKEND",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics are disabled", cfg.MetricsBackend),
		})
	}
	return issues
}
