// Package ddl contains SQLite-specific helpers for generating DDL.
//
// SQLite is dynamically typed, so the mapping only picks the column affinity
// that keeps numeric comparisons and sums numeric.
package ddl

import (
	"strings"

	"vendoretl/internal/schema"
)

// MapType maps a logical column kind into a SQLite column type.
func MapType(kind schema.Kind) string {
	switch kind {
	case schema.KindInteger:
		return "INTEGER"
	case schema.KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// QuoteIdent applies SQLite double-quoted identifier quoting.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
