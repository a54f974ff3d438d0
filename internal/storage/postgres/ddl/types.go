// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"strings"

	"vendoretl/internal/schema"
)

// MapType maps a logical column kind into a Postgres SQL type.
//
//	integer -> BIGINT
//	real    -> DOUBLE PRECISION
//	text    -> TEXT (also the fallback)
func MapType(kind schema.Kind) string {
	switch kind {
	case schema.KindInteger:
		return "BIGINT"
	case schema.KindReal:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// QuoteIdent safely quotes a single identifier segment for Postgres.
func QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
