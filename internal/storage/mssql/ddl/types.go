// Package ddl contains MSSQL-specific helpers for generating DDL.
//
// It maps logical column kinds into SQL Server types and provides bracket
// identifier quoting.
package ddl

import (
	"strings"

	"vendoretl/internal/schema"
)

// MapType maps a logical column kind into a SQL Server column type.
// Unknown or empty kinds fall back to NVARCHAR(MAX).
func MapType(kind schema.Kind) string {
	switch kind {
	case schema.KindInteger:
		return "BIGINT"
	case schema.KindReal:
		return "FLOAT"
	default:
		// Default to a flexible Unicode string type.
		return "NVARCHAR(MAX)"
	}
}

// QuoteIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func QuoteIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }
