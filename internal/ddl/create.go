// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render the DROP/CREATE pair used by replace-mode table writes.
//
// Identifier quoting is supplied by the caller, so each storage backend keeps
// its own dialect (double quotes for SQLite/Postgres, brackets for SQL Server)
// while sharing validation and layout.
package ddl

import (
	"fmt"
	"strings"
)

// QuoteFunc quotes a single identifier. Table names are identifiers too: a
// dot inside one is part of the name, never a schema separator.
type QuoteFunc func(string) string

// BuildCreateTableSQL renders:
//
//	CREATE TABLE <name> (
//	  <col1> TYPE [NOT NULL],
//	  <col2> TYPE
//	);
//
// The table name and every column must be non-empty and every column must
// carry a SQLType.
func BuildCreateTableSQL(t TableDef, q QuoteFunc) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", t.Name)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(q(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n)",
		q(t.Name),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for table.
func BuildDropTableSQL(table string, q QuoteFunc) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	return "DROP TABLE IF EXISTS " + q(table), nil
}
