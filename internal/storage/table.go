package storage

import (
	"context"
	"fmt"

	"vendoretl/internal/ddl"
	"vendoretl/internal/schema"
)

// ReplaceTable drops table if it exists and recreates it with cols, discarding
// prior contents and schema.
func ReplaceTable(ctx context.Context, repo Backend, table string, cols []schema.Column) error {
	drop, err := ddl.BuildDropTableSQL(table, repo.QuoteIdent)
	if err != nil {
		return err
	}
	create, err := ddl.BuildCreateTableSQL(ddl.FromColumns(table, cols, repo.MapType), repo.QuoteIdent)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, drop); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	if err := repo.Exec(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}

// CountRows returns SELECT COUNT(*) for table.
func CountRows(ctx context.Context, repo Backend, table string) (int64, error) {
	rs, err := repo.Query(ctx, "SELECT COUNT(*) FROM "+repo.QuoteIdent(table))
	if err != nil {
		return 0, err
	}
	if rs.Len() != 1 || len(rs.Rows[0]) != 1 {
		return 0, fmt.Errorf("count %s: unexpected result shape", table)
	}
	switch v := rs.Rows[0][0].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("count %s: unexpected value %T", table, v)
	}
}
