// Package postgres implements a Postgres repository using pgx v5. Bulk writes
// go through the COPY protocol via pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"vendoretl/internal/schema"
	"vendoretl/internal/storage"
	pgddl "vendoretl/internal/storage/postgres/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Backend.
type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Backend = (*Repository)(nil)

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool}, closeFn, nil
}

// CopyFrom streams rows into table with COPY FROM STDIN.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, copyTarget(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("postgres: copy into %s: %s (%s)", table, pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return n, nil
}

// Exec implements storage.Backend.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}

// Query runs sql and materialises every row. NUMERIC values (SUM over BIGINT
// yields NUMERIC) are converted to float64.
func (r *Repository) Query(ctx context.Context, sql string) (*storage.ResultSet, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("postgres: query: %w", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	out := &storage.ResultSet{Columns: make([]string, len(fds))}
	for i, fd := range fds {
		out.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: values: %w", err)
		}
		for i, v := range vals {
			nv, err := normalizeValue(v)
			if err != nil {
				return nil, fmt.Errorf("postgres: column %s: %w", out.Columns[i], err)
			}
			vals[i] = nv
		}
		out.Rows = append(out.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return out, nil
}

// QuoteIdent implements storage.Backend.
func (r *Repository) QuoteIdent(id string) string { return pgddl.QuoteIdent(id) }

// MapType implements storage.Backend.
func (r *Repository) MapType(kind schema.Kind) string { return pgddl.MapType(kind) }

// copyTarget names table for COPY as a single identifier, matching the quoting
// used by CREATE TABLE.
func copyTarget(table string) pgx.Identifier { return pgx.Identifier{table} }

// normalizeValue maps pgx decoded values onto the plain Go types the
// pipelines expect.
func normalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid {
			return nil, nil
		}
		f, err := t.Float64Value()
		if err != nil {
			return nil, err
		}
		return f.Float64, nil
	case int32:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case float32:
		return float64(t), nil
	default:
		return v, nil
	}
}

