package storage

import (
	"context"
	"sync"

	"vendoretl/internal/schema"
)

// Backend is a Repository without Close. Concrete backends hand back a cleanup
// function from their constructor instead.
type Backend interface {
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Exec(ctx context.Context, sql string) error
	Query(ctx context.Context, sql string) (*ResultSet, error)
	QuoteIdent(id string) string
	MapType(kind schema.Kind) string
}

// OpenFunc opens a backend for a DSN and returns its cleanup function.
type OpenFunc[B Backend] func(ctx context.Context, dsn string) (B, func(), error)

// RegisterBackend registers kind with a constructor of the (backend, cleanup,
// error) form. The Repository returned by New runs cleanup on Close, once.
func RegisterBackend[B Backend](kind string, open OpenFunc[B]) {
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		b, cleanup, err := open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &closingRepo{Backend: b, cleanup: cleanup}, nil
	})
}

type closingRepo struct {
	Backend
	cleanup func()
	once    sync.Once
}

func (r *closingRepo) Close() {
	r.once.Do(func() {
		if r.cleanup != nil {
			r.cleanup()
		}
	})
}
