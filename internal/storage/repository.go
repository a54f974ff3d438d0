// Package storage contains the storage-agnostic contracts used by both
// pipelines: the Repository a backend implements, a small factory registry,
// and the chunked table loader that gives every write replace-or-append
// semantics.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vendoretl/internal/schema"
)

// Repository is the destination store as seen by the pipelines. One value is
// opened per run and passed explicitly to every component that needs it.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to columns) into table and returns
	// the number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// Query runs a read-only statement and materialises the result.
	Query(ctx context.Context, sql string) (*ResultSet, error)
	// QuoteIdent quotes one identifier segment in the backend's dialect.
	QuoteIdent(id string) string
	// MapType maps a logical column kind to the backend's SQL type.
	MapType(kind schema.Kind) string
	// Close releases the underlying connection pool.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind string
	DSN  string
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResultSet is a fully materialised query result. Values are whatever the
// driver returned: nil, int64, float64, string, []byte, bool or time.Time.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Index returns the position of column name, or -1.
func (r *ResultSet) Index(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}
