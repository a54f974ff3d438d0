package postgres

import (
	"context"

	"vendoretl/internal/storage"
)

// newRepository is swapped by tests to avoid a real connection.
var newRepository = NewRepository

func init() {
	storage.RegisterBackend[*Repository]("postgres", func(ctx context.Context, dsn string) (*Repository, func(), error) {
		return newRepository(ctx, Config{DSN: dsn})
	})
}
