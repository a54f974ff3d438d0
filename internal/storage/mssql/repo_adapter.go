package mssql

import (
	"context"

	"vendoretl/internal/storage"
)

// newRepository is swapped by tests to avoid a real connection.
var newRepository = NewRepository

func init() {
	storage.RegisterBackend[*Repository]("mssql", func(ctx context.Context, dsn string) (*Repository, func(), error) {
		return newRepository(ctx, Config{DSN: dsn})
	})
}
