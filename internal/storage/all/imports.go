// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// Importing this package makes the following storage kinds available:
//
//   - "postgres" (vendoretl/internal/storage/postgres)
//   - "mssql"    (vendoretl/internal/storage/mssql)
//   - "sqlite"   (vendoretl/internal/storage/sqlite)
//
// Typical usage (in cmd/ingest/main.go or a similar wiring layer):
//
//	import _ "vendoretl/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: cfg.DBKind, DSN: cfg.DBDSN})
//	if err != nil {
//	    // handle error
//	}
//	defer repo.Close()
package all

import (
	_ "vendoretl/internal/storage/mssql"
	_ "vendoretl/internal/storage/postgres"
	_ "vendoretl/internal/storage/sqlite"
)
