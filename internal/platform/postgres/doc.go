// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store. Queries go through store.DBTX, so a
// store can run against the connection pool or inside a transaction.
package postgres
