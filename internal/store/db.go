package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database access shared by *sql.DB and *sql.Tx, so a
// store can run either against the pool or inside a caller's transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
