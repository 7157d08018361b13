// Package db is the data access layer over the sqlite record store.
// It follows the sqlc calling convention: a Queries struct bound to any
// DBTX (a *sql.DB or *sql.Tx), with one method per named query.
package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New binds a Queries instance to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries exposes the named queries against a bound handle.
type Queries struct {
	db DBTX
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
