// Package database provides the PostgreSQL query layer for the migration API.
//
// Queries are written against the DBTX interface so they run equally on a
// *pgxpool.Pool or inside a pgx.Tx. Call New with whichever you have.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Queries exposes all database operations against a single DBTX.
type Queries struct {
	db DBTX
}

// New returns a Queries bound to the given pool or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
