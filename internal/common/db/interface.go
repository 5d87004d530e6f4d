package db

import "context"

// Database is a pooled connection to one relational store.
type Database interface {
	Querier

	// Transaction runs fn inside a transaction, committing when fn returns
	// nil and rolling back otherwise.
	Transaction(ctx context.Context, fn func(tx Transaction) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Transaction is an open database transaction.
type Transaction interface {
	Querier
	Commit() error
	Rollback() error
}

// Rows is the result of a query returning many rows.
type Rows interface {
	Scanner
	Next() bool
	Close() error
	Err() error
}

// Row is the result of a query returning at most one row.
type Row interface {
	Scanner
}

// Scanner copies columns of the current row into dest.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Result summarises an executed statement.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}
