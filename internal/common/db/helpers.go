package db

import (
	"context"
	"database/sql"
	"errors"
)

// Querier abstracts database operations for both database and transaction.
type Querier interface {
	Dialect() Dialect
	Query(ctx context.Context, query string, args ...interface{}) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) Row
	Exec(ctx context.Context, query string, args ...interface{}) (Result, error)
}

// GetQuerier returns transaction if provided, otherwise uses the database.
func GetQuerier(database Database, tx Transaction) Querier {
	if tx != nil {
		return tx
	}
	return database
}

// IsNoRows checks if the error is sql.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// UniqueViolation reports whether err is a unique/primary key violation for
// any supported driver and returns the offending key or constraint name.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if key, ok := mysqlUniqueViolation(err); ok {
		return key, true
	}
	if key, ok := postgresUniqueViolation(err); ok {
		return key, true
	}
	return sqliteUniqueViolation(err)
}

// ForeignKeyViolation reports whether err is a foreign key violation, either
// a child row pointing at a missing parent or a restricted parent delete.
func ForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return mysqlForeignKeyViolation(err) || postgresForeignKeyViolation(err) || sqliteForeignKeyViolation(err)
}

// InsertReturningID executes an INSERT and returns the generated id.
// PostgreSQL has no LastInsertId, so the statement gets "RETURNING id".
func InsertReturningID(ctx context.Context, q Querier, query string, args ...interface{}) (int64, error) {
	if !q.Dialect().SupportsLastInsertID() {
		var id int64
		if err := q.QueryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
