package repository

import (
	"context"
	"fmt"
	"strings"

	"fantasy/internal/common/db"
	pkgrepo "fantasy/pkg/repository"
)

// crud holds the SQL shared by the entity repositories. Every query is
// written with '?' placeholders; the database rebinds them per dialect.
type crud[T any] struct {
	provider db.Provider

	// table is the written table, e.g. "teams".
	table string
	// from is the FROM clause of reads, joins included.
	from string
	// columns are the selected columns, in scan order.
	columns string
	// idColumn and nameColumn are qualified for reads.
	idColumn   string
	nameColumn string
	// filterColumn is matched by the pagination filter.
	filterColumn string

	scan func(db.Scanner) (*T, error)
}

func (c *crud[T]) database() (db.Database, error) {
	return db.CurrentDatabase(c.provider)
}

func (c *crud[T]) selectSQL() string {
	return "SELECT " + c.columns + " FROM " + c.from
}

func (c *crud[T]) filterSQL(p pkgrepo.Pagination) (string, []interface{}) {
	if !p.HasFilter() {
		return "", nil
	}
	clause := fmt.Sprintf(" WHERE LOWER(%s) LIKE ? ESCAPE '%s'", c.filterColumn, pkgrepo.LikeEscape)
	return clause, []interface{}{p.LikePattern()}
}

func (c *crud[T]) getByID(ctx context.Context, q db.Querier, id int64) (*T, error) {
	row := q.QueryRow(ctx, c.selectSQL()+" WHERE "+c.idColumn+" = ?", id)
	entity, err := c.scan(row)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, pkgrepo.ErrNotFound
		}
		return nil, err
	}
	return entity, nil
}

// orderSQL sorts by name with id as tie-break, so LIMIT/OFFSET pages are
// disjoint on every dialect even when names repeat.
func (c *crud[T]) orderSQL() string {
	return " ORDER BY " + c.nameColumn + ", " + c.idColumn
}

func (c *crud[T]) getAll(ctx context.Context, q db.Querier) ([]*T, error) {
	return c.list(ctx, q, c.selectSQL()+c.orderSQL())
}

func (c *crud[T]) getPaginated(ctx context.Context, q db.Querier, p pkgrepo.Pagination) ([]*T, error) {
	p.Normalize()
	where, args := c.filterSQL(p)
	query := c.selectSQL() + where + c.orderSQL() + " LIMIT ? OFFSET ?"
	args = append(args, p.Limit(), p.Offset())
	return c.list(ctx, q, query, args...)
}

func (c *crud[T]) getTotalRecords(ctx context.Context, q db.Querier, p pkgrepo.Pagination) (int64, error) {
	where, args := c.filterSQL(p)
	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+c.from+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (c *crud[T]) list(ctx context.Context, q db.Querier, query string, args ...interface{}) ([]*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		entity, err := c.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *crud[T]) exists(ctx context.Context, q db.Querier, id int64) (bool, error) {
	var found int64
	err := q.QueryRow(ctx, "SELECT id FROM "+c.table+" WHERE id = ?", id).Scan(&found)
	if err != nil {
		if db.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// insert runs an INSERT and returns the new id, classifying constraint failures.
func (c *crud[T]) insert(ctx context.Context, q db.Querier, query string, args ...interface{}) (int64, error) {
	id, err := db.InsertReturningID(ctx, q, query, args...)
	if err != nil {
		return 0, classifyWriteError(err)
	}
	return id, nil
}

// update runs an UPDATE on one row. MySQL reports zero affected rows when
// nothing changed, so a zero count is confirmed with an existence check.
func (c *crud[T]) update(ctx context.Context, q db.Querier, id int64, query string, args ...interface{}) error {
	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return classifyWriteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	found, err := c.exists(ctx, q, id)
	if err != nil {
		return err
	}
	if !found {
		return pkgrepo.ErrNotFound
	}
	return nil
}

func (c *crud[T]) delete(ctx context.Context, q db.Querier, id int64) error {
	result, err := q.Exec(ctx, "DELETE FROM "+c.table+" WHERE id = ?", id)
	if err != nil {
		if db.ForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", pkgrepo.ErrReferenced, err)
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgrepo.ErrNotFound
	}
	return nil
}

// classifyWriteError maps driver constraint errors to repository sentinels,
// keeping the driver message for logs.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	if key, ok := db.UniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", pkgrepo.ErrAlreadyExists, key)
	}
	if db.ForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", pkgrepo.ErrForeignKey, err)
	}
	return err
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
