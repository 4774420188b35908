package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"filesafe/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is PostgreSQL's SQLSTATE for unique-constraint
// violations.
const uniqueViolationCode = "23505"

// RowFunc decodes the current row of a result set into a value of type T.
// Implementations must call rows.Scan and not advance the cursor.
type RowFunc[T any] func(rows *sql.Rows) (T, error)

// QueryOne executes a parameterized query expected to match exactly one row
// and decodes it with scan. Zero rows yield common.ErrNotFound; more than one
// row, a decode failure or a driver failure yield common.ErrInternal.
func QueryOne[T any](ctx context.Context, db DBTX, query string, scan RowFunc[T], args ...any) (T, error) {
	var zero T

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("%w: query [%s]: %v", common.ErrInternal, query, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, fmt.Errorf("%w: query [%s]: %v", common.ErrInternal, query, err)
		}
		return zero, fmt.Errorf("%w: no results for query [%s]", common.ErrNotFound, query)
	}

	value, err := scan(rows)
	if err != nil {
		return zero, fmt.Errorf("%w: decoding row for query [%s]: %v", common.ErrInternal, query, err)
	}

	if rows.Next() {
		return zero, fmt.Errorf("%w: query [%s] returned more than one row", common.ErrInternal, query)
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("%w: query [%s]: %v", common.ErrInternal, query, err)
	}

	return value, nil
}

// QueryMany executes a parameterized query and decodes every matching row
// with scan. Zero rows yield an empty slice, not an error.
func QueryMany[T any](ctx context.Context, db DBTX, query string, scan RowFunc[T], args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query [%s]: %v", common.ErrInternal, query, err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		value, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding row for query [%s]: %v", common.ErrInternal, query, err)
		}
		result = append(result, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query [%s]: %v", common.ErrInternal, query, err)
	}

	return result, nil
}

// QueryValue retrieves a single column value: SELECT column FROM table WHERE
// criteriaColumn = $1. Identifiers come from compile-time constants, never
// from request data; the criteria value is always passed positionally.
func QueryValue[T any](ctx context.Context, db DBTX, table, column, criteriaColumn string, criteria any) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", column, table, criteriaColumn)
	return QueryOne(ctx, db, query, func(rows *sql.Rows) (T, error) {
		var v T
		err := rows.Scan(&v)
		return v, err
	}, criteria)
}

// Update executes a parameterized UPDATE/DELETE statement and returns the
// number of affected rows. Zero affected rows is not an error.
func Update(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: update [%s]: %v", common.ErrInternal, query, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: update [%s]: %v", common.ErrInternal, query, err)
	}
	return affected, nil
}

// Insert builds and executes a parameterized INSERT into table from the
// given column->value map. A unique-constraint violation reported by the
// store surfaces as common.ErrAlreadyExists; no existence pre-check is made,
// the constraint is the single source of truth. Column order is normalized
// so the generated statement is deterministic.
func Insert(ctx context.Context, db DBTX, table string, row map[string]any) error {
	columns := make([]string, 0, len(row))
	for column := range row {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[column]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: row already exists in %s: %v", common.ErrAlreadyExists, table, err)
		}
		return fmt.Errorf("%w: insert into %s: %v", common.ErrInternal, table, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
