// Package sqldb implements storage.Storage on top of database/sql.
//
// It is driver-agnostic: the sqlite and mysql packages open the connection
// pool, apply migrations, and hand the pool to New together with a function
// that recognises their driver's constraint errors. Queries are built with
// squirrel using "?" placeholders, which both drivers accept.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aanand-mishra/school-api/internal/storage"
	"github.com/aanand-mishra/school-api/internal/validation"
)

// ConstraintFunc converts a driver error into a *validation.Error when the
// database rejected a write for a NOT NULL or UNIQUE constraint. It returns
// nil for every other error.
type ConstraintFunc func(err error) *validation.Error

// DB is the SQL-backed storage. A *sql.DB is a connection pool and is safe
// for concurrent use, so one DB serves every request.
type DB struct {
	db         *sql.DB
	sb         sq.StatementBuilderType
	constraint ConstraintFunc
	now        func() time.Time
}

// check that *DB satisfies the full contract at compile time.
var _ storage.Storage = (*DB)(nil)

// New wraps an open, migrated pool.
func New(db *sql.DB, constraint ConstraintFunc) *DB {
	if constraint == nil {
		constraint = func(error) *validation.Error { return nil }
	}
	return &DB{
		db:         db,
		sb:         sq.StatementBuilder.PlaceholderFormat(sq.Question),
		constraint: constraint,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Close releases the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// table describes how one entity maps onto its SQL table.
type table[T any] struct {
	name    string
	columns []string
	scan    func(row scanner) (T, error)
}

// writeErr turns a failed write into either a *validation.Error or a
// wrapped infrastructure error.
func (d *DB) writeErr(op string, err error) error {
	if verr := d.constraint(err); verr != nil {
		return verr
	}
	return fmt.Errorf("%s: exec: %w", op, err)
}

// insert adds a row and returns its generated key.
func insert(ctx context.Context, d *DB, op, name string, values map[string]any) (int64, error) {
	query, args, err := d.sb.Insert(name).SetMap(values).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: build: %w", op, err)
	}

	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, d.writeErr(op, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}
	return id, nil
}

// findOne returns the first row (lowest id) matching where.
func findOne[T any](ctx context.Context, d *DB, op string, t table[T], where sq.Sqlizer) (T, bool, error) {
	var zero T

	query, args, err := d.sb.Select(t.columns...).
		From(t.name).
		Where(where).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return zero, false, fmt.Errorf("%s: build: %w", op, err)
	}

	record, err := t.scan(d.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("%s: scan: %w", op, err)
	}
	return record, true, nil
}

// findAll returns every row ordered by id. The slice is never nil.
func findAll[T any](ctx context.Context, d *DB, op string, t table[T]) ([]T, error) {
	query, args, err := d.sb.Select(t.columns...).From(t.name).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		record, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}
	return records, nil
}

// update overwrites the given columns of row id and returns the stored row.
// An empty set only checks that the row exists.
func update[T any](ctx context.Context, d *DB, op string, t table[T], id int64, set map[string]any) (T, error) {
	var zero T

	if len(set) > 0 {
		set["updated_at"] = d.now()

		query, args, err := d.sb.Update(t.name).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return zero, fmt.Errorf("%s: build: %w", op, err)
		}

		result, err := d.db.ExecContext(ctx, query, args...)
		if err != nil {
			return zero, d.writeErr(op, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return zero, fmt.Errorf("%s: rows affected: %w", op, err)
		}
		if affected == 0 {
			return zero, storage.ErrNotFound
		}
	}

	// Re-fetch so we return exactly what is stored.
	record, found, err := findOne(ctx, d, op, t, sq.Eq{"id": id})
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, storage.ErrNotFound
	}
	return record, nil
}

// remove deletes row id permanently.
func remove(ctx context.Context, d *DB, op, name string, id int64) error {
	query, args, err := d.sb.Delete(name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: build: %w", op, err)
	}

	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
