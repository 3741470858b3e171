// Package sqlite opens the SQLite-backed storage.
//
// SQLite stores everything in a single file on disk. There is no network,
// no separate server process, and no installation beyond the driver, which
// makes it the default backend for local development and for tests.
//
// go-sqlite3 is imported by name rather than blank: besides registering the
// "sqlite3" driver, its Error type is how constraint violations are recognised.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/aanand-mishra/school-api/internal/storage/migrations"
	"github.com/aanand-mishra/school-api/internal/storage/sqldb"
	"github.com/aanand-mishra/school-api/internal/validation"
)

// New opens the SQLite database at path (creating its directory if needed),
// applies migrations, and returns a ready-to-use store.
func New(ctx context.Context, path string) (*sqldb.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// Concurrent writers wait up to 5s for the file lock.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: ping: %w", err)
	}

	if err := migrations.Up(ctx, db, goose.DialectSQLite3); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	return sqldb.New(db, constraintError), nil
}

// constraintError recognises NOT NULL and UNIQUE failures. SQLite reports
// the offending column as "table.column" at the end of the message, e.g.
// "UNIQUE constraint failed: users.username".
func constraintError(err error) *validation.Error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return nil
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique:
		return validation.Duplicate(column(sqliteErr.Error()))
	case sqlite3.ErrConstraintNotNull:
		return validation.Required(column(sqliteErr.Error()))
	}
	return nil
}

func column(msg string) string {
	_, qualified, ok := strings.Cut(msg, ": ")
	if !ok {
		return "unknown"
	}
	// Composite constraints list several columns; report the first.
	qualified, _, _ = strings.Cut(qualified, ",")
	if _, col, ok := strings.Cut(qualified, "."); ok {
		return col
	}
	return qualified
}
