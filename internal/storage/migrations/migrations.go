// Package migrations creates the users, students and teachers tables.
//
// The SQL lives in one directory per dialect and is embedded into the binary.
// goose records applied versions in its own table, so Up is idempotent:
// running it against an up-to-date database does nothing.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql mysql/*.sql
var embedded embed.FS

// dirs maps each supported dialect to its migration directory.
var dirs = map[goose.Dialect]string{
	goose.DialectSQLite3: "sqlite",
	goose.DialectMySQL:   "mysql",
}

// Up applies every pending migration for dialect.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	dir, ok := dirs[dialect]
	if !ok {
		return fmt.Errorf("migrations.Up: unsupported dialect %q", dialect)
	}

	fsys, err := fs.Sub(embedded, dir)
	if err != nil {
		return fmt.Errorf("migrations.Up: sub fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations.Up: new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrations.Up: apply: %w", err)
	}

	for _, r := range results {
		slog.Info("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("file", r.Source.Path),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}
