// Package mysql opens the MySQL-backed storage.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"github.com/aanand-mishra/school-api/internal/config"
	"github.com/aanand-mishra/school-api/internal/storage/migrations"
	"github.com/aanand-mishra/school-api/internal/storage/sqldb"
	"github.com/aanand-mishra/school-api/internal/validation"
)

// Server error numbers, see
// https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDupEntry  = 1062 // ER_DUP_ENTRY
	errBadNull   = 1048 // ER_BAD_NULL_ERROR
	errNoDefault = 1364 // ER_NO_DEFAULT_FOR_FIELD
	errRange     = 1264 // ER_WARN_DATA_OUT_OF_RANGE
)

// DSN builds the driver connection string for cfg.
//
// ClientFoundRows makes UPDATE report matched rather than changed rows, so
// writing identical values to an existing record is not mistaken for a
// missing key.
func DSN(cfg config.MySQL) string {
	c := mysqldrv.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.ClientFoundRows = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// New connects to MySQL, applies migrations, and returns a ready-to-use store.
func New(ctx context.Context, cfg config.MySQL) (*sqldb.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("mysql.New: open db: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql.New: ping: %w", err)
	}

	if err := migrations.Up(ctx, db, goose.DialectMySQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql.New: %w", err)
	}

	return sqldb.New(db, constraintError), nil
}

// constraintError recognises duplicate-key, NULL-into-NOT-NULL and
// out-of-range failures.
func constraintError(err error) *validation.Error {
	var myErr *mysqldrv.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}

	switch myErr.Number {
	case errDupEntry:
		// Duplicate entry 'ana' for key 'users.username'
		key := lastQuoted(myErr.Message)
		if i := strings.LastIndexByte(key, '.'); i >= 0 {
			key = key[i+1:]
		}
		return validation.Duplicate(key)
	case errBadNull, errNoDefault:
		// Column 'name' cannot be null / Field 'name' doesn't have a default value
		return validation.Required(firstQuoted(myErr.Message))
	case errRange:
		// Out of range value for column 'age' at row 1
		return validation.Invalid(firstQuoted(myErr.Message))
	}
	return nil
}

func firstQuoted(msg string) string {
	_, rest, ok := strings.Cut(msg, "'")
	if !ok {
		return "unknown"
	}
	quoted, _, _ := strings.Cut(rest, "'")
	return quoted
}

func lastQuoted(msg string) string {
	end := strings.LastIndexByte(msg, '\'')
	if end <= 0 {
		return "unknown"
	}
	start := strings.LastIndexByte(msg[:end], '\'')
	if start < 0 {
		return "unknown"
	}
	return msg[start+1 : end]
}
