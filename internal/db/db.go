package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DriverSQLite and DriverPgx are the supported DB_DRIVER values.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

func Init(driver, connection string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		dir := filepath.Dir(dsnPath(connection))
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		connection = sqliteDSN(connection)
	case DriverPgx:
		// pgx validates its own DSN on connect
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use %q or %q)", driver, DriverSQLite, DriverPgx)
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected", "driver", driver)

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// sqliteDSN forces foreign key enforcement on. Deleting an account must
// cascade to perfiles and asistencias, and SQLite only honors the FK
// clauses when the pragma is set, so an overridden DB_CONNECTION without
// it would silently leave orphaned rows behind.
func sqliteDSN(connection string) string {
	if strings.Contains(connection, "_pragma=foreign_keys") {
		return connection
	}
	sep := "?"
	if strings.Contains(connection, "?") {
		sep = "&"
	}
	return connection + sep + "_pragma=foreign_keys(1)"
}

// dsnPath strips the query options from a SQLite DSN, leaving the file
// path.
func dsnPath(connection string) string {
	if idx := strings.IndexByte(connection, '?'); idx != -1 {
		return connection[:idx]
	}
	return connection
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
