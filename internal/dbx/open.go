package dbx

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// DetectDialect picks the dialect from the DSN scheme. postgres:// and
// postgresql:// URLs and libpq keyword strings select PostgreSQL; anything
// else is treated as a SQLite file or URI.
func DetectDialect(dsn string) Dialect {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres
	case strings.Contains(lower, "host=") && strings.Contains(lower, "dbname="):
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

// SQLiteFilePath returns the on-disk path named by a SQLite DSN, or "" for
// in-memory databases.
func SQLiteFilePath(dsn string) string {
	path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "file:")
	query := ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, query = path[:i], path[i+1:]
	}
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return ""
	}
	return path
}

// sqliteSource turns a SQLite DSN into a file: URI with foreign keys enabled.
func sqliteSource(dsn string) string {
	source := strings.TrimPrefix(dsn, "sqlite://")
	if !strings.HasPrefix(source, "file:") {
		source = "file:" + source
	}
	if strings.Contains(source, "_pragma=foreign_keys") {
		return source
	}
	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return source + sep + "_pragma=foreign_keys(1)"
}

// Open opens a pool for dsn. SQLite pools are limited to a single connection
// so writers never contend for the database lock. The directory holding a
// SQLite file is created if missing.
func Open(dsn string) (*sql.DB, Dialect, error) {
	dialect := DetectDialect(dsn)

	source := dsn
	if dialect == DialectSQLite {
		source = sqliteSource(source)
		if path := SQLiteFilePath(source); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, "", fmt.Errorf("db open error: %w", err)
			}
		}
	}

	db, err := sql.Open(dialect.DriverName(), source)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	return db, dialect, nil
}
