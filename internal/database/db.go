package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend behind a DB
type Dialect string

const (
	// DialectPostgres is served by github.com/lib/pq
	DialectPostgres Dialect = "postgres"
	// DialectSQLite is served by modernc.org/sqlite
	DialectSQLite Dialect = "sqlite"
)

// ErrNotFound is returned when a row addressed by key does not exist
var ErrNotFound = errors.New("record not found")

// DB wraps a sqlx connection pool together with its dialect
type DB struct {
	*sqlx.DB
	dialect Dialect
}

// New opens a connection pool for databaseURL and verifies it with a ping.
// Accepted forms: postgres://..., postgresql://..., sqlite:<path>, sqlite::memory:, file:<path>.
func New(databaseURL string) (*DB, error) {
	dialect, dsn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch dialect {
	case DialectSQLite:
		// A single connection keeps :memory: databases alive and serialises writers.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	case DialectPostgres:
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: conn, dialect: dialect}, nil
}

// NewFromSQLX wraps an existing sqlx handle. Used by tests with sqlmock.
func NewFromSQLX(conn *sqlx.DB, dialect Dialect) *DB {
	return &DB{DB: conn, dialect: dialect}
}

// Dialect returns the backend dialect
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// builder returns a statement builder using the dialect's placeholder format
func (db *DB) builder() squirrel.StatementBuilderType {
	if db.dialect == DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// ParseDatabaseURL maps a DATABASE_URL value to a driver dialect and DSN
func ParseDatabaseURL(databaseURL string) (Dialect, string, error) {
	raw := strings.TrimSpace(databaseURL)
	switch {
	case raw == "":
		return "", "", fmt.Errorf("database URL is empty")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite:"):
		dsn := strings.TrimPrefix(raw, "sqlite:")
		dsn = strings.TrimPrefix(dsn, "//")
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite database URL is missing a path")
		}
		return DialectSQLite, dsn, nil
	case strings.HasPrefix(raw, "file:"):
		return DialectSQLite, raw, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL scheme (want postgres:// or sqlite:)")
	}
}
