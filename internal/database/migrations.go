package database

import (
	"context"
	"fmt"
	"time"
)

// migration is one schema step. Statements are dialect specific and run in order
// inside a single transaction.
type migration struct {
	version  int
	postgres []string
	sqlite   []string
}

var migrations = []migration{
	{
		version: 1,
		postgres: []string{
			`CREATE TABLE IF NOT EXISTS todos (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL CHECK (length(trim(title)) > 0),
				done       BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos (created_at DESC)`,
		},
		sqlite: []string{
			`CREATE TABLE IF NOT EXISTS todos (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL CHECK (length(trim(title)) > 0),
				done       BOOLEAN NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos (created_at DESC)`,
		},
	},
	{
		version: 2,
		postgres: []string{
			`CREATE TABLE IF NOT EXISTS cors_config (
				config_key        TEXT PRIMARY KEY,
				allowed_origins   TEXT NOT NULL,
				allow_credentials BOOLEAN NOT NULL DEFAULT TRUE,
				max_age           INTEGER NOT NULL DEFAULT 86400,
				created_at        TIMESTAMPTZ NOT NULL,
				updated_at        TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS ratelimit_config (
				config_key TEXT PRIMARY KEY,
				rate       TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
		},
		sqlite: []string{
			`CREATE TABLE IF NOT EXISTS cors_config (
				config_key        TEXT PRIMARY KEY,
				allowed_origins   TEXT NOT NULL,
				allow_credentials BOOLEAN NOT NULL DEFAULT 1,
				max_age           INTEGER NOT NULL DEFAULT 86400,
				created_at        TIMESTAMP NOT NULL,
				updated_at        TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS ratelimit_config (
				config_key TEXT PRIMARY KEY,
				rate       TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
		},
	},
}

// Migrate applies every migration newer than the recorded schema version.
// It returns the number of migrations applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version    INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := db.apply(ctx, m); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// SchemaVersion returns the highest applied migration version (0 when none)
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (db *DB) apply(ctx context.Context, m migration) error {
	statements := m.sqlite
	if db.dialect == DialectPostgres {
		statements = m.postgres
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration v%d: %w", m.version, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration v%d: %w", m.version, err)
		}
	}

	query, args, err := db.builder().
		Insert("schema_version").
		Columns("version", "applied_at").
		Values(m.version, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build schema_version insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration v%d: %w", m.version, err)
	}
	return nil
}
