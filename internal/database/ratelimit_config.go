package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/benvon/simple-todo/internal/models"
)

const defaultRatelimitConfigKey = "default"

// RatelimitConfigRepository handles rate limit configuration in the database.
type RatelimitConfigRepository struct {
	db *DB
}

// NewRatelimitConfigRepository creates a new ratelimit config repository.
func NewRatelimitConfigRepository(db *DB) *RatelimitConfigRepository {
	return &RatelimitConfigRepository{db: db}
}

// Get retrieves the default rate limit config. Returns nil, nil when no row exists.
func (r *RatelimitConfigRepository) Get(ctx context.Context) (*models.RatelimitConfig, error) {
	query, args, err := r.db.builder().
		Select("config_key", "rate", "created_at", "updated_at").
		From("ratelimit_config").
		Where(squirrel.Eq{"config_key": defaultRatelimitConfigKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ratelimit config query: %w", err)
	}

	c := &models.RatelimitConfig{}
	if err := r.db.GetContext(ctx, c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ratelimit config: %w", err)
	}
	return c, nil
}

// Set upserts the default rate limit config. Rate format: e.g. "5-S", "100-M".
func (r *RatelimitConfigRepository) Set(ctx context.Context, c *models.RatelimitConfig) error {
	rate := strings.TrimSpace(c.Rate)
	if rate == "" {
		return fmt.Errorf("rate cannot be empty")
	}
	now := time.Now().UTC()
	query, args, err := r.db.builder().
		Insert("ratelimit_config").
		Columns("config_key", "rate", "created_at", "updated_at").
		Values(defaultRatelimitConfigKey, rate, now, now).
		Suffix(`ON CONFLICT (config_key) DO UPDATE SET
			rate = EXCLUDED.rate,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ratelimit config upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set ratelimit config: %w", err)
	}
	return nil
}
