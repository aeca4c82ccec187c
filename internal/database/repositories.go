package database

import (
	"context"

	"github.com/benvon/simple-todo/internal/models"
)

// TodoStore defines the record store operations the todo service relies on.
// This interface enables better testability by allowing mock implementations
type TodoStore interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, title string) (*models.Todo, error)
	GetByID(ctx context.Context, id string) (*models.Todo, error)
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// CorsConfigStore reads and writes the CORS settings row
type CorsConfigStore interface {
	Get(ctx context.Context) (*models.CorsConfig, error)
	Set(ctx context.Context, c *models.CorsConfig) error
}

// RatelimitConfigStore reads and writes the rate limit settings row
type RatelimitConfigStore interface {
	Get(ctx context.Context) (*models.RatelimitConfig, error)
	Set(ctx context.Context, c *models.RatelimitConfig) error
}

// Ensure concrete types implement the interfaces
var (
	_ TodoStore            = (*TodoRepository)(nil)
	_ CorsConfigStore      = (*CorsConfigRepository)(nil)
	_ RatelimitConfigStore = (*RatelimitConfigRepository)(nil)
)
