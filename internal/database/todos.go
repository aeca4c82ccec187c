package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/benvon/simple-todo/internal/models"
	"github.com/google/uuid"
)

var todoColumns = []string{"id", "title", "done", "created_at", "updated_at"}

// TodoRepository handles database operations for todos
type TodoRepository struct {
	db  *DB
	now func() time.Time
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{
		db:  db,
		now: time.Now,
	}
}

// SetClock replaces the clock used for createdAt/updatedAt
func (r *TodoRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *TodoRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// List returns every todo, newest first. The result is never nil.
func (r *TodoRepository) List(ctx context.Context) ([]models.Todo, error) {
	query, args, err := r.db.builder().
		Select(todoColumns...).
		From("todos").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	todos := make([]models.Todo, 0)
	if err := r.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Create inserts a new todo with done=false and returns it
func (r *TodoRepository) Create(ctx context.Context, title string) (*models.Todo, error) {
	now := r.timestamp()
	todo := &models.Todo{
		ID:        uuid.New().String(),
		Title:     title,
		Done:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, args, err := r.db.builder().
		Insert("todos").
		Columns(todoColumns...).
		Values(todo.ID, todo.Title, todo.Done, todo.CreatedAt, todo.UpdatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

// GetByID retrieves a todo by its ID
func (r *TodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	query, args, err := r.db.builder().
		Select(todoColumns...).
		From("todos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	todo := &models.Todo{}
	if err := r.db.GetContext(ctx, todo, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

// Update applies the non-nil fields of patch in a single statement and returns
// the resulting row. An empty patch returns the current row unchanged.
func (r *TodoRepository) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	builder := r.db.builder().
		Update("todos").
		Set("updated_at", r.timestamp())
	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}
	if patch.Done != nil {
		builder = builder.Set("done", *patch.Done)
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, title, done, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	todo := &models.Todo{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(todo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// Delete removes a todo by ID
func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.db.builder().
		Delete("todos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAll removes every todo and returns how many rows were deleted
func (r *TodoRepository) DeleteAll(ctx context.Context) (int64, error) {
	query, args, err := r.db.builder().Delete("todos").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
