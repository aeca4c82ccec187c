package testutil

import (
	"context"
	"testing"

	"github.com/benvon/simple-todo/internal/database"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// It automatically closes the database when the test completes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New("sqlite::memory:")
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return db
}

// NewTestTodoRepository returns a todo repository over a fresh in-memory database
func NewTestTodoRepository(t *testing.T) *database.TodoRepository {
	t.Helper()
	return database.NewTodoRepository(NewTestDB(t))
}
