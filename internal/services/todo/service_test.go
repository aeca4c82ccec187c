package todo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benvon/simple-todo/internal/database"
	"github.com/benvon/simple-todo/internal/events"
	"github.com/benvon/simple-todo/internal/models"
	"github.com/benvon/simple-todo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) HealthCheck(context.Context) error { return nil }

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// failingStore returns err from every operation
type failingStore struct {
	err error
}

func (f failingStore) List(context.Context) ([]models.Todo, error) { return nil, f.err }

func (f failingStore) Create(context.Context, string) (*models.Todo, error) { return nil, f.err }

func (f failingStore) GetByID(context.Context, string) (*models.Todo, error) { return nil, f.err }

func (f failingStore) Update(context.Context, string, models.TodoPatch) (*models.Todo, error) {
	return nil, f.err
}

func (f failingStore) Delete(context.Context, string) error { return f.err }

func (f failingStore) DeleteAll(context.Context) (int64, error) { return 0, f.err }

func newTestService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	repo := testutil.NewTestTodoRepository(t)
	start := time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	repo.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		start = start.Add(time.Second)
		return start
	})
	pub := &recordingPublisher{}
	return NewService(repo, pub, zap.NewNop()), pub
}

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		title     string
		wantTitle string
		wantErr   string
	}{
		{"plain", "Buy milk", "Buy milk", ""},
		{"trimmed", "  Buy milk  ", "Buy milk", ""},
		{"control characters stripped", "Buy\x00 milk", "Buy milk", ""},
		{"empty", "", "", MsgTitleRequired},
		{"whitespace only", "   \t ", "", MsgTitleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, pub := newTestService(t)

			todo, err := svc.Create(context.Background(), tt.title)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.Equal(t, tt.wantErr, err.Error())
				assert.Empty(t, pub.types(), "no event for rejected input")

				todos, listErr := svc.List(context.Background())
				require.NoError(t, listErr)
				assert.Empty(t, todos, "store must be untouched")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, todo.Title)
			assert.False(t, todo.Done)
			assert.NotEmpty(t, todo.ID)
			assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
			assert.Equal(t, []events.EventType{events.EventTodoCreated}, pub.types())
		})
	}
}

func TestService_CreateAssignsUniqueIDs(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		todo, err := svc.Create(context.Background(), "same title")
		require.NoError(t, err)
		assert.False(t, seen[todo.ID], "duplicate id %s", todo.ID)
		seen[todo.ID] = true
	}
}

func TestService_ListOrder(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "A")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "B")
	require.NoError(t, err)
	c, err := svc.Create(ctx, "C")
	require.NoError(t, err)

	todos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{todos[0].ID, todos[1].ID, todos[2].ID})
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     func(id string) UpdateInput
		wantTitle string
		wantDone  bool
		wantEvent bool
	}{
		{
			name:      "done true",
			input:     func(id string) UpdateInput { return UpdateInput{ID: id, Done: ptr(true)} },
			wantTitle: "Buy milk",
			wantDone:  true,
			wantEvent: true,
		},
		{
			name:      "done false applied",
			input:     func(id string) UpdateInput { return UpdateInput{ID: id, Done: ptr(false)} },
			wantTitle: "Buy milk",
			wantDone:  false,
			wantEvent: true,
		},
		{
			name:      "title trimmed",
			input:     func(id string) UpdateInput { return UpdateInput{ID: id, Title: ptr("  Buy oat milk ")} },
			wantTitle: "Buy oat milk",
			wantEvent: true,
		},
		{
			name:      "blank title ignored",
			input:     func(id string) UpdateInput { return UpdateInput{ID: id, Title: ptr("   ")} },
			wantTitle: "Buy milk",
			wantEvent: false,
		},
		{
			name:      "blank title ignored while done applied",
			input:     func(id string) UpdateInput { return UpdateInput{ID: id, Title: ptr(""), Done: ptr(true)} },
			wantTitle: "Buy milk",
			wantDone:  true,
			wantEvent: true,
		},
		{
			name:      "no fields returns current row",
			input:     func(id string) UpdateInput { return UpdateInput{ID: id} },
			wantTitle: "Buy milk",
			wantEvent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, pub := newTestService(t)
			ctx := context.Background()

			created, err := svc.Create(ctx, "Buy milk")
			require.NoError(t, err)

			updated, err := svc.Update(ctx, tt.input(created.ID))
			require.NoError(t, err)
			assert.Equal(t, created.ID, updated.ID)
			assert.Equal(t, tt.wantTitle, updated.Title)
			assert.Equal(t, tt.wantDone, updated.Done)
			assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "createdAt must not change")
			assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

			wantEvents := []events.EventType{events.EventTodoCreated}
			if tt.wantEvent {
				wantEvents = append(wantEvents, events.EventTodoUpdated)
				assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt must advance")
			}
			assert.Equal(t, wantEvents, pub.types())
		})
	}
}

func TestService_UpdateIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Buy milk")
	require.NoError(t, err)

	first, err := svc.Update(ctx, UpdateInput{ID: created.ID, Done: ptr(true)})
	require.NoError(t, err)
	second, err := svc.Update(ctx, UpdateInput{ID: created.ID, Done: ptr(true)})
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Done, second.Done)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestService_ToggleRoundTrip(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Buy milk")
	require.NoError(t, err)

	on, err := svc.Update(ctx, UpdateInput{ID: created.ID, Done: ptr(!created.Done)})
	require.NoError(t, err)
	assert.True(t, on.Done)

	off, err := svc.Update(ctx, UpdateInput{ID: created.ID, Done: ptr(!on.Done)})
	require.NoError(t, err)
	assert.Equal(t, created.Done, off.Done)
	assert.Equal(t, created.Title, off.Title)
	assert.True(t, off.CreatedAt.Equal(created.CreatedAt))
}

func TestService_TitleOnlyUpdateKeepsDone(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Buy milk")
	require.NoError(t, err)
	_, err = svc.Update(ctx, UpdateInput{ID: created.ID, Done: ptr(true)})
	require.NoError(t, err)

	renamed, err := svc.Update(ctx, UpdateInput{ID: created.ID, Title: ptr("Buy oat milk")})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", renamed.Title)
	assert.True(t, renamed.Done, "title-only update must leave done set")

	todos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Done)
	assert.Equal(t, "Buy oat milk", todos[0].Title)
}

func TestService_UpdateErrors(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateInput{Done: ptr(true)})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, MsgIDRequired, err.Error())

	_, err = svc.Update(ctx, UpdateInput{ID: "missing", Done: ptr(true)})
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestService_Delete(t *testing.T) {
	t.Parallel()
	svc, pub := newTestService(t)
	ctx := context.Background()

	keep, err := svc.Create(ctx, "keep")
	require.NoError(t, err)
	drop, err := svc.Create(ctx, "drop")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, drop.ID))

	todos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, keep.ID, todos[0].ID)

	err = svc.Delete(ctx, drop.ID)
	assert.True(t, errors.Is(err, database.ErrNotFound), "second delete should be not-found, got %v", err)

	err = svc.Delete(ctx, "does-not-exist")
	assert.True(t, errors.Is(err, database.ErrNotFound), "unknown id should be not-found, got %v", err)

	todos, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1, "failed deletes must not touch other rows")
	assert.Equal(t, keep.ID, todos[0].ID)
	assert.Equal(t, "keep", todos[0].Title)

	err = svc.Delete(ctx, "")
	require.Error(t, err)
	assert.Equal(t, MsgDeleteIDRequired, err.Error())

	assert.Equal(t, []events.EventType{events.EventTodoCreated, events.EventTodoCreated, events.EventTodoDeleted}, pub.types())
}

func TestService_DeleteAll(t *testing.T) {
	t.Parallel()
	svc, pub := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, title)
		require.NoError(t, err)
	}

	n, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	todos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)

	n, err = svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	types := pub.types()
	assert.Equal(t, events.EventTodosCleared, types[len(types)-1])
}

func TestService_StoreErrorsAreNotValidationErrors(t *testing.T) {
	t.Parallel()
	storeErr := errors.New("database unavailable")
	svc := NewService(failingStore{err: storeErr}, nil, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.Create(ctx, "x")
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, IsValidationError(err))

	_, err = svc.Update(ctx, UpdateInput{ID: "x", Done: ptr(true)})
	assert.ErrorIs(t, err, storeErr)

	assert.ErrorIs(t, svc.Delete(ctx, "x"), storeErr)

	_, err = svc.DeleteAll(ctx)
	assert.ErrorIs(t, err, storeErr)
}

func TestService_PublishFailureDoesNotFailMutation(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(testutil.NewTestTodoRepository(t), pub, zap.New(core))

	todo, err := svc.Create(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, 1, logs.FilterMessage("failed_to_publish_todo_event").Len())
}
