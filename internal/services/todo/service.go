package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/simple-todo/internal/database"
	"github.com/benvon/simple-todo/internal/events"
	"github.com/benvon/simple-todo/internal/logger"
	"github.com/benvon/simple-todo/internal/models"
	"github.com/benvon/simple-todo/internal/validation"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// UpdateInput carries an update request. Done and Title are nil when the
// caller did not supply a value of the right JSON type.
type UpdateInput struct {
	ID    string
	Done  *bool
	Title *string
}

type createInput struct {
	Title string `validate:"notblank"`
}

// Service implements the todo operations on top of a record store
type Service struct {
	store     database.TodoStore
	publisher events.Publisher
	logger    *zap.Logger
}

// NewService creates a todo service. A nil publisher disables change events.
func NewService(store database.TodoStore, publisher events.Publisher, l *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    l,
	}
}

// List returns every todo, newest first
func (s *Service) List(ctx context.Context) ([]models.Todo, error) {
	todos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Create stores a new todo with the sanitized title
func (s *Service) Create(ctx context.Context, title string) (*models.Todo, error) {
	input := createInput{Title: validation.SanitizeText(title)}
	if err := validation.Validate.Struct(input); err != nil {
		return nil, NewValidationError(MsgTitleRequired)
	}

	todo, err := s.store.Create(ctx, input.Title)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.publish(ctx, events.NewCreated(todo))
	return todo, nil
}

// Update applies done whenever supplied and title only when it is non-blank.
// A blank title is ignored rather than rejected.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*models.Todo, error) {
	if input.ID == "" {
		return nil, NewValidationError(MsgIDRequired)
	}

	patch := models.TodoPatch{Done: input.Done}
	if input.Title != nil {
		if title := validation.SanitizeText(*input.Title); title != "" {
			patch.Title = &title
		}
	}

	todo, err := s.store.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if !patch.IsEmpty() {
		s.publish(ctx, events.NewUpdated(todo))
	}
	return todo, nil
}

// Delete removes a single todo
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError(MsgDeleteIDRequired)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	s.publish(ctx, events.NewDeleted(id))
	return nil
}

// DeleteAll removes every todo and returns how many were deleted
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all todos: %w", err)
	}

	s.publish(ctx, events.NewCleared(n))
	return n, nil
}

// publish is best effort: the mutation has already committed.
func (s *Service) publish(ctx context.Context, event *events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed_to_publish_todo_event",
			zap.String("event_type", string(event.Type)),
			zap.String("todo_id", logger.SanitizeID(event.TodoID)),
			zap.Error(err),
		)
	}
}
