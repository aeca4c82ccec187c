package events

import (
	"fmt"
	"time"

	"github.com/benvon/simple-todo/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kind of change a todo event describes
type EventType string

const (
	// EventTodoCreated is published after a todo is inserted
	EventTodoCreated EventType = "todo.created"
	// EventTodoUpdated is published after a todo is updated
	EventTodoUpdated EventType = "todo.updated"
	// EventTodoDeleted is published after a single todo is deleted
	EventTodoDeleted EventType = "todo.deleted"
	// EventTodosCleared is published after every todo is deleted
	EventTodosCleared EventType = "todo.cleared"
)

// Event is a todo change notification
type Event struct {
	ID           uuid.UUID    `json:"id"`
	Type         EventType    `json:"type"`
	TodoID       string       `json:"todoId,omitempty"`
	Todo         *models.Todo `json:"todo,omitempty"`
	DeletedCount *int64       `json:"deletedCount,omitempty"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

func newEvent(eventType EventType) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// NewCreated builds a todo.created event
func NewCreated(todo *models.Todo) *Event {
	e := newEvent(EventTodoCreated)
	e.TodoID = todo.ID
	e.Todo = todo
	return e
}

// NewUpdated builds a todo.updated event
func NewUpdated(todo *models.Todo) *Event {
	e := newEvent(EventTodoUpdated)
	e.TodoID = todo.ID
	e.Todo = todo
	return e
}

// NewDeleted builds a todo.deleted event
func NewDeleted(todoID string) *Event {
	e := newEvent(EventTodoDeleted)
	e.TodoID = todoID
	return e
}

// NewCleared builds a todo.cleared event
func NewCleared(deleted int64) *Event {
	e := newEvent(EventTodosCleared)
	e.DeletedCount = &deleted
	return e
}

// Validate checks that a decoded event is well formed
func (e *Event) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("event id is missing")
	}
	switch e.Type {
	case EventTodoCreated, EventTodoUpdated:
		if e.Todo == nil || e.TodoID == "" {
			return fmt.Errorf("%s event requires a todo", e.Type)
		}
	case EventTodoDeleted:
		if e.TodoID == "" {
			return fmt.Errorf("%s event requires a todo id", e.Type)
		}
	case EventTodosCleared:
		if e.DeletedCount == nil {
			return fmt.Errorf("%s event requires a deleted count", e.Type)
		}
	default:
		return fmt.Errorf("unknown event type: %q", e.Type)
	}
	return nil
}
