package models

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the wire format for todo timestamps (ISO-8601, UTC, millisecond precision)
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Todo represents a todo item
type Todo struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Done      bool      `json:"done" db:"done"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TodoPatch carries the fields an update applies. Nil fields are left unchanged.
type TodoPatch struct {
	Title *string
	Done  *bool
}

// IsEmpty reports whether the patch changes nothing
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Done == nil
}

type todoJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MarshalJSON renders timestamps in UTC with millisecond precision.
func (t Todo) MarshalJSON() ([]byte, error) {
	return json.Marshal(todoJSON{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		CreatedAt: t.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt: t.UpdatedAt.UTC().Format(TimestampLayout),
	})
}

// UnmarshalJSON accepts any RFC 3339 timestamp.
func (t *Todo) UnmarshalJSON(data []byte) error {
	var raw todoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Title = raw.Title
	t.Done = raw.Done
	t.CreatedAt = time.Time{}
	t.UpdatedAt = time.Time{}
	if raw.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
		if err != nil {
			return err
		}
		t.CreatedAt = created
	}
	if raw.UpdatedAt != "" {
		updated, err := time.Parse(time.RFC3339Nano, raw.UpdatedAt)
		if err != nil {
			return err
		}
		t.UpdatedAt = updated
	}
	return nil
}
