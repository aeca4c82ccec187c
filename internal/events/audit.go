package events

import (
	"fmt"

	"github.com/benvon/simple-todo/internal/logger"
	"go.uber.org/zap"
)

// AuditHandler records consumed todo events as structured audit log entries
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates an audit handler writing to logger
func NewAuditHandler(l *zap.Logger) *AuditHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuditHandler{logger: l}
}

// Handle logs the message's event and acknowledges it. Events that fail
// validation are rejected without requeue so they land in the DLQ.
func (h *AuditHandler) Handle(msg MessageInterface) error {
	event := msg.GetEvent()
	if event == nil {
		if err := msg.Nack(false); err != nil {
			return fmt.Errorf("failed to reject empty message: %w", err)
		}
		return fmt.Errorf("message carried no event")
	}
	if err := event.Validate(); err != nil {
		if nackErr := msg.Nack(false); nackErr != nil {
			return fmt.Errorf("failed to reject invalid event: %w", nackErr)
		}
		return err
	}

	fields := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", string(event.Type)),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if event.TodoID != "" {
		fields = append(fields, zap.String("todo_id", logger.SanitizeID(event.TodoID)))
	}
	if event.Todo != nil {
		fields = append(fields,
			zap.String("title", logger.SanitizeTitle(event.Todo.Title)),
			zap.Bool("done", event.Todo.Done),
		)
	}
	if event.DeletedCount != nil {
		fields = append(fields, zap.Int64("deleted_count", *event.DeletedCount))
	}
	h.logger.Info("todo_event", fields...)

	if err := msg.Ack(); err != nil {
		return fmt.Errorf("failed to ack event: %w", err)
	}
	return nil
}

var _ Handler = (*AuditHandler)(nil)
