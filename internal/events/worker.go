package events

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrDeliveryClosed is returned by Process when the broker stops delivering
var ErrDeliveryClosed = errors.New("delivery channel closed")

// Handler processes one consumed message and is responsible for acking it
type Handler interface {
	Handle(msg MessageInterface) error
}

// Process feeds messages to h until ctx is cancelled or msgs is closed.
// Consumer errors are logged and do not stop processing.
func Process[M MessageInterface](ctx context.Context, msgs <-chan M, errs <-chan error, h Handler, l *zap.Logger) error {
	if l == nil {
		l = zap.NewNop()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			l.Error("event_consumer_error", zap.Error(err))
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveryClosed
			}
			if err := h.Handle(msg); err != nil {
				l.Warn("failed_to_handle_event", zap.Error(err))
			}
		}
	}
}
