package events

import (
	"context"
	"time"
)

// MessageInterface defines the interface for consumed event messages
// This enables better testability by allowing mock implementations
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetEvent() *Event
}

// Publisher sends todo change events
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// Consumer delivers todo change events
type Consumer interface {
	// Consume returns a channel of messages from the queue
	// Messages are delivered asynchronously as they arrive
	// The caller is responsible for acknowledging each message
	// Returns channels that are closed when the context is cancelled or the connection drops
	Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)
}

// DLQPurger removes dead-lettered messages older than a retention period
type DLQPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error)
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

// Publish does nothing
func (NoopPublisher) Publish(context.Context, *Event) error { return nil }

// Close does nothing
func (NoopPublisher) Close() error { return nil }

// HealthCheck always succeeds
func (NoopPublisher) HealthCheck(context.Context) error { return nil }
