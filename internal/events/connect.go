package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const maxRetryDelay = 30 * time.Second

// RetryPolicy controls how DialWithRetry waits for the broker to come up
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// DefaultRetryPolicy tolerates RabbitMQ starting after the server
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 10, InitialDelay: 2 * time.Second}

// DialWithRetry connects to RabbitMQ, backing off exponentially between attempts
func DialWithRetry(ctx context.Context, amqpURL string, policy RetryPolicy, l *zap.Logger) (*RabbitMQBus, error) {
	return connectWithRetry(ctx, func() (*RabbitMQBus, error) { return NewRabbitMQBus(amqpURL) }, policy, l)
}

func connectWithRetry(ctx context.Context, connect func() (*RabbitMQBus, error), policy RetryPolicy, l *zap.Logger) (*RabbitMQBus, error) {
	if l == nil {
		l = zap.NewNop()
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		bus, err := connect()
		if err == nil {
			l.Info("connected_to_rabbitmq", zap.Int("attempt", attempt+1))
			return bus, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts-1 {
			break
		}

		delay := policy.InitialDelay * time.Duration(1<<uint(attempt))
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		l.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", policy.MaxAttempts),
			zap.Duration("retry_delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("rabbitmq unavailable after %d attempts: %w", policy.MaxAttempts, lastErr)
}
