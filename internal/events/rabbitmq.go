package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchangeName is the exchange todo events are published to
	DefaultExchangeName = "todo_events"
	// DefaultQueueName is the queue the audit worker consumes
	DefaultQueueName = "todo_events_audit"
	// DefaultDLQName is the dead letter queue for events the worker rejects
	DefaultDLQName = "todo_events_dlq"
	// RoutingKey is the routing key used for every todo event
	RoutingKey = "todo"

	dlqRoutingKey = "dlq"
)

// RabbitMQBus publishes and consumes todo events over RabbitMQ
type RabbitMQBus struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	mu           sync.Mutex
	queueName    string
	dlqName      string
	exchangeName string
}

// NewRabbitMQBus connects to RabbitMQ and declares the exchange and queues
func NewRabbitMQBus(amqpURL string) (*RabbitMQBus, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	bus := &RabbitMQBus{
		conn:         conn,
		channel:      ch,
		queueName:    DefaultQueueName,
		dlqName:      DefaultDLQName,
		exchangeName: DefaultExchangeName,
	}

	if err := bus.setup(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup queues: %w", err)
	}

	return bus, nil
}

// setup configures the exchange, the audit queue and its DLQ
func (b *RabbitMQBus) setup() error {
	err := b.channel.ExchangeDeclare(
		b.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = b.channel.QueueDeclare(
		b.dlqName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	if err := b.channel.QueueBind(b.dlqName, dlqRoutingKey, b.exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	queueArgs := amqp.Table{
		"x-dead-letter-exchange":    b.exchangeName,
		"x-dead-letter-routing-key": dlqRoutingKey,
	}
	_, err = b.channel.QueueDeclare(
		b.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		queueArgs,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := b.channel.QueueBind(b.queueName, RoutingKey, b.exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue to exchange: %w", err)
	}

	return nil
}

// Publish sends an event to the todo exchange
func (b *RabbitMQBus) Publish(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.channel.PublishWithContext(ctx, b.exchangeName, RoutingKey, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Consume returns a channel of messages from the audit queue using async delivery
func (b *RabbitMQBus) Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error) {
	// Separate channel for consuming so publishes never interleave with deliveries
	consumeCh, err := b.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create consumer channel: %w", err)
	}

	if err := consumeCh.Qos(prefetchCount, 0, false); err != nil {
		_ = consumeCh.Close()
		return nil, nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := consumeCh.Consume(
		b.queueName,
		"",    // consumer tag (empty = auto-generate)
		false, // auto-ack (false = manual ack required)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = consumeCh.Close()
		return nil, nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	msgChan := make(chan *Message, prefetchCount)
	errChan := make(chan error, 1)

	go func() {
		defer close(msgChan)
		defer close(errChan)
		defer func() {
			_ = consumeCh.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					errChan <- fmt.Errorf("delivery channel closed")
					return
				}

				event, err := decodeEvent(delivery.Body)
				if err != nil {
					// Invalid message, send to DLQ
					_ = delivery.Nack(false, false)
					select {
					case errChan <- err:
					default:
					}
					continue
				}

				msg := &Message{
					Event:       event,
					DeliveryTag: delivery.DeliveryTag,
					Channel:     consumeCh,
				}

				select {
				case <-ctx.Done():
					_ = delivery.Nack(false, true)
					return
				case msgChan <- msg:
				}
			}
		}
	}()

	return msgChan, errChan, nil
}

// PurgeOlderThan drops dead-lettered events older than retention. The DLQ is FIFO,
// so the scan stops at the first message that is still within retention.
func (b *RabbitMQBus) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	purged := 0
	for {
		if err := ctx.Err(); err != nil {
			return purged, err
		}

		msg, ok, err := b.channel.Get(b.dlqName, false)
		if err != nil {
			return purged, fmt.Errorf("failed to get DLQ message: %w", err)
		}
		if !ok {
			return purged, nil
		}

		if msg.Timestamp.IsZero() || msg.Timestamp.Before(cutoff) {
			if err := msg.Ack(false); err != nil {
				return purged, fmt.Errorf("failed to ack DLQ message: %w", err)
			}
			purged++
			continue
		}

		if err := msg.Nack(false, true); err != nil {
			return purged, fmt.Errorf("failed to requeue DLQ message: %w", err)
		}
		return purged, nil
	}
}

// HealthCheck verifies the connection is open
func (b *RabbitMQBus) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.conn == nil || b.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Close closes the channel and connection
func (b *RabbitMQBus) Close() error {
	var err error
	if b.channel != nil {
		err = b.channel.Close()
	}
	if b.conn != nil {
		if closeErr := b.conn.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func decodeEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return &event, nil
}

// Ensure RabbitMQBus implements the interfaces
var (
	_ Publisher = (*RabbitMQBus)(nil)
	_ Consumer  = (*RabbitMQBus)(nil)
	_ DLQPurger = (*RabbitMQBus)(nil)
	_ Publisher = NoopPublisher{}
)
