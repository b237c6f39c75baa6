package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQBroker carries order events over durable RabbitMQ queues on a
// single channel.
type RabbitMQBroker struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	maxRetries int
	retryDelay time.Duration
	mu         sync.RWMutex
}

type Config struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

func NewRabbitMQBroker(cfg Config) (*RabbitMQBroker, error) {
	cfg = cfg.withDefaults()

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// one worker should not hoard the whole backlog
	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	broker := &RabbitMQBroker{
		conn:       conn,
		channel:    channel,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
	for _, queueName := range []string{QueueOrderEvents, QueueOrderEventsDLQ} {
		if err := broker.declareQueue(queueName); err != nil {
			broker.Close()
			return nil, err
		}
	}

	return broker, nil
}

// declareQueue declares a durable queue that outlives the connection.
func (b *RabbitMQBroker) declareQueue(queueName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	return nil
}

// Publish sends a persistent JSON message to queueName through the default
// exchange.
func (b *RabbitMQBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	if err := b.send(ctx, queueName, message, nil); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (b *RabbitMQBroker) send(ctx context.Context, queueName string, body []byte, headers amqp.Table) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.channel.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Headers:      headers,
		Timestamp:    time.Now(),
	})
}

func (b *RabbitMQBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.RLock()
	msgs, err := b.channel.Consume(queueName, "", false, false, false, false, nil)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queueName, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				b.handleMessage(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

// handleMessage acks every delivery it settles. A failed message is
// republished with an incremented x-retry-count after a backoff, and goes to
// the dead letter queue once retries run out. On shutdown during the backoff
// the delivery is nacked back onto the queue untouched.
func (b *RabbitMQBroker) handleMessage(ctx context.Context, msg amqp.Delivery, handler MessageHandler, queueName string) {
	handlerErr := handler(ctx, msg.Body)
	if handlerErr == nil {
		_ = msg.Ack(false)
		return
	}

	retry := retryCount(msg.Headers)
	target, headers := b.reroute(queueName, retry, handlerErr)

	if target == queueName {
		select {
		case <-ctx.Done():
			_ = msg.Nack(false, true)
			return
		case <-time.After(backoff(b.retryDelay, retry)):
		}
	}

	if err := b.send(ctx, target, msg.Body, headers); err != nil {
		// leave it to the broker to redeliver
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}

// reroute picks where a failed delivery goes next and the headers it carries.
func (b *RabbitMQBroker) reroute(queueName string, retry int, cause error) (string, amqp.Table) {
	if retry < b.maxRetries {
		return queueName, amqp.Table{"x-retry-count": int32(retry + 1)}
	}
	return dlqName(queueName), amqp.Table{
		"x-original-queue": queueName,
		"x-retry-count":    int32(retry),
		"x-error":          cause.Error(),
	}
}

func retryCount(headers amqp.Table) int {
	switch n := headers["x-retry-count"].(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func (b *RabbitMQBroker) Ping() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.conn == nil || b.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection is closed")
	}
	return nil
}

func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
