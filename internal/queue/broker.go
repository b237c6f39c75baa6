package queue

import (
	"context"
	"time"
)

type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Close() error
}

type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueOrderEvents    = "order-events"
	QueueOrderEventsDLQ = "order-events-dlq"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// dlqName is the dead letter queue messages land in once retries run out.
func dlqName(queueName string) string {
	return queueName + "-dlq"
}

// backoff doubles the base delay for every retry already made.
func backoff(base time.Duration, retry int) time.Duration {
	return base * time.Duration(1<<retry)
}
