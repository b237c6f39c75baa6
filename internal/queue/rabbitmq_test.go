package queue

import (
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestRetryCount(t *testing.T) {
	tests := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{name: "no headers", headers: nil, want: 0},
		{name: "int32", headers: amqp.Table{"x-retry-count": int32(2)}, want: 2},
		{name: "int64", headers: amqp.Table{"x-retry-count": int64(3)}, want: 3},
		{name: "wrong type", headers: amqp.Table{"x-retry-count": "2"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryCount(tt.headers))
		})
	}
}

func TestReroute(t *testing.T) {
	b := &RabbitMQBroker{maxRetries: 2, retryDelay: time.Millisecond}
	cause := errors.New("audit store down")

	target, headers := b.reroute(QueueOrderEvents, 1, cause)
	assert.Equal(t, QueueOrderEvents, target)
	assert.Equal(t, amqp.Table{"x-retry-count": int32(2)}, headers)

	target, headers = b.reroute(QueueOrderEvents, 2, cause)
	assert.Equal(t, QueueOrderEventsDLQ, target)
	assert.Equal(t, amqp.Table{
		"x-original-queue": QueueOrderEvents,
		"x-retry-count":    int32(2),
		"x-error":          "audit store down",
	}, headers)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{MaxRetries: -1}.withDefaults()
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)

	cfg = Config{MaxRetries: 0, RetryDelay: time.Second}.withDefaults()
	assert.Equal(t, 0, cfg.MaxRetries)
}
