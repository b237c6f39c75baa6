package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrBrokerClosed = errors.New("broker is closed")
	ErrQueueFull    = errors.New("queue is full")
)

// MemoryBroker delivers messages between goroutines of one process. It
// follows the RabbitMQ broker's retry and dead letter rules so workers
// behave the same against either.
type MemoryBroker struct {
	mu         sync.Mutex
	queues     map[string]chan []byte
	dead       map[string][][]byte
	maxRetries int
	retryDelay time.Duration
	closed     bool
	wg         sync.WaitGroup
}

const memoryQueueSize = 256

func NewMemoryBroker(maxRetries int, retryDelay time.Duration) *MemoryBroker {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &MemoryBroker{
		queues:     make(map[string]chan []byte),
		dead:       make(map[string][][]byte),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

func (b *MemoryBroker) queue(name string) chan []byte {
	q, ok := b.queues[name]
	if !ok {
		q = make(chan []byte, memoryQueueSize)
		b.queues[name] = q
	}
	return q
}

// Publish never waits for room: a full queue drops the message with
// ErrQueueFull.
func (b *MemoryBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	q := b.queue(queueName)
	b.mu.Unlock()

	select {
	case q <- append([]byte(nil), message...):
		return nil
	default:
		return ErrQueueFull
	}
}

func (b *MemoryBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	q := b.queue(queueName)
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-q:
				b.handleMessage(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

func (b *MemoryBroker) handleMessage(ctx context.Context, msg []byte, handler MessageHandler, queueName string) {
	var err error
	for retry := 0; ; retry++ {
		if err = handler(ctx, msg); err == nil {
			return
		}
		if retry >= b.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff(b.retryDelay, retry)):
		}
	}

	b.mu.Lock()
	dlq := dlqName(queueName)
	b.dead[dlq] = append(b.dead[dlq], msg)
	b.mu.Unlock()
}

// DeadLetters returns the messages that exhausted their retries on queueName.
func (b *MemoryBroker) DeadLetters(queueName string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([][]byte(nil), b.dead[dlqName(queueName)]...)
}

// Close stops accepting messages. Subscribers exit when their context ends.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

// Wait blocks until every subscriber goroutine has returned.
func (b *MemoryBroker) Wait() {
	b.wg.Wait()
}
