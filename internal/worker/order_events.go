package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/queue"
)

// OrderEventProcessor is satisfied by service.AuditService.
type OrderEventProcessor interface {
	ProcessOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type OrderEventWorker struct {
	processor OrderEventProcessor
	broker    queue.Broker
	logger    *zap.SugaredLogger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewOrderEventWorker(
	processor OrderEventProcessor,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OrderEventWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &OrderEventWorker{
		processor: processor,
		broker:    broker,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *OrderEventWorker) Start() error {
	w.logger.Info("starting order event worker")

	return w.broker.Subscribe(w.ctx, queue.QueueOrderEvents, w.handleMessage)
}

func (w *OrderEventWorker) Stop() {
	w.logger.Info("stopping order event worker")
	w.cancel()
}

func (w *OrderEventWorker) handleMessage(ctx context.Context, message []byte) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(message, &event); err != nil {
		w.logger.Errorw("failed to unmarshal event", "error", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	w.logger.Infow("processing order event", "order_id", event.OrderID, "event_type", event.EventType)

	if err := w.processor.ProcessOrderEvent(ctx, event); err != nil {
		w.logger.Errorw("failed to process order event", "order_id", event.OrderID, "error", err)
		return err
	}

	return nil
}
