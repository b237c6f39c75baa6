package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/queue"
	"github.com/sachiniyer/order-assistant/internal/repo"
)

// Turner runs one chat exchange against an order.
type Turner interface {
	ProcessTurn(ctx context.Context, order *domain.Order, message, location string) error
}

type OrderService struct {
	orders    repo.OrderRepository
	assistant Turner
	broker    queue.Broker
	logger    *zap.SugaredLogger
	locks     *keyedLock
	newID     func() string
}

func NewOrderService(
	orders repo.OrderRepository,
	assistant Turner,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		assistant: assistant,
		broker:    broker,
		logger:    logger,
		locks:     newKeyedLock(),
		newID:     uuid.NewString,
	}
}

// StartOrder stores an empty order and returns its id. The conversation
// itself is opened by the first Chat call.
func (s *OrderService) StartOrder(ctx context.Context, location string) (string, error) {
	order := domain.NewOrder(s.newID())

	if err := s.orders.Set(ctx, order); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Infow("order started", "order_id", order.ID, "location", location)
	s.publish(ctx, domain.OrderEvent{
		EventType: domain.EventOrderStarted,
		OrderID:   order.ID,
	})

	return order.ID, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// Chat runs one turn for the order. Turns for the same order are
// serialized. The order is saved whether or not the turn succeeded, and on
// a turn failure both the saved order and the turn error are returned.
func (s *OrderService) Chat(ctx context.Context, orderID, input, location string) (*domain.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	turnErr := s.assistant.ProcessTurn(ctx, order, input, location)

	// the client may be gone, the order still has to be saved
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.orders.Set(saveCtx, order); err != nil {
		s.logger.Errorw("failed to save order", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	event := domain.OrderEvent{
		EventType:    domain.EventTurnCompleted,
		OrderID:      order.ID,
		Input:        input,
		ItemCount:    len(order.Items),
		MessageCount: len(order.Messages),
	}
	if order.HasThread() {
		event.ThreadID = *order.ThreadID
	}
	if turnErr != nil {
		event.EventType = domain.EventTurnFailed
		event.Error = turnErr.Error()
	} else if n := len(order.Messages); n > 0 && order.Messages[n-1].Role == domain.RoleAssistant {
		event.Reply = order.Messages[n-1].Content
	}
	s.publish(saveCtx, event)

	if turnErr != nil {
		return order, turnErr
	}
	return order, nil
}

// publish is best effort: a lost audit event never fails the request.
func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.broker == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorw("failed to marshal order event", "order_id", event.OrderID, "error", err)
		return
	}

	if err := s.broker.Publish(ctx, queue.QueueOrderEvents, eventBytes); err != nil {
		s.logger.Errorw("failed to publish order event", "order_id", event.OrderID, "event_type", event.EventType, "error", err)
		return
	}

	s.logger.Debugw("order event queued", "order_id", event.OrderID, "event_type", event.EventType)
}
