package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/repo"
)

const DefaultAuditLimit = 50

type AuditService struct {
	orders    repo.OrderRepository
	auditRepo repo.OrderAuditRepository
	logger    *zap.SugaredLogger
}

func NewAuditService(
	orders repo.OrderRepository,
	auditRepo repo.OrderAuditRepository,
	logger *zap.SugaredLogger,
) *AuditService {
	return &AuditService{
		orders:    orders,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

func (s *AuditService) ProcessOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	audit := &domain.OrderAudit{
		OrderID:      event.OrderID,
		EventType:    event.EventType,
		Input:        event.Input,
		Reply:        event.Reply,
		ItemCount:    event.ItemCount,
		MessageCount: event.MessageCount,
		Error:        event.Error,
		Timestamp:    event.Timestamp,
	}

	if err := s.auditRepo.Create(ctx, audit); err != nil {
		s.logger.Errorw("failed to create audit record", "order_id", event.OrderID, "error", err)
		return fmt.Errorf("failed to create audit record: %w", err)
	}

	s.logger.Infow("order audit created", "order_id", event.OrderID, "event_type", event.EventType)

	return nil
}

// GetOrderAudit returns the newest audit records of an existing order.
func (s *AuditService) GetOrderAudit(ctx context.Context, orderID string, limit int) ([]domain.OrderAudit, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}

	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	audits, err := s.auditRepo.GetByOrderID(ctx, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get order audit: %w", err)
	}

	return audits, nil
}
