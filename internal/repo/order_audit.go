package repo

import (
	"context"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

type OrderAuditRepository interface {
	Create(ctx context.Context, audit *domain.OrderAudit) error
	GetByOrderID(ctx context.Context, orderID string, limit int) ([]domain.OrderAudit, error)
}
