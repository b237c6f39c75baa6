package repo

import (
	"context"
	"errors"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository stores whole orders keyed by order id. Set inserts or
// replaces; Get returns ErrOrderNotFound for unknown ids.
type OrderRepository interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	Set(ctx context.Context, order *domain.Order) error
}
