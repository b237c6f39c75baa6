// Package cache fronts an order repository with a bounded in-process LRU.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/repo"
)

const DefaultSize = 1024

// OrderRepository is a write-through cache. Only successful writes and
// reads populate it, so a failed Set never leaves a stale entry behind.
type OrderRepository struct {
	next  repo.OrderRepository
	cache *lru.Cache[string, *domain.Order]
}

func NewOrderRepository(next repo.OrderRepository, size int) (*OrderRepository, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, *domain.Order](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create order cache: %w", err)
	}
	return &OrderRepository{next: next, cache: c}, nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	if order, ok := r.cache.Get(orderID); ok {
		return order.Clone(), nil
	}

	order, err := r.next.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	r.cache.Add(orderID, order.Clone())
	return order, nil
}

func (r *OrderRepository) Set(ctx context.Context, order *domain.Order) error {
	if err := r.next.Set(ctx, order); err != nil {
		r.cache.Remove(order.ID)
		return err
	}
	r.cache.Add(order.ID, order.Clone())
	return nil
}

func (r *OrderRepository) Len() int {
	return r.cache.Len()
}
