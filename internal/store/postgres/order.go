package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/repo"
)

// OrderRepository keeps each order as a JSONB document.
type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		doc       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT document, created_at, updated_at
		FROM orders
		WHERE order_id = $1
	`, orderID).Scan(&doc, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order, err := decodeOrder(doc)
	if err != nil {
		return nil, err
	}
	order.CreatedAt = createdAt
	order.UpdatedAt = updatedAt

	return order, nil
}

func (r *OrderRepository) Set(ctx context.Context, order *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc, err := encodeOrder(order)
	if err != nil {
		return err
	}

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (order_id, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`, order.ID, doc, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// The document column holds the order's JSON form. Timestamps live in their
// own columns.
func encodeOrder(order *domain.Order) ([]byte, error) {
	doc, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	return doc, nil
}

func decodeOrder(doc []byte) (*domain.Order, error) {
	var order domain.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	if order.Messages == nil {
		order.Messages = []domain.Message{}
	}
	return &order, nil
}
