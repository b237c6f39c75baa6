package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

type OrderAuditRepository struct {
	db *pgxpool.Pool
}

func NewOrderAuditRepository(db *pgxpool.Pool) *OrderAuditRepository {
	return &OrderAuditRepository{db: db}
}

func (r *OrderAuditRepository) Create(ctx context.Context, audit *domain.OrderAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO order_audit (order_id, event_type, input, reply, item_count, message_count, error, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, audit.OrderID, audit.EventType, audit.Input, audit.Reply, audit.ItemCount, audit.MessageCount, audit.Error, audit.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create order audit: %w", err)
	}

	return nil
}

func (r *OrderAuditRepository) GetByOrderID(ctx context.Context, orderID string, limit int) ([]domain.OrderAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT order_id, event_type, input, reply, item_count, message_count, error, timestamp
		FROM order_audit
		WHERE order_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get order audits: %w", err)
	}
	defer rows.Close()

	audits := []domain.OrderAudit{}
	for rows.Next() {
		var a domain.OrderAudit
		if err := rows.Scan(&a.OrderID, &a.EventType, &a.Input, &a.Reply, &a.ItemCount, &a.MessageCount, &a.Error, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan order audit: %w", err)
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order audits: %w", err)
	}

	return audits, nil
}
