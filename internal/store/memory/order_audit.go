package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

type OrderAuditRepository struct {
	mu      sync.RWMutex
	byOrder map[string][]domain.OrderAudit
}

func NewOrderAuditRepository() *OrderAuditRepository {
	return &OrderAuditRepository{byOrder: make(map[string][]domain.OrderAudit)}
}

func (r *OrderAuditRepository) Create(ctx context.Context, audit *domain.OrderAudit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if audit.ID.IsZero() {
		audit.ID = primitive.NewObjectID()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byOrder[audit.OrderID] = append(r.byOrder[audit.OrderID], *audit)
	return nil
}

// GetByOrderID returns the newest entries first.
func (r *OrderAuditRepository) GetByOrderID(ctx context.Context, orderID string, limit int) ([]domain.OrderAudit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	audits := append([]domain.OrderAudit{}, r.byOrder[orderID]...)
	r.mu.RUnlock()

	sort.SliceStable(audits, func(i, j int) bool {
		return audits[i].Timestamp.After(audits[j].Timestamp)
	})
	if limit > 0 && len(audits) > limit {
		audits = audits[:limit]
	}
	return audits, nil
}
