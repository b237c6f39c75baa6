package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

const auditCollection = "order_audit"

type OrderAuditRepository struct {
	collection *mongo.Collection
}

func NewOrderAuditRepository(db *mongo.Database) *OrderAuditRepository {
	return &OrderAuditRepository{
		collection: db.Collection(auditCollection),
	}
}

func (r *OrderAuditRepository) Create(ctx context.Context, audit *domain.OrderAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if audit.ID.IsZero() {
		audit.ID = primitive.NewObjectID()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to create order audit: %w", err)
	}

	return nil
}

func (r *OrderAuditRepository) GetByOrderID(ctx context.Context, orderID string, limit int) ([]domain.OrderAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"order_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get order audits: %w", err)
	}
	defer cursor.Close(ctx)

	audits := []domain.OrderAudit{}
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode order audits: %w", err)
	}

	return audits, nil
}
