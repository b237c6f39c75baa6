package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/repo"
)

const ordersCollection = "orders"

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(ordersCollection),
	}
}

func (r *OrderRepository) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	normalize(&order)
	return &order, nil
}

func (r *OrderRepository) Set(ctx context.Context, order *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"order_id": order.ID}, order, opts)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// normalize restores empty lists that BSON decodes as nil.
func normalize(order *domain.Order) {
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	if order.Messages == nil {
		order.Messages = []domain.Message{}
	}
	for i := range order.Items {
		if order.Items[i].OptionKeys == nil {
			order.Items[i].OptionKeys = []string{}
		}
		if order.Items[i].OptionValues == nil {
			order.Items[i].OptionValues = [][]string{}
		}
	}
}
