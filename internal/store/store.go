// Package store opens the order storage backend selected by configuration.
package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/repo"
	"github.com/sachiniyer/order-assistant/internal/store/cache"
	"github.com/sachiniyer/order-assistant/internal/store/memory"
	"github.com/sachiniyer/order-assistant/internal/store/mongo"
	"github.com/sachiniyer/order-assistant/internal/store/postgres"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Backend   string
	CacheSize int

	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	PostgresDSN string
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Backend bundles the repositories of one storage backend. Storage is nil
// for the in-memory backend.
type Backend struct {
	Orders  repo.OrderRepository
	Audits  repo.OrderAuditRepository
	Storage HealthChecker
	close   func(context.Context) error
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

func Open(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (*Backend, error) {
	var b *Backend

	switch cfg.Backend {
	case "", BackendMongo:
		storage, err := mongo.New(mongo.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Timeout:  cfg.MongoTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("connected to MongoDB")

		if err := storage.CreateIndexes(ctx); err != nil {
			logger.Warnw("failed to create indexes", "error", err)
		} else {
			logger.Info("MongoDB indexes created successfully")
		}

		b = &Backend{
			Orders:  mongo.NewOrderRepository(storage.Database()),
			Audits:  mongo.NewOrderAuditRepository(storage.Database()),
			Storage: storage,
			close:   storage.Close,
		}

	case BackendPostgres:
		storage, err := postgres.New(ctx, postgres.Config{DSN: cfg.PostgresDSN})
		if err != nil {
			return nil, err
		}
		logger.Info("connected to PostgreSQL")

		if err := storage.InitSchema(ctx); err != nil {
			storage.Close()
			return nil, err
		}

		b = &Backend{
			Orders:  postgres.NewOrderRepository(storage.Pool()),
			Audits:  postgres.NewOrderAuditRepository(storage.Pool()),
			Storage: storage,
			close: func(context.Context) error {
				storage.Close()
				return nil
			},
		}

	case BackendMemory:
		logger.Warn("using in-memory order store, orders are lost on restart")
		b = &Backend{
			Orders: memory.NewOrderRepository(),
			Audits: memory.NewOrderAuditRepository(),
		}

	default:
		return nil, fmt.Errorf("unknown order store %q", cfg.Backend)
	}

	if cfg.CacheSize > 0 {
		cached, err := cache.NewOrderRepository(b.Orders, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		b.Orders = cached
	}

	return b, nil
}
