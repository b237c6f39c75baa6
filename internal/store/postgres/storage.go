package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	pool *pgxpool.Pool
}

type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}

// InitSchema creates the tables when they do not exist yet.
func (s *Storage) InitSchema(ctx context.Context) error {
	ordersSQL := `
		CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.pool.Exec(ctx, ordersSQL); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}

	auditSQL := `
		CREATE TABLE IF NOT EXISTS order_audit (
			id BIGSERIAL PRIMARY KEY,
			order_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			input TEXT NOT NULL DEFAULT '',
			reply TEXT NOT NULL DEFAULT '',
			item_count INTEGER NOT NULL DEFAULT 0,
			message_count INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := s.pool.Exec(ctx, auditSQL); err != nil {
		return fmt.Errorf("failed to create order_audit table: %w", err)
	}

	indexSQL := `CREATE INDEX IF NOT EXISTS order_audit_order_id_idx ON order_audit (order_id, timestamp DESC)`
	if _, err := s.pool.Exec(ctx, indexSQL); err != nil {
		return fmt.Errorf("failed to create order_audit index: %w", err)
	}

	return nil
}
