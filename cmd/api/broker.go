package main

import (
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/queue"
)

// openBroker connects to RabbitMQ, or keeps events in process when no URL is
// configured.
func openBroker(cfg rabbitMQConfig, logger *zap.SugaredLogger) (queue.Broker, error) {
	if cfg.URL == "" {
		logger.Warn("RabbitMQ url not provided, order events stay in process")
		return queue.NewMemoryBroker(cfg.MaxRetries, cfg.RetryDelay), nil
	}

	broker, err := queue.NewRabbitMQBroker(queue.Config{
		URL:           cfg.URL,
		MaxRetries:    cfg.MaxRetries,
		RetryDelay:    cfg.RetryDelay,
		PrefetchCount: cfg.PrefetchCount,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to RabbitMQ")

	return broker, nil
}

